package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const defaultAPIBaseURL = "https://api.github.com"

type Config struct {
	GitHub GitHubConfig `mapstructure:"github"`
	Server ServerConfig `mapstructure:"server"`
	Logger LoggerConfig `mapstructure:"logger"`
}

type GitHubConfig struct {
	Token        string   `mapstructure:"token"`
	Username     string   `mapstructure:"username"`
	Repositories []string `mapstructure:"repositories"`
	APIBaseURL   string   `mapstructure:"api_base_url"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads config.yaml (optional) and overrides values from environment
// variables. The credential and username are required: the service cannot
// talk to the API without them, so their absence is a startup failure.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	bindEnvVariables(v)
	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// GITHUB_REPOSITORIES arrives as a comma-separated string when set
	// through the environment; entries may carry whitespace either way.
	cfg.GitHub.Repositories = normalizeRepositories(cfg.GitHub.Repositories)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// bindEnvVariables explicitly binds environment variables to config keys
func bindEnvVariables(v *viper.Viper) {
	// GitHub
	v.BindEnv("github.token", "GITHUB_TOKEN")
	v.BindEnv("github.username", "GITHUB_USERNAME")
	v.BindEnv("github.repositories", "GITHUB_REPOSITORIES")
	v.BindEnv("github.api_base_url", "GITHUB_API_URL")

	// Server
	v.BindEnv("server.host", "SERVER_HOST")
	v.BindEnv("server.port", "SERVER_PORT")

	// Logger
	v.BindEnv("logger.level", "LOG_LEVEL")
	v.BindEnv("logger.format", "LOG_FORMAT")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("github.api_base_url", defaultAPIBaseURL)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
}

// Validate checks the fatal startup conditions
func (c *Config) Validate() error {
	if c.GitHub.Token == "" {
		return errors.New("github token is required (GITHUB_TOKEN)")
	}
	if c.GitHub.Username == "" {
		return errors.New("github username is required (GITHUB_USERNAME)")
	}
	if len(c.GitHub.Repositories) == 0 {
		return errors.New("at least one repository is required (GITHUB_REPOSITORIES)")
	}
	for _, repo := range c.GitHub.Repositories {
		if _, _, err := SplitRepository(repo); err != nil {
			return err
		}
	}
	return nil
}

// SplitRepository splits an "owner/name" identifier into its parts
func SplitRepository(full string) (owner, name string, err error) {
	parts := strings.Split(full, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository identifier %q, expected owner/name", full)
	}
	return parts[0], parts[1], nil
}

func normalizeRepositories(raw []string) []string {
	repos := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, p := range strings.Split(entry, ",") {
			if p = strings.TrimSpace(p); p != "" {
				repos = append(repos, p)
			}
		}
	}
	return repos
}

// GetAddress returns the listen address in host:port form
func (c *ServerConfig) GetAddress() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
