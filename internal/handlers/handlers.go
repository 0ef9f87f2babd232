package handlers

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/byron-goldsack/GithubMonitor/internal/config"
	"github.com/byron-goldsack/GithubMonitor/internal/models"
	"github.com/byron-goldsack/GithubMonitor/internal/view"
	"github.com/byron-goldsack/GithubMonitor/internal/web"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// DashboardService is the aggregation surface the handlers depend on
type DashboardService interface {
	ListUserPRs(ctx context.Context) ([]models.PullRequest, error)
	ListStandaloneRuns(ctx context.Context) ([]models.WorkflowRun, error)
}

type Handler struct {
	svc      DashboardService
	renderer *web.Renderer
	username string
	repos    []string
	logger   *zap.Logger
	now      func() time.Time
}

// New creates a new handler instance
func New(svc DashboardService, renderer *web.Renderer, cfg *config.Config, logger *zap.Logger) *Handler {
	return &Handler{
		svc:      svc,
		renderer: renderer,
		username: cfg.GitHub.Username,
		repos:    cfg.GitHub.Repositories,
		logger:   logger,
		now:      time.Now,
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// GetPRs returns the aggregated pull request list
func (h *Handler) GetPRs(c echo.Context) error {
	prs, err := h.svc.ListUserPRs(c.Request().Context())
	if err != nil {
		h.logger.Error("GetPRs: aggregation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to fetch pull requests"})
	}

	h.logger.Info("GetPRs: aggregation complete", zap.Int("prs_count", len(prs)))
	return c.JSON(http.StatusOK, prs)
}

// GetWorkflows returns the standalone workflow run list
func (h *Handler) GetWorkflows(c echo.Context) error {
	runs, err := h.svc.ListStandaloneRuns(c.Request().Context())
	if err != nil {
		h.logger.Error("GetWorkflows: collection failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to fetch workflow runs"})
	}

	h.logger.Info("GetWorkflows: collection complete", zap.Int("runs_count", len(runs)))
	return c.JSON(http.StatusOK, runs)
}

// GetConfig returns the configured identity for the dashboard header
func (h *Handler) GetConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"username":     h.username,
		"repositories": h.repos,
	})
}

// GetIndex renders the full dashboard page
func (h *Handler) GetIndex(c echo.Context) error {
	ctx := c.Request().Context()

	prs, err := h.svc.ListUserPRs(ctx)
	if err != nil {
		h.logger.Error("GetIndex: aggregation failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to fetch pull requests")
	}
	runs, err := h.svc.ListStandaloneRuns(ctx)
	if err != nil {
		h.logger.Error("GetIndex: collection failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to fetch workflow runs")
	}

	now := h.now()
	var buf bytes.Buffer
	err = h.renderer.RenderIndex(&buf, web.IndexData{
		Username:  h.username,
		PRs:       view.PRCards(prs, h.repos, now),
		Workflows: view.RunCards(runs, now),
	})
	if err != nil {
		h.logger.Error("GetIndex: render failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to render dashboard")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// GetPRsFragment renders the pull request panel for the refresh loop
func (h *Handler) GetPRsFragment(c echo.Context) error {
	prs, err := h.svc.ListUserPRs(c.Request().Context())
	if err != nil {
		h.logger.Error("GetPRsFragment: aggregation failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to fetch pull requests")
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderPRs(&buf, view.PRCards(prs, h.repos, h.now())); err != nil {
		h.logger.Error("GetPRsFragment: render failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to render pull requests")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// GetWorkflowsFragment renders the workflow panel for the refresh loop
func (h *Handler) GetWorkflowsFragment(c echo.Context) error {
	runs, err := h.svc.ListStandaloneRuns(c.Request().Context())
	if err != nil {
		h.logger.Error("GetWorkflowsFragment: collection failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to fetch workflow runs")
	}

	var buf bytes.Buffer
	if err := h.renderer.RenderWorkflows(&buf, view.RunCards(runs, h.now())); err != nil {
		h.logger.Error("GetWorkflowsFragment: render failed", zap.Error(err))
		return c.String(http.StatusInternalServerError, "failed to render workflow runs")
	}
	return c.HTMLBlob(http.StatusOK, buf.Bytes())
}

// RegisterRoutes registers all routes
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	// JSON API
	e.GET("/api/prs", h.GetPRs)
	e.GET("/api/workflows", h.GetWorkflows)
	e.GET("/api/config", h.GetConfig)

	// Dashboard
	e.GET("/", h.GetIndex)
	e.GET("/fragments/prs", h.GetPRsFragment)
	e.GET("/fragments/workflows", h.GetWorkflowsFragment)
	e.StaticFS("/static", web.StaticFS())
}
