// Package view turns aggregated records into render-ready card models.
// It performs no output writing, so any rendering layer (templates,
// JSON, terminal) can consume it.
package view

import (
	"fmt"
	"time"

	"github.com/byron-goldsack/GithubMonitor/internal/models"
)

// PaletteSize is the number of repository accent colors; repositories
// wrap around it by their position in the configured list.
const PaletteSize = 8

// ReviewGroup is one classified reviewer bucket on a PR card.
type ReviewGroup struct {
	Label  string
	Count  int
	Logins []string
}

// Outstanding is a reviewer whose review is still requested.
type Outstanding struct {
	Name string
	Kind string // "user" or "team"
}

// RunChip is the compact workflow indicator on a PR card.
type RunChip struct {
	Name       string
	Icon       string
	StatusText string
	URL        string
}

// PRCard is the display model for one pull request.
type PRCard struct {
	Number           int
	Title            string
	URL              string
	Repository       string
	RepoColor        int
	Draft            bool
	HeadBranch       string
	BaseBranch       string
	BaseIsTrunk      bool
	Approved         ReviewGroup
	ChangesRequested ReviewGroup
	Pending          ReviewGroup
	Outstanding      []Outstanding
	Workflows        []RunChip
	LastActivity     string
	CreatedAgo       string
}

// RunCard is the display model for one standalone workflow run.
type RunCard struct {
	Name       string
	Icon       string
	StatusText string
	Repository string
	Branch     string
	ShortSHA   string
	URL        string
	CreatedAgo string
}

// PRCards builds the card models for the dashboard. The repository list
// must be the configured one; its order decides the accent color.
func PRCards(prs []models.PullRequest, repos []string, now time.Time) []PRCard {
	colors := make(map[string]int, len(repos))
	for i, r := range repos {
		colors[r] = i % PaletteSize
	}

	cards := make([]PRCard, 0, len(prs))
	for _, pr := range prs {
		card := PRCard{
			Number:           pr.Number,
			Title:            pr.Title,
			URL:              pr.URL,
			Repository:       pr.Repository,
			RepoColor:        colors[pr.Repository],
			Draft:            pr.Draft,
			HeadBranch:       pr.HeadBranch,
			BaseBranch:       pr.BaseBranch,
			BaseIsTrunk:      pr.BaseBranch == "main" || pr.BaseBranch == "master",
			Approved:         reviewGroup("Approved", pr.Reviews.Approved),
			ChangesRequested: reviewGroup("Changes requested", pr.Reviews.ChangesRequested),
			Pending:          reviewGroup("Pending", pr.Reviews.Pending),
			Outstanding:      outstanding(pr.Reviews),
			Workflows:        runChips(pr.WorkflowRuns),
			CreatedAgo:       Relative(pr.CreatedAt, now),
		}
		if pr.LatestComment != nil {
			card.LastActivity = Relative(*pr.LatestComment, now)
		}
		cards = append(cards, card)
	}
	return cards
}

// RunCards builds the card models for the standalone workflow panel
func RunCards(runs []models.WorkflowRun, now time.Time) []RunCard {
	cards := make([]RunCard, 0, len(runs))
	for _, run := range runs {
		icon, text := RunStatus(run.Status, run.Conclusion)
		cards = append(cards, RunCard{
			Name:       run.Name,
			Icon:       icon,
			StatusText: text,
			Repository: run.Repository,
			Branch:     run.HeadBranch,
			ShortSHA:   run.HeadSHA,
			URL:        run.URL,
			CreatedAgo: Relative(run.CreatedAt, now),
		})
	}
	return cards
}

func reviewGroup(label string, reviewers []models.Reviewer) ReviewGroup {
	logins := make([]string, 0, len(reviewers))
	for _, r := range reviewers {
		logins = append(logins, r.Login)
	}
	return ReviewGroup{Label: label, Count: len(logins), Logins: logins}
}

func outstanding(summary models.ReviewSummary) []Outstanding {
	out := make([]Outstanding, 0, len(summary.RequestedUsers)+len(summary.RequestedTeams))
	for _, login := range summary.RequestedUsers {
		out = append(out, Outstanding{Name: login, Kind: "user"})
	}
	for _, team := range summary.RequestedTeams {
		name := team.Name
		if name == "" {
			name = team.Slug
		}
		out = append(out, Outstanding{Name: name, Kind: "team"})
	}
	return out
}

func runChips(runs []models.WorkflowRun) []RunChip {
	chips := make([]RunChip, 0, len(runs))
	for _, run := range runs {
		icon, text := RunStatus(run.Status, run.Conclusion)
		chips = append(chips, RunChip{
			Name:       run.Name,
			Icon:       icon,
			StatusText: text,
			URL:        run.URL,
		})
	}
	return chips
}

// RunStatus maps a run's status and conclusion to a display icon and
// text. Conclusion only matters once the run has completed.
func RunStatus(status, conclusion string) (icon, text string) {
	switch status {
	case models.RunStatusQueued:
		return "●", "queued"
	case models.RunStatusInProgress:
		return "◐", "running"
	case models.RunStatusCompleted:
		switch conclusion {
		case models.RunConclusionSuccess:
			return "✓", "passed"
		case models.RunConclusionFailure:
			return "✗", "failed"
		case models.RunConclusionCancelled:
			return "⊘", "cancelled"
		case models.RunConclusionTimedOut:
			return "⏱", "timed out"
		default:
			return "○", conclusion
		}
	default:
		return "○", status
	}
}

// Relative formats a timestamp relative to now: "just now" under a
// minute, then minutes, hours and days, falling back to a date (with
// the year only when it differs from the current one).
func Relative(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	case t.Year() == now.Year():
		return t.Format("Jan 2")
	default:
		return t.Format("Jan 2, 2006")
	}
}
