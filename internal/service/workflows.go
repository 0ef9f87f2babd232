package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/byron-goldsack/GithubMonitor/internal/config"
	"github.com/byron-goldsack/GithubMonitor/internal/models"
	"go.uber.org/zap"
)

// Runs older than this are not worth showing on the dashboard.
const standaloneRunWindow = 72 * time.Hour

// Head branches under this namespace belong to PR-triggered runs.
const pullRefPrefix = "refs/pull/"

const shortSHALength = 7

// ListStandaloneRuns fetches the configured user's recent workflow runs
// that are not attached to any pull request: runs within the recency
// window whose head branch is not a synthetic PR ref and that the API
// reports as unassociated with PRs. Per-repository failures degrade to
// zero runs for that repository.
func (s *Service) ListStandaloneRuns(ctx context.Context) ([]models.WorkflowRun, error) {
	cutoff := s.now().Add(-standaloneRunWindow)
	result := make([]models.WorkflowRun, 0)

	for _, full := range s.repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		owner, repo, err := config.SplitRepository(full)
		if err != nil {
			s.logger.Warn("skipping malformed repository", zap.String("repository", full), zap.Error(err))
			continue
		}

		runs, err := s.client.ListWorkflowRunsForActor(ctx, owner, repo, s.username)
		if err != nil {
			s.logger.Error("failed to list workflow runs",
				zap.String("repository", full),
				zap.Error(err))
			continue
		}

		for _, run := range runs {
			// Boundary is exclusive: a run created exactly at the
			// cutoff instant is dropped.
			if !run.CreatedAt.After(cutoff) {
				continue
			}
			if strings.HasPrefix(run.HeadBranch, pullRefPrefix) {
				continue
			}
			if len(run.PullRequests) > 0 {
				continue
			}
			result = append(result, models.WorkflowRun{
				ID:         run.ID,
				Name:       run.Name,
				Status:     run.Status,
				Conclusion: run.Conclusion,
				CreatedAt:  run.CreatedAt,
				UpdatedAt:  run.UpdatedAt,
				URL:        run.HTMLURL,
				Repository: full,
				HeadBranch: run.HeadBranch,
				HeadSHA:    shortSHA(run.HeadSHA),
			})
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}
