package service

import (
	"context"
	"sort"
	"time"

	"github.com/byron-goldsack/GithubMonitor/internal/config"
	"github.com/byron-goldsack/GithubMonitor/internal/github"
	"github.com/byron-goldsack/GithubMonitor/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service aggregates pull request and workflow state across the
// configured repositories. Per-unit fetch failures are logged and
// degrade to empty results; only context cancellation aborts a cycle.
type Service struct {
	client   github.API
	username string
	repos    []string
	logger   *zap.Logger
	now      func() time.Time
}

// New creates the aggregation service
func New(client github.API, cfg *config.Config, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		username: cfg.GitHub.Username,
		repos:    cfg.GitHub.Repositories,
		logger:   logger,
		now:      time.Now,
	}
}

// ListUserPRs fetches the configured user's open PRs across all
// repositories and merges reviews, latest comment and CI runs into
// each record. Repositories are processed one at a time; the three
// per-PR sub-fetches run concurrently.
func (s *Service) ListUserPRs(ctx context.Context) ([]models.PullRequest, error) {
	result := make([]models.PullRequest, 0)

	for _, full := range s.repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		owner, repo, err := config.SplitRepository(full)
		if err != nil {
			s.logger.Warn("skipping malformed repository", zap.String("repository", full), zap.Error(err))
			continue
		}

		prs, err := s.client.ListOpenPullRequests(ctx, owner, repo)
		if err != nil {
			// One failing repository contributes zero PRs; the rest
			// of the cycle continues.
			s.logger.Error("failed to list pull requests",
				zap.String("repository", full),
				zap.Error(err))
			continue
		}

		for _, pr := range prs {
			if pr.User.Login != s.username {
				continue
			}
			result = append(result, s.aggregatePR(ctx, owner, repo, full, pr))
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

// aggregatePR builds the full record for one PR. The sub-fetches write
// to disjoint fields, so they run without locking.
func (s *Service) aggregatePR(ctx context.Context, owner, repo, full string, pr github.PullRequest) models.PullRequest {
	record := models.PullRequest{
		ID:           pr.ID,
		Number:       pr.Number,
		Title:        pr.Title,
		Repository:   full,
		URL:          pr.HTMLURL,
		HeadBranch:   pr.Head.Ref,
		BaseBranch:   pr.Base.Ref,
		CreatedAt:    pr.CreatedAt,
		UpdatedAt:    pr.UpdatedAt,
		Author:       pr.User.Login,
		Draft:        pr.Draft,
		Mergeable:    pr.Mergeable,
		WorkflowRuns: make([]models.WorkflowRun, 0),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		record.Reviews = s.getPRReviews(gctx, owner, repo, pr.Number)
		return nil
	})
	g.Go(func() error {
		record.LatestComment = s.getLatestComment(gctx, owner, repo, pr.Number)
		return nil
	})
	g.Go(func() error {
		record.WorkflowRuns = s.getHeadWorkflowRuns(gctx, owner, repo, full, pr.Head.SHA)
		return nil
	})
	_ = g.Wait()

	return record
}

// getPRReviews classifies submitted reviews and joins the live snapshot
// of outstanding review requests. Either fetch failing leaves its part
// of the summary empty; the caller is never failed.
func (s *Service) getPRReviews(ctx context.Context, owner, repo string, number int) models.ReviewSummary {
	summary := models.ReviewSummary{
		Approved:         make([]models.Reviewer, 0),
		ChangesRequested: make([]models.Reviewer, 0),
		Pending:          make([]models.Reviewer, 0),
		RequestedUsers:   make([]string, 0),
		RequestedTeams:   make([]models.TeamRef, 0),
	}

	reviews, err := s.client.ListReviews(ctx, owner, repo, number)
	if err != nil {
		s.logger.Warn("failed to fetch reviews",
			zap.String("repository", owner+"/"+repo),
			zap.Int("pr", number),
			zap.Error(err))
	} else {
		classifyReviews(reviews, &summary)
	}

	requested, err := s.client.ListRequestedReviewers(ctx, owner, repo, number)
	if err != nil {
		s.logger.Warn("failed to fetch requested reviewers",
			zap.String("repository", owner+"/"+repo),
			zap.Int("pr", number),
			zap.Error(err))
		return summary
	}
	for _, u := range requested.Users {
		summary.RequestedUsers = append(summary.RequestedUsers, u.Login)
	}
	for _, t := range requested.Teams {
		summary.RequestedTeams = append(summary.RequestedTeams, models.TeamRef{Slug: t.Slug, Name: t.Name})
	}

	return summary
}

// classifyReviews partitions the review list by state. The list is
// historical, so only each reviewer's latest APPROVED/CHANGES_REQUESTED/
// PENDING review counts; that keeps every login in at most one bucket.
// All other states are dropped.
func classifyReviews(reviews []github.Review, summary *models.ReviewSummary) {
	latest := make(map[string]github.Review)
	order := make([]string, 0, len(reviews))

	for _, r := range reviews {
		switch r.State {
		case models.ReviewStateApproved, models.ReviewStateChangesRequested, models.ReviewStatePending:
		default:
			continue
		}
		if _, seen := latest[r.User.Login]; !seen {
			order = append(order, r.User.Login)
		}
		latest[r.User.Login] = r
	}

	for _, login := range order {
		r := latest[login]
		reviewer := models.Reviewer{
			Login:       login,
			SubmittedAt: r.SubmittedAt,
			Association: r.AuthorAssociation,
		}
		switch r.State {
		case models.ReviewStateApproved:
			summary.Approved = append(summary.Approved, reviewer)
		case models.ReviewStateChangesRequested:
			summary.ChangesRequested = append(summary.ChangesRequested, reviewer)
		case models.ReviewStatePending:
			summary.Pending = append(summary.Pending, reviewer)
		}
	}
}

// getLatestComment returns the newest creation timestamp across issue
// and review comments, or nil if there are none or the fetch fails.
func (s *Service) getLatestComment(ctx context.Context, owner, repo string, number int) *time.Time {
	issue, err := s.client.ListIssueComments(ctx, owner, repo, number)
	if err != nil {
		s.logger.Warn("failed to fetch issue comments",
			zap.String("repository", owner+"/"+repo),
			zap.Int("pr", number),
			zap.Error(err))
		return nil
	}
	review, err := s.client.ListReviewComments(ctx, owner, repo, number)
	if err != nil {
		s.logger.Warn("failed to fetch review comments",
			zap.String("repository", owner+"/"+repo),
			zap.Int("pr", number),
			zap.Error(err))
		return nil
	}

	var latest *time.Time
	for _, c := range append(issue, review...) {
		if latest == nil || c.CreatedAt.After(*latest) {
			t := c.CreatedAt
			latest = &t
		}
	}
	return latest
}

// getHeadWorkflowRuns fetches the CI runs for a PR's head commit
func (s *Service) getHeadWorkflowRuns(ctx context.Context, owner, repo, full, sha string) []models.WorkflowRun {
	runs, err := s.client.ListWorkflowRunsForSHA(ctx, owner, repo, sha)
	if err != nil {
		s.logger.Warn("failed to fetch workflow runs",
			zap.String("repository", full),
			zap.String("head_sha", sha),
			zap.Error(err))
		return make([]models.WorkflowRun, 0)
	}

	result := make([]models.WorkflowRun, 0, len(runs))
	for _, run := range runs {
		result = append(result, models.WorkflowRun{
			ID:         run.ID,
			Name:       run.Name,
			Status:     run.Status,
			Conclusion: run.Conclusion,
			CreatedAt:  run.CreatedAt,
			UpdatedAt:  run.UpdatedAt,
			URL:        run.HTMLURL,
		})
	}
	return result
}
