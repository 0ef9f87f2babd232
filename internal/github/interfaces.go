package github

import "context"

// API defines the upstream operations the aggregation layer depends on
type API interface {
	ListOpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error)
	ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error)
	ListRequestedReviewers(ctx context.Context, owner, repo string, number int) (*RequestedReviewers, error)
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)
	ListReviewComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)
	ListWorkflowRunsForSHA(ctx context.Context, owner, repo, sha string) ([]WorkflowRun, error)
	ListWorkflowRunsForActor(ctx context.Context, owner, repo, actor string) ([]WorkflowRun, error)
}

// Ensure Client implements the API interface
var _ API = (*Client)(nil)
