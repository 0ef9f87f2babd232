package github

import (
	"context"
	"fmt"
)

// MockAPI implements API for testing. Responses are keyed by repository
// ("owner/name") and, for per-PR calls, by PR number; a nil map entry
// or an injected error exercises the degrade paths.
type MockAPI struct {
	PullRequests      map[string][]PullRequest
	PullRequestsErr   map[string]error
	Reviews           map[string]map[int][]Review
	ReviewsErr        map[string]map[int]error
	Requested         map[string]map[int]*RequestedReviewers
	RequestedErr      map[string]map[int]error
	IssueComments     map[string]map[int][]Comment
	IssueCommentsErr  map[string]map[int]error
	ReviewComments    map[string]map[int][]Comment
	ReviewCommentsErr map[string]map[int]error
	RunsBySHA         map[string]map[string][]WorkflowRun
	RunsBySHAErr      map[string]map[string]error
	ActorRuns         map[string][]WorkflowRun
	ActorRunsErr      map[string]error

	// Call tracking
	PullRequestCalls []string
	ActorRunCalls    []string
	LastActor        string
}

var _ API = (*MockAPI)(nil)

func repoKey(owner, repo string) string {
	return fmt.Sprintf("%s/%s", owner, repo)
}

func (m *MockAPI) ListOpenPullRequests(_ context.Context, owner, repo string) ([]PullRequest, error) {
	key := repoKey(owner, repo)
	m.PullRequestCalls = append(m.PullRequestCalls, key)
	if err := m.PullRequestsErr[key]; err != nil {
		return nil, err
	}
	return m.PullRequests[key], nil
}

func (m *MockAPI) ListReviews(_ context.Context, owner, repo string, number int) ([]Review, error) {
	key := repoKey(owner, repo)
	if err := m.ReviewsErr[key][number]; err != nil {
		return nil, err
	}
	return m.Reviews[key][number], nil
}

func (m *MockAPI) ListRequestedReviewers(_ context.Context, owner, repo string, number int) (*RequestedReviewers, error) {
	key := repoKey(owner, repo)
	if err := m.RequestedErr[key][number]; err != nil {
		return nil, err
	}
	if req := m.Requested[key][number]; req != nil {
		return req, nil
	}
	return &RequestedReviewers{}, nil
}

func (m *MockAPI) ListIssueComments(_ context.Context, owner, repo string, number int) ([]Comment, error) {
	key := repoKey(owner, repo)
	if err := m.IssueCommentsErr[key][number]; err != nil {
		return nil, err
	}
	return m.IssueComments[key][number], nil
}

func (m *MockAPI) ListReviewComments(_ context.Context, owner, repo string, number int) ([]Comment, error) {
	key := repoKey(owner, repo)
	if err := m.ReviewCommentsErr[key][number]; err != nil {
		return nil, err
	}
	return m.ReviewComments[key][number], nil
}

func (m *MockAPI) ListWorkflowRunsForSHA(_ context.Context, owner, repo, sha string) ([]WorkflowRun, error) {
	key := repoKey(owner, repo)
	if err := m.RunsBySHAErr[key][sha]; err != nil {
		return nil, err
	}
	return m.RunsBySHA[key][sha], nil
}

func (m *MockAPI) ListWorkflowRunsForActor(_ context.Context, owner, repo, actor string) ([]WorkflowRun, error) {
	key := repoKey(owner, repo)
	m.ActorRunCalls = append(m.ActorRunCalls, key)
	m.LastActor = actor
	if err := m.ActorRunsErr[key]; err != nil {
		return nil, err
	}
	return m.ActorRuns[key], nil
}
