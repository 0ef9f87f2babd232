package service

import (
	"context"
	"testing"
	"time"

	"github.com/byron-goldsack/GithubMonitor/internal/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = ts("2026-08-24T12:00:00Z")

func newRunsService(mock *github.MockAPI, repos ...string) *Service {
	svc := newTestService(mock, repos...)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestListStandaloneRuns_RecencyWindow(t *testing.T) {
	mock := &github.MockAPI{
		ActorRuns: map[string][]github.WorkflowRun{
			"octo/alpha": {
				{ID: 1, Name: "two days old", HeadBranch: "main", CreatedAt: fixedNow.Add(-2 * 24 * time.Hour)},
				{ID: 2, Name: "four days old", HeadBranch: "main", CreatedAt: fixedNow.Add(-4 * 24 * time.Hour)},
				{ID: 3, Name: "exactly at cutoff", HeadBranch: "main", CreatedAt: fixedNow.Add(-72 * time.Hour)},
			},
		},
	}
	svc := newRunsService(mock, "octo/alpha")

	runs, err := svc.ListStandaloneRuns(context.Background())
	require.NoError(t, err)

	require.Len(t, runs, 1)
	assert.Equal(t, int64(1), runs[0].ID)
	assert.Equal(t, "byron", mock.LastActor)
}

func TestListStandaloneRuns_ExcludesPullRefs(t *testing.T) {
	mock := &github.MockAPI{
		ActorRuns: map[string][]github.WorkflowRun{
			"octo/alpha": {
				// Unassociated with any PR, but on the synthetic ref.
				{ID: 1, HeadBranch: "refs/pull/42/merge", CreatedAt: fixedNow.Add(-time.Hour)},
				{ID: 2, HeadBranch: "feature/retry", CreatedAt: fixedNow.Add(-time.Hour)},
			},
		},
	}
	svc := newRunsService(mock, "octo/alpha")

	runs, err := svc.ListStandaloneRuns(context.Background())
	require.NoError(t, err)

	require.Len(t, runs, 1)
	assert.Equal(t, int64(2), runs[0].ID)
}

func TestListStandaloneRuns_ExcludesPRAssociatedRuns(t *testing.T) {
	mock := &github.MockAPI{
		ActorRuns: map[string][]github.WorkflowRun{
			"octo/alpha": {
				{ID: 1, HeadBranch: "feature/a", CreatedAt: fixedNow.Add(-time.Hour), PullRequests: []github.RunPRPointer{{Number: 7}}},
				{ID: 2, HeadBranch: "feature/b", CreatedAt: fixedNow.Add(-time.Hour)},
			},
		},
	}
	svc := newRunsService(mock, "octo/alpha")

	runs, err := svc.ListStandaloneRuns(context.Background())
	require.NoError(t, err)

	require.Len(t, runs, 1)
	assert.Equal(t, int64(2), runs[0].ID)
}

func TestListStandaloneRuns_AnnotatesRepositoryAndShortSHA(t *testing.T) {
	mock := &github.MockAPI{
		ActorRuns: map[string][]github.WorkflowRun{
			"octo/alpha": {
				{
					ID:         1,
					Name:       "Nightly build",
					HeadBranch: "main",
					HeadSHA:    "0123456789abcdef0123",
					CreatedAt:  fixedNow.Add(-time.Hour),
				},
			},
		},
	}
	svc := newRunsService(mock, "octo/alpha")

	runs, err := svc.ListStandaloneRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 1)

	assert.Equal(t, "octo/alpha", runs[0].Repository)
	assert.Equal(t, "0123456", runs[0].HeadSHA)
	assert.Equal(t, "main", runs[0].HeadBranch)
}

func TestListStandaloneRuns_RepoFailureDoesNotAbortOthers(t *testing.T) {
	mock := &github.MockAPI{
		ActorRunsErr: map[string]error{
			"octo/alpha": &github.APIError{StatusCode: 403, Status: "403 Forbidden", Body: "rate limited"},
		},
		ActorRuns: map[string][]github.WorkflowRun{
			"octo/beta": {
				{ID: 2, HeadBranch: "main", CreatedAt: fixedNow.Add(-time.Hour)},
			},
		},
	}
	svc := newRunsService(mock, "octo/alpha", "octo/beta")

	runs, err := svc.ListStandaloneRuns(context.Background())
	require.NoError(t, err)

	require.Len(t, runs, 1)
	assert.Equal(t, "octo/beta", runs[0].Repository)
	assert.Equal(t, []string{"octo/alpha", "octo/beta"}, mock.ActorRunCalls)
}

func TestListStandaloneRuns_SortedAcrossRepositories(t *testing.T) {
	mock := &github.MockAPI{
		ActorRuns: map[string][]github.WorkflowRun{
			"octo/alpha": {
				{ID: 1, HeadBranch: "main", CreatedAt: fixedNow.Add(-3 * time.Hour)},
			},
			"octo/beta": {
				{ID: 2, HeadBranch: "main", CreatedAt: fixedNow.Add(-1 * time.Hour)},
				{ID: 3, HeadBranch: "main", CreatedAt: fixedNow.Add(-5 * time.Hour)},
			},
		},
	}
	svc := newRunsService(mock, "octo/alpha", "octo/beta")

	runs, err := svc.ListStandaloneRuns(context.Background())
	require.NoError(t, err)
	require.Len(t, runs, 3)

	assert.Equal(t, int64(2), runs[0].ID)
	assert.Equal(t, int64(1), runs[1].ID)
	assert.Equal(t, int64(3), runs[2].ID)
}
