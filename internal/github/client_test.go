package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_authorization(t *testing.T) {
	tests := []struct {
		name     string
		token    string
		expected string
	}{
		{
			name:     "fine-grained token uses bearer scheme",
			token:    "github_pat_11AAAAAAA0abcdef",
			expected: "Bearer github_pat_11AAAAAAA0abcdef",
		},
		{
			name:     "classic token uses legacy scheme",
			token:    "ghp_abcdef123456",
			expected: "token ghp_abcdef123456",
		},
		{
			name:     "unrecognized format defaults to legacy scheme",
			token:    "some-opaque-credential",
			expected: "token some-opaque-credential",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClient("https://api.github.com", tt.token)
			assert.Equal(t, tt.expected, c.authorization())
		})
	}
}

func TestClient_SendsAuthorizationHeader(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "github_pat_xyz")
	_, err := c.ListOpenPullRequests(context.Background(), "octo", "repo")
	require.NoError(t, err)

	assert.Equal(t, "Bearer github_pat_xyz", gotAuth)
	assert.Equal(t, "application/vnd.github+json", gotAccept)
}

func TestClient_NonSuccessStatusReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "Not Found"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "ghp_token")
	_, err := c.ListOpenPullRequests(context.Background(), "octo", "missing")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Not Found")
	assert.Contains(t, apiErr.Error(), "Not Found")
}

func TestClient_ListOpenPullRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/repo/pulls", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{
				"id": 100,
				"number": 7,
				"title": "Add caching layer",
				"html_url": "https://github.com/octo/repo/pull/7",
				"state": "open",
				"draft": true,
				"mergeable": null,
				"created_at": "2026-08-20T10:00:00Z",
				"updated_at": "2026-08-21T09:30:00Z",
				"user": {"login": "byron"},
				"head": {"ref": "feature/cache", "sha": "0123456789abcdef"},
				"base": {"ref": "main", "sha": "fedcba9876543210"}
			}
		]`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "ghp_token")
	prs, err := c.ListOpenPullRequests(context.Background(), "octo", "repo")
	require.NoError(t, err)
	require.Len(t, prs, 1)

	pr := prs[0]
	assert.Equal(t, int64(100), pr.ID)
	assert.Equal(t, 7, pr.Number)
	assert.Equal(t, "byron", pr.User.Login)
	assert.True(t, pr.Draft)
	assert.Nil(t, pr.Mergeable)
	assert.Equal(t, "feature/cache", pr.Head.Ref)
	assert.Equal(t, "0123456789abcdef", pr.Head.SHA)
	assert.Equal(t, "main", pr.Base.Ref)
}

func TestClient_ListWorkflowRunsForActor(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/repo/actions/runs", r.URL.Path)
		assert.Equal(t, "byron", r.URL.Query().Get("actor"))
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"total_count": 1,
			"workflow_runs": [
				{
					"id": 555,
					"name": "CI",
					"status": "completed",
					"conclusion": "success",
					"head_branch": "feature/cache",
					"head_sha": "0123456789abcdef",
					"html_url": "https://github.com/octo/repo/actions/runs/555",
					"created_at": "2026-08-25T08:00:00Z",
					"updated_at": "2026-08-25T08:05:00Z",
					"pull_requests": [{"number": 7}]
				}
			]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "ghp_token")
	runs, err := c.ListWorkflowRunsForActor(context.Background(), "octo", "repo", "byron")
	require.NoError(t, err)
	require.Len(t, runs, 1)

	run := runs[0]
	assert.Equal(t, int64(555), run.ID)
	assert.Equal(t, "completed", run.Status)
	assert.Equal(t, "success", run.Conclusion)
	require.Len(t, run.PullRequests, 1)
	assert.Equal(t, 7, run.PullRequests[0].Number)
}

func TestClient_ListRequestedReviewers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/octo/repo/pulls/7/requested_reviewers", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"users": [{"login": "alice"}],
			"teams": [{"slug": "platform", "name": "Platform Team"}]
		}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "ghp_token")
	requested, err := c.ListRequestedReviewers(context.Background(), "octo", "repo", 7)
	require.NoError(t, err)

	require.Len(t, requested.Users, 1)
	assert.Equal(t, "alice", requested.Users[0].Login)
	require.Len(t, requested.Teams, 1)
	assert.Equal(t, "platform", requested.Teams[0].Slug)
	assert.Equal(t, "Platform Team", requested.Teams[0].Name)
}
