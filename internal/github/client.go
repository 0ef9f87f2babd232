package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const fineGrainedTokenPrefix = "github_pat_"

// APIError is a non-2xx response from the GitHub API. The raw body is
// kept so upstream failures can be logged verbatim.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github api: %s: %s", e.Status, e.Body)
}

// User is a GitHub account reference as it appears in API payloads.
type User struct {
	Login string `json:"login"`
}

// Team is a GitHub team reference from requested-reviewers payloads.
type Team struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// BranchRef is the head/base of a pull request.
type BranchRef struct {
	Ref string `json:"ref"`
	SHA string `json:"sha"`
}

// PullRequest is the wire shape of a PR from the list endpoint.
// Mergeable is tri-state: the list endpoint reports null until GitHub
// has computed mergeability.
type PullRequest struct {
	ID        int64     `json:"id"`
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	HTMLURL   string    `json:"html_url"`
	State     string    `json:"state"`
	Draft     bool      `json:"draft"`
	Mergeable *bool     `json:"mergeable"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"user"`
	Head      BranchRef `json:"head"`
	Base      BranchRef `json:"base"`
}

// Review is one submitted review from the reviews endpoint.
type Review struct {
	User              User      `json:"user"`
	State             string    `json:"state"`
	SubmittedAt       time.Time `json:"submitted_at"`
	AuthorAssociation string    `json:"author_association"`
}

// RequestedReviewers is the live snapshot of outstanding review requests.
type RequestedReviewers struct {
	Users []User `json:"users"`
	Teams []Team `json:"teams"`
}

// Comment carries the fields common to issue and review comments.
type Comment struct {
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// WorkflowRun is the wire shape of one Actions run.
type WorkflowRun struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name"`
	Status       string         `json:"status"`
	Conclusion   string         `json:"conclusion"`
	HeadBranch   string         `json:"head_branch"`
	HeadSHA      string         `json:"head_sha"`
	HTMLURL      string         `json:"html_url"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	PullRequests []RunPRPointer `json:"pull_requests"`
}

// RunPRPointer marks a run as associated with a pull request.
type RunPRPointer struct {
	Number int `json:"number"`
}

type workflowRunsResponse struct {
	TotalCount   int           `json:"total_count"`
	WorkflowRuns []WorkflowRun `json:"workflow_runs"`
}

// Client issues authenticated requests against the GitHub REST API.
// There is no retry, timeout or rate-limit handling: any failure
// propagates immediately to the caller.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the given API base URL and credential
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: http.DefaultClient,
	}
}

// authorization picks the header scheme by token format: fine-grained
// tokens use the bearer scheme, classic tokens the legacy token scheme.
func (c *Client) authorization() string {
	if strings.HasPrefix(c.token, fineGrainedTokenPrefix) {
		return "Bearer " + c.token
	}
	return "token " + c.token
}

// get fetches the given API path and decodes the 2xx JSON body into out
func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", c.authorization())
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListOpenPullRequests fetches all open PRs of a repository
func (c *Client) ListOpenPullRequests(ctx context.Context, owner, repo string) ([]PullRequest, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls?state=open&per_page=100", owner, repo)
	var prs []PullRequest
	if err := c.get(ctx, path, &prs); err != nil {
		return nil, fmt.Errorf("failed to fetch pull requests: %w", err)
	}
	return prs, nil
}

// ListReviews fetches the submitted reviews of a PR
func (c *Client) ListReviews(ctx context.Context, owner, repo string, number int) ([]Review, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/reviews", owner, repo, number)
	var reviews []Review
	if err := c.get(ctx, path, &reviews); err != nil {
		return nil, fmt.Errorf("failed to fetch reviews: %w", err)
	}
	return reviews, nil
}

// ListRequestedReviewers fetches the users and teams whose review is
// still outstanding on a PR.
func (c *Client) ListRequestedReviewers(ctx context.Context, owner, repo string, number int) (*RequestedReviewers, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/requested_reviewers", owner, repo, number)
	var requested RequestedReviewers
	if err := c.get(ctx, path, &requested); err != nil {
		return nil, fmt.Errorf("failed to fetch requested reviewers: %w", err)
	}
	return &requested, nil
}

// ListIssueComments fetches the PR-level discussion comments
func (c *Client) ListIssueComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	path := fmt.Sprintf("repos/%s/%s/issues/%d/comments", owner, repo, number)
	var comments []Comment
	if err := c.get(ctx, path, &comments); err != nil {
		return nil, fmt.Errorf("failed to fetch issue comments: %w", err)
	}
	return comments, nil
}

// ListReviewComments fetches the inline review comments of a PR
func (c *Client) ListReviewComments(ctx context.Context, owner, repo string, number int) ([]Comment, error) {
	path := fmt.Sprintf("repos/%s/%s/pulls/%d/comments", owner, repo, number)
	var comments []Comment
	if err := c.get(ctx, path, &comments); err != nil {
		return nil, fmt.Errorf("failed to fetch review comments: %w", err)
	}
	return comments, nil
}

// ListWorkflowRunsForSHA fetches the runs triggered for a head commit
func (c *Client) ListWorkflowRunsForSHA(ctx context.Context, owner, repo, sha string) ([]WorkflowRun, error) {
	path := fmt.Sprintf("repos/%s/%s/actions/runs?head_sha=%s", owner, repo, url.QueryEscape(sha))
	var resp workflowRunsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch workflow runs: %w", err)
	}
	return resp.WorkflowRuns, nil
}

// ListWorkflowRunsForActor fetches the actor's 50 most recent runs
func (c *Client) ListWorkflowRunsForActor(ctx context.Context, owner, repo, actor string) ([]WorkflowRun, error) {
	path := fmt.Sprintf("repos/%s/%s/actions/runs?actor=%s&per_page=50", owner, repo, url.QueryEscape(actor))
	var resp workflowRunsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch workflow runs: %w", err)
	}
	return resp.WorkflowRuns, nil
}
