package models

import "time"

// Review states that participate in classification. Everything else
// (COMMENTED, DISMISSED, ...) is dropped from the summary.
const (
	ReviewStateApproved         = "APPROVED"
	ReviewStateChangesRequested = "CHANGES_REQUESTED"
	ReviewStatePending          = "PENDING"
)

// Workflow run statuses as reported by the GitHub Actions API.
const (
	RunStatusQueued     = "queued"
	RunStatusInProgress = "in_progress"
	RunStatusCompleted  = "completed"
)

// Workflow run conclusions, meaningful only when status is completed.
const (
	RunConclusionSuccess   = "success"
	RunConclusionFailure   = "failure"
	RunConclusionCancelled = "cancelled"
	RunConclusionTimedOut  = "timed_out"
)

// Reviewer is a user who submitted a review on a pull request.
type Reviewer struct {
	Login       string    `json:"login"`
	SubmittedAt time.Time `json:"submitted_at"`
	Association string    `json:"association"`
}

// TeamRef identifies a team with an outstanding review request.
type TeamRef struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// ReviewSummary is the current review state of a pull request. A login
// or team appears in at most one of the five sequences: the three
// classified lists hold each reviewer's latest submitted review, and
// the requested lists are the API's live snapshot of who has not
// reviewed yet.
type ReviewSummary struct {
	Approved         []Reviewer `json:"approved"`
	ChangesRequested []Reviewer `json:"changes_requested"`
	Pending          []Reviewer `json:"pending"`
	RequestedUsers   []string   `json:"requested_users"`
	RequestedTeams   []TeamRef  `json:"requested_teams"`
}

// WorkflowRun is one execution of a CI pipeline. Repository, HeadBranch
// and HeadSHA are populated only for standalone runs (those not attached
// to a pull request record).
type WorkflowRun struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	Conclusion string    `json:"conclusion,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	URL        string    `json:"url"`
	Repository string    `json:"repository,omitempty"`
	HeadBranch string    `json:"head_branch,omitempty"`
	HeadSHA    string    `json:"head_sha,omitempty"`
}

// PullRequest is the aggregated record for one open PR. It is rebuilt
// from the upstream API on every refresh cycle and never persisted.
type PullRequest struct {
	ID            int64         `json:"id"`
	Number        int           `json:"number"`
	Title         string        `json:"title"`
	Repository    string        `json:"repository"`
	URL           string        `json:"url"`
	HeadBranch    string        `json:"head_branch"`
	BaseBranch    string        `json:"base_branch"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Author        string        `json:"author"`
	Draft         bool          `json:"draft"`
	Mergeable     *bool         `json:"mergeable"`
	Reviews       ReviewSummary `json:"reviews"`
	LatestComment *time.Time    `json:"latest_comment"`
	WorkflowRuns  []WorkflowRun `json:"workflow_runs"`
}
