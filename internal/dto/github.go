package dto

import "time"

// Issue priorities accepted by CreateIssue.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type CreateIssueRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    string   `json:"priority"`
	Assignee    string   `json:"assignee,omitempty"`
	Labels      []string `json:"labels,omitempty"`
}

type CreatedIssue struct {
	Number int    `json:"number"`
	URL    string `json:"url"`
	ID     int64  `json:"id"`
}

// GitHubIssue is the adapter's view of an open repository issue.
type GitHubIssue struct {
	ID             int64         `json:"id"`
	Title          string        `json:"title"`
	CreatedAt      time.Time     `json:"created_at"`
	HTMLURL        string        `json:"html_url"`
	Labels         []GitHubLabel `json:"labels"`
	AssigneeLogin  string        `json:"-"`
	AssigneeAvatar string        `json:"-"`
	IsPullRequest  bool          `json:"-"`
}

type GitHubLabel struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type GitHubWorkload struct {
	Login           string        `json:"login"`
	AvatarURL       string        `json:"avatar_url,omitempty"`
	Issues          []GitHubIssue `json:"issues"`
	TotalIssues     int           `json:"totalIssues"`
	DaysSinceOldest int           `json:"daysSinceOldest"`
}

type GitHubCollaborator struct {
	Login     string `json:"login"`
	AvatarURL string `json:"avatar_url,omitempty"`
	HTMLURL   string `json:"html_url"`
}

type GitHubRateLimit struct {
	Remaining int
	Reset     time.Time
}
