package githubclient

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
)

const service = "github"

type Adapter struct {
	client *github.Client
	token  string
}

func NewAdapter(token string) *Adapter {
	return &Adapter{
		client: github.NewClient(nil).WithAuthToken(token),
		token:  token,
	}
}

// NewAdapterWithBaseURL points the client at a different API root, such as a
// GitHub Enterprise host or a test server.
func NewAdapterWithBaseURL(token, baseURL string) (*Adapter, error) {
	u, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return nil, err
	}
	a := NewAdapter(token)
	a.client.BaseURL = u
	return a, nil
}

func (a *Adapter) Configured() bool {
	return a.token != ""
}

func (a *Adapter) requireToken() error {
	if a.token == "" {
		return errs.NewExternalServiceError(service, "GitHub token is required", false, nil)
	}
	return nil
}

func (a *Adapter) CreateIssue(ctx context.Context, owner, repo string, req dto.CreateIssueRequest) (dto.CreatedIssue, error) {
	var out dto.CreatedIssue
	if err := a.requireToken(); err != nil {
		return out, err
	}

	labels := req.Labels
	ir := &github.IssueRequest{
		Title:  github.String(req.Title),
		Body:   github.String(req.Description),
		Labels: &labels,
	}
	if req.Assignee != "" {
		ir.Assignee = github.String(req.Assignee)
	}

	issue, _, err := a.client.Issues.Create(ctx, owner, repo, ir)
	if err != nil {
		return out, toServiceError("failed to create GitHub issue", err)
	}
	out.Number = issue.GetNumber()
	out.URL = issue.GetHTMLURL()
	out.ID = issue.GetID()
	return out, nil
}

func (a *Adapter) RateLimit(ctx context.Context) (dto.GitHubRateLimit, error) {
	var out dto.GitHubRateLimit
	if err := a.requireToken(); err != nil {
		return out, err
	}

	limits, _, err := a.client.RateLimit.Get(ctx)
	if err != nil {
		return out, toServiceError("failed to read GitHub rate limit", err)
	}
	core := limits.GetCore()
	if core == nil {
		return out, nil
	}
	out.Remaining = core.Remaining
	out.Reset = core.Reset.Time
	return out, nil
}

// ListOpenIssues returns every open issue and pull request, oldest first.
func (a *Adapter) ListOpenIssues(ctx context.Context, owner, repo string) ([]dto.GitHubIssue, error) {
	if err := a.requireToken(); err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:       "open",
		Sort:        "created",
		Direction:   "asc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var out []dto.GitHubIssue
	for {
		issues, resp, err := a.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, toServiceError("failed to list GitHub issues", err)
		}
		for _, is := range issues {
			labels := make([]dto.GitHubLabel, 0, len(is.Labels))
			for _, l := range is.Labels {
				labels = append(labels, dto.GitHubLabel{Name: l.GetName(), Color: l.GetColor()})
			}
			out = append(out, dto.GitHubIssue{
				ID:             is.GetID(),
				Title:          is.GetTitle(),
				CreatedAt:      is.GetCreatedAt().Time,
				HTMLURL:        is.GetHTMLURL(),
				Labels:         labels,
				AssigneeLogin:  is.GetAssignee().GetLogin(),
				AssigneeAvatar: is.GetAssignee().GetAvatarURL(),
				IsPullRequest:  is.IsPullRequest(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func (a *Adapter) ListCollaborators(ctx context.Context, owner, repo string) ([]dto.GitHubCollaborator, error) {
	if err := a.requireToken(); err != nil {
		return nil, err
	}

	opts := &github.ListCollaboratorsOptions{ListOptions: github.ListOptions{PerPage: 100}}

	var out []dto.GitHubCollaborator
	for {
		users, resp, err := a.client.Repositories.ListCollaborators(ctx, owner, repo, opts)
		if err != nil {
			return nil, toServiceError("failed to list GitHub collaborators", err)
		}
		for _, u := range users {
			out = append(out, dto.GitHubCollaborator{
				Login:     u.GetLogin(),
				AvatarURL: u.GetAvatarURL(),
				HTMLURL:   u.GetHTMLURL(),
			})
		}
		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return out, nil
}

func toServiceError(message string, err error) error {
	var rle *github.RateLimitError
	if errors.As(err, &rle) {
		return errs.NewExternalServiceError(service, "GitHub API rate limit exceeded. Please wait before trying again.", true, err)
	}
	var abuse *github.AbuseRateLimitError
	if errors.As(err, &abuse) {
		return errs.NewExternalServiceError(service, "GitHub API rate limit exceeded. Please wait before trying again.", true, err)
	}
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		switch er.Response.StatusCode {
		case http.StatusUnauthorized:
			return errs.NewExternalServiceError(service, "GitHub authentication failed. Please check your token.", false, err)
		case http.StatusNotFound:
			return errs.NewExternalServiceError(service, "Repository not found or no access.", false, err)
		}
		if er.Response.StatusCode >= http.StatusInternalServerError {
			return errs.NewExternalServiceError(service, message, true, err)
		}
	}
	return errs.NewExternalServiceError(service, message, false, err)
}
