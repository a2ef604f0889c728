package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

const (
	workloadCacheTTL     = 5 * time.Minute
	collaboratorCacheTTL = 10 * time.Minute
	minRateLimitHeadroom = 10
	unassignedLogin      = "unassigned"
)

type githubAPI interface {
	CreateIssue(ctx context.Context, owner, repo string, req dto.CreateIssueRequest) (dto.CreatedIssue, error)
	RateLimit(ctx context.Context) (dto.GitHubRateLimit, error)
	ListOpenIssues(ctx context.Context, owner, repo string) ([]dto.GitHubIssue, error)
	ListCollaborators(ctx context.Context, owner, repo string) ([]dto.GitHubCollaborator, error)
}

type jsonCache interface {
	GetJSON(ctx context.Context, key string, dst any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

type githubService struct {
	api   githubAPI
	cache jsonCache
	repo  string
	now   func() time.Time
}

func NewGitHubService(api githubAPI, cache jsonCache, repo string) *githubService {
	return &githubService{
		api:   api,
		cache: cache,
		repo:  repo,
		now:   time.Now,
	}
}

func (s *githubService) repoParts() (string, string, error) {
	owner, name, ok := strings.Cut(s.repo, "/")
	if !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		return "", "", errs.NewValidationError("invalid GITHUBREPO format, expected owner/repo")
	}
	return owner, name, nil
}

func (s *githubService) CreateIssue(ctx context.Context, req dto.CreateIssueRequest) (dto.CreatedIssue, error) {
	var out dto.CreatedIssue
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return out, errs.NewValidationError("title is required")
	}
	switch req.Priority {
	case dto.PriorityLow, dto.PriorityMedium, dto.PriorityHigh, dto.PriorityUrgent:
	default:
		return out, errs.NewValidationError("invalid priority: " + req.Priority)
	}
	owner, repo, err := s.repoParts()
	if err != nil {
		return out, err
	}

	labels := make([]string, 0, len(req.Labels)+2)
	labels = append(labels, "assigned")
	labels = append(labels, req.Labels...)
	labels = append(labels, "priority:"+req.Priority)

	out, err = s.api.CreateIssue(ctx, owner, repo, dto.CreateIssueRequest{
		Title:       title,
		Description: req.Description,
		Priority:    req.Priority,
		Assignee:    req.Assignee,
		Labels:      labels,
	})
	if err != nil {
		return out, err
	}

	log := logger.FromContext(ctx)
	log.Info("github issue created", "repo", s.repo, "number", out.Number, "assignee", req.Assignee)
	return out, nil
}

// GetTeamWorkload groups open issues by assignee in order of first appearance.
// Pull requests returned by the issues API are skipped.
func (s *githubService) GetTeamWorkload(ctx context.Context) ([]dto.GitHubWorkload, error) {
	owner, repo, err := s.repoParts()
	if err != nil {
		return nil, err
	}
	key := "workload:" + s.repo

	var cached []dto.GitHubWorkload
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}
	if err := s.checkRateLimit(ctx); err != nil {
		return nil, err
	}

	issues, err := s.api.ListOpenIssues(ctx, owner, repo)
	if err != nil {
		return nil, err
	}

	now := s.now()
	index := make(map[string]int)
	out := []dto.GitHubWorkload{}
	for _, is := range issues {
		if is.IsPullRequest {
			continue
		}
		login := is.AssigneeLogin
		if login == "" {
			login = unassignedLogin
		}
		i, ok := index[login]
		if !ok {
			i = len(out)
			index[login] = i
			out = append(out, dto.GitHubWorkload{Login: login, AvatarURL: is.AssigneeAvatar, Issues: []dto.GitHubIssue{}})
		}
		out[i].Issues = append(out[i].Issues, is)
	}
	for i := range out {
		w := &out[i]
		w.TotalIssues = len(w.Issues)
		oldest := w.Issues[0].CreatedAt
		for _, is := range w.Issues[1:] {
			if is.CreatedAt.Before(oldest) {
				oldest = is.CreatedAt
			}
		}
		w.DaysSinceOldest = int(now.Sub(oldest).Hours() / 24)
	}

	s.writeCache(ctx, key, out, workloadCacheTTL)
	return out, nil
}

func (s *githubService) GetCollaborators(ctx context.Context) ([]dto.GitHubCollaborator, error) {
	owner, repo, err := s.repoParts()
	if err != nil {
		return nil, err
	}
	key := "collaborators:" + s.repo

	var cached []dto.GitHubCollaborator
	if s.readCache(ctx, key, &cached) {
		return cached, nil
	}
	if err := s.checkRateLimit(ctx); err != nil {
		return nil, err
	}

	team, err := s.api.ListCollaborators(ctx, owner, repo)
	if err != nil {
		return nil, err
	}
	if team == nil {
		team = []dto.GitHubCollaborator{}
	}

	s.writeCache(ctx, key, team, collaboratorCacheTTL)
	return team, nil
}

func (s *githubService) checkRateLimit(ctx context.Context) error {
	rl, err := s.api.RateLimit(ctx)
	if err != nil {
		return err
	}
	if rl.Remaining < minRateLimitHeadroom {
		msg := fmt.Sprintf("GitHub rate limit low. Remaining: %d. Resets at %s", rl.Remaining, rl.Reset.Format(time.Kitchen))
		return errs.NewExternalServiceError("github", msg, true, nil)
	}
	return nil
}

// readCache treats a cache failure as a miss.
func (s *githubService) readCache(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	ok, err := s.cache.GetJSON(ctx, key, dst)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn("github cache read failed", "key", key, "error", err)
		return false
	}
	return ok
}

func (s *githubService) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, value, ttl); err != nil {
		log := logger.FromContext(ctx)
		log.Warn("github cache write failed", "key", key, "error", err)
	}
}
