package handlers

import (
	"context"
	"net/http"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/response"
)

type GitHubService interface {
	CreateIssue(ctx context.Context, req dto.CreateIssueRequest) (dto.CreatedIssue, error)
	GetTeamWorkload(ctx context.Context) ([]dto.GitHubWorkload, error)
	GetCollaborators(ctx context.Context) ([]dto.GitHubCollaborator, error)
}

type githubHandlers struct {
	ResponseHandler response.ResponseHandler
	GitHubSvc       GitHubService
}

func NewGitHubHandlers(deps *Deps) *githubHandlers {
	return &githubHandlers{
		ResponseHandler: deps.ResponseHandler,
		GitHubSvc:       deps.GitHubSvc,
	}
}

func (h *githubHandlers) CreateIssue(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIssueRequest
	if err := decodeJSON(r, &req); err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	issue, err := h.GitHubSvc.CreateIssue(r.Context(), req)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, issue)
}

func (h *githubHandlers) GetWorkload(w http.ResponseWriter, r *http.Request) {
	workload, err := h.GitHubSvc.GetTeamWorkload(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, workload)
}

func (h *githubHandlers) GetTeam(w http.ResponseWriter, r *http.Request) {
	team, err := h.GitHubSvc.GetCollaborators(r.Context())
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, team)
}
