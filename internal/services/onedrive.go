package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
	"github.com/GregMSThompson/devpay-backend/pkg/logger"
)

const oauthStateTTL = 10 * time.Minute

type onedriveAPI interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth2.Token, error)
	Me(ctx context.Context, tok *oauth2.Token) (dto.OneDriveUser, error)
	ListChildren(ctx context.Context, tok *oauth2.Token, folderPath string) ([]dto.DriveItem, error)
}

// onedriveService holds a single process-wide OneDrive connection.
type onedriveService struct {
	mu         sync.Mutex
	api        onedriveAPI
	folderPath string
	states     map[string]time.Time
	token      *oauth2.Token
	user       *dto.OneDriveUser
	now        func() time.Time
}

func NewOneDriveService(api onedriveAPI, folderPath string) *onedriveService {
	if folderPath == "" {
		folderPath = "/"
	}
	return &onedriveService{
		api:        api,
		folderPath: folderPath,
		states:     make(map[string]time.Time),
		now:        time.Now,
	}
}

// AuthURL issues a fresh OAuth state and returns the consent URL carrying it.
func (s *onedriveService) AuthURL(ctx context.Context) string {
	state := uuid.New().String()

	s.mu.Lock()
	now := s.now()
	for k, issued := range s.states {
		if now.Sub(issued) > oauthStateTTL {
			delete(s.states, k)
		}
	}
	s.states[state] = now
	s.mu.Unlock()

	return s.api.AuthCodeURL(state)
}

func (s *onedriveService) Callback(ctx context.Context, code, state string) error {
	if strings.TrimSpace(code) == "" {
		return errs.NewValidationError("authorization code not provided")
	}

	s.mu.Lock()
	issued, ok := s.states[state]
	delete(s.states, state)
	s.mu.Unlock()
	if !ok || s.now().Sub(issued) > oauthStateTTL {
		return errs.NewUnauthorizedError("invalid or expired OAuth state")
	}

	tok, err := s.api.Exchange(ctx, code)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	var user *dto.OneDriveUser
	if u, err := s.api.Me(ctx, tok); err != nil {
		log.Warn("onedrive connected but user lookup failed", "error", err)
	} else {
		user = &u
	}

	s.mu.Lock()
	s.token = tok
	s.user = user
	s.mu.Unlock()

	log.Info("onedrive connected")
	return nil
}

func (s *onedriveService) Status(ctx context.Context) dto.OneDriveStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := dto.OneDriveStatus{Connected: s.token != nil}
	if s.user != nil {
		u := *s.user
		status.User = &u
	}
	return status
}

// Test lists the configured folder to prove the stored token still works.
func (s *onedriveService) Test(ctx context.Context) (dto.OneDriveTestResult, error) {
	s.mu.Lock()
	tok := s.token
	s.mu.Unlock()

	out := dto.OneDriveTestResult{FolderPath: s.folderPath}
	if tok == nil {
		return out, errs.NewUnauthorizedError("not connected to OneDrive")
	}

	files, err := s.api.ListChildren(ctx, tok, s.folderPath)
	if err != nil {
		return out, err
	}
	out.Files = files
	return out, nil
}

func (s *onedriveService) Disconnect(ctx context.Context) {
	s.mu.Lock()
	s.token = nil
	s.user = nil
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info("onedrive disconnected")
}
