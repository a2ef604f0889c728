package onedriveclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"

	"github.com/GregMSThompson/devpay-backend/internal/dto"
	"github.com/GregMSThompson/devpay-backend/internal/errs"
)

const (
	service         = "onedrive"
	defaultGraphURL = "https://graph.microsoft.com/v1.0"
)

var scopes = []string{
	"https://graph.microsoft.com/Files.ReadWrite.All",
	"https://graph.microsoft.com/User.Read",
	"offline_access",
}

type Adapter struct {
	oauth    *oauth2.Config
	graphURL string
}

func NewAdapter(clientID, clientSecret, tenantID, redirectURL string) *Adapter {
	if tenantID == "" {
		tenantID = "common"
	}
	return &Adapter{
		oauth: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     microsoft.AzureADEndpoint(tenantID),
			RedirectURL:  redirectURL,
			Scopes:       scopes,
		},
		graphURL: defaultGraphURL,
	}
}

// WithEndpoints overrides the token endpoint and Graph root. Used by tests.
func (a *Adapter) WithEndpoints(endpoint oauth2.Endpoint, graphURL string) *Adapter {
	a.oauth.Endpoint = endpoint
	a.graphURL = strings.TrimSuffix(graphURL, "/")
	return a
}

func (a *Adapter) Configured() bool {
	return a.oauth.ClientID != "" && a.oauth.ClientSecret != ""
}

func (a *Adapter) AuthCodeURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_mode", "query"))
}

func (a *Adapter) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errs.NewExternalServiceError(service, "failed to exchange authorization code", false, err)
	}
	return tok, nil
}

type graphUser struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

func (a *Adapter) Me(ctx context.Context, tok *oauth2.Token) (dto.OneDriveUser, error) {
	var u graphUser
	if err := a.get(ctx, tok, "/me", &u); err != nil {
		return dto.OneDriveUser{}, err
	}
	mail := u.Mail
	if mail == "" {
		mail = u.UserPrincipalName
	}
	return dto.OneDriveUser{ID: u.ID, DisplayName: u.DisplayName, Mail: mail}, nil
}

// ListChildren lists the drive root when folderPath is empty or "/".
func (a *Adapter) ListChildren(ctx context.Context, tok *oauth2.Token, folderPath string) ([]dto.DriveItem, error) {
	path := "/me/drive/root/children"
	if p := strings.Trim(folderPath, "/"); p != "" {
		path = "/me/drive/root:/" + (&url.URL{Path: p}).EscapedPath() + ":/children"
	}
	var page struct {
		Value []dto.DriveItem `json:"value"`
	}
	if err := a.get(ctx, tok, path, &page); err != nil {
		return nil, err
	}
	if page.Value == nil {
		page.Value = []dto.DriveItem{}
	}
	return page.Value, nil
}

func (a *Adapter) get(ctx context.Context, tok *oauth2.Token, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.graphURL+path, nil)
	if err != nil {
		return errs.NewInternalError("failed to build graph request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.oauth.Client(ctx, tok).Do(req)
	if err != nil {
		return errs.NewExternalServiceError(service, "graph request failed", true, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		transient := resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError
		return errs.NewExternalServiceError(service,
			fmt.Sprintf("graph %s returned %d", path, resp.StatusCode), transient,
			fmt.Errorf("%s", strings.TrimSpace(string(body))))
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return errs.NewExternalServiceError(service, "failed to decode graph response", false, err)
	}
	return nil
}
