package google

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// userInfoURL is a var so tests can point it at a local server.
var userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// userInfoClient bounds the userinfo call even when the caller's context
// carries no deadline.
var userInfoClient = &http.Client{Timeout: 30 * time.Second}

// NewPeopleService builds a People API client bound to one valid
// credential. It satisfies services.ClientBuilder, so the auth factory
// never hands it an expired or under-scoped token. The token source is
// deliberately static: handles live for a single operation and are
// rebuilt per call, so refresh stays with the credential layer.
func NewPeopleService(ctx context.Context, record *domain.TokenRecord) (*people.Service, error) {
	tokenType := record.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: record.AccessToken,
		TokenType:   tokenType,
	})
	return people.NewService(ctx, option.WithTokenSource(ts))
}

// UserInfo contains the user's basic profile information from Google.
type UserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GetUserInfo fetches the user's profile using an access token.
// The returned email is the account identity key.
func GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := userInfoClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var userInfo UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("user info response missing email")
	}

	return &userInfo, nil
}
