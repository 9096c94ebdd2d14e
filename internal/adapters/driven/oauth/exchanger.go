// Package oauth implements the provider token endpoint port: refresh
// and authorization-code grant exchanges over HTTP.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driven"
)

// googleTokenURL is the default token endpoint.
const googleTokenURL = "https://oauth2.googleapis.com/token"

// Ensure Exchanger implements the port.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// Exchanger talks to the provider's token endpoint. It performs exactly
// one HTTP exchange per call and never retries; classification of
// failures is left to the refresher.
type Exchanger struct {
	clientID     string
	clientSecret string
	tokenURL     string
	client       *http.Client
	now          func() time.Time
}

// NewExchanger creates an exchanger for the given OAuth application.
// timeout bounds each exchange; zero means 30 seconds.
func NewExchanger(clientID, clientSecret string, timeout time.Duration) *Exchanger {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Exchanger{
		clientID:     clientID,
		clientSecret: clientSecret,
		tokenURL:     googleTokenURL,
		client:       &http.Client{Timeout: timeout},
		now:          time.Now,
	}
}

// WithTokenURL overrides the token endpoint. Used by tests.
func (e *Exchanger) WithTokenURL(u string) *Exchanger {
	e.tokenURL = u
	return e
}

// Refresh trades a refresh credential for a new access credential.
// A provider rejection (revoked or invalid refresh token) is returned
// wrapping domain.ErrGrantRejected.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (*domain.TokenGrant, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", e.clientID)
	data.Set("client_secret", e.clientSecret)

	return e.post(ctx, data)
}

// Exchange trades an authorization code for the initial grant.
func (e *Exchanger) Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.TokenGrant, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	data.Set("client_id", e.clientID)
	data.Set("client_secret", e.clientSecret)
	if codeVerifier != "" {
		data.Set("code_verifier", codeVerifier)
	}

	return e.post(ctx, data)
}

func (e *Exchanger) post(ctx context.Context, data url.Values) (*domain.TokenGrant, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, e.exchangeError(resp)
	}

	var tokenResp struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
		TokenType    string `json:"token_type"`
		ExpiresIn    int    `json:"expires_in"`
		Scope        string `json:"scope"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return nil, fmt.Errorf("token response missing access_token")
	}

	grant := &domain.TokenGrant{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		TokenType:    tokenResp.TokenType,
		Scopes:       strings.Fields(tokenResp.Scope),
	}
	if tokenResp.ExpiresIn > 0 {
		grant.Expiry = e.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	return grant, nil
}

// exchangeError classifies a non-200 token endpoint response. The
// provider signals a dead grant with a structured error code on a 4xx
// status; everything else (429, 5xx, unparseable bodies) stays a plain
// error so the refresher treats it as transient.
func (e *Exchanger) exchangeError(resp *http.Response) error {
	var errResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	decodeErr := json.NewDecoder(resp.Body).Decode(&errResp)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 && decodeErr == nil {
		switch errResp.Error {
		case "invalid_grant", "invalid_client", "unauthorized_client":
			return fmt.Errorf("%w: %s (%s)", domain.ErrGrantRejected, errResp.Error, errResp.Description)
		}
	}

	if decodeErr == nil && errResp.Error != "" {
		return fmt.Errorf("token exchange failed with status %d: %s (%s)",
			resp.StatusCode, errResp.Error, errResp.Description)
	}
	return fmt.Errorf("token exchange failed with status %d", resp.StatusCode)
}
