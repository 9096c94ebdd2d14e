package driven

import (
	"context"

	"github.com/openclerk/rolodex/internal/core/domain"
)

// TokenExchanger performs grant exchanges against the provider's token
// endpoint. Implementations classify provider rejections as
// domain.ErrGrantRejected; any other failure is treated as transient by
// the refresher. The exchanger performs zero retries itself.
type TokenExchanger interface {
	// Refresh trades a refresh credential for a new access credential.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenGrant, error)

	// Exchange trades an authorization code for the initial grant.
	Exchange(ctx context.Context, code, redirectURI, codeVerifier string) (*domain.TokenGrant, error)
}
