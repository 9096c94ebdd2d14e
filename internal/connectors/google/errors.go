package google

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"google.golang.org/api/googleapi"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/logger"
)

// Normalize maps a Google API failure into the host's closed error
// taxonomy. Already-normalized errors pass through unchanged, so it is
// safe at every return path. Anything unclassifiable becomes
// KindUnknown and is logged with full original detail.
func Normalize(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := domain.AsNormalized(err); ok {
		return err
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return normalizeAPIError(gerr, err)
	}

	if isNetworkError(err) {
		return domain.Normalized(domain.KindTransient, err, "provider unreachable: %v", err)
	}

	logger.Error("unclassified provider failure: %v", err)
	return domain.Normalized(domain.KindUnknown, err, "%v", err)
}

func normalizeAPIError(gerr *googleapi.Error, cause error) error {
	var nerr *domain.NormalizedError

	switch {
	case gerr.Code == http.StatusUnauthorized:
		// 401 means the access token itself was rejected. The factory
		// only builds clients from non-expired tokens, so rejection
		// implies revocation.
		nerr = domain.Normalized(domain.KindReauthorizationRequired, cause,
			"provider rejected the access token")

	case gerr.Code == http.StatusForbidden && isRateLimit(gerr):
		nerr = domain.Normalized(domain.KindTransient, cause,
			"provider quota exceeded: %s", gerr.Message)

	case gerr.Code == http.StatusForbidden && isScopeInsufficient(gerr):
		nerr = domain.Normalized(domain.KindInsufficientScope, cause,
			"token lacks the scopes this operation requires")

	case gerr.Code == http.StatusForbidden:
		nerr = domain.Normalized(domain.KindReauthorizationRequired, cause,
			"provider denied access: %s", gerr.Message)

	case gerr.Code == http.StatusNotFound:
		nerr = domain.Normalized(domain.KindNotFound, cause, "resource not found")

	case gerr.Code == http.StatusTooManyRequests || gerr.Code >= 500:
		nerr = domain.Normalized(domain.KindTransient, cause,
			"provider returned status %d", gerr.Code)

	default:
		logger.Error("unclassified provider error (status %d): %v", gerr.Code, cause)
		nerr = domain.Normalized(domain.KindUnknown, cause,
			"provider returned status %d: %s", gerr.Code, gerr.Message)
	}

	nerr.Code = gerr.Code
	return nerr
}

// isScopeInsufficient distinguishes a missing-scope 403 from a revoked
// or blocked credential. The structured reason codes are checked first;
// message inspection is a fallback only, since the provider does not
// guarantee its wording.
func isScopeInsufficient(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "insufficientPermissions", "ACCESS_TOKEN_SCOPE_INSUFFICIENT":
			return true
		}
	}
	msg := strings.ToLower(gerr.Message + " " + gerr.Body)
	return strings.Contains(msg, "insufficient authentication scopes") ||
		strings.Contains(msg, "access_token_scope_insufficient")
}

// isRateLimit detects quota 403s, which Google issues alongside 429s.
func isRateLimit(gerr *googleapi.Error) bool {
	for _, item := range gerr.Errors {
		switch item.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded", "quotaExceeded":
			return true
		}
	}
	return false
}

func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
