package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointUserInfoAt redirects the userinfo endpoint at a local server for
// the duration of the test.
func pointUserInfoAt(t *testing.T, url string) {
	t.Helper()
	original := userInfoURL
	userInfoURL = url
	t.Cleanup(func() { userInfoURL = original })
}

func TestGetUserInfo_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"email":"ada@example.com","verified_email":true,"name":"Ada"}`))
	}))
	defer srv.Close()
	pointUserInfoAt(t, srv.URL)

	info, err := GetUserInfo(context.Background(), "access-1")

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", info.Email)
	assert.True(t, info.VerifiedEmail)
	assert.Equal(t, "Ada", info.Name)
}

func TestGetUserInfo_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()
	pointUserInfoAt(t, srv.URL)

	_, err := GetUserInfo(context.Background(), "stale-token")

	assert.ErrorContains(t, err, "status 401")
}

func TestGetUserInfo_MissingEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"name":"Ada"}`))
	}))
	defer srv.Close()
	pointUserInfoAt(t, srv.URL)

	_, err := GetUserInfo(context.Background(), "access-1")

	assert.ErrorContains(t, err, "missing email")
}

func TestGetUserInfo_BoundedWithoutDeadline(t *testing.T) {
	// The call must not hang forever when the caller's context has no
	// deadline: the dedicated client enforces a timeout of its own.
	assert.Greater(t, userInfoClient.Timeout, time.Duration(0))
}

func TestGetUserInfo_ContextCancelled(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)
	pointUserInfoAt(t, srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := GetUserInfo(ctx, "access-1")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
