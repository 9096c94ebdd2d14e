package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"

	"github.com/openclerk/rolodex/internal/adapters/driven/storage/memory"
	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/services"
)

// fakeExchanger satisfies driven.TokenExchanger for wiring tests that
// never reach the provider.
type fakeExchanger struct{}

func (fakeExchanger) Refresh(_ context.Context, _ string) (*domain.TokenGrant, error) {
	return nil, domain.ErrNotImplemented
}

func (fakeExchanger) Exchange(_ context.Context, _, _, _ string) (*domain.TokenGrant, error) {
	return nil, domain.ErrNotImplemented
}

func newTestContacts(t *testing.T) (*Contacts, *memory.TokenStore) {
	t.Helper()

	store := memory.NewTokenStore()
	urls := services.NewAuthURLBuilder("client-id", "http://localhost:8420/callback")
	refresher := services.NewTokenRefresher(store, fakeExchanger{}, urls)
	validator := services.NewScopeValidator(urls)
	auth := services.NewAuthService(store, refresher, validator, urls)
	return NewContacts(auth, urls, NewLimiterPool(DefaultRateLimit), time.Second), store
}

// localContacts wires a Contacts layer whose client handle points at a
// local People endpoint, with a fresh write-scoped credential on record.
func localContacts(t *testing.T, endpoint string) *Contacts {
	t.Helper()

	contacts, store := newTestContacts(t)
	record := &domain.TokenRecord{
		AccountID:    "ada@example.com",
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Scopes:       domain.DefaultScopes,
		Expiry:       time.Now().Add(time.Hour),
	}
	require.NoError(t, store.Save(context.Background(), *record))

	contacts.builder = func(ctx context.Context, rec *domain.TokenRecord) (*people.Service, error) {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: rec.AccessToken})
		return people.NewService(ctx,
			option.WithTokenSource(ts),
			option.WithEndpoint(endpoint))
	}
	return contacts
}

func TestContacts_InputValidation(t *testing.T) {
	contacts, _ := newTestContacts(t)
	ctx := context.Background()

	_, err := contacts.Get(ctx, "ada@example.com", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = contacts.Search(ctx, "ada@example.com", "", 10)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = contacts.Create(ctx, "ada@example.com", domain.ContactInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = contacts.Update(ctx, "ada@example.com", "", domain.ContactInput{GivenName: "Ada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = contacts.Update(ctx, "ada@example.com", "people/c1", domain.ContactInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, contacts.Delete(ctx, "ada@example.com", ""), domain.ErrInvalidInput)
}

func TestContacts_UnauthorizedAccountShortCircuits(t *testing.T) {
	contacts, _ := newTestContacts(t)

	// No stored credential: the pipeline fails before any provider or
	// rate-limiter involvement.
	_, err := contacts.Get(context.Background(), "nobody@example.com", "people/c1")

	nerr, ok := domain.AsNormalized(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindNotAuthenticated, nerr.Kind)
	assert.NotEmpty(t, nerr.AuthURL)
}

func TestContacts_Create_IncompleteResponse(t *testing.T) {
	// 200 with an empty body: success without the assigned resource name.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	contacts := localContacts(t, srv.URL)

	_, err := contacts.Create(context.Background(), "ada@example.com",
		domain.ContactInput{GivenName: "Ada"})

	nerr, ok := domain.AsNormalized(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindIncompleteResponse, nerr.Kind)
	assert.False(t, nerr.Retryable())
}

func TestContacts_Update_IncompleteResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			// The etag fetch preceding the update.
			_, _ = w.Write([]byte(`{"resourceName":"people/c1","etag":"etag-1"}`))
			return
		}
		_, _ = w.Write([]byte("{}"))
	}))
	defer srv.Close()

	contacts := localContacts(t, srv.URL)

	_, err := contacts.Update(context.Background(), "ada@example.com", "people/c1",
		domain.ContactInput{GivenName: "Ada"})

	nerr, ok := domain.AsNormalized(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindIncompleteResponse, nerr.Kind)
}

func TestContacts_Normalize_AttachesAuthURL(t *testing.T) {
	contacts, _ := newTestContacts(t)

	err := contacts.normalize("ada@example.com", domain.ReadScopes,
		&googleapi.Error{Code: http.StatusUnauthorized})

	nerr, ok := domain.AsNormalized(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindReauthorizationRequired, nerr.Kind)
	assert.NotEmpty(t, nerr.AuthURL)
}

func TestContacts_Normalize_RecordsRateLimitBackoff(t *testing.T) {
	contacts, _ := newTestContacts(t)

	gerr := &googleapi.Error{
		Code:   http.StatusTooManyRequests,
		Header: http.Header{"Retry-After": []string{"30"}},
	}
	err := contacts.normalize("ada@example.com", domain.ReadScopes, gerr)

	assert.True(t, domain.IsKind(err, domain.KindTransient))
	assert.False(t, contacts.limits.Allow("ada@example.com"),
		"429 puts the account into backoff")
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 0, retryAfterSeconds(&googleapi.Error{}))
	assert.Equal(t, 0, retryAfterSeconds(&googleapi.Error{
		Header: http.Header{"Retry-After": []string{"soon"}},
	}))
	assert.Equal(t, 45, retryAfterSeconds(&googleapi.Error{
		Header: http.Header{"Retry-After": []string{"45"}},
	}))
}

func TestPersonToContact(t *testing.T) {
	person := &people.Person{
		ResourceName: "people/c1",
		Etag:         "etag-1",
		Names: []*people.Name{{
			DisplayName: "Ada Lovelace",
			GivenName:   "Ada",
			FamilyName:  "Lovelace",
		}},
		EmailAddresses: []*people.EmailAddress{
			{Value: "ada@example.com"},
			{Value: ""},
			{Value: "ada@work.example.com"},
		},
		PhoneNumbers: []*people.PhoneNumber{{Value: "+44 20 7946 0000"}},
		Organizations: []*people.Organization{
			{Name: "Analytical Engines Ltd"},
		},
	}

	contact := personToContact(person)

	assert.Equal(t, "people/c1", contact.ResourceName)
	assert.Equal(t, "etag-1", contact.Etag)
	assert.Equal(t, "Ada Lovelace", contact.DisplayName)
	assert.Equal(t, "Ada", contact.GivenName)
	assert.Equal(t, "Lovelace", contact.FamilyName)
	assert.Equal(t, []string{"ada@example.com", "ada@work.example.com"}, contact.Emails)
	assert.Equal(t, []string{"+44 20 7946 0000"}, contact.Phones)
	assert.Equal(t, "Analytical Engines Ltd", contact.Organization)
}

func TestPersonToContact_Sparse(t *testing.T) {
	contact := personToContact(&people.Person{ResourceName: "people/c2"})

	assert.Equal(t, "people/c2", contact.ResourceName)
	assert.Empty(t, contact.DisplayName)
	assert.Empty(t, contact.Emails)
	assert.Empty(t, contact.Phones)
}

func TestInputToPerson(t *testing.T) {
	in := domain.ContactInput{
		GivenName:    "Grace",
		FamilyName:   "Hopper",
		Emails:       []string{"grace@example.com"},
		Phones:       []string{"+1 555 0100"},
		Organization: "Navy",
	}

	person := inputToPerson(in)

	require.Len(t, person.Names, 1)
	assert.Equal(t, "Grace", person.Names[0].GivenName)
	assert.Equal(t, "Hopper", person.Names[0].FamilyName)
	require.Len(t, person.EmailAddresses, 1)
	assert.Equal(t, "grace@example.com", person.EmailAddresses[0].Value)
	require.Len(t, person.PhoneNumbers, 1)
	require.Len(t, person.Organizations, 1)
	assert.Equal(t, "Navy", person.Organizations[0].Name)
}

func TestInputToPerson_NoNameBlockWhenEmpty(t *testing.T) {
	person := inputToPerson(domain.ContactInput{Emails: []string{"x@example.com"}})

	assert.Empty(t, person.Names)
}
