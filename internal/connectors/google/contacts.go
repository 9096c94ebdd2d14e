package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/people/v1"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driving"
	"github.com/openclerk/rolodex/internal/core/services"
	"github.com/openclerk/rolodex/internal/logger"
)

// personFields is the field mask requested on every read.
const personFields = "names,emailAddresses,phoneNumbers,organizations"

// updatePersonFields names the field groups replaced on update.
const updatePersonFields = "names,emailAddresses,phoneNumbers,organizations"

const defaultPageSize = 100

// Ensure Contacts implements the driving port.
var _ driving.ContactsService = (*Contacts)(nil)

// Contacts implements the per-account contact operations on the People
// API. Every operation obtains a fresh client handle through the auth
// factory, declares its minimal scope set, and funnels failures through
// Normalize.
type Contacts struct {
	auth    *services.AuthService
	urls    *services.AuthURLBuilder
	limits  *LimiterPool
	timeout time.Duration

	// builder produces the client handle for one operation. Tests swap
	// it for one pointed at a local endpoint.
	builder services.ClientBuilder[*people.Service]
}

// NewContacts creates the contacts operation layer. timeout bounds each
// provider call; zero means 30 seconds.
func NewContacts(
	auth *services.AuthService,
	urls *services.AuthURLBuilder,
	limits *LimiterPool,
	timeout time.Duration,
) *Contacts {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Contacts{
		auth:    auth,
		urls:    urls,
		limits:  limits,
		timeout: timeout,
		builder: NewPeopleService,
	}
}

// Get fetches one contact by resource name.
func (c *Contacts) Get(ctx context.Context, account domain.AccountID, resourceName string) (*domain.Contact, error) {
	if resourceName == "" {
		return nil, fmt.Errorf("%w: empty resource name", domain.ErrInvalidInput)
	}

	svc, err := c.service(ctx, account, domain.ReadScopes)
	if err != nil {
		return nil, err
	}
	if err := c.limits.Wait(ctx, account); err != nil {
		return nil, c.normalize(account, domain.ReadScopes, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	person, err := svc.People.Get(resourceName).
		PersonFields(personFields).
		Context(callCtx).Do()
	if err != nil {
		return nil, c.normalize(account, domain.ReadScopes, err)
	}

	return personToContact(person), nil
}

// List returns one page of the account's contacts.
func (c *Contacts) List(ctx context.Context, account domain.AccountID, pageSize int64, pageToken string) (*domain.ContactPage, error) {
	svc, err := c.service(ctx, account, domain.ReadScopes)
	if err != nil {
		return nil, err
	}
	if err := c.limits.Wait(ctx, account); err != nil {
		return nil, c.normalize(account, domain.ReadScopes, err)
	}

	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := svc.People.Connections.List("people/me").
		PersonFields(personFields).
		PageSize(pageSize).
		PageToken(pageToken).
		Context(callCtx).Do()
	if err != nil {
		return nil, c.normalize(account, domain.ReadScopes, err)
	}

	page := &domain.ContactPage{
		Contacts:      make([]domain.Contact, 0, len(resp.Connections)),
		NextPageToken: resp.NextPageToken,
		TotalItems:    int64(resp.TotalItems),
	}
	for _, person := range resp.Connections {
		page.Contacts = append(page.Contacts, *personToContact(person))
	}
	return page, nil
}

// Search matches contacts against a free-text query.
func (c *Contacts) Search(ctx context.Context, account domain.AccountID, query string, limit int64) ([]domain.Contact, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: empty search query", domain.ErrInvalidInput)
	}

	svc, err := c.service(ctx, account, domain.ReadScopes)
	if err != nil {
		return nil, err
	}
	if err := c.limits.Wait(ctx, account); err != nil {
		return nil, c.normalize(account, domain.ReadScopes, err)
	}

	if limit <= 0 || limit > 30 {
		// SearchContacts caps pageSize at 30.
		limit = 30
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := svc.People.SearchContacts().
		Query(query).
		ReadMask(personFields).
		PageSize(limit).
		Context(callCtx).Do()
	if err != nil {
		return nil, c.normalize(account, domain.ReadScopes, err)
	}

	contacts := make([]domain.Contact, 0, len(resp.Results))
	for _, result := range resp.Results {
		if result.Person == nil {
			continue
		}
		contacts = append(contacts, *personToContact(result.Person))
	}
	return contacts, nil
}

// Create adds a contact and returns it with its assigned resource name.
func (c *Contacts) Create(ctx context.Context, account domain.AccountID, in domain.ContactInput) (*domain.Contact, error) {
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: contact input is empty", domain.ErrInvalidInput)
	}

	svc, err := c.service(ctx, account, domain.WriteScopes)
	if err != nil {
		return nil, err
	}
	if err := c.limits.Wait(ctx, account); err != nil {
		return nil, c.normalize(account, domain.WriteScopes, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	created, err := svc.People.CreateContact(inputToPerson(in)).
		PersonFields(personFields).
		Context(callCtx).Do()
	if err != nil {
		return nil, c.normalize(account, domain.WriteScopes, err)
	}
	if created == nil || created.ResourceName == "" {
		// The provider reported success without identifying the new
		// resource; the operation contract requires the identifier.
		return nil, domain.Normalized(domain.KindIncompleteResponse, nil,
			"create succeeded but response carries no resource name")
	}

	return personToContact(created), nil
}

// Update replaces the writable fields of an existing contact. The
// current etag is fetched first so the provider can reject lost updates.
func (c *Contacts) Update(ctx context.Context, account domain.AccountID, resourceName string, in domain.ContactInput) (*domain.Contact, error) {
	if resourceName == "" {
		return nil, fmt.Errorf("%w: empty resource name", domain.ErrInvalidInput)
	}
	if in.IsEmpty() {
		return nil, fmt.Errorf("%w: contact input is empty", domain.ErrInvalidInput)
	}

	svc, err := c.service(ctx, account, domain.WriteScopes)
	if err != nil {
		return nil, err
	}
	if err := c.limits.Wait(ctx, account); err != nil {
		return nil, c.normalize(account, domain.WriteScopes, err)
	}

	getCtx, cancelGet := context.WithTimeout(ctx, c.timeout)
	defer cancelGet()

	current, err := svc.People.Get(resourceName).
		PersonFields(personFields).
		Context(getCtx).Do()
	if err != nil {
		return nil, c.normalize(account, domain.WriteScopes, err)
	}

	person := inputToPerson(in)
	person.Etag = current.Etag

	if err := c.limits.Wait(ctx, account); err != nil {
		return nil, c.normalize(account, domain.WriteScopes, err)
	}

	updateCtx, cancelUpdate := context.WithTimeout(ctx, c.timeout)
	defer cancelUpdate()

	updated, err := svc.People.UpdateContact(resourceName, person).
		UpdatePersonFields(updatePersonFields).
		Context(updateCtx).Do()
	if err != nil {
		return nil, c.normalize(account, domain.WriteScopes, err)
	}
	if updated == nil || updated.ResourceName == "" {
		return nil, domain.Normalized(domain.KindIncompleteResponse, nil,
			"update succeeded but response carries no resource name")
	}

	return personToContact(updated), nil
}

// Delete removes a contact.
func (c *Contacts) Delete(ctx context.Context, account domain.AccountID, resourceName string) error {
	if resourceName == "" {
		return fmt.Errorf("%w: empty resource name", domain.ErrInvalidInput)
	}

	svc, err := c.service(ctx, account, domain.WriteScopes)
	if err != nil {
		return err
	}
	if err := c.limits.Wait(ctx, account); err != nil {
		return c.normalize(account, domain.WriteScopes, err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if _, err := svc.People.DeleteContact(resourceName).Context(callCtx).Do(); err != nil {
		return c.normalize(account, domain.WriteScopes, err)
	}
	return nil
}

// service obtains a People client handle through the auth factory for
// exactly one operation invocation.
func (c *Contacts) service(ctx context.Context, account domain.AccountID, required []string) (*people.Service, error) {
	return services.GetClient(ctx, c.auth, account, required, c.builder)
}

// normalize funnels a provider failure through the taxonomy, feeds 429
// backoff to the limiter, and attaches a remediation URL to the
// authorization kinds.
func (c *Contacts) normalize(account domain.AccountID, required []string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		c.limits.RecordRateLimitError(account, retryAfterSeconds(gerr))
	}

	nerr, ok := domain.AsNormalized(Normalize(err))
	if !ok {
		return err
	}

	switch nerr.Kind {
	case domain.KindReauthorizationRequired, domain.KindInsufficientScope:
		if nerr.AuthURL == "" {
			nerr.WithAuthURL(c.urls.URL(account, domain.UnionScopes(required, domain.DefaultScopes)))
		}
	default:
	}

	if nerr.Kind == domain.KindUnknown {
		logger.Debug("operation for %s failed unclassified: %v", account, err)
	}
	return nerr
}

func retryAfterSeconds(gerr *googleapi.Error) int {
	if gerr.Header == nil {
		return 0
	}
	seconds, err := strconv.Atoi(gerr.Header.Get("Retry-After"))
	if err != nil {
		return 0
	}
	return seconds
}

func personToContact(person *people.Person) *domain.Contact {
	contact := &domain.Contact{
		ResourceName: person.ResourceName,
		Etag:         person.Etag,
	}

	if len(person.Names) > 0 {
		contact.DisplayName = person.Names[0].DisplayName
		contact.GivenName = person.Names[0].GivenName
		contact.FamilyName = person.Names[0].FamilyName
	}
	for _, email := range person.EmailAddresses {
		if email.Value != "" {
			contact.Emails = append(contact.Emails, email.Value)
		}
	}
	for _, phone := range person.PhoneNumbers {
		if phone.Value != "" {
			contact.Phones = append(contact.Phones, phone.Value)
		}
	}
	if len(person.Organizations) > 0 {
		contact.Organization = person.Organizations[0].Name
	}
	return contact
}

func inputToPerson(in domain.ContactInput) *people.Person {
	person := &people.Person{}

	if in.GivenName != "" || in.FamilyName != "" {
		person.Names = []*people.Name{{
			GivenName:  in.GivenName,
			FamilyName: in.FamilyName,
		}}
	}
	for _, email := range in.Emails {
		person.EmailAddresses = append(person.EmailAddresses, &people.EmailAddress{Value: email})
	}
	for _, phone := range in.Phones {
		person.PhoneNumbers = append(person.PhoneNumbers, &people.PhoneNumber{Value: phone})
	}
	if in.Organization != "" {
		person.Organizations = []*people.Organization{{Name: in.Organization}}
	}
	return person
}
