package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/openclerk/rolodex/internal/core/domain"
	"github.com/openclerk/rolodex/internal/core/ports/driving"
)

// ContactOutput is the tool-facing contact shape.
type ContactOutput struct {
	ResourceName string   `json:"resource_name"`
	DisplayName  string   `json:"display_name,omitempty"`
	GivenName    string   `json:"given_name,omitempty"`
	FamilyName   string   `json:"family_name,omitempty"`
	Emails       []string `json:"emails,omitempty"`
	Phones       []string `json:"phones,omitempty"`
	Organization string   `json:"organization,omitempty"`
}

// SearchInput is the input schema for the contacts_search tool.
type SearchInput struct {
	Account string `json:"account" jsonschema:"the email of the account to search contacts for"`
	Query   string `json:"query" jsonschema:"the free-text query to match contacts against"`
	Limit   int64  `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the contacts_search tool.
type SearchOutput struct {
	Contacts []ContactOutput `json:"contacts"`
	Count    int             `json:"count"`
}

// GetInput is the input schema for the contacts_get tool.
type GetInput struct {
	Account      string `json:"account" jsonschema:"the email of the account owning the contact"`
	ResourceName string `json:"resource_name" jsonschema:"the contact's resource name (people/c...)"`
}

// ContactFields carries the writable contact fields for create and update.
type ContactFields struct {
	GivenName    string   `json:"given_name,omitempty" jsonschema:"the contact's given name"`
	FamilyName   string   `json:"family_name,omitempty" jsonschema:"the contact's family name"`
	Emails       []string `json:"emails,omitempty" jsonschema:"email addresses"`
	Phones       []string `json:"phones,omitempty" jsonschema:"phone numbers"`
	Organization string   `json:"organization,omitempty" jsonschema:"organization name"`
}

// CreateInput is the input schema for the contacts_create tool.
type CreateInput struct {
	Account string        `json:"account" jsonschema:"the email of the account to create the contact in"`
	Contact ContactFields `json:"contact" jsonschema:"the contact fields to set"`
}

// UpdateInput is the input schema for the contacts_update tool.
type UpdateInput struct {
	Account      string        `json:"account" jsonschema:"the email of the account owning the contact"`
	ResourceName string        `json:"resource_name" jsonschema:"the contact's resource name (people/c...)"`
	Contact      ContactFields `json:"contact" jsonschema:"the contact fields to replace"`
}

// DeleteInput is the input schema for the contacts_delete tool.
type DeleteInput struct {
	Account      string `json:"account" jsonschema:"the email of the account owning the contact"`
	ResourceName string `json:"resource_name" jsonschema:"the contact's resource name (people/c...)"`
}

// DeleteOutput is the output schema for the contacts_delete tool.
type DeleteOutput struct {
	Deleted bool `json:"deleted"`
}

// AccountsInput is the input schema for the accounts_list tool.
type AccountsInput struct{}

// AccountsOutput is the output schema for the accounts_list tool.
type AccountsOutput struct {
	Accounts []driving.AccountStatus `json:"accounts"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contacts_search",
		Description: "Search an account's contacts by free-text query",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contacts_get",
		Description: "Fetch one contact by resource name",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contacts_create",
		Description: "Create a contact in an account",
	}, s.handleCreate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contacts_update",
		Description: "Replace the writable fields of an existing contact",
	}, s.handleUpdate)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "contacts_delete",
		Description: "Delete a contact from an account",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "accounts_list",
		Description: "List the authorized accounts and their granted scopes",
	}, s.handleAccounts)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	account, err := domain.ParseAccountID(input.Account)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	limit := input.Limit
	if limit <= 0 {
		limit = 10
	}

	contacts, err := s.ports.Contacts.Search(ctx, account, input.Query, limit)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	output := SearchOutput{
		Contacts: make([]ContactOutput, len(contacts)),
		Count:    len(contacts),
	}
	for i := range contacts {
		output.Contacts[i] = contactOutput(&contacts[i])
	}
	return nil, output, nil
}

func (s *Server) handleGet(ctx context.Context, _ *mcp.CallToolRequest, input GetInput) (*mcp.CallToolResult, ContactOutput, error) {
	account, err := domain.ParseAccountID(input.Account)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := s.ports.Contacts.Get(ctx, account, input.ResourceName)
	if err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	return nil, contactOutput(contact), nil
}

func (s *Server) handleCreate(ctx context.Context, _ *mcp.CallToolRequest, input CreateInput) (*mcp.CallToolResult, ContactOutput, error) {
	account, err := domain.ParseAccountID(input.Account)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := s.ports.Contacts.Create(ctx, account, contactInput(input.Contact))
	if err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	return nil, contactOutput(contact), nil
}

func (s *Server) handleUpdate(ctx context.Context, _ *mcp.CallToolRequest, input UpdateInput) (*mcp.CallToolResult, ContactOutput, error) {
	account, err := domain.ParseAccountID(input.Account)
	if err != nil {
		return nil, ContactOutput{}, err
	}

	contact, err := s.ports.Contacts.Update(ctx, account, input.ResourceName, contactInput(input.Contact))
	if err != nil {
		return nil, ContactOutput{}, toolError(err)
	}
	return nil, contactOutput(contact), nil
}

func (s *Server) handleDelete(ctx context.Context, _ *mcp.CallToolRequest, input DeleteInput) (*mcp.CallToolResult, DeleteOutput, error) {
	account, err := domain.ParseAccountID(input.Account)
	if err != nil {
		return nil, DeleteOutput{}, err
	}

	if err := s.ports.Contacts.Delete(ctx, account, input.ResourceName); err != nil {
		return nil, DeleteOutput{}, toolError(err)
	}
	return nil, DeleteOutput{Deleted: true}, nil
}

func (s *Server) handleAccounts(ctx context.Context, _ *mcp.CallToolRequest, _ AccountsInput) (*mcp.CallToolResult, AccountsOutput, error) {
	accounts, err := s.ports.Accounts.List(ctx)
	if err != nil {
		return nil, AccountsOutput{}, toolError(err)
	}
	return nil, AccountsOutput{Accounts: accounts}, nil
}

// toolError renders a normalized error for the assistant. Authorization
// failures carry the consent URL so the assistant can relay it to the
// user instead of retrying.
func toolError(err error) error {
	nerr, ok := domain.AsNormalized(err)
	if !ok {
		return err
	}
	if nerr.AuthURL != "" {
		return fmt.Errorf("%s; authorize at: %s", nerr.Error(), nerr.AuthURL)
	}
	return nerr
}

func contactOutput(c *domain.Contact) ContactOutput {
	return ContactOutput{
		ResourceName: c.ResourceName,
		DisplayName:  c.DisplayName,
		GivenName:    c.GivenName,
		FamilyName:   c.FamilyName,
		Emails:       c.Emails,
		Phones:       c.Phones,
		Organization: c.Organization,
	}
}

func contactInput(f ContactFields) domain.ContactInput {
	return domain.ContactInput{
		GivenName:    f.GivenName,
		FamilyName:   f.FamilyName,
		Emails:       f.Emails,
		Phones:       f.Phones,
		Organization: f.Organization,
	}
}
