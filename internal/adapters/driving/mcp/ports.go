package mcp

import (
	"errors"

	"github.com/openclerk/rolodex/internal/core/ports/driving"
)

// ErrMissingContactsService is returned when the contacts service is not provided.
var ErrMissingContactsService = errors.New("mcp: contacts service is required")

// ErrMissingAccountService is returned when the account service is not provided.
var ErrMissingAccountService = errors.New("mcp: account service is required")

// Ports holds the driving-port implementations the MCP server exposes.
type Ports struct {
	Contacts driving.ContactsService
	Accounts driving.AccountService
}

// Validate checks that all required ports are present.
func (p *Ports) Validate() error {
	if p.Contacts == nil {
		return ErrMissingContactsService
	}
	if p.Accounts == nil {
		return ErrMissingAccountService
	}
	return nil
}
