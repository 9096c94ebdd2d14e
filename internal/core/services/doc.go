// Package services implements the credential and authenticated-client
// management core. Services contain the business logic and orchestrate
// calls to driven ports (adapters).
//
// The flow for one authenticated operation: load the account's token
// record, refresh it if it is expiring, validate the granted scopes,
// then hand a valid credential to the caller's client builder. Every
// failure leaving this package is a *domain.NormalizedError.
package services
