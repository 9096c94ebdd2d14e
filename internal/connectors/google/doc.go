// Package google integrates with Google APIs: building authenticated
// People API clients, normalizing provider errors into the host's
// closed taxonomy, and rate limiting per-account traffic.
package google
