// Package sqlite provides the durable token store backed by SQLite.
// The database lives in the host's data directory and is written
// through on every credential mutation, so records survive restarts.
package sqlite
