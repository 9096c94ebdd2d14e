// Package driving defines interfaces that external actors (CLI, MCP
// server) use to interact with the application. These are the "driving"
// ports in hexagonal architecture terminology - they drive the
// application.
package driving
