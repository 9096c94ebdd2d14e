// Package domain defines the core business entities for Rolodex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - AccountID: The normalized identity of a managed account
//   - TokenRecord: Durable OAuth credential state for one account
//   - NormalizedError: The closed failure taxonomy crossing the core boundary
//   - Contact: The thin view of a provider contact
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
