// Package integrations provides the HTTP transport used to read registry
// indexes.
//
// # Overview
//
// [Client] performs GET requests and returns response bodies as text. It
// applies default headers, maps HTTP status codes onto [ErrNotFound] and
// [ErrNetwork], wraps every failure in a coded error from
// [github.com/matzehuels/cargoquery/pkg/errors], and reports requests to the
// HTTP hooks in [github.com/matzehuels/cargoquery/pkg/observability].
//
// Registry-specific clients live in subpackages:
//
//   - [crates]: Cargo sparse indexes such as https://index.crates.io
//
// # No Caching, No Retries
//
// Each call performs exactly one request. Responses are not cached and
// transient failures are not retried; the caller sees the first error.
//
// [crates]: github.com/matzehuels/cargoquery/pkg/integrations/crates
package integrations
