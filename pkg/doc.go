// Package pkg provides the libraries behind cargoquery, a query tool for
// Cargo sparse package indexes.
//
// # Overview
//
// A sparse index stores one newline-delimited JSON file per package, one
// line per published release. cargoquery fetches those files over HTTP,
// picks the release matching a version requirement and, when asked, walks
// its dependencies into a transitive set. The pkg directory is organized as:
//
//  1. [index] - Index records: paths, releases, version requirements
//  2. [query] - "name@req" specs and single-package lookups
//  3. [deps] - Recursive resolution with cycle guard and depth limit
//  4. [integrations] - HTTP transport, including the crates.io client
//  5. [io] and [render] - Output as JSON, YAML, text or Graphviz
//  6. [config], [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Data Flow
//
//	"serde@1.0"
//	     ↓
//	[query] Parse, then index.Path → "se/rd/serde"
//	     ↓
//	[integrations/crates] Fetch (one GET per package)
//	     ↓
//	[index] Parse → Package → Matching(req)
//	     ↓
//	[deps] Resolver (depth first, in listed order)
//	     ↓
//	[io] Encode or [render/nodelink] ToDOT
//
// # Quick Start
//
//	client := crates.NewClient(buildinfo.UserAgent(), 0)
//	r := deps.NewResolver(client, deps.Options{Recursive: true, MaxDepth: 2})
//	set, err := r.Resolve(ctx, "serde_json@1")
//	if err != nil {
//	    return err
//	}
//	return io.Encode(os.Stdout, set.Releases(), io.Options{Shape: io.ShapeDeps})
//
// # Errors
//
// Every package returns [errors.Error] values with a code such as
// NOT_FOUND or DESERIALIZE. Use [errors.Is] to branch on the code and
// [errors.UserMessage] to print it.
//
// [index]: github.com/matzehuels/cargoquery/pkg/index
// [query]: github.com/matzehuels/cargoquery/pkg/query
// [deps]: github.com/matzehuels/cargoquery/pkg/deps
// [integrations]: github.com/matzehuels/cargoquery/pkg/integrations
// [io]: github.com/matzehuels/cargoquery/pkg/io
// [render]: github.com/matzehuels/cargoquery/pkg/render/nodelink
// [config]: github.com/matzehuels/cargoquery/pkg/config
// [errors]: github.com/matzehuels/cargoquery/pkg/errors
// [observability]: github.com/matzehuels/cargoquery/pkg/observability
// [buildinfo]: github.com/matzehuels/cargoquery/pkg/buildinfo
// [errors.Error]: github.com/matzehuels/cargoquery/pkg/errors.Error
// [errors.Is]: github.com/matzehuels/cargoquery/pkg/errors.Is
// [errors.UserMessage]: github.com/matzehuels/cargoquery/pkg/errors.UserMessage
package pkg
