// Package deps expands package specs into a flat set of releases.
//
// # Resolving
//
// A [Resolver] looks each root spec up in the index, then (when
// Options.Recursive is set) walks the dependencies of every release it
// finds, depth first and in the order they are listed:
//
//	r := deps.NewResolver(crates.NewClient("", 0), deps.Options{
//	    Recursive: true,
//	    MaxDepth:  2,
//	})
//	set, err := r.Resolve(ctx, "serde_json@1.0", "tokio")
//
// The result is a [Set]: releases in visitation order, each package version
// at most once. Before following a dependency the resolver checks whether
// the set already holds a release of that package satisfying the
// requirement; if so the dependency is not fetched again. This is what
// keeps cyclic dependency graphs finite.
//
// # Depth
//
// MaxDepth counts dependency hops from each root. 1 yields the roots and
// their direct dependencies; 0 means no limit.
//
// # Missing Packages
//
// By default a dependency that cannot be fetched or has no matching release
// fails the whole run. With IgnoreMissing the branch is dropped instead and
// reported through Options.Logger, Options.OnSkip and the observability
// OnSkip hook.
// Malformed version requirements and context cancellation are always fatal.
//
// # Manifest Roots
//
// [ReadCargoManifest] turns the dependency tables of a Cargo.toml into root
// specs for [Resolver.Resolve].
package deps
