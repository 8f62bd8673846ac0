// Package query parses "name[@requirement]" package specs and looks them up
// in a registry index.
//
// A [Query] is an immutable value. Lookups need a [Fetcher], which performs
// the actual HTTP request; [crates.Client] is the production implementation.
//
//	q, err := query.Parse("serde@^1.0")
//	rel, err := q.ResolveRelease(ctx, crates.NewClient("", 0))
//	if rel == nil {
//	    // no release matches ^1.0
//	}
//
// [crates.Client]: github.com/matzehuels/cargoquery/pkg/integrations/crates.Client
package query

import (
	"context"
	"strings"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
)

// Fetcher retrieves a raw index file.
type Fetcher interface {
	// Fetch returns the body found at baseURL + "/" + path.
	Fetch(ctx context.Context, baseURL, path string) (string, error)
}

// FetcherFunc adapts a function to the [Fetcher] interface.
type FetcherFunc func(ctx context.Context, baseURL, path string) (string, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, baseURL, path string) (string, error) {
	return f(ctx, baseURL, path)
}

// Query identifies a package and, optionally, a version requirement and the
// index to look it up in.
type Query struct {
	name     string
	req      *index.VersionReq
	indexURL string
}

// Parse parses "name" or "name@requirement".
//
// The text is split on the first "@". An empty requirement ("serde@") is the
// same as none. Whitespace is not trimmed. A malformed requirement returns
// INVALID_VERSION; an empty or unsafe name returns INVALID_INPUT.
func Parse(text string) (Query, error) {
	name, reqText, _ := strings.Cut(text, "@")
	if err := errs.ValidatePackageName(name); err != nil {
		return Query{}, err
	}
	if reqText == "" {
		return Query{name: name}, nil
	}

	req, err := index.ParseVersionReq(reqText)
	if err != nil {
		return Query{}, err
	}
	return Query{name: name, req: &req}, nil
}

// New builds a query from an already-parsed name and requirement.
// It is equivalent to parsing name + "@" + req.
func New(name string, req index.VersionReq) Query {
	return Query{name: name, req: &req}
}

// WithAlternateIndex returns a copy of q that reads from the index at url
// instead of the default. An empty url restores the default.
func (q Query) WithAlternateIndex(url string) Query {
	q.indexURL = url
	return q
}

// Name returns the package name as written.
func (q Query) Name() string { return q.name }

// Req returns the version requirement, or nil when any release will do.
func (q Query) Req() *index.VersionReq { return q.req }

// IndexURL returns the index base URL the query reads from.
func (q Query) IndexURL() string {
	return crates.NormalizeIndexURL(q.indexURL)
}

// IndexPath returns the package's path inside the index.
func (q Query) IndexPath() string { return index.Path(q.name) }

// String renders the query as "name" or "name@requirement".
func (q Query) String() string {
	if q.req == nil {
		return q.name
	}
	return q.name + "@" + q.req.String()
}

// FetchRaw downloads the package's index file.
func (q Query) FetchRaw(ctx context.Context, f Fetcher) (string, error) {
	return f.Fetch(ctx, q.IndexURL(), q.IndexPath())
}

// ResolvePackage downloads and parses the package's index file.
func (q Query) ResolvePackage(ctx context.Context, f Fetcher) (*index.Package, error) {
	raw, err := q.FetchRaw(ctx, f)
	if err != nil {
		return nil, err
	}
	return index.Parse(raw)
}

// ResolveRelease returns the highest release matching the requirement, or
// the latest release when there is none.
//
// A nil release with a nil error means nothing matched. Deciding whether that
// is a failure is up to the caller.
func (q Query) ResolveRelease(ctx context.Context, f Fetcher) (*index.Release, error) {
	pkg, err := q.ResolvePackage(ctx, f)
	if err != nil {
		return nil, err
	}
	if q.req != nil {
		return pkg.Matching(*q.req), nil
	}
	return pkg.Latest(), nil
}
