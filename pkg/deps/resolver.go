package deps

import (
	"context"
	"time"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/observability"
	"github.com/matzehuels/cargoquery/pkg/query"
)

// Resolver expands package specs into a flat, cycle-free set of releases.
//
// Resolution is sequential and depth-first: each root is resolved in the
// order given, and each release's dependencies in the order they are listed.
// A Resolver holds no state between calls.
type Resolver struct {
	fetcher query.Fetcher
	opts    Options
}

// NewResolver creates a Resolver reading index files through f.
func NewResolver(f query.Fetcher, opts Options) *Resolver {
	return &Resolver{fetcher: f, opts: opts.WithDefaults()}
}

// Resolve resolves every spec into one shared [Set].
//
// Any error aborts the whole run and no partial set is returned. With
// IgnoreMissing, specs that cannot be fetched or matched are skipped instead.
func (r *Resolver) Resolve(ctx context.Context, specs ...string) (*Set, error) {
	hooks := observability.Resolve()
	hooks.OnResolveStart(ctx, specs)
	start := time.Now()

	set := NewSet()
	var err error
	for _, spec := range specs {
		if err = r.ResolveInto(ctx, spec, set); err != nil {
			break
		}
	}

	hooks.OnResolveComplete(ctx, specs, set.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return set, nil
}

// ResolveInto resolves a single root spec, appending to set. Releases
// already in set act as the cycle guard for this root.
func (r *Resolver) ResolveInto(ctx context.Context, spec string, set *Set) error {
	q, err := query.Parse(spec)
	if err != nil {
		return err
	}
	remaining := r.opts.MaxDepth
	if remaining == Unlimited {
		remaining = noLimit
	}
	return r.resolve(ctx, q, remaining, 0, set)
}

// noLimit is the remaining-depth value that is never decremented.
const noLimit = -1

// resolve visits q. remaining counts the dependency hops still allowed below
// q; hops is the distance from the root.
func (r *Resolver) resolve(ctx context.Context, q query.Query, remaining, hops int, set *Set) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.opts.IndexURL != "" {
		q = q.WithAlternateIndex(r.opts.IndexURL)
	}

	rel, err := q.ResolveRelease(ctx, r.fetcher)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if r.opts.IgnoreMissing {
			r.skip(ctx, q, err)
			return nil
		}
		return err
	}
	if rel == nil {
		if r.opts.IgnoreMissing {
			r.skip(ctx, q, nil)
			return nil
		}
		return errs.New(errs.ErrCodeNotFound, "package `%s` not found", q)
	}

	set.Add(rel)
	observability.Resolve().OnRelease(ctx, rel.ID(), hops)

	if !r.opts.Recursive || remaining == 0 {
		return nil
	}
	next := remaining
	if next != noLimit {
		next--
	}

	for i := range rel.Dependencies {
		d := &rel.Dependencies[i]
		if !r.opts.follows(d) {
			continue
		}
		name := d.EffectiveName()
		if set.Contains(name, d.Req) {
			continue
		}
		if err := r.resolve(ctx, query.New(name, d.Req), next, hops+1, set); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) skip(ctx context.Context, q query.Query, err error) {
	if err != nil {
		r.opts.Logger("skipping %s: %s", q, errs.UserMessage(err))
	} else {
		r.opts.Logger("skipping %s: no matching release", q)
	}
	r.opts.OnSkip(q.String(), err)
	observability.Resolve().OnSkip(ctx, q.String(), err)
}
