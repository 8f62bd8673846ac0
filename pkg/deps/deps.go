package deps

import (
	"slices"

	"github.com/matzehuels/cargoquery/pkg/index"
)

// Unlimited is the MaxDepth value that never stops recursion on depth alone.
const Unlimited = 0

// Options configures dependency resolution behavior.
type Options struct {
	Recursive     bool                         // Expand dependencies of each resolved release
	MaxDepth      int                          // Dependency hops from each root (default: Unlimited)
	IgnoreMissing bool                         // Drop specs that fail to resolve instead of failing the run
	IndexURL      string                       // Alternate index base URL ("" for crates.io)
	Kinds         []string                     // Dependency kinds to follow (default: all)
	SkipOptional  bool                         // Do not follow optional dependencies
	Logger        func(string, ...any)         // Progress and skip messages (optional)
	OnSkip        func(spec string, err error) // Called once per spec dropped by IgnoreMissing (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.MaxDepth < 0 {
		opts.MaxDepth = Unlimited
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	if opts.OnSkip == nil {
		opts.OnSkip = func(string, error) {}
	}
	return opts
}

// follows reports whether the resolver should expand d.
func (o Options) follows(d *index.Dependency) bool {
	if o.SkipOptional && d.Optional {
		return false
	}
	return len(o.Kinds) == 0 || slices.Contains(o.Kinds, d.KindOrNormal())
}
