package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoquery/pkg/deps"
	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
	pkgio "github.com/matzehuels/cargoquery/pkg/io"
	"github.com/matzehuels/cargoquery/pkg/render/nodelink"
)

// Output formats beyond those of pkg/io.
const (
	formatDOT = "dot"
	formatSVG = "svg"
)

var queryFormats = []string{
	string(pkgio.FormatJSON),
	string(pkgio.FormatYAML),
	string(pkgio.FormatText),
	formatDOT,
	formatSVG,
}

// queryOpts holds the command-line flags for the query command.
type queryOpts struct {
	deps          bool     // print dependency names
	features      bool     // print feature names
	format        string   // json, yaml, text, dot or svg
	pretty        bool     // indent JSON output
	recursive     bool     // follow dependencies
	maxDepth      int      // dependency hops from each root (0 = unlimited)
	delimiter     string   // separator for name lists
	index         string   // alternate index URL
	ignoreMissing bool     // skip packages that cannot be resolved
	kinds         []string // dependency kinds to follow
	skipOptional  bool     // do not follow optional dependencies
	manifest      string   // Cargo.toml supplying root specs
	output        string   // output file path (stdout if empty)
	detailed      bool     // detailed node labels for dot/svg
}

// queryCommand creates the query command.
func (c *CLI) queryCommand() *cobra.Command {
	opts := &queryOpts{}
	cmd := &cobra.Command{
		Use:   "query [flags] <package[@req]>...",
		Short: "Look packages up in the index",
		Long: `Look packages up in a Cargo index and print the release matching each spec.

A spec is a package name, optionally followed by "@" and a Cargo version
requirement. Without a requirement the most recently published release is
used.

Examples:
  cargoquery query serde                     # Latest serde release as JSON
  cargoquery query serde@1.0.100 -d          # Its dependency names
  cargoquery query tokio -r --max-depth 2    # tokio and two levels of dependencies
  cargoquery query --manifest Cargo.toml -r  # Everything a manifest pulls in
  cargoquery query serde_json -r --format svg -o deps.svg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runQuery(cmd, opts, args)
		},
	}
	bindQueryFlags(cmd, opts)
	return cmd
}

func bindQueryFlags(cmd *cobra.Command, opts *queryOpts) {
	f := cmd.Flags()
	f.BoolVarP(&opts.deps, "deps", "d", false, "print dependency names")
	f.BoolVarP(&opts.features, "features", "f", false, "print feature names")
	f.StringVar(&opts.format, "format", "", "output format: "+strings.Join(queryFormats, ", ")+" (default json, or text with --deps/--features)")
	f.BoolVarP(&opts.pretty, "pretty", "p", false, "pretty-print JSON output")
	f.BoolVarP(&opts.recursive, "recursive", "r", false, "resolve dependencies recursively")
	f.IntVar(&opts.maxDepth, "max-depth", 0, "maximum dependency depth with --recursive (0 = unlimited)")
	f.StringVar(&opts.delimiter, "delimiter", pkgio.DefaultDelimiter, "separator between names with --deps/--features")
	f.StringVar(&opts.index, "index", "", "alternate index URL (default "+crates.DefaultIndexURL+")")
	f.BoolVar(&opts.ignoreMissing, "ignore-missing", false, "skip packages that are missing or fail to fetch")
	f.StringSliceVar(&opts.kinds, "kind", nil, "dependency kinds to follow: normal, dev, build (default all)")
	f.BoolVar(&opts.skipOptional, "skip-optional", false, "do not follow optional dependencies")
	f.StringVar(&opts.manifest, "manifest", "", "read root packages from a Cargo.toml")
	f.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	f.BoolVar(&opts.detailed, "detailed", false, "detailed node labels for dot and svg output")
	cmd.MarkFlagsMutuallyExclusive("deps", "features")
}

// applyConfig fills flags the user did not set from the config file.
func (c *CLI) applyConfig(cmd *cobra.Command, opts *queryOpts) {
	flags := cmd.Flags()
	if !flags.Changed("pretty") {
		opts.pretty = c.cfg.Pretty
	}
	if !flags.Changed("delimiter") && c.cfg.Delimiter != "" {
		opts.delimiter = c.cfg.Delimiter
	}
	if !flags.Changed("ignore-missing") {
		opts.ignoreMissing = c.cfg.IgnoreMissing
	}
	if !flags.Changed("max-depth") {
		opts.maxDepth = c.cfg.MaxDepth
	}
	if !flags.Changed("index") {
		opts.index = c.cfg.IndexURL
	}
}

func (o *queryOpts) validate() error {
	if o.format != "" && !slices.Contains(queryFormats, o.format) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (available: %s)", o.format, strings.Join(queryFormats, ", "))
	}
	if (o.format == formatDOT || o.format == formatSVG) && (o.deps || o.features) {
		return errs.New(errs.ErrCodeInvalidInput, "--format %s draws the dependency graph and cannot be combined with --deps or --features", o.format)
	}
	if o.maxDepth < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "--max-depth must not be negative")
	}
	if err := index.ValidateKinds(o.kinds); err != nil {
		return err
	}
	if o.index != "" {
		return errs.ValidateURL(crates.NormalizeIndexURL(o.index))
	}
	return nil
}

func (o *queryOpts) encodeOptions() pkgio.Options {
	shape := pkgio.ShapeFull
	switch {
	case o.deps:
		shape = pkgio.ShapeDeps
	case o.features:
		shape = pkgio.ShapeFeatures
	}
	return pkgio.Options{
		Shape:     shape,
		Format:    pkgio.Format(o.format),
		Pretty:    o.pretty,
		Delimiter: o.delimiter,
	}
}

// rootSpecs returns the specs given on the command line followed by those
// read from --manifest.
func (o *queryOpts) rootSpecs(args []string) ([]string, error) {
	specs := slices.Clone(args)
	if o.manifest != "" {
		fromManifest, err := deps.ReadCargoManifest(o.manifest)
		if err != nil {
			return nil, err
		}
		specs = append(specs, fromManifest...)
	}
	if len(specs) == 0 {
		return nil, errs.New(errs.ErrCodeInvalidInput, "no packages given")
	}
	return specs, nil
}

func (c *CLI) runQuery(cmd *cobra.Command, opts *queryOpts, args []string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	c.applyConfig(cmd, opts)
	if err := opts.validate(); err != nil {
		return err
	}
	specs, err := opts.rootSpecs(args)
	if err != nil {
		return err
	}

	var skipped int
	resolver := deps.NewResolver(c.fetcher(), deps.Options{
		Recursive:     opts.recursive,
		MaxDepth:      opts.maxDepth,
		IgnoreMissing: opts.ignoreMissing,
		IndexURL:      opts.index,
		Kinds:         opts.kinds,
		SkipOptional:  opts.skipOptional,
		Logger:        warnFunc(logger),
		OnSkip:        func(string, error) { skipped++ },
	})

	set, err := c.resolveWithStatus(ctx, cmd.ErrOrStderr(), resolver, specs, opts.recursive)
	if err != nil {
		return err
	}
	if skipped > 0 {
		printWarning(cmd.ErrOrStderr(), "%d package(s) skipped", skipped)
	}
	return writeResult(cmd, set, opts)
}

// resolveWithStatus runs the resolver behind a spinner when stderr is a
// terminal and logging is not verbose.
func (c *CLI) resolveWithStatus(ctx context.Context, w io.Writer, r *deps.Resolver, specs []string, recursive bool) (*deps.Set, error) {
	logger := loggerFromContext(ctx)
	logger.Debugf("Resolving %s", strings.Join(specs, ", "))
	prog := newProgress(logger)

	var spinner *Spinner
	if !c.verbose && isTerminal(w) {
		spinner = newSpinnerWithContext(ctx, w, "Resolving "+strings.Join(specs, ", ")+"...")
		spinner.Start()
	}

	set, err := r.Resolve(ctx, specs...)
	if err != nil {
		if spinner != nil {
			spinner.StopWithError(errs.UserMessage(err))
		}
		return nil, err
	}

	msg := fmt.Sprintf("Resolved %d releases", set.Len())
	if spinner != nil {
		spinner.StopWithSuccess(msg)
		if recursive {
			printStats(w, set.Len(), len(set.Edges()))
		}
	} else {
		prog.done(msg)
	}
	return set, nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// writeResult encodes set in the requested format to --output or stdout.
func writeResult(cmd *cobra.Command, set *deps.Set, opts *queryOpts) error {
	var data []byte
	switch opts.format {
	case formatDOT:
		data = []byte(nodelink.ToDOT(set, nodelink.Options{Detailed: opts.detailed}))
	case formatSVG:
		svg, err := nodelink.RenderSVG(nodelink.ToDOT(set, nodelink.Options{Detailed: opts.detailed}))
		if err != nil {
			return err
		}
		data = svg
	default:
		if opts.output != "" {
			if err := pkgio.WriteFile(opts.output, set.Releases(), opts.encodeOptions()); err != nil {
				return err
			}
			reportOutput(cmd, opts.output, opts.encodeOptions().WithDefaults())
			return nil
		}
		return pkgio.Encode(cmd.OutOrStdout(), set.Releases(), opts.encodeOptions())
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", opts.output)
	}
	reportOutput(cmd, opts.output, pkgio.Options{})
	return nil
}

func reportOutput(cmd *cobra.Command, path string, enc pkgio.Options) {
	w := cmd.ErrOrStderr()
	loggerFromContext(cmd.Context()).Debugf("Wrote %s", path)
	printFile(w, path)
	if enc.Shape == pkgio.ShapeFull && enc.Format == pkgio.FormatJSON {
		printNextStep(w, "Draw it", fmt.Sprintf("%s render %s --format svg", appName, path))
	}
}
