package cli

import (
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoquery/pkg/deps"
	errs "github.com/matzehuels/cargoquery/pkg/errors"
	pkgio "github.com/matzehuels/cargoquery/pkg/io"
	"github.com/matzehuels/cargoquery/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	format   string // dot or svg
	output   string // output file path (stdout if empty)
	detailed bool   // version and yanked marker on their own label lines
}

// renderCommand creates the render command, which draws releases saved by
// "query --format json" as a node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{format: formatSVG}

	cmd := &cobra.Command{
		Use:   "render <file.json>",
		Short: "Draw saved query output as a dependency graph",
		Long: `Draw the releases in a JSON file written by "cargoquery query" as a
node-link diagram. Edges are recomputed from each release's dependency list,
so only dependencies that were resolved into the file are drawn.`,
		Example: `  cargoquery query tokio -r -o tokio.json
  cargoquery render tokio.json -o tokio.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.format, "format", opts.format, "output format: dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show versions and yanked releases on separate label lines")

	return cmd
}

func runRender(cmd *cobra.Command, opts renderOpts, path string) error {
	if !slices.Contains([]string{formatDOT, formatSVG}, opts.format) {
		return errs.New(errs.ErrCodeInvalidInput, "unknown format %q (available: dot, svg)", opts.format)
	}
	logger := loggerFromContext(cmd.Context())

	releases, err := pkgio.ReadFile(path)
	if err != nil {
		return err
	}
	set := deps.NewSet()
	for _, rel := range releases {
		set.Add(rel)
	}
	logger.Debugf("Loaded %d releases from %s", set.Len(), path)

	dot := nodelink.ToDOT(set, nodelink.Options{Detailed: opts.detailed})
	data := []byte(dot)
	if opts.format == formatSVG {
		if data, err = nodelink.RenderSVG(dot); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeIO, err, "write %s", opts.output)
	}
	printFile(cmd.ErrOrStderr(), opts.output)
	printStats(cmd.ErrOrStderr(), set.Len(), len(set.Edges()))
	logger.Debugf("Wrote %s (%d bytes)", opts.output, len(data))
	return nil
}
