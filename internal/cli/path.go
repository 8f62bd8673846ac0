package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/index"
)

// pathCommand creates the path command, which prints where each package
// lives inside an index without fetching anything.
func (c *CLI) pathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path <name>...",
		Short: "Print the index path of package names",
		Example: `  cargoquery path cargo    # ca/rg/cargo
  cargoquery path syn      # 3/s/syn`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range args {
				if err := errs.ValidatePackageName(name); err != nil {
					return err
				}
			}
			for _, name := range args {
				fmt.Fprintln(cmd.OutOrStdout(), index.Path(name))
			}
			return nil
		},
	}
}
