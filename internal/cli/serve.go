package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoquery/internal/server"
	errs "github.com/matzehuels/cargoquery/pkg/errors"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
)

const defaultAddr = "localhost:8080"

// serveCommand creates the serve command, which exposes queries over HTTP
// until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	var addr, indexURL string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve package queries over HTTP",
		Long: `Serve package queries over HTTP.

Routes:
  GET /healthz
  GET /v1/crates/{spec}?recursive=&max_depth=&ignore_missing=&index=&kind=&skip_optional=
  GET /v1/path/{name}`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("index") {
				indexURL = c.cfg.IndexURL
			}
			if indexURL != "" {
				if err := errs.ValidateURL(crates.NormalizeIndexURL(indexURL)); err != nil {
					return err
				}
			}

			logger := loggerFromContext(cmd.Context())
			srv := server.New(c.fetcher(), server.Options{IndexURL: indexURL, Logger: logger})
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().StringVar(&indexURL, "index", "", "index queried when a request names none (default "+crates.DefaultIndexURL+")")

	return cmd
}
