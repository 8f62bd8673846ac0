// Package cli implements the cargoquery command-line interface.
//
// Commands:
//   - query: look packages up in a Cargo index, optionally with dependencies
//   - path: print the index path of package names
//   - render: draw a saved resolution as a Graphviz diagram
//   - serve: answer queries over HTTP
//   - completion: generate shell completion scripts
//
// The root command accepts query's arguments and flags directly, so
// "cargoquery serde@1.0 -d" is the same as "cargoquery query serde@1.0 -d".
//
// All commands support --verbose (-v) for debug-level logging. The logger is
// carried on the command context.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cargoquery/pkg/buildinfo"
	"github.com/matzehuels/cargoquery/pkg/config"
	"github.com/matzehuels/cargoquery/pkg/integrations/crates"
	"github.com/matzehuels/cargoquery/pkg/observability"
	"github.com/matzehuels/cargoquery/pkg/query"
)

// appName is the application name used for directories and display.
const appName = "cargoquery"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Fetcher replaces the crates.io client. Tests point it at a fake index.
	Fetcher query.Fetcher

	verbose    bool
	configPath string
	cfg        config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	opts := &queryOpts{}
	root := &cobra.Command{
		Use:   appName + " [flags] <package[@req]>...",
		Short: "Query the Cargo package index",
		Long: `cargoquery looks packages up in a Cargo sparse index (crates.io by default)
and prints their index records, dependency names or feature names. With
--recursive it follows dependencies and prints every release it reached.`,
		Version:       buildinfo.Get().Version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.manifest == "" {
				return cmd.Help()
			}
			return c.runQuery(cmd, opts, args)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cargoquery/config.toml)")
	bindQueryFlags(root, opts)

	root.AddCommand(c.queryCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup runs before every command: it applies --verbose, loads the config
// file and attaches the logger to the command context.
func (c *CLI) setup(cmd *cobra.Command) error {
	if c.verbose {
		c.SetLogLevel(LogDebug)
		hooks := newDebugHooks(c.Logger)
		observability.SetResolveHooks(hooks)
		observability.SetHTTPHooks(hooks)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	c.cfg = cfg

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

func (c *CLI) loadConfig() (config.Config, error) {
	if c.configPath != "" {
		return config.Load(c.configPath)
	}
	return config.LoadDefault()
}

// fetcher returns the index client configured by the config file.
func (c *CLI) fetcher() query.Fetcher {
	if c.Fetcher != nil {
		return c.Fetcher
	}
	return crates.NewClient(c.cfg.UserAgent, time.Duration(c.cfg.Timeout))
}
