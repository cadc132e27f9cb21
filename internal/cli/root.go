// Package cli is the terminal front end of the catalog. The root command
// bootstraps config, logging and the database before any subcommand runs.
package cli

import (
	"context"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/WaelFer/BooksApp/internal/config"
	"github.com/WaelFer/BooksApp/internal/log"
	"github.com/WaelFer/BooksApp/internal/store"
	"github.com/WaelFer/BooksApp/internal/store/db"
	"github.com/WaelFer/BooksApp/internal/version"
)

const skipBootstrap = "skip-bootstrap"

// app carries what the bootstrapper opened to the subcommands.
type app struct {
	configFile string
	dataDir    string
	logLevel   string

	db    *db.DB
	store *store.Store
}

// newRootCmd builds the command tree around a. The caller closes a once
// the command has run, whatever the outcome.
func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "booksapp",
		Short:         "BooksApp keeps a catalog of your books",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if !needsCatalog(cmd) {
				return nil
			}
			return a.bootstrap(cmd.Context())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (toml, yaml or json)")
	flags.StringVarP(&a.dataDir, "data", "d", "", "data directory holding the catalog database")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn or error")

	rootCmd.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
		newCartCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// needsCatalog is false for commands that never touch the catalog: help,
// shell completion and anything annotated with skipBootstrap, including
// their subcommands.
func needsCatalog(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipBootstrap] == "true" {
			return false
		}
		switch c.Name() {
		case "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
			return false
		}
	}
	return true
}

// Execute runs the command tree and returns the error to report, if any.
func Execute(ctx context.Context) error {
	defer log.Sync()
	a := &app{}
	err := newRootCmd(a).ExecuteContext(ctx)
	if closeErr := a.close(); closeErr != nil {
		log.Warn("Failed to close the catalog", zap.Error(closeErr))
	}
	return err
}

// bootstrap loads config, sets up logging, then opens the database and
// ensures its schema. Nothing reads or writes books before it succeeds.
func (a *app) bootstrap(ctx context.Context) error {
	if _, err := config.Read(a.configFile); err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if a.dataDir != "" {
		config.Opts.Data = a.dataDir
		config.Opts.DSN = ""
	}
	if _, err := config.Resolve(); err != nil {
		return errors.Wrap(err, "failed to resolve data directory")
	}
	if a.logLevel != "" {
		config.Opts.LogLevel = a.logLevel
	}
	if !filepath.IsAbs(config.Opts.LogFile) {
		config.Opts.LogFile = filepath.Join(config.Opts.Data, config.Opts.LogFile)
	}
	log.Logger = log.NewLogger()

	d, err := db.Init(ctx, config.Opts.DSN)
	if err != nil {
		log.Error("Catalog unavailable", zap.String("dsn", config.Opts.DSN), zap.Error(err))
		if d != nil {
			d.Close()
		}
		return errors.Wrap(err, "the catalog could not be opened, nothing was changed")
	}
	a.db = d
	a.store = store.NewStore(d.DB)
	log.Debug("Catalog ready", zap.String("dsn", config.Opts.DSN), zap.String("version", version.GetCurrentVersion()))
	return nil
}

func (a *app) close() error {
	if a.store != nil {
		a.store.Close()
		a.store = nil
	}
	if a.db == nil {
		return nil
	}
	err := a.db.Close()
	a.db = nil
	return err
}
