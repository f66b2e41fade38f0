package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/minions/internal/config"
	"github.com/aretw0/minions/internal/platform"
	"github.com/aretw0/minions/pkg/client"
)

var (
	verbose     bool
	cfgFile     string
	storePath   string
	adapterName string

	// Populated by PersistentPreRunE.
	cfg       *config.Config
	storeRoot string
	logger    *slog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "minions",
	Short: "Schema-validated structured records on local storage",
	Long: `Minions stores typed records (notes, tasks, contacts, agents, ...)
as JSON or YAML files. Every record is validated against its type's field
schema, soft deletes are reversible, and external edits can be watched.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}

		root, err := platform.FindRoot(wd)
		if err != nil {
			root = wd
		}

		c, err := config.Load(cfgFile, wd, root)
		if err != nil {
			return err
		}
		if c.File != "" {
			root = filepath.Dir(c.File)
		}
		if cmd.Flags().Changed("path") {
			c.Storage.Path = storePath
		}
		if cmd.Flags().Changed("adapter") {
			c.Storage.Adapter = adapterName
		}

		cfg = c
		storeRoot = root
		logger = newLogger(cmd.ErrOrStderr(), c.Logging, verbose)
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default: minions.yaml in the store root)")
	rootCmd.PersistentFlags().StringVar(&storePath, "path", "", "Storage directory (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&adapterName, "adapter", "", "Storage adapter: memory, json or yaml")
}

func newLogger(w io.Writer, lc config.LoggingConfig, verbose bool) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(lc.Level)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	if lc.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// openClient builds a client over the configured store.
func openClient() (*client.Client, error) {
	c, err := platform.New(cfg.ResolvePath(storeRoot),
		platform.WithAdapter(cfg.Storage.Adapter),
		platform.WithSystemDir(cfg.Storage.SystemDir),
		platform.WithReadOnly(cfg.Storage.ReadOnly),
		platform.WithStrict(cfg.Storage.Strict),
		platform.WithDevSafety(cfg.Storage.DevSafety),
		platform.WithTypes(cfg.Types...),
		platform.WithLogger(logger),
		platform.WithMiddleware(client.Logging(logger)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	return c, nil
}
