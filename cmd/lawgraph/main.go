// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the lawgraph CLI. Each pipeline stage
// is a subcommand: extract, canonicalize and infer work on text alone;
// ingest, resolve, edges, search, export and sync-neo4j work on the
// SQLite graph store.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/lawgraph/internal/secrets"
	"github.com/pdiddy/lawgraph/internal/store"
	"github.com/pdiddy/lawgraph/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built from --verbose before any command runs.
var logger = zap.NewNop()

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the lawgraph CLI.
var rootCmd = &cobra.Command{
	Use:   "lawgraph",
	Short: "Extract, canonicalize and link legal citations into a graph",
	Long: `lawgraph finds legal citations (U.S. Code, Public Laws, bills, CFR,
Statutes at Large, Federal Register) in free text, reduces them to
canonical keys, infers ENACTS/AMENDS/CITES relations from section
histories, and keeps the resulting citation graph in a SQLite store.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l

		s, err := secrets.Load(".secrets/", logger)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			logger.Debug("loaded secrets", zap.Strings("names", s.Names()))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./lawgraph.yaml or ~/.config/lawgraph/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "SQLite database path (default lawgraph.db)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")

	_ = viper.BindPFlag("store.path", rootCmd.PersistentFlags().Lookup("db"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lawgraph")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lawgraph"))
		}
	}

	setDefaults(types.DefaultConfig())

	viper.SetEnvPrefix("LAWGRAPH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so environment overrides reach
// Unmarshal even when no config file is present.
func setDefaults(d types.Config) {
	viper.SetDefault("store.path", d.Store.Path)
	viper.SetDefault("store.busy_timeout", d.Store.BusyTimeout)
	viper.SetDefault("infer.enacts_base", d.Infer.EnactsBase)
	viper.SetDefault("infer.amends_base", d.Infer.AmendsBase)
	viper.SetDefault("infer.cites_base", d.Infer.CitesBase)
	viper.SetDefault("ingest.workers", d.Ingest.Workers)
	viper.SetDefault("ingest.source", d.Ingest.Source)
	viper.SetDefault("ingest.force", d.Ingest.Force)
	viper.SetDefault("neo4j.uri", d.Neo4j.URI)
	viper.SetDefault("neo4j.user", d.Neo4j.User)
	viper.SetDefault("neo4j.password", d.Neo4j.Password)
	viper.SetDefault("neo4j.database", d.Neo4j.Database)
}

// loadConfig merges defaults, config file, environment and bound flags.
func loadConfig() (types.Config, error) {
	cfg := types.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("reading configuration: %w", err)
	}
	return cfg, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	zc.DisableStacktrace = true
	return zc.Build()
}

// openStore opens the configured SQLite store.
func openStore() (*store.Store, types.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, types.Config{}, err
	}
	st, err := store.Open(cfg.Store, store.WithLogger(logger))
	if err != nil {
		return nil, types.Config{}, err
	}
	return st, cfg, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// inputText returns the --file contents when set, otherwise the joined
// arguments, otherwise stdin.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		return string(b), nil
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	b, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	return string(b), nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
