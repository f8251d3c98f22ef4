package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jward/syntaxcat"
	"github.com/jward/syntaxcat/internal/config"
	"github.com/jward/syntaxcat/internal/logging"
)

var (
	flagDB     string
	flagConfig string
	flagFormat string
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "syntaxcat",
	Short:         "Catalog of programming-language syntax metadata",
	Long:          "syntaxcat manages a SQLite catalog of languages, built-in functions, code-generation patterns and type mappings.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return validateFormat(flagFormat)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "database path (default: database.path from config)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: $SYNTAXCAT_CONFIG, ./syntaxcat.yaml, then XDG)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|yaml|text")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(languagesCmd)
	rootCmd.AddCommand(functionsCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(typesCmd)
}

// loadConfig reads --config when given, otherwise the first config file found.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		cfg, _, err := config.LoadFromPath(flagConfig)
		return cfg, err
	}
	cfg, _, err := config.Load()
	return cfg, err
}

// openService builds a Service from config and flags. The caller closes it
// with the returned function.
func openService() (*syntaxcat.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, nil, err
	}

	dbPath := cfg.Database.Path
	if flagDB != "" {
		dbPath = flagDB
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	opts := []syntaxcat.Option{
		syntaxcat.WithLogger(logger),
		syntaxcat.WithDriver(cfg.Database.Driver),
		syntaxcat.WithFixture(cfg.Seed.Fixture),
	}
	if cfg.Seed.ScriptsDir != "" {
		opts = append(opts, syntaxcat.WithScriptsDir(cfg.Seed.ScriptsDir))
	}

	svc, err := syntaxcat.New(dbPath, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalog: %w", err)
	}
	logger.Debug("catalog opened", zap.String("db", dbPath), zap.String("driver", cfg.Database.Driver))

	closeFn := func() {
		svc.Close()
		_ = logger.Sync()
	}
	return svc, closeFn, nil
}

// withService runs fn against an open Service and reports its error in the
// selected format.
func withService(cmd *cobra.Command, fn func(ctx context.Context, svc *syntaxcat.Service) (any, error)) error {
	svc, closeFn, err := openService()
	if err != nil {
		return outputError(cmd, err)
	}
	defer closeFn()

	results, err := fn(cmd.Context(), svc)
	if err != nil {
		return outputError(cmd, err)
	}
	return outputResult(cmd, CLIResult{Command: cmd.Name(), Results: results})
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the schema and seed an empty catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			if err := svc.InitDatabase(ctx); err != nil {
				return nil, err
			}
			return catalogStats(ctx, svc)
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete every record and seed the catalog again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			if err := svc.ResetDatabase(ctx); err != nil {
				return nil, err
			}
			return catalogStats(ctx, svc)
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every record; the next command seeds again",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
			if err := svc.ClearDatabase(ctx); err != nil {
				return nil, err
			}
			return CLIStatus{Status: "cleared"}, nil
		})
	},
}

// catalogStats counts the records in each partition.
func catalogStats(ctx context.Context, svc *syntaxcat.Service) (CLIStats, error) {
	snap, err := svc.ExportDatabase(ctx)
	if err != nil {
		return CLIStats{}, err
	}
	return statsOf(snap), nil
}

func statsOf(snap *syntaxcat.Snapshot) CLIStats {
	return CLIStats{
		Languages:    len(snap.Languages),
		Functions:    len(snap.Functions),
		Patterns:     len(snap.Patterns),
		Types:        len(snap.Types),
		TypeMappings: len(snap.TypeMappings),
	}
}
