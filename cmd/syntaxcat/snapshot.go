package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jward/syntaxcat"
)

var flagRemap bool

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every record to a JSON or YAML snapshot",
	Long:  "Without a file the snapshot is written to stdout (YAML with --format yaml, JSON otherwise). With a file, the extension picks the encoding.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the catalog with a snapshot",
	Long:  "Every record gets a fresh id. Pattern and mapping references are copied verbatim unless --remap is given.",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagRemap, "remap", false, "rewrite references to the ids assigned on import")
}

func runExport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		svc, closeFn, err := openService()
		if err != nil {
			return outputError(cmd, err)
		}
		defer closeFn()

		snap, err := svc.ExportDatabase(cmd.Context())
		if err != nil {
			return outputError(cmd, err)
		}
		format := syntaxcat.FormatJSON
		if flagFormat == "yaml" {
			format = syntaxcat.FormatYAML
		}
		return syntaxcat.WriteSnapshot(cmd.OutOrStdout(), snap, format)
	}

	path := args[0]
	return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
		snap, err := svc.ExportDatabase(ctx)
		if err != nil {
			return nil, err
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating %s: %w", path, err)
		}
		if err := syntaxcat.WriteSnapshot(f, snap, syntaxcat.FormatForPath(path)); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, fmt.Errorf("writing %s: %w", path, err)
		}
		return CLISnapshot{ID: snap.ID, Path: path, Stats: statsOf(snap)}, nil
	})
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	return withService(cmd, func(ctx context.Context, svc *syntaxcat.Service) (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", path, err)
		}
		defer f.Close()

		snap, err := syntaxcat.ReadSnapshot(f, syntaxcat.FormatForPath(path))
		if err != nil {
			return nil, err
		}
		var opts []syntaxcat.ImportOption
		if flagRemap {
			opts = append(opts, syntaxcat.RemapForeignKeys())
		}
		if err := svc.ImportDatabase(ctx, snap, opts...); err != nil {
			return nil, err
		}
		return CLISnapshot{ID: snap.ID, Path: path, Stats: statsOf(snap)}, nil
	})
}
