package main

import (
	"context"
	"io"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack/internal/analytics"
	"github.com/sells-group/leadtrack/internal/fetcher"
	"github.com/sells-group/leadtrack/internal/model"
	"github.com/sells-group/leadtrack/internal/sheets"
)

var (
	importClient string
	importTab    string
	importFormat string
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Compute analytics over a local XLSX or CSV export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("local"); err != nil {
			return err
		}
		engine := analytics.NewEngine(analytics.WithStaleWindow(cfg.Analytics.StaleWindow()))
		return runImport(cmd.Context(), cmd.OutOrStdout(), engine, args[0], importTab, importClient, importFormat)
	},
}

// runImport loads one local export through the same loader the API uses and
// writes its snapshot.
func runImport(ctx context.Context, w io.Writer, engine *analytics.Engine, path, tab, client, format string) error {
	if tab == "" {
		tab = model.DefaultSheetTab
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return eris.Wrap(err, "import: resolve path")
	}

	loader := sheets.NewLoader(fetcher.FileSource{}, nil)
	got, err := loader.LoadSheet(ctx, model.TrackedSheet{ID: abs, SheetName: tab})
	if err != nil {
		return eris.Wrapf(err, "import: load %s", path)
	}

	zap.L().Info("import loaded",
		zap.String("file", abs),
		zap.String("tab", tab),
		zap.Int("leads", len(got)),
	)
	return writeOutput(w, format, engine.Snapshot(got, client))
}

func init() {
	importCmd.Flags().StringVar(&importClient, "client", "", "restrict to one client tag")
	importCmd.Flags().StringVar(&importTab, "tab", "", "worksheet to read from an XLSX file (default \"Leads\")")
	importCmd.Flags().StringVar(&importFormat, "format", "json", "output format: json or yaml")
	rootCmd.AddCommand(importCmd)
}
