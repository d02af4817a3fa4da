package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadtrack/internal/leads"
	"github.com/sells-group/leadtrack/internal/model"
	"github.com/sells-group/leadtrack/internal/registry"
	"github.com/sells-group/leadtrack/internal/sheets"
)

var (
	sheetsAddClient string
	sheetsAddTab    string
	sheetsFormat    string
)

var sheetsCmd = &cobra.Command{
	Use:   "sheets",
	Short: "Manage tracked lead sheets",
}

var sheetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked sheets",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("local"); err != nil {
			return err
		}
		st, err := openRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		tracked, err := st.List(ctx)
		if err != nil {
			return err
		}
		if sheetsFormat != "table" {
			return writeOutput(cmd.OutOrStdout(), sheetsFormat, tracked)
		}
		return printSheets(cmd.OutOrStdout(), tracked)
	},
}

var sheetsAddCmd = &cobra.Command{
	Use:   "add <url-or-id>",
	Short: "Validate a Google Sheet and start tracking it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("sheets"); err != nil {
			return err
		}
		env, err := initEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		sheet, err := sheets.Track(ctx, env.Store, env.Source, sheets.TrackRequest{
			Input:     args[0],
			ClientTag: sheetsAddClient,
			SheetName: sheetsAddTab,
		}, time.Now())
		if err != nil {
			return eris.Wrap(err, "add sheet")
		}

		zap.L().Info("sheet tracked",
			zap.String("sheet_id", sheet.ID),
			zap.String("name", sheet.Name),
			zap.String("client", sheet.ClientTag),
			zap.String("tab", sheet.Tab()),
		)
		return printSheets(cmd.OutOrStdout(), []model.TrackedSheet{sheet})
	},
}

var sheetsRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Stop tracking a sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("local"); err != nil {
			return err
		}
		st, err := openRegistry(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.Remove(ctx, args[0]); err != nil {
			return eris.Wrap(err, "remove sheet")
		}
		zap.L().Info("sheet removed", zap.String("sheet_id", args[0]))
		return nil
	},
}

var sheetsInspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Show how a tracked sheet's headers map to lead fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("sheets"); err != nil {
			return err
		}
		env, err := initEnv(ctx, cfg)
		if err != nil {
			return err
		}
		defer env.Close()

		return inspectSheet(ctx, cmd.OutOrStdout(), env, args[0])
	},
}

// inspectSheet prints the column mapping and accepted row count of one
// tracked sheet.
func inspectSheet(ctx context.Context, w io.Writer, env *appEnv, id string) error {
	sheet, err := env.Store.Get(ctx, id)
	if err != nil {
		if eris.Is(err, registry.ErrNotFound) {
			return eris.Errorf("sheet %s is not tracked", id)
		}
		return err
	}

	data, err := env.Loader.Raw(ctx, sheet.ID, sheet.Tab())
	if err != nil {
		return eris.Wrap(err, "inspect sheet")
	}
	accepted := leads.NormalizeRows(data, sheet.ID, sheet.Tab())

	fmt.Fprintf(w, "%s (%s) tab %q: %d rows, %d accepted\n\n", sheet.Name, sheet.ID, sheet.Tab(), len(data.Rows), len(accepted))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "COL\tHEADER\tFIELD")
	for _, h := range leads.DescribeHeaders(data.Headers) {
		field := h.Field
		switch {
		case field == "":
			field = "-"
		case h.Shadowed:
			field += " (shadowed)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", h.Column, h.Header, field)
	}
	return tw.Flush()
}

func printSheets(w io.Writer, tracked []model.TrackedSheet) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCLIENT\tTAB\tADDED")
	for _, s := range tracked {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.ID, s.Name, s.ClientTag, s.Tab(), s.AddedAt.Format(time.DateOnly))
	}
	return tw.Flush()
}

func init() {
	sheetsListCmd.Flags().StringVar(&sheetsFormat, "format", "table", "output format: table, json or yaml")
	sheetsAddCmd.Flags().StringVar(&sheetsAddClient, "client", "", "client tag (required)")
	sheetsAddCmd.Flags().StringVar(&sheetsAddTab, "tab", "", "tab to read (default \"Leads\")")
	_ = sheetsAddCmd.MarkFlagRequired("client")

	sheetsCmd.AddCommand(sheetsListCmd, sheetsAddCmd, sheetsRemoveCmd, sheetsInspectCmd)
	rootCmd.AddCommand(sheetsCmd)
}
