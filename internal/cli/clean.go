package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlideStack/internal/export"
	"github.com/piwi3910/SlideStack/internal/normalize"
)

func newCleanCmd() *cobra.Command {
	var output, config string

	cmd := &cobra.Command{
		Use:   "clean [projects.xlsx]",
		Short: "Normalize casing and remove duplicate projects",
		Long: `Normalize casing and remove duplicate projects.

Titles are title-cased and summaries sentence-cased using Portuguese rules.
Projects with the same title (and coordinator, when present) are kept once,
compared without accents or case. The result is written as a workbook with
the canonical column headers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd.Context(), cmd.OutOrStdout(), args[0], output, config)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.clean.xlsx)")
	cmd.Flags().StringVarP(&config, "config", "c", "", "config file (default: ~/.slidestack/config.toml)")

	return cmd
}

func runClean(ctx context.Context, out io.Writer, input, output, config string) error {
	cfg, err := loadDeckConfig(ctx, config)
	if err != nil {
		return err
	}
	records, err := importRecords(ctx, input, cfg)
	if err != nil {
		return err
	}

	result := normalize.Clean(records)
	loggerFromContext(ctx).Debug("cleaned records", "kept", len(result.Records), "removed", result.Removed)

	path := outputPath(input, output, ".clean.xlsx")
	if err := export.ExportExcel(path, result.Records); err != nil {
		return fmt.Errorf("write workbook %s: %w", path, err)
	}

	printSuccess(out, "Cleaning complete")
	printFile(out, path)
	printStat(out, "kept", len(result.Records))
	printStat(out, "duplicates removed", result.Removed)
	return nil
}
