package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlideStack/internal/project"
)

func newLayoutCmd() *cobra.Command {
	var (
		opts   layoutOpts
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [projects.xlsx]",
		Short: "Print computed page layouts as JSON",
		Long: `Print computed page layouts as JSON.

The output holds one entry per record with the position and size of every
block in centimeters, plus an overflowed flag for records that do not fit.

With --output the layouts are saved as a snapshot together with the config
used. A snapshot can be passed to 'render' in place of a spreadsheet.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLayout(cmd.Context(), cmd.OutOrStdout(), args[0], output, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a snapshot file instead of printing JSON")
	return cmd
}

func runLayout(ctx context.Context, out io.Writer, input, output string, opts layoutOpts) error {
	cfg, layouts, err := layoutInput(ctx, input, opts)
	if err != nil {
		return err
	}

	if output != "" {
		if err := project.SaveSnapshot(output, input, cfg, layouts); err != nil {
			return fmt.Errorf("write snapshot %s: %w", output, err)
		}
		printSuccess(out, "Layout complete")
		printFile(out, output)
		printStat(out, "pages", len(layouts))
		return nil
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(layouts); err != nil {
		return fmt.Errorf("encode layouts: %w", err)
	}
	return nil
}
