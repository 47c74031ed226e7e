package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/piwi3910/SlideStack/internal/engine"
	"github.com/piwi3910/SlideStack/internal/export"
	"github.com/piwi3910/SlideStack/internal/model"
	"github.com/piwi3910/SlideStack/internal/project"
)

// layoutOpts are the flags shared by render and layout.
type layoutOpts struct {
	config  string
	clean   bool
	workers int
	metric  bool
}

func (o *layoutOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.config, "config", "c", "", "config file (default: ~/.slidestack/config.toml)")
	cmd.Flags().BoolVar(&o.clean, "clean", false, "normalize casing and drop duplicate projects first")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "layout workers (default: number of CPUs)")
	cmd.Flags().BoolVar(&o.metric, "metric", false, "measure text with font metrics instead of character counts")
}

func newRenderCmd() *cobra.Command {
	var (
		opts   layoutOpts
		output string
		qr     bool
	)

	cmd := &cobra.Command{
		Use:   "render [projects.xlsx]",
		Short: "Render a project spreadsheet as a PDF deck",
		Long: `Render a project spreadsheet as a PDF deck.

Each row becomes one page. Field heights follow the amount of text, and the
last field (the summary by default) takes whatever space is left on the page.
Records whose fields cannot fit are still rendered and reported as overflowed.

The input may also be a .json snapshot written by 'layout -o'; its stored
config and layouts are rendered as they are.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.Context(), cmd.OutOrStdout(), args[0], output, qr, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.pdf)")
	cmd.Flags().BoolVar(&qr, "qr", false, "stamp a QR code with the record ID in each page margin")

	return cmd
}

func runRender(ctx context.Context, out io.Writer, input, output string, qr bool, opts layoutOpts) error {
	var (
		cfg     model.DeckConfig
		layouts []model.Layout
		err     error
	)
	if strings.EqualFold(filepath.Ext(input), ".json") {
		cfg, layouts, err = loadSnapshot(ctx, input)
	} else {
		cfg, layouts, err = layoutInput(ctx, input, opts)
	}
	if err != nil {
		return err
	}

	path := outputPath(input, output, ".pdf")
	prog := newProgress(loggerFromContext(ctx))
	if err := export.ExportPDF(path, layouts, cfg, export.Options{QRCode: qr}); err != nil {
		return fmt.Errorf("write deck %s: %w", path, err)
	}
	prog.done(fmt.Sprintf("Rendered %d pages", len(layouts)))

	printSuccess(out, "Deck complete")
	printFile(out, path)
	printStat(out, "pages", len(layouts))
	if n := countOverflowed(layouts); n > 0 {
		printWarning(out, "%d page(s) overflow the printable area", n)
	}
	return nil
}

// layoutInput runs the shared pipeline: config, import, optional clean and
// layout of every record.
func layoutInput(ctx context.Context, input string, opts layoutOpts) (model.DeckConfig, []model.Layout, error) {
	logger := loggerFromContext(ctx)

	cfg, err := loadDeckConfig(ctx, opts.config)
	if err != nil {
		return model.DeckConfig{}, nil, err
	}

	records, err := importRecords(ctx, input, cfg)
	if err != nil {
		return model.DeckConfig{}, nil, err
	}
	if opts.clean {
		records = cleanRecords(ctx, records)
	}

	var engineOpts []engine.Option
	if opts.metric {
		est, err := engine.NewMetricEstimator(cfg.Style.FontFamily)
		if err != nil {
			return model.DeckConfig{}, nil, fmt.Errorf("configure layout: %w", err)
		}
		engineOpts = append(engineOpts, engine.WithEstimator(est))
	}
	e, err := engine.New(cfg.Page, cfg.Layout, cfg.Fields, engineOpts...)
	if err != nil {
		return model.DeckConfig{}, nil, fmt.Errorf("configure layout: %w", err)
	}

	prog := newProgress(logger)
	layouts, err := e.LayoutAll(ctx, records, opts.workers)
	if err != nil {
		return model.DeckConfig{}, nil, fmt.Errorf("layout: %w", err)
	}
	prog.done(fmt.Sprintf("Laid out %d records", len(layouts)))

	for i, l := range layouts {
		if l.Overflowed {
			title, _ := l.Block(model.RoleTitle)
			logger.Warn("record overflows the page", "row", records[i].Row, "id", l.RecordID, "title", title.Text)
		}
	}
	return cfg, layouts, nil
}

func loadSnapshot(ctx context.Context, path string) (model.DeckConfig, []model.Layout, error) {
	snap, err := project.LoadSnapshot(path)
	if err != nil {
		return model.DeckConfig{}, nil, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	loggerFromContext(ctx).Debug("loaded snapshot", "path", path, "source", snap.Source, "created", snap.CreatedAt, "pages", len(snap.Layouts))
	return snap.Config, snap.Layouts, nil
}

func countOverflowed(layouts []model.Layout) int {
	n := 0
	for _, l := range layouts {
		if l.Overflowed {
			n++
		}
	}
	return n
}
