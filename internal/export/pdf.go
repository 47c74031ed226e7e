// Package export renders laid-out project records to PDF decks and writes
// record sets back to spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlideStack/internal/engine"
	"github.com/piwi3910/SlideStack/internal/model"
)

// Options controls optional decorations of the rendered deck.
type Options struct {
	QRCode bool // Stamp a QR code with the record ID in the bottom margin
}

// deck carries per-document rendering state.
type deck struct {
	pdf     *fpdf.Fpdf
	tr      func(string) string
	cfg     model.DeckConfig
	fields  map[model.Role]model.FieldConfig
	primary model.RGB
	second  model.RGB
}

func newDeck(cfg model.DeckConfig) (*deck, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	primary, _ := model.ParseHexColor(cfg.Style.Primary)
	second, _ := model.ParseHexColor(cfg.Style.Secondary)

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "cm",
		Size:           fpdf.SizeType{Wd: cfg.Page.Width, Ht: cfg.Page.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCellMargin(0.2)

	fields := make(map[model.Role]model.FieldConfig, len(cfg.Fields))
	for _, f := range cfg.Fields {
		fields[f.Role] = f
	}

	return &deck{
		pdf:     pdf,
		tr:      pdf.UnicodeTranslatorFromDescriptor(""),
		cfg:     cfg,
		fields:  fields,
		primary: primary,
		second:  second,
	}, nil
}

// ExportPDF renders one page per layout and writes the deck to path.
func ExportPDF(path string, layouts []model.Layout, cfg model.DeckConfig, opts Options) error {
	d, err := render(layouts, cfg, opts)
	if err != nil {
		return err
	}
	return d.pdf.OutputFileAndClose(path)
}

// WritePDF renders the deck to w.
func WritePDF(w io.Writer, layouts []model.Layout, cfg model.DeckConfig, opts Options) error {
	d, err := render(layouts, cfg, opts)
	if err != nil {
		return err
	}
	return d.pdf.Output(w)
}

func render(layouts []model.Layout, cfg model.DeckConfig, opts Options) (*deck, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("no layouts to export")
	}
	d, err := newDeck(cfg)
	if err != nil {
		return nil, err
	}

	for _, layout := range layouts {
		d.pdf.AddPage()
		for _, block := range layout.Blocks {
			d.renderBlock(block)
		}
		if opts.QRCode {
			if err := d.stampQR(layout); err != nil {
				return nil, fmt.Errorf("failed to stamp record %s: %w", layout.RecordID, err)
			}
		}
		if err := d.pdf.Error(); err != nil {
			return nil, fmt.Errorf("failed to render record %s: %w", layout.RecordID, err)
		}
	}
	return d, nil
}

// renderBlock draws one box and its text, clipped to the box.
func (d *deck) renderBlock(b model.ResolvedBlock) {
	pdf := d.pdf
	fc := d.fields[b.Role]
	fontSize := fc.FontSize
	if fontSize <= 0 {
		fontSize = 12
	}
	lineH := d.cfg.Layout.LineSpacing * fontSize * engine.PointsToCM
	pad := d.cfg.Layout.Padding / 2

	if b.Role == model.RoleTitle {
		pdf.SetFillColor(d.primary.R, d.primary.G, d.primary.B)
		pdf.Rect(b.Left, b.Top, b.Width, b.Height, "F")
	} else {
		pdf.SetFillColor(d.second.R, d.second.G, d.second.B)
		pdf.SetDrawColor(d.primary.R, d.primary.G, d.primary.B)
		pdf.SetLineWidth(d.cfg.Style.BorderWidth * engine.PointsToCM)
		pdf.Rect(b.Left, b.Top, b.Width, b.Height, "FD")
	}

	pdf.ClipRect(b.Left, b.Top, b.Width, b.Height, false)
	defer pdf.ClipEnd()

	family := d.cfg.Style.FontFamily
	switch {
	case b.Role == model.RoleTitle:
		pdf.SetTextColor(d.second.R, d.second.G, d.second.B)
		pdf.SetFont(family, "B", fontSize)
		pdf.SetXY(b.Left, b.Top+pad)
		pdf.MultiCell(b.Width, lineH, d.tr(b.Text), "", "C", false)
	case fc.Label != "":
		// Write wraps at the page margins, so narrow them to the box.
		cm := pdf.GetCellMargin()
		left, top, right, _ := pdf.GetMargins()
		pdf.SetLeftMargin(b.Left + cm)
		pdf.SetRightMargin(d.cfg.Page.Width - b.Left - b.Width + cm)
		pdf.SetXY(b.Left+cm, b.Top+pad)

		pdf.SetTextColor(d.primary.R, d.primary.G, d.primary.B)
		pdf.SetFont(family, "B", fontSize)
		pdf.Write(lineH, d.tr(fc.Label))
		if b.Text != "" {
			pdf.SetFont(family, "", fontSize)
			pdf.Write(lineH, d.tr(" "+b.Text))
		}
		pdf.SetMargins(left, top, right)
	default:
		pdf.SetTextColor(d.primary.R, d.primary.G, d.primary.B)
		pdf.SetFont(family, "", fontSize)
		pdf.SetXY(b.Left, b.Top+pad)
		pdf.MultiCell(b.Width, lineH, d.tr(b.Text), "", "J", false)
	}
	pdf.SetTextColor(0, 0, 0)
}
