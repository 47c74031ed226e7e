package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/SlideStack/internal/model"
)

// StampInfo holds the data encoded into each page's QR code.
type StampInfo struct {
	RecordID string `json:"id"`
	Title    string `json:"title"`
	Page     int    `json:"page"`
}

// qrMaxSize is the largest QR code edge in cm.
const qrMaxSize = 1.2

// stampQR places a QR code with the record ID in the bottom-right margin.
// Pages whose bottom margin is too small for a readable code are skipped.
func (d *deck) stampQR(layout model.Layout) error {
	page := d.cfg.Page
	size := min(qrMaxSize, page.MarginBottom*0.8)
	if size < 0.5 {
		return nil
	}

	info := StampInfo{RecordID: layout.RecordID, Page: d.pdf.PageNo()}
	if title, ok := layout.Block(model.RoleTitle); ok {
		info.Title = title.Text
	}
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal stamp info: %w", err)
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	name := fmt.Sprintf("qr_%d_%s", info.Page, layout.RecordID)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	x := page.Width - page.MarginRight - size
	y := page.PrintableBottom() + (page.MarginBottom-size)/2
	d.pdf.ImageOptions(name, x, y, size, size, false, opts, 0, "")
	return d.pdf.Error()
}

// CollectStampInfos returns the QR payloads a deck would carry, in page order.
func CollectStampInfos(layouts []model.Layout) []StampInfo {
	infos := make([]StampInfo, 0, len(layouts))
	for i, l := range layouts {
		info := StampInfo{RecordID: l.RecordID, Page: i + 1}
		if title, ok := l.Block(model.RoleTitle); ok {
			info.Title = title.Text
		}
		infos = append(infos, info)
	}
	return infos
}
