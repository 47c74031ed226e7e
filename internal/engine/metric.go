package engine

import (
	"math"
	"strings"
	"sync"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SlideStack/internal/model"
)

// MetricEstimator wraps text greedily by word using real core-font glyph
// widths instead of an average character width. It shares one fpdf instance,
// so calls are serialized.
type MetricEstimator struct {
	mu     sync.Mutex
	pdf    *fpdf.Fpdf
	family string
	tr     func(string) string
}

// NewMetricEstimator returns an estimator measuring with the given core font
// family (Helvetica, Times or Courier). Widths are in centimeters. A family
// fpdf cannot load is a *model.ConfigurationError.
func NewMetricEstimator(family string) (*MetricEstimator, error) {
	pdf := fpdf.New("P", "cm", "A4", "")
	pdf.SetFont(family, "", 12)
	if err := pdf.Error(); err != nil {
		return nil, &model.ConfigurationError{Field: "style.font_family", Reason: err.Error()}
	}
	return &MetricEstimator{
		pdf:    pdf,
		family: family,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}, nil
}

func (m *MetricEstimator) EstimateLines(text string, boxWidth, fontSize float64) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if fontSize <= 0 {
		fontSize = 1
	}
	m.pdf.SetFont(m.family, "", fontSize)
	space := m.pdf.GetStringWidth(" ")
	// A box must hold at least one glyph.
	boxWidth = math.Max(boxWidth, m.pdf.GetStringWidth("W"))

	total := 0
	for _, par := range SplitParagraphs(text) {
		total += m.wrap(strings.Fields(par), boxWidth, space)
	}
	return total
}

// wrap counts the lines needed for words, breaking words wider than the box.
func (m *MetricEstimator) wrap(words []string, boxWidth, space float64) int {
	lines := 1
	used := 0.0
	for _, word := range words {
		w := m.pdf.GetStringWidth(m.tr(word))
		switch {
		case used == 0 && w <= boxWidth:
			used = w
		case used > 0 && used+space+w <= boxWidth:
			used += space + w
		case w > boxWidth:
			if used > 0 {
				lines++
			}
			extra := int(math.Ceil(w/boxWidth)) - 1
			lines += extra
			used = w - float64(extra)*boxWidth
		default:
			lines++
			used = w
		}
	}
	return lines
}
