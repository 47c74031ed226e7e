package engine

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/piwi3910/SlideStack/internal/model"
)

// PointsToCM converts typographic points to centimeters.
const PointsToCM = 2.54 / 72.0

// LineEstimator approximates how many rendered lines a text occupies in a box.
// Implementations must return at least 1 for any input.
type LineEstimator interface {
	EstimateLines(text string, boxWidth, fontSize float64) int
}

// CharCountEstimator estimates line counts from character counts and an
// average glyph width. It does not measure real glyphs, so long words or
// narrow fonts can make it wrong by a line or two.
type CharCountEstimator struct {
	CharWidthFactor float64
	BreathingFactor float64
	MinCharsPerLine float64
}

// NewCharCountEstimator builds the default estimator from layout settings.
func NewCharCountEstimator(s model.LayoutSettings) CharCountEstimator {
	return CharCountEstimator{
		CharWidthFactor: s.CharWidthFactor,
		BreathingFactor: s.BreathingFactor,
		MinCharsPerLine: s.MinCharsPerLine,
	}
}

// CharsPerLine returns how many average glyphs fit across boxWidth (cm) at
// fontSize (pt), never less than MinCharsPerLine.
func (e CharCountEstimator) CharsPerLine(boxWidth, fontSize float64) float64 {
	widthPt := boxWidth / PointsToCM
	cpl := widthPt / (e.CharWidthFactor * fontSize)
	if math.IsNaN(cpl) || math.IsInf(cpl, 0) {
		return e.MinCharsPerLine
	}
	return math.Max(e.MinCharsPerLine, cpl)
}

// EstimateLines sums per-paragraph line counts; every paragraph, blank or
// not, contributes at least one line.
func (e CharCountEstimator) EstimateLines(text string, boxWidth, fontSize float64) int {
	cpl := e.CharsPerLine(boxWidth, fontSize)
	total := 0
	for _, par := range SplitParagraphs(text) {
		n := utf8.RuneCountInString(strings.TrimSpace(par))
		lines := 1
		if n > 0 {
			lines = int(math.Ceil(float64(n) * e.BreathingFactor / cpl))
		}
		total += max(1, lines)
	}
	return total
}

// SplitParagraphs splits text on line boundaries. A trailing boundary does
// not start a new paragraph, and empty text yields a single empty paragraph.
func SplitParagraphs(text string) []string {
	var pars []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		pars = append(pars, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		pars = append(pars, text[start:])
	}
	if len(pars) == 0 {
		return []string{""}
	}
	return pars
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
