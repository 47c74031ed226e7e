package model

import (
	"fmt"
	"strconv"
	"strings"
)

// NoMaxHeight marks a field without a fixed height ceiling.
const NoMaxHeight = 0.0

// LayoutSettings holds the tunable constants of the layout engine.
type LayoutSettings struct {
	CharWidthFactor float64 `json:"char_width_factor" toml:"char_width_factor"` // Average glyph width as a fraction of font size
	BreathingFactor float64 `json:"breathing_factor" toml:"breathing_factor"`   // Effective character load after break-friendly spaces
	MinCharsPerLine float64 `json:"min_chars_per_line" toml:"min_chars_per_line"`
	LineSpacing     float64 `json:"line_spacing" toml:"line_spacing"`     // Line height as a multiple of font size
	Padding         float64 `json:"padding" toml:"padding"`               // Vertical padding inside a box in cm
	Gap             float64 `json:"gap" toml:"gap"`                       // Space between stacked boxes in cm
	AbsoluteFloor   float64 `json:"absolute_floor" toml:"absolute_floor"` // Smallest height the last box may receive in cm
}

func DefaultLayoutSettings() LayoutSettings {
	return LayoutSettings{
		CharWidthFactor: 0.5,
		BreathingFactor: 0.95,
		MinCharsPerLine: 8,
		LineSpacing:     1.2,
		Padding:         0.6,
		Gap:             0.4,
		AbsoluteFloor:   3.0,
	}
}

// Validate checks that every tunable is usable by the engine.
func (s LayoutSettings) Validate() error {
	checks := []struct {
		name  string
		value float64
	}{
		{"layout.char_width_factor", s.CharWidthFactor},
		{"layout.breathing_factor", s.BreathingFactor},
		{"layout.min_chars_per_line", s.MinCharsPerLine},
		{"layout.line_spacing", s.LineSpacing},
		{"layout.absolute_floor", s.AbsoluteFloor},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return &ConfigurationError{Field: c.name, Reason: "must be positive"}
		}
	}
	if s.Padding < 0 {
		return &ConfigurationError{Field: "layout.padding", Reason: "must not be negative"}
	}
	if s.Gap < 0 {
		return &ConfigurationError{Field: "layout.gap", Reason: "must not be negative"}
	}
	return nil
}

// FieldConfig describes how one role is sized on the page.
type FieldConfig struct {
	Role      Role    `json:"role" toml:"role"`
	Label     string  `json:"label" toml:"label"`           // Bold prefix drawn before the value; empty for none
	FontSize  float64 `json:"font_size" toml:"font_size"`   // points
	MinHeight float64 `json:"min_height" toml:"min_height"` // cm
	MaxHeight float64 `json:"max_height" toml:"max_height"` // cm; ignored for the last field
}

// DefaultFieldConfigs returns the project slide fields in placement order.
func DefaultFieldConfigs() []FieldConfig {
	return []FieldConfig{
		{Role: RoleTitle, FontSize: 14, MinHeight: 1.8, MaxHeight: 3.5},
		{Role: RoleCoordinator, Label: "Coordenador(a):", FontSize: 12, MinHeight: 1.8, MaxHeight: 3.0},
		{Role: RoleParticipants, Label: "Participantes:", FontSize: 12, MinHeight: 2.0, MaxHeight: 8.0},
		{Role: RoleKeywords, Label: "Palavras-Chave:", FontSize: 12, MinHeight: 2.0, MaxHeight: 6.0},
		{Role: RoleArea, Label: "Área Principal:", FontSize: 12, MinHeight: 2.0, MaxHeight: 3.0},
		{Role: RoleSummary, FontSize: 12, MinHeight: 6.0, MaxHeight: NoMaxHeight},
	}
}

// ValidateFields checks an ordered field list for usable sizes and duplicate roles.
func ValidateFields(fields []FieldConfig) error {
	if len(fields) == 0 {
		return &ConfigurationError{Field: "fields", Reason: "at least one field is required"}
	}
	seen := make(map[Role]bool, len(fields))
	for i, f := range fields {
		name := fmt.Sprintf("fields[%d] (%s)", i, f.Role)
		if seen[f.Role] {
			return &ConfigurationError{Field: name, Reason: "duplicate role"}
		}
		seen[f.Role] = true
		if f.FontSize <= 0 {
			return &ConfigurationError{Field: name, Reason: "font size must be positive"}
		}
		if f.MinHeight <= 0 {
			return &ConfigurationError{Field: name, Reason: "minimum height must be positive"}
		}
		if f.MaxHeight < 0 {
			return &ConfigurationError{Field: name, Reason: "maximum height must not be negative"}
		}
		if f.MaxHeight != NoMaxHeight && f.MaxHeight < f.MinHeight {
			return &ConfigurationError{Field: name, Reason: "maximum height is below minimum height"}
		}
	}
	return nil
}

// RGB is a color with 0-255 channels.
type RGB struct {
	R, G, B int
}

// ParseHexColor converts "#RRGGBB" (leading # optional) to RGB.
func ParseHexColor(s string) (RGB, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return RGB{}, fmt.Errorf("invalid hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return RGB{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}, nil
}

// coreFonts are the PDF base fonts usable without embedding, keyed in
// lower case. Arial is an alias for Helvetica.
var coreFonts = map[string]bool{
	"courier":      true,
	"helvetica":    true,
	"arial":        true,
	"times":        true,
	"symbol":       true,
	"zapfdingbats": true,
}

// IsCoreFont reports whether family names a PDF core font (case-insensitive).
func IsCoreFont(family string) bool {
	return coreFonts[strings.ToLower(strings.TrimSpace(family))]
}

// Style holds rendering attributes layered on top of resolved blocks.
type Style struct {
	Primary     string  `json:"primary" toml:"primary"`     // Title fill, borders and body text
	Secondary   string  `json:"secondary" toml:"secondary"` // Body fill and title text
	FontFamily  string  `json:"font_family" toml:"font_family"`
	BorderWidth float64 `json:"border_width" toml:"border_width"` // points
}

func DefaultStyle() Style {
	return Style{
		Primary:     "#922F60",
		Secondary:   "#E2D2AF",
		FontFamily:  "Helvetica",
		BorderWidth: 3,
	}
}

// DeckConfig ties together everything needed to lay out and render a deck.
type DeckConfig struct {
	Page    PageGeometry        `json:"page" toml:"page"`
	Layout  LayoutSettings      `json:"layout" toml:"layout"`
	Style   Style               `json:"style" toml:"style"`
	Fields  []FieldConfig       `json:"fields" toml:"fields"`
	Columns map[string][]string `json:"columns,omitempty" toml:"columns,omitempty"` // Extra header aliases keyed by role name
}

func DefaultDeckConfig() DeckConfig {
	return DeckConfig{
		Page:   A4Portrait(),
		Layout: DefaultLayoutSettings(),
		Style:  DefaultStyle(),
		Fields: DefaultFieldConfigs(),
	}
}

// Validate checks the whole deck configuration.
func (c DeckConfig) Validate() error {
	if err := c.Page.Validate(); err != nil {
		return err
	}
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if err := ValidateFields(c.Fields); err != nil {
		return err
	}
	if _, err := ParseHexColor(c.Style.Primary); err != nil {
		return &ConfigurationError{Field: "style.primary", Reason: err.Error()}
	}
	if _, err := ParseHexColor(c.Style.Secondary); err != nil {
		return &ConfigurationError{Field: "style.secondary", Reason: err.Error()}
	}
	if !IsCoreFont(c.Style.FontFamily) {
		return &ConfigurationError{
			Field:  "style.font_family",
			Reason: fmt.Sprintf("%q is not a core PDF font (Courier, Helvetica, Arial, Times, Symbol, ZapfDingbats)", c.Style.FontFamily),
		}
	}
	for name := range c.Columns {
		if _, err := ParseRole(name); err != nil {
			return &ConfigurationError{Field: "columns." + name, Reason: err.Error()}
		}
	}
	return nil
}
