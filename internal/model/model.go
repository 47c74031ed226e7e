package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Role identifies which project field a content block carries.
type Role int

const (
	RoleTitle        Role = iota // Project title
	RoleCoordinator              // Project coordinator
	RoleParticipants             // Participant list
	RoleKeywords                 // Keywords
	RoleArea                     // Main subject area
	RoleSummary                  // Project abstract
)

// AllRoles lists every role in the default placement order.
var AllRoles = []Role{RoleTitle, RoleCoordinator, RoleParticipants, RoleKeywords, RoleArea, RoleSummary}

var roleNames = map[Role]string{
	RoleTitle:        "title",
	RoleCoordinator:  "coordinator",
	RoleParticipants: "participants",
	RoleKeywords:     "keywords",
	RoleArea:         "area",
	RoleSummary:      "summary",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole converts a role name (case-insensitive) to a Role.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown field role %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (r Role) MarshalText() ([]byte, error) {
	if _, ok := roleNames[r]; !ok {
		return nil, fmt.Errorf("unknown field role %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// PageGeometry describes the physical page canvas in centimeters.
type PageGeometry struct {
	Width        float64 `json:"width" toml:"width"`
	Height       float64 `json:"height" toml:"height"`
	MarginTop    float64 `json:"margin_top" toml:"margin_top"`
	MarginBottom float64 `json:"margin_bottom" toml:"margin_bottom"`
	MarginLeft   float64 `json:"margin_left" toml:"margin_left"`
	MarginRight  float64 `json:"margin_right" toml:"margin_right"`
}

// A4Portrait returns the A4 page used for project slides.
func A4Portrait() PageGeometry {
	return PageGeometry{
		Width:        21.0,
		Height:       29.7,
		MarginTop:    1.5,
		MarginBottom: 1.5,
		MarginLeft:   2.0,
		MarginRight:  2.0,
	}
}

// UsableWidth returns the width between the left and right margins.
func (g PageGeometry) UsableWidth() float64 {
	return g.Width - g.MarginLeft - g.MarginRight
}

// UsableHeight returns the height between the top and bottom margins.
func (g PageGeometry) UsableHeight() float64 {
	return g.Height - g.MarginTop - g.MarginBottom
}

// PrintableBottom returns the y coordinate of the bottom margin line.
func (g PageGeometry) PrintableBottom() float64 {
	return g.Height - g.MarginBottom
}

// Validate reports a ConfigurationError when the geometry leaves no usable area.
func (g PageGeometry) Validate() error {
	if g.UsableWidth() <= 0 {
		return &ConfigurationError{
			Field:  "page.width",
			Reason: fmt.Sprintf("usable width %.2f cm is not positive", g.UsableWidth()),
		}
	}
	if g.UsableHeight() <= 0 {
		return &ConfigurationError{
			Field:  "page.height",
			Reason: fmt.Sprintf("usable height %.2f cm is not positive", g.UsableHeight()),
		}
	}
	return nil
}

// ConfigurationError is a fatal setup problem detected before any record is laid out.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration for %s: %s", e.Field, e.Reason)
}

// FieldSpec is one field of one record, ready for height resolution.
type FieldSpec struct {
	Role      Role
	Text      string
	FontSize  float64 // points
	MinHeight float64 // cm
	MaxHeight float64 // cm, NoMaxHeight for no fixed ceiling
	Width     float64 // cm
}

// ResolvedBlock is a placed, sized content block.
type ResolvedBlock struct {
	Role   Role    `json:"role"`
	Text   string  `json:"text"`
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bottom returns the y coordinate of the block's lower edge.
func (b ResolvedBlock) Bottom() float64 {
	return b.Top + b.Height
}

// Layout is the ordered list of blocks for one record.
type Layout struct {
	RecordID   string          `json:"record_id,omitempty"`
	Blocks     []ResolvedBlock `json:"blocks"`
	Overflowed bool            `json:"overflowed"`
}

// Block returns the block carrying the given role, if present.
func (l Layout) Block(role Role) (ResolvedBlock, bool) {
	for _, b := range l.Blocks {
		if b.Role == role {
			return b, true
		}
	}
	return ResolvedBlock{}, false
}

// ExtraField is a source column that maps to no role. It is carried along
// untouched so cleaned spreadsheets keep every input column.
type ExtraField struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// Record is one normalized input row.
type Record struct {
	ID     string          `json:"id"`
	Row    int             `json:"row"` // 1-based source row, 0 when unknown
	Fields map[Role]string `json:"fields"`
	Extra  []ExtraField    `json:"extra,omitempty"` // in source column order
}

func NewRecord(row int, fields map[Role]string) Record {
	if fields == nil {
		fields = map[Role]string{}
	}
	return Record{
		ID:     uuid.New().String()[:8],
		Row:    row,
		Fields: fields,
	}
}

// Field returns the trimmed text for a role, or "" when missing.
func (r Record) Field(role Role) string {
	return strings.TrimSpace(r.Fields[role])
}
