// Package engine implements the slide layout engine: it estimates how much
// vertical space each text field needs and stacks the fields on a fixed page.
package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/SlideStack/internal/model"
)

// Engine lays out records on a page. It holds no per-record state and is
// safe for concurrent use as long as its LineEstimator is.
type Engine struct {
	Geometry  model.PageGeometry
	Settings  model.LayoutSettings
	Fields    []model.FieldConfig
	Estimator LineEstimator
}

// Option customizes an Engine created by New.
type Option func(*Engine)

// WithEstimator replaces the default character-count estimator.
func WithEstimator(est LineEstimator) Option {
	return func(e *Engine) {
		if est != nil {
			e.Estimator = est
		}
	}
}

// New validates the geometry, settings and field list once and returns an
// engine ready for any number of records.
func New(geometry model.PageGeometry, settings model.LayoutSettings, fields []model.FieldConfig, opts ...Option) (*Engine, error) {
	if err := geometry.Validate(); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if err := model.ValidateFields(fields); err != nil {
		return nil, err
	}
	e := &Engine{
		Geometry:  geometry,
		Settings:  settings,
		Fields:    append([]model.FieldConfig(nil), fields...),
		Estimator: NewCharCountEstimator(settings),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// LineHeight returns the height of one text line in cm.
func (e *Engine) LineHeight(fontSize float64) float64 {
	return e.Settings.LineSpacing * fontSize * PointsToCM
}

// RawHeight returns the unclamped box height for text: estimated lines times
// line height, plus padding.
func (e *Engine) RawHeight(text string, boxWidth, fontSize float64) float64 {
	lines := e.Estimator.EstimateLines(text, boxWidth, fontSize)
	return float64(lines)*e.LineHeight(fontSize) + e.Settings.Padding
}

// ResolveHeight clamps RawHeight to maxHeight (when not NoMaxHeight) and then
// to minHeight, so minHeight wins if the two conflict.
func (e *Engine) ResolveHeight(text string, boxWidth, fontSize, minHeight, maxHeight float64) float64 {
	h := e.RawHeight(text, boxWidth, fontSize)
	if maxHeight != model.NoMaxHeight {
		h = math.Min(h, maxHeight)
	}
	return math.Max(h, minHeight)
}

// Pack stacks specs top to bottom starting at the top margin. Each block is
// followed by Settings.Gap. The last field ignores its own MaxHeight and may
// use whatever remains above the bottom margin. It is never shorter than
// Settings.AbsoluteFloor, whatever its configured MinHeight. Content that still does not fit is placed anyway
// and reported through Layout.Overflowed.
func (e *Engine) Pack(geometry model.PageGeometry, specs []model.FieldSpec) (model.Layout, error) {
	if err := geometry.Validate(); err != nil {
		return model.Layout{}, err
	}

	layout := model.Layout{Blocks: make([]model.ResolvedBlock, 0, len(specs))}
	cursor := geometry.MarginTop
	for i, spec := range specs {
		var h float64
		if i == len(specs)-1 {
			budget := math.Max(e.Settings.AbsoluteFloor, geometry.PrintableBottom()-cursor)
			minHeight := math.Max(e.Settings.AbsoluteFloor, math.Min(spec.MinHeight, budget))
			h = e.ResolveHeight(spec.Text, spec.Width, spec.FontSize, minHeight, budget)
		} else {
			h = e.ResolveHeight(spec.Text, spec.Width, spec.FontSize, spec.MinHeight, spec.MaxHeight)
		}

		layout.Blocks = append(layout.Blocks, model.ResolvedBlock{
			Role:   spec.Role,
			Text:   spec.Text,
			Left:   geometry.MarginLeft,
			Top:    cursor,
			Width:  spec.Width,
			Height: h,
		})
		cursor += h + e.Settings.Gap
	}

	if n := len(layout.Blocks); n > 0 {
		layout.Overflowed = layout.Blocks[n-1].Bottom() > geometry.PrintableBottom()+overflowTolerance
	}
	return layout, nil
}

// overflowTolerance absorbs float rounding when a block ends exactly on the
// bottom margin.
const overflowTolerance = 1e-9

// Specs builds the ordered field specs for one record from the engine's
// field list. Missing fields become empty strings.
func (e *Engine) Specs(fields map[model.Role]string) []model.FieldSpec {
	width := e.Geometry.UsableWidth()
	specs := make([]model.FieldSpec, len(e.Fields))
	for i, fc := range e.Fields {
		specs[i] = model.FieldSpec{
			Role:      fc.Role,
			Text:      trimField(fields[fc.Role]),
			FontSize:  fc.FontSize,
			MinHeight: fc.MinHeight,
			MaxHeight: fc.MaxHeight,
			Width:     width,
		}
	}
	return specs
}

// LayoutRecord lays out one record's fields on the engine's page.
func (e *Engine) LayoutRecord(fields map[model.Role]string) (model.Layout, error) {
	layout, err := e.Pack(e.Geometry, e.Specs(fields))
	if err != nil {
		return model.Layout{}, fmt.Errorf("failed to pack record: %w", err)
	}
	return layout, nil
}
