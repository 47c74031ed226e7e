package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for _, r := range AllRoles {
		parsed, err := ParseRole(r.String())
		require.NoError(t, err)
		assert.Equal(t, r, parsed)
	}

	r, err := ParseRole("  Summary ")
	require.NoError(t, err)
	assert.Equal(t, RoleSummary, r)

	_, err = ParseRole("budget")
	assert.Error(t, err)
}

func TestRoleJSON(t *testing.T) {
	data, err := json.Marshal(map[Role]string{RoleArea: "Engenharias"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"area":"Engenharias"}`, string(data))

	var back map[Role]string
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "Engenharias", back[RoleArea])

	_, err = json.Marshal(Role(42))
	assert.Error(t, err)
	assert.Equal(t, "role(42)", Role(42).String())
}

func TestA4PortraitGeometry(t *testing.T) {
	g := A4Portrait()
	assert.InDelta(t, 17.0, g.UsableWidth(), 1e-9)
	assert.InDelta(t, 26.7, g.UsableHeight(), 1e-9)
	assert.InDelta(t, 28.2, g.PrintableBottom(), 1e-9)
	assert.NoError(t, g.Validate())
}

func TestPageGeometryValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PageGeometry)
		field  string
	}{
		{"margins wider than page", func(g *PageGeometry) { g.MarginLeft = 11; g.MarginRight = 10 }, "page.width"},
		{"zero width", func(g *PageGeometry) { g.Width = 0 }, "page.width"},
		{"margins taller than page", func(g *PageGeometry) { g.MarginTop = 20; g.MarginBottom = 10 }, "page.height"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := A4Portrait()
			tt.modify(&g)
			var cfgErr *ConfigurationError
			require.ErrorAs(t, g.Validate(), &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLayoutBlock(t *testing.T) {
	l := Layout{Blocks: []ResolvedBlock{
		{Role: RoleTitle, Top: 1.5, Height: 1.8},
		{Role: RoleSummary, Top: 3.7, Height: 24.5},
	}}

	b, ok := l.Block(RoleSummary)
	require.True(t, ok)
	assert.InDelta(t, 28.2, b.Bottom(), 1e-9)

	_, ok = l.Block(RoleArea)
	assert.False(t, ok)
}

func TestNewRecord(t *testing.T) {
	a := NewRecord(2, map[Role]string{RoleTitle: "  Horta  "})
	b := NewRecord(3, nil)

	assert.Len(t, a.ID, 8)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "Horta", a.Field(RoleTitle))
	assert.Equal(t, "", b.Field(RoleTitle))
	assert.NotNil(t, b.Fields)
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#922F60")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0x92, G: 0x2f, B: 0x60}, c)

	c, err = ParseHexColor("e2d2af")
	require.NoError(t, err)
	assert.Equal(t, RGB{R: 0xe2, G: 0xd2, B: 0xaf}, c)

	for _, bad := range []string{"", "#fff", "#12345g", "purple"} {
		_, err := ParseHexColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultDeckConfigIsValid(t *testing.T) {
	cfg := DefaultDeckConfig()
	require.NoError(t, cfg.Validate())
	require.Len(t, cfg.Fields, len(AllRoles))
	for i, f := range cfg.Fields {
		assert.Equal(t, AllRoles[i], f.Role)
	}
	assert.Equal(t, NoMaxHeight, cfg.Fields[len(cfg.Fields)-1].MaxHeight)
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name   string
		fields []FieldConfig
	}{
		{"empty", nil},
		{"duplicate role", []FieldConfig{
			{Role: RoleTitle, FontSize: 12, MinHeight: 1},
			{Role: RoleTitle, FontSize: 12, MinHeight: 1},
		}},
		{"zero font", []FieldConfig{{Role: RoleTitle, MinHeight: 1}}},
		{"zero min height", []FieldConfig{{Role: RoleTitle, FontSize: 12}}},
		{"negative max", []FieldConfig{{Role: RoleTitle, FontSize: 12, MinHeight: 1, MaxHeight: -1}}},
		{"max below min", []FieldConfig{{Role: RoleTitle, FontSize: 12, MinHeight: 3, MaxHeight: 2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfgErr *ConfigurationError
			assert.ErrorAs(t, ValidateFields(tt.fields), &cfgErr)
		})
	}
}

func TestDeckConfigValidate(t *testing.T) {
	cfg := DefaultDeckConfig()
	cfg.Layout.Gap = -0.1
	var cfgErr *ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "layout.gap", cfgErr.Field)

	cfg = DefaultDeckConfig()
	cfg.Style.Secondary = "#zzzzzz"
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "style.secondary", cfgErr.Field)

	cfg = DefaultDeckConfig()
	cfg.Style.FontFamily = "Aptos"
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "style.font_family", cfgErr.Field)

	cfg = DefaultDeckConfig()
	cfg.Style.FontFamily = "times"
	assert.NoError(t, cfg.Validate())

	cfg = DefaultDeckConfig()
	cfg.Columns = map[string][]string{"budget": {"Orçamento"}}
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "columns.budget", cfgErr.Field)

	cfg = DefaultDeckConfig()
	cfg.Columns = map[string][]string{"area": {"Grande Área"}}
	assert.NoError(t, cfg.Validate())
}

func TestIsCoreFont(t *testing.T) {
	for _, f := range []string{"Helvetica", "arial", "TIMES", "Courier", "Symbol", "ZapfDingbats"} {
		assert.True(t, IsCoreFont(f), f)
	}
	for _, f := range []string{"", "Aptos", "Calibri", "Helvetica Neue"} {
		assert.False(t, IsCoreFont(f), f)
	}
}
