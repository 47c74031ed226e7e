package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlideStack/internal/model"
)

func newTestImporter(t *testing.T) *Importer {
	t.Helper()
	im, err := New(nil)
	require.NoError(t, err)
	return im
}

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	tests := []struct {
		name string
		data string
		want rune
	}{
		{"comma", "Título,Resumo\nA,B\nC,D\n", ','},
		{"semicolon", "Título;Resumo\nA;B\nC;D\n", ';'},
		{"tab", "Título\tResumo\nA\tB\nC\tD\n", '\t'},
		{"pipe", "Título|Resumo\nA|B\nC|D\n", '|'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectCSVDelimiter([]byte(tt.data)))
		})
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_SpreadsheetHeaders(t *testing.T) {
	im := newTestImporter(t)
	row := []string{"Título do projeto", "Coordenador", "Participantes", "Resumo do projeto", "Palavras-Chaves", "Área"}
	mapping := im.DetectColumns(row)

	assert.Equal(t, 0, mapping.Index(model.RoleTitle))
	assert.Equal(t, 1, mapping.Index(model.RoleCoordinator))
	assert.Equal(t, 2, mapping.Index(model.RoleParticipants))
	assert.Equal(t, 3, mapping.Index(model.RoleSummary))
	assert.Equal(t, 4, mapping.Index(model.RoleKeywords))
	assert.Equal(t, 5, mapping.Index(model.RoleArea))
}

func TestDetectColumns_AccentAndCaseInsensitive(t *testing.T) {
	im := newTestImporter(t)
	mapping := im.DetectColumns([]string{"  TITULO DO PROJETO ", "resumo", "AREA"})

	assert.Equal(t, 0, mapping.Index(model.RoleTitle))
	assert.Equal(t, 1, mapping.Index(model.RoleSummary))
	assert.Equal(t, 2, mapping.Index(model.RoleArea))
	assert.Equal(t, -1, mapping.Index(model.RoleKeywords))
}

func TestDetectColumns_FirstMatchWins(t *testing.T) {
	im := newTestImporter(t)
	mapping := im.DetectColumns([]string{"Title", "Projeto", "Summary"})
	assert.Equal(t, 0, mapping.Index(model.RoleTitle))
}

func TestNew_ExtraAliases(t *testing.T) {
	im, err := New(map[string][]string{"area": {"Grande Área"}})
	require.NoError(t, err)

	mapping := im.DetectColumns([]string{"Título", "Grande área", "Resumo"})
	assert.Equal(t, 1, mapping.Index(model.RoleArea))
}

func TestNew_UnknownRole(t *testing.T) {
	_, err := New(map[string][]string{"budget": {"Orçamento"}})
	assert.Error(t, err)
}

// ─── CSV Import Tests ──────────────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	im := newTestImporter(t)
	data := "Título do projeto,Coordenador,Resumo do projeto\n" +
		"Energia Solar,Ana Lima,Estudo de painéis.\n" +
		"  Água Limpa  ,Bruno,Filtros de baixo custo.\n"

	result := im.ImportCSVFromReader(strings.NewReader(data), ',')
	require.Empty(t, result.Errors)
	require.Len(t, result.Records, 2)

	first := result.Records[0]
	assert.Equal(t, "Energia Solar", first.Fields[model.RoleTitle])
	assert.Equal(t, "Ana Lima", first.Fields[model.RoleCoordinator])
	assert.Equal(t, "Estudo de painéis.", first.Fields[model.RoleSummary])
	assert.Equal(t, 2, first.Row)
	assert.Len(t, first.ID, 8)

	assert.Equal(t, "Água Limpa", result.Records[1].Fields[model.RoleTitle])
	assert.Equal(t, 3, result.Records[1].Row)
}

func TestImportCSVFromReader_MissingRequiredColumns(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportCSVFromReader(strings.NewReader("Coordenador,Área\nAna,Física\n"), ',')

	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Título do projeto")
	assert.Contains(t, result.Errors[0], "Resumo do projeto")
	assert.Empty(t, result.Records)
}

func TestImportCSVFromReader_WarnsOnOptionalColumns(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportCSVFromReader(strings.NewReader("Título,Resumo\nA,B\n"), ',')

	require.Empty(t, result.Errors)
	assert.Len(t, result.Warnings, 4)
	assert.Equal(t, "", result.Records[0].Field(model.RoleKeywords))
}

func TestImportCSVFromReader_SkipsEmptyRowsAndShortRows(t *testing.T) {
	im := newTestImporter(t)
	data := "Título;Coordenador;Resumo\nA;Ana;R1\n;;\nB\n"

	result := im.ImportCSVFromReader(strings.NewReader(data), ';')
	require.Empty(t, result.Errors)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "B", result.Records[1].Fields[model.RoleTitle])
	assert.Equal(t, "", result.Records[1].Fields[model.RoleSummary])
}

func TestImportCSVFromReader_MissingTitleWarns(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportCSVFromReader(strings.NewReader("Título,Resumo\n,Só resumo\n"), ',')

	require.Len(t, result.Records, 1)
	assert.Contains(t, strings.Join(result.Warnings, "\n"), "Line 2: Missing project title")
}

func TestImportCSVFromReader_OnlyHeaders(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportCSVFromReader(strings.NewReader("Título,Resumo\n"), ',')
	assert.Contains(t, result.Errors, "No data rows found")
}

func TestImportCSVFromReader_EmptyFile(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportCSVFromReader(strings.NewReader(""), ',')
	assert.NotEmpty(t, result.Errors)
}

func TestImportCSV_SemicolonFile(t *testing.T) {
	im := newTestImporter(t)
	path := filepath.Join(t.TempDir(), "projetos.csv")
	require.NoError(t, os.WriteFile(path, []byte("Título;Resumo\nA;R1\nB;R2\n"), 0644))

	result := im.Import(path)
	require.Empty(t, result.Errors)
	assert.Len(t, result.Records, 2)
	assert.Contains(t, result.Warnings, "Detected semicolon delimiter")
}

func TestImportCSV_FileNotFound(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.NotEmpty(t, result.Errors)
}

func TestImportCSV_EmptyFile(t *testing.T) {
	im := newTestImporter(t)
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0644))

	result := im.ImportCSV(path)
	assert.Equal(t, []string{"File is empty"}, result.Errors)
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projetos.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellRef, cell))
		}
	}

	require.NoError(t, f.SaveAs(path))
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	im := newTestImporter(t)
	path := createTestExcel(t, [][]interface{}{
		{"Título do projeto", "Coordenador", "Participantes", "Resumo do projeto", "Palavras-Chaves", "Área"},
		{"Horta Escolar", "Carla", "Davi, Eva", "Hortas em escolas.", "horta; escola", "Educação"},
		{"Robótica Livre", "Fábio", "", "Kits de baixo custo.", "robótica", "Engenharia"},
	})

	result := im.Import(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Records, 2)

	r := result.Records[0]
	assert.Equal(t, "Horta Escolar", r.Fields[model.RoleTitle])
	assert.Equal(t, "Davi, Eva", r.Fields[model.RoleParticipants])
	assert.Equal(t, "horta; escola", r.Fields[model.RoleKeywords])
	assert.Equal(t, "Educação", r.Fields[model.RoleArea])
	assert.Equal(t, "", result.Records[1].Fields[model.RoleParticipants])
}

func TestImportExcel_NumericCells(t *testing.T) {
	im := newTestImporter(t)
	path := createTestExcel(t, [][]interface{}{
		{"Título", "Resumo"},
		{2024, "Resumo numérico"},
	})

	result := im.ImportExcel(path)
	require.Empty(t, result.Errors)
	assert.Equal(t, "2024", result.Records[0].Fields[model.RoleTitle])
}

func TestImportExcel_FileNotFound(t *testing.T) {
	im := newTestImporter(t)
	result := im.ImportExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.NotEmpty(t, result.Errors)
}

func TestImportExcel_MissingColumns(t *testing.T) {
	im := newTestImporter(t)
	path := createTestExcel(t, [][]interface{}{
		{"Nome", "Valor"},
		{"x", 1},
	})

	result := im.ImportExcel(path)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Required columns not found")
}

func TestImportExcel_KeepsUnmappedColumns(t *testing.T) {
	im := newTestImporter(t)
	path := createTestExcel(t, [][]interface{}{
		{"Edital", "Título do projeto", "__key_titulo__", "Resumo do projeto", "", "Observações"},
		{"2024/01", "Horta Escolar", "horta escolar", "Hortas em escolas.", "solto", "aprovado"},
		{"2024/02", "Robótica Livre", "robotica livre", "Kits de baixo custo."},
	})

	result := im.ImportExcel(path)
	require.Empty(t, result.Errors)
	require.Len(t, result.Records, 2)

	assert.Equal(t, []model.ExtraField{
		{Header: "Edital", Value: "2024/01"},
		{Header: "Observações", Value: "aprovado"},
	}, result.Records[0].Extra)
	assert.Equal(t, []model.ExtraField{
		{Header: "Edital", Value: "2024/02"},
		{Header: "Observações", Value: ""},
	}, result.Records[1].Extra)
}
