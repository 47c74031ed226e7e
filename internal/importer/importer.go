// Package importer provides CSV and Excel import of project records.
// It supports automatic delimiter detection and accent-insensitive header
// recognition, so "Título do projeto" and "titulo" map to the same field.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/SlideStack/internal/model"
	"github.com/piwi3910/SlideStack/internal/normalize"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Records  []model.Record
	Errors   []string
	Warnings []string
}

// ColumnMapping maps each role to its column index, or -1 when absent.
type ColumnMapping map[model.Role]int

// Index returns the column of role, or -1.
func (m ColumnMapping) Index(role model.Role) int {
	if idx, ok := m[role]; ok {
		return idx
	}
	return -1
}

// RequiredRoles must be present in every header row.
var RequiredRoles = []model.Role{model.RoleTitle, model.RoleSummary}

// CanonicalHeaders are the column names written when exporting records.
var CanonicalHeaders = map[model.Role]string{
	model.RoleTitle:        "Título do projeto",
	model.RoleCoordinator:  "Coordenador",
	model.RoleParticipants: "Participantes",
	model.RoleKeywords:     "Palavras-Chaves",
	model.RoleArea:         "Área",
	model.RoleSummary:      "Resumo do projeto",
}

// headerAliases maps roles to accepted header names, already in Key form.
var headerAliases = map[model.Role][]string{
	model.RoleTitle:        {"titulo do projeto", "titulo", "title", "projeto", "nome do projeto", "project"},
	model.RoleCoordinator:  {"coordenador", "coordenadora", "coordenador(a)", "coordinator", "orientador"},
	model.RoleParticipants: {"participantes", "participants", "equipe", "membros", "team"},
	model.RoleKeywords:     {"palavras-chaves", "palavras-chave", "palavras chave", "keywords", "palavra-chave"},
	model.RoleArea:         {"area", "area principal", "area do conhecimento", "subject area", "area of study"},
	model.RoleSummary:      {"resumo do projeto", "resumo", "summary", "abstract", "descricao"},
}

// Importer reads record spreadsheets. Extra aliases extend the built-in
// header names per role.
type Importer struct {
	aliases map[model.Role][]string
}

// New returns an importer that also accepts the given extra header aliases,
// keyed by role name as in model.DeckConfig.Columns.
func New(extra map[string][]string) (*Importer, error) {
	aliases := make(map[model.Role][]string, len(headerAliases))
	for role, names := range headerAliases {
		aliases[role] = append([]string(nil), names...)
	}
	for name, names := range extra {
		role, err := model.ParseRole(name)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			aliases[role] = append(aliases[role], normalize.Key(n))
		}
	}
	return &Importer{aliases: aliases}, nil
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns maps a header row to roles. The first matching column wins
// when a role appears twice.
func (im *Importer) DetectColumns(row []string) ColumnMapping {
	mapping := ColumnMapping{}
	for i, cell := range row {
		key := normalize.Key(cell)
		if key == "" {
			continue
		}
		for role, aliases := range im.aliases {
			if _, taken := mapping[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if key == alias {
					mapping[role] = i
					break
				}
			}
		}
	}
	return mapping
}

// extraColumns returns the indices of named header columns that map to no
// role. Columns whose header starts with "__" are helper columns and are
// dropped.
func extraColumns(header []string, mapping ColumnMapping) []int {
	mapped := make(map[int]bool, len(mapping))
	for _, idx := range mapping {
		mapped[idx] = true
	}
	var extra []int
	for i, h := range header {
		h = strings.TrimSpace(h)
		if h == "" || mapped[i] || strings.HasPrefix(h, "__") {
			continue
		}
		extra = append(extra, i)
	}
	return extra
}

// getCell safely retrieves a trimmed cell value, or "" when out of range.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// Import dispatches on the file extension: .csv goes to ImportCSV,
// everything else to ImportExcel.
func (im *Importer) Import(path string) ImportResult {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return im.ImportCSV(path)
	}
	return im.ImportExcel(path)
}

// ImportCSV imports records from a CSV file with automatic delimiter detection.
func (im *Importer) ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	var warnings []string
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	records, err := readCSV(bytes.NewReader(data), delimiter)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return im.importFromRows(records, "Line", warnings)
}

// ImportCSVFromReader imports records from a CSV reader with a known delimiter.
func (im *Importer) ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	records, err := readCSV(reader, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return im.importFromRows(records, "Line", nil)
}

func readCSV(r io.Reader, delimiter rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// ImportExcel imports records from the first sheet of an Excel workbook.
func (im *Importer) ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return im.importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// The first row must be a header naming at least the required columns.
func (im *Importer) importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping := im.DetectColumns(rows[0])
	var missing []string
	for _, role := range RequiredRoles {
		if mapping.Index(role) == -1 {
			missing = append(missing, CanonicalHeaders[role])
		}
	}
	if len(missing) > 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
		return result
	}
	for _, role := range model.AllRoles {
		if mapping.Index(role) == -1 {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Column %q not found, field will be empty", CanonicalHeaders[role]))
		}
	}

	extra := extraColumns(rows[0], mapping)

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		lineNum := i + 1
		fields := make(map[model.Role]string, len(mapping))
		for role, idx := range mapping {
			fields[role] = getCell(row, idx)
		}
		if fields[model.RoleTitle] == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("%s %d: Missing project title", rowPrefix, lineNum))
		}
		record := model.NewRecord(lineNum, fields)
		for _, idx := range extra {
			record.Extra = append(record.Extra, model.ExtraField{
				Header: strings.TrimSpace(rows[0][idx]),
				Value:  getCell(row, idx),
			})
		}
		result.Records = append(result.Records, record)
	}

	if len(result.Records) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}
