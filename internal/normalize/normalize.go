// Package normalize cleans project records before layout: accent-insensitive
// keys, Portuguese title and sentence casing, and duplicate removal.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/piwi3910/SlideStack/internal/model"
)

// smallWords stay lowercase inside a title unless they start a sentence.
var smallWords = map[string]bool{
	"a": true, "o": true, "as": true, "os": true, "de": true, "da": true, "do": true,
	"das": true, "dos": true, "e": true, "em": true, "no": true, "na": true, "nos": true,
	"nas": true, "por": true, "para": true, "com": true, "sem": true, "sob": true,
	"sobre": true, "entre": true, "ao": true, "aos": true, "à": true, "às": true,
	"um": true, "uma": true, "uns": true, "umas": true,
}

var (
	spaceRun      = regexp.MustCompile(`\s+`)
	tokenSplit    = regexp.MustCompile(`(\s+|-)`)
	strongPunct   = regexp.MustCompile(`^[.!?]+$`)
	endsSentence  = regexp.MustCompile(`[.!?]$`)
	sentenceSplit = regexp.MustCompile(`[.!?]\s*`)
)

// RemoveAccents strips combining marks after compatibility decomposition,
// so "Área" becomes "Area".
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Key returns the accent-free, lowercase, single-spaced form of s used for
// header matching and deduplication.
func Key(s string) string {
	s = strings.ToLower(RemoveAccents(s))
	return strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))
}

// collapse trims s and folds whitespace runs into single spaces.
func collapse(s string) string {
	return spaceRun.ReplaceAllString(strings.TrimSpace(s), " ")
}

func capitalize(word string) string {
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError {
		return word
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(word[size:])
}

// stripNonWord keeps letters, digits and underscores.
func stripNonWord(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return -1
	}, s)
}

// TitleCasePT capitalizes each word except Portuguese articles and
// prepositions in mid-sentence. Space and hyphen separators are kept.
func TitleCasePT(s string) string {
	s = collapse(s)
	if s == "" {
		return s
	}

	var out strings.Builder
	atStart := true
	for _, tok := range splitKeep(s) {
		if strings.TrimSpace(tok) == "" {
			out.WriteString(tok)
			continue
		}
		if tok == "-" {
			out.WriteString(tok)
			atStart = false
			continue
		}
		if strongPunct.MatchString(tok) {
			out.WriteString(tok)
			atStart = true
			continue
		}
		if atStart || !smallWords[strings.ToLower(stripNonWord(tok))] {
			out.WriteString(capitalize(tok))
		} else {
			out.WriteString(strings.ToLower(tok))
		}
		atStart = endsSentence.MatchString(tok)
	}
	return upperFirst(strings.TrimSpace(out.String()))
}

// splitKeep splits s on whitespace runs and hyphens, keeping the separators.
func splitKeep(s string) []string {
	var parts []string
	last := 0
	for _, loc := range tokenSplit.FindAllStringIndex(s, -1) {
		if loc[0] > last {
			parts = append(parts, s[last:loc[0]])
		}
		parts = append(parts, s[loc[0]:loc[1]])
		last = loc[1]
	}
	if last < len(s) {
		parts = append(parts, s[last:])
	}
	return parts
}

func upperFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// SentenceCasePT lowercases s and capitalizes the first letter of every
// sentence.
func SentenceCasePT(s string) string {
	s = collapse(s)
	if s == "" {
		return s
	}

	var out strings.Builder
	last := 0
	for _, loc := range sentenceSplit.FindAllStringIndex(s, -1) {
		out.WriteString(capitalizeSentence(s[last:loc[0]]))
		out.WriteString(s[loc[0]:loc[1]])
		last = loc[1]
	}
	out.WriteString(capitalizeSentence(s[last:]))
	return strings.TrimSpace(out.String())
}

func capitalizeSentence(sent string) string {
	sent = strings.ToLower(sent)
	for i, r := range sent {
		if unicode.IsLetter(r) {
			return sent[:i] + string(unicode.ToUpper(r)) + sent[i+utf8.RuneLen(r):]
		}
	}
	return sent
}

// DedupeKey identifies a project by title, and by coordinator too when one
// is given.
func DedupeKey(r model.Record) string {
	key := Key(r.Field(model.RoleTitle))
	if coord := r.Field(model.RoleCoordinator); coord != "" {
		key += " | " + Key(coord)
	}
	return key
}

// Dedupe keeps the first record of every DedupeKey and reports how many
// were dropped.
func Dedupe(records []model.Record) ([]model.Record, int) {
	seen := make(map[string]bool, len(records))
	kept := make([]model.Record, 0, len(records))
	for _, r := range records {
		k := DedupeKey(r)
		if seen[k] {
			continue
		}
		seen[k] = true
		kept = append(kept, r)
	}
	return kept, len(records) - len(kept)
}

// CleanResult reports the outcome of Clean.
type CleanResult struct {
	Records []model.Record
	Removed int
}

// Clean title-cases titles, sentence-cases summaries and drops duplicates.
// Input records are not modified.
func Clean(records []model.Record) CleanResult {
	cleaned := make([]model.Record, len(records))
	for i, r := range records {
		fields := make(map[model.Role]string, len(r.Fields))
		for role, v := range r.Fields {
			fields[role] = strings.TrimSpace(v)
		}
		fields[model.RoleTitle] = TitleCasePT(fields[model.RoleTitle])
		fields[model.RoleSummary] = SentenceCasePT(fields[model.RoleSummary])
		r.Fields = fields
		cleaned[i] = r
	}
	kept, removed := Dedupe(cleaned)
	return CleanResult{Records: kept, Removed: removed}
}
