package language

import (
	"strings"

	"golang.org/x/text/cases"
	xlang "golang.org/x/text/language"
)

type entry struct {
	code string // ISO 639-1 (2-letter)
	word string // Full word form (e.g. "english")
}

var languages = []entry{
	{"en", "english"},
	{"es", "spanish"},
	{"fr", "french"},
	{"de", "german"},
	{"it", "italian"},
	{"pt", "portuguese"},
	{"ru", "russian"},
	{"ja", "japanese"},
	{"zh", "chinese"},
	{"ko", "korean"},
	{"ar", "arabic"},
	{"hi", "hindi"},
}

// Index maps built at init time.
var (
	byWord map[string]*entry
	byCode map[string]*entry
)

func init() {
	byWord = make(map[string]*entry, len(languages))
	byCode = make(map[string]*entry, len(languages))
	for i := range languages {
		e := &languages[i]
		byWord[e.word] = e
		byCode[e.code] = e
	}
}

// Normalize maps a language name to its ISO 639-1 code ("english" -> "en").
// Unrecognized tokens pass through trimmed: the transcription engine decides
// whether it can handle them.
func Normalize(token string) string {
	trimmed := strings.TrimSpace(token)
	if e, ok := byWord[strings.ToLower(trimmed)]; ok {
		return e.code
	}
	return trimmed
}

// ParseList splits a comma-separated language request into normalized codes.
// Order is preserved, duplicates are kept, and empty tokens are dropped.
func ParseList(csv string) []string {
	parts := strings.Split(csv, ",")
	codes := make([]string, 0, len(parts))
	for _, part := range parts {
		code := Normalize(part)
		if code == "" {
			continue
		}
		codes = append(codes, code)
	}
	return codes
}

// Known reports whether the code belongs to the static table.
func Known(code string) bool {
	_, ok := byCode[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// DisplayName returns a human-readable language name for a recognized code.
// Unrecognized codes come back uppercased, empty input comes back as "Unknown".
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Unknown"
	}
	if e, ok := byCode[strings.ToLower(trimmed)]; ok {
		return cases.Title(xlang.Und).String(e.word)
	}
	return strings.ToUpper(trimmed)
}
