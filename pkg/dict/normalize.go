package dict

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxTranslationRunes is the display limit of a cleaned translation, in code points.
const MaxTranslationRunes = 100

const (
	senseSeparator = "；"
	ellipsis       = "…"
	netSlangMarker = "[网络]"
)

// posTag matches a leading part-of-speech tag such as "n. " or "vt.".
var posTag = regexp.MustCompile(`^[a-z]+\.\s*`)

// rejectedRunes are markup artifacts of the source data, never part of a real word.
const rejectedRunes = `()/"#{}`

// NormalizeKey returns the lookup identity of a word: trimmed and lower-cased,
// so that "Apple" and "apple" collapse to one entry.
func NormalizeKey(word string) string {
	return strings.ToLower(strings.TrimSpace(word))
}

// IsUsefulWord reports whether a (trimmed) word token is worth a dictionary entry.
// Numbers, affix fragments ("-ly", "'s"), long phrases and tokens carrying
// formatting characters are rejected.
func IsUsefulWord(word string) bool {
	if word == "" {
		return false
	}
	if isNumeric(word) {
		return false
	}
	if strings.HasPrefix(word, "-") || strings.HasPrefix(word, "'") {
		return false
	}
	if strings.Count(word, " ") > 2 {
		return false
	}
	return !strings.ContainsAny(word, rejectedRunes)
}

// isNumeric also accepts other-number runes such as superscripts and circled digits.
func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && !unicode.Is(unicode.No, r) {
			return false
		}
	}
	return true
}

// CleanTranslation turns a raw multi-line ECDICT translation into one display line.
//
// Lines are separated by real newlines or by the literal two-character sequence
// `\n`. Internet-slang lines ("[网络] ...") are dropped, leading part-of-speech
// tags are stripped, and the surviving senses are joined with "；". Results longer
// than MaxTranslationRunes code points are cut and suffixed with "…".
// An empty result means the record carries no usable translation.
func CleanTranslation(raw string) string {
	if raw == "" {
		return ""
	}

	lines := strings.Split(strings.ReplaceAll(raw, `\n`, "\n"), "\n")
	senses := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, netSlangMarker) {
			continue
		}
		line = strings.TrimSpace(posTag.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		senses = append(senses, line)
	}
	if len(senses) == 0 {
		return ""
	}

	return truncateRunes(strings.Join(senses, senseSeparator), MaxTranslationRunes)
}

// truncateRunes cuts s to n code points and appends an ellipsis when it did.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + ellipsis
}
