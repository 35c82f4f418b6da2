package dict

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Lang selects which direction a lookup tries first.
type Lang string

const (
	LangZH Lang = "zh" // English word in, Chinese out (default)
	LangEN Lang = "en" // Chinese sense in, English word out
)

// ParseLang maps a query value to a Lang, defaulting to LangZH.
func ParseLang(s string) Lang {
	if strings.EqualFold(strings.TrimSpace(s), string(LangEN)) {
		return LangEN
	}
	return LangZH
}

// maxReverseRunes bounds the Chinese senses indexed for reverse lookup.
const maxReverseRunes = 10

// Dictionary is a loaded en_zh.dict with a derived zh→en reverse index.
type Dictionary struct {
	Manifest *Manifest `json:"manifest,omitempty"`
	enToZh   map[string]string
	zhToEn   map[string]string
}

// NewDictionary returns an empty dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{
		enToZh: make(map[string]string),
		zhToEn: make(map[string]string),
	}
}

// LoadDictionary reads a dictionary file. Lines without a tab, or with an empty
// key or translation, are ignored.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer f.Close()

	d := NewDictionary()
	if err := d.Merge(f); err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return d, nil
}

// Merge adds every dictionary line read from r.
func (d *Dictionary) Merge(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		tab := strings.IndexByte(line, '\t')
		if tab <= 0 || tab >= len(line)-1 {
			continue
		}
		d.Add(line[:tab], line[tab+1:])
	}
	return sc.Err()
}

// Add inserts one entry. The first short sense of the translation becomes a
// reverse-lookup key unless an earlier entry already claimed it.
func (d *Dictionary) Add(word, translation string) {
	en := NormalizeKey(word)
	zh := strings.TrimSpace(translation)
	if en == "" || zh == "" {
		return
	}
	d.enToZh[en] = zh

	first := strings.TrimSpace(firstSense(zh))
	if first == "" || utf8.RuneCountInString(first) > maxReverseRunes {
		return
	}
	if _, ok := d.zhToEn[first]; !ok {
		d.zhToEn[first] = en
	}
}

func firstSense(s string) string {
	if i := strings.IndexAny(s, ";；，"); i >= 0 {
		return s[:i]
	}
	return s
}

// Len returns the number of English entries.
func (d *Dictionary) Len() int { return len(d.enToZh) }

// Translate looks a word up in both directions, lang deciding which goes first.
func (d *Dictionary) Translate(word string, lang Lang) (string, bool) {
	forward := func() (string, bool) {
		v, ok := d.enToZh[NormalizeKey(word)]
		return v, ok
	}
	reverse := func() (string, bool) {
		v, ok := d.zhToEn[strings.TrimSpace(word)]
		return v, ok
	}

	first, second := forward, reverse
	if lang == LangEN {
		first, second = reverse, forward
	}
	if v, ok := first(); ok {
		return v, true
	}
	return second()
}

// TranslateIdentifier translates a code identifier part by part.
// Single-part identifiers fall back to Translate; otherwise every part with a
// translation yields a "part → translation" line.
func (d *Dictionary) TranslateIdentifier(ident string, lang Lang) (string, bool) {
	parts := SplitIdentifier(ident)
	if len(parts) <= 1 {
		return d.Translate(ident, lang)
	}

	var lines []string
	for _, p := range parts {
		if t, ok := d.Translate(p, lang); ok {
			lines = append(lines, p+" → "+t)
		}
	}
	if len(lines) == 0 {
		return "", false
	}
	return strings.Join(lines, "\n"), true
}

// SplitIdentifier splits snake_case on underscores and camelCase before each
// upper-case letter, lower-casing camelCase parts.
func SplitIdentifier(ident string) []string {
	if strings.Contains(ident, "_") {
		var parts []string
		for _, p := range strings.Split(ident, "_") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return parts
	}

	var (
		parts []string
		cur   strings.Builder
	)
	for _, r := range ident {
		if unicode.IsUpper(r) && cur.Len() > 0 {
			parts = append(parts, cur.String())
			cur.Reset()
		}
		cur.WriteRune(unicode.ToLower(r))
	}
	if cur.Len() > 0 {
		parts = append(parts, cur.String())
	}
	return parts
}
