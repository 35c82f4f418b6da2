package dict

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestDict writes a dictionary file in a temp directory and returns its path.
func writeTestDict(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "en_zh.dict")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDictionary(t *testing.T) {
	path := writeTestDict(t, "apple\t苹果；使苹果化\n"+
		"Bank\t银行，河岸\n"+
		"notab\n"+
		"\tmissing key\n"+
		"empty\t\n"+
		"file\t文件\n")

	d, err := LoadDictionary(path)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	for _, tt := range []struct{ word, want string }{
		{"apple", "苹果；使苹果化"},
		{"APPLE", "苹果；使苹果化"},
		{" bank ", "银行，河岸"},
		{"file", "文件"},
	} {
		got, ok := d.Translate(tt.word, LangZH)
		assert.True(t, ok, "Translate(%q) not found", tt.word)
		assert.Equal(t, tt.want, got, "Translate(%q)", tt.word)
	}
}

func TestLoadDictionary_NotFound(t *testing.T) {
	_, err := LoadDictionary(filepath.Join(t.TempDir(), "missing.dict"))
	assert.Error(t, err)
}

func TestDictionary_ReverseLookup(t *testing.T) {
	d := NewDictionary()
	d.Add("apple", "苹果；使苹果化")
	d.Add("pomme", "苹果")                        // reverse key already claimed by apple
	d.Add("bank", "银行，河岸")
	d.Add("long", strings.Repeat("长", 11)+"；短") // first sense too long to index

	tests := []struct {
		query string
		lang  Lang
		want  string
		found bool
	}{
		{"苹果", LangZH, "apple", true},
		{"银行", LangEN, "bank", true},
		{"apple", LangEN, "苹果；使苹果化", true},
		{"长长", LangZH, "", false},
		{strings.Repeat("长", 11), LangZH, "", false},
		{"unknown", LangZH, "", false},
	}
	for _, tt := range tests {
		got, ok := d.Translate(tt.query, tt.lang)
		assert.Equal(t, tt.found, ok, "Translate(%q, %s) found", tt.query, tt.lang)
		assert.Equal(t, tt.want, got, "Translate(%q, %s)", tt.query, tt.lang)
	}
}

func TestDictionary_LangOrder(t *testing.T) {
	d := NewDictionary()
	// "app" translates to 应用 and 应用 is also an English key here, so direction matters.
	d.Add("app", "应用")
	d.Add("应用", "yingyong")

	got, _ := d.Translate("应用", LangZH)
	assert.Equal(t, "yingyong", got, "LangZH tries en→zh first")

	got, _ = d.Translate("应用", LangEN)
	assert.Equal(t, "app", got, "LangEN tries zh→en first")
}

func TestSplitIdentifier(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"getUserName", []string{"get", "user", "name"}},
		{"HTTPServer", []string{"h", "t", "t", "p", "server"}},
		{"user_name", []string{"user", "name"}},
		{"__private__field", []string{"private", "field"}},
		{"simple", []string{"simple"}},
		{"Simple", []string{"simple"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := SplitIdentifier(tt.input)
		if len(tt.want) == 0 {
			assert.Empty(t, got, "SplitIdentifier(%q)", tt.input)
			continue
		}
		assert.Equal(t, tt.want, got, "SplitIdentifier(%q)", tt.input)
	}
}

func TestTranslateIdentifier(t *testing.T) {
	d := NewDictionary()
	d.Add("get", "获取")
	d.Add("user", "用户")
	d.Add("name", "名字")
	d.Add("file", "文件")

	got, ok := d.TranslateIdentifier("getUserName", LangZH)
	require.True(t, ok)
	assert.Equal(t, "get → 获取\nuser → 用户\nname → 名字", got)

	got, ok = d.TranslateIdentifier("file_xyz", LangZH)
	assert.True(t, ok)
	assert.Equal(t, "file → 文件", got)

	got, ok = d.TranslateIdentifier("File", LangZH)
	assert.True(t, ok)
	assert.Equal(t, "文件", got, "single-part identifier gets the plain translation")

	_, ok = d.TranslateIdentifier("fooBar", LangZH)
	assert.False(t, ok)
}

func TestParseLang(t *testing.T) {
	for in, want := range map[string]Lang{"": LangZH, "zh": LangZH, "EN": LangEN, " en ": LangEN, "fr": LangZH} {
		assert.Equal(t, want, ParseLang(in), "ParseLang(%q)", in)
	}
}
