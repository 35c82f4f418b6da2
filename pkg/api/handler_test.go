package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hoverdict/dictbuild/pkg/dict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testRegistry(t *testing.T) *dict.Registry {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "en_zh.dict")
	content := "apple\t苹果；使苹果化\nfile\t文件；档案\nname\t名字\nuser\t用户\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	reg := dict.NewRegistry(path, "")
	require.NoError(t, reg.Load())
	return reg
}

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(NewRouter(testRegistry(t), quietLogger))
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	return resp.StatusCode
}

func TestTranslate(t *testing.T) {
	ts := testServer(t)

	var res dict.TranslateResult
	code := getJSON(t, ts.URL+"/v1/translate/Apple", &res)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Found)
	assert.Equal(t, "苹果；使苹果化", res.Translation)
	assert.Equal(t, dict.LangZH, res.Lang)
}

func TestTranslate_Reverse(t *testing.T) {
	ts := testServer(t)

	var res dict.TranslateResult
	code := getJSON(t, ts.URL+"/v1/translate/"+urlPath("文件")+"?lang=en", &res)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Found)
	assert.Equal(t, "file", res.Translation)
	assert.Equal(t, dict.LangEN, res.Lang)
}

func TestTranslate_NotFound(t *testing.T) {
	ts := testServer(t)

	var res dict.TranslateResult
	code := getJSON(t, ts.URL+"/v1/translate/pear", &res)
	assert.Equal(t, http.StatusOK, code)
	assert.False(t, res.Found)
	assert.Empty(t, res.Translation)
}

func TestTranslate_BlankWord(t *testing.T) {
	ts := testServer(t)

	var body map[string]string
	code := getJSON(t, ts.URL+"/v1/translate/%20", &body)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, body["error"])
}

func TestIdentifier(t *testing.T) {
	ts := testServer(t)

	var res dict.TranslateResult
	code := getJSON(t, ts.URL+"/v1/identifier/getUserName", &res)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, res.Found)
	assert.Equal(t, "user → 用户\nname → 名字", res.Translation)
}

func TestTranslateBatch(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Post(ts.URL+"/v1/translate/batch", "application/json",
		strings.NewReader(`{"words":["apple","pear","FILE"]}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out batchResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 3)
	assert.True(t, out.Results[0].Found)
	assert.False(t, out.Results[1].Found)
	assert.Equal(t, "文件；档案", out.Results[2].Translation)
}

func TestTranslateBatch_Errors(t *testing.T) {
	ts := testServer(t)

	words := make([]string, MaxBatch+1)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	tooMany, _ := json.Marshal(httpBatchRequest{Words: words})

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"words":`},
		{"empty", `{"words":[]}`},
		{"too many", string(tooMany)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/v1/translate/batch", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestTranslateBatch_GetNotAllowed(t *testing.T) {
	ts := testServer(t)

	resp, err := http.Get(ts.URL + "/v1/translate/batch")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestInfoAndHealth(t *testing.T) {
	ts := testServer(t)

	var info dict.Info
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/dictionary", &info))
	assert.Equal(t, 4, info.Entries)
	assert.True(t, strings.HasSuffix(info.Path, "en_zh.dict"))

	var health healthResponse
	assert.Equal(t, http.StatusOK, getJSON(t, ts.URL+"/v1/health", &health))
	assert.Equal(t, healthResponse{Status: "ok", Entries: 4}, health)
}

func TestCORSPreflight(t *testing.T) {
	ts := testServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/v1/translate/apple", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}

func urlPath(s string) string {
	return (&url.URL{Path: s}).EscapedPath()
}
