package dict

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_LoadAndTranslate(t *testing.T) {
	path := writeTestDict(t, "apple\t苹果\nfile\t文件\n")
	reg := NewRegistry(path, "")
	require.NoError(t, reg.Load())

	assert.Equal(t, 2, reg.Len())

	res := reg.Translate("Apple", LangZH)
	assert.Equal(t, &TranslateResult{Query: "Apple", Lang: LangZH, Found: true, Translation: "苹果"}, res)

	res = reg.Translate("pear", LangZH)
	assert.False(t, res.Found)
	assert.Empty(t, res.Translation)

	res = reg.TranslateIdentifier("openFile", LangZH)
	assert.True(t, res.Found)
	assert.Equal(t, "file → 文件", res.Translation)
}

func TestRegistry_EmptyBeforeLoad(t *testing.T) {
	reg := NewRegistry(filepath.Join(t.TempDir(), "missing.dict"), "")
	assert.Equal(t, 0, reg.Len())
	assert.False(t, reg.Translate("apple", LangZH).Found)
	assert.Error(t, reg.Load())
}

func TestRegistry_Reload(t *testing.T) {
	path := writeTestDict(t, "apple\t苹果\n")
	reg := NewRegistry(path, "")
	require.NoError(t, reg.Load())
	require.Equal(t, 1, reg.Len())

	require.NoError(t, os.WriteFile(path, []byte("apple\t苹果\npear\t梨\n"), 0o644))
	require.NoError(t, reg.Reload())
	assert.Equal(t, 2, reg.Len())
	assert.True(t, reg.Translate("pear", LangZH).Found)
}

func TestRegistry_FailedReloadKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en_zh.dict")
	require.NoError(t, os.WriteFile(path, []byte("apple\t苹果\n"), 0o644))

	reg := NewRegistry(path, "")
	require.NoError(t, reg.Load())
	require.NoError(t, os.Remove(path))

	assert.Error(t, reg.Reload())
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_Manifest(t *testing.T) {
	dir := t.TempDir()
	dictPath := filepath.Join(dir, "en_zh.dict")
	manifestPath := filepath.Join(dir, "en_zh.yaml")
	require.NoError(t, os.WriteFile(dictPath, []byte("apple\t苹果\n"), 0o644))
	require.NoError(t, WriteManifest(manifestPath, &Manifest{ID: "en_zh", Source: "ecdict-csv", DataFile: "en_zh.dict"}))

	reg := NewRegistry(dictPath, manifestPath)
	require.NoError(t, reg.Load())

	info := reg.Info()
	assert.Equal(t, dictPath, info.Path)
	assert.Equal(t, 1, info.Entries)
	require.NotNil(t, info.Manifest)
	assert.Equal(t, "ecdict-csv", info.Manifest.Source)
}

func TestRegistry_MissingManifestIsIgnored(t *testing.T) {
	path := writeTestDict(t, "apple\t苹果\n")
	reg := NewRegistry(path, filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, reg.Load())
	assert.Nil(t, reg.Info().Manifest)
}

func TestRegistry_ConcurrentReads(t *testing.T) {
	path := writeTestDict(t, "apple\t苹果\n")
	reg := NewRegistry(path, "")
	require.NoError(t, reg.Load())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				reg.Translate("apple", LangZH)
			}
		}()
	}
	for i := 0; i < 5; i++ {
		require.NoError(t, reg.Reload())
	}
	wg.Wait()
	assert.Equal(t, 1, reg.Len())
}
