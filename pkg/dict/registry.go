package dict

import (
	"fmt"
	"os"
	"sync"
)

// Registry holds the currently loaded dictionary and serves lookups.
// Reload swaps the dictionary atomically, so queries never see a partial load.
type Registry struct {
	mu           sync.RWMutex
	dict         *Dictionary
	dictPath     string
	manifestPath string
}

// NewRegistry creates an empty registry for a dictionary file. manifestPath may be
// empty; a missing manifest file is not an error.
func NewRegistry(dictPath, manifestPath string) *Registry {
	return &Registry{
		dict:         NewDictionary(),
		dictPath:     dictPath,
		manifestPath: manifestPath,
	}
}

// Load reads the dictionary file (and manifest, if present) from disk.
func (r *Registry) Load() error {
	d, err := LoadDictionary(r.dictPath)
	if err != nil {
		return err
	}
	if r.manifestPath != "" {
		if _, err := os.Stat(r.manifestPath); err == nil {
			m, err := LoadManifest(r.manifestPath)
			if err != nil {
				return fmt.Errorf("load manifest: %w", err)
			}
			d.Manifest = m
		}
	}

	r.mu.Lock()
	r.dict = d
	r.mu.Unlock()
	return nil
}

// Reload reloads the dictionary from disk (hot reload).
func (r *Registry) Reload() error {
	return r.Load()
}

// TranslateResult is the response for a single lookup.
type TranslateResult struct {
	Query       string `json:"query"`
	Lang        Lang   `json:"lang"`
	Found       bool   `json:"found"`
	Translation string `json:"translation,omitempty"`
}

// Translate looks up a single word.
func (r *Registry) Translate(word string, lang Lang) *TranslateResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.dict.Translate(word, lang)
	return &TranslateResult{Query: word, Lang: lang, Found: ok, Translation: t}
}

// TranslateIdentifier looks up a code identifier part by part.
func (r *Registry) TranslateIdentifier(ident string, lang Lang) *TranslateResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.dict.TranslateIdentifier(ident, lang)
	return &TranslateResult{Query: ident, Lang: lang, Found: ok, Translation: t}
}

// Info is the public metadata of the loaded dictionary.
type Info struct {
	Path     string    `json:"path"`
	Entries  int       `json:"entries"`
	Manifest *Manifest `json:"manifest,omitempty"`
}

// Info describes the loaded dictionary.
func (r *Registry) Info() Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return Info{Path: r.dictPath, Entries: r.dict.Len(), Manifest: r.dict.Manifest}
}

// Len returns the number of loaded entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dict.Len()
}
