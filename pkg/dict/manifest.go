package dict

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Manifest describes one dictionary build: where the data came from and what was written.
// It carries no timestamp: rebuilding unchanged input yields identical bytes.
type Manifest struct {
	ID         string `yaml:"id" json:"id"`
	Source     string `yaml:"source" json:"source"`
	SourceURL  string `yaml:"source_url,omitempty" json:"source_url,omitempty"`
	License    string `yaml:"license,omitempty" json:"license,omitempty"`
	DataFile   string `yaml:"data_file" json:"data_file"`
	MaxEntries int    `yaml:"max_entries,omitempty" json:"max_entries,omitempty"`
	Bytes      int64  `yaml:"bytes" json:"bytes"`
	SHA256     string `yaml:"sha256" json:"sha256"`
	Stats      Stats  `yaml:"stats" json:"stats"`
}

// WriteManifest writes m as YAML to path, creating parent directories.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create manifest dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	if m.ID == "" {
		return nil, fmt.Errorf("manifest %s: missing id", path)
	}
	if m.DataFile == "" {
		m.DataFile = "en_zh.dict"
	}
	return &m, nil
}
