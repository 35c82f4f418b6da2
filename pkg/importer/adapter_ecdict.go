package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// CSVName is the file name every adapter leaves in its destination directory.
const CSVName = "ecdict.csv"

const ecdictLicense = "MIT"

func init() {
	Register(&ecdictCSVAdapter{})
	Register(&ecdictZIPAdapter{member: "ECDICT-master/ecdict.csv"})
}

// ecdictCSVAdapter downloads the raw CSV straight from the repository.
type ecdictCSVAdapter struct{}

func (a *ecdictCSVAdapter) ID() string { return "ecdict-csv" }
func (a *ecdictCSVAdapter) Description() string {
	return "ECDICT English-Chinese dictionary (raw CSV)"
}
func (a *ecdictCSVAdapter) DefaultURL() string {
	return "https://raw.githubusercontent.com/skywind3000/ECDICT/master/ecdict.csv"
}
func (a *ecdictCSVAdapter) License() string { return ecdictLicense }

func (a *ecdictCSVAdapter) Fetch(ctx context.Context, sourceURL, destDir string) (string, int64, error) {
	if err := ensureDir(destDir); err != nil {
		return "", 0, err
	}
	csvPath := filepath.Join(destDir, CSVName)
	n, err := downloadFile(ctx, sourceURL, csvPath)
	if err != nil {
		os.Remove(csvPath)
		return "", 0, fmt.Errorf("download: %w", err)
	}
	return csvPath, n, nil
}

// ecdictZIPAdapter downloads the repository archive and extracts the CSV member.
type ecdictZIPAdapter struct {
	member string
}

func (a *ecdictZIPAdapter) ID() string { return "ecdict-zip" }
func (a *ecdictZIPAdapter) Description() string {
	return "ECDICT English-Chinese dictionary (repository ZIP archive)"
}
func (a *ecdictZIPAdapter) DefaultURL() string {
	return "https://github.com/skywind3000/ECDICT/archive/refs/heads/master.zip"
}
func (a *ecdictZIPAdapter) License() string { return ecdictLicense }

// Fetch reports the size of the extracted CSV, not of the archive.
func (a *ecdictZIPAdapter) Fetch(ctx context.Context, sourceURL, destDir string) (string, int64, error) {
	if err := ensureDir(destDir); err != nil {
		return "", 0, err
	}
	zipPath := filepath.Join(destDir, "ecdict.zip")
	defer os.Remove(zipPath)

	if _, err := downloadFile(ctx, sourceURL, zipPath); err != nil {
		return "", 0, fmt.Errorf("download: %w", err)
	}

	csvPath := filepath.Join(destDir, CSVName)
	n, err := extractZipMember(zipPath, a.member, csvPath)
	if err != nil {
		os.Remove(csvPath)
		return "", 0, fmt.Errorf("unzip: %w", err)
	}
	return csvPath, n, nil
}
