package main

import (
	"os"
	"path/filepath"
)

const (
	projectMarker  = "build.gradle.kts"
	maxRootLevels  = 5
	defaultDictRel = "src/main/resources/dictionary/en_zh.dict"
)

// findProjectRoot walks up from start looking for the Gradle build file of the
// plugin project, checking at most maxRootLevels directories. It returns start
// when none is found.
func findProjectRoot(start string) string {
	dir := start
	for i := 0; i < maxRootLevels; i++ {
		if _, err := os.Stat(filepath.Join(dir, projectMarker)); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return start
}

// defaultOutput is where the plugin loads its dictionary from.
func defaultOutput(root string) string {
	return filepath.Join(root, filepath.FromSlash(defaultDictRel))
}
