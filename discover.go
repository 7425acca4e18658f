package dxstyles

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"

	"github.com/yacobolo/dxstyles/internal/watch"
)

// DiscoverFiles expands the include patterns under sourceDir into the
// list of component files entering the pipeline, with statistics about
// what was filtered out.
func DiscoverFiles(sourceDir string, includes []string) ([]string, ScanStats, error) {
	var allFiles []string
	seen := make(map[string]bool)
	stats := ScanStats{}
	gi := loadGitIgnore(sourceDir)

	for _, pattern := range includes {
		matches, err := doublestar.FilepathGlob(filepath.Join(sourceDir, pattern))
		if err != nil {
			return nil, stats, err
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			seen[match] = true

			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(match, sourceDir, gi) {
				stats.FilesSkipped++
			} else {
				allFiles = append(allFiles, match)
				stats.FilesScanned++
			}
		}
	}

	sort.Strings(allFiles)
	return allFiles, stats, nil
}

// shouldSkipFile determines whether a discovered file is excluded from
// processing.
//
// Two-layer filtering:
// 1. Transient check (fast): editor temp and swap artifacts
// 2. Gitignore check: files matched by the project's .gitignore
func shouldSkipFile(path, sourceDir string, gi *ignore.GitIgnore) bool {
	if watch.IsTransient(path) {
		return true
	}

	if gi != nil {
		// Gitignore patterns are relative to the source root.
		if rel, err := filepath.Rel(sourceDir, path); err == nil {
			if gi.MatchesPath(rel) {
				return true
			}
		}
	}

	return false
}

// loadGitIgnore loads sourceDir/.gitignore, gracefully degrading to nil
// when the project has none.
func loadGitIgnore(sourceDir string) *ignore.GitIgnore {
	gi, err := ignore.CompileIgnoreFile(filepath.Join(sourceDir, ".gitignore"))
	if err != nil {
		return nil
	}
	return gi
}

// uniqueDirs returns the sorted set of parent directories of paths.
func uniqueDirs(paths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, p := range paths {
		dir := filepath.Dir(p)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
