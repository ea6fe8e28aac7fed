package fonts

import (
	"os"
	"path/filepath"
	"strings"
)

// Extensions we consider as font files.
var Exts = []string{".ttf", ".otf"}

// BaseDirs returns candidate base directories for fonts (relative to process cwd).
func BaseDirs() []string {
	return []string{"assets/fonts", "../../assets/fonts"}
}

// ScanDir returns relative paths of all font files under dir (e.g. "Inter/Inter-Regular.ttf").
// Paths use forward slashes. Only .ttf and .otf are included. A missing dir yields no paths.
func ScanDir(dir string) ([]string, error) {
	var out []string
	dir = filepath.Clean(dir)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() || !isFont(path) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, filepath.ToSlash(rel))
		return nil
	})
	return out, err
}

func isFont(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Exts {
		if ext == e {
			return true
		}
	}
	return false
}

// normalizeForMatch lowercases and removes spaces, dashes, and underscores for fuzzy matching.
func normalizeForMatch(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}

// Find resolves the UI font setting to a file. name may be a path to an existing font file, or a family
// or file name searched under dirs (BaseDirs when none are given): "Inter", "Open Sans", "Inter-Bold".
// When several files match, one whose path contains "Regular" wins.
func Find(name string, dirs ...string) (string, error) {
	name = strings.TrimSpace(name)
	if isFont(name) {
		if _, err := os.Stat(name); err == nil {
			return name, nil
		}
		name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	norm := normalizeForMatch(name)
	if norm == "" {
		return "", os.ErrNotExist
	}
	if len(dirs) == 0 {
		dirs = BaseDirs()
	}
	var matches []struct{ rel, full string }
	for _, base := range dirs {
		list, err := ScanDir(base)
		if err != nil {
			continue
		}
		for _, rel := range list {
			if strings.Contains(normalizeForMatch(rel), norm) {
				matches = append(matches, struct{ rel, full string }{rel, filepath.Join(base, filepath.FromSlash(rel))})
			}
		}
	}
	if len(matches) == 0 {
		return "", os.ErrNotExist
	}
	for _, m := range matches {
		if strings.Contains(strings.ToLower(m.rel), "regular") {
			return m.full, nil
		}
	}
	return matches[0].full, nil
}
