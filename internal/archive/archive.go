// Package archive unpacks zip bundles of stills into a source folder.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoImages is returned when a bundle holds no file with one of the accepted extensions.
var ErrNoImages = errors.New("archive: no images in bundle")

// ExtractImages copies every file in zipPath whose extension is in exts (lowercase, with the dot) into destDir.
// A source folder is flat, so directories inside the bundle are dropped and only base names are kept;
// a later entry with the same name replaces an earlier one. Hidden files and macOS resource forks are skipped.
// destDir is created if needed. Returns the written paths in bundle order.
func ExtractImages(zipPath, destDir string, exts []string) (extracted []string, err error) {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("archive: %w", err)
	}
	seen := make(map[string]bool)
	for _, f := range r.File {
		if f.FileInfo().IsDir() || strings.HasPrefix(f.Name, "__MACOSX/") {
			continue
		}
		name := filepath.Base(filepath.FromSlash(f.Name))
		if strings.HasPrefix(name, ".") || !hasExt(name, exts) {
			continue
		}
		dest := filepath.Join(destDir, name)
		if err := extract(f, dest); err != nil {
			return extracted, err
		}
		if !seen[dest] {
			seen[dest] = true
			extracted = append(extracted, dest)
		}
	}
	if len(extracted) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoImages, zipPath)
	}
	return extracted, nil
}

func hasExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// extract writes f next to dest under a temporary name and renames it into place, so a watcher on the
// folder only ever sees complete images.
func extract(f *zip.File, dest string) error {
	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("archive: %s: %w", f.Name, err)
	}
	defer rc.Close()
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".unpack-*")
	if err != nil {
		return fmt.Errorf("archive: %w", err)
	}
	if _, err := io.Copy(tmp, rc); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("archive: %s: %w", f.Name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("archive: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("archive: %w", err)
	}
	return nil
}
