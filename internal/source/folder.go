package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fsnotify/fsnotify"

	"stage-designer/internal/logger"
)

// ImageExts are the still-image file extensions a Folder lists as sources.
var ImageExts = []string{".png", ".jpg", ".jpeg", ".bmp", ".gif", ".qoi"}

// Folder is a Directory backed by a folder of still images, one source per file, named after the file.
// Watch starts an fsnotify watcher that rescans on a worker goroutine; the result reaches the main thread via Poll.
type Folder struct {
	*List
	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// FileBinding is a binding to one image file of a Folder. The renderer loads Path as a texture.
type FileBinding struct {
	src  Source
	Path string
}

// Source returns the bound source.
func (b *FileBinding) Source() Source { return b.src }

// Close is a no-op; the texture is owned by the renderer.
func (b *FileBinding) Close() error { return nil }

// NewFolder scans dir once and returns a Folder listing its images. A missing directory yields an empty list.
func NewFolder(dir string) (*Folder, error) {
	names, err := ScanImages(dir)
	if err != nil {
		return nil, fmt.Errorf("source: scan %s: %w", dir, err)
	}
	return &Folder{List: NewList(names...), dir: filepath.Clean(dir)}, nil
}

// Dir returns the watched directory.
func (f *Folder) Dir() string {
	return f.dir
}

// Open returns a FileBinding to the image at index in the current list.
func (f *Folder) Open(index int) (Binding, error) {
	src, ok := f.Lookup(index)
	if !ok {
		return nil, ErrNoSource
	}
	return &FileBinding{src: src, Path: filepath.Join(f.dir, src.Name)}, nil
}

// Rescan lists the directory again and queues the result for the next Poll.
func (f *Folder) Rescan() error {
	names, err := ScanImages(f.dir)
	if err != nil {
		return err
	}
	f.Set(names...)
	return nil
}

// Watch starts watching the directory for created, removed and renamed files.
// Returns an error if the directory does not exist or the watcher cannot be created.
func (f *Folder) Watch() error {
	if f.watcher != nil {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("source: watcher: %w", err)
	}
	if err := w.Add(f.dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("source: watch %s: %w", f.dir, err)
	}
	f.watcher = w
	f.done = make(chan struct{})
	go f.loop(w, f.done)
	logger.L().Info("watching source folder", "dir", f.dir)
	return nil
}

func (f *Folder) loop(w *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if err := f.Rescan(); err != nil {
				logger.L().Warn("source folder rescan failed", "dir", f.dir, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.L().Warn("source folder watch error", "dir", f.dir, "err", err)
		}
	}
}

// Close stops the watcher, if running, and waits for its goroutine to exit.
func (f *Folder) Close() error {
	if f.watcher == nil {
		return nil
	}
	err := f.watcher.Close()
	<-f.done
	f.watcher = nil
	return err
}

// ScanImages returns the sorted file names of images directly under dir. A missing directory is not an error.
func ScanImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Clean(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, x := range ImageExts {
			if ext == x {
				out = append(out, e.Name())
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}
