package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const defaultUserAgent = "stage-designer/1.0"

// ErrNotImage is returned when the response is not one of the still-image types a source folder lists.
var ErrNotImage = errors.New("download: not an image")

// Client fetches still images into a source folder.
type Client struct {
	HTTP      *http.Client
	UserAgent string
}

// New returns a Client with a 60 second timeout.
func New() *Client {
	return &Client{HTTP: &http.Client{Timeout: 60 * time.Second}, UserAgent: defaultUserAgent}
}

// Image fetches url and saves it under destDir. Filename is derived from Content-Disposition or the URL
// path; extension from Content-Type or the URL. Anything that is not a PNG, JPEG, BMP, GIF or QOI image is
// rejected with ErrNotImage. Returns the path to the saved file. destDir is created if needed.
func (c *Client) Image(ctx context.Context, url string, destDir string) (savedPath string, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("download: HTTP %d", resp.StatusCode)
	}
	ext := extensionFromContentType(resp.Header.Get("Content-Type"))
	if ext == "" {
		ext = extensionFromURL(url)
	}
	if ext == "" {
		return "", fmt.Errorf("%w: %s", ErrNotImage, resp.Header.Get("Content-Type"))
	}
	name := filenameFromContentDisposition(resp.Header.Get("Content-Disposition"))
	if name == "" {
		name = filenameFromURL(url)
	}
	name = sanitizeFilename(strings.TrimSuffix(name, filepath.Ext(name)))
	savedPath = filepath.Join(destDir, name+ext)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	// Written under a temporary name so a folder watcher never lists a half-written image.
	tmp, err := os.CreateTemp(destDir, ".download-*")
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("download: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("download: %w", err)
	}
	if err := os.Rename(tmp.Name(), savedPath); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("download: %w", err)
	}
	return savedPath, nil
}

func filenameFromContentDisposition(cd string) string {
	cd = strings.TrimSpace(cd)
	// filename="..."; or filename*=UTF-8''...
	if i := strings.Index(cd, "filename*=UTF-8''"); i >= 0 {
		s := cd[i+len("filename*=UTF-8''"):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\"")
	}
	if i := strings.Index(cd, "filename="); i >= 0 {
		s := cd[i+len("filename="):]
		if j := strings.IndexAny(s, ";\r\n"); j >= 0 {
			s = s[:j]
		}
		return strings.Trim(s, "\" ")
	}
	return ""
}

var contentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/bmp":  ".bmp",
	"image/gif":  ".gif",
	"image/qoi":  ".qoi",
}

func extensionFromContentType(ct string) string {
	ct = strings.ToLower(strings.TrimSpace(ct))
	if idx := strings.Index(ct, ";"); idx >= 0 {
		ct = strings.TrimSpace(ct[:idx])
	}
	return contentTypes[ct]
}

func extensionFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png", ".jpg", ".jpeg", ".bmp", ".gif", ".qoi":
		return ext
	}
	return ""
}

func filenameFromURL(url string) string {
	path := url
	if idx := strings.IndexAny(path, "?#"); idx >= 0 {
		path = path[:idx]
	}
	base := filepath.Base(path)
	if base == "." || base == "/" {
		return ""
	}
	return base
}

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9_.-]+`)

func sanitizeFilename(name string) string {
	name = strings.Trim(safeNameRe.ReplaceAllString(name, "_"), "._")
	if name == "" {
		return "download"
	}
	if len(name) > 96 {
		name = name[:96]
	}
	return name
}
