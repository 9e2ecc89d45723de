// Package artifacts captures screenshots and page-source dumps for
// failing tests and turns them into stable reference URIs. Capture is
// strictly best-effort: a capture failure yields empty references,
// never an error the test lifecycle has to handle.
package artifacts

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Reference locates one stored artifact. URI is what gets threaded
// into the result store as an opaque string.
type Reference struct {
	Path string
	URI  string
}

// Backend abstracts where artifact bytes land. The filesystem backend
// is the only implementation today; an object-store backend can
// replace it without touching callers.
type Backend interface {
	Store(name string, data []byte) (Reference, error)
}

// FilesystemBackend writes artifacts into a dedicated local directory
// and references them as file:// URIs.
type FilesystemBackend struct {
	dir string
}

// NewFilesystemBackend creates the artifact directory if needed.
func NewFilesystemBackend(dir string) (*FilesystemBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create artifact directory: %w", err)
	}
	return &FilesystemBackend{dir: dir}, nil
}

// Store writes the artifact and returns its path and file:// URI.
func (f *FilesystemBackend) Store(name string, data []byte) (Reference, error) {
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Reference{}, fmt.Errorf("failed to write artifact: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	u := url.URL{Scheme: "file", Path: abs}
	return Reference{Path: abs, URI: u.String()}, nil
}

// Cleanup removes artifacts older than the given age. Maintenance
// helper for long-lived CI workspaces; best-effort like everything
// else here.
func (f *FilesystemBackend) Cleanup(olderThan time.Duration) int {
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return 0
	}
	cutoff := time.Now().Add(-olderThan)
	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if os.Remove(filepath.Join(f.dir, e.Name())) == nil {
			removed++
		}
	}
	return removed
}
