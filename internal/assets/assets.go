// Package assets bundles the web files served to report surfaces and the
// shell page, and resolves them against an optional override directory.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:generate sh -c "mkdir -p web/js/vendor && curl -sSfL -o web/js/vendor/echarts.min.js https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"
//go:embed web
var embedded embed.FS

// Bundled returns the embedded web tree (js/, pages/, shell/).
func Bundled() fs.FS {
	sub, err := fs.Sub(embedded, "web")
	if err != nil {
		panic(err)
	}
	return sub
}

// ErrInvalidPath is returned for names that escape the asset tree.
var ErrInvalidPath = errors.New("invalid asset path")

// Store resolves asset names, preferring files in the override directory.
type Store struct {
	bundled     fs.FS
	overrideDir string
}

// NewStore creates a store. overrideDir may be empty.
func NewStore(overrideDir string) *Store {
	return &Store{bundled: Bundled(), overrideDir: overrideDir}
}

// OverrideDir returns the override directory, or "".
func (s *Store) OverrideDir() string {
	return s.overrideDir
}

// Read returns the contents of name, e.g. "pages/graphs.css".
func (s *Store) Read(name string) ([]byte, error) {
	clean, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	if s.overrideDir != "" {
		data, err := os.ReadFile(filepath.Join(s.overrideDir, filepath.FromSlash(clean)))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			log.Printf("[Assets] Failed to read override %s: %v", clean, err)
		}
	}
	data, err := fs.ReadFile(s.bundled, clean)
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", clean, err)
	}
	return data, nil
}

func cleanName(name string) (string, error) {
	name = strings.TrimPrefix(name, "/")
	clean := path.Clean(name)
	if clean == "." || !fs.ValidPath(clean) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}
	return clean, nil
}
