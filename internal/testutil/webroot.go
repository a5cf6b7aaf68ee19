package testutil

import (
	"crypto/rand"
	"os"
	"path/filepath"
	"testing"
)

const (
	// IndexPage and NotFoundPage are the bodies written by WebRoot.
	IndexPage    = "<html><body>index</body></html>"
	NotFoundPage = "<html><body>not found</body></html>"
)

// WebRoot creates a temporary web root with index.html and 404.html plus the
// given extra files, keyed by slash separated path relative to the root.
func WebRoot(t testing.TB, files map[string][]byte) string {
	t.Helper()
	root := t.TempDir()
	WriteFile(t, root, "index.html", []byte(IndexPage))
	WriteFile(t, root, "404.html", []byte(NotFoundPage))
	for name, data := range files {
		WriteFile(t, root, name, data)
	}
	return root
}

// WriteFile writes data to root/name, creating parent directories.
func WriteFile(t testing.TB, root, name string, data []byte) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory for %s: %v", name, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

// RandomBytes returns n random bytes.
func RandomBytes(n int) []byte {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
