package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vocdoni/staticd/config"
	"github.com/vocdoni/staticd/log"
)

// Provision prepares root for serving: it creates the directory if needed
// and writes the default index.html and 404.html pages when they are
// missing. Existing files are never overwritten.
func Provision(root string) error {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return fmt.Errorf("creating web root %s: %w", root, err)
	}
	defaults := []struct {
		name string
		body string
	}{
		{IndexFile, config.DefaultIndexPage},
		{NotFoundFile, config.DefaultNotFoundPage},
	}
	for _, d := range defaults {
		path := filepath.Join(root, d.name)
		_, err := os.Stat(path)
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if err := os.WriteFile(path, []byte(d.body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		log.Infow("created default page", "file", path)
	}
	return nil
}
