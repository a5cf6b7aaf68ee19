// Package content resolves request paths to files under a web root and
// turns them into complete HTTP/1.1 responses.
//
// A Content value is built once per request and never modified afterwards;
// compressing it returns a new value. Bodies are always fully buffered in
// memory.
package content

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// IndexFile is served for the "/" path.
	IndexFile = "index.html"
	// NotFoundFile is served, with status 404, when the requested file
	// does not exist.
	NotFoundFile = "404.html"

	notFoundType = "text/html"
)

// ErrNotFoundPageMissing is returned when a file is not found and the web
// root has no 404.html to answer with.
var ErrNotFoundPageMissing = errors.New("not found page missing from web root")

// Encoding is the transfer encoding of a response body.
type Encoding int

const (
	Plain Encoding = iota
	Gzip
)

func (e Encoding) String() string {
	switch e {
	case Gzip:
		return "gzip"
	default:
		return "identity"
	}
}

// Content is the resolved response for one request.
type Content struct {
	Status   int
	Type     string
	Body     []byte
	Encoding Encoding
	// File is the requested file name relative to the web root, as used in
	// the access log.
	File string
	// Source is the path of the file the body was read from and ModTime
	// its modification time.
	Source  string
	ModTime time.Time
}

// Resolve maps a request path to a file under root. "/" maps to index.html,
// any other path has its leading slash removed. Paths are used as received,
// without percent-decoding. A path that is not a regular file, or that would
// escape root, resolves to the contents of root/404.html with status 404.
func Resolve(root, path string) (*Content, error) {
	name := IndexFile
	if path != "/" {
		name = strings.TrimPrefix(path, "/")
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving web root %s: %w", root, err)
	}

	if full, ok := within(absRoot, name); ok {
		info, err := os.Stat(full)
		if err == nil && info.Mode().IsRegular() {
			body, err := os.ReadFile(full)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", name, err)
			}
			return &Content{
				Status:  http.StatusOK,
				Type:    TypeByExtension(filepath.Ext(full)),
				Body:    body,
				File:    name,
				Source:  full,
				ModTime: info.ModTime(),
			}, nil
		}
	}
	return notFound(absRoot, name)
}

func notFound(absRoot, name string) (*Content, error) {
	full := filepath.Join(absRoot, NotFoundFile)
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFoundPageMissing, full)
		}
		return nil, fmt.Errorf("stat %s: %w", full, err)
	}
	body, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", full, err)
	}
	return &Content{
		Status:  http.StatusNotFound,
		Type:    notFoundType,
		Body:    body,
		File:    name,
		Source:  full,
		ModTime: info.ModTime(),
	}, nil
}

// within joins name to absRoot and reports whether the cleaned result is
// still inside absRoot.
func within(absRoot, name string) (string, bool) {
	full := filepath.Join(absRoot, filepath.FromSlash(name))
	rel, err := filepath.Rel(absRoot, full)
	if err != nil {
		return "", false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return full, true
}
