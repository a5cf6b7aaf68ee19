package content

import (
	"bytes"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/klauspost/compress/gzip"
)

// Gzip returns a copy of c with its body gzip compressed at the fastest
// level. Content that is already compressed is returned unchanged.
func (c *Content) Gzip() (*Content, error) {
	if c.Encoding == Gzip {
		return c, nil
	}
	body, err := compress(c.Body)
	if err != nil {
		return nil, err
	}
	return c.withGzipBody(body), nil
}

func (c *Content) withGzipBody(body []byte) *Content {
	out := *c
	out.Body = body
	out.Encoding = Gzip
	return &out
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestSpeed)
	if err != nil {
		return nil, fmt.Errorf("creating gzip writer: %w", err)
	}
	if _, err := zw.Write(data); err != nil {
		return nil, fmt.Errorf("compressing body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compressing body: %w", err)
	}
	return buf.Bytes(), nil
}

type gzipKey struct {
	source  string
	size    int
	modTime int64
}

// GzipCache keeps the compressed bodies of recently served files so that an
// unchanged file is not compressed again on every request. Entries are keyed
// by source path, size and modification time. It is safe for concurrent use
// and a nil *GzipCache compresses without caching.
type GzipCache struct {
	cache *lru.Cache[gzipKey, []byte]
}

// NewGzipCache returns a cache holding up to size compressed bodies.
func NewGzipCache(size int) (*GzipCache, error) {
	cache, err := lru.New[gzipKey, []byte](size)
	if err != nil {
		return nil, fmt.Errorf("creating gzip cache: %w", err)
	}
	return &GzipCache{cache: cache}, nil
}

// Gzip behaves like c.Gzip but reuses a cached body when possible.
func (gc *GzipCache) Gzip(c *Content) (*Content, error) {
	if gc == nil || c.Encoding == Gzip || c.Source == "" {
		return c.Gzip()
	}
	key := gzipKey{source: c.Source, size: len(c.Body), modTime: c.ModTime.UnixNano()}
	if body, ok := gc.cache.Get(key); ok {
		return c.withGzipBody(body), nil
	}
	out, err := c.Gzip()
	if err != nil {
		return nil, err
	}
	gc.cache.Add(key, out.Body)
	return out, nil
}

// Len returns the number of cached bodies.
func (gc *GzipCache) Len() int {
	if gc == nil {
		return 0
	}
	return gc.cache.Len()
}
