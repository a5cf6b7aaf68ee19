package content

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/staticd/internal/testutil"
)

func gunzip(c *qt.C, data []byte) []byte {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	c.Assert(err, qt.IsNil)
	out, err := io.ReadAll(zr)
	c.Assert(err, qt.IsNil)
	return out
}

func TestEncodePlain(t *testing.T) {
	c := qt.New(t)

	ct := &Content{Status: http.StatusOK, Type: "text/plain", Body: []byte("hello")}
	c.Assert(string(ct.Encode()), qt.Equals,
		"HTTP/1.1 200 OK\r\n"+
			"Content-Type: text/plain\r\n"+
			"Content-Length: 5\r\n"+
			"Connection: close\r\n"+
			"\r\n"+
			"hello")

	notFound := &Content{Status: http.StatusNotFound, Type: "text/html", Body: []byte("<p>nope</p>")}
	c.Assert(notFound.Head(), qt.Equals,
		"HTTP/1.1 404 Not Found\r\nContent-Type: text/html\r\nContent-Length: 11\r\nConnection: close\r\n\r\n")
}

func TestGzip(t *testing.T) {
	c := qt.New(t)

	body := bytes.Repeat([]byte("static content compresses well. "), 64)
	plain := &Content{Status: http.StatusOK, Type: "text/plain", Body: body}

	zipped, err := plain.Gzip()
	c.Assert(err, qt.IsNil)
	c.Assert(zipped.Encoding, qt.Equals, Gzip)
	c.Assert(len(zipped.Body) < len(body), qt.IsTrue)
	c.Assert(gunzip(c, zipped.Body), qt.DeepEquals, body)

	// the original value is left untouched
	c.Assert(plain.Encoding, qt.Equals, Plain)
	c.Assert(plain.Body, qt.DeepEquals, body)

	again, err := zipped.Gzip()
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.Equals, zipped)

	empty, err := (&Content{Status: http.StatusOK, Type: "text/plain"}).Gzip()
	c.Assert(err, qt.IsNil)
	c.Assert(gunzip(c, empty.Body), qt.HasLen, 0)
}

func TestEncodeGzipRoundTrip(t *testing.T) {
	c := qt.New(t)

	body := testutil.RandomBytes(4096)
	root := testutil.WebRoot(t, map[string][]byte{"blob.zip": body})
	res, err := Resolve(root, "/blob.zip")
	c.Assert(err, qt.IsNil)
	zipped, err := res.Gzip()
	c.Assert(err, qt.IsNil)

	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(zipped.Encode())), nil)
	c.Assert(err, qt.IsNil)
	defer resp.Body.Close()

	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(resp.Header.Get("Content-Type"), qt.Equals, "application/zip")
	c.Assert(resp.Header.Get("Content-Encoding"), qt.Equals, "gzip")
	c.Assert(resp.ContentLength, qt.Equals, int64(len(zipped.Body)))

	raw, err := io.ReadAll(resp.Body)
	c.Assert(err, qt.IsNil)
	c.Assert(raw, qt.DeepEquals, zipped.Body)
	c.Assert(gunzip(c, raw), qt.DeepEquals, body)
}

func TestWriteToSingleWrite(t *testing.T) {
	c := qt.New(t)

	w := &countingWriter{}
	ct := &Content{Status: http.StatusOK, Type: "text/html", Body: []byte(testutil.IndexPage)}
	n, err := ct.WriteTo(w)
	c.Assert(err, qt.IsNil)
	c.Assert(w.writes, qt.Equals, 1)
	c.Assert(n, qt.Equals, int64(w.buf.Len()))
	c.Assert(strings.HasSuffix(w.buf.String(), testutil.IndexPage), qt.IsTrue)
}

type countingWriter struct {
	buf    bytes.Buffer
	writes int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.buf.Write(p)
}

func TestGzipCache(t *testing.T) {
	c := qt.New(t)

	body := bytes.Repeat([]byte("cached "), 128)
	root := testutil.WebRoot(t, map[string][]byte{"page.txt": body})

	cache, err := NewGzipCache(4)
	c.Assert(err, qt.IsNil)

	res, err := Resolve(root, "/page.txt")
	c.Assert(err, qt.IsNil)
	first, err := cache.Gzip(res)
	c.Assert(err, qt.IsNil)
	c.Assert(cache.Len(), qt.Equals, 1)

	res, err = Resolve(root, "/page.txt")
	c.Assert(err, qt.IsNil)
	second, err := cache.Gzip(res)
	c.Assert(err, qt.IsNil)
	c.Assert(cache.Len(), qt.Equals, 1)
	c.Assert(second.Body, qt.DeepEquals, first.Body)
	c.Assert(gunzip(c, second.Body), qt.DeepEquals, body)

	// a changed file gets its own entry
	testutil.WriteFile(t, root, "page.txt", []byte("short"))
	res, err = Resolve(root, "/page.txt")
	c.Assert(err, qt.IsNil)
	third, err := cache.Gzip(res)
	c.Assert(err, qt.IsNil)
	c.Assert(string(gunzip(c, third.Body)), qt.Equals, "short")
	c.Assert(cache.Len(), qt.Equals, 2)

	_, err = NewGzipCache(0)
	c.Assert(err, qt.IsNotNil)

	var disabled *GzipCache
	out, err := disabled.Gzip(res)
	c.Assert(err, qt.IsNil)
	c.Assert(out.Encoding, qt.Equals, Gzip)
	c.Assert(disabled.Len(), qt.Equals, 0)
}
