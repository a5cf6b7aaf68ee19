// Package request parses a single HTTP/1.1 request read from a connection.
//
// Parsing never percent-decodes the target: the path and the query string
// are kept exactly as received. A request line that cannot be understood is
// reported as a malformed Result, not as an error; errors are reserved for
// connection level I/O failures such as a body shorter than its declared
// Content-Length.
package request

import (
	"strconv"
	"strings"
)

// Header names used by the server.
const (
	HeaderContentLength  = "Content-Length"
	HeaderAcceptEncoding = "Accept-Encoding"
)

// MethodPost is the only method whose body is read.
const MethodPost = "POST"

// Header holds request headers keyed by lower-cased name. When a header is
// repeated the last value wins.
type Header map[string]string

// Get returns the value of the named header, matching the name
// case-insensitively.
func (h Header) Get(name string) string {
	return h[strings.ToLower(name)]
}

// Set stores the value for the named header, replacing any previous one.
func (h Header) Set(name, value string) {
	h[strings.ToLower(name)] = value
}

// Request is a parsed HTTP request.
type Request struct {
	Method  string
	Target  string // raw request target, path plus optional query
	Path    string // always starts with "/", still percent-encoded
	Query   string // raw query string without the leading "?"
	Version string
	Header  Header
	Body    []byte
}

// ContentLength returns the declared Content-Length. Missing, unparsable or
// negative values are treated as 0.
func (r *Request) ContentLength() int64 {
	v := strings.TrimSpace(r.Header.Get(HeaderContentLength))
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// splitTarget splits the request target on the first "?".
func splitTarget(target string) (path, query string) {
	path, query, _ = strings.Cut(target, "?")
	return path, query
}
