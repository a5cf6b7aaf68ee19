package request

import "strings"

// AcceptsGzip reports whether the Accept-Encoding header mentions gzip. This
// is a plain case-insensitive substring match, quality values are not
// interpreted.
func AcceptsGzip(h Header) bool {
	return strings.Contains(strings.ToLower(h.Get(HeaderAcceptEncoding)), "gzip")
}

// AcceptsGzip reports whether the client accepts gzip encoded responses.
func (r *Request) AcceptsGzip() bool {
	return AcceptsGzip(r.Header)
}
