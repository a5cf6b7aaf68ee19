// Package accesslog records one entry per handled request.
//
// Records are handed to a Sink. DailyFile appends them as text lines to one
// file per calendar day and serialises concurrent writers, so a record is
// never interleaved with another one.
package accesslog

import (
	"net/url"
	"strings"
	"time"
)

// TimeFormat is the layout of the timestamp at the start of each line.
const TimeFormat = "15:04:05"

// Record describes a single handled request.
type Record struct {
	Time      time.Time
	RequestID string
	ClientIP  string
	Method    string
	File      string // requested file, relative to the web root
	Query     string // raw query string, still percent-encoded
	Body      []byte
}

// DecodedQuery returns the query string with percent-encoding removed. When
// the query is not validly encoded it is returned as received.
func (r *Record) DecodedQuery() string {
	q, err := url.QueryUnescape(r.Query)
	if err != nil {
		return r.Query
	}
	return q
}

var lineEscaper = strings.NewReplacer("\r", `\r`, "\n", `\n`)

// Line renders the record as a single line without trailing newline:
//
//	15:04:05 | IP: 127.0.0.1 | Method: GET | File: index.html | Query: a=b | Body: data
//
// Query and Body are only present when not empty. Line breaks inside values
// are escaped.
func (r *Record) Line() string {
	var b strings.Builder
	b.WriteString(r.Time.Format(TimeFormat))
	b.WriteString(" | IP: ")
	b.WriteString(r.ClientIP)
	b.WriteString(" | Method: ")
	b.WriteString(lineEscaper.Replace(r.Method))
	b.WriteString(" | File: ")
	b.WriteString(lineEscaper.Replace(r.File))
	if q := r.DecodedQuery(); q != "" {
		b.WriteString(" | Query: ")
		b.WriteString(lineEscaper.Replace(q))
	}
	if len(r.Body) > 0 {
		b.WriteString(" | Body: ")
		b.WriteString(lineEscaper.Replace(string(r.Body)))
	}
	return b.String()
}
