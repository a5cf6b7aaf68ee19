package request

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrShortBody is returned when the connection ends before the number of
// body bytes declared by Content-Length has been read.
var ErrShortBody = fmt.Errorf("request body shorter than Content-Length: %w", io.ErrUnexpectedEOF)

// Reasons reported in Result.Malformed.
const (
	MalformedClosed      = "connection closed before request line"
	MalformedTokens      = "request line has fewer than 3 tokens"
	MalformedEmptyMethod = "empty method"
	MalformedTarget      = "request target does not start with /"
)

// Result is the outcome of parsing a request. Exactly one of Request or
// Malformed is set.
type Result struct {
	Request   *Request
	Malformed string // reason the request was rejected, empty when valid
	Line      string // raw request line, kept for diagnostics
}

// Valid reports whether a request was parsed.
func (r *Result) Valid() bool {
	return r.Malformed == "" && r.Request != nil
}

func malformed(reason, line string) *Result {
	return &Result{Malformed: reason, Line: line}
}

// Parse reads one request from rd. Malformed input yields a Result with the
// Malformed reason set and a nil error. A non-nil error means the connection
// failed (read error or short body) and the request must be dropped.
func Parse(rd *bufio.Reader) (*Result, error) {
	line, err := readLine(rd)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("reading request line: %w", err)
	}
	if line == "" && errors.Is(err, io.EOF) {
		return malformed(MalformedClosed, ""), nil
	}

	tokens := strings.Split(line, " ")
	if len(tokens) < 3 {
		return malformed(MalformedTokens, line), nil
	}
	req := &Request{
		Method:  tokens[0],
		Target:  tokens[1],
		Version: tokens[2],
		Header:  make(Header),
	}
	if req.Method == "" {
		return malformed(MalformedEmptyMethod, line), nil
	}
	if !strings.HasPrefix(req.Target, "/") {
		return malformed(MalformedTarget, line), nil
	}
	req.Path, req.Query = splitTarget(req.Target)

	if err == nil {
		if err := parseHeaders(rd, req.Header); err != nil {
			return nil, err
		}
	}

	if req.Method == MethodPost {
		if n := req.ContentLength(); n > 0 {
			body, err := io.ReadAll(io.LimitReader(rd, n))
			if err != nil {
				return nil, fmt.Errorf("reading request body: %w", err)
			}
			if int64(len(body)) < n {
				return nil, ErrShortBody
			}
			req.Body = body
		}
	}
	return &Result{Request: req, Line: line}, nil
}

// parseHeaders reads header lines until an empty line or the end of the
// stream. Lines without a colon are ignored.
func parseHeaders(rd *bufio.Reader, h Header) error {
	for {
		line, err := readLine(rd)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("reading headers: %w", err)
		}
		if line == "" {
			return nil
		}
		if name, value, ok := strings.Cut(line, ":"); ok {
			h.Set(strings.TrimSpace(name), strings.TrimSpace(value))
		}
		if err != nil {
			return nil
		}
	}
}

// readLine reads up to and including the next LF and returns the line
// without its CRLF or LF terminator. At the end of the stream it returns
// whatever was read together with io.EOF.
func readLine(rd *bufio.Reader) (string, error) {
	line, err := rd.ReadString('\n')
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, err
}
