package content

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// Head returns the status line and headers of the response, including the
// blank line that separates them from the body.
func (c *Content) Head() string {
	var b bytes.Buffer
	c.writeHead(&b)
	return b.String()
}

func (c *Content) writeHead(b *bytes.Buffer) {
	b.WriteString("HTTP/1.1 ")
	b.WriteString(strconv.Itoa(c.Status))
	if reason := http.StatusText(c.Status); reason != "" {
		b.WriteByte(' ')
		b.WriteString(reason)
	}
	b.WriteString("\r\nContent-Type: ")
	b.WriteString(c.Type)
	if c.Encoding == Gzip {
		b.WriteString("\r\nContent-Encoding: gzip")
	}
	b.WriteString("\r\nContent-Length: ")
	b.WriteString(strconv.Itoa(len(c.Body)))
	b.WriteString("\r\nConnection: close\r\n\r\n")
}

// Encode returns the complete response, head followed by body.
func (c *Content) Encode() []byte {
	var b bytes.Buffer
	b.Grow(128 + len(c.Body))
	c.writeHead(&b)
	b.Write(c.Body)
	return b.Bytes()
}

// WriteTo writes the complete response to w with a single Write call, so
// the head is never sent without its body.
func (c *Content) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(c.Encode())
	return int64(n), err
}
