package testutil

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"net/http"
	"time"
)

// RawRequest dials addr, writes raw, half-closes the connection and returns
// everything the server sends back until it closes the connection.
func RawRequest(addr, raw string) ([]byte, error) {
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, err
	}
	defer conn.Close()
	if err := conn.SetDeadline(time.Now().Add(10 * time.Second)); err != nil {
		return nil, err
	}
	if _, err := io.WriteString(conn, raw); err != nil {
		return nil, err
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		if err := tcp.CloseWrite(); err != nil {
			return nil, err
		}
	}
	return io.ReadAll(conn)
}

// Response is a parsed raw response with its body fully read.
type Response struct {
	*http.Response
	Body []byte
}

// ParseResponse parses a complete HTTP/1.1 response. Bodies are returned as
// sent, gzip encoded bodies are not decompressed.
func ParseResponse(data []byte) (*Response, error) {
	resp, err := http.ReadResponse(bufio.NewReader(bytes.NewReader(data)), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Response: resp, Body: body}, nil
}
