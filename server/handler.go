package server

import (
	"bufio"
	"fmt"
	"net"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/vocdoni/staticd/accesslog"
	"github.com/vocdoni/staticd/content"
	"github.com/vocdoni/staticd/log"
	"github.com/vocdoni/staticd/request"
)

// handle serves a single request on conn and closes it. Any failure aborts
// the connection without a response; the response is only written once it
// is fully built.
func (s *Server) handle(conn net.Conn) {
	id := uuid.New().String()
	s.stats.connections.Add(1)
	s.stats.active.Add(1)
	defer s.stats.active.Add(-1)
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debugw("failed to close connection", "requestID", id, "error", err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			s.stats.aborted.Add(1)
			log.Errorw(fmt.Errorf("%v", r), "connection handler panic: "+string(debug.Stack()))
		}
	}()

	if err := s.serve(conn, id); err != nil {
		s.stats.aborted.Add(1)
		log.Warnw("connection aborted",
			"requestID", id,
			"remote", conn.RemoteAddr().String(),
			"error", err.Error())
	}
}

// serve runs the request pipeline: parse, resolve, negotiate, respond and
// record. A malformed request is not an error, the connection is just
// closed.
func (s *Server) serve(conn net.Conn, id string) error {
	if s.conf.ReadTimeout > 0 {
		if err := conn.SetReadDeadline(time.Now().Add(s.conf.ReadTimeout)); err != nil {
			return fmt.Errorf("setting read deadline: %w", err)
		}
	}
	res, err := request.Parse(bufio.NewReader(conn))
	if err != nil {
		return err
	}
	if !res.Valid() {
		s.stats.malformed.Add(1)
		log.Debugw("invalid request line",
			"requestID", id,
			"remote", conn.RemoteAddr().String(),
			"reason", res.Malformed,
			"line", res.Line)
		return nil
	}
	req := res.Request

	ct, err := content.Resolve(s.conf.WebRoot, req.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", req.Path, err)
	}
	if req.AcceptsGzip() {
		if ct, err = s.gzip.Gzip(ct); err != nil {
			return err
		}
	}

	if s.conf.WriteTimeout > 0 {
		if err := conn.SetWriteDeadline(time.Now().Add(s.conf.WriteTimeout)); err != nil {
			return fmt.Errorf("setting write deadline: %w", err)
		}
	}
	n, err := ct.WriteTo(conn)
	if err != nil {
		return fmt.Errorf("writing response: %w", err)
	}
	s.stats.served(ct.Status, ct.Encoding == content.Gzip, n)
	log.Debugw("request served",
		"requestID", id,
		"method", req.Method,
		"path", req.Path,
		"status", ct.Status,
		"encoding", ct.Encoding.String(),
		"bytes", n)

	rec := &accesslog.Record{
		Time:      time.Now(),
		RequestID: id,
		ClientIP:  clientIP(conn.RemoteAddr()),
		Method:    req.Method,
		File:      ct.File,
		Query:     req.Query,
		Body:      req.Body,
	}
	if err := s.sink.Write(rec); err != nil {
		log.Warnw("failed to write access log", "requestID", id, "error", err.Error())
	}
	return nil
}

// clientIP returns the IP part of a remote address.
func clientIP(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok {
		return tcp.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
