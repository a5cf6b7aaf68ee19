package server

import (
	"net/http"
	"sync/atomic"
)

// Stats counts what the server has done since it started. It is updated by
// every connection handler and safe for concurrent use.
type Stats struct {
	connections atomic.Int64
	active      atomic.Int64
	ok          atomic.Int64
	notFound    atomic.Int64
	malformed   atomic.Int64
	aborted     atomic.Int64
	gzipped     atomic.Int64
	bytesSent   atomic.Int64
}

// StatsSnapshot is a point in time copy of Stats.
type StatsSnapshot struct {
	Connections int64 `json:"connections"`
	Active      int64 `json:"active"`
	OK          int64 `json:"ok"`
	NotFound    int64 `json:"notFound"`
	Malformed   int64 `json:"malformed"`
	Aborted     int64 `json:"aborted"`
	Gzipped     int64 `json:"gzipped"`
	BytesSent   int64 `json:"bytesSent"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		Connections: s.connections.Load(),
		Active:      s.active.Load(),
		OK:          s.ok.Load(),
		NotFound:    s.notFound.Load(),
		Malformed:   s.malformed.Load(),
		Aborted:     s.aborted.Load(),
		Gzipped:     s.gzipped.Load(),
		BytesSent:   s.bytesSent.Load(),
	}
}

func (s *Stats) served(status int, gzipped bool, n int64) {
	switch status {
	case http.StatusOK:
		s.ok.Add(1)
	case http.StatusNotFound:
		s.notFound.Add(1)
	}
	if gzipped {
		s.gzipped.Add(1)
	}
	s.bytesSent.Add(n)
}
