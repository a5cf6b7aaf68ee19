package api

import (
	"time"

	"github.com/vocdoni/staticd/server"
)

// StatsResponse is returned by the stats endpoint.
type StatsResponse struct {
	server.StatsSnapshot
	Uptime string `json:"uptime"`
}

// InfoResponse describes the running file server.
type InfoResponse struct {
	Version   string    `json:"version"`
	WebRoot   string    `json:"webRoot"`
	StartTime time.Time `json:"startTime"`
	Uptime    string    `json:"uptime"`
}
