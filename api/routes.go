package api

// Route constants for the API endpoints

const (
	// Health endpoints
	PingEndpoint = "/ping" // GET: Health check endpoint

	// File server endpoints
	StatsEndpoint = "/stats" // GET: Request counters of the file server
	InfoEndpoint  = "/info"  // GET: Version, web root and uptime
)

// LogExcludedPrefixes defines URL prefixes to exclude from request logging
var LogExcludedPrefixes = []string{
	PingEndpoint,
}
