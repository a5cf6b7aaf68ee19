package api

import (
	"net/http"
	"path/filepath"
	"time"
)

// stats returns the request counters of the file server
// GET /stats
func (a *API) stats(w http.ResponseWriter, _ *http.Request) {
	httpWriteJSON(w, &StatsResponse{
		StatsSnapshot: a.files.Stats(),
		Uptime:        a.uptime(),
	})
}

// info returns the version and web root of the file server
// GET /info
func (a *API) info(w http.ResponseWriter, _ *http.Request) {
	webRoot, err := filepath.Abs(a.files.WebRoot())
	if err != nil {
		ErrGenericInternalServerError.Withf("could not resolve web root: %v", err).Write(w)
		return
	}
	httpWriteJSON(w, &InfoResponse{
		Version:   a.version,
		WebRoot:   webRoot,
		StartTime: a.started,
		Uptime:    a.uptime(),
	})
}

func (a *API) uptime() string {
	return time.Since(a.started).Truncate(time.Second).String()
}
