package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/staticd/api"
	"github.com/vocdoni/staticd/internal/testutil"
	"github.com/vocdoni/staticd/server"
)

func TestHTTPDAndAPIServices(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	webRoot := filepath.Join(dir, "www")
	logDir := filepath.Join(dir, "logs")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	httpd := NewHTTPD(server.Config{
		Host:        "127.0.0.1",
		WebRoot:     webRoot,
		ReadTimeout: 5 * time.Second,
	}, logDir)
	c.Assert(httpd.Start(ctx), qt.IsNil)
	defer httpd.Stop()
	c.Assert(httpd.Start(ctx), qt.ErrorMatches, "service already running")

	// the web root was provisioned with the default pages
	_, err := os.Stat(filepath.Join(webRoot, "404.html"))
	c.Assert(err, qt.IsNil)

	data, err := testutil.RawRequest(httpd.Server.Addr().String(), "GET /?from=test HTTP/1.1\r\n\r\n")
	c.Assert(err, qt.IsNil)
	resp, err := testutil.ParseResponse(data)
	c.Assert(err, qt.IsNil)
	c.Assert(resp.StatusCode, qt.Equals, http.StatusOK)
	c.Assert(string(resp.Body), qt.Contains, "It works!")

	apiSrv := NewAPI(httpd.Server, "127.0.0.1", 0, "test", true)
	c.Assert(apiSrv.Start(ctx), qt.IsNil)
	defer apiSrv.Stop()

	statsResp, err := http.Get(fmt.Sprintf("http://%s%s", apiSrv.API.Addr(), api.StatsEndpoint))
	c.Assert(err, qt.IsNil)
	defer statsResp.Body.Close()
	var stats api.StatsResponse
	c.Assert(json.NewDecoder(statsResp.Body).Decode(&stats), qt.IsNil)
	c.Assert(stats.OK, qt.Equals, int64(1))

	httpd.Stop()
	entries, err := os.ReadDir(logDir)
	c.Assert(err, qt.IsNil)
	c.Assert(entries, qt.HasLen, 1)
	line, err := os.ReadFile(filepath.Join(logDir, entries[0].Name()))
	c.Assert(err, qt.IsNil)
	c.Assert(strings.TrimSpace(string(line)), qt.Matches, `.* \| IP: 127\.0\.0\.1 \| Method: GET \| File: index\.html \| Query: from=test`)

	// stopping twice is harmless and the service can start again
	httpd.Stop()
	c.Assert(httpd.Start(ctx), qt.IsNil)
}
