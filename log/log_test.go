package log_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/vocdoni/staticd/log"
)

func TestLogInitFileOutput(t *testing.T) {
	c := qt.New(t)
	defer log.Init("error", "stderr", nil)

	output := filepath.Join(c.TempDir(), "staticd.log")
	log.Init(log.LogLevelInfo, output, nil)
	c.Assert(log.Level(), qt.Equals, log.LogLevelInfo)

	log.Infow("serving file", "file", "index.html", "status", 200)
	log.Debugw("this is filtered out", "file", "hidden.html")

	data, err := os.ReadFile(output)
	c.Assert(err, qt.IsNil)
	c.Assert(string(data), qt.Contains, "serving file")
	c.Assert(string(data), qt.Contains, "index.html")
	c.Assert(string(data), qt.Not(qt.Contains), "hidden.html")
}

func TestLogErrorOutput(t *testing.T) {
	c := qt.New(t)
	defer log.Init("error", "stderr", nil)

	var errOut bytes.Buffer
	log.Init(log.LogLevelDebug, filepath.Join(c.TempDir(), "main.log"), &errOut)

	log.Info("only in the main output")
	log.Warnw("slow client", "ip", "127.0.0.1")

	c.Assert(errOut.String(), qt.Not(qt.Contains), "only in the main output")
	c.Assert(errOut.String(), qt.Contains, "slow client")
}

func TestValidLevel(t *testing.T) {
	c := qt.New(t)
	for _, level := range []string{"debug", "info", "warn", "error"} {
		c.Assert(log.ValidLevel(level), qt.IsTrue, qt.Commentf("level %s", level))
	}
	c.Assert(log.ValidLevel("trace"), qt.IsFalse)
	c.Assert(log.ValidLevel(""), qt.IsFalse)
}
