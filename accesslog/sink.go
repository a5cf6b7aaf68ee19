package accesslog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vocdoni/staticd/log"
)

// Sink receives access records. Implementations must be safe for concurrent
// use.
type Sink interface {
	Write(rec *Record) error
}

// DayLayout is the date layout used in daily file names.
const DayLayout = "2006-01-02"

// DailyFile appends records to dir/access-YYYY-MM-DD.log, choosing the file
// from the record time. Writes are serialised with a mutex and each record
// is written with a single call.
type DailyFile struct {
	dir string

	mu   sync.Mutex
	day  string
	file *os.File
}

var _ Sink = (*DailyFile)(nil)

// NewDailyFile creates dir if needed and returns a sink writing into it.
func NewDailyFile(dir string) (*DailyFile, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating access log directory %s: %w", dir, err)
	}
	return &DailyFile{dir: dir}, nil
}

// FileName returns the path of the log file holding records of day t.
func (d *DailyFile) FileName(t time.Time) string {
	return filepath.Join(d.dir, "access-"+t.Format(DayLayout)+".log")
}

// Write appends rec to the file of its day.
func (d *DailyFile) Write(rec *Record) error {
	line := []byte(rec.Line() + "\n")
	day := rec.Time.Format(DayLayout)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil || d.day != day {
		if err := d.rotate(rec.Time); err != nil {
			return err
		}
	}
	if _, err := d.file.Write(line); err != nil {
		return fmt.Errorf("writing access log: %w", err)
	}
	return nil
}

// rotate closes the current file and opens the one for day t. Callers must
// hold d.mu.
func (d *DailyFile) rotate(t time.Time) error {
	if d.file != nil {
		if err := d.file.Close(); err != nil {
			log.Warnw("failed to close access log", "file", d.file.Name(), "error", err)
		}
		d.file = nil
	}
	name := d.FileName(t)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening access log %s: %w", name, err)
	}
	d.file = f
	d.day = t.Format(DayLayout)
	log.Debugw("access log opened", "file", name)
	return nil
}

// Close closes the open log file, if any.
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

// LoggerSink sends records to the structured logger at debug level.
type LoggerSink struct{}

var _ Sink = LoggerSink{}

// Write logs rec.
func (LoggerSink) Write(rec *Record) error {
	log.Debugw("access",
		"requestID", rec.RequestID,
		"ip", rec.ClientIP,
		"method", rec.Method,
		"file", rec.File,
		"query", rec.DecodedQuery(),
		"bodyBytes", len(rec.Body),
	)
	return nil
}

// MultiSink writes every record to all of its sinks and joins their errors.
type MultiSink []Sink

var _ Sink = MultiSink(nil)

// Write forwards rec to each sink.
func (m MultiSink) Write(rec *Record) error {
	var errs []error
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
