// Package querylog appends answered questions to an append-only CSV log.
// Writes are fire-and-forget from the caller's point of view: a failed write
// must never fail the user-facing answer.
package querylog

import (
	"encoding/csv"
	"os"
	"sync"
	"time"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// Logger records answered questions.
type Logger interface {
	Append(user, question, answer string) error
}

// CSVLog appends records to a CSV file, creating it on first write.
type CSVLog struct {
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewCSVLog creates a CSV query log at the given path.
func NewCSVLog(path string) *CSVLog {
	return &CSVLog{
		path: path,
		now:  time.Now,
	}
}

// Append writes one (timestamp, user, question, answer) record.
func (l *CSVLog) Append(user, question, answer string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return errors.Wrapf(err, errors.ErrTypeFileSystem, "failed to open query log %s", l.path)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	record := []string{l.now().Format(time.RFC3339), user, question, answer}
	if err := w.Write(record); err != nil {
		return errors.Wrap(err, errors.ErrTypeFileSystem, "failed to write query log record")
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return errors.Wrap(err, errors.ErrTypeFileSystem, "failed to flush query log")
	}

	return nil
}

// Discard is a Logger that drops every record. Used when query logging is
// disabled.
type Discard struct{}

func (Discard) Append(_, _, _ string) error { return nil }
