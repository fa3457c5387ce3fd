package assistant

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/schemadrift/schemadrift/internal/errors"
)

// Session holds the context carryover for one conversation: the textual
// summary of the most recent diff-and-generate cycle. It is overwritten by
// each new analysis and read, not cleared, by the next free-form question.
// Only one request per session is ever in flight, so no locking is needed.
type Session struct {
	ID        string    `json:"id"`
	Context   string    `json:"context"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewSession creates an empty session.
func NewSession() *Session {
	return &Session{
		ID: uuid.NewString(),
	}
}

// Remember overwrites the carryover with the latest analysis summary.
func (s *Session) Remember(contextText string) {
	s.Context = contextText
	s.UpdatedAt = time.Now()
}

// LoadSession reads a persisted session file, returning a fresh session when
// the file does not exist yet.
func LoadSession(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewSession(), nil
		}

		return nil, errors.Wrapf(err, errors.ErrTypeFileSystem,
			"failed to read session file %s", path)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, errors.Wrap(err, errors.ErrTypeFileSystem, "failed to parse session file")
	}

	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	return &session, nil
}

// Save persists the session so a later invocation can pick up the carryover.
func (s *Session) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, errors.ErrTypeFileSystem, "failed to create session directory")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrTypeFileSystem, "failed to marshal session")
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrapf(err, errors.ErrTypeFileSystem, "failed to write session file %s", path)
	}

	return nil
}
