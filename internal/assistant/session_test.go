package assistant

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCarryoverOverwritten(t *testing.T) {
	session := NewSession()
	assert.NotEmpty(t, session.ID)
	assert.Empty(t, session.Context)

	session.Remember("first analysis")
	assert.Equal(t, "first analysis", session.Context)

	session.Remember("second analysis")
	assert.Equal(t, "second analysis", session.Context)
}

func TestSessionSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "session.json")

	session := NewSession()
	session.Remember("Existing: ...\nNew: ...\nSQL: ...")
	require.NoError(t, session.Save(path))

	loaded, err := LoadSession(path)
	require.NoError(t, err)

	assert.Equal(t, session.ID, loaded.ID)
	assert.Equal(t, session.Context, loaded.Context)
}

func TestLoadSessionMissingFile(t *testing.T) {
	session, err := LoadSession(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)

	assert.NotEmpty(t, session.ID)
	assert.Empty(t, session.Context)
}

func TestFAQIsPopulated(t *testing.T) {
	require.NotEmpty(t, FAQ)

	for _, question := range FAQ {
		assert.NotEmpty(t, question)
	}
}
