package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSession_MissingFile(t *testing.T) {
	s, err := LoadSession(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.False(t, s.LoggedIn())
}

func TestSession_SaveLoadClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg", "session.json")
	s := &Session{Token: "tok", UserID: 3, Username: "alice"}
	require.NoError(t, s.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadSession(path)
	require.NoError(t, err)
	assert.Equal(t, s, loaded)
	assert.True(t, loaded.LoggedIn())

	loaded.Clear()
	assert.False(t, loaded.LoggedIn())
	assert.Zero(t, loaded.UserID)
}

func TestLoadSession_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))
	_, err := LoadSession(path)
	assert.Error(t, err)
}

func TestNilSessionNotLoggedIn(t *testing.T) {
	var s *Session
	assert.False(t, s.LoggedIn())
}
