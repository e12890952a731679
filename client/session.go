// Package client is a Go client for the InstaClone HTTP API with a
// persisted login session.
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Session is the authenticated identity the client sends with requests.
type Session struct {
	Token    string `json:"token"`
	UserID   uint   `json:"userId"`
	Username string `json:"username"`
}

// LoadSession reads a session saved by Save. A missing file yields an
// empty session.
func LoadSession(path string) (*Session, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Session{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the session as JSON readable only by the owner.
func (s *Session) Save(path string) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	// WriteFile keeps the mode of an existing file.
	return os.Chmod(path, 0o600)
}

// Clear forgets the identity.
func (s *Session) Clear() {
	*s = Session{}
}

// LoggedIn reports whether a token is held.
func (s *Session) LoggedIn() bool {
	return s != nil && s.Token != ""
}
