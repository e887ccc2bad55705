// Package auth supplies bearer tokens for the HTTP page source.
package auth

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// TokenProvider supplies an access token for API authentication. An empty
// token means requests go out without an Authorization header.
type TokenProvider interface {
	AccessToken() (string, error)
}

// None sends no token.
type None struct{}

// AccessToken returns "".
func (None) AccessToken() (string, error) { return "", nil }

// Static always returns the same token.
type Static string

// AccessToken returns the token.
func (s Static) AccessToken() (string, error) { return string(s), nil }

// FileTokenProvider reads a bearer token from a file on disk. The file is
// re-read when its modification time changes, so a rotated token is picked
// up without a restart.
type FileTokenProvider struct {
	path string

	mu      sync.Mutex
	token   string
	modTime time.Time
}

// NewFileTokenProvider creates a TokenProvider that reads from the given file path.
func NewFileTokenProvider(path string) *FileTokenProvider {
	return &FileTokenProvider{path: path}
}

// FromPath returns a FileTokenProvider for path, or None when path is empty.
func FromPath(path string) TokenProvider {
	if strings.TrimSpace(path) == "" {
		return None{}
	}
	return NewFileTokenProvider(path)
}

// AccessToken returns the token, trimming whitespace and an optional
// "Bearer " prefix.
func (f *FileTokenProvider) AccessToken() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}
	if f.token != "" && info.ModTime().Equal(f.modTime) {
		return f.token, nil
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("reading token from %s: %w", f.path, err)
	}

	token := strings.TrimSpace(string(data))
	token = strings.TrimSpace(strings.TrimPrefix(token, "Bearer "))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.path)
	}

	f.token = token
	f.modTime = info.ModTime()
	return token, nil
}
