package auth

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hansos/DR-Admin-sub001/internal/config"
)

const (
	EnvToken         = "PANEL_API_TOKEN"
	SessionTokenFile = "session-token"
)

// TokenSource yields a bearer token for the panel API. A source that
// has no token reports ok=false; requests are then sent cookie-only.
type TokenSource interface {
	Token() (string, bool)
}

// Chain returns the first token any source yields.
type Chain []TokenSource

func (c Chain) Token() (string, bool) {
	for _, s := range c {
		if t, ok := s.Token(); ok {
			return t, true
		}
	}
	return "", false
}

// EnvSource reads the token from the process environment.
type EnvSource struct{}

func (EnvSource) Token() (string, bool) {
	t := strings.TrimSpace(os.Getenv(EnvToken))
	return t, t != ""
}

// SessionSource reads the session-stored fallback token written by a
// previous login through the panel.
type SessionSource struct {
	Dir string
}

func (s SessionSource) Token() (string, bool) {
	dir := s.Dir
	if dir == "" {
		d, err := config.HomeDir()
		if err != nil {
			return "", false
		}
		dir = d
	}
	b, err := os.ReadFile(filepath.Join(dir, SessionTokenFile))
	if err != nil {
		return "", false
	}
	t := strings.TrimSpace(string(b))
	return t, t != ""
}

// Default is the lookup order the panel pages use: live auth context
// first, session-stored token as fallback.
func Default() TokenSource {
	return Chain{EnvSource{}, SessionSource{}}
}
