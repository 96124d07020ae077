// Package auth resolves the bearer credential used for privileged API calls.
// The credential lives in a token file under the user config dir, written by
// the scriptorium login tooling; an environment variable overrides it so the
// client stays scriptable.
package auth

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TokenEnv carries the bearer token directly, bypassing the token file.
const TokenEnv = "SCRIPTORIUM_TOKEN"

const tokenFileName = "token"

// ErrNoToken indicates that no stored credential exists; callers treat this
// as "not logged in" rather than as a fatal failure.
var ErrNoToken = errors.New("no stored credential")

// DefaultPath returns the standard token file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "scriptorium", tokenFileName), nil
}

// Resolve returns the bearer token from the environment override or the token
// file at path. An empty path falls back to DefaultPath. A missing or empty
// token yields ErrNoToken.
func Resolve(path string, environ []string) (string, error) {
	for _, entry := range environ {
		if value, ok := strings.CutPrefix(entry, TokenEnv+"="); ok {
			if trimmed := strings.TrimSpace(value); trimmed != "" {
				return trimmed, nil
			}
		}
	}
	if path == "" {
		resolved, err := DefaultPath()
		if err != nil {
			return "", err
		}
		path = resolved
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoToken
		}
		return "", fmt.Errorf("read token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}
