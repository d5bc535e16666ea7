// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package device manages the opaque per-installation identifier that
// scopes persisted records to one installation. The identifier is a
// random UUID stored in a plain file outside the database; it is never
// verified and never rotated. Callers thread the Identity explicitly
// into store operations rather than reading ambient state, so tests can
// inject distinct identities.
package device

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// idFile is the well-known filename the identifier persists under.
const idFile = "deviceId"

// Identity is an opaque installation identifier.
type Identity string

// Load returns the installation identity stored in dir, creating it on
// first use. The directory is created if it does not exist.
func Load(dir string) (Identity, error) {
	path := filepath.Join(dir, idFile)

	data, err := os.ReadFile(path)
	if err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return Identity(id), nil
		}
		// Empty file: regenerate below.
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("reading device identity: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("writing device identity: %w", err)
	}
	return Identity(id), nil
}
