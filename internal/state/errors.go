package state

import (
	"errors"
	"fmt"

	"github.com/dukerupert/stride/internal/domain"
)

// ErrNotFound is returned by backends when nothing is stored for a key.
// Callers treat it as empty state.
var ErrNotFound = errors.New("state: not found")

// ErrNewerVersion marks a blob written by a newer schema than this build knows.
var ErrNewerVersion = errors.New("state: stored version is newer than supported")

// ErrCorrupt marks a blob that could not be parsed or migrated.
var ErrCorrupt = errors.New("state: corrupt blob")

// ErrUnknownProvider creates an error for unknown persistence providers.
func ErrUnknownProvider(provider string) error {
	return domain.Errorf(domain.EINVALID, "state.new_backend", "unknown persistence provider: %s", provider)
}

func newerVersionError(namespace string, stored, supported int) error {
	return &domain.Error{
		Code:    domain.ECONFLICT,
		Op:      "state.decode",
		Message: fmt.Sprintf("%s: stored version %d, supported %d", namespace, stored, supported),
		Err:     ErrNewerVersion,
	}
}
