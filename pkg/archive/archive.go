package archive

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Common errors.
var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("archive: not found")

	// ErrInvalidKey is returned for empty keys and keys escaping the store.
	ErrInvalidKey = errors.New("archive: invalid key")
)

// Store persists snapshot payloads.
type Store interface {
	// Put stores data under key, replacing any previous value.
	Put(ctx context.Context, key string, data []byte) error

	// Get returns the data stored under key.
	Get(ctx context.Context, key string) ([]byte, error)

	// List returns the keys starting with prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes key.
	Delete(ctx context.Context, key string) error
}

// CleanKey normalizes key and rejects keys that are empty, absolute or
// climb out of the store.
func CleanKey(key string) (string, error) {
	if key == "" {
		return "", ErrInvalidKey
	}
	cleaned := path.Clean(strings.ReplaceAll(key, "\\", "/"))
	if cleaned == "." || strings.HasPrefix(cleaned, "/") || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return cleaned, nil
}
