package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/jaevor/go-nanoid"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidKey   = errors.New("invalid blob key")
)

const keySize = 21

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,64}$`)

// Blob stores opaque file content addressed by a key.
type Blob interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

func NewKey() (string, error) {
	generateID, err := nanoid.Standard(keySize)
	if err != nil {
		return "", fmt.Errorf("failed to initialize nanoid generator: %w", err)
	}
	return generateID(), nil
}

func validateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
