// Package storage saves uploaded couple photos either on local disk or in
// an S3 bucket.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidKey indicates a key that would escape the store's namespace.
var ErrInvalidKey = errors.New("invalid object key")

func validateKey(key string) error {
	if key == "" || key == "." || key == ".." ||
		strings.ContainsAny(key, `/\`) || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
