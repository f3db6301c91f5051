package storage

import (
	"context"
	"errors"
	"regexp"
)

// ErrNotExist is returned by Read when a collection has never been written.
var ErrNotExist = errors.New("collection does not exist")

var collectionName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Store persists whole collections as opaque JSON documents. Writes replace the
// previous document entirely.
type Store interface {
	Read(ctx context.Context, collection string) ([]byte, error)
	Write(ctx context.Context, collection string, payload []byte) error
}

// ValidName reports whether the collection name is safe to use as a file name
// or table key.
func ValidName(collection string) bool {
	return collectionName.MatchString(collection)
}
