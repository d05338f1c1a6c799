package storage

import (
	"context"

	"github.com/waste3d/pianoplatform-api/internal/domain"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = domain.ErrNotFound

type Entry struct {
	Key   string
	Value string
}

// Store is a string key-value store. SetMany is all-or-nothing.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	SetMany(ctx context.Context, entries []Entry) error
	Ping(ctx context.Context) error
	Close() error
}
