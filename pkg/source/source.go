// Package source fetches raw header and block RLP from a node or from a
// chain database on disk.
package source

import (
	"context"
	"errors"
)

// Errors returned by sources
var (
	ErrRemoteFetchFailed = errors.New("remote fetch failed")
	ErrNotFound          = errors.New("not found in chain database")
	ErrUnknownBackend    = errors.New("unknown database backend")
	ErrNoDatabase        = errors.New("no chain database found")
)

// Source returns raw RLP for a block number.
type Source interface {
	HeaderRLP(ctx context.Context, number uint64) ([]byte, error)
	BlockRLP(ctx context.Context, number uint64) ([]byte, error)
	Close() error
}
