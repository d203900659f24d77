package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/rs/zerolog"

	"github.com/luxfi/ethfixtures/pkg/rlpvalue"
)

// Backend names a key-value store implementation
type Backend string

const (
	BackendAuto    Backend = ""
	BackendPebble  Backend = rawdb.DBPebble
	BackendLevelDB Backend = rawdb.DBLeveldb
)

const (
	// chainDBCache is the read cache in MiB; the tools read each key once.
	chainDBCache   = 16
	chainDBHandles = 16
)

// ChainDBOptions selects how a chain database is opened.
type ChainDBOptions struct {
	// Backend of the key-value store, detected from its files when empty.
	Backend Backend
	// Ancient is the freezer directory. When empty, <path>/ancient is used
	// if it exists and only the key-value store is read otherwise.
	Ancient string
}

// ChainDB reads canonical headers and blocks from a geth chain database,
// covering both the key-value store and the freezer.
type ChainDB struct {
	db      ethdb.Database
	path    string
	ancient string
	backend Backend
	logger  zerolog.Logger
}

// OpenChainDB opens the chain database at path read-only.
func OpenChainDB(path string, opts ChainDBOptions, logger zerolog.Logger) (*ChainDB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open chain database: %w", err)
	}

	backend := opts.Backend
	switch backend {
	case BackendPebble, BackendLevelDB:
	case BackendAuto:
		backend = Backend(rawdb.PreexistingDatabase(path))
		if backend == BackendAuto {
			return nil, fmt.Errorf("%w: %s", ErrNoDatabase, path)
		}
		logger.Debug().Str("path", path).Str("backend", string(backend)).Msg("Detected database backend")
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	ancient, err := resolveAncient(path, opts.Ancient)
	if err != nil {
		return nil, err
	}

	var kv ethdb.KeyValueStore
	switch backend {
	case BackendPebble:
		kv, err = pebble.New(path, chainDBCache, chainDBHandles, "", true)
	case BackendLevelDB:
		kv, err = leveldb.New(path, chainDBCache, chainDBHandles, "", true)
	}
	if err != nil {
		return nil, fmt.Errorf("could not open chain database at %s: %w", path, err)
	}

	db, err := rawdb.Open(kv, rawdb.OpenOptions{Ancient: ancient, ReadOnly: true})
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("could not open freezer of %s: %w", path, err)
	}

	logger.Info().
		Str("path", path).
		Str("backend", string(backend)).
		Str("ancient", ancient).
		Msg("Opened chain database")

	return &ChainDB{db: db, path: path, ancient: ancient, backend: backend, logger: logger}, nil
}

// resolveAncient returns the freezer directory to open, or "" for none.
func resolveAncient(path, ancient string) (string, error) {
	if ancient != "" {
		if _, err := os.Stat(ancient); err != nil {
			return "", fmt.Errorf("open freezer: %w", err)
		}
		return ancient, nil
	}
	def := filepath.Join(path, "ancient")
	if _, err := os.Stat(def); err == nil {
		return def, nil
	}
	return "", nil
}

// Backend returns the detected or requested backend.
func (c *ChainDB) Backend() Backend {
	return c.backend
}

// Path returns the database path
func (c *ChainDB) Path() string {
	return c.path
}

// Ancient returns the freezer directory in use, empty when there is none.
func (c *ChainDB) Ancient() string {
	return c.ancient
}

// CanonicalHash returns the hash of the canonical block at number.
func (c *ChainDB) CanonicalHash(number uint64) (common.Hash, error) {
	hash := rawdb.ReadCanonicalHash(c.db, number)
	if hash == (common.Hash{}) {
		return common.Hash{}, fmt.Errorf("canonical hash of block %d: %w", number, ErrNotFound)
	}
	return hash, nil
}

// HeadNumber returns the number of the head header.
func (c *ChainDB) HeadNumber() (uint64, error) {
	hash := rawdb.ReadHeadHeaderHash(c.db)
	if hash == (common.Hash{}) {
		return 0, fmt.Errorf("head header hash: %w", ErrNotFound)
	}
	number := rawdb.ReadHeaderNumber(c.db, hash)
	if number == nil {
		return 0, fmt.Errorf("head header number of %s: %w", hash, ErrNotFound)
	}
	return *number, nil
}

// HeaderRLP returns the RLP encoded canonical header at number.
func (c *ChainDB) HeaderRLP(_ context.Context, number uint64) ([]byte, error) {
	hash, err := c.CanonicalHash(number)
	if err != nil {
		return nil, err
	}
	return c.headerRLP(hash, number)
}

func (c *ChainDB) headerRLP(hash common.Hash, number uint64) ([]byte, error) {
	header := rawdb.ReadHeaderRLP(c.db, hash, number)
	if len(header) == 0 {
		return nil, fmt.Errorf("header of block %d: %w", number, ErrNotFound)
	}
	return header, nil
}

// BlockRLP returns the RLP encoded canonical block at number, assembled
// from its header and body.
func (c *ChainDB) BlockRLP(_ context.Context, number uint64) ([]byte, error) {
	hash, err := c.CanonicalHash(number)
	if err != nil {
		return nil, err
	}
	header, err := c.headerRLP(hash, number)
	if err != nil {
		return nil, err
	}
	body := rawdb.ReadBodyRLP(c.db, hash, number)
	if len(body) == 0 {
		return nil, fmt.Errorf("body of block %d: %w", number, ErrNotFound)
	}

	block, err := rlpvalue.AssembleBlock(header, body)
	if err != nil {
		return nil, fmt.Errorf("assemble block %d: %w", number, err)
	}
	return block, nil
}

// Close closes the database and its freezer
func (c *ChainDB) Close() error {
	return c.db.Close()
}
