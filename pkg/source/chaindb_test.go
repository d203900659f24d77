package source_test

import (
	"context"
	"math/big"
	"os"
	"path/filepath"

	cpebble "github.com/cockroachdb/pebble"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/rawdb"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethdb"
	"github.com/ethereum/go-ethereum/ethdb/leveldb"
	"github.com/ethereum/go-ethereum/ethdb/pebble"
	"github.com/ethereum/go-ethereum/rlp"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/rs/zerolog"
	goleveldb "github.com/syndtr/goleveldb/leveldb"

	"github.com/luxfi/ethfixtures/pkg/source"
)

// makeBlocks returns a linked chain of blocks 0..count-1, each carrying
// one legacy transaction whose nonce is the block number.
func makeBlocks(count uint64) []*types.Block {
	blocks := make([]*types.Block, 0, count)
	parent := common.Hash{}
	for n := uint64(0); n < count; n++ {
		header := &types.Header{
			ParentHash: parent,
			Number:     new(big.Int).SetUint64(n),
			Difficulty: big.NewInt(1),
			GasLimit:   30_000_000,
			Time:       1_650_000_000 + n,
			Extra:      []byte("fixture"),
		}
		tx := types.NewTx(&types.LegacyTx{
			Nonce:    n,
			GasPrice: big.NewInt(1),
			Gas:      21000,
			To:       &common.Address{0x01},
			Value:    big.NewInt(1),
		})
		block := types.NewBlockWithHeader(header).WithBody(types.Body{Transactions: types.Transactions{tx}})
		blocks = append(blocks, block)
		parent = block.Hash()
	}
	return blocks
}

func openWritable(backend source.Backend, dir string) ethdb.KeyValueStore {
	var (
		kv  ethdb.KeyValueStore
		err error
	)
	switch backend {
	case source.BackendLevelDB:
		kv, err = leveldb.New(dir, 16, 16, "", false)
	default:
		kv, err = pebble.New(dir, 16, 16, "", false)
	}
	Expect(err).NotTo(HaveOccurred())
	return kv
}

// writeChain stores blocks[:frozen] in the freezer under dir/ancient and
// the rest in the key-value store, the way geth lays out a synced node.
// The genesis hash stays in the key-value store and the head header
// points at the last block.
func writeChain(backend source.Backend, dir string, blocks []*types.Block, frozen int) {
	kv := openWritable(backend, dir)

	var db ethdb.Database
	if frozen > 0 {
		var err error
		db, err = rawdb.Open(kv, rawdb.OpenOptions{Ancient: filepath.Join(dir, "ancient")})
		Expect(err).NotTo(HaveOccurred())

		receipts := make([]rlp.RawValue, frozen)
		for i := range receipts {
			receipts[i] = rlp.EmptyList
		}
		_, err = rawdb.WriteAncientBlocks(db, blocks[:frozen], receipts)
		Expect(err).NotTo(HaveOccurred())
		rawdb.WriteCanonicalHash(db, blocks[0].Hash(), 0)
	} else {
		db = rawdb.NewDatabase(kv)
	}
	defer func() { Expect(db.Close()).To(Succeed()) }()

	for _, block := range blocks[frozen:] {
		rawdb.WriteBlock(db, block)
		rawdb.WriteCanonicalHash(db, block.Hash(), block.NumberU64())
	}
	for _, block := range blocks[:frozen] {
		rawdb.WriteHeaderNumber(db, block.Hash(), block.NumberU64())
	}
	rawdb.WriteHeadHeaderHash(db, blocks[len(blocks)-1].Hash())
}

var _ = Describe("ChainDB", func() {
	var (
		ctx    context.Context
		dir    string
		logger zerolog.Logger
	)

	BeforeEach(func() {
		ctx = context.Background()
		dir = filepath.Join(GinkgoT().TempDir(), "chaindata")
		logger = zerolog.Nop()
	})

	expectHeader := func(db *source.ChainDB, block *types.Block) {
		raw, err := db.HeaderRLP(ctx, block.NumberU64())
		Expect(err).NotTo(HaveOccurred())

		var header types.Header
		Expect(rlp.DecodeBytes(raw, &header)).To(Succeed())
		Expect(header.Hash()).To(Equal(block.Hash()))
	}

	expectBlock := func(db *source.ChainDB, want *types.Block) {
		raw, err := db.BlockRLP(ctx, want.NumberU64())
		Expect(err).NotTo(HaveOccurred())

		var block types.Block
		Expect(rlp.DecodeBytes(raw, &block)).To(Succeed())
		Expect(block.Hash()).To(Equal(want.Hash()))
		Expect(block.Transactions()).To(HaveLen(1))
		Expect(block.Transactions()[0].Nonce()).To(Equal(want.NumberU64()))
	}

	Context("PebbleDB", func() {
		var blocks []*types.Block

		BeforeEach(func() {
			blocks = makeBlocks(4)
			writeChain(source.BackendPebble, dir, blocks, 0)
		})

		It("detects the backend", func() {
			db, err := source.OpenChainDB(dir, source.ChainDBOptions{}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			Expect(db.Backend()).To(Equal(source.BackendPebble))
			Expect(db.Path()).To(Equal(dir))
			Expect(db.Ancient()).To(BeEmpty())
		})

		It("reads canonical headers and blocks", func() {
			db, err := source.OpenChainDB(dir, source.ChainDBOptions{Backend: source.BackendPebble}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			expectHeader(db, blocks[1])
			expectBlock(db, blocks[2])
			Expect(db.HeadNumber()).To(Equal(uint64(3)))
		})

		It("returns ErrNotFound for unknown blocks", func() {
			db, err := source.OpenChainDB(dir, source.ChainDBOptions{}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			_, err = db.HeaderRLP(ctx, 4)
			Expect(err).To(MatchError(source.ErrNotFound))
			_, err = db.BlockRLP(ctx, 4)
			Expect(err).To(MatchError(source.ErrNotFound))
		})
	})

	Context("with a freezer", func() {
		var blocks []*types.Block

		BeforeEach(func() {
			blocks = makeBlocks(5)
			writeChain(source.BackendPebble, dir, blocks, 3)
		})

		It("reads frozen and recent blocks", func() {
			db, err := source.OpenChainDB(dir, source.ChainDBOptions{}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			Expect(db.Ancient()).To(Equal(filepath.Join(dir, "ancient")))
			for _, block := range blocks {
				expectHeader(db, block)
				expectBlock(db, block)
			}
			Expect(db.HeadNumber()).To(Equal(uint64(4)))
		})

		It("uses an explicit freezer directory", func() {
			moved := filepath.Join(GinkgoT().TempDir(), "frozen")
			Expect(os.Rename(filepath.Join(dir, "ancient"), moved)).To(Succeed())

			db, err := source.OpenChainDB(dir, source.ChainDBOptions{Ancient: moved}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			expectHeader(db, blocks[0])
		})

		It("fails on a missing freezer directory", func() {
			_, err := source.OpenChainDB(dir, source.ChainDBOptions{Ancient: filepath.Join(dir, "missing")}, logger)
			Expect(err).To(HaveOccurred())
		})
	})

	Context("LevelDB", func() {
		var blocks []*types.Block

		BeforeEach(func() {
			blocks = makeBlocks(3)
			writeChain(source.BackendLevelDB, dir, blocks, 0)
		})

		It("reads headers and blocks", func() {
			db, err := source.OpenChainDB(dir, source.ChainDBOptions{Backend: source.BackendLevelDB}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			Expect(db.Backend()).To(Equal(source.BackendLevelDB))
			expectHeader(db, blocks[1])
			expectBlock(db, blocks[2])
			Expect(db.HeadNumber()).To(Equal(uint64(2)))

			_, err = db.HeaderRLP(ctx, 3)
			Expect(err).To(MatchError(source.ErrNotFound))
		})
	})

	Context("backend detection", func() {
		It("picks LevelDB for a store holding only its journal", func() {
			ldb, err := goleveldb.OpenFile(dir, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(ldb.Put([]byte("key"), []byte("value"), nil)).To(Succeed())
			Expect(ldb.Close()).To(Succeed())

			db, err := source.OpenChainDB(dir, source.ChainDBOptions{}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			Expect(db.Backend()).To(Equal(source.BackendLevelDB))
		})

		It("picks PebbleDB for a pebble store", func() {
			pdb, err := cpebble.Open(dir, &cpebble.Options{})
			Expect(err).NotTo(HaveOccurred())
			Expect(pdb.Set([]byte("key"), []byte("value"), cpebble.Sync)).To(Succeed())
			Expect(pdb.Close()).To(Succeed())

			db, err := source.OpenChainDB(dir, source.ChainDBOptions{}, logger)
			Expect(err).NotTo(HaveOccurred())
			defer db.Close()

			Expect(db.Backend()).To(Equal(source.BackendPebble))
		})

		It("rejects a directory without a database", func() {
			Expect(os.MkdirAll(dir, 0755)).To(Succeed())

			_, err := source.OpenChainDB(dir, source.ChainDBOptions{}, logger)
			Expect(err).To(MatchError(source.ErrNoDatabase))
		})
	})

	It("rejects unknown backends", func() {
		writeChain(source.BackendPebble, dir, makeBlocks(1), 0)

		_, err := source.OpenChainDB(dir, source.ChainDBOptions{Backend: source.Backend("rocksdb")}, logger)
		Expect(err).To(MatchError(source.ErrUnknownBackend))
	})

	It("fails on a missing path", func() {
		_, err := source.OpenChainDB(filepath.Join(dir, "missing"), source.ChainDBOptions{}, logger)
		Expect(err).To(HaveOccurred())
	})
})
