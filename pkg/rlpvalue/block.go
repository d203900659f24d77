package rlpvalue

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"
)

// BlockTransactions returns the transactions of an RLP encoded block as
// byte strings. Typed transactions are stored in the block as RLP strings
// and are returned as their content; legacy transactions are RLP lists and
// are returned as the raw list encoding.
func BlockTransactions(rawBlock []byte) ([][]byte, error) {
	items, err := Items(rawBlock)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotBlock, err)
	}
	// block[0] header, block[1] transactions, block[2] uncles
	if len(items) < 2 {
		return nil, fmt.Errorf("%w: %d items", ErrNotBlock, len(items))
	}

	txList, err := Items(items[1])
	if err != nil {
		return nil, fmt.Errorf("%w: transactions: %v", ErrNotBlock, err)
	}

	txs := make([][]byte, 0, len(txList))
	for i, item := range txList {
		kind, content, _, err := rlp.Split(item)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		if kind == rlp.List {
			txs = append(txs, clone(item))
		} else {
			txs = append(txs, clone(content))
		}
	}
	return txs, nil
}

// EncodeTransactions encodes txs as an RLP list of byte strings.
func EncodeTransactions(txs [][]byte) ([]byte, error) {
	if txs == nil {
		txs = [][]byte{}
	}
	return rlp.EncodeToBytes(txs)
}

// AssembleBlock builds the RLP of a block from its header RLP and the RLP of
// its body, a list of transactions, uncles and any later fields.
func AssembleBlock(header, body []byte) ([]byte, error) {
	if _, _, err := rlp.SplitList(header); err != nil {
		return nil, fmt.Errorf("header: %w: %v", ErrNotList, err)
	}
	fields, err := Items(body)
	if err != nil {
		return nil, fmt.Errorf("body: %w", err)
	}

	block := make([]rlp.RawValue, 0, len(fields)+1)
	block = append(block, rlp.RawValue(header))
	block = append(block, fields...)
	return rlp.EncodeToBytes(block)
}
