// Package rlpvalue converts between raw RLP and fixture.NestedValue trees.
package rlpvalue

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/luxfi/ethfixtures/pkg/fixture"
)

// Error codes.
var (
	ErrTrailingData = errors.New("trailing data after RLP value")
	ErrNotBlock     = errors.New("value is not an RLP encoded block")
	ErrNotList      = errors.New("value is not an RLP list")
)

type pending struct {
	items fixture.List
	rest  []byte
}

// Decode parses raw into a tree of byte strings and lists. raw must hold
// exactly one RLP value.
func Decode(raw []byte) (fixture.NestedValue, error) {
	kind, content, rest, err := rlp.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("decode rlp: %w", err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(rest))
	}
	if kind != rlp.List {
		return fixture.Bytes(clone(content)), nil
	}

	stack := []*pending{{items: fixture.List{}, rest: content}}
	for {
		top := stack[len(stack)-1]
		if len(top.rest) == 0 {
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return top.items, nil
			}
			parent := stack[len(stack)-1]
			parent.items = append(parent.items, top.items)
			continue
		}

		kind, content, rest, err := rlp.Split(top.rest)
		if err != nil {
			return nil, fmt.Errorf("decode rlp item at depth %d: %w", len(stack), err)
		}
		top.rest = rest

		if kind == rlp.List {
			stack = append(stack, &pending{items: fixture.List{}, rest: content})
		} else {
			top.items = append(top.items, fixture.Bytes(clone(content)))
		}
	}
}

// Encode serializes v as canonical RLP.
func Encode(v fixture.NestedValue) ([]byte, error) {
	switch v := v.(type) {
	case fixture.Bytes:
		return rlp.EncodeToBytes([]byte(v))
	case fixture.List:
		items := make([]rlp.RawValue, 0, len(v))
		for i, item := range v {
			enc, err := Encode(item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i+1, err)
			}
			items = append(items, enc)
		}
		return rlp.EncodeToBytes(items)
	default:
		return nil, fmt.Errorf("encode rlp: %w: %T", fixture.ErrUnsupportedValueKind, v)
	}
}

// Items splits the content of an RLP list into its raw items.
func Items(raw []byte) ([]rlp.RawValue, error) {
	content, rest, err := rlp.SplitList(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotList, err)
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailingData, len(rest))
	}

	var items []rlp.RawValue
	for len(content) > 0 {
		_, _, tail, err := rlp.Split(content)
		if err != nil {
			return nil, fmt.Errorf("split list item %d: %w", len(items)+1, err)
		}
		items = append(items, rlp.RawValue(content[:len(content)-len(tail)]))
		content = tail
	}
	return items, nil
}

func clone(b []byte) []byte {
	return append([]byte{}, b...)
}
