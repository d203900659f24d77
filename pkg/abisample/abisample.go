// Package abisample produces the ABI encodings and signed transactions
// used as reference data by the contract ABI writer and transaction tests.
package abisample

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// TestABI declares the two functions the signed samples call.
const TestABI = `[
	{
		"name": "foo", "type": "function",
		"inputs": [
			{"name": "val1", "type": "uint64"},
			{"name": "val2", "type": "tuple", "components": [
				{"name": "val21", "type": "uint64"},
				{"name": "val22", "type": "uint64"}
			]},
			{"name": "val3", "type": "bytes5"}
		],
		"outputs": [
			{"name": "ret1", "type": "uint64"},
			{"name": "ret2", "type": "bytes5"}
		]
	},
	{
		"name": "bar", "type": "function",
		"inputs": [
			{"name": "val1", "type": "uint64"},
			{"name": "val2", "type": "tuple", "components": [
				{"name": "val21", "type": "uint64"},
				{"name": "val22", "type": "tuple", "components": [
					{"name": "val221", "type": "uint64"},
					{"name": "val222", "type": "bytes"}
				]}
			]},
			{"name": "val3", "type": "bytes5"}
		],
		"outputs": [
			{"name": "ret1", "type": "uint64"},
			{"name": "ret2", "type": "bytes"}
		]
	}
]`

var (
	// ContractAddress is the recipient of the signed samples.
	ContractAddress = common.HexToAddress("0x09616C3d61b3331fc4109a9E41a8BDB7d9776609")
	// ChainID of the signed samples
	ChainID = big.NewInt(1900)

	// Keys signing the foo and bar transactions.
	FooKey = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	BarKey = "8b03d7fdc28059800b252d475164a581d94563c9a39f435dc9b130acb5ab93bb"
)

const (
	sampleNonce    = 34
	sampleGas      = 100000
	sampleFeeCap   = 2000000000
	sampleTipCap   = 2000000000
	barValue       = 1000
	rawTransaction = "rawTransaction:"
)

var (
	short = []byte{0x01, 0x02, 0x03, 0x04, 0x05}
	long  = []byte{0x09, 0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01}
	b5    = [5]byte{0x01, 0x02, 0x03, 0x04, 0x05}
)

// Sample is one labelled byte string.
type Sample struct {
	Label string
	Data  []byte
}

type pair struct {
	A uint64
	B uint64
}

type pairBytes struct {
	A uint64
	B []byte
}

type nested struct {
	A uint64
	B pairBytes
}

type encoding struct {
	types []string
	args  []interface{}
}

var encodings = []encoding{
	{[]string{"bytes[2]"}, []interface{}{[2][]byte{short, long}}},
	{[]string{"uint64[]"}, []interface{}{[]uint64{0x1234567890ABCDEF, 0xEFCDAB8967452301}}},
	{[]string{"bytes[]"}, []interface{}{[][]byte{short, long}}},
	{[]string{"bytes", "bytes"}, []interface{}{short, long}},
	{[]string{"uint64", "uint64[]", "bytes5"}, []interface{}{uint64(12345), []uint64{54321, 67890}, b5}},
	{[]string{"uint64", "(uint64,uint64)", "bytes5"}, []interface{}{uint64(12345), pair{54321, 67890}, b5}},
	{[]string{"uint64", "(uint64,bytes)", "bytes5"}, []interface{}{uint64(12345), pairBytes{54321, short}, b5}},
	{[]string{"uint64", "(uint64,(uint64,bytes))", "bytes5"}, []interface{}{uint64(12345), nested{54321, pairBytes{67890, short}}, b5}},
}

// Encodings returns the ABI encoding of each parameter list, labelled with
// its type list.
func Encodings() ([]Sample, error) {
	out := make([]Sample, 0, len(encodings))
	for _, e := range encodings {
		args, err := Arguments(e.types...)
		if err != nil {
			return nil, err
		}
		data, err := args.Pack(e.args...)
		if err != nil {
			return nil, fmt.Errorf("failed to pack %s: %w", Label(e.types...), err)
		}
		out = append(out, Sample{Label: Label(e.types...), Data: data})
	}
	return out, nil
}

// Label formats a type list the way the fixture comments name it, e.g.
// ('uint64', 'bytes5') or ('bytes[2]',).
func Label(types ...string) string {
	if len(types) == 1 {
		return "('" + types[0] + "',)"
	}
	return "('" + strings.Join(types, "', '") + "')"
}

// Arguments builds an argument list from type strings. Tuples are written
// as (t1,t2,...) and their components are named a, b, c and so on.
func Arguments(types ...string) (abi.Arguments, error) {
	args := make(abi.Arguments, 0, len(types))
	for _, t := range types {
		m, err := marshaling("", t)
		if err != nil {
			return nil, err
		}
		typ, err := abi.NewType(m.Type, "", m.Components)
		if err != nil {
			return nil, fmt.Errorf("invalid type %s: %w", t, err)
		}
		args = append(args, abi.Argument{Type: typ})
	}
	return args, nil
}

func marshaling(name, t string) (abi.ArgumentMarshaling, error) {
	if !strings.HasPrefix(t, "(") {
		return abi.ArgumentMarshaling{Name: name, Type: t}, nil
	}
	if !strings.HasSuffix(t, ")") {
		return abi.ArgumentMarshaling{}, fmt.Errorf("unbalanced tuple %s", t)
	}

	parts, err := splitTuple(t[1 : len(t)-1])
	if err != nil {
		return abi.ArgumentMarshaling{}, fmt.Errorf("%s: %w", t, err)
	}
	m := abi.ArgumentMarshaling{Name: name, Type: "tuple"}
	for i, part := range parts {
		c, err := marshaling(string(rune('a'+i)), part)
		if err != nil {
			return abi.ArgumentMarshaling{}, err
		}
		m.Components = append(m.Components, c)
	}
	return m, nil
}

// splitTuple splits the component list of a tuple at its top level commas.
func splitTuple(s string) ([]string, error) {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced tuple")
			}
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced tuple")
	}
	return append(parts, s[start:]), nil
}

// Transactions returns the signed EIP-1559 transactions calling foo and
// bar on ContractAddress, in their binary encoding.
func Transactions() ([]Sample, error) {
	contract, err := abi.JSON(strings.NewReader(TestABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}

	foo, err := contract.Pack("foo", uint64(12345), struct {
		Val21 uint64
		Val22 uint64
	}{54321, 67890}, b5)
	if err != nil {
		return nil, fmt.Errorf("failed to pack foo: %w", err)
	}

	type inner struct {
		Val221 uint64
		Val222 []byte
	}
	bar, err := contract.Pack("bar", uint64(12345), struct {
		Val21 uint64
		Val22 inner
	}{54321, inner{67890, short}}, b5)
	if err != nil {
		return nil, fmt.Errorf("failed to pack bar: %w", err)
	}

	calls := []struct {
		key   string
		data  []byte
		value int64
	}{
		{FooKey, foo, 0},
		{BarKey, bar, barValue},
	}

	out := make([]Sample, 0, len(calls))
	for _, c := range calls {
		raw, err := signCall(c.key, c.data, big.NewInt(c.value))
		if err != nil {
			return nil, err
		}
		out = append(out, Sample{Label: rawTransaction, Data: raw})
	}
	return out, nil
}

func signCall(hexKey string, data []byte, value *big.Int) ([]byte, error) {
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	tx, err := types.SignNewTx(key, types.NewLondonSigner(ChainID), &types.DynamicFeeTx{
		ChainID:   ChainID,
		Nonce:     sampleNonce,
		GasTipCap: big.NewInt(sampleTipCap),
		GasFeeCap: big.NewInt(sampleFeeCap),
		Gas:       sampleGas,
		To:        &ContractAddress,
		Value:     value,
		Data:      data,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx.MarshalBinary()
}

// All returns the encodings followed by the signed transactions.
func All() ([]Sample, error) {
	enc, err := Encodings()
	if err != nil {
		return nil, err
	}
	txs, err := Transactions()
	if err != nil {
		return nil, err
	}
	return append(enc, txs...), nil
}
