package types

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestBlockDetailsRLPRoundTrip(t *testing.T) {
	d := &BlockDetails{
		Number:          5,
		TotalDifficulty: uint256.NewInt(123456789),
		ParentHash:      HexToHash("0xaa"),
		Children:        []Hash{HexToHash("0xbb"), HexToHash("0xcc")},
	}
	got, err := DecodeBlockDetailsRLP(d.EncodeRLP())
	if err != nil {
		t.Fatal(err)
	}
	if got.Number != d.Number {
		t.Fatalf("number mismatch: %d vs %d", got.Number, d.Number)
	}
	if got.TotalDifficulty.Cmp(d.TotalDifficulty) != 0 {
		t.Fatalf("totalDifficulty mismatch: %v vs %v", got.TotalDifficulty, d.TotalDifficulty)
	}
	if len(got.Children) != 2 || got.Children[0] != d.Children[0] {
		t.Fatalf("children mismatch: %v vs %v", got.Children, d.Children)
	}
}

func TestTransactionAddressRLPRoundTrip(t *testing.T) {
	a := &TransactionAddress{BlockHash: HexToHash("0x01"), Index: 7}
	got, err := DecodeTransactionAddressRLP(a.EncodeRLP())
	if err != nil {
		t.Fatal(err)
	}
	if got.BlockHash != a.BlockHash || got.Index != a.Index {
		t.Fatalf("mismatch: %+v vs %+v", got, a)
	}
}

func TestBlocksBloomsChunkRLPRoundTrip(t *testing.T) {
	var b1, b2 Bloom
	b1.Add([]byte("addr-1"))
	b2.Add([]byte("addr-2"))
	c := &BlocksBloomsChunk{Blooms: []Bloom{b1, b2}}
	got, err := DecodeBlocksBloomsChunkRLP(c.EncodeRLP())
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Blooms) != 2 || got.Blooms[0] != b1 || got.Blooms[1] != b2 {
		t.Fatal("blooms did not round-trip")
	}
}
