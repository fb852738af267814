package types

import (
	"math/big"
	"testing"
)

func sampleHeader() *Header {
	return &Header{
		ParentHash:  HexToHash("0x01"),
		UnclesHash:  EmptyUncleHash,
		Coinbase:    HexToAddress("0xaa"),
		StateRoot:   HexToHash("0x02"),
		TxHash:      EmptyRootHash,
		ReceiptHash: EmptyRootHash,
		Difficulty:  big.NewInt(131072),
		Number:      big.NewInt(1),
		GasLimit:    5000,
		GasUsed:     0,
		Time:        1000,
		Extra:       []byte("test"),
	}
}

func TestHeaderRLPRoundTrip(t *testing.T) {
	h := sampleHeader()
	enc := h.EncodeRLP()
	got, err := DecodeHeaderRLP(enc)
	if err != nil {
		t.Fatal(err)
	}
	if got.Hash() != h.Hash() {
		t.Fatalf("hash mismatch: got %s, want %s", got.Hash(), h.Hash())
	}
	if got.GasLimit != h.GasLimit || got.Time != h.Time {
		t.Fatalf("field mismatch: %+v vs %+v", got, h)
	}
	if got.Difficulty.Cmp(h.Difficulty) != 0 {
		t.Fatalf("difficulty mismatch: got %v, want %v", got.Difficulty, h.Difficulty)
	}
}

func TestHeaderHashIsStableAndCached(t *testing.T) {
	h := sampleHeader()
	h1 := h.Hash()
	h2 := h.Hash()
	if h1 != h2 {
		t.Fatal("hash should be stable across calls")
	}
}

func TestHeaderHashChangesWithFields(t *testing.T) {
	h1 := sampleHeader()
	h2 := sampleHeader()
	h2.GasUsed = 21000
	if h1.Hash() == h2.Hash() {
		t.Fatal("differing headers must hash differently")
	}
}
