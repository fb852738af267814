package rlp

import (
	"bytes"
	"math/big"
	"testing"
)

func TestAppendBytesRoundTrip(t *testing.T) {
	tests := [][]byte{
		nil,
		{},
		{0x61}, // single byte <= 0x7f encodes as itself
		[]byte("dog"),
		[]byte("a longer string that pushes past the single-byte-length boundary of fifty five characters"),
	}
	for _, want := range tests {
		enc := AppendBytes(nil, want)
		s := NewStreamFromBytes(enc)
		got, err := s.Bytes()
		if err != nil {
			t.Fatalf("decode %x: %v", want, err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("got %x, want %x", got, want)
		}
	}
}

func TestAppendUint64RoundTrip(t *testing.T) {
	for _, want := range []uint64{0, 1, 15, 127, 128, 1 << 20, 1 << 40, ^uint64(0)} {
		enc := AppendUint64(nil, want)
		s := NewStreamFromBytes(enc)
		got, err := s.Uint64()
		if err != nil {
			t.Fatalf("decode %d: %v", want, err)
		}
		if got != want {
			t.Fatalf("got %d, want %d", got, want)
		}
	}
}

func TestEncodeBigIntRoundTrip(t *testing.T) {
	i := new(big.Int).SetUint64(0x0102030405060708)
	enc := EncodeBigInt(i)
	s := NewStreamFromBytes(enc)
	got, err := s.BigInt()
	if err != nil {
		t.Fatal(err)
	}
	if got.Cmp(i) != 0 {
		t.Fatalf("got %v, want %v", got, i)
	}

	if enc := EncodeBigInt(nil); !bytes.Equal(enc, []byte{0x80}) {
		t.Fatalf("expected nil to encode as empty string, got %x", enc)
	}
	if enc := EncodeBigInt(big.NewInt(0)); !bytes.Equal(enc, []byte{0x80}) {
		t.Fatalf("expected zero to encode as empty string, got %x", enc)
	}
}

func TestListScopeAndAtListEnd(t *testing.T) {
	var payload []byte
	payload = AppendUint64(payload, 1)
	payload = AppendUint64(payload, 2)
	payload = AppendUint64(payload, 3)
	enc := WrapList(payload)

	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	var got []uint64
	for !s.AtListEnd() {
		v, err := s.Uint64()
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, v)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("got %v", got)
	}
}

func TestEncodeRawItems(t *testing.T) {
	items := [][]byte{
		AppendBytes(nil, []byte("dog")),
		AppendBytes(nil, []byte("cat")),
	}
	enc := EncodeRawItems(items)
	s := NewStreamFromBytes(enc)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	first, err := s.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(first) != "dog" {
		t.Fatalf("got %q, want %q", first, "dog")
	}
	second, err := s.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	if string(second) != "cat" {
		t.Fatalf("got %q, want %q", second, "cat")
	}
	if err := s.ListEnd(); err != nil {
		t.Fatal(err)
	}
}

func TestRawItemRoundTrip(t *testing.T) {
	inner := AppendBytes(nil, []byte("dog"))
	outer := WrapList(inner)
	s := NewStreamFromBytes(outer)
	if _, err := s.List(); err != nil {
		t.Fatal(err)
	}
	raw, err := s.RawItem()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(raw, inner) {
		t.Fatalf("got %x, want %x", raw, inner)
	}
	if err := s.ListEnd(); err != nil {
		t.Fatal(err)
	}
}

func TestNonCanonicalSizeRejected(t *testing.T) {
	// A single-byte string encoded with the long-string form (0xb8 0x01 'a')
	// instead of the canonical 0x61 form must be rejected.
	bad := []byte{0xb8, 0x01, 'a'}
	s := NewStreamFromBytes(bad)
	if _, err := s.Bytes(); err == nil {
		t.Fatal("expected non-canonical size to be rejected")
	}
}

func TestNonCanonicalIntRejected(t *testing.T) {
	// A leading zero byte in an integer's encoding is non-canonical.
	bad := AppendBytes(nil, []byte{0x00, 0x01})
	s := NewStreamFromBytes(bad)
	if _, err := s.Uint64(); err != ErrCanonInt {
		t.Fatalf("expected ErrCanonInt, got %v", err)
	}
}
