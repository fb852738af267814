// Package rlp implements the recursive length prefix encoding used to
// serialize headers, blocks, receipts and the chain database's extras
// records to their canonical wire and on-disk form.
//
// Every record type in this module has a fixed, known field layout, so
// encoding here is field-by-field through AppendBytes/AppendUint64
// rather than through a reflection-driven generic encoder: there is no
// caller anywhere in the tree that hands this package an arbitrary
// struct and expects it to discover the field layout on its own.
package rlp

import "math/big"

// EncodeBigInt returns the canonical RLP encoding of i: the empty
// string for a nil or zero value, otherwise its big-endian bytes with
// no leading zero byte, string-wrapped like any other byte value.
// The header's difficulty and number and the transaction's big-integer
// fields go through this; total difficulty is a uint256 and is written
// with AppendBytes instead.
func EncodeBigInt(i *big.Int) []byte {
	if i == nil || i.Sign() == 0 {
		return []byte{0x80}
	}
	return AppendBytes(nil, i.Bytes())
}

// WrapList wraps an already RLP-encoded payload (the concatenation of
// zero or more complete items) in a list header. Every record type
// builds its payload field by field with AppendBytes and AppendUint64,
// then wraps it once here.
func WrapList(payload []byte) []byte {
	return wrapList(payload)
}

func wrapList(payload []byte) []byte {
	n := len(payload)
	if n <= 55 {
		buf := make([]byte, 1+n)
		buf[0] = 0xc0 + byte(n)
		copy(buf[1:], payload)
		return buf
	}
	lenBytes := putUintBigEndian(uint64(n))
	buf := make([]byte, 1+len(lenBytes)+n)
	buf[0] = 0xf7 + byte(len(lenBytes))
	copy(buf[1:], lenBytes)
	copy(buf[1+len(lenBytes):], payload)
	return buf
}

func putUintBigEndian(u uint64) []byte {
	switch {
	case u < (1 << 8):
		return []byte{byte(u)}
	case u < (1 << 16):
		return []byte{byte(u >> 8), byte(u)}
	case u < (1 << 24):
		return []byte{byte(u >> 16), byte(u >> 8), byte(u)}
	case u < (1 << 32):
		return []byte{byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
	case u < (1 << 40):
		return []byte{byte(u >> 32), byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
	case u < (1 << 48):
		return []byte{byte(u >> 40), byte(u >> 32), byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
	case u < (1 << 56):
		return []byte{byte(u >> 48), byte(u >> 40), byte(u >> 32), byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
	default:
		return []byte{byte(u >> 56), byte(u >> 48), byte(u >> 40), byte(u >> 32), byte(u >> 24), byte(u >> 16), byte(u >> 8), byte(u)}
	}
}
