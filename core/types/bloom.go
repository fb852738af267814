package types

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// BloomBitLength is the number of bits in a bloom filter (2048).
const BloomBitLength = 8 * BloomLength

// bloom9 computes the 3 bit positions a piece of data sets in a bloom
// filter: the first 6 bytes of Keccak256(data), taken as 3 big-endian
// uint16s and reduced mod 2048.
func bloom9(data []byte) [3]uint {
	d := sha3.NewLegacyKeccak256()
	d.Write(data)
	h := d.Sum(nil)
	var bits [3]uint
	for i := 0; i < 3; i++ {
		bits[i] = uint(binary.BigEndian.Uint16(h[2*i:])) & 0x7FF
	}
	return bits
}

// BloomAdd sets the 3 bits data maps to in bloom.
func BloomAdd(bloom *Bloom, data []byte) {
	for _, bit := range bloom9(data) {
		byteIdx := BloomLength - 1 - bit/8
		bloom[byteIdx] |= 1 << (bit % 8)
	}
}

// BloomContains reports whether all 3 bits data maps to are set in
// bloom. A true result may be a false positive; false is conclusive.
func BloomContains(bloom Bloom, data []byte) bool {
	for _, bit := range bloom9(data) {
		byteIdx := BloomLength - 1 - bit/8
		if bloom[byteIdx]&(1<<(bit%8)) == 0 {
			return false
		}
	}
	return true
}

// LogsBloom folds every log's address and topics into a fresh bloom.
func LogsBloom(logs []*Log) Bloom {
	var bloom Bloom
	for _, l := range logs {
		BloomAdd(&bloom, l.Address.Bytes())
		for _, topic := range l.Topics {
			BloomAdd(&bloom, topic.Bytes())
		}
	}
	return bloom
}

// CreateBloom ORs together the bloom of every receipt in receipts.
func CreateBloom(receipts []*Receipt) Bloom {
	var bloom Bloom
	for _, r := range receipts {
		bloom.Or(r.Bloom)
	}
	return bloom
}

// BytesToBloom converts b to a Bloom, left-padding or left-truncating
// to exactly 256 bytes.
func BytesToBloom(b []byte) Bloom {
	var bloom Bloom
	bloom.SetBytes(b)
	return bloom
}

func (b Bloom) Bytes() []byte {
	out := make([]byte, BloomLength)
	copy(out, b[:])
	return out
}

func (b *Bloom) SetBytes(data []byte) {
	*b = Bloom{}
	if len(data) > BloomLength {
		data = data[len(data)-BloomLength:]
	}
	copy(b[BloomLength-len(data):], data)
}

// Add inserts data into the filter.
func (b *Bloom) Add(data []byte) { BloomAdd(b, data) }

// Test checks membership; see BloomContains.
func (b Bloom) Test(data []byte) bool { return BloomContains(b, data) }

// Or bitwise-ORs other into the receiver, the leaf-level operation the
// bloom hierarchy uses to fold per-block blooms into chunk blooms.
func (b *Bloom) Or(other Bloom) {
	for i := range b {
		b[i] |= other[i]
	}
}

// IsZero reports whether no bit is set.
func (b Bloom) IsZero() bool { return b == Bloom{} }

// Includes reports whether every bit set in other is also set in b.
// The bloom hierarchy uses this to test whether a chunk's aggregated
// bloom could possibly contain a queried bloom before descending into
// it; a false result is conclusive, a true result may be a false
// positive.
func (b Bloom) Includes(other Bloom) bool {
	for i := range b {
		if b[i]&other[i] != other[i] {
			return false
		}
	}
	return true
}
