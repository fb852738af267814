package rawdb

import (
	"encoding/binary"

	"github.com/ethlayer/chaindb/core/types"
)

// Extras kind tags, appended as the last byte of every extras key.
// Values are bit-exact with the historical layout this schema mirrors.
const (
	KindDetails             byte = 0
	KindBlockHashByNumber   byte = 1
	KindTransactionAddress  byte = 2
	KindLogBlooms           byte = 3
	KindReceipts            byte = 4
	KindBlocksBlooms        byte = 5
)

// extrasKey builds `big-endian(subject) || kind`.
func extrasKey(subject []byte, kind byte) []byte {
	key := make([]byte, len(subject)+1)
	copy(key, subject)
	key[len(subject)] = kind
	return key
}

// DetailsKey is the extras key for a block's BlockDetails record.
func DetailsKey(hash types.Hash) []byte {
	return extrasKey(hash.Bytes(), KindDetails)
}

// BlockHashByNumberKey is the extras key for the canonical hash at a
// given block number.
func BlockHashByNumberKey(number uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], number)
	return extrasKey(buf[:], KindBlockHashByNumber)
}

// TransactionAddressKey is the extras key for a transaction's locator.
func TransactionAddressKey(txHash types.Hash) []byte {
	return extrasKey(txHash.Bytes(), KindTransactionAddress)
}

// LogBloomsKey is the extras key for a block's per-transaction bloom
// list.
func LogBloomsKey(blockHash types.Hash) []byte {
	return extrasKey(blockHash.Bytes(), KindLogBlooms)
}

// ReceiptsKey is the extras key for a block's receipt list.
func ReceiptsKey(blockHash types.Hash) []byte {
	return extrasKey(blockHash.Bytes(), KindReceipts)
}

// ChunkID computes the synthetic identifier of a bloom-hierarchy
// chunk. The multiplier is 255, one less than the branching factor
// squared (16^2 = 256); this looks like it should be 256 but the
// source this schema mirrors used 255, and the value is preserved
// bit-exactly for on-disk compatibility with data written under the
// old formula.
func ChunkID(level, index uint64) uint64 {
	return index*255 + level
}

// BlocksBloomsKey is the extras key for a bloom-hierarchy chunk.
func BlocksBloomsKey(level, index uint64) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], ChunkID(level, index))
	return extrasKey(buf[:], KindBlocksBlooms)
}

// Fixed metadata keys, stored in the extras store alongside the
// tagged records above. They are short enough (well under 33 bytes)
// that they cannot collide with a hash-or-number-plus-tag key.
var (
	headHashKey    = []byte("HeadBlockHash")
	headNumberKey  = []byte("HeadBlockNumber")
	genesisHashKey = []byte("GenesisHash")
	versionKey     = []byte("SchemaVersion")
)

// SchemaVersion is bumped whenever the on-disk encoding of any extras
// record changes incompatibly.
const SchemaVersion = 1
