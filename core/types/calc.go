package types

import (
	"github.com/ethlayer/chaindb/rlp"
	"golang.org/x/crypto/sha3"
)

// CalcUncleHash returns the digest a header's UnclesHash field must
// carry for the given uncle list: keccak256 of the RLP-encoded list of
// uncle headers. An empty list hashes to EmptyUncleHash.
func CalcUncleHash(uncles []*Header) Hash {
	items := make([][]byte, len(uncles))
	for i, u := range uncles {
		items[i] = u.EncodeRLP()
	}
	encoded := rlp.EncodeRawItems(items)
	digest := sha3.NewLegacyKeccak256()
	digest.Write(encoded)
	var h Hash
	digest.Sum(h[:0])
	return h
}

// CalcTxHash returns the digest a header's TxHash field must carry for
// the given transaction list.
//
// A real transactionsRoot is a Merkle-Patricia trie root keyed by
// transaction index, computed by the same trie machinery that produces
// stateRoot; that machinery lives in the state-trie collaborator this
// package treats as external (see StateDB). This digest is a simpler
// stand-in — keccak256 of the RLP-encoded transaction list — chosen so
// the header/body validator can still catch a body that doesn't match
// its header without pulling in a full trie implementation.
func CalcTxHash(txs []*Transaction) Hash {
	items := make([][]byte, len(txs))
	for i, tx := range txs {
		items[i] = tx.EncodeRLP()
	}
	encoded := rlp.EncodeRawItems(items)
	digest := sha3.NewLegacyKeccak256()
	digest.Write(encoded)
	var h Hash
	digest.Sum(h[:0])
	return h
}
