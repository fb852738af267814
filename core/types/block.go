package types

import (
	"sync/atomic"
	"unsafe"
)

// Block is the canonical byte-string persisted in the blocks table:
// a header, an ordered transaction list and an ordered uncle-header
// list. NewBlock deep-copies the header and uncle headers; the
// transaction pointers are shared with the caller's slice elements.
type Block struct {
	header       *Header
	transactions []*Transaction
	uncles       []*Header

	hash atomic.Pointer[Hash]
	size atomic.Uint64
}

// NewBlock assembles a block from a header and body, taking defensive
// copies of the header and uncle headers.
func NewBlock(header *Header, transactions []*Transaction, uncles []*Header) *Block {
	b := &Block{header: copyHeader(header)}
	if len(transactions) > 0 {
		b.transactions = append(b.transactions, transactions...)
	}
	for _, u := range uncles {
		b.uncles = append(b.uncles, copyHeader(u))
	}
	return b
}

// Header returns a copy of the block's header so callers cannot
// mutate the block by mutating the returned value.
func (b *Block) Header() *Header { return copyHeader(b.header) }

func (b *Block) Transactions() []*Transaction { return b.transactions }
func (b *Block) Uncles() []*Header            { return b.uncles }

func (b *Block) ParentHash() Hash    { return b.header.ParentHash }
func (b *Block) Number() uint64      { return b.header.NumberU64() }
func (b *Block) Time() uint64        { return b.header.Time }
func (b *Block) GasLimit() uint64    { return b.header.GasLimit }
func (b *Block) GasUsed() uint64     { return b.header.GasUsed }
func (b *Block) Coinbase() Address   { return b.header.Coinbase }
func (b *Block) LogsBloom() Bloom    { return b.header.LogsBloom }
func (b *Block) StateRoot() Hash     { return b.header.StateRoot }
func (b *Block) TxHash() Hash        { return b.header.TxHash }
func (b *Block) ReceiptHash() Hash   { return b.header.ReceiptHash }
func (b *Block) UnclesHash() Hash    { return b.header.UnclesHash }

// Hash returns the header hash, cached, which is the block's identity
// in the blocks table.
func (b *Block) Hash() Hash {
	if cached := b.hash.Load(); cached != nil {
		return *cached
	}
	h := b.header.Hash()
	b.hash.Store(&h)
	return h
}

// Size estimates the block's in-memory footprint.
func (b *Block) Size() uint64 {
	if cached := b.size.Load(); cached != 0 {
		return cached
	}
	s := uint64(unsafe.Sizeof(*b)) + b.header.Size()
	for _, tx := range b.transactions {
		s += uint64(len(tx.EncodeRLP()))
	}
	for _, u := range b.uncles {
		s += u.Size()
	}
	b.size.Store(s)
	return s
}
