package types

import (
	"github.com/holiman/uint256"

	"github.com/ethlayer/chaindb/rlp"
)

// BlockDetails is the familial metadata kept for every known block,
// canonical or not: its height, cumulative difficulty, parent and the
// set of every block that names it as parent.
type BlockDetails struct {
	Number          uint64
	TotalDifficulty *uint256.Int
	ParentHash      Hash
	Children        []Hash
}

// EncodeRLP returns the canonical encoding of d.
func (d *BlockDetails) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendUint64(payload, d.Number)
	td := d.TotalDifficulty
	if td == nil {
		td = new(uint256.Int)
	}
	payload = rlp.AppendBytes(payload, td.Bytes())
	payload = rlp.AppendBytes(payload, d.ParentHash.Bytes())
	var childItems [][]byte
	for _, c := range d.Children {
		childItems = append(childItems, rlp.AppendBytes(nil, c.Bytes()))
	}
	payload = append(payload, rlp.EncodeRawItems(childItems)...)
	return rlp.WrapList(payload)
}

// DecodeBlockDetailsRLP decodes a BlockDetails record.
func DecodeBlockDetailsRLP(data []byte) (*BlockDetails, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	d := new(BlockDetails)
	var err error
	if d.Number, err = s.Uint64(); err != nil {
		return nil, err
	}
	tdBytes, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	d.TotalDifficulty = new(uint256.Int).SetBytes(tdBytes)
	if err := decodeHash(s, &d.ParentHash); err != nil {
		return nil, err
	}
	if _, err := s.List(); err != nil {
		return nil, err
	}
	for !s.AtListEnd() {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		d.Children = append(d.Children, BytesToHash(b))
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return d, nil
}

// TransactionAddress locates a transaction by the block that contains
// it and its index within that block's transaction list.
type TransactionAddress struct {
	BlockHash Hash
	Index     uint64
}

func (a *TransactionAddress) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendBytes(payload, a.BlockHash.Bytes())
	payload = rlp.AppendUint64(payload, a.Index)
	return rlp.WrapList(payload)
}

func DecodeTransactionAddressRLP(data []byte) (*TransactionAddress, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	a := new(TransactionAddress)
	if err := decodeHash(s, &a.BlockHash); err != nil {
		return nil, err
	}
	var err error
	if a.Index, err = s.Uint64(); err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return a, nil
}

// BlockLogBlooms is the ordered per-transaction bloom list for a block.
type BlockLogBlooms struct {
	Blooms []Bloom
}

func (l *BlockLogBlooms) EncodeRLP() []byte {
	var items [][]byte
	for _, b := range l.Blooms {
		items = append(items, rlp.AppendBytes(nil, b.Bytes()))
	}
	return rlp.EncodeRawItems(items)
}

func DecodeBlockLogBloomsRLP(data []byte) (*BlockLogBlooms, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	l := new(BlockLogBlooms)
	for !s.AtListEnd() {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		l.Blooms = append(l.Blooms, BytesToBloom(b))
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return l, nil
}

// BlockReceipts is the ordered receipt list for a block, one entry per
// transaction.
type BlockReceipts struct {
	Receipts []*Receipt
}

func (r *BlockReceipts) EncodeRLP() []byte {
	var items [][]byte
	for _, rcpt := range r.Receipts {
		items = append(items, rcpt.EncodeRLP())
	}
	return rlp.EncodeRawItems(items)
}

func DecodeBlockReceiptsRLP(data []byte) (*BlockReceipts, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	br := new(BlockReceipts)
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		rcpt, err := DecodeReceiptRLP(raw)
		if err != nil {
			return nil, err
		}
		br.Receipts = append(br.Receipts, rcpt)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return br, nil
}

// BlocksBloomsChunk is one leaf or interior chunk of the hierarchical
// bloom index: a fixed-size vector of aggregated blooms.
type BlocksBloomsChunk struct {
	Blooms []Bloom
}

func (c *BlocksBloomsChunk) EncodeRLP() []byte {
	var items [][]byte
	for _, b := range c.Blooms {
		items = append(items, rlp.AppendBytes(nil, b.Bytes()))
	}
	return rlp.EncodeRawItems(items)
}

func DecodeBlocksBloomsChunkRLP(data []byte) (*BlocksBloomsChunk, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	c := new(BlocksBloomsChunk)
	for !s.AtListEnd() {
		b, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		c.Blooms = append(c.Blooms, BytesToBloom(b))
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return c, nil
}
