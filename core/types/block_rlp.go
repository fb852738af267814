package types

import "github.com/ethlayer/chaindb/rlp"

// EncodeRLP returns the canonical RLP encoding of the block: a
// 3-element list of [header, transactions, uncles], the form stored
// verbatim under the block's hash in the blocks table.
func (b *Block) EncodeRLP() []byte {
	var payload []byte
	payload = append(payload, b.header.EncodeRLP()...)

	var txItems [][]byte
	for _, tx := range b.transactions {
		txItems = append(txItems, tx.EncodeRLP())
	}
	payload = append(payload, rlp.EncodeRawItems(txItems)...)

	var uncleItems [][]byte
	for _, u := range b.uncles {
		uncleItems = append(uncleItems, u.EncodeRLP())
	}
	payload = append(payload, rlp.EncodeRawItems(uncleItems)...)

	return rlp.WrapList(payload)
}

// DecodeBlockRLP decodes a block previously produced by EncodeRLP.
func DecodeBlockRLP(data []byte) (*Block, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}

	headerRaw, err := s.RawItem()
	if err != nil {
		return nil, err
	}
	header, err := DecodeHeaderRLP(headerRaw)
	if err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, err
	}
	var txs []*Transaction
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		tx, err := DecodeTransactionRLP(raw)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if _, err := s.List(); err != nil {
		return nil, err
	}
	var uncles []*Header
	for !s.AtListEnd() {
		raw, err := s.RawItem()
		if err != nil {
			return nil, err
		}
		u, err := DecodeHeaderRLP(raw)
		if err != nil {
			return nil, err
		}
		uncles = append(uncles, u)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return NewBlock(header, txs, uncles), nil
}
