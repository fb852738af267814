package types

import (
	"golang.org/x/crypto/sha3"

	"github.com/ethlayer/chaindb/rlp"
)

// EncodeRLP returns the canonical RLP encoding of the header: the 15
// Yellow-Paper fields in order, with no optional tail. Header fields
// are assembled by hand rather than through a generic reflection-based
// encoder, so the wire format stays stable regardless of how the
// Header struct itself evolves.
func (h *Header) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendBytes(payload, h.ParentHash.Bytes())
	payload = rlp.AppendBytes(payload, h.UnclesHash.Bytes())
	payload = rlp.AppendBytes(payload, h.Coinbase.Bytes())
	payload = rlp.AppendBytes(payload, h.StateRoot.Bytes())
	payload = rlp.AppendBytes(payload, h.TxHash.Bytes())
	payload = rlp.AppendBytes(payload, h.ReceiptHash.Bytes())
	payload = rlp.AppendBytes(payload, h.LogsBloom.Bytes())
	payload = append(payload, rlp.EncodeBigInt(h.Difficulty)...)
	payload = append(payload, rlp.EncodeBigInt(h.Number)...)
	payload = rlp.AppendUint64(payload, h.GasLimit)
	payload = rlp.AppendUint64(payload, h.GasUsed)
	payload = rlp.AppendUint64(payload, h.Time)
	payload = rlp.AppendBytes(payload, h.Extra)
	payload = rlp.AppendBytes(payload, h.MixDigest.Bytes())
	payload = rlp.AppendBytes(payload, h.Nonce[:])
	return rlp.WrapList(payload)
}

// DecodeHeaderRLP decodes a header previously produced by EncodeRLP.
func DecodeHeaderRLP(data []byte) (*Header, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	h := new(Header)

	if err := decodeHash(s, &h.ParentHash); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.UnclesHash); err != nil {
		return nil, err
	}
	if err := decodeAddress(s, &h.Coinbase); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.StateRoot); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.TxHash); err != nil {
		return nil, err
	}
	if err := decodeHash(s, &h.ReceiptHash); err != nil {
		return nil, err
	}
	if err := decodeBloom(s, &h.LogsBloom); err != nil {
		return nil, err
	}
	var err error
	if h.Difficulty, err = s.BigInt(); err != nil {
		return nil, err
	}
	if h.Number, err = s.BigInt(); err != nil {
		return nil, err
	}
	if h.GasLimit, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.GasUsed, err = s.Uint64(); err != nil {
		return nil, err
	}
	if h.Time, err = s.Uint64(); err != nil {
		return nil, err
	}
	extra, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	h.Extra = append([]byte(nil), extra...)
	if err := decodeHash(s, &h.MixDigest); err != nil {
		return nil, err
	}
	nonce, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	copy(h.Nonce[:], nonce)
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return h, nil
}

func decodeHash(s *rlp.Stream, out *Hash) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	out.SetBytes(b)
	return nil
}

func decodeAddress(s *rlp.Stream, out *Address) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	out.SetBytes(b)
	return nil
}

func decodeBloom(s *rlp.Stream, out *Bloom) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	out.SetBytes(b)
	return nil
}

func computeHeaderHash(h *Header) Hash {
	d := sha3.NewLegacyKeccak256()
	d.Write(h.EncodeRLP())
	return BytesToHash(d.Sum(nil))
}
