package types

import "github.com/ethlayer/chaindb/rlp"

// Receipt is the outcome of executing one transaction. The
// Frontier/Homestead eras this engine targets recorded the
// intermediate state root rather than a boolean status, so PostState
// carries that root; StateDB populates it during execution.
type Receipt struct {
	PostState         []byte
	CumulativeGasUsed uint64
	Bloom             Bloom
	Logs              []*Log
}

// EncodeRLP returns the canonical RLP encoding of the receipt. Logs
// are encoded as (address, topics, data) triples, matching the shape
// used to recompute the receipt's own bloom.
func (r *Receipt) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendBytes(payload, r.PostState)
	payload = rlp.AppendUint64(payload, r.CumulativeGasUsed)
	payload = rlp.AppendBytes(payload, r.Bloom.Bytes())

	var logItems [][]byte
	for _, l := range r.Logs {
		logItems = append(logItems, encodeLog(l))
	}
	payload = append(payload, rlp.EncodeRawItems(logItems)...)
	return rlp.WrapList(payload)
}

func encodeLog(l *Log) []byte {
	var payload []byte
	payload = rlp.AppendBytes(payload, l.Address.Bytes())
	var topicItems [][]byte
	for _, t := range l.Topics {
		topicItems = append(topicItems, rlp.AppendBytes(nil, t.Bytes()))
	}
	payload = append(payload, rlp.EncodeRawItems(topicItems)...)
	payload = rlp.AppendBytes(payload, l.Data)
	return rlp.WrapList(payload)
}

// DecodeReceiptRLP decodes a receipt previously produced by EncodeRLP.
func DecodeReceiptRLP(data []byte) (*Receipt, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	r := new(Receipt)
	postState, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	r.PostState = append([]byte(nil), postState...)
	if r.CumulativeGasUsed, err = s.Uint64(); err != nil {
		return nil, err
	}
	bloomBytes, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	r.Bloom.SetBytes(bloomBytes)

	if _, err := s.List(); err != nil {
		return nil, err
	}
	for !s.AtListEnd() {
		l, err := decodeLog(s)
		if err != nil {
			return nil, err
		}
		r.Logs = append(r.Logs, l)
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return r, nil
}

func decodeLog(s *rlp.Stream) (*Log, error) {
	if _, err := s.List(); err != nil {
		return nil, err
	}
	l := new(Log)
	addr, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	l.Address.SetBytes(addr)

	if _, err := s.List(); err != nil {
		return nil, err
	}
	for !s.AtListEnd() {
		tb, err := s.Bytes()
		if err != nil {
			return nil, err
		}
		l.Topics = append(l.Topics, BytesToHash(tb))
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}

	data, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	l.Data = append([]byte(nil), data...)
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return l, nil
}
