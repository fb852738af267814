package types

import (
	"math/big"
	"sync/atomic"

	"golang.org/x/crypto/sha3"

	"github.com/ethlayer/chaindb/rlp"
)

// Transaction is a legacy (pre-EIP-2718) signed transaction, the only
// shape the Frontier/Homestead eras this engine targets ever produced.
// Execution semantics belong to the external StateDB collaborator; the
// chain database only needs to store, hash and address-index it.
type Transaction struct {
	Nonce    uint64
	GasPrice *big.Int
	Gas      uint64
	To       *Address // nil for contract creation
	Value    *big.Int
	Data     []byte
	V, R, S  *big.Int

	hash atomic.Pointer[Hash]
}

// Hash returns the Keccak256 hash of the transaction's canonical RLP
// encoding, the key TransactionAddress records are stored under.
func (tx *Transaction) Hash() Hash {
	if cached := tx.hash.Load(); cached != nil {
		return *cached
	}
	d := sha3.NewLegacyKeccak256()
	d.Write(tx.EncodeRLP())
	h := BytesToHash(d.Sum(nil))
	tx.hash.Store(&h)
	return h
}

// EncodeRLP returns the canonical RLP encoding of the transaction.
func (tx *Transaction) EncodeRLP() []byte {
	var payload []byte
	payload = rlp.AppendUint64(payload, tx.Nonce)
	payload = append(payload, rlp.EncodeBigInt(tx.GasPrice)...)
	payload = rlp.AppendUint64(payload, tx.Gas)
	if tx.To != nil {
		payload = rlp.AppendBytes(payload, tx.To.Bytes())
	} else {
		payload = rlp.AppendBytes(payload, nil)
	}
	payload = append(payload, rlp.EncodeBigInt(tx.Value)...)
	payload = rlp.AppendBytes(payload, tx.Data)
	payload = append(payload, rlp.EncodeBigInt(tx.V)...)
	payload = append(payload, rlp.EncodeBigInt(tx.R)...)
	payload = append(payload, rlp.EncodeBigInt(tx.S)...)
	return rlp.WrapList(payload)
}

// DecodeTransactionRLP decodes a transaction previously produced by
// EncodeRLP.
func DecodeTransactionRLP(data []byte) (*Transaction, error) {
	s := rlp.NewStreamFromBytes(data)
	if _, err := s.List(); err != nil {
		return nil, err
	}
	tx := new(Transaction)
	var err error
	if tx.Nonce, err = s.Uint64(); err != nil {
		return nil, err
	}
	if tx.GasPrice, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.Gas, err = s.Uint64(); err != nil {
		return nil, err
	}
	to, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(to) > 0 {
		a := BytesToAddress(to)
		tx.To = &a
	}
	if tx.Value, err = s.BigInt(); err != nil {
		return nil, err
	}
	data2, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	tx.Data = append([]byte(nil), data2...)
	if tx.V, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.R, err = s.BigInt(); err != nil {
		return nil, err
	}
	if tx.S, err = s.BigInt(); err != nil {
		return nil, err
	}
	if err := s.ListEnd(); err != nil {
		return nil, err
	}
	return tx, nil
}
