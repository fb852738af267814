package types

// Log is a single event emitted by contract execution. StateDB
// implementations attach the logs it produced to a Receipt; the chain
// database only needs their address and topics to fold them into a
// block's bloom filter.
type Log struct {
	Address     Address
	Topics      []Hash
	Data        []byte
	BlockNumber uint64
	TxHash      Hash
	TxIndex     uint
	BlockHash   Hash
	Index       uint
	Removed     bool
}
