package rawdb

import (
	"encoding/binary"
	"sync"

	"github.com/ethlayer/chaindb/core/types"
)

// Store owns the two physical key-value databases (blocks and extras)
// and the bounded caches fronting each extras kind. It is the single
// point through which the import engine and every query path reach
// persisted state.
//
// blocks and extras are opened as independent physical stores, so a
// single import's writes cannot be committed as one atomic
// transaction across both. Commit writes the blocks batch first and
// the extras batch second: a crash between the two can leave a block
// persisted with no BlockDetails yet, which RebuildIndex reconstructs
// from the blocks table alone, but never the reverse (extras
// referencing a block that was never written).
type Store struct {
	blocks Database
	extras Database

	blockCache      *BoundedCache[types.Hash, *types.Block]
	headerCache     *BoundedCache[types.Hash, *types.Header]
	detailsCache    *BoundedCache[types.Hash, *types.BlockDetails]
	numberCache     *BoundedCache[uint64, types.Hash]
	txAddrCache     *BoundedCache[types.Hash, *types.TransactionAddress]
	logBloomsCache  *BoundedCache[types.Hash, *types.BlockLogBlooms]
	receiptsCache   *BoundedCache[types.Hash, *types.BlockReceipts]
	bloomChunkCache *BoundedCache[uint64, *types.BlocksBloomsChunk]

	headMu     sync.RWMutex
	headHash   types.Hash
	headNumber uint64
	headKnown  bool
}

// NewStore wires a Store around two already-open physical databases.
func NewStore(blocks, extras Database) *Store {
	return &Store{
		blocks:          blocks,
		extras:          extras,
		blockCache:      NewBoundedCache[types.Hash, *types.Block](0),
		headerCache:     NewBoundedCache[types.Hash, *types.Header](0),
		detailsCache:    NewBoundedCache[types.Hash, *types.BlockDetails](0),
		numberCache:     NewBoundedCache[uint64, types.Hash](0),
		txAddrCache:     NewBoundedCache[types.Hash, *types.TransactionAddress](0),
		logBloomsCache:  NewBoundedCache[types.Hash, *types.BlockLogBlooms](0),
		receiptsCache:   NewBoundedCache[types.Hash, *types.BlockReceipts](0),
		bloomChunkCache: NewBoundedCache[uint64, *types.BlocksBloomsChunk](0),
	}
}

// Close releases both physical databases.
func (s *Store) Close() error {
	if err := s.blocks.Close(); err != nil {
		return err
	}
	return s.extras.Close()
}

// NewBlocksBatch and NewExtrasBatch expose the two underlying batches
// the import engine stages a block's writes into.
func (s *Store) NewBlocksBatch() Batch { return s.blocks.NewBatch() }
func (s *Store) NewExtrasBatch() Batch { return s.extras.NewBatch() }

// Commit applies the blocks batch, then the extras batch. See the
// Store doc comment for the ordering rationale.
func (s *Store) Commit(blocksBatch, extrasBatch Batch) error {
	if blocksBatch != nil && blocksBatch.ValueSize() > 0 {
		if err := blocksBatch.Write(); err != nil {
			return err
		}
	}
	if extrasBatch != nil && extrasBatch.ValueSize() > 0 {
		if err := extrasBatch.Write(); err != nil {
			return err
		}
	}
	return nil
}

// ReadBlock returns the full block for hash, consulting the cache
// first.
func (s *Store) ReadBlock(hash types.Hash) (*types.Block, error) {
	if b, ok := s.blockCache.Get(hash); ok {
		return b, nil
	}
	raw, err := s.blocks.Get(hash.Bytes())
	if err != nil {
		return nil, err
	}
	block, err := types.DecodeBlockRLP(raw)
	if err != nil {
		return nil, err
	}
	s.blockCache.Insert(hash, block)
	return block, nil
}

// HasBlock reports whether hash is present in the blocks store.
func (s *Store) HasBlock(hash types.Hash) bool {
	if _, ok := s.blockCache.Get(hash); ok {
		return true
	}
	ok, _ := s.blocks.Has(hash.Bytes())
	return ok
}

// WriteBlockToBatch stages block's canonical encoding into batch,
// keyed by its hash.
func (s *Store) WriteBlockToBatch(batch Batch, block *types.Block) error {
	if err := batch.Put(block.Hash().Bytes(), block.EncodeRLP()); err != nil {
		return err
	}
	s.blockCache.Insert(block.Hash(), block)
	return nil
}

// ReadHeader returns just the header for hash, extracted from the
// full block if not separately cached.
func (s *Store) ReadHeader(hash types.Hash) (*types.Header, error) {
	if h, ok := s.headerCache.Get(hash); ok {
		return h, nil
	}
	block, err := s.ReadBlock(hash)
	if err != nil {
		return nil, err
	}
	h := block.Header()
	s.headerCache.Insert(hash, h)
	return h, nil
}

// ReadDetails returns the BlockDetails record for hash.
func (s *Store) ReadDetails(hash types.Hash) (*types.BlockDetails, error) {
	if d, ok := s.detailsCache.Get(hash); ok {
		return d, nil
	}
	raw, err := s.extras.Get(DetailsKey(hash))
	if err != nil {
		return nil, err
	}
	d, err := types.DecodeBlockDetailsRLP(raw)
	if err != nil {
		return nil, err
	}
	s.detailsCache.Insert(hash, d)
	return d, nil
}

// WriteDetailsToBatch stages a BlockDetails record and refreshes the
// cache.
func (s *Store) WriteDetailsToBatch(batch Batch, hash types.Hash, d *types.BlockDetails) error {
	if err := batch.Put(DetailsKey(hash), d.EncodeRLP()); err != nil {
		return err
	}
	s.detailsCache.Insert(hash, d)
	return nil
}

// ReadBlockHashByNumber returns the canonical hash at number, if any.
func (s *Store) ReadBlockHashByNumber(number uint64) (types.Hash, bool, error) {
	if h, ok := s.numberCache.Get(number); ok {
		return h, true, nil
	}
	raw, err := s.extras.Get(BlockHashByNumberKey(number))
	if err == ErrNotFound {
		return types.Hash{}, false, nil
	}
	if err != nil {
		return types.Hash{}, false, err
	}
	h := types.BytesToHash(raw)
	s.numberCache.Insert(number, h)
	return h, true, nil
}

// WriteBlockHashByNumberToBatch stages the canonical hash at number.
func (s *Store) WriteBlockHashByNumberToBatch(batch Batch, number uint64, hash types.Hash) error {
	if err := batch.Put(BlockHashByNumberKey(number), hash.Bytes()); err != nil {
		return err
	}
	s.numberCache.Insert(number, hash)
	return nil
}

// DeleteBlockHashByNumberToBatch removes the canonical-hash mapping
// for number, used when a reorg or rewind demotes it.
func (s *Store) DeleteBlockHashByNumberToBatch(batch Batch, number uint64) error {
	if err := batch.Delete(BlockHashByNumberKey(number)); err != nil {
		return err
	}
	s.numberCache.Remove(number)
	return nil
}

// ReadTransactionAddress locates a transaction by its hash.
func (s *Store) ReadTransactionAddress(txHash types.Hash) (*types.TransactionAddress, bool, error) {
	if a, ok := s.txAddrCache.Get(txHash); ok {
		return a, true, nil
	}
	raw, err := s.extras.Get(TransactionAddressKey(txHash))
	if err == ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := types.DecodeTransactionAddressRLP(raw)
	if err != nil {
		return nil, false, err
	}
	s.txAddrCache.Insert(txHash, a)
	return a, true, nil
}

// WriteTransactionAddressToBatch stages a is transaction locator.
func (s *Store) WriteTransactionAddressToBatch(batch Batch, txHash types.Hash, a *types.TransactionAddress) error {
	if err := batch.Put(TransactionAddressKey(txHash), a.EncodeRLP()); err != nil {
		return err
	}
	s.txAddrCache.Insert(txHash, a)
	return nil
}

// DeleteTransactionAddressToBatch removes a transaction's locator, used
// when its containing block leaves the canonical chain.
func (s *Store) DeleteTransactionAddressToBatch(batch Batch, txHash types.Hash) error {
	if err := batch.Delete(TransactionAddressKey(txHash)); err != nil {
		return err
	}
	s.txAddrCache.Remove(txHash)
	return nil
}

// ReadLogBlooms returns a block's per-transaction bloom list.
func (s *Store) ReadLogBlooms(blockHash types.Hash) (*types.BlockLogBlooms, bool, error) {
	if l, ok := s.logBloomsCache.Get(blockHash); ok {
		return l, true, nil
	}
	raw, err := s.extras.Get(LogBloomsKey(blockHash))
	if err == ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	l, err := types.DecodeBlockLogBloomsRLP(raw)
	if err != nil {
		return nil, false, err
	}
	s.logBloomsCache.Insert(blockHash, l)
	return l, true, nil
}

// WriteLogBloomsToBatch stages a block's per-transaction bloom list.
func (s *Store) WriteLogBloomsToBatch(batch Batch, blockHash types.Hash, l *types.BlockLogBlooms) error {
	if err := batch.Put(LogBloomsKey(blockHash), l.EncodeRLP()); err != nil {
		return err
	}
	s.logBloomsCache.Insert(blockHash, l)
	return nil
}

// ReadReceipts returns a block's receipt list.
func (s *Store) ReadReceipts(blockHash types.Hash) (*types.BlockReceipts, bool, error) {
	if r, ok := s.receiptsCache.Get(blockHash); ok {
		return r, true, nil
	}
	raw, err := s.extras.Get(ReceiptsKey(blockHash))
	if err == ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	r, err := types.DecodeBlockReceiptsRLP(raw)
	if err != nil {
		return nil, false, err
	}
	s.receiptsCache.Insert(blockHash, r)
	return r, true, nil
}

// WriteReceiptsToBatch stages a block's receipt list.
func (s *Store) WriteReceiptsToBatch(batch Batch, blockHash types.Hash, r *types.BlockReceipts) error {
	if err := batch.Put(ReceiptsKey(blockHash), r.EncodeRLP()); err != nil {
		return err
	}
	s.receiptsCache.Insert(blockHash, r)
	return nil
}

// ReadBloomChunk returns the bloom-hierarchy chunk at (level, index).
func (s *Store) ReadBloomChunk(level, index uint64) (*types.BlocksBloomsChunk, bool, error) {
	id := ChunkID(level, index)
	if c, ok := s.bloomChunkCache.Get(id); ok {
		return c, true, nil
	}
	raw, err := s.extras.Get(BlocksBloomsKey(level, index))
	if err == ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	c, err := types.DecodeBlocksBloomsChunkRLP(raw)
	if err != nil {
		return nil, false, err
	}
	s.bloomChunkCache.Insert(id, c)
	return c, true, nil
}

// WriteBloomChunkToBatch stages a bloom-hierarchy chunk.
func (s *Store) WriteBloomChunkToBatch(batch Batch, level, index uint64, c *types.BlocksBloomsChunk) error {
	id := ChunkID(level, index)
	if err := batch.Put(BlocksBloomsKey(level, index), c.EncodeRLP()); err != nil {
		return err
	}
	s.bloomChunkCache.Insert(id, c)
	return nil
}

// Head returns the current canonical head hash and number.
func (s *Store) Head() (types.Hash, uint64, bool) {
	s.headMu.RLock()
	defer s.headMu.RUnlock()
	return s.headHash, s.headNumber, s.headKnown
}

// SetHead updates the in-memory head pointer. Callers persist it via
// WriteHeadToBatch under the same import lock before calling this, so
// that a reader taking headMu never observes a head not yet durable.
func (s *Store) SetHead(hash types.Hash, number uint64) {
	s.headMu.Lock()
	s.headHash = hash
	s.headNumber = number
	s.headKnown = true
	s.headMu.Unlock()
}

// WriteHeadToBatch stages the head pointer into the extras batch.
func (s *Store) WriteHeadToBatch(batch Batch, hash types.Hash, number uint64) error {
	if err := batch.Put(headHashKey, hash.Bytes()); err != nil {
		return err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], number)
	return batch.Put(headNumberKey, buf[:])
}

// ReadHead loads the persisted head pointer, used on reopen.
func (s *Store) ReadHead() (types.Hash, uint64, bool, error) {
	hashRaw, err := s.extras.Get(headHashKey)
	if err == ErrNotFound {
		return types.Hash{}, 0, false, nil
	}
	if err != nil {
		return types.Hash{}, 0, false, err
	}
	numRaw, err := s.extras.Get(headNumberKey)
	if err != nil {
		return types.Hash{}, 0, false, err
	}
	return types.BytesToHash(hashRaw), binary.BigEndian.Uint64(numRaw), true, nil
}

// ReadGenesisHash and WriteGenesisHash manage the version sentinel's
// genesis-hash field. InitGenesis writes it; nothing in this module
// reads it back or compares it when a store is opened.
func (s *Store) ReadGenesisHash() (types.Hash, bool, error) {
	raw, err := s.extras.Get(genesisHashKey)
	if err == ErrNotFound {
		return types.Hash{}, false, nil
	}
	if err != nil {
		return types.Hash{}, false, err
	}
	return types.BytesToHash(raw), true, nil
}

func (s *Store) WriteGenesisHash(hash types.Hash) error {
	return s.extras.Put(genesisHashKey, hash.Bytes())
}

// ReadSchemaVersion and WriteSchemaVersion manage the version sentinel.
func (s *Store) ReadSchemaVersion() (int, bool, error) {
	raw, err := s.extras.Get(versionKey)
	if err == ErrNotFound {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if len(raw) < 8 {
		return 0, false, nil
	}
	return int(binary.BigEndian.Uint64(raw)), true, nil
}

func (s *Store) WriteSchemaVersion(v int) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(v))
	return s.extras.Put(versionKey, buf[:])
}

// Process advances every cache's generation window by one tick.
func (s *Store) Process() {
	s.blockCache.Process()
	s.headerCache.Process()
	s.detailsCache.Process()
	s.numberCache.Process()
	s.txAddrCache.Process()
	s.logBloomsCache.Process()
	s.receiptsCache.Process()
	s.bloomChunkCache.Process()
}

// GarbageCollect forces (or conditionally triggers) a full sweep of
// every cache.
func (s *Store) GarbageCollect(force bool) {
	s.blockCache.GarbageCollect(force)
	s.headerCache.GarbageCollect(force)
	s.detailsCache.GarbageCollect(force)
	s.numberCache.GarbageCollect(force)
	s.txAddrCache.GarbageCollect(force)
	s.logBloomsCache.GarbageCollect(force)
	s.receiptsCache.GarbageCollect(force)
	s.bloomChunkCache.GarbageCollect(force)
}

// Statistics is a point-in-time snapshot of cache occupancy, the core
// of the Statistics & GC component's `usage` report.
type Statistics struct {
	Blocks              int
	Headers             int
	Details             int
	BlockHashByNumber   int
	TransactionAddress  int
	LogBlooms           int
	Receipts            int
	BlocksBlooms        int
}

// Usage returns the current cache occupancy across every kind.
func (s *Store) Usage() Statistics {
	return Statistics{
		Blocks:             s.blockCache.Len(),
		Headers:            s.headerCache.Len(),
		Details:            s.detailsCache.Len(),
		BlockHashByNumber:  s.numberCache.Len(),
		TransactionAddress: s.txAddrCache.Len(),
		LogBlooms:          s.logBloomsCache.Len(),
		Receipts:           s.receiptsCache.Len(),
		BlocksBlooms:       s.bloomChunkCache.Len(),
	}
}

// BlocksIterator returns an iterator over every stored block, in hash
// order, used by Rebuild and Rescue.
func (s *Store) BlocksIterator() Iterator {
	return s.blocks.NewIterator(nil)
}
