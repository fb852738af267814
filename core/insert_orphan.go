package core

import (
	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

// InsertWithoutParent persists block together with caller-supplied
// receipts and totalDifficulty, skipping both the parent-exists check
// and transaction execution. It exists for partial-chain restoration
// (e.g. seeding from a trusted snapshot): a caller that already knows
// a contiguous run of ancestors' totalDifficulty values can lay them
// down without requiring stateDB to re-derive them.
//
// It never runs fork-choice and never moves the canonical head, even
// if the supplied totalDifficulty would beat the current head's. That
// is what keeps it safe despite trusting caller-supplied data: a block
// inserted this way only affects the canonical chain once a later,
// fully-verified Import call walks through it, at which point ordinary
// fork-choice reads the totalDifficulty recorded here and decides
// normally. This is the chosen resolution to whether an orphan segment
// rejoins the chain once its true parent arrives — rejoin happens
// transparently through the next qualifying Import, not through any
// action of InsertWithoutParent itself.
func (c *Chain) InsertWithoutParent(block *types.Block, receipts []*types.Receipt, totalDifficulty *uint256.Int) (*ImportRoute, *ImportError) {
	hashVal := block.Hash()
	var hash [32]byte
	copy(hash[:], hashVal.Bytes())

	c.importMu.Lock()
	defer c.importMu.Unlock()

	if c.store.HasBlock(hashVal) {
		return &ImportRoute{}, nil
	}

	blocksBatch := c.store.NewBlocksBatch()
	extrasBatch := c.store.NewExtrasBatch()

	if err := c.store.WriteBlockToBatch(blocksBatch, block); err != nil {
		return nil, newImportError(KindStorageError, hash, err)
	}

	details := &types.BlockDetails{
		Number:          block.Number(),
		TotalDifficulty: totalDifficulty,
		ParentHash:      block.ParentHash(),
	}
	if err := c.store.WriteDetailsToBatch(extrasBatch, hashVal, details); err != nil {
		return nil, newImportError(KindStorageError, hash, err)
	}

	// Best-effort back-reference: if the parent happens to already be
	// known (this call is filling a gap rather than extending an
	// unconnected tail), record the edge. If not, the reference is
	// simply absent until some later write supplies it.
	if parentDetails, err := c.store.ReadDetails(block.ParentHash()); err == nil {
		parentDetails.Children = append(parentDetails.Children, hashVal)
		if err := c.store.WriteDetailsToBatch(extrasBatch, block.ParentHash(), parentDetails); err != nil {
			return nil, newImportError(KindStorageError, hash, err)
		}
	}

	logBlooms := &types.BlockLogBlooms{Blooms: make([]types.Bloom, len(receipts))}
	for i, r := range receipts {
		logBlooms.Blooms[i] = r.Bloom
	}
	if err := c.store.WriteLogBloomsToBatch(extrasBatch, hashVal, logBlooms); err != nil {
		return nil, newImportError(KindStorageError, hash, err)
	}
	if err := c.store.WriteReceiptsToBatch(extrasBatch, hashVal, &types.BlockReceipts{Receipts: receipts}); err != nil {
		return nil, newImportError(KindStorageError, hash, err)
	}

	if err := c.store.Commit(blocksBatch, extrasBatch); err != nil {
		return nil, newImportError(KindStorageError, hash, err)
	}
	return &ImportRoute{}, nil
}
