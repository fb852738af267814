package core

import (
	"errors"
	"sort"

	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

var (
	errNoHead                  = errors.New("core: no canonical head set")
	errRewindAboveHead         = errors.New("core: rewind target is above the current head")
	errRewindTargetUnknown     = errors.New("core: rewind target number has no canonical hash")
	errRebuildCancelled        = errors.New("core: rebuild or rescue cancelled by progress callback")
	errRescueNoConsistentChain = errors.New("core: no block has a consistent parent chain back to genesis")
)

// ProgressFunc reports (done, total) as a long-running operation makes
// progress. Returning false asks the operation to stop at the next
// safe point, the only cancellation granularity Rebuild and Rescue
// offer.
type ProgressFunc func(done, total int) bool

// Rewind moves the canonical head back to block number n, clearing
// every index entry (TransactionAddress, BlockHashByNumber, bloom
// slot) for numbers above n. Block bodies are left untouched — a
// rewound block is still readable by hash, just no longer addressable
// by number or canonical lookup.
func (c *Chain) Rewind(n uint64) error {
	c.importMu.Lock()
	defer c.importMu.Unlock()

	_, headNumber, ok := c.store.Head()
	if !ok {
		return errNoHead
	}
	if n > headNumber {
		return errRewindAboveHead
	}
	newHead, ok, err := c.store.ReadBlockHashByNumber(n)
	if err != nil {
		return err
	}
	if !ok {
		return errRewindTargetUnknown
	}

	batch := c.store.NewExtrasBatch()
	var stale []uint64
	for m := n + 1; m <= headNumber; m++ {
		hash, ok, err := c.store.ReadBlockHashByNumber(m)
		if err != nil {
			return err
		}
		if ok {
			if block, err := c.store.ReadBlock(hash); err == nil {
				for _, tx := range block.Transactions() {
					if err := c.store.DeleteTransactionAddressToBatch(batch, tx.Hash()); err != nil {
						return err
					}
				}
			}
			if err := c.store.DeleteBlockHashByNumberToBatch(batch, m); err != nil {
				return err
			}
		}
		stale = append(stale, m)
	}

	if len(stale) > 0 {
		alwaysAbsent := func(uint64) (types.Bloom, bool) { return types.Bloom{}, false }
		if err := c.blooms.ReconcileRange(batch, stale, alwaysAbsent); err != nil {
			return err
		}
	}

	if err := c.store.WriteHeadToBatch(batch, newHead, n); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	c.store.SetHead(newHead, n)
	return nil
}

// RebuildIndex replays every block still present in the blocks table
// to reconstruct the derived parts of the extras table: BlockDetails
// (number, totalDifficulty, parentHash, children) for every block
// reachable from some root, then the canonical-only entries
// (BlockHashByNumber, TransactionAddress, bloom slots) along whichever
// chain has the greatest total difficulty. Blocks are visited in
// parent-first (topological) order rather than hash order, since
// details and totalDifficulty cannot be computed for a block before
// its parent's are known. Per-block receipts and log blooms, keyed by
// the block's own hash, are untouched: a corrupted index never
// invalidates them, so there is nothing to re-execute.
func (c *Chain) RebuildIndex(progress ProgressFunc) error {
	c.importMu.Lock()
	defer c.importMu.Unlock()

	it := c.store.BlocksIterator()
	var hashes []types.Hash
	headers := make(map[types.Hash]*types.Header)
	for it.Next() {
		h := types.BytesToHash(it.Key())
		block, err := c.store.ReadBlock(h)
		if err != nil {
			continue
		}
		hashes = append(hashes, h)
		headers[h] = block.Header()
	}
	it.Release()

	order := topologicalOrder(hashes, headers)
	total := len(order)
	extrasBatch := c.store.NewExtrasBatch()
	childrenOf := make(map[types.Hash][]types.Hash)
	totalDifficultyOf := make(map[types.Hash]*uint256.Int)

	var bestHead types.Hash
	var bestTD *uint256.Int

	for i, h := range order {
		header := headers[h]
		var td *uint256.Int
		if header.NumberU64() == 0 {
			v, overflow := uint256.FromBig(header.Difficulty)
			if overflow {
				v = new(uint256.Int).SetAllOne()
			}
			td = v
		} else {
			parentTD, ok := totalDifficultyOf[header.ParentHash]
			if !ok {
				// Parent outside the known set: treat as an orphan root
				// with its own difficulty as a floor.
				v, overflow := uint256.FromBig(header.Difficulty)
				if overflow {
					v = new(uint256.Int).SetAllOne()
				}
				td = v
			} else {
				blockDiff, overflow := uint256.FromBig(header.Difficulty)
				if overflow {
					blockDiff = new(uint256.Int).SetAllOne()
				}
				td = new(uint256.Int).Add(parentTD, blockDiff)
			}
			childrenOf[header.ParentHash] = append(childrenOf[header.ParentHash], h)
		}
		totalDifficultyOf[h] = td

		if bestTD == nil || td.Cmp(bestTD) > 0 {
			bestTD = td
			bestHead = h
		}

		if progress != nil && !progress(i+1, total) {
			return errRebuildCancelled
		}
	}

	for h, td := range totalDifficultyOf {
		details := &types.BlockDetails{
			Number:          headers[h].NumberU64(),
			TotalDifficulty: td,
			ParentHash:      headers[h].ParentHash,
			Children:        childrenOf[h],
		}
		if err := c.store.WriteDetailsToBatch(extrasBatch, h, details); err != nil {
			return err
		}
	}

	if err := c.reindexCanonicalPath(extrasBatch, bestHead); err != nil {
		return err
	}
	if err := extrasBatch.Write(); err != nil {
		return err
	}
	c.store.SetHead(bestHead, headers[bestHead].NumberU64())
	return nil
}

// Rescue scans the blocks table for the highest-totalDifficulty chain
// whose every block has a consistent, fully known parent chain back
// to genesis, adopts it as canonical, and reindexes it. Unlike
// RebuildIndex it does not attempt to preserve any side-chain details,
// only the single winning path.
func (c *Chain) Rescue(progress ProgressFunc) error {
	c.importMu.Lock()
	defer c.importMu.Unlock()

	it := c.store.BlocksIterator()
	headers := make(map[types.Hash]*types.Header)
	var hashes []types.Hash
	for it.Next() {
		h := types.BytesToHash(it.Key())
		block, err := c.store.ReadBlock(h)
		if err != nil {
			continue
		}
		headers[h] = block.Header()
		hashes = append(hashes, h)
	}
	it.Release()

	var bestHead types.Hash
	var bestTD *uint256.Int
	total := len(hashes)
	for i, h := range hashes {
		td, consistent := chainTotalDifficulty(h, headers)
		if consistent && (bestTD == nil || td.Cmp(bestTD) > 0) {
			bestTD = td
			bestHead = h
		}
		if progress != nil && !progress(i+1, total) {
			return errRebuildCancelled
		}
	}
	if bestTD == nil {
		return errRescueNoConsistentChain
	}

	extrasBatch := c.store.NewExtrasBatch()
	cur := bestHead
	for {
		header := headers[cur]
		var parentTD *uint256.Int
		if header.NumberU64() == 0 {
			parentTD = new(uint256.Int)
		} else {
			pd, _ := chainTotalDifficulty(header.ParentHash, headers)
			parentTD = pd
		}
		blockDiff, overflow := uint256.FromBig(header.Difficulty)
		if overflow {
			blockDiff = new(uint256.Int).SetAllOne()
		}
		td := new(uint256.Int).Add(parentTD, blockDiff)
		details := &types.BlockDetails{Number: header.NumberU64(), TotalDifficulty: td, ParentHash: header.ParentHash}
		if err := c.store.WriteDetailsToBatch(extrasBatch, cur, details); err != nil {
			return err
		}
		if header.NumberU64() == 0 {
			break
		}
		cur = header.ParentHash
	}

	if err := c.reindexCanonicalPath(extrasBatch, bestHead); err != nil {
		return err
	}
	if err := extrasBatch.Write(); err != nil {
		return err
	}
	c.store.SetHead(bestHead, headers[bestHead].NumberU64())
	return nil
}

// reindexCanonicalPath walks head back to genesis writing
// BlockHashByNumber, TransactionAddress and bloom-hierarchy entries
// for every block on the path.
func (c *Chain) reindexCanonicalPath(batch rawdb.Batch, head types.Hash) error {
	var numbers []uint64
	blooms := make(map[uint64]types.Bloom)

	cur := head
	for {
		block, err := c.store.ReadBlock(cur)
		if err != nil {
			return err
		}
		number := block.Number()
		if err := c.store.WriteBlockHashByNumberToBatch(batch, number, cur); err != nil {
			return err
		}
		for i, tx := range block.Transactions() {
			addr := &types.TransactionAddress{BlockHash: cur, Index: uint64(i)}
			if err := c.store.WriteTransactionAddressToBatch(batch, tx.Hash(), addr); err != nil {
				return err
			}
		}
		numbers = append(numbers, number)
		blooms[number] = block.LogsBloom()

		if number == 0 {
			break
		}
		cur = block.ParentHash()
	}

	canonicalBloomAt := func(n uint64) (types.Bloom, bool) {
		b, ok := blooms[n]
		return b, ok
	}
	return c.blooms.ReconcileRange(batch, numbers, canonicalBloomAt)
}

func chainTotalDifficulty(head types.Hash, headers map[types.Hash]*types.Header) (*uint256.Int, bool) {
	var chain []*types.Header
	cur := head
	for {
		h, ok := headers[cur]
		if !ok {
			return nil, false
		}
		chain = append(chain, h)
		if h.NumberU64() == 0 {
			break
		}
		cur = h.ParentHash
	}
	td := new(uint256.Int)
	for i := len(chain) - 1; i >= 0; i-- {
		d, overflow := uint256.FromBig(chain[i].Difficulty)
		if overflow {
			d = new(uint256.Int).SetAllOne()
		}
		td.Add(td, d)
	}
	return td, true
}

// topologicalOrder returns hashes ordered so that every block appears
// after its parent, using Kahn's algorithm over the parent-hash DAG.
// A block whose parent is outside the known set counts as a root.
func topologicalOrder(hashes []types.Hash, headers map[types.Hash]*types.Header) []types.Hash {
	children := make(map[types.Hash][]types.Hash)
	indegree := make(map[types.Hash]int)
	known := make(map[types.Hash]bool, len(hashes))
	for _, h := range hashes {
		known[h] = true
	}
	for _, h := range hashes {
		p := headers[h].ParentHash
		if known[p] {
			children[p] = append(children[p], h)
			indegree[h]++
		}
	}

	var queue []types.Hash
	for _, h := range hashes {
		if indegree[h] == 0 {
			queue = append(queue, h)
		}
	}
	sort.Slice(queue, func(i, j int) bool { return headers[queue[i]].NumberU64() < headers[queue[j]].NumberU64() })

	var order []types.Hash
	for len(queue) > 0 {
		h := queue[0]
		queue = queue[1:]
		order = append(order, h)
		for _, child := range children[h] {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}
	return order
}
