package core

import (
	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
)

// bloomIndexSize is c_bloomIndexSize: the branching factor of the
// hierarchy and the slot count per chunk.
const bloomIndexSize = 16

// maxBloomLevel bounds how many levels the hierarchy maintains.
// 16^(maxBloomLevel+1) blocks is far beyond any real chain height; the
// cap exists only to give descent and ascent a fixed stopping point.
const maxBloomLevel = 8

// BloomHierarchy maintains the multi-level block-bloom chunk index
// described by the blocks-blooms extras kind: level 0 chunks hold one
// bloom per block, and each level above ORs together the 16 chunks
// (well, 16 slots spanning one full lower chunk each) beneath it.
// Every level's slot is updated directly from the block's own header
// bloom on insertion, which is equivalent to recomputing it from the
// child chunk because bitwise OR is associative — so no level needs to
// wait on another to be brought up to date.
type BloomHierarchy struct {
	store *rawdb.Store
}

// NewBloomHierarchy wires a hierarchy view atop store.
func NewBloomHierarchy(store *rawdb.Store) *BloomHierarchy {
	return &BloomHierarchy{store: store}
}

func pow16(n uint64) uint64 {
	r := uint64(1)
	for i := uint64(0); i < n; i++ {
		r *= bloomIndexSize
	}
	return r
}

// InsertBlock ORs bloom into every level's chunk slot covering block
// number n, staging the writes into batch.
func (bh *BloomHierarchy) InsertBlock(batch rawdb.Batch, n uint64, bloom types.Bloom) error {
	for level := uint64(0); level <= maxBloomLevel; level++ {
		chunkWidth := pow16(level + 1)
		slotWidth := pow16(level)
		chunkIndex := n / chunkWidth
		offset := (n / slotWidth) % bloomIndexSize

		chunk, _, err := bh.store.ReadBloomChunk(level, chunkIndex)
		if err != nil {
			return err
		}
		if chunk == nil {
			chunk = &types.BlocksBloomsChunk{Blooms: make([]types.Bloom, bloomIndexSize)}
		}
		chunk.Blooms[offset].Or(bloom)
		if err := bh.store.WriteBloomChunkToBatch(batch, level, chunkIndex, chunk); err != nil {
			return err
		}
	}
	return nil
}

// bloomChunkKey addresses a single chunk at a level, used both to track
// which upper chunks a reconciliation touches and to look up a chunk
// this same reconciliation already recomputed rather than re-reading
// (or re-deriving) it.
type bloomChunkKey struct{ level, index uint64 }

// ReconcileRange rewrites the level-0 slot for every number in numbers
// from canonicalBloomAt (zero if it reports no canonical block there
// any more) and recomputes every level above 0 for every chunk those
// numbers touch. Reorgs call this instead of InsertBlock because a
// reorg can both remove and add canonical blocks at overlapping
// numbers, and the upper levels only ever accumulate bits via OR — a
// removed block's bits cannot be un-ORed without recomputing the whole
// chunk from the blooms that remain canonical.
//
// Recomputation walks one level at a time, level 1 upward, and derives
// each chunk as the OR of its 16 child-level chunks' own aggregate
// blooms rather than re-deriving from the raw leaf blocks a chunk
// spans — at level 8 that span is 16^8 blocks, far more than any real
// reorg or rewind touches directly.
func (bh *BloomHierarchy) ReconcileRange(batch rawdb.Batch, numbers []uint64, canonicalBloomAt func(uint64) (types.Bloom, bool)) error {
	recomputed := make(map[bloomChunkKey]*types.BlocksBloomsChunk)
	touchedByLevel := make(map[uint64]map[uint64]struct{})

	level0Chunks := make(map[uint64]*types.BlocksBloomsChunk)
	for _, n := range numbers {
		idx0 := n / bloomIndexSize
		chunk, ok := level0Chunks[idx0]
		if !ok {
			c, _, err := bh.store.ReadBloomChunk(0, idx0)
			if err != nil {
				return err
			}
			if c == nil {
				c = &types.BlocksBloomsChunk{Blooms: make([]types.Bloom, bloomIndexSize)}
			}
			chunk = c
			level0Chunks[idx0] = chunk
		}
		bloom, has := canonicalBloomAt(n)
		if !has {
			bloom = types.Bloom{}
		}
		chunk.Blooms[n%bloomIndexSize] = bloom

		for level := uint64(1); level <= maxBloomLevel; level++ {
			chunkWidth := pow16(level + 1)
			idx := n / chunkWidth
			if touchedByLevel[level] == nil {
				touchedByLevel[level] = make(map[uint64]struct{})
			}
			touchedByLevel[level][idx] = struct{}{}
		}
	}

	for idx0, chunk := range level0Chunks {
		recomputed[bloomChunkKey{0, idx0}] = chunk
		if err := bh.store.WriteBloomChunkToBatch(batch, 0, idx0, chunk); err != nil {
			return err
		}
	}

	for level := uint64(1); level <= maxBloomLevel; level++ {
		for chunkIndex := range touchedByLevel[level] {
			chunk, err := bh.recomputeChunk(level, chunkIndex, recomputed)
			if err != nil {
				return err
			}
			recomputed[bloomChunkKey{level, chunkIndex}] = chunk
			if err := bh.store.WriteBloomChunkToBatch(batch, level, chunkIndex, chunk); err != nil {
				return err
			}
		}
	}
	return nil
}

// recomputeChunk rebuilds a level chunk as the OR of the 16 aggregate
// blooms belonging to its child chunk one level down. Each child
// contributes a single bloom, that chunk's own 16 slots ORed together,
// so this never touches more than 16 chunks regardless of level.
func (bh *BloomHierarchy) recomputeChunk(level, chunkIndex uint64, recomputed map[bloomChunkKey]*types.BlocksBloomsChunk) (*types.BlocksBloomsChunk, error) {
	chunk := &types.BlocksBloomsChunk{Blooms: make([]types.Bloom, bloomIndexSize)}
	for offset := uint64(0); offset < bloomIndexSize; offset++ {
		childIndex := chunkIndex*bloomIndexSize + offset
		child, err := bh.childChunk(level-1, childIndex, recomputed)
		if err != nil {
			return nil, err
		}
		var agg types.Bloom
		if child != nil {
			for _, b := range child.Blooms {
				agg.Or(b)
			}
		}
		chunk.Blooms[offset] = agg
	}
	return chunk, nil
}

// childChunk favors a chunk this same reconciliation already
// recomputed over a fresh store read, since the persisted copy is
// still the pre-reorg value until the batch this call is building
// commits.
func (bh *BloomHierarchy) childChunk(level, index uint64, recomputed map[bloomChunkKey]*types.BlocksBloomsChunk) (*types.BlocksBloomsChunk, error) {
	if c, ok := recomputed[bloomChunkKey{level, index}]; ok {
		return c, nil
	}
	c, _, err := bh.store.ReadBloomChunk(level, index)
	return c, err
}

// WithBlockBloom returns every block number in [lo, hi) whose header
// bloom could contain b, descending the hierarchy and pruning chunks
// whose aggregated bloom rules b out.
func (bh *BloomHierarchy) WithBlockBloom(b types.Bloom, lo, hi uint64) ([]uint64, error) {
	var out []uint64
	if err := bh.search(maxBloomLevel, 0, b, lo, hi, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (bh *BloomHierarchy) search(level, chunkIndex uint64, b types.Bloom, lo, hi uint64, out *[]uint64) error {
	chunkWidth := pow16(level + 1)
	chunkStart := chunkIndex * chunkWidth
	if chunkStart >= hi || chunkStart+chunkWidth <= lo {
		return nil
	}
	chunk, ok, err := bh.store.ReadBloomChunk(level, chunkIndex)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	slotWidth := pow16(level)
	for offset := uint64(0); offset < bloomIndexSize; offset++ {
		slotStart := chunkStart + offset*slotWidth
		slotEnd := slotStart + slotWidth
		if slotEnd <= lo || slotStart >= hi {
			continue
		}
		if !chunk.Blooms[offset].Includes(b) {
			continue
		}
		if level == 0 {
			*out = append(*out, slotStart)
			continue
		}
		childIndex := chunkIndex*bloomIndexSize + offset
		if err := bh.search(level-1, childIndex, b, lo, hi, out); err != nil {
			return err
		}
	}
	return nil
}
