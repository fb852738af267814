package core

import (
	"testing"

	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

// TestRebuildIndexReplaysBlocksTable covers RebuildIndex reconstructing
// BlockDetails and the canonical number index from the blocks table;
// it runs over the existing extras and must reproduce the same head.
func TestRebuildIndexReplaysBlocksTable(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	a1 := childBlock(t, params, genesis, 5)
	a2 := childBlock(t, params, a1, 5)
	mustImport(t, chain, a1)
	mustImport(t, chain, a2)

	if err := chain.RebuildIndex(nil); err != nil {
		t.Fatalf("rebuild: %v", err)
	}

	hash, number, ok := chain.store.Head()
	if !ok || hash != a2.Hash() || number != 2 {
		t.Fatalf("expected head rebuilt to a2, got hash=%x number=%d ok=%v", hash, number, ok)
	}

	byNumber, present, err := chain.store.ReadBlockHashByNumber(1)
	if err != nil || !present || byNumber != a1.Hash() {
		t.Fatalf("expected numberHash(1)=a1 after rebuild, got hash=%x present=%v err=%v", byNumber, present, err)
	}

	details, err := chain.store.ReadDetails(a2.Hash())
	if err != nil {
		t.Fatalf("read details: %v", err)
	}
	if details.TotalDifficulty.Sign() <= 0 {
		t.Fatalf("expected nonzero rebuilt total difficulty, got %v", details.TotalDifficulty)
	}
}

// TestRebuildIndexProgressCancellation covers a progress callback that
// returns false aborting the rebuild before it commits any changes.
func TestRebuildIndexProgressCancellation(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()
	a1 := childBlock(t, params, genesis, 5)
	mustImport(t, chain, a1)

	err := chain.RebuildIndex(func(done, total int) bool { return false })
	if err != errRebuildCancelled {
		t.Fatalf("expected errRebuildCancelled, got %v", err)
	}
}

// TestRescuePicksHighestConsistentChain covers Rescue choosing the
// candidate head whose ancestor chain is fully present over one with a
// higher raw difficulty but a missing ancestor.
func TestRescuePicksHighestConsistentChain(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	a1 := childBlock(t, params, genesis, 5)
	a2 := childBlock(t, params, a1, 5)
	mustImport(t, chain, a1)
	mustImport(t, chain, a2)

	// An orphan with fabricated high difficulty but an unknown parent
	// must never be picked, since its ancestor chain cannot reach
	// genesis.
	orphanHeader := a2.Header()
	orphanHeader.ParentHash = types.HexToHash("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	orphanHeader.Difficulty = new(uint256.Int).SetUint64(1 << 40).ToBig()
	orphanHeader.Number = a2.Header().Number
	orphan := types.NewBlock(orphanHeader, nil, nil)

	blocksBatch := chain.store.NewBlocksBatch()
	if err := chain.store.WriteBlockToBatch(blocksBatch, orphan); err != nil {
		t.Fatalf("write orphan: %v", err)
	}
	if err := blocksBatch.Write(); err != nil {
		t.Fatalf("commit orphan: %v", err)
	}

	if err := chain.Rescue(nil); err != nil {
		t.Fatalf("rescue: %v", err)
	}

	hash, number, ok := chain.store.Head()
	if !ok || hash != a2.Hash() || number != 2 {
		t.Fatalf("expected rescue to pick a2 over the disconnected orphan, got hash=%x number=%d ok=%v", hash, number, ok)
	}
}
