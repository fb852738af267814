package core

import (
	"testing"

	"github.com/holiman/uint256"
)

// TestInsertWithoutParentPersistsButNeverMovesHead covers §4.10's
// deliberate resolution of the orphan-then-rejoin question:
// InsertWithoutParent persists the block and its trusted totalDifficulty
// but never runs fork-choice, even when that totalDifficulty would
// exceed the current head's.
func TestInsertWithoutParentPersistsButNeverMovesHead(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()
	a1 := childBlock(t, params, genesis, 5)
	mustImport(t, chain, a1)

	orphanParent := childBlock(t, params, a1, 5)
	orphan := childBlock(t, params, orphanParent, 5)

	hugeTD := new(uint256.Int).SetUint64(1 << 40)
	if _, ierr := chain.InsertWithoutParent(orphan, nil, hugeTD); ierr != nil {
		t.Fatalf("insert without parent: %v", ierr)
	}

	if !chain.store.HasBlock(orphan.Hash()) {
		t.Fatal("expected orphan block to be persisted")
	}
	hash, number, ok := chain.store.Head()
	if !ok || hash != a1.Hash() || number != 1 {
		t.Fatalf("expected head to stay at a1 despite the orphan's higher totalDifficulty, got hash=%x number=%d ok=%v", hash, number, ok)
	}

	details, err := chain.store.ReadDetails(orphan.Hash())
	if err != nil {
		t.Fatalf("read orphan details: %v", err)
	}
	if details.TotalDifficulty.Cmp(hugeTD) != 0 {
		t.Fatalf("expected orphan totalDifficulty to be the caller-supplied value, got %v", details.TotalDifficulty)
	}
}

// TestInsertWithoutParentThenRejoinViaImport covers the transparent
// rejoin: a normal Import of a block whose parent is an
// orphan-inserted block succeeds once that orphan is present, and
// fork-choice folds in the orphan's caller-supplied totalDifficulty as
// though it had been computed by execution.
func TestInsertWithoutParentThenRejoinViaImport(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	head := childBlock(t, params, genesis, 5)
	mustImport(t, chain, head)

	orphan := childBlock(t, params, head, 5)
	orphanTD := new(uint256.Int).SetUint64(1 << 30)
	if _, ierr := chain.InsertWithoutParent(orphan, nil, orphanTD); ierr != nil {
		t.Fatalf("insert without parent: %v", ierr)
	}

	// Before this point, a block naming orphan as parent could not have
	// been imported: orphan carried no BlockDetails record. Now it does,
	// supplied entirely by InsertWithoutParent.
	child := childBlock(t, params, orphan, 5)
	route := mustImport(t, chain, child)

	if len(route.Dead) != 0 || len(route.Live) != 2 {
		t.Fatalf("expected a two-block extension through the orphan, got live=%v dead=%v", route.Live, route.Dead)
	}
	if route.Live[0] != orphan.Hash() || route.Live[1] != child.Hash() {
		t.Fatalf("expected live=[orphan, child], got %v", route.Live)
	}

	hash, _, ok := chain.store.Head()
	if !ok || hash != child.Hash() {
		t.Fatalf("expected head at child after rejoin, got hash=%x ok=%v", hash, ok)
	}

	childDifficulty, overflow := uint256.FromBig(child.Header().Difficulty)
	if overflow {
		t.Fatal("unexpected difficulty overflow")
	}
	wantTD := new(uint256.Int).Add(orphanTD, childDifficulty)

	details, err := chain.store.ReadDetails(child.Hash())
	if err != nil {
		t.Fatalf("read child details: %v", err)
	}
	if details.TotalDifficulty.Cmp(wantTD) != 0 {
		t.Fatalf("expected child totalDifficulty to build on the orphan's trusted value: got %v want %v", details.TotalDifficulty, wantTD)
	}
}
