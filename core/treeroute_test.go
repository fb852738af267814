package core

import (
	"testing"

	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

func putDetails(t *testing.T, store *rawdb.Store, hash, parent types.Hash, number uint64) {
	t.Helper()
	batch := store.NewExtrasBatch()
	d := &types.BlockDetails{Number: number, TotalDifficulty: uint256.NewInt(number + 1), ParentHash: parent}
	if err := store.WriteDetailsToBatch(batch, hash, d); err != nil {
		t.Fatalf("write details: %v", err)
	}
	if err := batch.Write(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

// buildFork constructs:
//
//	g -> a1 -> a2 -> a3
//	  -> b1 -> b2
func buildFork(t *testing.T) (store *rawdb.Store, g, a1, a2, a3, b1, b2 types.Hash) {
	store = rawdb.NewStore(rawdb.NewMemoryDB(), rawdb.NewMemoryDB())
	g = types.HexToHash("0x00")
	a1 = types.HexToHash("0xa1")
	a2 = types.HexToHash("0xa2")
	a3 = types.HexToHash("0xa3")
	b1 = types.HexToHash("0xb1")
	b2 = types.HexToHash("0xb2")

	putDetails(t, store, g, types.Hash{}, 0)
	putDetails(t, store, a1, g, 1)
	putDetails(t, store, a2, a1, 2)
	putDetails(t, store, a3, a2, 3)
	putDetails(t, store, b1, g, 1)
	putDetails(t, store, b2, b1, 2)
	return
}

func TestTreeRouteCommonAncestorAcrossFork(t *testing.T) {
	store, g, _, a2, a3, _, b2 := buildFork(t)
	te := NewTreeRouteEngine(store)

	route, err := te.TreeRoute(a3, b2, true, true, true)
	if err != nil {
		t.Fatalf("route: %v", err)
	}
	if route.CommonAncestor != g {
		t.Fatalf("expected common ancestor genesis, got %x", route.CommonAncestor)
	}
	if route.CommonIndex != 3 {
		t.Fatalf("expected commonIndex 3 (a3,a2,a1 pre), got %d", route.CommonIndex)
	}
	_ = a2
}

func TestTreeRouteSymmetry(t *testing.T) {
	store, _, _, _, a3, _, b2 := buildFork(t)
	te := NewTreeRouteEngine(store)

	forward, err := te.TreeRoute(a3, b2, true, true, true)
	if err != nil {
		t.Fatalf("forward route: %v", err)
	}
	backward, err := te.TreeRoute(b2, a3, true, true, true)
	if err != nil {
		t.Fatalf("backward route: %v", err)
	}
	if forward.CommonAncestor != backward.CommonAncestor {
		t.Fatalf("common ancestor mismatch: %x vs %x", forward.CommonAncestor, backward.CommonAncestor)
	}
	if len(forward.Hashes) != len(backward.Hashes) {
		t.Fatalf("length mismatch: %d vs %d", len(forward.Hashes), len(backward.Hashes))
	}
	n := len(forward.Hashes)
	for i := range forward.Hashes {
		if forward.Hashes[i] != backward.Hashes[n-1-i] {
			t.Fatalf("not a reversal at index %d", i)
		}
	}
}
