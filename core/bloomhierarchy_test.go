package core

import (
	"testing"

	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
)

func bloomWithBit(k byte) types.Bloom {
	var b types.Bloom
	b[types.BloomLength-1-int(k)/8] = 1 << (k % 8)
	return b
}

func TestBloomHierarchyRangeQuery(t *testing.T) {
	store := rawdb.NewStore(rawdb.NewMemoryDB(), rawdb.NewMemoryDB())
	bh := NewBloomHierarchy(store)

	marked := map[uint64]bool{3: true, 17: true, 33: true}
	bit := bloomWithBit(5)

	for n := uint64(0); n < 40; n++ {
		batch := store.NewExtrasBatch()
		var bloom types.Bloom
		if marked[n] {
			bloom = bit
		}
		if err := bh.InsertBlock(batch, n, bloom); err != nil {
			t.Fatalf("insert %d: %v", n, err)
		}
		if err := batch.Write(); err != nil {
			t.Fatalf("commit %d: %v", n, err)
		}
	}

	got, err := bh.WithBlockBloom(bit, 0, 40)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %v", got)
	}
	for _, want := range []uint64{3, 17, 33} {
		found := false
		for _, g := range got {
			if g == want {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected %d among matches, got %v", want, got)
		}
	}
}

func TestBloomHierarchyClearRecomputes(t *testing.T) {
	store := rawdb.NewStore(rawdb.NewMemoryDB(), rawdb.NewMemoryDB())
	bh := NewBloomHierarchy(store)
	bit := bloomWithBit(9)

	blooms := make(map[uint64]types.Bloom)
	for n := uint64(0); n < 20; n++ {
		bloom := types.Bloom{}
		if n == 5 {
			bloom = bit
		}
		blooms[n] = bloom
		batch := store.NewExtrasBatch()
		if err := bh.InsertBlock(batch, n, bloom); err != nil {
			t.Fatalf("insert %d: %v", n, err)
		}
		if err := batch.Write(); err != nil {
			t.Fatalf("commit %d: %v", n, err)
		}
	}

	delete(blooms, 5)
	batch := store.NewExtrasBatch()
	lookup := func(n uint64) (types.Bloom, bool) {
		b, ok := blooms[n]
		return b, ok
	}
	if err := bh.ReconcileRange(batch, []uint64{5}, lookup); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := batch.Write(); err != nil {
		t.Fatalf("commit clear: %v", err)
	}

	got, err := bh.WithBlockBloom(bit, 0, 20)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no matches after clear, got %v", got)
	}
}
