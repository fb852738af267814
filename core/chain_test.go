package core

import (
	"math/big"
	"testing"

	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
)

// testParams uses a small difficulty-bound divisor so that a handful of
// synthetic blocks can swing total difficulty enough to exercise a
// reorg without needing thousands of blocks.
func testParams() *ChainParams {
	return &ChainParams{
		ChainID:                big.NewInt(1337),
		HomesteadForkBlock:     big.NewInt(10000000),
		MinimumDifficulty:      big.NewInt(1),
		DifficultyBoundDivisor: big.NewInt(4),
		DurationLimit:          big.NewInt(13),
		GasLimitBoundDivisor:   1024,
		MaxExtraDataSize:       32,
		ClockSkewAllowance:     3600,
		MaxUncleDepth:          6,
		MaxUncles:              2,
	}
}

func testGenesis() *types.Block {
	h := &types.Header{
		ParentHash: types.Hash{},
		UnclesHash: types.CalcUncleHash(nil),
		StateRoot:  types.Hash{},
		TxHash:     types.CalcTxHash(nil),
		Difficulty: big.NewInt(1024),
		Number:     big.NewInt(0),
		GasLimit:   5000000,
		Time:       1000,
	}
	return types.NewBlock(h, nil, nil)
}

// childBlock builds a valid successor to parent, with timestamp
// parent.Time()+deltaSeconds and difficulty computed from the oracle so
// it passes VerifyDifficulty.
func childBlock(t *testing.T, params *ChainParams, parent *types.Block, deltaSeconds uint64) *types.Block {
	t.Helper()
	parentHeader := parent.Header()
	h := &types.Header{
		ParentHash: parent.Hash(),
		UnclesHash: types.CalcUncleHash(nil),
		StateRoot:  types.Hash{},
		TxHash:     types.CalcTxHash(nil),
		Number:     new(big.Int).Add(parentHeader.Number, bigOne),
		GasLimit:   parentHeader.GasLimit,
		Time:       parentHeader.Time + deltaSeconds,
	}
	difficulty, err := CalculateDifficulty(h, parentHeader, params)
	if err != nil {
		t.Fatalf("calculate difficulty: %v", err)
	}
	h.Difficulty = difficulty.ToBig()
	return types.NewBlock(h, nil, nil)
}

func newTestChain(t *testing.T) (*Chain, *types.Block) {
	t.Helper()
	params := testParams()
	store := rawdb.NewStore(rawdb.NewMemoryDB(), rawdb.NewMemoryDB())
	chain := NewChain(store, NewNoSealEngine(params), NullStateDB{}, params)

	genesis := testGenesis()
	if err := chain.InitGenesis(genesis); err != nil {
		t.Fatalf("init genesis: %v", err)
	}
	return chain, genesis
}

func mustImport(t *testing.T, chain *Chain, block *types.Block) *ImportRoute {
	t.Helper()
	route, ierr := chain.Import(block, true)
	if ierr != nil {
		t.Fatalf("import block #%d (%s): %v", block.Number(), block.Hash().Hex(), ierr)
	}
	return route
}

// TestChainLinearExtension covers importing three blocks in a straight
// line on top of genesis: every import should extend the canonical
// chain with no dead blocks.
func TestChainLinearExtension(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	a1 := childBlock(t, params, genesis, 5)
	a2 := childBlock(t, params, a1, 5)
	a3 := childBlock(t, params, a2, 5)

	mustImport(t, chain, a1)
	mustImport(t, chain, a2)
	route3 := mustImport(t, chain, a3)

	if len(route3.Dead) != 0 {
		t.Fatalf("expected no dead blocks extending the chain, got %v", route3.Dead)
	}
	if len(route3.Live) != 1 || route3.Live[0] != a3.Hash() {
		t.Fatalf("expected live=[a3], got %v", route3.Live)
	}

	currentHash, currentNumber, ok := chain.store.Head()
	if !ok || currentHash != a3.Hash() || currentNumber != 3 {
		t.Fatalf("unexpected head: hash=%x number=%d ok=%v", currentHash, currentNumber, ok)
	}

	numberHash, present, err := chain.store.ReadBlockHashByNumber(2)
	if err != nil || !present || numberHash != a2.Hash() {
		t.Fatalf("expected numberHash(2)=a2, got hash=%x present=%v err=%v", numberHash, present, err)
	}
}

// TestChainReorgToHigherDifficultySideChain builds a three-block chain
// on genesis, then a shorter two-block side chain whose blocks arrive
// with tighter timestamps and therefore accumulate more difficulty per
// block. The side chain must overtake the original as canonical.
func TestChainReorgToHigherDifficultySideChain(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	a1 := childBlock(t, params, genesis, 20)
	a2 := childBlock(t, params, a1, 20)
	a3 := childBlock(t, params, a2, 20)
	mustImport(t, chain, a1)
	mustImport(t, chain, a2)
	mustImport(t, chain, a3)

	b1 := childBlock(t, params, genesis, 1)
	b2 := childBlock(t, params, b1, 1)

	routeB1 := mustImport(t, chain, b1)
	if len(routeB1.Live) != 0 && len(routeB1.Dead) != 0 {
		// b1's difficulty alone should not yet overtake a1+a2+a3's total.
		t.Fatalf("expected b1 import not to reorg yet, got live=%v dead=%v", routeB1.Live, routeB1.Dead)
	}

	routeB2 := mustImport(t, chain, b2)
	wantDead := []types.Hash{a3.Hash(), a2.Hash(), a1.Hash()}
	if len(routeB2.Dead) != len(wantDead) {
		t.Fatalf("expected 3 dead blocks, got %v", routeB2.Dead)
	}
	for i, h := range wantDead {
		if routeB2.Dead[i] != h {
			t.Fatalf("dead[%d]: got %x want %x", i, routeB2.Dead[i], h)
		}
	}
	wantLive := []types.Hash{b1.Hash(), b2.Hash()}
	if len(routeB2.Live) != len(wantLive) {
		t.Fatalf("expected 2 live blocks, got %v", routeB2.Live)
	}
	for i, h := range wantLive {
		if routeB2.Live[i] != h {
			t.Fatalf("live[%d]: got %x want %x", i, routeB2.Live[i], h)
		}
	}

	currentHash, currentNumber, ok := chain.store.Head()
	if !ok || currentHash != b2.Hash() || currentNumber != 2 {
		t.Fatalf("unexpected head after reorg: hash=%x number=%d ok=%v", currentHash, currentNumber, ok)
	}

	numberHash, present, err := chain.store.ReadBlockHashByNumber(1)
	if err != nil || !present || numberHash != b1.Hash() {
		t.Fatalf("expected numberHash(1)=b1 after reorg, got hash=%x present=%v err=%v", numberHash, present, err)
	}
}

// TestChainDuplicateImportIsNoOp covers re-importing an already-known
// block with mustBeNew=false returning an empty route instead of an
// error, and with mustBeNew=true reporting AlreadyHave.
func TestChainDuplicateImportIsNoOp(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	a1 := childBlock(t, params, genesis, 5)
	mustImport(t, chain, a1)

	route, ierr := chain.Import(a1, false)
	if ierr != nil {
		t.Fatalf("expected no error re-importing known block, got %v", ierr)
	}
	if len(route.Dead) != 0 || len(route.Live) != 0 {
		t.Fatalf("expected empty route for duplicate import, got %+v", route)
	}

	if _, ierr := chain.Import(a1, true); ierr == nil || ierr.Kind != KindAlreadyHave {
		t.Fatalf("expected AlreadyHave with mustBeNew=true, got %v", ierr)
	}
}

// TestChainUnknownParentRejected covers importing a block whose parent
// was never imported.
func TestChainUnknownParentRejected(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	orphanParent := childBlock(t, params, genesis, 5)
	orphan := childBlock(t, params, orphanParent, 5)

	if _, ierr := chain.Import(orphan, true); ierr == nil || ierr.Kind != KindUnknownParent {
		t.Fatalf("expected UnknownParent, got %v", ierr)
	}
}

// TestChainRewindClearsIndexAboveTarget covers Rewind removing the
// number-index and transaction-address entries for blocks above the
// target height while leaving the blocks themselves in the store.
func TestChainRewindClearsIndexAboveTarget(t *testing.T) {
	chain, genesis := newTestChain(t)
	params := testParams()

	a1 := childBlock(t, params, genesis, 5)
	a2 := childBlock(t, params, a1, 5)
	mustImport(t, chain, a1)
	mustImport(t, chain, a2)

	if err := chain.Rewind(1); err != nil {
		t.Fatalf("rewind: %v", err)
	}

	hash, number, ok := chain.store.Head()
	if !ok || number != 1 || hash != a1.Hash() {
		t.Fatalf("expected head rewound to a1, got hash=%x number=%d ok=%v", hash, number, ok)
	}

	if _, present, err := chain.store.ReadBlockHashByNumber(2); err != nil || present {
		t.Fatalf("expected numberHash(2) cleared, present=%v err=%v", present, err)
	}
	if !chain.store.HasBlock(a2.Hash()) {
		t.Fatal("expected a2's raw block to survive rewind")
	}
}
