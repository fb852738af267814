package core

import (
	"math/big"
	"testing"

	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
)

func newTestValidator(t *testing.T) (*Validator, *rawdb.Store, *types.Block) {
	t.Helper()
	params := testParams()
	store := rawdb.NewStore(rawdb.NewMemoryDB(), rawdb.NewMemoryDB())
	validator := NewValidator(store, NewNoSealEngine(params), params)

	parent := testGenesis()
	batch := store.NewBlocksBatch()
	if err := store.WriteBlockToBatch(batch, parent); err != nil {
		t.Fatalf("write parent: %v", err)
	}
	if err := batch.Write(); err != nil {
		t.Fatalf("commit parent: %v", err)
	}
	return validator, store, parent
}

func validChild(t *testing.T, parent *types.Block) *types.Header {
	t.Helper()
	params := testParams()
	parentHeader := parent.Header()
	h := &types.Header{
		ParentHash: parent.Hash(),
		UnclesHash: types.CalcUncleHash(nil),
		TxHash:     types.CalcTxHash(nil),
		Number:     new(big.Int).Add(parentHeader.Number, bigOne),
		GasLimit:   parentHeader.GasLimit,
		Time:       parentHeader.Time + 5,
	}
	difficulty, err := CalculateDifficulty(h, parentHeader, params)
	if err != nil {
		t.Fatalf("calculate difficulty: %v", err)
	}
	h.Difficulty = difficulty.ToBig()
	return h
}

func TestValidatorAcceptsWellFormedBlock(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	block := types.NewBlock(h, nil, nil)

	if err := validator.ValidateBlock(block, h.Time+1); err != nil {
		t.Fatalf("expected valid block to pass, got %v", err)
	}
}

func TestValidatorAcceptsGenesisWithoutParentLookup(t *testing.T) {
	validator, _, _ := newTestValidator(t)
	genesis := testGenesis()

	if err := validator.ValidateBlock(genesis, genesis.Header().Time+1); err != nil {
		t.Fatalf("expected genesis to pass without a parent lookup, got %v", err)
	}
}

func TestValidatorRejectsNonIncreasingTimestamp(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.Time = parent.Header().Time
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+100)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for non-increasing timestamp, got %v", err)
	}
}

func TestValidatorRejectsFutureTimestamp(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	// Past now + ClockSkewAllowance; the future-time check runs before
	// the difficulty check, so the stale difficulty is never reached.
	h.Time = parent.Header().Time + testParams().ClockSkewAllowance + 10
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, parent.Header().Time)
	if err == nil || err.Kind != KindFutureTime {
		t.Fatalf("expected FutureTime, got %v", err)
	}
	if !err.Kind.Transient() {
		t.Fatal("expected FutureTime to be transient")
	}
}

func TestValidatorRejectsDiscontinuousNumber(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.Number = new(big.Int).Add(h.Number, bigOne)
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for discontinuous number, got %v", err)
	}
}

func TestValidatorRejectsUnclesHashMismatch(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.UnclesHash = types.HexToHash("0xdeadbeef")
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for uncles hash mismatch, got %v", err)
	}
}

func TestValidatorRejectsTxHashMismatch(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.TxHash = types.HexToHash("0xdeadbeef")
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for tx hash mismatch, got %v", err)
	}
}

func TestValidatorRejectsExtraDataTooLarge(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.Extra = make([]byte, testParams().MaxExtraDataSize+1)
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for oversized extra data, got %v", err)
	}
}

func TestValidatorRejectsGasUsedExceedsLimit(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.GasUsed = h.GasLimit + 1
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for gas used exceeding limit, got %v", err)
	}
}

func TestValidatorRejectsUnknownParent(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)
	h.ParentHash = types.HexToHash("0x1234")
	block := types.NewBlock(h, nil, nil)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindUnknownParent {
		t.Fatalf("expected UnknownParent, got %v", err)
	}
}

func TestValidatorRejectsTooManyUncles(t *testing.T) {
	validator, _, parent := newTestValidator(t)
	h := validChild(t, parent)

	uncles := make([]*types.Header, testParams().MaxUncles+1)
	for i := range uncles {
		u := validChild(t, parent)
		u.Extra = []byte{byte(i)}
		uncles[i] = u
	}
	h.UnclesHash = types.CalcUncleHash(uncles)
	block := types.NewBlock(h, nil, uncles)

	err := validator.ValidateBlock(block, h.Time+1)
	if err == nil || err.Kind != KindMalformedRecord {
		t.Fatalf("expected MalformedRecord for too many uncles, got %v", err)
	}
}
