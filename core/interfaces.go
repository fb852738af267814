package core

import (
	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

// SealEngine is the consensus capability the header validator and
// difficulty oracle delegate to. Ethash, Clique or a test double all
// satisfy it.
type SealEngine interface {
	// VerifySeal checks the proof-of-work or other consensus seal on
	// header, given its parent. A non-nil reason means the seal is
	// invalid.
	VerifySeal(header, parent *types.Header) error

	// VerifyGasLimit checks header's gas limit is within bounds of
	// parent's, per the chain's gasLimitBoundDivisor.
	VerifyGasLimit(header, parent *types.Header) error

	// CalculateDifficulty computes the expected difficulty of header
	// given parent, delegating to the Difficulty Oracle by default.
	CalculateDifficulty(header, parent *types.Header) (*uint256.Int, error)
}

// StateDB executes a block's transactions against the state committed
// by its parent, out of scope for the chain database itself.
type StateDB interface {
	// Execute runs block's transactions atop parentStateRoot and
	// returns the resulting state root and per-transaction receipts.
	Execute(block *types.Block, parentStateRoot types.Hash) (newStateRoot types.Hash, receipts []*types.Receipt, err error)
}

// VerifiedBlock pairs a block with the receipts a BlockQueue's
// upstream verifier already computed for it, used by the sync
// orchestrator.
type VerifiedBlock struct {
	Block           *types.Block
	Receipts        []*types.Receipt
	TotalDifficulty *uint256.Int
}

// BlockQueue is the staging area of already-verified blocks the
// import engine drains. Implementations own the actual buffering and
// backpressure; the core only dequeues, requeues and marks bad.
type BlockQueue interface {
	DequeueVerified(max int) []VerifiedBlock
	Requeue(hash types.Hash)
	MarkBad(hash types.Hash)
	Len() int
}
