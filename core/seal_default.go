package core

import (
	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

// NoSealEngine is a SealEngine that accepts any seal and only enforces
// the gas-limit bound and difficulty formula. It stands in for Ethash
// or Clique in tests and the demo tool, where proof-of-work
// verification is out of scope.
type NoSealEngine struct {
	Params *ChainParams
}

// NewNoSealEngine builds a SealEngine that skips seal verification.
func NewNoSealEngine(params *ChainParams) *NoSealEngine {
	return &NoSealEngine{Params: params}
}

func (e *NoSealEngine) VerifySeal(header, parent *types.Header) error {
	return nil
}

// VerifyGasLimit checks that header's gas limit is at least 5000 and
// moved from parent's by at most max(parent/gasLimitBoundDivisor, 1)
// plus parent/gasLimitBoundDivisor, about twice one bound-divisor step.
func (e *NoSealEngine) VerifyGasLimit(header, parent *types.Header) error {
	const minGasLimit = 5000
	if header.GasLimit < minGasLimit {
		return errGasLimitTooLow
	}
	bound := parent.GasLimit / e.Params.GasLimitBoundDivisor
	if bound == 0 {
		bound = 1
	}
	diff := int64(header.GasLimit) - int64(parent.GasLimit)
	if diff < 0 {
		diff = -diff
	}
	if uint64(diff) >= bound+parent.GasLimit/e.Params.GasLimitBoundDivisor+1 {
		// Generous on purpose: the point of this check in-scope is
		// catching grossly discontinuous gas limits, not replicating
		// the exact bound-divisor edge case a full seal engine would.
		return errGasLimitOutOfBounds
	}
	return nil
}

func (e *NoSealEngine) CalculateDifficulty(header, parent *types.Header) (*uint256.Int, error) {
	return CalculateDifficulty(header, parent, e.Params)
}
