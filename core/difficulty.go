package core

import (
	"math/big"

	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

var (
	bigOne             = big.NewInt(1)
	bigMinusNinetyNine = big.NewInt(-99)
	big10              = big.NewInt(10)
	big100000          = big.NewInt(100000)
	big2               = big.NewInt(2)
)

// CalculateDifficulty computes the difficulty a candidate header must
// carry, given its parent and the chain's parameters. The arithmetic
// runs in signed big integers so that the (1 - delta/10) and +1/-1
// bump terms can go negative before being combined with the exponent
// term; only the final sum is clamped and reduced to unsigned 256-bit.
func CalculateDifficulty(header, parent *types.Header, params *ChainParams) (*uint256.Int, error) {
	if params.IsHomestead(header.Number) {
		return homesteadDifficulty(header, parent, params)
	}
	return frontierDifficulty(header, parent, params)
}

func homesteadDifficulty(header, parent *types.Header, params *ChainParams) (*uint256.Int, error) {
	a := new(big.Int).Quo(parent.Difficulty, params.DifficultyBoundDivisor)

	delta := new(big.Int).SetUint64(header.Time - parent.Time)
	quotient := new(big.Int).Quo(delta, big10)
	b := new(big.Int).Sub(bigOne, quotient)
	if b.Cmp(bigMinusNinetyNine) < 0 {
		b = new(big.Int).Set(bigMinusNinetyNine)
	}

	sum := new(big.Int).Set(parent.Difficulty)
	sum.Add(sum, new(big.Int).Mul(a, b))

	if exp := exponentTerm(header.Number); exp != nil {
		sum.Add(sum, exp)
	}

	return clampToMinimum(sum, params.MinimumDifficulty), nil
}

func frontierDifficulty(header, parent *types.Header, params *ChainParams) (*uint256.Int, error) {
	a := new(big.Int).Quo(parent.Difficulty, params.DifficultyBoundDivisor)

	delta := new(big.Int).SetUint64(header.Time - parent.Time)
	b := big.NewInt(-1)
	if delta.Cmp(params.DurationLimit) < 0 {
		b = big.NewInt(1)
	}

	sum := new(big.Int).Set(parent.Difficulty)
	sum.Add(sum, new(big.Int).Mul(a, b))

	if exp := exponentTerm(header.Number); exp != nil {
		sum.Add(sum, exp)
	}

	return clampToMinimum(sum, params.MinimumDifficulty), nil
}

// exponentTerm returns 1<<c where c = number/100000 - 2, or nil when
// c is negative, in which case the term is omitted entirely.
func exponentTerm(number *big.Int) *big.Int {
	c := new(big.Int).Quo(number, big100000)
	c.Sub(c, big2)
	if c.Sign() < 0 {
		return nil
	}
	if !c.IsUint64() || c.Uint64() > 1024 {
		// Astronomically large exponents cannot occur on any real
		// chain height; guard against an unbounded shift instead of
		// hanging on a pathological candidate header.
		return new(big.Int).Lsh(bigOne, 1024)
	}
	return new(big.Int).Lsh(bigOne, uint(c.Uint64()))
}

func clampToMinimum(sum, minimum *big.Int) *uint256.Int {
	if sum.Cmp(minimum) < 0 {
		sum = minimum
	}
	result, overflow := uint256.FromBig(sum)
	if overflow {
		// Cannot happen for realistic difficulty values; fall back to
		// the maximum representable rather than silently wrapping.
		return new(uint256.Int).SetAllOne()
	}
	return result
}

// VerifyDifficulty checks that header.Difficulty equals the value the
// oracle computes from parent, returning a ConsensusMismatch error on
// disagreement.
func VerifyDifficulty(header, parent *types.Header, params *ChainParams) error {
	want, err := CalculateDifficulty(header, parent, params)
	if err != nil {
		return err
	}
	got, overflow := uint256.FromBig(header.Difficulty)
	if overflow || got.Cmp(want) != 0 {
		var hash [32]byte
		copy(hash[:], header.Hash().Bytes())
		return newImportError(KindConsensusMismatch, hash, nil)
	}
	return nil
}
