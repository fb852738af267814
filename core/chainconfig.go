package core

import "math/big"

// ChainParams collects the tunables the difficulty oracle and header
// validator read from instead of hard-coding. A single record is
// shared for the lifetime of a chain database.
type ChainParams struct {
	ChainID *big.Int

	// HomesteadForkBlock is the first block number validated under
	// Homestead difficulty rules; blocks before it use Frontier/Olympic
	// rules.
	HomesteadForkBlock *big.Int

	MinimumDifficulty      *big.Int
	DifficultyBoundDivisor *big.Int
	DurationLimit          *big.Int

	GasLimitBoundDivisor uint64
	MaxExtraDataSize     uint64

	// ClockSkewAllowance bounds how far into the future a header's
	// timestamp may sit before it is rejected as FutureTime, in
	// seconds.
	ClockSkewAllowance uint64

	// MaxUncleDepth is how many generations back an uncle's parent may
	// sit relative to the importing block, read from parameters rather
	// than hard-coded per the six-generation limit's provenance.
	MaxUncleDepth uint64

	// MaxUncles is the maximum uncle count per block.
	MaxUncles int
}

// MainnetParams mirrors the historical Frontier/Homestead mainnet
// parameters, for tests and the demo tool. A real deployment supplies
// its own ChainParams.
func MainnetParams() *ChainParams {
	return &ChainParams{
		ChainID:                big.NewInt(1),
		HomesteadForkBlock:     big.NewInt(1150000),
		MinimumDifficulty:      big.NewInt(131072),
		DifficultyBoundDivisor: big.NewInt(2048),
		DurationLimit:          big.NewInt(13),
		GasLimitBoundDivisor:   1024,
		MaxExtraDataSize:       32,
		ClockSkewAllowance:     15,
		MaxUncleDepth:          6,
		MaxUncles:              2,
	}
}

// IsHomestead reports whether number falls under Homestead difficulty
// and validation rules. The fork block itself is still evaluated under
// Frontier rules; Homestead applies strictly above it.
func (p *ChainParams) IsHomestead(number *big.Int) bool {
	return number.Cmp(p.HomesteadForkBlock) > 0
}
