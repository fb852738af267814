package core

import (
	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
)

// Validator runs the ordered structural and consensus checks a
// candidate block must pass before the import engine will persist it.
// Checks run in the fixed order the header/body validation contract
// specifies, exiting on the first failure.
type Validator struct {
	store  *rawdb.Store
	seal   SealEngine
	params *ChainParams
}

// NewValidator builds a Validator reading ancestors from store and
// delegating gas-limit and seal checks to seal.
func NewValidator(store *rawdb.Store, seal SealEngine, params *ChainParams) *Validator {
	return &Validator{store: store, seal: seal, params: params}
}

// ValidateBlock runs every check against block, given the wall-clock
// time now (unix seconds) used for the future-timestamp bound.
func (v *Validator) ValidateBlock(block *types.Block, now uint64) *ImportError {
	header := block.Header()
	hashBytes := header.Hash()
	var hash [32]byte
	copy(hash[:], hashBytes.Bytes())

	if err := v.checkWellFormed(header); err != nil {
		return newImportError(KindMalformedRecord, hash, err)
	}

	if header.NumberU64() == 0 {
		// Genesis has no parent to check against; body checks below
		// still apply to it.
		return v.checkBody(block, hash)
	}

	parentBlock, err := v.store.ReadBlock(header.ParentHash)
	if err != nil {
		return newImportError(KindUnknownParent, hash, err)
	}
	parent := parentBlock.Header()

	if header.Time <= parent.Time {
		return newImportError(KindMalformedRecord, hash, errTimestampNotIncreasing)
	}
	if header.Time > now+v.params.ClockSkewAllowance {
		return newImportError(KindFutureTime, hash, errTimestampInFuture)
	}
	if header.NumberU64() != parent.NumberU64()+1 {
		return newImportError(KindMalformedRecord, hash, errNumberDiscontinuous)
	}
	if err := VerifyDifficulty(header, parent, v.params); err != nil {
		return err.(*ImportError)
	}
	if err := v.seal.VerifyGasLimit(header, parent); err != nil {
		return newImportError(KindMalformedRecord, hash, err)
	}
	if err := v.checkUncles(block, parent); err != nil {
		return newImportError(KindMalformedRecord, hash, err)
	}
	if err := v.checkBody(block, hash); err != nil {
		return err
	}
	if err := v.seal.VerifySeal(header, parent); err != nil {
		return newImportError(KindConsensusMismatch, hash, err)
	}
	return nil
}

func (v *Validator) checkWellFormed(header *types.Header) error {
	if uint64(len(header.Extra)) > v.params.MaxExtraDataSize {
		return errExtraDataTooLarge
	}
	if header.GasUsed > header.GasLimit {
		return errGasUsedExceedsLimit
	}
	return nil
}

func (v *Validator) checkBody(block *types.Block, hash [32]byte) *ImportError {
	header := block.Header()
	if got := types.CalcUncleHash(block.Uncles()); got != header.UnclesHash {
		return newImportError(KindMalformedRecord, hash, errUnclesHashMismatch)
	}
	if got := types.CalcTxHash(block.Transactions()); got != header.TxHash {
		return newImportError(KindMalformedRecord, hash, errTxHashMismatch)
	}
	return nil
}

// checkUncles validates the uncle list: at most MaxUncles, each
// distinct, each with a parent among the ancestors within
// MaxUncleDepth generations of parent, and never previously included
// by an ancestor within that same window (allKinFrom). Whether the
// uncle header itself is in the store is not checked.
func (v *Validator) checkUncles(block *types.Block, parent *types.Header) error {
	uncles := block.Uncles()
	if len(uncles) > v.params.MaxUncles {
		return errTooManyUncles
	}

	ancestors := make(map[types.Hash]struct{})
	alreadyIncluded := make(map[types.Hash]struct{})

	cur := parent.Hash()
	for i := uint64(0); i < v.params.MaxUncleDepth; i++ {
		b, err := v.store.ReadBlock(cur)
		if err != nil {
			break
		}
		ancestors[cur] = struct{}{}
		for _, u := range b.Uncles() {
			alreadyIncluded[u.Hash()] = struct{}{}
		}
		if b.ParentHash().IsZero() {
			break
		}
		cur = b.ParentHash()
	}

	seen := make(map[types.Hash]struct{}, len(uncles))
	for _, u := range uncles {
		uh := u.Hash()
		if _, dup := seen[uh]; dup {
			return errDuplicateUncle
		}
		seen[uh] = struct{}{}

		if _, known := ancestors[u.ParentHash]; !known {
			if u.ParentHash != parent.ParentHash {
				return errUncleNotRelated
			}
		}
		if _, used := alreadyIncluded[uh]; used {
			return errUncleAlreadyIncluded
		}
	}
	return nil
}
