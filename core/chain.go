package core

import (
	"sync"
	"time"

	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
	"github.com/holiman/uint256"
)

// ImportRoute describes which blocks left and joined the canonical
// chain as a consequence of a single import, plus the hashes of
// transactions that became newly addressable.
type ImportRoute struct {
	Dead             []types.Hash
	Live             []types.Hash
	ImportedTxHashes []types.Hash
}

// Chain is the single-writer import engine: it validates a candidate
// block, persists it, updates totalDifficulty, and runs fork-choice to
// decide whether the canonical head moves.
type Chain struct {
	store     *rawdb.Store
	validator *Validator
	blooms    *BloomHierarchy
	routes    *TreeRouteEngine
	stateDB   StateDB
	params    *ChainParams

	importMu sync.Mutex

	onBlockImport func(*types.Header)
	onBad         func(error)
}

// NewChain wires an import engine around store, delegating consensus
// checks to seal and execution to stateDB.
func NewChain(store *rawdb.Store, seal SealEngine, stateDB StateDB, params *ChainParams) *Chain {
	return &Chain{
		store:     store,
		validator: NewValidator(store, seal, params),
		blooms:    NewBloomHierarchy(store),
		routes:    NewTreeRouteEngine(store),
		stateDB:   stateDB,
		params:    params,
	}
}

// OnBlockImport and OnBad register observability hooks, invoked
// outside the import lock.
func (c *Chain) OnBlockImport(f func(*types.Header)) { c.onBlockImport = f }
func (c *Chain) OnBad(f func(error))                 { c.onBad = f }

// InitGenesis persists block as block 0 with totalDifficulty equal to
// its own difficulty, and makes it the canonical head. It must be
// called at most once, before any Import.
func (c *Chain) InitGenesis(block *types.Block) error {
	c.importMu.Lock()
	defer c.importMu.Unlock()

	hash := block.Hash()
	td, overflow := uint256.FromBig(block.Header().Difficulty)
	if overflow {
		td = new(uint256.Int).SetAllOne()
	}

	blocksBatch := c.store.NewBlocksBatch()
	extrasBatch := c.store.NewExtrasBatch()

	if err := c.store.WriteBlockToBatch(blocksBatch, block); err != nil {
		return err
	}
	details := &types.BlockDetails{Number: 0, TotalDifficulty: td, ParentHash: types.Hash{}}
	if err := c.store.WriteDetailsToBatch(extrasBatch, hash, details); err != nil {
		return err
	}
	if err := c.store.WriteBlockHashByNumberToBatch(extrasBatch, 0, hash); err != nil {
		return err
	}
	if err := c.blooms.InsertBlock(extrasBatch, 0, block.LogsBloom()); err != nil {
		return err
	}
	if err := c.store.WriteHeadToBatch(extrasBatch, hash, 0); err != nil {
		return err
	}
	if err := c.store.WriteGenesisHash(hash); err != nil {
		return err
	}

	if err := c.store.Commit(blocksBatch, extrasBatch); err != nil {
		return err
	}
	c.store.SetHead(hash, 0)
	return nil
}

// Import runs the full import protocol against block, returning an
// ImportError rather than panicking on any failure so callers never
// need a recover path. mustBeNew controls whether an already-persisted
// block is reported as AlreadyHave or silently accepted as a no-op.
func (c *Chain) Import(block *types.Block, mustBeNew bool) (*ImportRoute, *ImportError) {
	hashVal := block.Hash()
	var hash [32]byte
	copy(hash[:], hashVal.Bytes())

	if c.store.HasBlock(hashVal) {
		if mustBeNew {
			return nil, newImportError(KindAlreadyHave, hash, nil)
		}
		return &ImportRoute{}, nil
	}

	if verr := c.validator.ValidateBlock(block, uint64(time.Now().Unix())); verr != nil {
		if !verr.Kind.Transient() && c.onBad != nil {
			c.onBad(verr)
		}
		return nil, verr
	}

	route, becameCanonical, verr := c.importLocked(block, hashVal, hash, mustBeNew)

	if verr != nil {
		if !verr.Kind.Transient() && verr.Kind != KindAlreadyHave && c.onBad != nil {
			c.onBad(verr)
		}
		return nil, verr
	}
	if becameCanonical && c.onBlockImport != nil {
		c.onBlockImport(block.Header())
	}
	return route, nil
}

// importLocked runs the locked portion of Import: the race-safety
// re-check, execution, persistence and fork-choice. Observability
// hooks are fired by Import after this returns and the lock has been
// released, per §5.
func (c *Chain) importLocked(block *types.Block, hashVal types.Hash, hash [32]byte, mustBeNew bool) (*ImportRoute, bool, *ImportError) {
	c.importMu.Lock()
	defer c.importMu.Unlock()

	// Re-check under the lock: another goroutine may have imported the
	// same block (or a block that makes this one stale) while this
	// caller was validating outside the lock.
	if c.store.HasBlock(hashVal) {
		if mustBeNew {
			return nil, false, newImportError(KindAlreadyHave, hash, nil)
		}
		return &ImportRoute{}, false, nil
	}

	parentDetails, err := c.store.ReadDetails(block.ParentHash())
	if err != nil {
		return nil, false, newImportError(KindUnknownParent, hash, err)
	}
	parentHeader, err := c.store.ReadHeader(block.ParentHash())
	if err != nil {
		return nil, false, newImportError(KindUnknownParent, hash, err)
	}

	newStateRoot, receipts, err := c.stateDB.Execute(block, parentHeader.StateRoot)
	if err != nil {
		return nil, false, newImportError(KindConsensusMismatch, hash, err)
	}
	if newStateRoot != block.StateRoot() {
		return nil, false, newImportError(KindConsensusMismatch, hash, errStateRootMismatch)
	}

	blockDifficulty, overflow := uint256.FromBig(block.Header().Difficulty)
	if overflow {
		blockDifficulty = new(uint256.Int).SetAllOne()
	}
	totalDifficulty := new(uint256.Int).Add(parentDetails.TotalDifficulty, blockDifficulty)

	blocksBatch := c.store.NewBlocksBatch()
	extrasBatch := c.store.NewExtrasBatch()

	if err := c.store.WriteBlockToBatch(blocksBatch, block); err != nil {
		return nil, false, newImportError(KindStorageError, hash, err)
	}

	details := &types.BlockDetails{
		Number:          block.Number(),
		TotalDifficulty: totalDifficulty,
		ParentHash:      block.ParentHash(),
	}
	if err := c.store.WriteDetailsToBatch(extrasBatch, hashVal, details); err != nil {
		return nil, false, newImportError(KindStorageError, hash, err)
	}

	parentDetails.Children = append(parentDetails.Children, hashVal)
	if err := c.store.WriteDetailsToBatch(extrasBatch, block.ParentHash(), parentDetails); err != nil {
		return nil, false, newImportError(KindStorageError, hash, err)
	}

	logBlooms := &types.BlockLogBlooms{Blooms: make([]types.Bloom, len(receipts))}
	for i, r := range receipts {
		logBlooms.Blooms[i] = r.Bloom
	}
	if err := c.store.WriteLogBloomsToBatch(extrasBatch, hashVal, logBlooms); err != nil {
		return nil, false, newImportError(KindStorageError, hash, err)
	}
	if err := c.store.WriteReceiptsToBatch(extrasBatch, hashVal, &types.BlockReceipts{Receipts: receipts}); err != nil {
		return nil, false, newImportError(KindStorageError, hash, err)
	}

	route := &ImportRoute{}

	currentHash, _, headKnown := c.store.Head()
	currentTD := new(uint256.Int)
	if headKnown {
		if cd, err := c.store.ReadDetails(currentHash); err == nil {
			currentTD = cd.TotalDifficulty
		}
	}

	becomesCanonical := !headKnown || totalDifficulty.Cmp(currentTD) > 0
	if becomesCanonical {
		var dead, live []types.Hash
		if headKnown && currentHash != block.ParentHash() {
			r, err := c.routes.TreeRoute(currentHash, hashVal, false, true, true)
			if err != nil {
				return nil, false, newImportError(KindStorageError, hash, err)
			}
			dead = r.Hashes[:r.CommonIndex]
			live = r.Hashes[r.CommonIndex:]
		} else {
			live = []types.Hash{hashVal}
		}

		importedTx, err := c.applyReorg(extrasBatch, dead, live)
		if err != nil {
			return nil, false, newImportError(KindStorageError, hash, err)
		}

		if err := c.store.WriteHeadToBatch(extrasBatch, hashVal, block.Number()); err != nil {
			return nil, false, newImportError(KindStorageError, hash, err)
		}

		route.Dead = dead
		route.Live = live
		route.ImportedTxHashes = importedTx
	}

	if err := c.store.Commit(blocksBatch, extrasBatch); err != nil {
		return nil, false, newImportError(KindStorageError, hash, err)
	}

	if becomesCanonical {
		c.store.SetHead(hashVal, block.Number())
	}

	return route, becomesCanonical, nil
}

// applyReorg removes dead blocks' index entries and installs live
// blocks' index entries, reconciling the bloom hierarchy for every
// number the two sets touch. It returns the transaction hashes newly
// made addressable by the live blocks.
func (c *Chain) applyReorg(batch rawdb.Batch, dead, live []types.Hash) ([]types.Hash, error) {
	deadNumbers := make(map[uint64]bool)
	liveBlooms := make(map[uint64]types.Bloom)

	for _, h := range dead {
		block, err := c.store.ReadBlock(h)
		if err != nil {
			return nil, err
		}
		for _, tx := range block.Transactions() {
			if err := c.store.DeleteTransactionAddressToBatch(batch, tx.Hash()); err != nil {
				return nil, err
			}
		}
		if err := c.store.DeleteBlockHashByNumberToBatch(batch, block.Number()); err != nil {
			return nil, err
		}
		deadNumbers[block.Number()] = true
	}

	var importedTx []types.Hash
	for _, h := range live {
		block, err := c.store.ReadBlock(h)
		if err != nil {
			return nil, err
		}
		for i, tx := range block.Transactions() {
			addr := &types.TransactionAddress{BlockHash: h, Index: uint64(i)}
			if err := c.store.WriteTransactionAddressToBatch(batch, tx.Hash(), addr); err != nil {
				return nil, err
			}
			importedTx = append(importedTx, tx.Hash())
		}
		if err := c.store.WriteBlockHashByNumberToBatch(batch, block.Number(), h); err != nil {
			return nil, err
		}
		liveBlooms[block.Number()] = block.LogsBloom()
	}

	if len(dead) == 0 {
		// Pure extension: every live number is new, OR is sufficient.
		for _, h := range live {
			block, err := c.store.ReadBlock(h)
			if err != nil {
				return nil, err
			}
			if err := c.blooms.InsertBlock(batch, block.Number(), block.LogsBloom()); err != nil {
				return nil, err
			}
		}
		return importedTx, nil
	}

	affected := make(map[uint64]bool)
	for n := range deadNumbers {
		affected[n] = true
	}
	for n := range liveBlooms {
		affected[n] = true
	}
	numbers := make([]uint64, 0, len(affected))
	for n := range affected {
		numbers = append(numbers, n)
	}

	canonicalBloomAt := func(n uint64) (types.Bloom, bool) {
		if b, ok := liveBlooms[n]; ok {
			return b, true
		}
		if deadNumbers[n] {
			return types.Bloom{}, false
		}
		existingHash, ok, err := c.store.ReadBlockHashByNumber(n)
		if err != nil || !ok {
			return types.Bloom{}, false
		}
		header, err := c.store.ReadHeader(existingHash)
		if err != nil {
			return types.Bloom{}, false
		}
		return header.LogsBloom, true
	}

	if err := c.blooms.ReconcileRange(batch, numbers, canonicalBloomAt); err != nil {
		return nil, err
	}
	return importedTx, nil
}
