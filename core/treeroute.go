package core

import (
	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
)

// Route is the result of a tree-route query: the requested hashes in
// order, the common ancestor, and the index within Hashes at which
// the common ancestor would sit (the length of the pre-contribution).
type Route struct {
	Hashes         []types.Hash
	CommonAncestor types.Hash
	CommonIndex    int
}

// TreeRouteEngine computes the path through the block DAG between two
// known blocks via their lowest common ancestor, reading parent links
// from BlockDetails rather than full block bodies.
type TreeRouteEngine struct {
	store *rawdb.Store
}

// NewTreeRouteEngine wires a tree-route view atop store.
func NewTreeRouteEngine(store *rawdb.Store) *TreeRouteEngine {
	return &TreeRouteEngine{store: store}
}

// TreeRoute walks up from from and to until their ancestor chains
// coincide, then assembles the requested portions of the path.
// includePre selects the walk from from down to (but not including)
// the common ancestor; includeCommon selects the ancestor itself;
// includePost selects the walk from just above the ancestor up to to.
func (te *TreeRouteEngine) TreeRoute(from, to types.Hash, includeCommon, includePre, includePost bool) (*Route, error) {
	fromDetails, err := te.store.ReadDetails(from)
	if err != nil {
		return nil, err
	}
	toDetails, err := te.store.ReadDetails(to)
	if err != nil {
		return nil, err
	}

	curFrom, curFromNum := from, fromDetails.Number
	curTo, curToNum := to, toDetails.Number

	var preChain, postChainReversed []types.Hash

	for curFromNum > curToNum {
		preChain = append(preChain, curFrom)
		d, err := te.store.ReadDetails(curFrom)
		if err != nil {
			return nil, err
		}
		curFrom = d.ParentHash
		curFromNum--
	}
	for curToNum > curFromNum {
		postChainReversed = append(postChainReversed, curTo)
		d, err := te.store.ReadDetails(curTo)
		if err != nil {
			return nil, err
		}
		curTo = d.ParentHash
		curToNum--
	}

	for curFrom != curTo {
		preChain = append(preChain, curFrom)
		df, err := te.store.ReadDetails(curFrom)
		if err != nil {
			return nil, err
		}
		curFrom = df.ParentHash

		postChainReversed = append(postChainReversed, curTo)
		dt, err := te.store.ReadDetails(curTo)
		if err != nil {
			return nil, err
		}
		curTo = dt.ParentHash
	}
	common := curFrom

	postChain := make([]types.Hash, len(postChainReversed))
	for i, h := range postChainReversed {
		postChain[len(postChainReversed)-1-i] = h
	}

	var hashes []types.Hash
	if includePre {
		hashes = append(hashes, preChain...)
	}
	commonIndex := len(hashes)
	if includeCommon {
		hashes = append(hashes, common)
	}
	if includePost {
		hashes = append(hashes, postChain...)
	}

	return &Route{Hashes: hashes, CommonAncestor: common, CommonIndex: commonIndex}, nil
}
