// Package cmd implements the chaindb-demo command-line tool: a thin
// wrapper over the core import pipeline for exercising a chain
// database from a shell.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/ethlayer/chaindb/core"
	"github.com/ethlayer/chaindb/core/rawdb"
	"github.com/ethlayer/chaindb/core/types"
	"github.com/ethlayer/chaindb/internal/chainlog"
	"github.com/spf13/cobra"
)

var datadir string

func init() {
	rootCmd.PersistentFlags().StringVarP(&datadir, "datadir", "d", "chaindata", "directory holding the blocks/ and extras/ stores")
}

var rootCmd = &cobra.Command{
	Use:   "chaindb-demo",
	Short: "Inspect and drive a chain database from the command line",
}

// Execute runs the root command, exiting non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openStore opens (creating if absent) the two LevelDB-backed
// physical stores under datadir and wires a Store around them.
func openStore() (*rawdb.Store, error) {
	blocksDB, err := rawdb.OpenLevelDB(filepath.Join(datadir, "blocks"))
	if err != nil {
		return nil, err
	}
	extrasDB, err := rawdb.OpenLevelDB(filepath.Join(datadir, "extras"))
	if err != nil {
		return nil, err
	}
	return rawdb.NewStore(blocksDB, extrasDB), nil
}

// openChain wires a Chain around a freshly opened store, loading the
// persisted head pointer if one exists.
func openChain() (*core.Chain, *rawdb.Store, error) {
	store, err := openStore()
	if err != nil {
		return nil, nil, err
	}
	if hash, number, ok, err := store.ReadHead(); err != nil {
		return nil, nil, err
	} else if ok {
		store.SetHead(hash, number)
	}

	params := core.MainnetParams()
	seal := core.NewNoSealEngine(params)
	chain := core.NewChain(store, seal, core.NullStateDB{}, params)

	log := chainlog.New()
	chain.OnBlockImport(func(h *types.Header) {
		log.Info().Uint64("number", h.NumberU64()).Str("hash", h.Hash().Hex()).Msg("imported block")
	})
	chain.OnBad(func(err error) {
		log.Warn().Err(err).Msg("rejected block")
	})
	return chain, store, nil
}
