package cmd

import (
	"fmt"
	"math/big"

	"github.com/ethlayer/chaindb/core/types"
	"github.com/spf13/cobra"
)

var genesisDifficulty int64

func init() {
	genesisCmd.Flags().Int64Var(&genesisDifficulty, "difficulty", 131072, "genesis block difficulty")
	rootCmd.AddCommand(genesisCmd)
}

var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Initialize the chain database with a synthetic genesis block",
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, store, err := openChain()
		if err != nil {
			return err
		}
		defer store.Close()

		if _, _, ok := store.Head(); ok {
			return fmt.Errorf("chaindb-demo: genesis already initialized")
		}

		header := &types.Header{
			Number:     big.NewInt(0),
			Difficulty: big.NewInt(genesisDifficulty),
			GasLimit:   5000000,
			Time:       0,
		}
		block := types.NewBlock(header, nil, nil)
		if err := chain.InitGenesis(block); err != nil {
			return err
		}
		fmt.Printf("genesis block %s initialized\n", block.Hash().Hex())
		return nil
	},
}
