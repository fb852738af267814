package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statsCmd)
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the canonical head and cache occupancy",
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, store, err := openChain()
		if err != nil {
			return err
		}
		defer store.Close()

		hash, number, ok := store.Head()
		if !ok {
			fmt.Println("head: unset (run `genesis` first)")
		} else {
			fmt.Printf("head: #%d %s\n", number, hash.Hex())
		}

		u := chain.Usage()
		fmt.Printf("cache occupancy: blocks=%d headers=%d details=%d numbers=%d txaddr=%d logblooms=%d receipts=%d bloomchunks=%d\n",
			u.Blocks, u.Headers, u.Details, u.BlockHashByNumber, u.TransactionAddress, u.LogBlooms, u.Receipts, u.BlocksBlooms)
		return nil
	},
}
