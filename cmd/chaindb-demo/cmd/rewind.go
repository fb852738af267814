package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rewindTarget uint64

func init() {
	rewindCmd.Flags().Uint64Var(&rewindTarget, "to", 0, "block number to rewind the canonical head to")
	rootCmd.AddCommand(rewindCmd)
}

var rewindCmd = &cobra.Command{
	Use:   "rewind",
	Short: "Move the canonical head back to an earlier block number",
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, store, err := openChain()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := chain.Rewind(rewindTarget); err != nil {
			return err
		}
		fmt.Printf("head rewound to #%d\n", rewindTarget)
		return nil
	},
}
