package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rescueCmd)
	rootCmd.AddCommand(rebuildCmd)
}

var rescueCmd = &cobra.Command{
	Use:   "rescue",
	Short: "Scan the blocks store for the best consistent chain and adopt it as canonical",
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, store, err := openChain()
		if err != nil {
			return err
		}
		defer store.Close()

		progress := func(done, total int) bool {
			fmt.Printf("\rrescue: %d/%d", done, total)
			return true
		}
		if err := chain.Rescue(progress); err != nil {
			return err
		}
		fmt.Println()
		hash, number, _ := store.Head()
		fmt.Printf("rescued head: #%d %s\n", number, hash.Hex())
		return nil
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Reconstruct the extras index from the blocks store",
	RunE: func(cmd *cobra.Command, args []string) error {
		chain, store, err := openChain()
		if err != nil {
			return err
		}
		defer store.Close()

		progress := func(done, total int) bool {
			fmt.Printf("\rrebuild: %d/%d", done, total)
			return true
		}
		if err := chain.RebuildIndex(progress); err != nil {
			return err
		}
		fmt.Println()
		hash, number, _ := store.Head()
		fmt.Printf("rebuilt head: #%d %s\n", number, hash.Hex())
		return nil
	},
}
