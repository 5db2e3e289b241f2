package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/ardanlabs/utxochain/foundation/blockchain/client"
	"github.com/spf13/cobra"
)

var txCmd = &cobra.Command{
	Use:   "tx <hash>",
	Short: "Show where a transaction is.",
	Args:  cobra.ExactArgs(1),
	Run:   txRun,
}

func init() {
	rootCmd.AddCommand(txCmd)
}

func txRun(cmd *cobra.Command, args []string) {
	cln, ctx, cancel := newClient()
	defer cancel()

	lookup, err := cln.FindTransaction(ctx, args[0])
	if errors.Is(err, client.ErrNotFound) {
		fmt.Println("not found")
		return
	}
	if err != nil {
		log.Fatal(err)
	}

	switch {
	case lookup.MempoolPosition >= 0:
		fmt.Printf("%s pending at mempool position %d\n", lookup.Tx, lookup.MempoolPosition)
	default:
		fmt.Printf("%s confirmed in block %d\n", lookup.Tx, lookup.BlockIndex)
	}
}
