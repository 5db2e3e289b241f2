package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var utxoCmd = &cobra.Command{
	Use:   "utxo",
	Short: "List the unspent outputs of your wallet.",
	Run:   utxoRun,
}

func init() {
	rootCmd.AddCommand(utxoCmd)
}

func utxoRun(cmd *cobra.Command, args []string) {
	kp, err := loadKeypair()
	if err != nil {
		log.Fatal(err)
	}

	cln, ctx, cancel := newClient()
	defer cancel()

	outs, err := cln.UTXOFor(ctx, kp.PublicKey)
	if err != nil {
		log.Fatal(err)
	}

	for _, out := range outs {
		fmt.Printf("%s %d\n", out.ProducingTxHash(), out.Amount())
	}
}
