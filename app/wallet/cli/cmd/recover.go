package cmd

import (
	"log"

	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/spf13/cobra"
)

var recoverCmd = &cobra.Command{
	Use:   "recover <hex-or-wif>",
	Short: "Recover a key pair from a hex private key or a WIF string",
	Args:  cobra.ExactArgs(1),
	Run:   recoverRun,
}

func init() {
	rootCmd.AddCommand(recoverCmd)
}

func recoverRun(cmd *cobra.Command, args []string) {
	kp, err := keypair.Recover(args[0])
	if err != nil {
		log.Fatal(err)
	}

	saveKeypair(kp)
}
