package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate new key pair",
	Run:   generateRun,
}

func init() {
	rootCmd.AddCommand(generateCmd)
}

func generateRun(cmd *cobra.Command, args []string) {
	kp, err := keypair.Generate()
	if err != nil {
		log.Fatal(err)
	}

	saveKeypair(kp)
}

func saveKeypair(kp keypair.Keypair) {
	path := getPrivateKeyPath()
	if _, err := os.Stat(path); err == nil {
		log.Fatalf("key file %s already exists", path)
	}

	if err := os.MkdirAll(accountPath, 0700); err != nil {
		log.Fatal(err)
	}

	if err := kp.Save(path); err != nil {
		log.Fatal(err)
	}

	fmt.Println(kp.PublicKey)
}
