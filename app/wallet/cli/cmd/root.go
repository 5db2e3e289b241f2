// Package cmd contains wallet app
package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/client"
	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/spf13/cobra"
)

var (
	accountName string
	accountPath string
	url         string
)

const timeout = 10 * time.Second

func init() {
	rootCmd.PersistentFlags().StringVarP(&accountName, "account", "a", "private.ecdsa", "Path to the private key.")
	rootCmd.PersistentFlags().StringVarP(&accountPath, "account-path", "p", "zblock/accounts/", "Path to the directory with private keys.")
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:8080", "Url of the node.")
}

var rootCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Your simple wallet",
}

// Execute runs the wallet command line.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func getPrivateKeyPath() string {
	if !strings.HasSuffix(accountName, nameservice.KeyExtension) {
		accountName += nameservice.KeyExtension
	}

	return filepath.Join(accountPath, accountName)
}

func loadKeypair() (keypair.Keypair, error) {
	return keypair.Load(getPrivateKeyPath())
}

func newClient() (*client.Client, context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	return client.New(url), ctx, cancel
}
