package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Print your balance.",
	Run:   balanceRun,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func balanceRun(cmd *cobra.Command, args []string) {
	kp, err := loadKeypair()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("For Address:", kp.PublicKey)

	cln, ctx, cancel := newClient()
	defer cancel()

	balance, err := cln.BalanceOf(ctx, kp.PublicKey)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(balance)
}
