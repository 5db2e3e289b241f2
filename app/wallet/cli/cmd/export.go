package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

var exportHex bool

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the private key in WIF form",
	Run:   exportRun,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().BoolVarP(&exportHex, "hex", "x", false, "Print the raw hex scalar instead of WIF.")
}

func exportRun(cmd *cobra.Command, args []string) {
	kp, err := loadKeypair()
	if err != nil {
		log.Fatal(err)
	}

	if exportHex {
		fmt.Println(kp.PrivateKey)
		return
	}

	wif, err := kp.WIF()
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(wif)
}
