package cmd

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/keypair"
	"github.com/spf13/cobra"
)

var (
	to     string
	amount uint64
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send transaction",
	Run:   sendRun,
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&to, "to", "t", "", "Address of the recipient.")
	sendCmd.Flags().Uint64VarP(&amount, "amount", "v", 0, "Amount to send.")
}

func sendRun(cmd *cobra.Command, args []string) {
	kp, err := loadKeypair()
	if err != nil {
		log.Fatal(err)
	}

	cln, ctx, cancel := newClient()
	defer cancel()

	status, err := cln.Status(ctx)
	if err != nil {
		log.Fatal(err)
	}

	utxos, err := cln.UTXOFor(ctx, kp.PublicKey)
	if err != nil {
		log.Fatal(err)
	}

	tx, err := buildTx(kp, utxos, to, amount, status.FeePerTx, time.Now().UTC().UnixMilli())
	if err != nil {
		log.Fatal(err)
	}

	res, err := cln.AddTransaction(ctx, tx)
	if err != nil {
		log.Fatal(err)
	}

	if !res.Success {
		log.Fatalf("transaction rejected: %s", res.Error())
	}

	fmt.Println(tx.Hash())
}

// buildTx spends unspent outputs in order until they cover the amount and
// the fee. Whatever is left over comes back to the sender as change.
func buildTx(kp keypair.Keypair, utxos []database.TxOutput, to string, amount uint64, fee uint64, timestamp int64) (database.Tx, error) {
	if to == "" {
		return database.Tx{}, errors.New("recipient address is required")
	}
	if amount == 0 {
		return database.Tx{}, errors.New("amount must be positive")
	}

	need := amount + fee

	var inputs []database.TxInput
	var total uint64
	for _, out := range utxos {
		if total >= need {
			break
		}
		inputs = append(inputs, database.TxInputFromOutput(out))
		total += out.Amount()
	}

	if total < need {
		return database.Tx{}, fmt.Errorf("insufficient funds: have %d, need %d", total, need)
	}

	outputs := []database.TxOutput{database.NewTxOutput(to, amount)}
	if change := total - need; change > 0 {
		outputs = append(outputs, database.NewTxOutput(kp.PublicKey, change))
	}

	tx := database.NewTx(database.TxRegular, timestamp, inputs, outputs)
	if err := tx.SignInputs(kp); err != nil {
		return database.Tx{}, fmt.Errorf("signing inputs: %w", err)
	}

	return tx, nil
}
