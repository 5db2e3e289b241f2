// Package genesis maintains the parameters a ledger is started with.
package genesis

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Default parameter values.
const (
	DifficultyFactor = 5
	MaxDifficulty    = 62
	TxPerBlock       = 2
	FeePerTx         = 1
	UTXOStrategy     = "amount"
)

// Genesis represents the ledger parameters.
type Genesis struct {
	Date             time.Time `json:"date"`
	DifficultyFactor int       `json:"difficulty_factor"` // Number of blocks between difficulty steps.
	MaxDifficulty    int       `json:"max_difficulty"`    // Upper bound reported to miners, not enforced.
	TxPerBlock       int       `json:"tx_per_block"`      // The maximum number of mempool transactions in a block.
	FeePerTx         uint64    `json:"fee_per_tx"`        // Fee collected by the miner for each transaction.
	UTXOStrategy     string    `json:"utxo_strategy"`     // How spent inputs are matched to outputs.
}

// Default returns the standard ledger parameters.
func Default() Genesis {
	return Genesis{
		Date:             time.Now().UTC(),
		DifficultyFactor: DifficultyFactor,
		MaxDifficulty:    MaxDifficulty,
		TxPerBlock:       TxPerBlock,
		FeePerTx:         FeePerTx,
		UTXOStrategy:     UTXOStrategy,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. Values missing from the file
// keep their defaults.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	genesis := Default()
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, fmt.Errorf("decoding genesis file: %w", err)
	}

	if err := genesis.Validate(); err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Validate checks the parameters can drive a ledger.
func (g Genesis) Validate() error {
	if g.DifficultyFactor < 1 {
		return fmt.Errorf("difficulty factor must be at least 1, got %d", g.DifficultyFactor)
	}

	if g.TxPerBlock < 1 {
		return fmt.Errorf("transactions per block must be at least 1, got %d", g.TxPerBlock)
	}

	return nil
}
