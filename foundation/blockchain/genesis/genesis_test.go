package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestLoad(t *testing.T) {
	type table struct {
		name    string
		content string
		exp     genesis.Genesis
		fail    bool
	}

	tt := []table{
		{
			name:    "partial",
			content: `{"tx_per_block": 4, "utxo_strategy": "lineage"}`,
			exp: genesis.Genesis{
				DifficultyFactor: genesis.DifficultyFactor,
				MaxDifficulty:    genesis.MaxDifficulty,
				TxPerBlock:       4,
				FeePerTx:         genesis.FeePerTx,
				UTXOStrategy:     "lineage",
			},
		},
		{
			name:    "zero-factor",
			content: `{"difficulty_factor": 0}`,
			fail:    true,
		},
		{
			name:    "garbage",
			content: `{"difficulty_factor": "five"`,
			fail:    true,
		},
	}

	t.Log("Given the need to load ledger parameters.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen loading a %s file.", testID, tst.name)
				{
					path := filepath.Join(t.TempDir(), "genesis.json")
					if err := os.WriteFile(path, []byte(tst.content), 0600); err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to write the file : %v", failed, testID, err)
					}

					gen, err := genesis.Load(path)
					if tst.fail {
						if err == nil {
							t.Fatalf("\t%s\tTest %d:\tShould get an error.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get an error.", success, testID)
						return
					}

					if err != nil {
						t.Fatalf("\t%s\tTest %d:\tShould be able to load the file : %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould be able to load the file.", success, testID)

					gen.Date = tst.exp.Date
					if gen != tst.exp {
						t.Logf("\t%s\tTest %d:\tgot: %+v", failed, testID, gen)
						t.Logf("\t%s\tTest %d:\texp: %+v", failed, testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould keep defaults for missing values.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould keep defaults for missing values.", success, testID)
				}
			}

			t.Run(tst.name, f)
		}
	}
}
