package public

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

type status struct {
	LatestBlockHash  string            `json:"latest_block_hash"`
	LatestBlockIndex uint64            `json:"latest_block_index"`
	Difficulty       int               `json:"difficulty"`
	FeePerTx         uint64            `json:"fee_per_tx"`
	Mempool          int               `json:"mempool"`
	Valid            validation.Result `json:"valid"`
}

type balance struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

type txLookup struct {
	Transaction     database.TxData `json:"transaction"`
	MempoolPosition int             `json:"mempool_position"`
	BlockIndex      int64           `json:"block_index"`
}
