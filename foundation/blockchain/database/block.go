// Package database defines the ledger entities: outputs, inputs,
// transactions and blocks, with their hashing and validation rules.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// maxHashDifficulty is the number of hex characters in a block hash.
const maxHashDifficulty = 64

// RewardAmount returns the value a block's miner may claim at the specified
// difficulty, not counting collected fees.
func RewardAmount(difficulty int) uint64 {
	if difficulty >= maxHashDifficulty {
		return 0
	}
	if difficulty < 0 {
		difficulty = 0
	}

	return uint64(maxHashDifficulty-difficulty) * 10
}

// =============================================================================

// BlockInfo is the template a miner needs to build and mine the next block.
type BlockInfo struct {
	Index         uint64
	PreviousHash  string
	Difficulty    int
	FeePerTx      uint64
	MaxDifficulty int
	Transactions  []Tx
}

// Reward returns the block reward plus the fees the template's transactions
// pay to the miner.
func (bi BlockInfo) Reward() uint64 {
	var count uint64
	for _, tx := range bi.Transactions {
		if tx.txType != TxFee {
			count++
		}
	}

	return RewardAmount(bi.Difficulty) + bi.FeePerTx*count
}

// =============================================================================

// Block is an ordered set of transactions linked to the previous block. The
// hash only changes through Mine.
type Block struct {
	index        uint64
	timestamp    int64
	hash         string
	previousHash string
	transactions []Tx
	nonce        uint64
	miner        string
}

// NewBlockFromTemplate constructs an unmined block from the template.
func NewBlockFromTemplate(info BlockInfo) Block {
	b := Block{
		index:        info.Index,
		timestamp:    time.Now().UTC().UnixMilli(),
		previousHash: info.PreviousHash,
		transactions: append([]Tx(nil), info.Transactions...),
	}
	b.hash = b.ComputeHash()

	return b
}

// WithTransaction returns a copy of the unmined block with the transaction
// appended. This is how a miner adds its fee transaction to a template.
func (b Block) WithTransaction(tx Tx) Block {
	trans := make([]Tx, 0, len(b.transactions)+1)
	trans = append(trans, b.transactions...)
	trans = append(trans, tx)

	nb := b
	nb.transactions = trans
	nb.hash = nb.ComputeHash()

	return nb
}

// Index returns the position of the block in the chain.
func (b Block) Index() uint64 {
	return b.index
}

// Timestamp returns the block creation time in milliseconds since the epoch.
func (b Block) Timestamp() int64 {
	return b.timestamp
}

// Hash returns the stored block hash.
func (b Block) Hash() string {
	return b.hash
}

// PreviousHash returns the hash of the block this block extends.
func (b Block) PreviousHash() string {
	return b.previousHash
}

// Transactions returns a copy of the block's transactions.
func (b Block) Transactions() []Tx {
	return append([]Tx(nil), b.transactions...)
}

// Nonce returns the proof of work nonce.
func (b Block) Nonce() uint64 {
	return b.nonce
}

// Miner returns the address of the miner who solved the block.
func (b Block) Miner() string {
	return b.miner
}

// ComputeHash hashes the index, the transaction hashes, the timestamp, the
// previous hash, the nonce and the miner, in that order.
func (b Block) ComputeHash() string {
	var trans strings.Builder
	for _, tx := range b.transactions {
		trans.WriteString(tx.hash)
	}

	return hashOf(
		itoa(b.index),
		trans.String(),
		fmt.Sprintf("%d", b.timestamp),
		b.previousHash,
		itoa(b.nonce),
		b.miner,
	)
}

// Mine sets the miner and increments the nonce until the hash has the
// difficulty number of leading zeros. Mining stops with the context's error
// when it is cancelled, and the partially mined block is discarded.
func (b Block) Mine(ctx context.Context, difficulty int, miner string, ev func(v string, args ...any)) (Block, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	if difficulty < 0 || difficulty > maxHashDifficulty {
		return Block{}, fmt.Errorf("difficulty %d out of range", difficulty)
	}

	ev("database: Mine: MINING: started: blk[%d]: difficulty[%d]", b.index, difficulty)
	defer ev("database: Mine: MINING: completed: blk[%d]", b.index)

	nb := b
	nb.miner = miner
	nb.nonce = 0

	var attempts uint64
	for {
		attempts++
		if attempts%1_000_000 == 0 {
			ev("database: Mine: MINING: attempts[%d]", attempts)
		}

		// Did we get cancelled trying to solve the problem.
		if attempts%1024 == 1 && ctx.Err() != nil {
			ev("database: Mine: MINING: CANCELLED")
			return Block{}, ctx.Err()
		}

		nb.nonce++
		hash := nb.ComputeHash()
		if !isHashSolved(difficulty, hash) {
			continue
		}

		nb.hash = hash
		ev("database: Mine: MINING: SOLVED: prevBlk[%s]: newBlk[%s]: attempts[%d]", short(nb.previousHash), hash, attempts)

		return nb, nil
	}
}

// FeeTx returns the block's fee transaction and the number of fee
// transactions present.
func (b Block) FeeTx() (Tx, int) {
	var fee Tx
	var count int
	for _, tx := range b.transactions {
		if tx.txType == TxFee {
			if count == 0 {
				fee = tx
			}
			count++
		}
	}

	return fee, count
}

// IsValid checks the block against the expected chain position, difficulty
// and fee policy. Transaction failures are collected into one result.
func (b Block) IsValid(previousHash string, previousIndex uint64, difficulty int, feePerTx uint64) validation.Result {
	if len(b.transactions) > 0 {
		feeTx, feeCount := b.FeeTx()
		switch {
		case feeCount == 0:
			return validation.Fail(validation.NoFeeTx, "block %d has no fee transaction", b.index)
		case feeCount > 1:
			return validation.Fail(validation.TooManyFees, "block %d has %d fee transactions", b.index, feeCount)
		}

		paid := false
		for _, out := range feeTx.outputs {
			if out.toAddress == b.miner {
				paid = true
				break
			}
		}
		if !paid {
			return validation.Fail(validation.FeeNotPaidToMiner, "block %d fee transaction does not pay the miner", b.index)
		}

		totalFees := feePerTx * uint64(len(b.transactions)-feeCount)

		var errs []string
		for _, tx := range b.transactions {
			if res := tx.IsValid(difficulty, totalFees); !res.Success {
				errs = append(errs, fmt.Sprintf("tx[%s]: %s", short(tx.hash), res.Message))
			}
		}
		if len(errs) > 0 {
			return validation.Fail(validation.InvalidTransactionsInBlock, "block %d has invalid transactions: %s", b.index, strings.Join(errs, "; "))
		}
	}

	if previousIndex+1 != b.index {
		return validation.Fail(validation.InvalidIndex, "block index %d does not follow %d", b.index, previousIndex)
	}

	if b.timestamp < 1 {
		return validation.Fail(validation.InvalidTimestamp, "block %d has no timestamp", b.index)
	}

	if b.previousHash != previousHash {
		return validation.Fail(validation.InvalidPreviousHash, "block %d previous hash %s, exp %s", b.index, short(b.previousHash), short(previousHash))
	}

	if b.nonce < 1 || b.miner == "" {
		return validation.Fail(validation.NotMined, "block %d has not been mined", b.index)
	}

	if hash := b.ComputeHash(); hash != b.hash || !isHashSolved(difficulty, hash) {
		return validation.Fail(validation.InvalidHash, "block %d hash %s is not valid at difficulty %d", b.index, short(b.hash), difficulty)
	}

	return validation.OK()
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("%d:%s:txs[%d]", b.index, short(b.hash), len(b.transactions))
}

// =============================================================================

// isHashSolved checks the hash to make sure it complies with the POW rules.
// We need to match a difficulty number of 0's.
func isHashSolved(difficulty int, hash string) bool {
	if len(hash) != maxHashDifficulty || difficulty < 0 || difficulty > maxHashDifficulty {
		return false
	}

	return strings.Count(hash[:difficulty], "0") == difficulty
}
