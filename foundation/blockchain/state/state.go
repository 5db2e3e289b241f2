// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxochain/foundation/blockchain/mempool"
	"github.com/ardanlabs/utxochain/foundation/blockchain/utxo"
)

// ErrNoTransactions is returned when a block template is requested and
// there are no transactions in the mempool.
var ErrNoTransactions = errors.New("no transactions in mempool")

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining against this ledger.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalCancelMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger.
type Config struct {
	MinerAddress string
	Genesis      genesis.Genesis
	EvHandler    EventHandler
}

// State manages the blocks and the mempool of the ledger. AddTransaction
// and AddBlock are serialized by the write lock; queries share the read
// lock so they never observe a half applied change.
type State struct {
	minerAddress string
	genesis      genesis.Genesis
	evHandler    EventHandler
	utxoMatch    utxo.Func

	mu      sync.RWMutex
	blocks  []database.Block
	mempool *mempool.Mempool

	workerMu sync.Mutex
	worker   Worker
}

// New constructs a new ledger and mines the genesis block, whose reward is
// paid to the miner address.
func New(cfg Config) (*State, error) {
	if cfg.MinerAddress == "" {
		return nil, errors.New("miner address is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	gen := cfg.Genesis
	if gen.DifficultyFactor == 0 {
		gen = genesis.Default()
	}
	if err := gen.Validate(); err != nil {
		return nil, err
	}

	match, err := utxo.Retrieve(gen.UTXOStrategy)
	if err != nil {
		return nil, err
	}

	s := State{
		minerAddress: cfg.MinerAddress,
		genesis:      gen,
		evHandler:    ev,
		utxoMatch:    match,
		mempool:      mempool.New(),
	}

	ev("state: New: mining genesis block: miner[%s]", cfg.MinerAddress)

	difficulty := s.difficultyAt(0)
	reward := database.NewRewardTx(database.NewTxOutput(cfg.MinerAddress, database.RewardAmount(difficulty)))
	shell := database.NewBlockFromTemplate(database.BlockInfo{
		Index:        0,
		Transactions: []database.Tx{reward},
	})

	block, err := shell.Mine(context.Background(), difficulty, cfg.MinerAddress, ev)
	if err != nil {
		return nil, fmt.Errorf("mining genesis block: %w", err)
	}
	s.blocks = append(s.blocks, block)

	return &s, nil
}

// RegisterWorker attaches the worker that mines against this ledger so it
// can be told when there is work and when the tip moved.
func (s *State) RegisterWorker(w Worker) {
	s.workerMu.Lock()
	defer s.workerMu.Unlock()

	s.worker = w
}

// Shutdown stops the registered worker.
func (s *State) Shutdown() {
	s.workerMu.Lock()
	w := s.worker
	s.workerMu.Unlock()

	if w != nil {
		w.Shutdown()
	}
}

// Difficulty returns the number of leading zeros the next block's hash
// needs. It grows by one every DifficultyFactor blocks.
func (s *State) Difficulty() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficultyAt(len(s.blocks))
}

// FeePerTx returns the fee a miner collects for each transaction.
func (s *State) FeePerTx() uint64 {
	return s.genesis.FeePerTx
}

// =============================================================================

// difficultyAt returns the difficulty in force when the chain held the
// specified number of blocks.
func (s *State) difficultyAt(length int) int {
	factor := s.genesis.DifficultyFactor
	return (length+factor-1)/factor + 1
}

// signalStartMining tells the worker there are transactions to mine.
func (s *State) signalStartMining() {
	s.workerMu.Lock()
	defer s.workerMu.Unlock()

	if s.worker != nil {
		s.worker.SignalStartMining()
	}
}

// signalCancelMining tells the worker the tip moved under it.
func (s *State) signalCancelMining() {
	s.workerMu.Lock()
	defer s.workerMu.Unlock()

	if s.worker != nil {
		s.worker.SignalCancelMining()
	}
}
