// Package worker implements the mining workflow that builds, mines and
// submits blocks to a ledger.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// defaultPollInterval represents the interval the worker checks the ledger
// for a new template and for a tip that moved under a running mining
// operation.
const defaultPollInterval = 2 * time.Second

// =============================================================================

// Ledger is the behavior the worker needs from the ledger it mines for. It
// is implemented in process by Local and over HTTP by the client package.
type Ledger interface {
	NextBlockTemplate(ctx context.Context) (database.BlockInfo, bool, error)
	AddBlock(ctx context.Context, block database.Block) (validation.Result, error)
}

// Local adapts an in process ledger to the Ledger interface.
func Local(s *state.State) Ledger {
	return local{state: s}
}

type local struct {
	state *state.State
}

func (l local) NextBlockTemplate(ctx context.Context) (database.BlockInfo, bool, error) {
	info, ok := l.state.NextBlockTemplate()
	return info, ok, nil
}

func (l local) AddBlock(ctx context.Context, block database.Block) (validation.Result, error) {
	return l.state.AddBlock(block), nil
}

// =============================================================================

// Config represents the configuration required to run a worker.
type Config struct {
	Ledger       Ledger
	MinerAddress string
	PollInterval time.Duration
	EvHandler    state.EventHandler
}

// Worker manages the POW workflow for the ledger.
type Worker struct {
	ledger       Ledger
	minerAddress string
	pollInterval time.Duration
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	startMining  chan bool
	cancelMining chan bool
	evHandler    state.EventHandler
}

// Run creates a worker and starts up the background mining process.
func Run(cfg Config) *Worker {
	ev := cfg.EvHandler
	if ev == nil {
		ev = func(string, ...any) {}
	}

	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}

	w := Worker{
		ledger:       cfg.Ledger,
		minerAddress: cfg.MinerAddress,
		pollInterval: poll,
		ticker:       time.NewTicker(poll),
		shut:         make(chan struct{}),
		startMining:  make(chan bool, 1),
		cancelMining: make(chan bool, 1),
		evHandler:    ev,
	}

	// Load the set of operations we need to run.
	operations := []func(){
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: signal cancel mining")
	w.SignalCancelMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation. If there is already a signal
// pending in the channel, just return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancelMining <- true:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
