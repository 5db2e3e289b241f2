package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation takes the next block template from the ledger, adds the
// fee transaction paying this miner, mines the block and submits it.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	info, ok, err := w.ledger.NextBlockTemplate(ctx)
	if err != nil {
		w.evHandler("worker: runMiningOperation: MINING: ERROR: template: %s", err)
		return
	}
	if !ok {
		w.evHandler("worker: runMiningOperation: MINING: no transactions to mine")
		return
	}

	if info.MaxDifficulty > 0 && info.Difficulty > info.MaxDifficulty {
		w.evHandler("worker: runMiningOperation: MINING: WARNING: difficulty[%d] above max[%d]", info.Difficulty, info.MaxDifficulty)
	}

	// After running a mining operation, check if a new operation should
	// be signaled again.
	mined := false
	defer func() {
		if mined {
			w.SignalStartMining()
		}
	}()

	fee := database.NewRewardTx(database.NewTxOutput(w.minerAddress, info.Reward()))
	shell := database.NewBlockFromTemplate(info).WithTransaction(fee)

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation when signaled or when the
	// ledger's tip moves under this template.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-w.cancelMining:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
				return
			case <-w.shut:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: shutdown")
				return
			case <-ticker.C:
				if w.isStale(ctx, info) {
					w.evHandler("worker: runMiningOperation: MINING: CANCEL: tip moved")
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err := shell.Mine(ctx, info.Difficulty, w.minerAddress, w.evHandler)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete, block discarded")
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
			return
		}

		// WOW, we mined a block. Submit the new block to the ledger.
		res, err := w.ledger.AddBlock(context.Background(), block)
		switch {
		case err != nil:
			w.evHandler("worker: runMiningOperation: MINING: submit: ERROR: %s", err)
		case !res.Success:
			w.evHandler("worker: runMiningOperation: MINING: submit: REJECTED: %s", res.Error())
		default:
			mined = true
			w.evHandler("worker: runMiningOperation: MINING: submit: accepted blk[%s]", block)
		}
	}()

	// Wait for both G's to terminate.
	wg.Wait()
}

// isStale reports whether the ledger moved past the template being mined.
func (w *Worker) isStale(ctx context.Context, info database.BlockInfo) bool {
	next, ok, err := w.ledger.NextBlockTemplate(ctx)
	if err != nil {
		return false
	}
	if !ok {
		return true
	}

	return next.Index != info.Index || next.PreviousHash != info.PreviousHash
}
