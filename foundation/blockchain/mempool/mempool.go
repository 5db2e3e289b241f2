// Package mempool maintains the mempool for the blockchain.
package mempool

import (
	"sync"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// Mempool represents a FIFO queue of validated transactions waiting to be
// mined into a block.
type Mempool struct {
	pool []database.Tx
	mu   sync.RWMutex
}

// New constructs a new empty mempool.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Append adds the transaction to the tail of the pool and returns the new
// number of transactions.
func (mp *Mempool) Append(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)

	return len(mp.pool)
}

// Copy returns the transactions in queue order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return append([]database.Tx(nil), mp.pool...)
}

// PickFirst returns up to howMany transactions from the head of the queue
// without removing them. Receiving -1 returns all the transactions.
func (mp *Mempool) PickFirst(howMany int) []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if howMany == -1 || howMany > len(mp.pool) {
		howMany = len(mp.pool)
	}

	return append([]database.Tx(nil), mp.pool[:howMany]...)
}

// Position returns the index of the transaction in the queue or -1.
func (mp *Mempool) Position(hash string) int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	for i, tx := range mp.pool {
		if tx.Hash() == hash {
			return i
		}
	}

	return -1
}

// Get returns the transaction at the position in the queue.
func (mp *Mempool) Get(position int) (database.Tx, bool) {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	if position < 0 || position >= len(mp.pool) {
		return database.Tx{}, false
	}

	return mp.pool[position], true
}

// HasSender reports whether any pending transaction spends from the address.
func (mp *Mempool) HasSender(address string) bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	for _, tx := range mp.pool {
		for _, in := range tx.Inputs() {
			if in.FromAddress() == address {
				return true
			}
		}
	}

	return false
}

// Remove deletes every transaction whose hash is in the set, keeping the
// order of the rest, and returns how many were removed.
func (mp *Mempool) Remove(hashes map[string]bool) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	kept := mp.pool[:0:0]
	for _, tx := range mp.pool {
		if !hashes[tx.Hash()] {
			kept = append(kept, tx)
		}
	}

	removed := len(mp.pool) - len(kept)
	mp.pool = kept

	return removed
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
