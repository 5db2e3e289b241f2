package state

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
)

// TxLookup describes where a transaction was found. MempoolPosition and
// BlockIndex are -1 when the transaction is not in that place.
type TxLookup struct {
	Tx              database.Tx
	MempoolPosition int
	BlockIndex      int64
	Found           bool
}

// UTXOFor returns the outputs paid to the address that have not been spent.
// Each returned output carries the hash of the transaction that produced it.
func (s *State) UTXOFor(address string) []database.TxOutput {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.utxoFor(address)
}

// BalanceOf returns the sum of the address's unspent outputs. The sum
// stops at math.MaxUint64.
func (s *State) BalanceOf(address string) uint64 {
	var balance uint64
	for _, out := range s.UTXOFor(address) {
		balance, _ = database.AddAmount(balance, out.Amount())
	}

	return balance
}

// FindTransaction looks for the transaction in the mempool first and then
// in the confirmed blocks.
func (s *State) FindTransaction(hash string) TxLookup {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if pos := s.mempool.Position(hash); pos != -1 {
		if tx, ok := s.mempool.Get(pos); ok {
			return TxLookup{Tx: tx, MempoolPosition: pos, BlockIndex: -1, Found: true}
		}
	}

	if lookup, found := s.findConfirmed(hash); found {
		return lookup
	}

	return TxLookup{MempoolPosition: -1, BlockIndex: -1}
}

// =============================================================================

// utxoFor collects outputs and spends for the address across the chain and
// lets the configured strategy decide which outputs remain. The caller must
// hold the lock.
func (s *State) utxoFor(address string) []database.TxOutput {
	var outputs []database.TxOutput
	var spent []database.TxInput

	for _, block := range s.blocks {
		for _, tx := range block.Transactions() {
			for _, in := range tx.Inputs() {
				if in.FromAddress() == address {
					spent = append(spent, in)
				}
			}

			for _, out := range tx.Outputs() {
				if out.ToAddress() == address {
					out.AttachProducingTx(tx.Hash())
					outputs = append(outputs, out)
				}
			}
		}
	}

	return s.utxoMatch(outputs, spent)
}

// findConfirmed searches the blocks in chain order. The caller must hold
// the lock.
func (s *State) findConfirmed(hash string) (TxLookup, bool) {
	for _, block := range s.blocks {
		for _, tx := range block.Transactions() {
			if tx.Hash() == hash {
				return TxLookup{Tx: tx, MempoolPosition: -1, BlockIndex: int64(block.Index()), Found: true}, true
			}
		}
	}

	return TxLookup{}, false
}
