package state

import (
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// AddTransaction validates a wallet transaction against the ledger and, if
// it passes, queues it at the tail of the mempool. The result message holds
// the transaction hash on success.
func (s *State) AddTransaction(tx database.Tx) validation.Result {
	res := s.addTransaction(tx)
	if !res.Success {
		s.evHandler("state: AddTransaction: REJECTED: tx[%s]: %s", tx, res.Message)
		return res
	}

	s.evHandler("state: AddTransaction: accepted: tx[%s]", tx)
	s.signalStartMining()

	return res
}

func (s *State) addTransaction(tx database.Tx) validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Fee transactions are created by miners inside blocks.
	if tx.Type() == database.TxFee {
		return validation.Fail(validation.UnexpectedFeeTx, "fee transactions can only enter the ledger inside a block")
	}

	// Only one transaction per spending address can be in flight.
	for _, sender := range tx.Senders() {
		if s.mempool.HasSender(sender) {
			return validation.Fail(validation.WalletHasPendingTx, "wallet %s already has a pending transaction", sender)
		}
	}

	// Every input must be backed by an unspent output of its sender. An
	// output can back only one input of the transaction.
	claimed := make(map[string][]database.TxOutput)
	for _, in := range tx.Inputs() {
		utxos, exists := claimed[in.FromAddress()]
		if !exists {
			utxos = s.utxoFor(in.FromAddress())
		}

		idx := -1
		for i, out := range utxos {
			if out.ProducingTxHash() == in.PreviousTxHash() && out.Amount() >= in.Amount() {
				idx = i
				break
			}
		}
		if idx == -1 {
			return validation.Fail(validation.SpentOrNonexistentTxo, "input %s does not spend an unspent output", in)
		}

		claimed[in.FromAddress()] = append(utxos[:idx:idx], utxos[idx+1:]...)
	}

	if res := tx.IsValid(s.difficultyAt(len(s.blocks)), s.genesis.FeePerTx); !res.Success {
		return res
	}

	if s.mempool.Position(tx.Hash()) != -1 {
		return validation.Fail(validation.DuplicateTx, "transaction %s is already pending", tx.Hash())
	}

	if _, found := s.findConfirmed(tx.Hash()); found {
		return validation.Fail(validation.DuplicateTx, "transaction %s is already in a block", tx.Hash())
	}

	s.mempool.Append(tx)

	return validation.OKWith(tx.Hash())
}
