package state

import (
	"encoding/json"
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// NextBlockTemplate returns what a miner needs to build the next block. The
// transactions are taken from the head of the mempool but stay there until
// a block holding them is accepted. False is returned when the mempool is
// empty.
func (s *State) NextBlockTemplate() (database.BlockInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.mempool.Count() == 0 {
		return database.BlockInfo{}, false
	}

	tip := s.blocks[len(s.blocks)-1]

	info := database.BlockInfo{
		Index:         uint64(len(s.blocks)),
		PreviousHash:  tip.Hash(),
		Difficulty:    s.difficultyAt(len(s.blocks)),
		FeePerTx:      s.genesis.FeePerTx,
		MaxDifficulty: s.genesis.MaxDifficulty,
		Transactions:  s.mempool.PickFirst(s.genesis.TxPerBlock),
	}

	return info, true
}

// AddBlock validates a mined block against the current tip and, if it
// passes, removes its transactions from the mempool and appends it to the
// chain. The result message holds the block hash on success.
func (s *State) AddBlock(block database.Block) validation.Result {
	s.evHandler("state: AddBlock: started: prevBlk[%.10s]: newBlk[%s]: numTrans[%d]", block.PreviousHash(), block, len(block.Transactions()))

	res := s.addBlock(block)
	if !res.Success {
		s.evHandler("state: AddBlock: REJECTED: blk[%s]: %s", block, res.Message)
		return res
	}

	s.evHandler("state: AddBlock: completed: blk[%s]", block)
	s.blockEvent(block)

	// Any mining in progress is working on a stale tip.
	s.signalCancelMining()

	if s.mempool.Count() > 0 {
		s.signalStartMining()
	}

	return res
}

func (s *State) addBlock(block database.Block) validation.Result {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mempool.Count() == 0 {
		return validation.Fail(validation.NoNextBlockAvailable, "there are no pending transactions to mine")
	}

	tip := s.blocks[len(s.blocks)-1]
	difficulty := s.difficultyAt(len(s.blocks))

	if res := block.IsValid(tip.Hash(), tip.Index(), difficulty, s.genesis.FeePerTx); !res.Success {
		return res
	}

	// Every regular transaction in the block must come from this mempool.
	hashes := make(map[string]bool)
	for _, tx := range block.Transactions() {
		if tx.Type() == database.TxFee {
			continue
		}
		if s.mempool.Position(tx.Hash()) == -1 {
			return validation.Fail(validation.MempoolMismatch, "transaction %s is not pending in the mempool", tx.Hash())
		}
		hashes[tx.Hash()] = true
	}

	before := s.mempool.Count()
	removed := s.mempool.Remove(hashes)
	if removed+s.mempool.Count() != before || removed != len(hashes) {
		return validation.Fail(validation.MempoolMismatch, "removed %d of %d transactions from a mempool of %d", removed, len(hashes), before)
	}

	s.blocks = append(s.blocks, block)

	return validation.OKWith(block.Hash())
}

// blockEvent provides a specific event about a new block in the chain for
// application specific support.
func (s *State) blockEvent(block database.Block) {
	blockJSON, err := json.Marshal(database.NewBlockData(block))
	if err != nil {
		blockJSON = []byte(fmt.Sprintf("%q", err.Error()))
	}

	s.evHandler(`viewer: block: {"hash":%q,"block":%s}`, block.Hash(), string(blockJSON))
}
