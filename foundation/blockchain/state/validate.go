package state

import (
	"fmt"

	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// IsValid walks the chain from the tip down to the block after genesis and
// checks every block against its predecessor, using the difficulty that was
// in force when the block was appended. The first failure is returned with
// the index of the failing block.
func (s *State) IsValid() validation.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := len(s.blocks) - 1; i > 0; i-- {
		block := s.blocks[i]
		prev := s.blocks[i-1]

		res := block.IsValid(prev.Hash(), prev.Index(), s.difficultyAt(i), s.genesis.FeePerTx)
		if !res.Success {
			return res.Annotate(fmt.Sprintf("block %d", i))
		}
	}

	return validation.OK()
}
