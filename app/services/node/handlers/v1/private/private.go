// Package private maintains the group of handlers for miner access.
package private

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ardanlabs/utxochain/business/web/errs"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/ardanlabs/utxochain/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of miner endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
}

// NextBlock returns the template for the next block. No content is returned
// when the mempool is empty.
func (h Handlers) NextBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	info, ok := h.State.NextBlockTemplate()
	if !ok {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, database.NewBlockInfoData(info), http.StatusOK)
}

// SubmitBlock takes a block mined against a template, validates it and if
// that passes, adds the block to the chain.
func (h Handlers) SubmitBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	// Decode the JSON in the post call into block data.
	var blockData database.BlockData
	if err := web.Decode(r, &blockData); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	// Convert the block data into a block.
	block, err := database.ToBlock(blockData)
	if err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode block: %w", err), http.StatusBadRequest)
	}

	h.Log.Infow("submit block", "traceid", v.TraceID, "block", block, "miner", h.NS.Lookup(block.Miner()))

	// Ask the state package to validate the block. If the block passes
	// validation, it will be appended to the chain.
	res := h.State.AddBlock(block)
	if !res.Success {
		return web.Respond(ctx, w, res, http.StatusNotAcceptable)
	}

	return web.Respond(ctx, w, res, http.StatusOK)
}
