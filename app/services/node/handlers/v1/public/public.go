// Package public maintains the group of handlers for wallet and explorer
// access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/utxochain/business/web/errs"
	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/state"
	"github.com/ardanlabs/utxochain/foundation/events"
	"github.com/ardanlabs/utxochain/foundation/nameservice"
	"github.com/ardanlabs/utxochain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	NS    *nameservice.NameService
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide ledger events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID, r.URL.Query().Get("prefix"))
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Status returns the tip of the chain and the result of validating it.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.State.RetrieveLatestBlock()

	st := status{
		LatestBlockHash:  latest.Hash(),
		LatestBlockIndex: latest.Index(),
		Difficulty:       h.State.Difficulty(),
		FeePerTx:         h.State.FeePerTx(),
		Mempool:          len(h.State.RetrieveMempool()),
		Valid:            h.State.IsValid(),
	}

	return web.Respond(ctx, w, st, http.StatusOK)
}

// SubmitTransaction adds a new wallet transaction to the mempool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var data database.TxData
	if err := web.Decode(r, &data); err != nil {
		return errs.NewTrusted(fmt.Errorf("unable to decode payload: %w", err), http.StatusBadRequest)
	}

	tx, err := database.ToTx(data)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx, "fee", tx.Fee())

	res := h.State.AddTransaction(tx)
	if !res.Success {
		return web.Respond(ctx, w, res, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, res, http.StatusOK)
}

// FindTransaction returns the transaction and where it lives.
func (h Handlers) FindTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	hash := web.Param(r, "hash")

	lookup := h.State.FindTransaction(hash)
	if !lookup.Found {
		return errs.NewTrustedf(http.StatusNotFound, "transaction %s not found", hash)
	}

	resp := txLookup{
		Transaction:     database.NewTxData(lookup.Tx),
		MempoolPosition: lookup.MempoolPosition,
		BlockIndex:      lookup.BlockIndex,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mempool returns the set of pending transactions in queue order.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrieveMempool()

	trans := make([]database.TxData, len(pool))
	for i, tx := range pool {
		trans[i] = database.NewTxData(tx)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Blocks returns every block in the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks := h.State.RetrieveBlocks()

	data := make([]database.BlockData, len(blocks))
	for i, block := range blocks {
		data[i] = database.NewBlockData(block)
	}

	return web.Respond(ctx, w, data, http.StatusOK)
}

// BlockByIndex returns the block at the index.
func (h Handlers) BlockByIndex(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	index, err := strconv.ParseUint(web.Param(r, "index"), 10, 64)
	if err != nil {
		return errs.NewTrusted(errors.New("index must be a positive number"), http.StatusBadRequest)
	}

	block, exists := h.State.RetrieveBlock(index)
	if !exists {
		return errs.NewTrustedf(http.StatusNotFound, "block %d not found", index)
	}

	return web.Respond(ctx, w, database.NewBlockData(block), http.StatusOK)
}

// Balance returns the balance of the address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	bal := balance{
		Address: address,
		Name:    h.NS.Lookup(address),
		Balance: h.State.BalanceOf(address),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// UTXO returns the unspent outputs of the address.
func (h Handlers) UTXO(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	utxos := h.State.UTXOFor(web.Param(r, "address"))

	data := make([]database.TxOutputData, len(utxos))
	for i, out := range utxos {
		data[i] = database.NewTxOutputData(out)
	}

	return web.Respond(ctx, w, data, http.StatusOK)
}
