// Package client provides access to a node's v1 API for miners and wallets.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ardanlabs/utxochain/foundation/blockchain/database"
	"github.com/ardanlabs/utxochain/foundation/blockchain/validation"
)

// ErrNotFound is returned when the node does not know the requested value.
var ErrNotFound = errors.New("not found")

// defaultTimeout bounds every call made to the node.
const defaultTimeout = 10 * time.Second

// =============================================================================

// Status is the node's view of the chain.
type Status struct {
	LatestBlockHash  string            `json:"latest_block_hash"`
	LatestBlockIndex uint64            `json:"latest_block_index"`
	Difficulty       int               `json:"difficulty"`
	FeePerTx         uint64            `json:"fee_per_tx"`
	Mempool          int               `json:"mempool"`
	Valid            validation.Result `json:"valid"`
}

// TxLookup is where the node found a transaction.
type TxLookup struct {
	Tx              database.Tx
	MempoolPosition int
	BlockIndex      int64
}

type txLookupData struct {
	Transaction     database.TxData `json:"transaction"`
	MempoolPosition int             `json:"mempool_position"`
	BlockIndex      int64           `json:"block_index"`
}

type balanceData struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

// =============================================================================

// Client talks to a node over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New constructs a client for the node at the base url.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
}

// NextBlockTemplate returns the node's mining template. False is returned
// when the node has nothing to mine.
func (c *Client) NextBlockTemplate(ctx context.Context) (database.BlockInfo, bool, error) {
	var data database.BlockInfoData
	status, err := c.send(ctx, http.MethodGet, "/v1/blocks/next", nil, &data)
	if err != nil {
		return database.BlockInfo{}, false, err
	}

	if status == http.StatusNoContent {
		return database.BlockInfo{}, false, nil
	}

	info, err := database.ToBlockInfo(data)
	if err != nil {
		return database.BlockInfo{}, false, fmt.Errorf("decoding template: %w", err)
	}

	return info, true, nil
}

// AddBlock submits a mined block.
func (c *Client) AddBlock(ctx context.Context, block database.Block) (validation.Result, error) {
	var res validation.Result
	if _, err := c.send(ctx, http.MethodPost, "/v1/blocks", database.NewBlockData(block), &res); err != nil {
		return validation.Result{}, err
	}

	return res, nil
}

// AddTransaction submits a signed transaction.
func (c *Client) AddTransaction(ctx context.Context, tx database.Tx) (validation.Result, error) {
	var res validation.Result
	if _, err := c.send(ctx, http.MethodPost, "/v1/transactions", database.NewTxData(tx), &res); err != nil {
		return validation.Result{}, err
	}

	return res, nil
}

// UTXOFor returns the unspent outputs of the address.
func (c *Client) UTXOFor(ctx context.Context, address string) ([]database.TxOutput, error) {
	var data []database.TxOutputData
	if _, err := c.send(ctx, http.MethodGet, "/v1/wallets/"+url.PathEscape(address)+"/utxo", nil, &data); err != nil {
		return nil, err
	}

	outs := make([]database.TxOutput, len(data))
	for i, d := range data {
		outs[i] = database.ToTxOutput(d)
	}

	return outs, nil
}

// BalanceOf returns the balance of the address.
func (c *Client) BalanceOf(ctx context.Context, address string) (uint64, error) {
	var data balanceData
	if _, err := c.send(ctx, http.MethodGet, "/v1/wallets/"+url.PathEscape(address)+"/balance", nil, &data); err != nil {
		return 0, err
	}

	return data.Balance, nil
}

// FindTransaction looks the transaction up on the node.
func (c *Client) FindTransaction(ctx context.Context, hash string) (TxLookup, error) {
	var data txLookupData
	status, err := c.send(ctx, http.MethodGet, "/v1/transactions/"+url.PathEscape(hash), nil, &data)
	if err != nil {
		return TxLookup{}, err
	}

	if status == http.StatusNotFound {
		return TxLookup{}, ErrNotFound
	}

	tx, err := database.ToTx(data.Transaction)
	if err != nil {
		return TxLookup{}, fmt.Errorf("decoding transaction: %w", err)
	}

	lookup := TxLookup{
		Tx:              tx,
		MempoolPosition: data.MempoolPosition,
		BlockIndex:      data.BlockIndex,
	}

	return lookup, nil
}

// Status returns the node's view of the chain.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var status Status
	if _, err := c.send(ctx, http.MethodGet, "/v1/status", nil, &status); err != nil {
		return Status{}, err
	}

	return status, nil
}

// =============================================================================

// send performs the call and decodes the body into the response. Rejections
// carrying a validation result (400 and 406) are decoded like success so
// the caller sees the ledger's reason.
func (c *Client) send(ctx context.Context, method string, path string, payload any, response any) (int, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("encoding payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return 0, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusNoContent, http.StatusNotFound:
		return resp.StatusCode, nil

	case http.StatusOK, http.StatusBadRequest, http.StatusNotAcceptable:
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, fmt.Errorf("reading response: %w", err)
		}

		// Failures outside the ledger rules come back as an error document.
		var errResp struct {
			Error string `json:"error"`
		}
		if resp.StatusCode != http.StatusOK && json.Unmarshal(data, &errResp) == nil && errResp.Error != "" {
			return resp.StatusCode, fmt.Errorf("node returned status %d: %s", resp.StatusCode, errResp.Error)
		}

		if err := json.Unmarshal(data, response); err != nil {
			return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
		}
		return resp.StatusCode, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	return resp.StatusCode, fmt.Errorf("node returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
}
