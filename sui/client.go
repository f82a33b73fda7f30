// Package sui is a thin JSON-RPC client for the handful of node calls
// the executors need. Transaction construction happens in the external
// aggregator service, never here.
package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

type Client struct {
	url    string
	client *http.Client
	log    *zap.SugaredLogger
	nextID atomic.Int64
}

func NewClient(url string, timeout time.Duration, log *zap.SugaredLogger) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int64         `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      int64           `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, params []interface{}, result interface{}) error {
	reqBody := rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("rpc call %s failed: %w", method, err)
	}
	defer resp.Body.Close()

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}

	if rpcResp.Error != nil {
		return fmt.Errorf("rpc error %d from %s: %s", rpcResp.Error.Code, method, rpcResp.Error.Message)
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}

	return nil
}

// TransactionStatus is the effects status of an executed or dry-run
// transaction block.
type TransactionStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type TransactionEffects struct {
	Status TransactionStatus `json:"status"`
}

type TransactionResult struct {
	Digest  string             `json:"digest"`
	Effects TransactionEffects `json:"effects"`
}

// Succeeded reports whether the chain recorded the transaction as successful.
func (r *TransactionResult) Succeeded() bool {
	return r.Effects.Status.Status == "success"
}

// ReferenceGasPrice fetches the current epoch's reference gas price.
func (c *Client) ReferenceGasPrice(ctx context.Context) (uint64, error) {
	var raw string
	if err := c.call(ctx, "suix_getReferenceGasPrice", []interface{}{}, &raw); err != nil {
		return 0, err
	}
	price, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("unexpected gas price %q: %w", raw, err)
	}
	return price, nil
}

// DryRunTransactionBlock simulates a transaction without submitting it.
func (c *Client) DryRunTransactionBlock(ctx context.Context, txBytes string) (*TransactionResult, error) {
	var result TransactionResult
	if err := c.call(ctx, "sui_dryRunTransactionBlock", []interface{}{txBytes}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecuteTransactionBlock submits a signed transaction and waits for
// local finality before returning.
func (c *Client) ExecuteTransactionBlock(ctx context.Context, txBytes string, signatures []string) (*TransactionResult, error) {
	params := []interface{}{
		txBytes,
		signatures,
		map[string]bool{"showEffects": true},
		"WaitForLocalExecution",
	}

	var result TransactionResult
	if err := c.call(ctx, "sui_executeTransactionBlock", params, &result); err != nil {
		return nil, err
	}

	c.log.Infow("Transaction executed",
		"digest", result.Digest,
		"status", result.Effects.Status.Status,
	)
	return &result, nil
}

// Healthy reports whether the node answers a trivial read call.
func (c *Client) Healthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, err := c.ReferenceGasPrice(ctx)
	return err == nil
}
