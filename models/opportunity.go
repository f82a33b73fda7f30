package models

import "time"

// ArbitrageOpportunity is one candidate trade synthesized by a scan
// cycle. Records are appended to the opportunity log and never updated
// after creation, except for the post-execution error annotation.
type ArbitrageOpportunity struct {
	ID              string    `json:"id" ch:"id"`
	TokenA          string    `json:"token_a" ch:"token_a"`
	TokenB          string    `json:"token_b" ch:"token_b"`
	EntryPoolID     string    `json:"entry_pool_id" ch:"entry_pool_id"`
	ExitPoolID      string    `json:"exit_pool_id" ch:"exit_pool_id"`
	EntryDex        string    `json:"entry_dex" ch:"entry_dex"`
	ExitDex         string    `json:"exit_dex" ch:"exit_dex"`
	ProfitableTrade bool      `json:"profitable_trade" ch:"profitable_trade"`
	EstimatedProfit float64   `json:"estimated_profit" ch:"estimated_profit"`
	Error           string    `json:"error,omitempty" ch:"error"`
	Timestamp       time.Time `json:"timestamp" ch:"timestamp"`
}
