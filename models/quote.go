package models

// Route is one hop of a quoted swap path.
type Route struct {
	Pool       string  `json:"pool"`
	Dex        string  `json:"dex"`
	TokenIn    string  `json:"token_in"`
	TokenOut   string  `json:"token_out"`
	Allocation float64 `json:"allocation"`
}

// Quote is an ephemeral swap estimate, produced per request and
// consumed immediately by the build/execute step.
type Quote struct {
	TokenIn        string  `json:"token_in"`
	TokenOut       string  `json:"token_out"`
	AmountIn       uint64  `json:"amount_in"`
	ReturnAmount   uint64  `json:"return_amount"`
	AmountOutMin   uint64  `json:"amount_out_min"`
	EffectivePrice float64 `json:"effective_price"`
	PriceImpact    float64 `json:"price_impact"`
	FeeAmount      uint64  `json:"fee_amount"`
	Routes         []Route `json:"routes"`

	// IsFallback marks heuristic estimates. Never authoritative pricing.
	IsFallback bool `json:"is_fallback"`
}

// SwapParams carries one swap request through quote, build and execute.
type SwapParams struct {
	TokenIn   string  `json:"token_in"`
	TokenOut  string  `json:"token_out"`
	AmountIn  uint64  `json:"amount_in"`
	Slippage  float64 `json:"slippage"`
	GasBudget uint64  `json:"gas_budget,omitempty"`
}

// SwapResult is the outcome of an executed (or simulated) swap.
type SwapResult struct {
	Digest    string `json:"digest"`
	Status    string `json:"status"`
	AmountOut uint64 `json:"amount_out,omitempty"`
	Simulated bool   `json:"simulated"`
}
