package models

import "time"

// TokenPair is an unordered pair of symbolic token identifiers,
// created at config load and never mutated.
type TokenPair struct {
	TokenA string `json:"token_a"`
	TokenB string `json:"token_b"`
}

// Key returns a stable identifier regardless of token order.
func (p TokenPair) Key() string {
	if p.TokenB < p.TokenA {
		return p.TokenB + "/" + p.TokenA
	}
	return p.TokenA + "/" + p.TokenB
}

// Matches reports whether the pair contains both symbols in either order.
func (p TokenPair) Matches(a, b string) bool {
	return (p.TokenA == a && p.TokenB == b) || (p.TokenA == b && p.TokenB == a)
}

// Pool is one discovered liquidity venue for a pair.
type Pool struct {
	Dex         string    `json:"dex" ch:"dex"`
	PoolID      string    `json:"pool_id" ch:"pool_id"`
	TokenA      string    `json:"token_a" ch:"token_a"`
	TokenB      string    `json:"token_b" ch:"token_b"`
	ReserveA    uint64    `json:"reserve_a,omitempty" ch:"reserve_a"`
	ReserveB    uint64    `json:"reserve_b,omitempty" ch:"reserve_b"`
	LastUpdated time.Time `json:"last_updated" ch:"last_updated"`
}
