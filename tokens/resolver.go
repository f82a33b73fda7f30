// Package tokens maps token symbols to canonical Sui coin type strings.
package tokens

import (
	"regexp"
	"strings"
)

// Coin type format: <package>::<module>::<name>
var (
	coinTypeRe = regexp.MustCompile(`^0x[0-9a-fA-F]+::[A-Za-z_][A-Za-z0-9_]*::[A-Za-z_][A-Za-z0-9_]*$`)
	bareHexRe  = regexp.MustCompile(`^0x[0-9a-fA-F]+$`)
	noPrefixRe = regexp.MustCompile(`^[0-9a-fA-F]+::[A-Za-z_][A-Za-z0-9_]*::[A-Za-z_][A-Za-z0-9_]*$`)
)

// Well-known mainnet coin types. Demo table, not exhaustive.
var symbolTable = map[string]string{
	"SUI":   "0x2::sui::SUI",
	"USDC":  "0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN",
	"USDT":  "0xc060006111016b8a020ad5b33834984a437aaa7d3c74c18e09a95d48aceab08c::coin::COIN",
	"WETH":  "0xaf8cd5edc19c4512f4259f0bee101a40d41ebed738ade5874359610ef8eeced5::coin::COIN",
	"WBTC":  "0x027792d9fed7f9844eb4839566001bb6f6cb4804f66aa2da6fe1ee242d896881::coin::COIN",
	"CETUS": "0x06864a6f921804860930db6ddbe2e16acdf8504495ea7481637a1c8b9a8fe54b::cetus::CETUS",
	"NAVX":  "0xa99b8952d4f7d947ea77fe0ecdcc9e5fc0bcab2841d6e2a5aa00c3044e5544b5::navx::NAVX",
}

// ValidateFormat reports whether s is a well-formed coin type string.
func ValidateFormat(s string) bool {
	return coinTypeRe.MatchString(s)
}

// Resolve returns a canonical coin type for a symbol or address string.
// Already-valid input is returned as-is; known symbols are looked up;
// malformed addresses get a best-effort repair. Resolve never fails:
// unresolvable input comes back unchanged for downstream validation to
// reject.
func Resolve(s string) string {
	if ValidateFormat(s) {
		return s
	}

	if addr, ok := symbolTable[strings.ToUpper(s)]; ok {
		return addr
	}

	// Bare package address: assume the conventional coin module.
	if bareHexRe.MatchString(s) {
		return s + "::coin::COIN"
	}

	// Full triple missing the 0x prefix.
	if noPrefixRe.MatchString(s) {
		return "0x" + s
	}

	return s
}

// KnownSymbols returns the symbols the static table can resolve.
func KnownSymbols() []string {
	out := make([]string, 0, len(symbolTable))
	for sym := range symbolTable {
		out = append(out, sym)
	}
	return out
}
