package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFormat(t *testing.T) {
	valid := []string{
		"0x2::sui::SUI",
		"0xdeadBEEF::coin::COIN",
		"0x5d4b302506645c37ff133b98c4b50a5ae14841659738d6d733d59d0d217a93bf::coin::COIN",
		"0xa::m_1::T2",
	}
	for _, s := range valid {
		assert.True(t, ValidateFormat(s), "should accept %q", s)
	}

	invalid := []string{
		"",
		"SUI",
		"0x2",
		"0x2::sui",
		"2::sui::SUI",
		"0x2::sui::SUI::extra",
		"0xzz::sui::SUI",
		"0x2:sui:SUI",
		"0x2::1sui::SUI",
	}
	for _, s := range invalid {
		assert.False(t, ValidateFormat(s), "should reject %q", s)
	}
}

func TestResolve(t *testing.T) {
	t.Run("ValidPassthrough", func(t *testing.T) {
		s := "0xabc::pool::LP"
		assert.Equal(t, s, Resolve(s))
	})

	t.Run("SymbolLookup", func(t *testing.T) {
		assert.Equal(t, "0x2::sui::SUI", Resolve("SUI"))
		assert.Equal(t, "0x2::sui::SUI", Resolve("sui"), "lookup is case-insensitive")
		assert.True(t, ValidateFormat(Resolve("USDC")))
	})

	t.Run("RepairBareHex", func(t *testing.T) {
		assert.Equal(t, "0xabc123::coin::COIN", Resolve("0xabc123"))
	})

	t.Run("RepairMissingPrefix", func(t *testing.T) {
		assert.Equal(t, "0xabc::coin::COIN", Resolve("abc::coin::COIN"))
	})

	t.Run("UnresolvableUnchanged", func(t *testing.T) {
		assert.Equal(t, "NOT_A_TOKEN", Resolve("NOT_A_TOKEN"))
		assert.Equal(t, "::broken::", Resolve("::broken::"))
	})

	t.Run("Idempotent", func(t *testing.T) {
		inputs := []string{"SUI", "USDC", "0x2::sui::SUI", "0xabc123", "abc::coin::COIN", "garbage", ""}
		for _, s := range inputs {
			once := Resolve(s)
			assert.Equal(t, once, Resolve(once), "Resolve should be idempotent for %q", s)
		}
	})
}
