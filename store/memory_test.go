package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

func TestMemoryPairs(t *testing.T) {
	pairs := NewMemoryPairs([]string{"SUI/USDC", "USDC/USDT", "broken", "/x", "a/"})

	all := pairs.All()
	require.Len(t, all, 2, "malformed specs are dropped")
	assert.Equal(t, "SUI", all[0].TokenA)
	assert.Equal(t, "USDC", all[0].TokenB)
}

func TestMemoryPools(t *testing.T) {
	pools := NewMemoryPools()
	pair := models.TokenPair{TokenA: "SUI", TokenB: "USDC"}

	assert.Empty(t, pools.PoolsFor(pair))

	pools.SeedDemoPools([]models.TokenPair{pair})
	found := pools.PoolsFor(pair)
	require.Len(t, found, 2)

	// Reversed token order still matches.
	reversed := models.TokenPair{TokenA: "USDC", TokenB: "SUI"}
	assert.Len(t, pools.PoolsFor(reversed), 2)

	// Upsert replaces by pool id.
	updated := found[0]
	updated.ReserveA = 42
	pools.Upsert(updated)
	assert.Len(t, pools.PoolsFor(pair), 2)
}

func TestMemoryOpportunityLog(t *testing.T) {
	log := NewMemoryOpportunityLog()

	require.NoError(t, log.Append(models.ArbitrageOpportunity{ID: "a", TokenA: "SUI", TokenB: "USDC"}))
	require.NoError(t, log.Append(models.ArbitrageOpportunity{ID: "b", TokenA: "USDC", TokenB: "USDT"}))
	assert.Equal(t, 2, log.Count())

	t.Run("Annotate", func(t *testing.T) {
		require.NoError(t, log.Annotate("a", errors.New("swap blew up")))

		all := log.Recent(0)
		require.Len(t, all, 2)
		assert.Equal(t, "swap blew up", all[0].Error)
		assert.Empty(t, all[1].Error)

		assert.Error(t, log.Annotate("missing", errors.New("x")))
	})

	t.Run("Recent", func(t *testing.T) {
		last := log.Recent(1)
		require.Len(t, last, 1)
		assert.Equal(t, "b", last[0].ID)
	})
}
