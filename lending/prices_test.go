package lending

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

func TestGetPriceRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "oracle warming up", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"price": "1.23", "decimals": 9},
		})
	}))
	defer srv.Close()

	c := NewPriceClient(srv.URL, "", 2*time.Second, 3, time.Millisecond, zap.NewNop().Sugar())

	price, err := c.GetPrice(context.Background(), "SUI")
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load(), "two failures then one success")
	assert.False(t, price.IsFallback)
	assert.Equal(t, 1.23, price.PriceUSD)
	assert.Equal(t, "0x2::sui::SUI", price.CoinType)
}

func TestGetPriceFallsBackAfterRetriesExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewPriceClient(srv.URL, "", 2*time.Second, 3, time.Millisecond, zap.NewNop().Sugar())

	price, err := c.GetPrice(context.Background(), "SUI")
	require.NoError(t, err, "oracle failure degrades to the fallback table")
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, price.IsFallback)
	assert.Equal(t, 1.10, price.PriceUSD)
}

func TestGetPriceInvalidSymbol(t *testing.T) {
	c := NewPriceClient("http://127.0.0.1:1", "", time.Second, 1, time.Millisecond, zap.NewNop().Sugar())

	_, err := c.GetPrice(context.Background(), "not a token!")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidTokenFormat)
}

func TestFallbackPriceUnknownSymbolBand(t *testing.T) {
	c := NewPriceClient("http://127.0.0.1:1", "", time.Second, 1, time.Millisecond, zap.NewNop().Sugar())

	for i := 0; i < 50; i++ {
		p := c.fallbackPrice("MYSTERY")
		assert.Greater(t, p, 0.94)
		assert.Less(t, p, 1.06)
	}
}
