package bot

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Angleito/SuiFlashBotTemplate/feed"
	"github.com/Angleito/SuiFlashBotTemplate/models"
	"github.com/Angleito/SuiFlashBotTemplate/store"
)

// PoolWatcher keeps the pool repository's reserve data fresh from the
// node's event stream. Optional: the scan loop works without it.
type PoolWatcher struct {
	client *feed.Client
	pools  store.PoolRepository
	log    *zap.SugaredLogger
}

func NewPoolWatcher(feedURL string, pools store.PoolRepository, log *zap.SugaredLogger) *PoolWatcher {
	return &PoolWatcher{
		client: feed.NewClient(feedURL, log),
		pools:  pools,
		log:    log,
	}
}

type subscribeRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

// poolEvent is the subset of a swap/liquidity event we care about.
type poolEvent struct {
	Params struct {
		Result struct {
			ParsedJSON struct {
				PoolID   string `json:"pool"`
				CoinA    string `json:"coin_a"`
				CoinB    string `json:"coin_b"`
				ReserveA string `json:"reserve_a"`
				ReserveB string `json:"reserve_b"`
			} `json:"parsedJson"`
		} `json:"result"`
	} `json:"params"`
}

// Run subscribes to DEX pool events and applies reserve updates until
// ctx is cancelled.
func (w *PoolWatcher) Run(ctx context.Context) {
	w.client.OnEvent = w.handleEvent

	if err := w.client.Connect(); err != nil {
		w.log.Warnw("Pool feed initial connect failed, Listen will retry", "error", err)
	} else {
		w.subscribe()
	}

	go func() {
		<-ctx.Done()
		w.client.Close()
	}()

	w.client.Listen(ctx)
}

func (w *PoolWatcher) subscribe() {
	req := subscribeRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "suix_subscribeEvent",
		Params: []interface{}{
			map[string]interface{}{
				"MoveEventModule": map[string]string{
					"package": "0x2",
					"module":  "pool",
				},
			},
		},
	}
	if err := w.client.SendJSON(req); err != nil {
		w.log.Warnw("Pool feed subscription failed", "error", err)
	}
}

func (w *PoolWatcher) handleEvent(message []byte) {
	var event poolEvent
	if err := json.Unmarshal(message, &event); err != nil {
		w.log.Debugw("Ignoring unparsable feed event", "error", err)
		return
	}

	parsed := event.Params.Result.ParsedJSON
	if parsed.PoolID == "" {
		return
	}

	reserveA, _ := strconv.ParseUint(parsed.ReserveA, 10, 64)
	reserveB, _ := strconv.ParseUint(parsed.ReserveB, 10, 64)

	w.pools.Upsert(models.Pool{
		Dex:         "feed",
		PoolID:      parsed.PoolID,
		TokenA:      parsed.CoinA,
		TokenB:      parsed.CoinB,
		ReserveA:    reserveA,
		ReserveB:    reserveB,
		LastUpdated: time.Now(),
	})
}
