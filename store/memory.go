package store

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

// MemoryPairs is an immutable pair list parsed from "A/B" config
// strings. Entries that do not parse are dropped.
type MemoryPairs struct {
	pairs []models.TokenPair
}

func NewMemoryPairs(specs []string) *MemoryPairs {
	pairs := make([]models.TokenPair, 0, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, "/", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		pairs = append(pairs, models.TokenPair{
			TokenA: strings.TrimSpace(parts[0]),
			TokenB: strings.TrimSpace(parts[1]),
		})
	}
	return &MemoryPairs{pairs: pairs}
}

func (r *MemoryPairs) All() []models.TokenPair {
	out := make([]models.TokenPair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// MemoryPools is the in-memory pool table, keyed by pool id. The
// watcher refreshes reserves through Upsert.
type MemoryPools struct {
	mu    sync.RWMutex
	pools map[string]models.Pool
}

func NewMemoryPools() *MemoryPools {
	return &MemoryPools{pools: make(map[string]models.Pool)}
}

// SeedDemoPools registers two synthetic venues per pair so the demo
// scan loop has something to compare.
func (r *MemoryPools) SeedDemoPools(pairs []models.TokenPair) {
	for i, pair := range pairs {
		for j, dex := range []string{"cetus", "turbos"} {
			r.Upsert(models.Pool{
				Dex:         dex,
				PoolID:      fmt.Sprintf("0xdemo%02d%02d", i, j),
				TokenA:      pair.TokenA,
				TokenB:      pair.TokenB,
				LastUpdated: time.Now(),
			})
		}
	}
}

func (r *MemoryPools) PoolsFor(pair models.TokenPair) []models.Pool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []models.Pool
	for _, pool := range r.pools {
		if pair.Matches(pool.TokenA, pool.TokenB) {
			out = append(out, pool)
		}
	}
	return out
}

func (r *MemoryPools) Upsert(pool models.Pool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if pool.LastUpdated.IsZero() {
		pool.LastUpdated = time.Now()
	}
	r.pools[pool.PoolID] = pool
}

// MemoryOpportunityLog keeps the scan history in process memory,
// append-only. Lost on exit.
type MemoryOpportunityLog struct {
	mu   sync.RWMutex
	ops  []models.ArbitrageOpportunity
	byID map[string]int
}

func NewMemoryOpportunityLog() *MemoryOpportunityLog {
	return &MemoryOpportunityLog{byID: make(map[string]int)}
}

func (l *MemoryOpportunityLog) Append(op models.ArbitrageOpportunity) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.byID[op.ID] = len(l.ops)
	l.ops = append(l.ops, op)
	return nil
}

func (l *MemoryOpportunityLog) Annotate(id string, execErr error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	idx, ok := l.byID[id]
	if !ok {
		return fmt.Errorf("unknown opportunity %q", id)
	}
	l.ops[idx].Error = execErr.Error()
	return nil
}

func (l *MemoryOpportunityLog) Recent(n int) []models.ArbitrageOpportunity {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n > len(l.ops) {
		n = len(l.ops)
	}
	out := make([]models.ArbitrageOpportunity, n)
	copy(out, l.ops[len(l.ops)-n:])
	return out
}

func (l *MemoryOpportunityLog) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ops)
}
