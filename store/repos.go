// Package store holds the bot's repositories. Narrow, typed interfaces
// replace the string-keyed table store the demo started from; the
// default implementations are in-memory and non-durable.
package store

import "github.com/Angleito/SuiFlashBotTemplate/models"

// PairRepository lists the token pairs the scanner watches. Pairs are
// immutable after config load.
type PairRepository interface {
	All() []models.TokenPair
}

// PoolRepository tracks discovered liquidity venues per pair.
type PoolRepository interface {
	PoolsFor(pair models.TokenPair) []models.Pool
	Upsert(pool models.Pool)
}

// OpportunityLog is the append-only record of scan results. Annotate is
// the one permitted post-creation mutation: attaching an execution
// error to an existing record.
type OpportunityLog interface {
	Append(op models.ArbitrageOpportunity) error
	Annotate(id string, execErr error) error
	Recent(n int) []models.ArbitrageOpportunity
	Count() int
}
