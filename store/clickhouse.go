package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/Angleito/SuiFlashBotTemplate/models"
)

const createOpportunitiesSQL = `
CREATE TABLE IF NOT EXISTS arbitrage_opportunities (
    id String,
    token_a String,
    token_b String,
    entry_pool_id String,
    exit_pool_id String,
    entry_dex String,
    exit_dex String,
    profitable_trade Bool,
    estimated_profit Float64,
    error String,
    timestamp DateTime
) ENGINE = MergeTree()
ORDER BY (timestamp, token_a, token_b)
`

// OpportunityArchive mirrors the in-memory opportunity log into a
// ClickHouse table. The table is append-only: an annotation is written
// as a second row carrying the error, the original row stays.
type OpportunityArchive struct {
	conn driver.Conn
	mem  *MemoryOpportunityLog
}

func NewOpportunityArchive(host string, port int, database, username, password string) (*OpportunityArchive, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", host, port)},
		Auth: clickhouse.Auth{
			Database: database,
			Username: username,
			Password: password,
		},
		Protocol: clickhouse.Native,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}

	archive := &OpportunityArchive{
		conn: conn,
		mem:  NewMemoryOpportunityLog(),
	}
	if err := archive.createTable(); err != nil {
		return nil, err
	}

	return archive, nil
}

func (a *OpportunityArchive) createTable() error {
	return a.conn.Exec(context.Background(), createOpportunitiesSQL)
}

func (a *OpportunityArchive) Append(op models.ArbitrageOpportunity) error {
	if err := a.mem.Append(op); err != nil {
		return err
	}
	return a.insert(op)
}

func (a *OpportunityArchive) Annotate(id string, execErr error) error {
	if err := a.mem.Annotate(id, execErr); err != nil {
		return err
	}

	for _, op := range a.mem.Recent(0) {
		if op.ID == id {
			return a.insert(op)
		}
	}
	return nil
}

func (a *OpportunityArchive) insert(op models.ArbitrageOpportunity) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	batch, err := a.conn.PrepareBatch(ctx, "INSERT INTO arbitrage_opportunities")
	if err != nil {
		return err
	}
	if err := batch.AppendStruct(&op); err != nil {
		return err
	}
	return batch.Send()
}

func (a *OpportunityArchive) Recent(n int) []models.ArbitrageOpportunity {
	return a.mem.Recent(n)
}

func (a *OpportunityArchive) Count() int {
	return a.mem.Count()
}

func (a *OpportunityArchive) Close() error {
	return a.conn.Close()
}

// Healthy reports whether the ClickHouse connection answers a ping.
func (a *OpportunityArchive) Healthy() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return a.conn.Ping(ctx) == nil
}
