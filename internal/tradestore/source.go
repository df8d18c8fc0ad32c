package tradestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Checker-Finance/tradebook/internal/generator"
	"github.com/Checker-Finance/tradebook/pkg/model"
)

// Source yields the raw trades a snapshot is built from. It is read exactly once at startup.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]model.Trade, error)
}

// Load fetches trades from src and freezes them into a Snapshot.
func Load(ctx context.Context, src Source, logger *zap.Logger) (*Snapshot, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	start := time.Now()

	trades, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trades from %s: %w", src.Name(), err)
	}
	snap, err := New(trades)
	if err != nil {
		return nil, fmt.Errorf("build snapshot from %s: %w", src.Name(), err)
	}

	logger.Info("tradestore.loaded",
		zap.String("source", src.Name()),
		zap.Int("trades", snap.Len()),
		zap.String("fingerprint", snap.Fingerprint()),
		zap.Duration("took", time.Since(start)))
	return snap, nil
}

// FileSource reads a {"data": [...]} JSON document.
type FileSource struct {
	Path string
}

func (f FileSource) Name() string { return "file:" + f.Path }

func (f FileSource) Fetch(_ context.Context) ([]model.Trade, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read trade file: %w", err)
	}
	var doc model.TradeDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trade file: %w", err)
	}
	return doc.Data, nil
}

// GeneratorSource synthesizes a dataset in-process.
type GeneratorSource struct {
	Config generator.Config
}

func (g GeneratorSource) Name() string { return "generator" }

func (g GeneratorSource) Fetch(_ context.Context) ([]model.Trade, error) {
	return generator.Generate(g.Config)
}

// RowQuerier is the subset of pgxpool.Pool used by PostgresSource.
type RowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads every row of a trades table once.
type PostgresSource struct {
	DB    RowQuerier
	Table string // optionally schema-qualified, e.g. "reference.trades"
}

func (p PostgresSource) Name() string { return "postgres:" + p.Table }

func (p PostgresSource) Fetch(ctx context.Context) ([]model.Trade, error) {
	if p.DB == nil {
		return nil, fmt.Errorf("postgres unavailable")
	}
	table := pgx.Identifier(strings.Split(p.Table, ".")).Sanitize()

	rows, err := p.DB.Query(ctx, `
		SELECT trade_id, asset_class, counterparty, instrument_id, instrument_name,
		       trade_date_time, side, price::text, quantity, trader
		FROM `+table+`
		ORDER BY trade_date_time, trade_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var (
			t     model.Trade
			side  string
			price string
		)
		if err := rows.Scan(&t.TradeID, &t.AssetClass, &t.Counterparty, &t.InstrumentID, &t.InstrumentName,
			&t.TradeDateTime, &side, &price, &t.Quantity, &t.Trader); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Side = model.Side(side)
		if t.Price, err = decimal.NewFromString(price); err != nil {
			return nil, fmt.Errorf("trade %s: invalid price %q: %w", t.TradeID, price, err)
		}
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades: %w", err)
	}
	return trades, nil
}
