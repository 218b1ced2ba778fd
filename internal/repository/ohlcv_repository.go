package repository

import (
	"context"
	"fmt"
	"time"

	"coinsage/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

type OHLCVRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewOHLCVRepository(pool PgxPool, tracer trace.Tracer) *OHLCVRepository {
	return &OHLCVRepository{pool: pool, tracer: tracer}
}

func (r *OHLCVRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ohlcv (
			coin_id      TEXT        NOT NULL,
			currency     TEXT        NOT NULL,
			interval     SMALLINT    NOT NULL,
			timestamp    TIMESTAMPTZ NOT NULL,
			open         DOUBLE PRECISION,
			high         DOUBLE PRECISION,
			low          DOUBLE PRECISION,
			close        DOUBLE PRECISION,
			volume       DOUBLE PRECISION,
			market_cap   DOUBLE PRECISION,
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (coin_id, currency, interval, timestamp)
		);
		CREATE INDEX IF NOT EXISTS idx_ohlcv_key_ts
			ON ohlcv (coin_id, currency, interval, timestamp);
		CREATE INDEX IF NOT EXISTS idx_ohlcv_last_updated
			ON ohlcv (last_updated);
	`)
	return err
}

// GetRange returns all rows for the key inside [from, to], oldest
// first, including last_updated so the caller can judge freshness.
// Staleness is never filtered here: a single stale row must turn the
// whole window into a miss, which only the caller can decide.
func (r *OHLCVRepository) GetRange(
	ctx context.Context,
	coinID, currency string,
	interval domain.Interval,
	from, to time.Time,
) ([]domain.Candle, error) {
	_, span := r.tracer.Start(ctx, "ohlcv-repo.get-range")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT coin_id, currency, interval, timestamp, open, high, low, close, volume, market_cap, last_updated
		 FROM ohlcv
		 WHERE coin_id = $1 AND currency = $2 AND interval = $3
		   AND timestamp >= $4 AND timestamp <= $5
		 ORDER BY timestamp`,
		coinID, currency, int16(interval), from, to,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCandles(rows)
}

// ReplaceRange deletes every row whose timestamp falls inside the
// fetched batch's span, then inserts the batch, as one transaction.
// Upstream revisions can change rows retroactively, so a clean replace
// beats a per-row upsert that would leave stale partials behind.
func (r *OHLCVRepository) ReplaceRange(ctx context.Context, candles []domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	_, span := r.tracer.Start(ctx, "ohlcv-repo.replace-range")
	defer span.End()

	first := candles[0]
	minTS, maxTS := candles[0].Timestamp, candles[0].Timestamp
	for _, c := range candles[1:] {
		if c.CoinID != first.CoinID || c.Currency != first.Currency || c.Interval != first.Interval {
			return fmt.Errorf("replace range: mixed keys in batch")
		}
		if c.Timestamp.Before(minTS) {
			minTS = c.Timestamp
		}
		if c.Timestamp.After(maxTS) {
			maxTS = c.Timestamp
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM ohlcv
		 WHERE coin_id = $1 AND currency = $2 AND interval = $3
		   AND timestamp >= $4 AND timestamp <= $5`,
		first.CoinID, first.Currency, int16(first.Interval), minTS, maxTS,
	); err != nil {
		return err
	}

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, c := range candles {
		batch.Queue(
			`INSERT INTO ohlcv (coin_id, currency, interval, timestamp, open, high, low, close, volume, market_cap, last_updated)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			c.CoinID, c.Currency, int16(c.Interval), c.Timestamp.UTC(),
			c.Open, c.High, c.Low, c.Close, c.Volume, c.MarketCap, now,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range candles {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanCandles(rows pgx.Rows) ([]domain.Candle, error) {
	var candles []domain.Candle
	for rows.Next() {
		var c domain.Candle
		var interval int16
		if err := rows.Scan(
			&c.CoinID, &c.Currency, &interval, &c.Timestamp,
			&c.Open, &c.High, &c.Low, &c.Close, &c.Volume, &c.MarketCap, &c.LastUpdated,
		); err != nil {
			return nil, err
		}
		c.Interval = domain.Interval(interval)
		c.Timestamp = c.Timestamp.UTC()
		candles = append(candles, c)
	}
	return candles, rows.Err()
}
