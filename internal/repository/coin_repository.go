package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"coinsage/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type CoinRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewCoinRepository(pool PgxPool, tracer trace.Tracer) *CoinRepository {
	return &CoinRepository{pool: pool, tracer: tracer}
}

func (r *CoinRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS coins (
			id           TEXT PRIMARY KEY,
			symbol       TEXT NOT NULL DEFAULT '',
			name         TEXT NOT NULL DEFAULT '',
			last_updated TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_coins_symbol ON coins (LOWER(symbol));
	`)
	return err
}

// Find looks a coin up by canonical id or symbol, case-insensitively.
// Returns nil with no error when nothing matches.
func (r *CoinRepository) Find(ctx context.Context, query string) (*domain.Coin, error) {
	_, span := r.tracer.Start(ctx, "coin-repo.find")
	defer span.End()

	q := strings.ToLower(strings.TrimSpace(query))
	row := r.pool.QueryRow(ctx,
		`SELECT id, symbol, name, last_updated
		 FROM coins
		 WHERE id = $1 OR LOWER(symbol) = $1
		 ORDER BY last_updated DESC
		 LIMIT 1`,
		q,
	)

	var c domain.Coin
	if err := row.Scan(&c.ID, &c.Symbol, &c.Name, &c.LastUpdated); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	c.LastUpdated = c.LastUpdated.UTC()
	return &c, nil
}

func (r *CoinRepository) Upsert(ctx context.Context, coin domain.Coin) error {
	_, span := r.tracer.Start(ctx, "coin-repo.upsert")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO coins (id, symbol, name, last_updated)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		     symbol = EXCLUDED.symbol,
		     name = EXCLUDED.name,
		     last_updated = EXCLUDED.last_updated`,
		coin.ID, coin.Symbol, coin.Name, time.Now().UTC(),
	)
	return err
}

// BulkUpsert refreshes the whole coin directory in one batch. Used by
// the sync poller rather than the request path.
func (r *CoinRepository) BulkUpsert(ctx context.Context, coins []domain.Coin) (int, error) {
	if len(coins) == 0 {
		return 0, nil
	}

	_, span := r.tracer.Start(ctx, "coin-repo.bulk-upsert")
	defer span.End()

	now := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, c := range coins {
		batch.Queue(
			`INSERT INTO coins (id, symbol, name, last_updated)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (id) DO UPDATE SET
			     symbol = EXCLUDED.symbol,
			     name = EXCLUDED.name,
			     last_updated = EXCLUDED.last_updated`,
			c.ID, c.Symbol, c.Name, now,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	updated := 0
	for range coins {
		if _, err := br.Exec(); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
