package db

import (
	"context"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the shared Postgres pool behind the OHLCV and coin
// repositories. It stays nil without a DSN, the repositories are
// simply not wired then.
var Pool *pgxpool.Pool

func InitPostgres(ctx context.Context, dsn string) {
	if dsn == "" {
		log.Println("no Postgres DSN configured, candle persistence disabled")
		return
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("postgres connect failed: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("postgres ping failed: %v", err)
	}
	Pool = pool
	log.Println("postgres pool ready")
}
