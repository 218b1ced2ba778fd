package cache

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// Client backs the OHLCV read-through layer. Nil when InitRedis was
// never called, which the market service tolerates.
var Client *redis.Client

func InitRedis(ctx context.Context, addr string) {
	Client = redis.NewClient(&redis.Options{Addr: addr})
	if err := Client.Ping(ctx).Err(); err != nil {
		log.Fatalf("redis ping failed for %s: %v", addr, err)
	}
	log.Printf("redis ready at %s", addr)
}
