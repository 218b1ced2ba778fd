package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"coinsage/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

type CoinDirectory interface {
	Find(ctx context.Context, query string) (*domain.Coin, error)
	Upsert(ctx context.Context, coin domain.Coin) error
}

type CoinSearcher interface {
	SearchCoin(ctx context.Context, query string) ([]domain.Coin, error)
}

// CoinResolver maps user-facing symbols and names onto canonical coin
// ids, backed by the cached coin directory and populated lazily from
// the provider's search endpoint.
type CoinResolver struct {
	tracer   trace.Tracer
	repo     CoinDirectory
	provider CoinSearcher
	now      func() time.Time
}

func NewCoinResolver(tracer trace.Tracer, repo CoinDirectory, provider CoinSearcher) *CoinResolver {
	return &CoinResolver{
		tracer:   tracer,
		repo:     repo,
		provider: provider,
		now:      time.Now,
	}
}

// Resolve returns the canonical coin id for a symbol, name, or id.
// Matching is case-insensitive. A search result is cached only on an
// exact id or symbol match; near-misses are never cached, since new
// coins appear continuously and a cached negative would poison lookups.
func (r *CoinResolver) Resolve(ctx context.Context, symbolOrID string) (string, error) {
	ctx, span := r.tracer.Start(ctx, "resolver.resolve")
	defer span.End()

	query := strings.TrimSpace(symbolOrID)
	if query == "" {
		return "", domain.ErrUnresolvedSymbol
	}
	span.SetAttributes(attribute.String("query", query))

	var cached *domain.Coin
	if r.repo != nil {
		coin, err := r.repo.Find(ctx, query)
		if err != nil {
			log.Printf("coin directory lookup error for %q: %v", query, err)
		} else if coin != nil {
			if coin.LastUpdated.After(r.now().UTC().Add(-domain.MetadataTTL())) {
				return coin.ID, nil
			}
			cached = coin
		}
	}

	candidates, err := r.provider.SearchCoin(ctx, query)
	if err != nil {
		if cached != nil {
			log.Printf("coin search failed for %q, using stale directory entry %s: %v", query, cached.ID, err)
			return cached.ID, nil
		}
		return "", fmt.Errorf("search coin %q: %w", query, err)
	}

	for _, c := range candidates {
		if strings.EqualFold(c.ID, query) || strings.EqualFold(c.Symbol, query) {
			if r.repo != nil {
				if err := r.repo.Upsert(ctx, c); err != nil {
					log.Printf("coin directory upsert error for %s: %v", c.ID, err)
				}
			}
			return c.ID, nil
		}
	}

	return "", fmt.Errorf("no exact match for %q: %w", query, domain.ErrUnresolvedSymbol)
}
