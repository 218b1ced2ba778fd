package job

import (
	"context"
	"log"
	"time"

	"coinsage/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type CoinLister interface {
	ListCoins(ctx context.Context) ([]domain.Coin, error)
}

type CoinWriter interface {
	BulkUpsert(ctx context.Context, coins []domain.Coin) (int, error)
}

// CoinSyncPoller periodically refreshes the coin directory from the
// provider so symbol resolution rarely has to hit the search endpoint.
type CoinSyncPoller struct {
	tracer   trace.Tracer
	provider CoinLister
	repo     CoinWriter
	interval time.Duration
}

func NewCoinSyncPoller(tracer trace.Tracer, provider CoinLister, repo CoinWriter, intervalSecs int) *CoinSyncPoller {
	if intervalSecs <= 0 {
		intervalSecs = 6 * 3600
	}
	return &CoinSyncPoller{
		tracer:   tracer,
		provider: provider,
		repo:     repo,
		interval: time.Duration(intervalSecs) * time.Second,
	}
}

// Start blocks until ctx is cancelled.
func (p *CoinSyncPoller) Start(ctx context.Context) {
	if p.provider == nil || p.repo == nil {
		log.Println("Coin sync poller disabled: missing provider or repository")
		<-ctx.Done()
		return
	}

	log.Println("Coin sync poller starting...")
	p.syncOnce(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Coin sync poller stopped")
			return
		case <-ticker.C:
			p.syncOnce(ctx)
		}
	}
}

func (p *CoinSyncPoller) syncOnce(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "coin-sync.sync-once")
	defer span.End()

	coins, err := p.provider.ListCoins(ctx)
	if err != nil {
		log.Printf("coin list fetch error: %v", err)
		return
	}
	if len(coins) == 0 {
		return
	}

	updated, err := p.repo.BulkUpsert(ctx, coins)
	if err != nil {
		log.Printf("coin directory sync error after %d rows: %v", updated, err)
		return
	}
	log.Printf("Coin directory synced: %d coins", updated)
}
