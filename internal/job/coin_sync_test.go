package job

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"coinsage/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type stubLister struct {
	calls int32
	coins []domain.Coin
	err   error
}

func (s *stubLister) ListCoins(ctx context.Context) ([]domain.Coin, error) {
	atomic.AddInt32(&s.calls, 1)
	if s.err != nil {
		return nil, s.err
	}
	return s.coins, nil
}

type stubWriter struct {
	calls int32
	last  int32
}

func (s *stubWriter) BulkUpsert(ctx context.Context, coins []domain.Coin) (int, error) {
	atomic.AddInt32(&s.calls, 1)
	atomic.StoreInt32(&s.last, int32(len(coins)))
	return len(coins), nil
}

func TestCoinSyncPollerSyncsOnStart(t *testing.T) {
	lister := &stubLister{coins: []domain.Coin{{ID: "bitcoin", Symbol: "btc"}}}
	writer := &stubWriter{}
	poller := NewCoinSyncPoller(trace.NewNoopTracerProvider().Tracer("test"), lister, writer, 3600)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop")
	}

	if atomic.LoadInt32(&lister.calls) == 0 {
		t.Fatal("expected an initial sync")
	}
	if atomic.LoadInt32(&writer.calls) == 0 {
		t.Fatal("expected the directory write")
	}
	if atomic.LoadInt32(&writer.last) != 1 {
		t.Fatalf("expected 1 coin written, got %d", atomic.LoadInt32(&writer.last))
	}
}

func TestCoinSyncPollerSkipsWriteOnListError(t *testing.T) {
	lister := &stubLister{err: errors.New("rate limited")}
	writer := &stubWriter{}
	poller := NewCoinSyncPoller(trace.NewNoopTracerProvider().Tracer("test"), lister, writer, 3600)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if atomic.LoadInt32(&writer.calls) != 0 {
		t.Fatal("a failed list must not reach the writer")
	}
}

func TestCoinSyncPollerDisabledWithoutDeps(t *testing.T) {
	poller := NewCoinSyncPoller(trace.NewNoopTracerProvider().Tracer("test"), nil, nil, 3600)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		poller.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("disabled poller must still honor cancellation")
	}
}
