package handler

import (
	"context"
	"net/http"

	"coinsage/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type Analyzer interface {
	Analyze(ctx context.Context, symbolOrID, currency string, days int) (*domain.Report, error)
	GetCurrentPrice(ctx context.Context, symbolOrID, currency string) (*domain.PriceSnapshot, error)
}

type CoinSearcher interface {
	SearchCoin(ctx context.Context, query string) ([]domain.Coin, error)
}

type Handler struct {
	tracer   trace.Tracer
	analyzer Analyzer
	searcher CoinSearcher
}

func New(tracer trace.Tracer, analyzer Analyzer, searcher CoinSearcher) *Handler {
	return &Handler{
		tracer:   tracer,
		analyzer: analyzer,
		searcher: searcher,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/api/analysis/:symbol", h.GetAnalysis)
	r.GET("/api/prices/:symbol", h.GetPrice)
	r.GET("/api/coins/search", h.SearchCoins)
}

// Health godoc
// @Summary      Health check
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
