package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"coinsage/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetAnalysis godoc
// @Summary      Technical analysis report for a coin
// @Description  Resolves the symbol, loads the OHLCV window through the cache, and returns the interpreted, confidence-scored report
// @Tags         analysis
// @Produce      json
// @Param        symbol    path   string  true   "Coin symbol, name, or canonical id (e.g. BTC, bitcoin)"
// @Param        currency  query  string  false  "Quote currency"  default(usd)
// @Param        days      query  int     false  "History window in days (1, 7, 30, 90)"  default(30)
// @Success      200  {object}  domain.Report
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/analysis/{symbol} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	if h.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-analysis")
	defer span.End()

	symbol := strings.TrimSpace(c.Param("symbol"))
	if symbol == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "symbol is required"})
		return
	}
	span.SetAttributes(attribute.String("symbol", symbol))

	days := 30
	if raw := strings.TrimSpace(c.Query("days")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 90 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be between 1 and 90"})
			return
		}
		days = n
	}

	report, err := h.analyzer.Analyze(ctx, symbol, c.Query("currency"), days)
	if err != nil {
		h.renderAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetPrice godoc
// @Summary      Current price snapshot for a coin
// @Tags         prices
// @Produce      json
// @Param        symbol    path   string  true   "Coin symbol, name, or canonical id"
// @Param        currency  query  string  false  "Quote currency"  default(usd)
// @Success      200  {object}  domain.PriceSnapshot
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/prices/{symbol} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	if h.analyzer == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis service unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	symbol := strings.TrimSpace(c.Param("symbol"))
	snapshot, err := h.analyzer.GetCurrentPrice(ctx, symbol, c.Query("currency"))
	if err != nil {
		h.renderAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

// SearchCoins godoc
// @Summary      Search the coin directory
// @Tags         coins
// @Produce      json
// @Param        q  query  string  true  "Symbol or name fragment"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/coins/search [get]
func (h *Handler) SearchCoins(c *gin.Context) {
	if h.searcher == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "search unavailable"})
		return
	}

	ctx, span := h.tracer.Start(c.Request.Context(), "handler.search-coins")
	defer span.End()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}

	coins, err := h.searcher.SearchCoin(ctx, query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"coins": coins})
}

func (h *Handler) renderAnalysisError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrUnresolvedSymbol):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientHistory):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrProviderUnavailable):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
