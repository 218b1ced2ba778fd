package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"coinsage/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type Analyzer interface {
	Analyze(ctx context.Context, symbolOrID, currency string, days int) (*domain.Report, error)
	GetCurrentPrice(ctx context.Context, symbolOrID, currency string) (*domain.PriceSnapshot, error)
}

func StartTelegramBot(analyzer Analyzer, token, defaultCurrency string, defaultDays int) *tele.Bot {
	if token == "" {
		log.Println("no Telegram bot token configured, skipping bot startup")
		return nil
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /price BTC")
		}
		snapshot, err := analyzer.GetCurrentPrice(context.Background(), args[0], defaultCurrency)
		if err != nil {
			return c.Send(renderError(args[0], err))
		}
		return c.Send(fmt.Sprintf(
			"%s\nPrice: $%.2f\n24h Change: %.2f%%\n24h Volume: $%.0f",
			strings.ToUpper(args[0]), snapshot.Price, snapshot.Change24hPct, snapshot.Volume24h,
		))
	})

	b.Handle("/analyze", func(c tele.Context) error {
		args := c.Args()
		if len(args) == 0 {
			return c.Send("Usage: /analyze BTC [days]\nExample: /analyze eth 7")
		}

		days := defaultDays
		if len(args) > 1 {
			n, err := strconv.Atoi(args[1])
			if err != nil || n <= 0 || n > 90 {
				return c.Send("Days must be a number between 1 and 90")
			}
			days = n
		}

		_ = c.Notify(tele.Typing)
		report, err := analyzer.Analyze(context.Background(), args[0], defaultCurrency, days)
		if err != nil {
			return c.Send(renderError(args[0], err))
		}
		return c.Send(FormatReport(report))
	})

	log.Println("Telegram bot started")
	go b.Start()
	return b
}

func renderError(symbol string, err error) string {
	switch {
	case errors.Is(err, domain.ErrUnresolvedSymbol):
		return fmt.Sprintf("Unknown coin: %s. Try the canonical id (e.g. bitcoin).", symbol)
	case errors.Is(err, domain.ErrInsufficientHistory):
		return fmt.Sprintf("Not enough price history for %s to run the analysis.", symbol)
	case errors.Is(err, domain.ErrProviderUnavailable):
		return "Market data provider is unavailable right now, try again shortly."
	}
	return fmt.Sprintf("Error analyzing %s: %v", symbol, err)
}
