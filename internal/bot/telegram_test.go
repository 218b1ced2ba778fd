package bot

import (
	"errors"
	"strings"
	"testing"

	"coinsage/internal/domain"
)

func TestStartTelegramBotSkipsWithoutToken(t *testing.T) {
	if b := StartTelegramBot(nil, "", "usd", 30); b != nil {
		t.Fatal("expected no bot without a token")
	}
}

func TestRenderError(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{domain.ErrUnresolvedSymbol, "Unknown coin: xyz"},
		{domain.ErrInsufficientHistory, "Not enough price history"},
		{domain.ErrProviderUnavailable, "provider is unavailable"},
		{errors.New("boom"), "Error analyzing xyz"},
	}
	for _, tc := range cases {
		wrapped := domain.NewAnalysisError("fetch", "xyz", 0, tc.err)
		if got := renderError("xyz", wrapped); !strings.Contains(got, tc.want) {
			t.Fatalf("expected %q in %q", tc.want, got)
		}
	}
}
