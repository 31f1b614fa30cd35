package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/wqkoh/reitwatch/internal/core"
	"github.com/wqkoh/reitwatch/internal/report"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram delivers the weekly digest via the Telegram Bot API.
type Telegram struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// New creates a new Telegram notifier
func New(botToken, chatID string) (*Telegram, error) {
	return NewWithBaseURL(botToken, chatID, defaultBaseURL)
}

// NewWithBaseURL targets a different API endpoint, for tests.
func NewWithBaseURL(botToken, chatID, baseURL string) (*Telegram, error) {
	if botToken == "" {
		return nil, fmt.Errorf("telegram: bot_token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("telegram: chat_id is required")
	}
	return &Telegram{
		botToken: botToken,
		chatID:   chatID,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (t *Telegram) Name() string {
	return "telegram"
}

// Send formats the report into one Markdown message.
func (t *Telegram) Send(ctx context.Context, rep *report.Report) error {
	return t.sendMessage(ctx, formatDigest(rep))
}

func formatDigest(rep *report.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 *S-REIT Weekly Digest* — %s\n\n", rep.GeneratedAt.Format("2 Jan 2006")))

	sb.WriteString(fmt.Sprintf("Tracking %d REITs. Avg yield %s%%, avg P/NAV %sx, avg gearing %s%%.\n",
		len(rep.Rows), rep.Portfolio.AvgYieldPct, rep.Portfolio.AvgPriceToNAV, rep.Portfolio.AvgGearingPct))

	if rep.Analysis.MarketCommentary != "" {
		sb.WriteString("\n" + rep.Analysis.MarketCommentary + "\n")
	}

	if gainers := rep.TopGainers(3); len(gainers) > 0 {
		sb.WriteString("\n📈 *Top gainers (1W)*\n")
		for _, row := range gainers {
			sb.WriteString(changeLine(row))
		}
	}
	if losers := rep.TopLosers(3); len(losers) > 0 {
		sb.WriteString("\n📉 *Top losers (1W)*\n")
		for _, row := range losers {
			sb.WriteString(changeLine(row))
		}
	}

	if lines := screenerLines(rep); len(lines) > 0 {
		sb.WriteString("\n🔎 *Watchlist*\n")
		for _, line := range lines {
			sb.WriteString(line)
		}
	}

	if rep.DashboardURL != "" {
		sb.WriteString(fmt.Sprintf("\n🔗 Full dashboard: %s", rep.DashboardURL))
	}

	return sb.String()
}

func changeLine(row report.Row) string {
	change := "N/A"
	if v, ok := row.WeeklyChangePct.Value(); ok {
		change = fmt.Sprintf("%+.2f%%", v)
	}
	return fmt.Sprintf("• %s (%s): %s\n", row.Name, row.Ticker, change)
}

// screenerLines surfaces the same signals the dashboard flags: high
// yield, deep NAV discounts and RSI extremes.
func screenerLines(rep *report.Report) []string {
	var lines []string
	for _, row := range rep.Rows {
		if y, ok := row.Fundamentals.YieldPct.Value(); ok && y > 7 {
			lines = append(lines, fmt.Sprintf("• %s yields %.1f%%\n", row.Name, y))
		}
		if p, ok := row.Fundamentals.PriceToNAV.Value(); ok && p < 0.8 {
			lines = append(lines, fmt.Sprintf("• %s trades at %.2fx NAV\n", row.Name, p))
		}
		if rsi, ok := row.RSI.Value(); ok {
			if rsi < 30 {
				lines = append(lines, fmt.Sprintf("• %s is oversold (RSI %.0f)\n", row.Name, rsi))
			} else if rsi > 70 {
				lines = append(lines, fmt.Sprintf("• %s is overbought (RSI %.0f)\n", row.Name, rsi))
			}
		}
	}
	return lines
}

func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)

	payload := map[string]any{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "Markdown",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("telegram: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrNotifierFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var result map[string]any
		json.NewDecoder(resp.Body).Decode(&result)
		return core.WrapError(core.ErrNotifierFailed,
			fmt.Errorf("telegram: API error (status %d): %v", resp.StatusCode, result))
	}

	return nil
}
