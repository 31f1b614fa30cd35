// Package narrative turns a built report into prose: market commentary,
// a portfolio view, sector outlooks and per-REIT notes. An LLM provider
// is optional; without one every piece degrades to deterministic text
// derived from the report itself.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wqkoh/reitwatch/internal/llm"
	"github.com/wqkoh/reitwatch/internal/report"
)

const (
	systemPrompt = "You are an analyst covering Singapore-listed REITs. " +
		"Write for a retail investor newsletter: concise, factual, no hype, " +
		"no investment advice disclaimers."

	maxTokens   = 1024
	temperature = 0.7

	// Number of movers that get individual commentary.
	noteCount = 5
)

// Generator produces the prose attached to a report.
type Generator struct {
	provider llm.Provider
	log      *zap.Logger
}

// New creates a generator. A nil provider disables LLM calls entirely.
func New(provider llm.Provider, log *zap.Logger) *Generator {
	return &Generator{provider: provider, log: log}
}

// Generate fills an Analysis for the report. LLM failures degrade the
// affected piece to its fallback; Generate never fails the run. The
// returned usage aggregates tokens across all calls made.
func (g *Generator) Generate(ctx context.Context, rep *report.Report) (report.Analysis, llm.Usage) {
	analysis := report.Analysis{
		MarketCommentary:        fallbackCommentary(rep),
		PortfolioRecommendation: fallbackRecommendation(rep),
	}
	if g.provider == nil {
		return analysis, llm.Usage{}
	}
	analysis.AIEnabled = true

	var usage llm.Usage

	if text, u, err := g.chat(ctx, commentaryPrompt(rep), false); err != nil {
		g.log.Warn("market commentary generation failed, using fallback", zap.Error(err))
	} else {
		analysis.MarketCommentary = text
		usage = addUsage(usage, u)
	}

	if text, u, err := g.chat(ctx, recommendationPrompt(rep), false); err != nil {
		g.log.Warn("portfolio recommendation generation failed, using fallback", zap.Error(err))
	} else {
		analysis.PortfolioRecommendation = text
		usage = addUsage(usage, u)
	}

	if notes, u, err := g.jsonChat(ctx, notesPrompt(rep)); err != nil {
		g.log.Warn("per-REIT notes generation failed", zap.Error(err))
	} else {
		analysis.REITNotes = notes
		usage = addUsage(usage, u)
	}

	if outlook, u, err := g.jsonChat(ctx, outlookPrompt(rep)); err != nil {
		g.log.Warn("sector outlook generation failed", zap.Error(err))
	} else {
		analysis.SectorOutlook = outlook
		usage = addUsage(usage, u)
	}

	return analysis, usage
}

func (g *Generator) chat(ctx context.Context, prompt string, jsonMode bool) (string, llm.Usage, error) {
	resp, err := g.provider.Chat(ctx, llm.ChatRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: "user", Content: prompt}},
		MaxTokens:    maxTokens,
		Temperature:  temperature,
		JSONMode:     jsonMode,
	})
	if err != nil {
		return "", llm.Usage{}, err
	}
	return strings.TrimSpace(resp.Content), resp.Usage, nil
}

// jsonChat asks for a flat string-to-string JSON object and parses it.
func (g *Generator) jsonChat(ctx context.Context, prompt string) (map[string]string, llm.Usage, error) {
	text, usage, err := g.chat(ctx, prompt, true)
	if err != nil {
		return nil, usage, err
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(extractJSON(text)), &out); err != nil {
		return nil, usage, fmt.Errorf("parsing model reply as JSON object: %w", err)
	}
	return out, usage, nil
}

// extractJSON strips markdown code fences and surrounding prose that
// models sometimes wrap around a JSON object.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return text
	}
	return text[start : end+1]
}

func addUsage(a, b llm.Usage) llm.Usage {
	return llm.Usage{
		InputTokens:  a.InputTokens + b.InputTokens,
		OutputTokens: a.OutputTokens + b.OutputTokens,
	}
}
