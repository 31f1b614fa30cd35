// Package app wires the collectors, indicator engine, report pipeline
// and delivery channels into one runnable unit.
package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wqkoh/reitwatch/internal/collector"
	"github.com/wqkoh/reitwatch/internal/collector/fifthperson"
	"github.com/wqkoh/reitwatch/internal/collector/yahoo"
	"github.com/wqkoh/reitwatch/internal/config"
	"github.com/wqkoh/reitwatch/internal/core"
	"github.com/wqkoh/reitwatch/internal/indicator"
	"github.com/wqkoh/reitwatch/internal/llm/factory"
	"github.com/wqkoh/reitwatch/internal/metrics"
	"github.com/wqkoh/reitwatch/internal/narrative"
	"github.com/wqkoh/reitwatch/internal/notifier"
	"github.com/wqkoh/reitwatch/internal/notifier/telegram"
	"github.com/wqkoh/reitwatch/internal/report"
	"github.com/wqkoh/reitwatch/internal/storage/archive"
)

const (
	// Change horizons shown on the dashboard, in trading sessions.
	weeklyHorizon  = 5
	monthlyHorizon = 20

	// Concurrent price fetches per run.
	maxInFlight = 4
)

// App runs the report pipeline.
type App struct {
	cfg *config.Config
	log *zap.Logger

	prices       collector.PriceProvider
	fundamentals collector.FundamentalsProvider
	engineCfg    indicator.Config
	narrator     *narrative.Generator
	renderer     *report.Renderer
	publisher    *archive.Publisher
	notifiers    *notifier.Registry
	metrics      *metrics.Registry
}

// New wires an App from configuration.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	provider, err := factory.New(cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("building LLM provider: %w", err)
	}

	renderer, err := report.NewRenderer()
	if err != nil {
		return nil, err
	}

	store, err := buildStorage(cfg.Output.Archive)
	if err != nil {
		return nil, fmt.Errorf("building archive storage: %w", err)
	}

	registry := notifier.NewRegistry()
	if tc, ok := cfg.Notifiers["telegram"]; ok && tc.Enabled {
		tg, err := telegram.New(tc.BotToken, tc.ChatID)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(tg); err != nil {
			return nil, err
		}
	}

	engineCfg := cfg.Indicators.Engine()
	engineCfg.ChangeHorizons = withHorizons(engineCfg.ChangeHorizons, weeklyHorizon, monthlyHorizon)

	reg := metrics.NewRegistry()
	reg.SetUniverseSize(len(cfg.Universe))

	return &App{
		cfg:          cfg,
		log:          log,
		prices:       yahoo.New(),
		fundamentals: fifthperson.New(cfg.Collector.FundamentalsURL),
		engineCfg:    engineCfg,
		narrator:     narrative.New(provider, log),
		renderer:     renderer,
		publisher:    archive.NewPublisher(store),
		notifiers:    registry,
		metrics:      reg,
	}, nil
}

func buildStorage(cfg config.ArchiveConfig) (archive.Storage, error) {
	switch cfg.Type {
	case "s3":
		return archive.NewS3(archive.S3Config{
			Bucket:    cfg.S3.Bucket,
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    cfg.S3.Prefix,
		})
	default:
		return archive.NewLocalFS(cfg.Path)
	}
}

func withHorizons(horizons []int, required ...int) []int {
	for _, want := range required {
		found := false
		for _, h := range horizons {
			if h == want {
				found = true
				break
			}
		}
		if !found {
			horizons = append(horizons, want)
		}
	}
	return horizons
}

// Metrics exposes the run metrics registry.
func (a *App) Metrics() *metrics.Registry {
	return a.metrics
}

// RunOnce executes one full pipeline run: collect, compute, narrate,
// render, publish, notify. A ticker that fails collection keeps its row
// with unavailable metrics; only rendering or publishing failures fail
// the run.
func (a *App) RunOnce(ctx context.Context) (*report.Report, error) {
	runID := uuid.NewString()
	log := a.log.With(zap.String("run_id", runID))
	start := time.Now()

	log.Info("run starting", zap.Int("universe", len(a.cfg.Universe)))

	table := a.fetchFundamentals(ctx, log)
	items := a.collectUniverse(ctx, log, table)

	rep := report.Build(time.Now(), items, weeklyHorizon, monthlyHorizon)
	rep.DashboardURL = a.cfg.Output.DashboardURL

	analysis, usage := a.narrator.Generate(ctx, rep)
	rep.AttachAnalysis(analysis)
	a.metrics.RecordLLMUsage(usage.InputTokens, usage.OutputTokens)

	html, err := a.renderer.Render(rep)
	if err != nil {
		a.metrics.RecordRun("failed", time.Since(start).Seconds())
		return nil, err
	}

	snapshot, err := a.publisher.Publish(ctx, rep.GeneratedAt, html)
	if err != nil {
		a.metrics.RecordRun("failed", time.Since(start).Seconds())
		return nil, err
	}
	log.Info("dashboard published", zap.String("snapshot", snapshot))

	failures := a.notifiers.NotifyAll(ctx, rep)
	for _, n := range a.notifiers.GetAll() {
		if err, failed := failures[n.Name()]; failed {
			log.Error("notifier failed", zap.String("notifier", n.Name()), zap.Error(err))
			a.metrics.RecordNotification(n.Name(), "failed")
		} else {
			a.metrics.RecordNotification(n.Name(), "ok")
		}
	}

	a.metrics.RecordRun("success", time.Since(start).Seconds())
	log.Info("run complete",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("rows", len(rep.Rows)))
	return rep, nil
}

// fetchFundamentals scrapes the fundamentals table once per run. The
// scrape failing degrades every row's fundamentals, never the run.
func (a *App) fetchFundamentals(ctx context.Context, log *zap.Logger) map[string]core.FundamentalsSnapshot {
	fetchStart := time.Now()
	table, err := a.fundamentals.FetchAll(ctx)
	a.metrics.RecordCollect(a.fundamentals.Name(), time.Since(fetchStart).Seconds())
	if err != nil {
		log.Warn("fundamentals fetch failed, continuing without",
			zap.String("source", a.fundamentals.Name()), zap.Error(err))
		return nil
	}
	log.Info("fundamentals fetched", zap.Int("entries", len(table)))
	return table
}

// collectUniverse fans one goroutine out per ticker and joins results
// back in universe order.
func (a *App) collectUniverse(ctx context.Context, log *zap.Logger, table map[string]core.FundamentalsSnapshot) []report.Item {
	items := make([]report.Item, len(a.cfg.Universe))
	sem := make(chan struct{}, maxInFlight)
	var wg sync.WaitGroup

	for i, entry := range a.cfg.Universe {
		wg.Add(1)
		go func(i int, reit core.REIT) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			items[i] = report.Item{REIT: reit, Result: a.collectOne(ctx, log, reit, table)}
		}(i, entry.REIT())
	}
	wg.Wait()
	return items
}

func (a *App) collectOne(ctx context.Context, log *zap.Logger, reit core.REIT, table map[string]core.FundamentalsSnapshot) core.IndicatorResult {
	fundamentals, matched := collector.MatchFundamentals(reit.Name, table)
	if !matched && len(table) > 0 {
		log.Debug("no fundamentals entry for ticker", zap.String("ticker", reit.Ticker))
	}

	fetchStart := time.Now()
	series, err := a.prices.FetchDailyCloses(ctx, reit.Ticker, a.cfg.Collector.LookbackDays)
	a.metrics.RecordCollect(a.prices.Name(), time.Since(fetchStart).Seconds())
	if err != nil {
		log.Warn("price fetch failed, row degrades to N/A",
			zap.String("ticker", reit.Ticker), zap.Error(err))
		a.metrics.RecordTicker("degraded")
		return core.IndicatorResult{Fundamentals: fundamentals}
	}

	result, err := indicator.Compute(series, fundamentals, a.engineCfg)
	if err != nil {
		log.Warn("indicator computation failed, row degrades to N/A",
			zap.String("ticker", reit.Ticker), zap.Error(err))
		a.metrics.RecordTicker("degraded")
		return core.IndicatorResult{Fundamentals: fundamentals}
	}

	a.metrics.RecordTicker("ok")
	return result
}
