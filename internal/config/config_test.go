package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FromFile(t *testing.T) {
	content := []byte(`
universe:
  - ticker: "C38U.SI"
    name: "CapitaLand Integrated Commercial Trust"
    segment: "Retail"
  - ticker: "A17U.SI"
    name: "CapitaLand Ascendas REIT"
    segment: "Industrial"

indicators:
  rsi_period: 14
  trend_tolerance_pct: 0.2

output:
  archive:
    type: localfs
    path: "/tmp/reitwatch/public"
`)

	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(cfgPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if len(cfg.Universe) != 2 {
		t.Fatalf("expected 2 universe items, got %d", len(cfg.Universe))
	}
	if cfg.Universe[0].Ticker != "C38U.SI" {
		t.Errorf("unexpected ticker %s", cfg.Universe[0].Ticker)
	}
	if cfg.Indicators.TrendTolerancePct != 0.2 {
		t.Errorf("expected tolerance override 0.2, got %f", cfg.Indicators.TrendTolerancePct)
	}
	// Defaults survive a partial file
	if cfg.Indicators.TrendLongWindow != 20 {
		t.Errorf("expected default long window 20, got %d", cfg.Indicators.TrendLongWindow)
	}
	if cfg.Collector.LookbackDays != 180 {
		t.Errorf("expected default lookback 180, got %d", cfg.Collector.LookbackDays)
	}
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	if cfg.Indicators.RSIPeriod != 14 {
		t.Errorf("expected default rsi_period 14, got %d", cfg.Indicators.RSIPeriod)
	}
	if cfg.Indicators.RSISmoothing != "simple" {
		t.Errorf("expected default smoothing simple, got %s", cfg.Indicators.RSISmoothing)
	}
	if got := cfg.Indicators.ChangeHorizons; len(got) != 2 || got[0] != 5 || got[1] != 20 {
		t.Errorf("expected default horizons [5 20], got %v", got)
	}
	if cfg.Output.Archive.Type != "localfs" {
		t.Errorf("expected localfs archive, got %s", cfg.Output.Archive.Type)
	}
}

func validBase() Config {
	cfg := *Defaults()
	cfg.Universe = []UniverseItem{{Ticker: "ME8U.SI", Name: "Mapletree Industrial Trust", Segment: "Industrial"}}
	return cfg
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid config", func(c *Config) {}, false},
		{"empty universe", func(c *Config) { c.Universe = nil }, true},
		{"missing ticker", func(c *Config) { c.Universe[0].Ticker = "" }, true},
		{"zero rsi period", func(c *Config) { c.Indicators.RSIPeriod = 0 }, true},
		{"bad smoothing", func(c *Config) { c.Indicators.RSISmoothing = "hull" }, true},
		{"short window above long", func(c *Config) {
			c.Indicators.TrendShortWindow = 30
		}, true},
		{"negative tolerance", func(c *Config) { c.Indicators.TrendTolerancePct = -0.1 }, true},
		{"zero horizon", func(c *Config) { c.Indicators.ChangeHorizons = []int{0} }, true},
		{"claude without key", func(c *Config) { c.LLM.Provider = "claude" }, true},
		{"claude with key", func(c *Config) {
			c.LLM.Provider = "claude"
			c.LLM.Claude.APIKey = "sk-test"
		}, false},
		{"unknown provider", func(c *Config) { c.LLM.Provider = "palm" }, true},
		{"s3 without bucket", func(c *Config) { c.Output.Archive.Type = "s3" }, true},
		{"bad archive type", func(c *Config) { c.Output.Archive.Type = "ftp" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBase()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIndicatorsConfig_Engine(t *testing.T) {
	cfg := validBase()
	engine := cfg.Indicators.Engine()

	if engine.RSIPeriod != cfg.Indicators.RSIPeriod {
		t.Errorf("rsi period mismatch: %d vs %d", engine.RSIPeriod, cfg.Indicators.RSIPeriod)
	}
	if engine.TrendTolerancePct != cfg.Indicators.TrendTolerancePct {
		t.Errorf("tolerance mismatch")
	}
}
