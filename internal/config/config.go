package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/wqkoh/reitwatch/internal/core"
	"github.com/wqkoh/reitwatch/internal/indicator"
)

type Config struct {
	Universe   []UniverseItem            `mapstructure:"universe"`
	Collector  CollectorConfig           `mapstructure:"collector"`
	Indicators IndicatorsConfig          `mapstructure:"indicators"`
	LLM        LLMConfig                 `mapstructure:"llm"`
	Notifiers  map[string]NotifierConfig `mapstructure:"notifiers"`
	Output     OutputConfig              `mapstructure:"output"`
	Schedule   ScheduleConfig            `mapstructure:"schedule"`
	Metrics    MetricsConfig             `mapstructure:"metrics"`
}

// UniverseItem is one REIT in the configured universe.
type UniverseItem struct {
	Ticker  string `mapstructure:"ticker"`
	Name    string `mapstructure:"name"`
	Segment string `mapstructure:"segment"`
}

// REIT converts the config item to the domain type.
func (u UniverseItem) REIT() core.REIT {
	return core.REIT{Ticker: u.Ticker, Name: u.Name, Segment: core.Segment(u.Segment)}
}

type CollectorConfig struct {
	LookbackDays    int    `mapstructure:"lookback_days"`
	FundamentalsURL string `mapstructure:"fundamentals_url"`
}

// IndicatorsConfig holds the engine windows. Tunables live here, not in
// process-wide state; the engine receives them by value per run.
type IndicatorsConfig struct {
	RSIPeriod         int     `mapstructure:"rsi_period"`
	RSISmoothing      string  `mapstructure:"rsi_smoothing"`
	TrendShortWindow  int     `mapstructure:"trend_short_window"`
	TrendLongWindow   int     `mapstructure:"trend_long_window"`
	TrendTolerancePct float64 `mapstructure:"trend_tolerance_pct"`
	ChangeHorizons    []int   `mapstructure:"change_horizons"`
}

// Engine converts the section to the engine's config struct.
func (c IndicatorsConfig) Engine() indicator.Config {
	return indicator.Config{
		RSIPeriod:         c.RSIPeriod,
		RSISmoothing:      indicator.Smoothing(c.RSISmoothing),
		TrendShortWindow:  c.TrendShortWindow,
		TrendLongWindow:   c.TrendLongWindow,
		TrendTolerancePct: c.TrendTolerancePct,
		ChangeHorizons:    c.ChangeHorizons,
	}
}

type LLMConfig struct {
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Ollama   OllamaConfig `mapstructure:"ollama"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OllamaConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Model    string `mapstructure:"model"`
}

type NotifierConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

type OutputConfig struct {
	DashboardURL string        `mapstructure:"dashboard_url"`
	Archive      ArchiveConfig `mapstructure:"archive"`
}

type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type ScheduleConfig struct {
	Cron       string `mapstructure:"cron"`
	RunOnStart bool   `mapstructure:"run_on_start"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	engine := indicator.DefaultConfig()
	return &Config{
		Collector: CollectorConfig{
			LookbackDays:    180,
			FundamentalsURL: "https://fifthperson.com/singapore-reit-data/",
		},
		Indicators: IndicatorsConfig{
			RSIPeriod:         engine.RSIPeriod,
			RSISmoothing:      string(engine.RSISmoothing),
			TrendShortWindow:  engine.TrendShortWindow,
			TrendLongWindow:   engine.TrendLongWindow,
			TrendTolerancePct: engine.TrendTolerancePct,
			ChangeHorizons:    engine.ChangeHorizons,
		},
		Output: OutputConfig{
			Archive: ArchiveConfig{
				Type: "localfs",
				Path: "public",
			},
		},
		Schedule: ScheduleConfig{
			// Monday 09:00 SGT, after the SGX open
			Cron: "0 9 * * 1",
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Addr:    ":9190",
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if len(c.Universe) == 0 {
		return core.WrapError(core.ErrConfigMissing,
			fmt.Errorf("universe must list at least one REIT"))
	}
	for i, item := range c.Universe {
		if item.Ticker == "" {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("universe[%d]: ticker is required", i))
		}
	}

	if c.Collector.LookbackDays < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("lookback_days must be positive, got %d", c.Collector.LookbackDays))
	}

	ind := c.Indicators
	if ind.RSIPeriod < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rsi_period must be positive, got %d", ind.RSIPeriod))
	}
	switch indicator.Smoothing(ind.RSISmoothing) {
	case indicator.SmoothingSimple, indicator.SmoothingWilder:
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("rsi_smoothing must be simple or wilder, got %q", ind.RSISmoothing))
	}
	if ind.TrendShortWindow < 1 || ind.TrendLongWindow < 1 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trend windows must be positive, got %d/%d", ind.TrendShortWindow, ind.TrendLongWindow))
	}
	if ind.TrendShortWindow >= ind.TrendLongWindow {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trend_short_window (%d) must be below trend_long_window (%d)",
				ind.TrendShortWindow, ind.TrendLongWindow))
	}
	if ind.TrendTolerancePct < 0 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("trend_tolerance_pct cannot be negative, got %f", ind.TrendTolerancePct))
	}
	for _, h := range ind.ChangeHorizons {
		if h < 1 {
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("change horizons must be positive, got %d", h))
		}
	}

	// LLM validation - if provider set, check config exists
	if c.LLM.Provider != "" {
		switch c.LLM.Provider {
		case "claude":
			if c.LLM.Claude.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("claude api_key required when provider is claude"))
			}
		case "openai":
			if c.LLM.OpenAI.APIKey == "" {
				return core.WrapError(core.ErrConfigMissing,
					fmt.Errorf("openai api_key required when provider is openai"))
			}
		case "ollama":
			// endpoint defaults to the local daemon
		default:
			return core.WrapError(core.ErrConfigInvalid,
				fmt.Errorf("unknown llm provider: %s", c.LLM.Provider))
		}
	}

	switch c.Output.Archive.Type {
	case "localfs":
		if c.Output.Archive.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("archive path required for localfs"))
		}
	case "s3":
		if c.Output.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("archive type must be localfs or s3, got %q", c.Output.Archive.Type))
	}

	return nil
}
