package factory

import (
	"testing"

	"github.com/wqkoh/reitwatch/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LLMConfig
		wantName string
		wantNil  bool
		wantErr  bool
	}{
		{
			name:    "empty provider means disabled",
			cfg:     config.LLMConfig{},
			wantNil: true,
		},
		{
			name: "claude",
			cfg: config.LLMConfig{
				Provider: "claude",
				Claude:   config.ClaudeConfig{APIKey: "sk-test"},
			},
			wantName: "claude",
		},
		{
			name: "openai",
			cfg: config.LLMConfig{
				Provider: "openai",
				OpenAI:   config.OpenAIConfig{APIKey: "sk-test"},
			},
			wantName: "openai",
		},
		{
			name: "ollama defaults endpoint",
			cfg: config.LLMConfig{
				Provider: "ollama",
			},
			wantName: "ollama",
		},
		{
			name:    "claude without key",
			cfg:     config.LLMConfig{Provider: "claude"},
			wantErr: true,
		},
		{
			name:    "unknown provider",
			cfg:     config.LLMConfig{Provider: "bard"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if tt.wantNil {
				if p != nil {
					t.Fatalf("expected nil provider, got %s", p.Name())
				}
				return
			}
			if p == nil || p.Name() != tt.wantName {
				t.Errorf("provider = %v, want %s", p, tt.wantName)
			}
		})
	}
}
