package paperless

import (
	"testing"
	"time"
)

func TestConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, cfg Config)
	}{
		{
			name:    "defaults",
			envVars: map[string]string{},
			check: func(t *testing.T, cfg Config) {
				if cfg.HTTPTimeout != 30*time.Second {
					t.Errorf("HTTPTimeout = %v, want 30s", cfg.HTTPTimeout)
				}
				if cfg.RateLimit != 0 {
					t.Errorf("RateLimit = %v, want 0 (unlimited)", cfg.RateLimit)
				}
			},
		},
		{
			name: "url and token from environment",
			envVars: map[string]string{
				"PAPERLESS_URL":   "http://paperless.local:8000/",
				"PAPERLESS_TOKEN": "secret",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.BaseURL != "http://paperless.local:8000" {
					t.Errorf("BaseURL = %q, want trailing slash stripped", cfg.BaseURL)
				}
				if cfg.Token != "secret" {
					t.Errorf("Token = %q, want secret", cfg.Token)
				}
			},
		},
		{
			name: "custom timeout and rate limit",
			envVars: map[string]string{
				"PCM_HTTP_TIMEOUT_SECS": "90",
				"PCM_RATE_LIMIT":        "2.5",
			},
			check: func(t *testing.T, cfg Config) {
				if cfg.HTTPTimeout != 90*time.Second {
					t.Errorf("HTTPTimeout = %v, want 90s", cfg.HTTPTimeout)
				}
				if cfg.RateLimit != 2.5 {
					t.Errorf("RateLimit = %v, want 2.5", cfg.RateLimit)
				}
			},
		},
		{
			name:    "invalid timeout",
			envVars: map[string]string{"PCM_HTTP_TIMEOUT_SECS": "soon"},
			wantErr: true,
		},
		{
			name:    "invalid rate limit",
			envVars: map[string]string{"PCM_RATE_LIMIT": "fast"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Clear ambient settings so host environment never leaks in.
			t.Setenv("PAPERLESS_URL", "")
			t.Setenv("PAPERLESS_TOKEN", "")
			t.Setenv("PCM_HTTP_TIMEOUT_SECS", "")
			t.Setenv("PCM_RATE_LIMIT", "")
			for key, value := range tt.envVars {
				t.Setenv(key, value)
			}

			cfg, err := ConfigFromEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ConfigFromEnv: %v", err)
			}
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"missing url", func(c *Config) { c.BaseURL = "" }, true},
		{"missing token", func(c *Config) { c.Token = "" }, true},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://x" }, true},
		{"zero timeout", func(c *Config) { c.HTTPTimeout = 0 }, true},
		{"negative rate limit", func(c *Config) { c.RateLimit = -1 }, true},
		{"rate limit without burst", func(c *Config) { c.RateLimit = 2; c.RateBurst = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.BaseURL = "http://localhost:8000"
			cfg.Token = "t"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
