package config_test

import (
	"testing"

	"github.com/stevecallear/feta/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("MetricsAddr = %q, want :9090", cfg.MetricsAddr)
	}
	if cfg.StoreType != "file" {
		t.Errorf("StoreType = %q, want file", cfg.StoreType)
	}
	if cfg.ConfigFile != "features.yaml" {
		t.Errorf("ConfigFile = %q, want features.yaml", cfg.ConfigFile)
	}
	if !cfg.Watch {
		t.Error("expected Watch to default to true")
	}
	if cfg.RateLimitPerIP != 100 {
		t.Errorf("RateLimitPerIP = %d, want 100", cfg.RateLimitPerIP)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("STORE_TYPE", "memory")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("RATE_LIMIT_PER_IP", "5")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.StoreType != "memory" {
		t.Errorf("StoreType = %q, want memory", cfg.StoreType)
	}
	if cfg.HTTPAddr != ":9999" {
		t.Errorf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.RateLimitPerIP != 5 {
		t.Errorf("RateLimitPerIP = %d, want 5", cfg.RateLimitPerIP)
	}
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			HTTPAddr:    ":8080",
			MetricsAddr: ":9090",
			StoreType:   "file",
			ConfigFile:  "features.yaml",
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		field  string
	}{
		{
			name:   "valid",
			mutate: func(*config.Config) {},
		},
		{
			name:   "unsupported store type",
			mutate: func(c *config.Config) { c.StoreType = "redis" },
			field:  "STORE_TYPE",
		},
		{
			name:   "file store without path",
			mutate: func(c *config.Config) { c.ConfigFile = "" },
			field:  "CONFIG_FILE",
		},
		{
			name:   "postgres store without dsn",
			mutate: func(c *config.Config) { c.StoreType = "postgres" },
			field:  "DB_DSN",
		},
		{
			name:   "empty http addr",
			mutate: func(c *config.Config) { c.HTTPAddr = "" },
			field:  "HTTP_ADDR",
		},
		{
			name:   "empty metrics addr",
			mutate: func(c *config.Config) { c.MetricsAddr = "" },
			field:  "METRICS_ADDR",
		},
		{
			name:   "negative rate limit",
			mutate: func(c *config.Config) { c.RateLimitPerIP = -1 },
			field:  "RATE_LIMIT_PER_IP",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			verr, ok := err.(config.ValidationError)
			if !ok {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %q, want %q", verr.Field, tt.field)
			}
		})
	}
}
