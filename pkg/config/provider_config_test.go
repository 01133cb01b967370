package config

import (
	"testing"
	"time"
)

func TestLoadEnvConfig(t *testing.T) {
	t.Run("默认值", func(t *testing.T) {
		t.Setenv("AFFIRM_PROVIDER_URL", "")
		t.Setenv("AFFIRM_VISUAL_MODE", "")
		cfg, err := LoadEnvConfig()
		if err != nil {
			t.Fatalf("LoadEnvConfig failed: %v", err)
		}
		if cfg.ProviderTimeout != 10*time.Second {
			t.Errorf("timeout: expected 10s, got %s", cfg.ProviderTimeout)
		}
	})

	t.Run("读取环境变量", func(t *testing.T) {
		t.Setenv("AFFIRM_PROVIDER_URL", "http://localhost:8080")
		t.Setenv("AFFIRM_PROVIDER_TIMEOUT", "3s")
		t.Setenv("AFFIRM_VERBOSE", "true")
		t.Setenv("AFFIRM_VISUAL_MODE", "boids")
		cfg, err := LoadEnvConfig()
		if err != nil {
			t.Fatalf("LoadEnvConfig failed: %v", err)
		}
		if cfg.ProviderURL != "http://localhost:8080" || cfg.ProviderTimeout != 3*time.Second || !cfg.Verbose {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("非法视觉模式", func(t *testing.T) {
		t.Setenv("AFFIRM_VISUAL_MODE", "sparkle")
		if _, err := LoadEnvConfig(); err == nil {
			t.Error("期望返回错误")
		}
	})
}

func TestParseVisualMode(t *testing.T) {
	tests := []struct {
		in   string
		want VisualMode
		ok   bool
	}{
		{"", VisualModeFade, true},
		{"fade", VisualModeFade, true},
		{"boids", VisualModeBoids, true},
		{"other", "", false},
	}
	for _, tt := range tests {
		got, err := ParseVisualMode(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseVisualMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
