package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// VisualMode 文字呈现方式
type VisualMode string

const (
	// VisualModeFade 逐字淡入淡出
	VisualModeFade VisualMode = "fade"
	// VisualModeBoids 字形以群体运动聚散
	VisualModeBoids VisualMode = "boids"
)

// ParseVisualMode 解析视觉模式字符串，空串返回 fade
func ParseVisualMode(s string) (VisualMode, error) {
	switch VisualMode(s) {
	case "", VisualModeFade:
		return VisualModeFade, nil
	case VisualModeBoids:
		return VisualModeBoids, nil
	default:
		return "", fmt.Errorf("unknown visual mode %q (want fade or boids)", s)
	}
}

// EnvConfig 从环境变量读取的运行参数
type EnvConfig struct {
	ProviderURL     string        `env:"AFFIRM_PROVIDER_URL"`
	ProviderTimeout time.Duration `env:"AFFIRM_PROVIDER_TIMEOUT" envDefault:"10s"`
	Verbose         bool          `env:"AFFIRM_VERBOSE"`
	VisualMode      string        `env:"AFFIRM_VISUAL_MODE"`
}

// LoadEnvConfig 解析环境变量
func LoadEnvConfig() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.ProviderTimeout <= 0 {
		return EnvConfig{}, fmt.Errorf("AFFIRM_PROVIDER_TIMEOUT must be positive, got %s", cfg.ProviderTimeout)
	}
	if _, err := ParseVisualMode(cfg.VisualMode); err != nil {
		return EnvConfig{}, fmt.Errorf("AFFIRM_VISUAL_MODE: %w", err)
	}
	return cfg, nil
}
