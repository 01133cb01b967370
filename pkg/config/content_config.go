package config

import (
	"fmt"
	"strings"

	"github.com/decker502/affirm/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// ContentConfigPath 内容配置文件路径
const ContentConfigPath = "data/config/content.yaml"

// DefaultFallbackPhrase 提供方失败时使用的短语
const DefaultFallbackPhrase = "You are exactly where you need to be."

// ChoicePair 二选一选项
type ChoicePair struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// ContentConfig 情绪选项、二选一选项和备用短语
type ContentConfig struct {
	Emotions    []string     `yaml:"emotions"`
	ChoicePairs []ChoicePair `yaml:"choicePairs"`
	Fallbacks   []string     `yaml:"fallbacks"`
}

// DefaultContentConfig 返回内置内容
func DefaultContentConfig() *ContentConfig {
	return &ContentConfig{
		Emotions: []string{"calm", "anxious", "sad", "hopeful", "tired"},
		ChoicePairs: []ChoicePair{
			{Left: "gentle", Right: "bold"},
			{Left: "rest", Right: "grow"},
			{Left: "inward", Right: "outward"},
		},
		Fallbacks: []string{
			DefaultFallbackPhrase,
			"Breathe. This moment is enough.",
			"You are allowed to go slowly.",
		},
	}
}

// Fallback 返回第 i 个备用短语（循环取用）
func (c *ContentConfig) Fallback(i int) string {
	if len(c.Fallbacks) == 0 {
		return DefaultFallbackPhrase
	}
	if i < 0 {
		i = -i
	}
	return c.Fallbacks[i%len(c.Fallbacks)]
}

// ChoicePairAt 返回第 i 组二选一选项（循环取用）
func (c *ContentConfig) ChoicePairAt(i int) ChoicePair {
	if len(c.ChoicePairs) == 0 {
		return ChoicePair{Left: "yes", Right: "no"}
	}
	if i < 0 {
		i = -i
	}
	return c.ChoicePairs[i%len(c.ChoicePairs)]
}

// ParseContentConfig 解析内容配置
func ParseContentConfig(data []byte) (*ContentConfig, error) {
	var config ContentConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse content YAML: %w", err)
	}

	if err := validateContentConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid content config: %w", err)
	}
	return &config, nil
}

// LoadContentConfig 从 YAML 文件加载内容配置
func LoadContentConfig(filepath string) (*ContentConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file %s: %w", filepath, err)
	}

	config, err := ParseContentConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return config, nil
}

func validateContentConfig(c *ContentConfig) error {
	if len(c.Emotions) == 0 {
		return fmt.Errorf("at least one emotion is required")
	}
	for i, e := range c.Emotions {
		if strings.TrimSpace(e) == "" {
			return fmt.Errorf("emotion %d is empty", i)
		}
	}
	for i, p := range c.ChoicePairs {
		if strings.TrimSpace(p.Left) == "" || strings.TrimSpace(p.Right) == "" {
			return fmt.Errorf("choice pair %d has an empty option", i)
		}
	}
	for i, f := range c.Fallbacks {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("fallback %d is empty", i)
		}
	}
	return nil
}
