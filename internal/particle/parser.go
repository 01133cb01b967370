package particle

import (
	"fmt"

	"github.com/decker502/affirm/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// PresetsPath 粒子预设文件路径
const PresetsPath = "data/config/particles.yaml"

// ParsePresets parses a particle preset YAML document.
//
// Missing sections keep their default values, so a file may override
// only the fields it cares about.
//
// Returns:
//   - *PresetConfig: Parsed presets merged over DefaultPresets()
//   - error: Any YAML or validation error
func ParsePresets(data []byte) (*PresetConfig, error) {
	config := DefaultPresets()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse particle presets: %w", err)
	}

	if err := validatePreset("glyph", &config.Glyph); err != nil {
		return nil, err
	}
	if err := validatePreset("cursor", &config.Cursor); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadPresets 从嵌入文件加载粒子预设
//
// Example usage:
//
//	presets, err := LoadPresets("data/config/particles.yaml")
//	if err != nil {
//	    presets = DefaultPresets()
//	}
func LoadPresets(path string) (*PresetConfig, error) {
	data, err := embedded.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read particle presets %s: %w", path, err)
	}

	config, err := ParsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// validatePreset 校验单个预设的取值范围
func validatePreset(name string, p *Preset) error {
	if p.Size.Min <= 0 {
		return fmt.Errorf("%s: size must be positive, got %s", name, p.Size)
	}
	if p.Lifespan.Min < 1 {
		return fmt.Errorf("%s: lifespan must be at least 1 tick, got %s", name, p.Lifespan)
	}
	if p.FadeRate.Min <= 0 {
		return fmt.Errorf("%s: fadeRate must be positive, got %s", name, p.FadeRate)
	}
	if p.Alpha.Min <= 0 || p.Alpha.Max > 255 {
		return fmt.Errorf("%s: alpha must be within (0, 255], got %s", name, p.Alpha)
	}
	if p.Speed.Min < 0 || p.Wiggle.Min < 0 {
		return fmt.Errorf("%s: speed and wiggle cannot be negative", name)
	}
	if p.ColorJitter < 0 || p.ColorJitter > 255 {
		return fmt.Errorf("%s: colorJitter must be within [0, 255], got %d", name, p.ColorJitter)
	}
	return nil
}
