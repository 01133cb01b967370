// Package particle provides particle preset definitions and parsing
// for glyph and cursor particle emission.
//
// Preset values are written in range notation ("[min max]" or a fixed number)
// and evaluated per particle at spawn time.
package particle

// Preset 某一来源类型粒子的随机参数范围
type Preset struct {
	// Speed 初速度大小（像素/帧），方向在 [0, 2π) 中均匀随机
	Speed Range `yaml:"speed"`
	// Size 直径（像素）
	Size Range `yaml:"size"`
	// Lifespan 寿命（帧）
	Lifespan Range `yaml:"lifespan"`
	// FadeRate 每帧透明度衰减
	FadeRate Range `yaml:"fadeRate"`
	// Drift 恒定上漂速度
	Drift Range `yaml:"drift"`
	// Wiggle 水平抖动幅度
	Wiggle Range `yaml:"wiggle"`
	// Alpha 初始透明度 0-255
	Alpha Range `yaml:"alpha"`
	// ColorJitter 每个颜色通道的随机偏移幅度（±），0 表示不抖动
	ColorJitter int `yaml:"colorJitter"`
	// Brighten 每个颜色通道的固定增亮量
	Brighten int `yaml:"brighten"`
}

// PresetConfig 全部来源类型的粒子预设
type PresetConfig struct {
	Glyph  Preset `yaml:"glyph"`
	Cursor Preset `yaml:"cursor"`
}

// DefaultPresets 返回内置默认预设
// 指针粒子：更快、更短寿但更亮、更大，并带颜色抖动
// 文字粒子：更慢，使用文字颜色
func DefaultPresets() *PresetConfig {
	return &PresetConfig{
		Glyph: Preset{
			Speed:    Range{Min: 0.3, Max: 1.2},
			Size:     Range{Min: 2, Max: 4},
			Lifespan: Range{Min: 60, Max: 110},
			FadeRate: Range{Min: 2.5, Max: 4},
			Drift:    Fixed(0.3),
			Wiggle:   Fixed(0.3),
			Alpha:    Fixed(255),
		},
		Cursor: Preset{
			Speed:       Range{Min: 1.5, Max: 3.5},
			Size:        Range{Min: 3, Max: 6},
			Lifespan:    Range{Min: 30, Max: 55},
			FadeRate:    Range{Min: 4, Max: 7},
			Drift:       Fixed(0.5),
			Wiggle:      Fixed(0.5),
			Alpha:       Fixed(255),
			ColorJitter: 20,
			Brighten:    40,
		},
	}
}
