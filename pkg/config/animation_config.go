package config

import (
	"fmt"

	"github.com/decker502/affirm/pkg/embedded"
	"gopkg.in/yaml.v3"
)

// AnimationConfigPath 动画参数配置文件路径
const AnimationConfigPath = "data/config/animation.yaml"

// TextConfig 文字排版与淡入淡出参数
type TextConfig struct {
	BaseFontSize      float64 `yaml:"baseFontSize"`      // 初始字号
	MinFontSize       float64 `yaml:"minFontSize"`       // 缩放下限
	MaxWidthRatio     float64 `yaml:"maxWidthRatio"`     // 最长行占视口宽度比例上限
	MaxHeightRatio    float64 `yaml:"maxHeightRatio"`    // 文字块占视口高度比例上限
	LineHeightFactor  float64 `yaml:"lineHeightFactor"`  // 行高 = 字号 × 系数
	ShrinkFactor      float64 `yaml:"shrinkFactor"`      // 每轮缩放系数
	FadeInDuration    float64 `yaml:"fadeInDuration"`    // 淡入时长（毫秒）
	FadeOutDuration   float64 `yaml:"fadeOutDuration"`   // 淡出时长（毫秒）
	EntryStagger      float64 `yaml:"entryStagger"`      // 入场逐字延迟（毫秒）
	ExitStagger       float64 `yaml:"exitStagger"`       // 退场逐字延迟（毫秒）
	EmitThreshold     float64 `yaml:"emitThreshold"`     // 触发粒子爆发的不透明度比例
	BurstMin          int     `yaml:"burstMin"`          // 爆发粒子数下限（含）
	BurstMax          int     `yaml:"burstMax"`          // 爆发粒子数上限（不含）
	FadeInEmitChance  float64 `yaml:"fadeInEmitChance"`  // 淡入期间每帧单粒子概率
	FadeOutEmitChance float64 `yaml:"fadeOutEmitChance"` // 淡出期间每帧单粒子概率
	Color             [3]int  `yaml:"color"`             // 文字颜色 RGB
}

// ParticleConfig 粒子池参数
type ParticleConfig struct {
	Capacity       int     `yaml:"capacity"`       // 粒子池容量
	ThrottleRatio  float64 `yaml:"throttleRatio"`  // 超过该占用比例后限流
	ThrottledCount int     `yaml:"throttledCount"` // 限流时单次最多发射数
	Damping        float64 `yaml:"damping"`        // 每帧速度衰减系数
}

// SceneConfig 场景状态机时序参数（毫秒）
type SceneConfig struct {
	DisplayDuration    float64 `yaml:"displayDuration"`    // 每句展示时长
	MinRequestInterval float64 `yaml:"minRequestInterval"` // 两次请求最小间隔
	SafetyTimeout      float64 `yaml:"safetyTimeout"`      // 各等待状态的安全超时
	ChoiceInterval     int     `yaml:"choiceInterval"`     // 每 N 句出现一次二选一
	BreathingCycles    int     `yaml:"breathingCycles"`    // 呼吸引导循环次数
	InhaleDuration     float64 `yaml:"inhaleDuration"`     // 吸气
	HoldDuration       float64 `yaml:"holdDuration"`       // 屏息
	ExhaleDuration     float64 `yaml:"exhaleDuration"`     // 呼气
}

// BreathingDuration 完整呼吸引导时长（毫秒）
func (c SceneConfig) BreathingDuration() float64 {
	return float64(c.BreathingCycles) * (c.InhaleDuration + c.HoldDuration + c.ExhaleDuration)
}

// BoidConfig 群体（Boid）运动参数
type BoidConfig struct {
	MaxSpeed          float64    `yaml:"maxSpeed"`          // 最大速度
	FlockingMaxForce  float64    `yaml:"flockingMaxForce"`  // 群聚模式最大转向力
	SeekingMaxForce   float64    `yaml:"seekingMaxForce"`   // 寻址模式最大转向力
	NeighborRadius    float64    `yaml:"neighborRadius"`    // 对齐/聚合半径
	SeparationFactor  float64    `yaml:"separationFactor"`  // 分离半径 = 字形尺寸 × 系数
	ArrivalRadius     float64    `yaml:"arrivalRadius"`     // 开始减速距离
	DampingRadius     float64    `yaml:"dampingRadius"`     // 开始阻尼距离
	DampingFactor     float64    `yaml:"dampingFactor"`     // 阻尼系数
	SnapThreshold     float64    `yaml:"snapThreshold"`     // 到达阈值
	SeekWeight        float64    `yaml:"seekWeight"`        // 寻址力放大倍数
	InfluenceRadius   float64    `yaml:"influenceRadius"`   // 指针影响半径
	SeparationWeights [2]float64 `yaml:"separationWeights"` // 分离权重区间
	AlignmentWeights  [2]float64 `yaml:"alignmentWeights"`  // 对齐权重区间
	CohesionWeights   [2]float64 `yaml:"cohesionWeights"`   // 聚合权重区间
	InfluenceWeights  [2]float64 `yaml:"influenceWeights"`  // 指针影响权重区间
}

// PointerConfig 指针输入产生粒子的参数
type PointerConfig struct {
	PressMin          int     `yaml:"pressMin"`          // 按下爆发下限
	PressMax          int     `yaml:"pressMax"`          // 按下爆发上限（含）
	HoldThreshold     float64 `yaml:"holdThreshold"`     // 长按判定（毫秒）
	HoldFullDuration  float64 `yaml:"holdFullDuration"`  // 长按奖励饱和所需额外时长（毫秒）
	ReleaseMin        int     `yaml:"releaseMin"`        // 松开爆发下限
	ReleaseMax        int     `yaml:"releaseMax"`        // 松开爆发上限
	MotionDivisor     float64 `yaml:"motionDivisor"`     // 速度换算粒子数的除数
	PressedMultiplier float64 `yaml:"pressedMultiplier"` // 按下时移动粒子倍数
	MotionMax         int     `yaml:"motionMax"`         // 每帧移动粒子上限
}

// AnimationConfig 动画配置文件结构
type AnimationConfig struct {
	Text     TextConfig     `yaml:"text"`
	Particle ParticleConfig `yaml:"particle"`
	Scene    SceneConfig    `yaml:"scene"`
	Boid     BoidConfig     `yaml:"boid"`
	Pointer  PointerConfig  `yaml:"pointer"`
}

// DefaultAnimationConfig 返回内置默认参数
func DefaultAnimationConfig() *AnimationConfig {
	return &AnimationConfig{
		Text: TextConfig{
			BaseFontSize:      48,
			MinFontSize:       8,
			MaxWidthRatio:     0.8,
			MaxHeightRatio:    0.8,
			LineHeightFactor:  1.5,
			ShrinkFactor:      0.99,
			FadeInDuration:    1500,
			FadeOutDuration:   1000,
			EntryStagger:      100,
			ExitStagger:       50,
			EmitThreshold:     0.7,
			BurstMin:          3,
			BurstMax:          8,
			FadeInEmitChance:  0.02,
			FadeOutEmitChance: 0.01,
			Color:             [3]int{255, 255, 255},
		},
		Particle: ParticleConfig{
			Capacity:       500,
			ThrottleRatio:  0.9,
			ThrottledCount: 3,
			Damping:        0.98,
		},
		Scene: SceneConfig{
			DisplayDuration:    15000,
			MinRequestInterval: 15000,
			SafetyTimeout:      5000,
			ChoiceInterval:     3,
			BreathingCycles:    3,
			InhaleDuration:     4000,
			HoldDuration:       2000,
			ExhaleDuration:     4000,
		},
		Boid: BoidConfig{
			MaxSpeed:          4,
			FlockingMaxForce:  0.2,
			SeekingMaxForce:   0.4,
			NeighborRadius:    50,
			SeparationFactor:  2,
			ArrivalRadius:     100,
			DampingRadius:     50,
			DampingFactor:     0.9,
			SnapThreshold:     2,
			SeekWeight:        2,
			InfluenceRadius:   150,
			SeparationWeights: [2]float64{1.5, 2.5},
			AlignmentWeights:  [2]float64{1.0, 1.5},
			CohesionWeights:   [2]float64{1.0, 1.5},
			InfluenceWeights:  [2]float64{0.3, 0.8},
		},
		Pointer: PointerConfig{
			PressMin:          10,
			PressMax:          15,
			HoldThreshold:     500,
			HoldFullDuration:  2500,
			ReleaseMin:        5,
			ReleaseMax:        25,
			MotionDivisor:     10,
			PressedMultiplier: 2,
			MotionMax:         8,
		},
	}
}

// ParseAnimationConfig 解析动画配置
// 文件中缺失的字段保留默认值
func ParseAnimationConfig(data []byte) (*AnimationConfig, error) {
	config := DefaultAnimationConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse animation config YAML: %w", err)
	}

	if err := validateAnimationConfig(config); err != nil {
		return nil, fmt.Errorf("invalid animation config: %w", err)
	}

	return config, nil
}

// LoadAnimationConfig 从 YAML 文件加载动画配置
// 参数：
//
//	filepath - 嵌入文件系统中的路径
//
// 返回：
//
//	*AnimationConfig - 解析后的配置对象
//	error - 如果文件读取或解析失败，返回错误信息
func LoadAnimationConfig(filepath string) (*AnimationConfig, error) {
	data, err := embedded.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read animation config file %s: %w", filepath, err)
	}

	config, err := ParseAnimationConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return config, nil
}

// validateAnimationConfig 验证动画配置的合法性
func validateAnimationConfig(c *AnimationConfig) error {
	t := c.Text
	if t.BaseFontSize <= 0 || t.MinFontSize <= 0 || t.MinFontSize > t.BaseFontSize {
		return fmt.Errorf("text: font sizes must satisfy 0 < minFontSize <= baseFontSize")
	}
	if t.MaxWidthRatio <= 0 || t.MaxWidthRatio > 1 {
		return fmt.Errorf("text: maxWidthRatio must be within (0, 1], got %v", t.MaxWidthRatio)
	}
	if t.MaxHeightRatio <= 0 || t.MaxHeightRatio > 1 {
		return fmt.Errorf("text: maxHeightRatio must be within (0, 1], got %v", t.MaxHeightRatio)
	}
	if t.ShrinkFactor <= 0 || t.ShrinkFactor >= 1 {
		return fmt.Errorf("text: shrinkFactor must be within (0, 1), got %v", t.ShrinkFactor)
	}
	if t.LineHeightFactor <= 0 {
		return fmt.Errorf("text: lineHeightFactor must be positive, got %v", t.LineHeightFactor)
	}
	if t.FadeInDuration <= 0 || t.FadeOutDuration <= 0 {
		return fmt.Errorf("text: fade durations must be positive")
	}
	if t.EntryStagger < 0 || t.ExitStagger < 0 {
		return fmt.Errorf("text: stagger cannot be negative")
	}
	if t.EmitThreshold <= 0 || t.EmitThreshold > 1 {
		return fmt.Errorf("text: emitThreshold must be within (0, 1], got %v", t.EmitThreshold)
	}
	if t.BurstMin < 0 || t.BurstMax <= t.BurstMin {
		return fmt.Errorf("text: burst range [%d, %d) is empty", t.BurstMin, t.BurstMax)
	}
	for _, ch := range t.Color {
		if ch < 0 || ch > 255 {
			return fmt.Errorf("text: color channel %d out of [0, 255]", ch)
		}
	}

	p := c.Particle
	if p.Capacity < 1 {
		return fmt.Errorf("particle: capacity must be at least 1, got %d", p.Capacity)
	}
	if p.ThrottleRatio <= 0 || p.ThrottleRatio > 1 {
		return fmt.Errorf("particle: throttleRatio must be within (0, 1], got %v", p.ThrottleRatio)
	}
	if p.ThrottledCount < 0 {
		return fmt.Errorf("particle: throttledCount cannot be negative")
	}
	if p.Damping <= 0 || p.Damping > 1 {
		return fmt.Errorf("particle: damping must be within (0, 1], got %v", p.Damping)
	}

	s := c.Scene
	if s.DisplayDuration <= 0 || s.SafetyTimeout <= 0 || s.MinRequestInterval < 0 {
		return fmt.Errorf("scene: durations must be positive")
	}
	if s.ChoiceInterval < 1 {
		return fmt.Errorf("scene: choiceInterval must be at least 1, got %d", s.ChoiceInterval)
	}
	if s.BreathingCycles < 1 || s.InhaleDuration <= 0 || s.HoldDuration < 0 || s.ExhaleDuration <= 0 {
		return fmt.Errorf("scene: invalid breathing timings")
	}

	b := c.Boid
	if b.MaxSpeed <= 0 || b.FlockingMaxForce <= 0 || b.SeekingMaxForce <= 0 {
		return fmt.Errorf("boid: speed and forces must be positive")
	}
	if b.SnapThreshold < 1 {
		return fmt.Errorf("boid: snapThreshold must be at least 1, got %v", b.SnapThreshold)
	}
	for name, w := range map[string][2]float64{
		"separationWeights": b.SeparationWeights,
		"alignmentWeights":  b.AlignmentWeights,
		"cohesionWeights":   b.CohesionWeights,
		"influenceWeights":  b.InfluenceWeights,
	} {
		if w[0] < 0 || w[1] < w[0] {
			return fmt.Errorf("boid: %s must be an ascending non-negative pair, got %v", name, w)
		}
	}

	ptr := c.Pointer
	if ptr.PressMin < 0 || ptr.PressMax < ptr.PressMin {
		return fmt.Errorf("pointer: invalid press burst range")
	}
	if ptr.ReleaseMin < 0 || ptr.ReleaseMax < ptr.ReleaseMin {
		return fmt.Errorf("pointer: invalid release burst range")
	}
	if ptr.MotionDivisor <= 0 || ptr.MotionMax < 0 || ptr.HoldFullDuration <= 0 {
		return fmt.Errorf("pointer: invalid motion parameters")
	}

	return nil
}
