package components

// OriginKind 粒子来源类型
// 决定粒子初速度、尺寸、寿命等随机范围
type OriginKind int

const (
	// OriginTextGlyph 文字淡入/淡出时由字符发射的粒子
	OriginTextGlyph OriginKind = iota
	// OriginCursor 指针按下、拖动、释放时发射的粒子
	OriginCursor
)

// String 返回来源类型名称（日志用）
func (k OriginKind) String() string {
	switch k {
	case OriginTextGlyph:
		return "TextGlyph"
	case OriginCursor:
		return "Cursor"
	default:
		return "Unknown"
	}
}

// ParticleComponent represents a single particle instance owned by the ParticleSystem.
// 纯数据组件，由 ParticleSystem 创建、逐帧推进并在死亡的同一帧移除。
//
// 所有时间量以"帧"(tick) 为单位，而不是秒。
type ParticleComponent struct {
	// Position (布局坐标)
	X, Y float64

	// Velocity (速度, 像素/帧)
	VelocityX float64
	VelocityY float64

	// Color channels (颜色通道, 0-255)
	Red   uint8
	Green uint8
	Blue  uint8

	// Alpha 透明度 0-255，每帧减少 FadeRate
	Alpha float64
	// Size 绘制直径（像素）
	Size float64
	// FadeRate 每帧透明度衰减量
	FadeRate float64
	// Lifespan 剩余寿命（帧），每帧减 1
	Lifespan int

	// DriftSpeed 与速度无关的恒定上漂速度（像素/帧）
	DriftSpeed float64
	// Wiggle 每帧水平抖动幅度，取值于 [-Wiggle, +Wiggle]
	Wiggle float64

	// Origin 粒子来源
	Origin OriginKind
}
