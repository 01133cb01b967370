package components

// CellPhase 字符单元的动画阶段
type CellPhase int

const (
	// CellIdle 已布局但尚未开始任何动画
	CellIdle CellPhase = iota
	// CellFadingIn 正在淡入（可能仍处于错峰等待中）
	CellFadingIn
	// CellVisible 完全显示
	CellVisible
	// CellFadingOut 正在淡出（可能仍处于错峰等待中）
	CellFadingOut
	// CellHidden 完全隐藏，不产生绘制调用
	CellHidden
)

// String 返回阶段名称
func (p CellPhase) String() string {
	switch p {
	case CellIdle:
		return "Idle"
	case CellFadingIn:
		return "FadingIn"
	case CellVisible:
		return "Visible"
	case CellFadingOut:
		return "FadingOut"
	case CellHidden:
		return "Hidden"
	default:
		return "Unknown"
	}
}

// CellComponent 一个已布局的字符（字形 + 自身的动画状态）
//
// 不变量：
//   - Opacity 只在 TextAnimator 的更新步骤中写入，取决于 Phase、StartTime、淡入淡出时长和 FadeFrom
//   - 空格单元占据布局宽度，但从不进入动画阶段，也从不绘制或发射粒子
//
// 单元随短语布局整体创建，随下一个短语整体丢弃，不会单独删除。
type CellComponent struct {
	// Glyph 单个码点
	Glyph rune
	// IsSpace 是否为空白字符
	IsSpace bool

	// X, Y 字形中心位置（布局坐标）
	X, Y float64
	// Line 所在行号（从 0 开始）
	Line int

	// Opacity 当前不透明度 0-255
	Opacity float64
	// Phase 动画阶段
	Phase CellPhase
	// StartTime 当前阶段动画的开始时间（毫秒，含错峰偏移）
	StartTime float64
	// FadeFrom 淡出开始时的不透明度（淡出曲线的起点）
	FadeFrom float64
	// Emitted 是否已发射过淡入阈值粒子
	Emitted bool
}

// Visible 单元是否需要绘制
func (c *CellComponent) Visible() bool {
	return !c.IsSpace && c.Phase != CellHidden && c.Phase != CellIdle && c.Opacity > 0
}
