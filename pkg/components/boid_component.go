package components

import "github.com/decker502/affirm/pkg/utils"

// BoidMode Boid 的行为模式
type BoidMode int

const (
	// BoidFlocking 群聚游动（分离/对齐/聚合）
	BoidFlocking BoidMode = iota
	// BoidSeeking 寻找目标字符位置
	BoidSeeking
	// BoidSettled 已抵达目标并固定（直到下一个短语重置）
	BoidSettled
)

// String 返回模式名称
func (m BoidMode) String() string {
	switch m {
	case BoidFlocking:
		return "Flocking"
	case BoidSeeking:
		return "Seeking"
	case BoidSettled:
		return "Settled"
	default:
		return "Unknown"
	}
}

// TrailCapacity 轨迹环形缓冲区的最大长度
const TrailCapacity = 10

// BoidComponent 与一个字符单元一一绑定的自主体
// 在 boids 视觉模式下，字形绘制在 Boid 的位置上
type BoidComponent struct {
	// CellIndex 绑定的字符单元下标
	CellIndex int

	Position     utils.Vec2
	Velocity     utils.Vec2
	Acceleration utils.Vec2
	// Target 字符的布局槽位
	Target utils.Vec2

	Mode BoidMode

	// MaxSpeed 最大速度（像素/帧）
	MaxSpeed float64
	// MaxForce 单条规则的最大转向力（Seeking 时提高）
	MaxForce float64
	// GlyphSize 字形尺寸，决定分离半径和屏幕环绕边距
	GlyphSize float64

	// 创建时随机确定的权重
	SeparationWeight float64
	AlignmentWeight  float64
	CohesionWeight   float64
	InfluenceWeight  float64

	// Trail 最近位置的轨迹
	Trail Trail
}

// Trail 固定容量的位置环形缓冲区
type Trail struct {
	points [TrailCapacity]utils.Vec2
	head   int
	size   int
}

// Push 追加一个点，满时覆盖最旧的点
func (t *Trail) Push(p utils.Vec2) {
	t.points[t.head] = p
	t.head = (t.head + 1) % TrailCapacity
	if t.size < TrailCapacity {
		t.size++
	}
}

// Len 当前点数
func (t *Trail) Len() int {
	return t.size
}

// Clear 清空轨迹
func (t *Trail) Clear() {
	t.head = 0
	t.size = 0
}

// Points 按从旧到新的顺序返回轨迹点
func (t *Trail) Points() []utils.Vec2 {
	out := make([]utils.Vec2, 0, t.size)
	start := (t.head - t.size + TrailCapacity) % TrailCapacity
	for i := 0; i < t.size; i++ {
		out = append(out, t.points[(start+i)%TrailCapacity])
	}
	return out
}
