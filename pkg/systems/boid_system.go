package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

// BoidSystem 群体模式下驱动字形的自主体
//
// 每个可见字符单元对应一个 Boid。字符隐藏时 Boid 群聚游动，
// 入场时切换为寻址模式飞向各自的布局槽位，到达后固定。
type BoidSystem struct {
	cfg    config.BoidConfig
	boids  []components.BoidComponent
	byCell map[int]int

	width, height float64
	rng           *rand.Rand
}

// NewBoidSystem 创建群体系统
func NewBoidSystem(cfg config.BoidConfig, rng *rand.Rand) *BoidSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &BoidSystem{
		cfg:    cfg,
		byCell: make(map[int]int),
		rng:    rng,
	}
}

// Reset 为文字块的每个可见单元创建一个 Boid，随机散布在屏幕上
func (s *BoidSystem) Reset(block *TextBlock, width, height float64) {
	s.width, s.height = width, height
	s.boids = s.boids[:0]
	clear(s.byCell)
	if block == nil {
		return
	}

	for i := range block.Cells {
		c := &block.Cells[i]
		if c.IsSpace {
			continue
		}
		angle := s.rng.Float64() * 2 * math.Pi
		b := components.BoidComponent{
			CellIndex:        i,
			Position:         utils.Vec2{X: s.rng.Float64() * width, Y: s.rng.Float64() * height},
			Velocity:         utils.Vec2{X: math.Cos(angle), Y: math.Sin(angle)}.Scale(s.cfg.MaxSpeed / 2),
			Target:           utils.Vec2{X: c.X, Y: c.Y},
			Mode:             components.BoidFlocking,
			MaxSpeed:         s.cfg.MaxSpeed,
			MaxForce:         s.cfg.FlockingMaxForce,
			GlyphSize:        block.FontSize,
			SeparationWeight: s.randomIn(s.cfg.SeparationWeights),
			AlignmentWeight:  s.randomIn(s.cfg.AlignmentWeights),
			CohesionWeight:   s.randomIn(s.cfg.CohesionWeights),
			InfluenceWeight:  s.randomIn(s.cfg.InfluenceWeights),
		}
		s.byCell[i] = len(s.boids)
		s.boids = append(s.boids, b)
	}
}

// SetViewport 更新屏幕尺寸（用于环绕）
func (s *BoidSystem) SetViewport(width, height float64) {
	s.width, s.height = width, height
}

// UpdateTargets 重新布局后同步目标位置
// 已固定的 Boid 直接移动到新槽位
func (s *BoidSystem) UpdateTargets(cells []components.CellComponent) {
	for i := range s.boids {
		b := &s.boids[i]
		if b.CellIndex >= len(cells) {
			continue
		}
		c := &cells[b.CellIndex]
		b.Target = utils.Vec2{X: c.X, Y: c.Y}
		if b.Mode == components.BoidSettled {
			b.Position = b.Target
		}
	}
}

// SetMode 切换寻址/群聚
// 寻址时最大转向力提高；已固定的 Boid 保持固定。
// 离开寻址时恢复转向力并解除固定。
func (s *BoidSystem) SetMode(seeking bool) {
	for i := range s.boids {
		b := &s.boids[i]
		if seeking {
			if b.Mode != components.BoidSettled {
				b.Mode = components.BoidSeeking
			}
			b.MaxForce = s.cfg.SeekingMaxForce
			continue
		}
		b.Mode = components.BoidFlocking
		b.MaxForce = s.cfg.FlockingMaxForce
	}
}

// ApplyPointerInfluence 指针在影响半径内吸引或排斥群聚中的 Boid
// 力度随距离线性衰减，上限为每个 Boid 的影响权重
func (s *BoidSystem) ApplyPointerInfluence(x, y float64, attract bool) {
	pointer := utils.Vec2{X: x, Y: y}
	for i := range s.boids {
		b := &s.boids[i]
		if b.Mode != components.BoidFlocking {
			continue
		}
		d := b.Position.Dist(pointer)
		if d >= s.cfg.InfluenceRadius {
			continue
		}
		strength := (1 - d/s.cfg.InfluenceRadius) * b.InfluenceWeight
		dir := pointer.Sub(b.Position).Normalize()
		if !attract {
			dir = dir.Scale(-1)
		}
		b.Acceleration = b.Acceleration.Add(dir.Scale(strength))
	}
}

// Update 推进一帧
func (s *BoidSystem) Update() {
	// 先基于当前状态计算所有转向力，再统一积分
	for i := range s.boids {
		b := &s.boids[i]
		switch b.Mode {
		case components.BoidSeeking:
			s.accumulateSeek(b)
		case components.BoidFlocking:
			s.accumulateFlock(i)
		}
	}

	for i := range s.boids {
		b := &s.boids[i]
		switch b.Mode {
		case components.BoidSettled:
			b.Acceleration = utils.Vec2{}
		case components.BoidSeeking:
			s.integrateSeek(b)
		case components.BoidFlocking:
			s.integrate(b)
			s.wrap(b)
		}
	}
}

func (s *BoidSystem) accumulateSeek(b *components.BoidComponent) {
	d := b.Position.Dist(b.Target)
	if s.trySettle(b, d) {
		return
	}

	// 到达行为：进入减速半径后速度随距离非线性下降
	speed := b.MaxSpeed
	if d < s.cfg.ArrivalRadius {
		speed = b.MaxSpeed * math.Sqrt(d/s.cfg.ArrivalRadius)
	}
	desired := b.Target.Sub(b.Position).SetMag(speed)
	steer := desired.Sub(b.Velocity).Limit(b.MaxForce).Scale(s.cfg.SeekWeight)
	b.Acceleration = b.Acceleration.Add(steer)
}

func (s *BoidSystem) integrateSeek(b *components.BoidComponent) {
	if b.Mode != components.BoidSeeking {
		return
	}
	s.integrate(b)
	d := b.Position.Dist(b.Target)
	if d < s.cfg.DampingRadius {
		b.Velocity = b.Velocity.Scale(s.cfg.DampingFactor)
	}
	s.trySettle(b, d)
}

// trySettle 进入到达阈值即固定在目标上
func (s *BoidSystem) trySettle(b *components.BoidComponent, d float64) bool {
	if d >= s.cfg.SnapThreshold && d >= 1 {
		return false
	}
	b.Position = b.Target
	b.Velocity = utils.Vec2{}
	b.Acceleration = utils.Vec2{}
	b.Mode = components.BoidSettled
	return true
}

func (s *BoidSystem) accumulateFlock(index int) {
	b := &s.boids[index]
	sepRadius := s.cfg.SeparationFactor * b.GlyphSize

	var sep, align, center utils.Vec2
	sepCount, neighborCount := 0, 0

	for j := range s.boids {
		if j == index {
			continue
		}
		other := &s.boids[j]
		d := b.Position.Dist(other.Position)

		if d > 0 && d < sepRadius {
			// 距离越近排斥越强
			sep = sep.Add(b.Position.Sub(other.Position).Normalize().Scale(1 / d))
			sepCount++
		}
		if d < s.cfg.NeighborRadius {
			align = align.Add(other.Velocity)
			center = center.Add(other.Position)
			neighborCount++
		}
	}

	if sepCount > 0 && !sep.IsZero() {
		steer := sep.SetMag(b.MaxSpeed).Sub(b.Velocity).Limit(b.MaxForce)
		b.Acceleration = b.Acceleration.Add(steer.Scale(b.SeparationWeight))
	}
	if neighborCount > 0 {
		n := float64(neighborCount)
		if avg := align.Scale(1 / n); !avg.IsZero() {
			steer := avg.SetMag(b.MaxSpeed).Sub(b.Velocity).Limit(b.MaxForce)
			b.Acceleration = b.Acceleration.Add(steer.Scale(b.AlignmentWeight))
		}
		centroid := center.Scale(1 / n)
		if toward := centroid.Sub(b.Position); !toward.IsZero() {
			steer := toward.SetMag(b.MaxSpeed).Sub(b.Velocity).Limit(b.MaxForce)
			b.Acceleration = b.Acceleration.Add(steer.Scale(b.CohesionWeight))
		}
	}
}

func (s *BoidSystem) integrate(b *components.BoidComponent) {
	b.Velocity = b.Velocity.Add(b.Acceleration).Limit(b.MaxSpeed)
	b.Position = b.Position.Add(b.Velocity)
	b.Acceleration = utils.Vec2{}
	b.Trail.Push(b.Position)
}

// wrap 超出屏幕边缘一个字形尺寸后从对侧出现，并清空轨迹
func (s *BoidSystem) wrap(b *components.BoidComponent) {
	if s.width <= 0 || s.height <= 0 {
		return
	}
	m := b.GlyphSize
	wrapped := false
	switch {
	case b.Position.X < -m:
		b.Position.X = s.width + m
		wrapped = true
	case b.Position.X > s.width+m:
		b.Position.X = -m
		wrapped = true
	}
	switch {
	case b.Position.Y < -m:
		b.Position.Y = s.height + m
		wrapped = true
	case b.Position.Y > s.height+m:
		b.Position.Y = -m
		wrapped = true
	}
	if wrapped {
		b.Trail.Clear()
	}
}

// AllSettled 所有 Boid 是否都已固定
func (s *BoidSystem) AllSettled() bool {
	for i := range s.boids {
		if s.boids[i].Mode != components.BoidSettled {
			return false
		}
	}
	return true
}

// GlyphPosition 实现 PositionSource
func (s *BoidSystem) GlyphPosition(cellIndex int) (float64, float64, bool) {
	i, ok := s.byCell[cellIndex]
	if !ok {
		return 0, 0, false
	}
	p := s.boids[i].Position
	return p.X, p.Y, true
}

// Boids 返回全部 Boid（测试与调试用）
func (s *BoidSystem) Boids() []components.BoidComponent {
	return s.boids
}

// DrawTrails 绘制轨迹，透明度随单元不透明度和轨迹新旧衰减
func (s *BoidSystem) DrawTrails(screen *ebiten.Image, cells []components.CellComponent, clr color.RGBA) {
	for i := range s.boids {
		b := &s.boids[i]
		if b.Mode == components.BoidSettled || b.CellIndex >= len(cells) {
			continue
		}
		opacity := cells[b.CellIndex].Opacity / 255
		if opacity <= 0 {
			continue
		}
		points := b.Trail.Points()
		for k := 1; k < len(points); k++ {
			fade := float64(k) / float64(len(points))
			c := color.NRGBA{R: clr.R, G: clr.G, B: clr.B, A: uint8(80 * fade * opacity)}
			vector.StrokeLine(screen,
				float32(points[k-1].X), float32(points[k-1].Y),
				float32(points[k].X), float32(points[k].Y),
				1, c, true)
		}
	}
}

func (s *BoidSystem) randomIn(r [2]float64) float64 {
	return r[0] + s.rng.Float64()*(r[1]-r[0])
}
