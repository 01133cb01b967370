package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

// PointerSystem 把指针输入转换为指针粒子发射
//   - 按下：爆发 PressMin..PressMax 个
//   - 移动：每帧 0..MotionMax 个，随速度和按下状态增加
//   - 长按后松开：按长按时长爆发 ReleaseMin..ReleaseMax 个
type PointerSystem struct {
	cfg     config.PointerConfig
	emitter Emitter
	rng     *rand.Rand
	color   color.RGBA

	// MotionEnabled 是否启用移动拖尾
	MotionEnabled bool

	pressed    bool
	pressStart float64
	lastX      float64
	lastY      float64
	hasLast    bool
}

// NewPointerSystem 创建指针系统
func NewPointerSystem(cfg config.PointerConfig, emitter Emitter, clr color.RGBA, rng *rand.Rand) *PointerSystem {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &PointerSystem{
		cfg:           cfg,
		emitter:       emitter,
		rng:           rng,
		color:         clr,
		MotionEnabled: true,
	}
}

// Update 处理一帧的指针状态，now 为毫秒
func (s *PointerSystem) Update(state utils.PointerState, now float64) {
	if !state.Valid {
		s.hasLast = false
		return
	}

	if state.JustPressed {
		s.pressed = true
		s.pressStart = now
		s.emit(state.X, state.Y, s.cfg.PressMin+s.rng.Intn(s.cfg.PressMax-s.cfg.PressMin+1))
	}

	if s.MotionEnabled && s.hasLast {
		s.emit(state.X, state.Y, s.motionCount(math.Hypot(state.X-s.lastX, state.Y-s.lastY), state.Pressed))
	}

	if state.JustReleased && s.pressed {
		s.pressed = false
		if n := s.releaseCount(now - s.pressStart); n > 0 {
			s.emit(state.X, state.Y, n)
		}
	}

	s.lastX, s.lastY = state.X, state.Y
	s.hasLast = true
}

// motionCount 移动速度（像素/帧）换算粒子数
func (s *PointerSystem) motionCount(speed float64, pressed bool) int {
	n := speed / s.cfg.MotionDivisor
	if pressed {
		n *= s.cfg.PressedMultiplier
	}
	return min(max(int(n), 0), s.cfg.MotionMax)
}

// releaseCount 长按超过阈值后松开的粒子数，未超过阈值返回 0
func (s *PointerSystem) releaseCount(held float64) int {
	if held <= s.cfg.HoldThreshold {
		return 0
	}
	bonus := math.Min(1, (held-s.cfg.HoldThreshold)/s.cfg.HoldFullDuration)
	return s.cfg.ReleaseMin + int(float64(s.cfg.ReleaseMax-s.cfg.ReleaseMin)*bonus)
}

func (s *PointerSystem) emit(x, y float64, count int) {
	if s.emitter == nil || count <= 0 {
		return
	}
	s.emitter.Emit(x, y, count, s.color, components.OriginCursor)
}
