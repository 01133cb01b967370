package systems

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// RenderScope 绘制变换栈
// 每次 Push 保存当前变换和透明度，返回的函数恢复保存的状态。
// 调用方使用 defer 保证即使绘制中途返回也能恢复。
//
//	restore := scope.Push()
//	defer restore()
type RenderScope struct {
	geo   ebiten.GeoM
	alpha float32
	stack []scopeState
}

type scopeState struct {
	geo   ebiten.GeoM
	alpha float32
}

// NewRenderScope 创建单位变换、不透明度为 1 的作用域
func NewRenderScope() *RenderScope {
	return &RenderScope{alpha: 1}
}

// Push 保存当前状态
func (s *RenderScope) Push() func() {
	s.stack = append(s.stack, scopeState{geo: s.geo, alpha: s.alpha})
	depth := len(s.stack)
	return func() {
		// 恢复到 Push 时的深度（重复调用无副作用）
		if len(s.stack) < depth {
			return
		}
		saved := s.stack[depth-1]
		s.stack = s.stack[:depth-1]
		s.geo = saved.geo
		s.alpha = saved.alpha
	}
}

// Translate 平移
func (s *RenderScope) Translate(x, y float64) {
	s.geo.Translate(x, y)
}

// MultiplyAlpha 叠乘不透明度
func (s *RenderScope) MultiplyAlpha(a float32) {
	s.alpha *= a
}

// GeoM 当前变换
func (s *RenderScope) GeoM() ebiten.GeoM {
	return s.geo
}

// Alpha 当前不透明度
func (s *RenderScope) Alpha() float32 {
	return s.alpha
}

// Depth 当前栈深度
func (s *RenderScope) Depth() int {
	return len(s.stack)
}
