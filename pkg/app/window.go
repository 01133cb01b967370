package app

import "github.com/hajimehoshi/ebiten/v2"

// window 窗口操作（测试中替换为假实现）
type window interface {
	IsFullscreen() bool
	SetFullscreen(fullscreen bool)
	// Restore 取消最大化/最小化
	Restore()
	SetSize(width, height int)
}

// ebitenWindow 直接调用 ebiten 的窗口函数
type ebitenWindow struct{}

func (ebitenWindow) IsFullscreen() bool { return ebiten.IsFullscreen() }

func (ebitenWindow) SetFullscreen(fullscreen bool) { ebiten.SetFullscreen(fullscreen) }

func (ebitenWindow) Restore() {
	if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
		ebiten.RestoreWindow()
	}
}

func (ebitenWindow) SetSize(width, height int) { ebiten.SetWindowSize(width, height) }
