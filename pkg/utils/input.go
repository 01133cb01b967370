// Package utils 提供通用工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// PointerState 存储当前帧的指针输入状态
// 统一处理鼠标和触摸输入，优先使用触摸
type PointerState struct {
	// X, Y 当前指针位置（触摸释放时为最后一次触摸位置）
	X, Y float64
	// Pressed 指针是否处于按下状态
	Pressed bool
	// JustPressed 本帧刚刚按下
	JustPressed bool
	// JustReleased 本帧刚刚释放
	JustReleased bool
	// Valid 是否拿到了有效位置（桌面端始终为 true）
	Valid bool
}

// 保存最后一次触摸位置（触摸释放后 TouchPosition 不再可用）
var lastTouchX, lastTouchY int

// PollPointer 获取当前帧的指针状态
// 每帧只应调用一次
func PollPointer() PointerState {
	state := PointerState{Valid: true}

	// 首先检查触摸输入（移动设备）
	if justTouched := inpututil.AppendJustPressedTouchIDs(nil); len(justTouched) > 0 {
		lastTouchX, lastTouchY = ebiten.TouchPosition(justTouched[0])
		state.JustPressed = true
	}
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		lastTouchX, lastTouchY = ebiten.TouchPosition(touchIDs[0])
		state.X, state.Y = float64(lastTouchX), float64(lastTouchY)
		state.Pressed = true
		return state
	}
	if released := inpututil.AppendJustReleasedTouchIDs(nil); len(released) > 0 {
		state.X, state.Y = float64(lastTouchX), float64(lastTouchY)
		state.JustReleased = true
		return state
	}

	// 其次检查鼠标输入（桌面设备）
	x, y := ebiten.CursorPosition()
	state.X, state.Y = float64(x), float64(y)
	state.Pressed = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	state.JustPressed = state.JustPressed || inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	state.JustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	return state
}
