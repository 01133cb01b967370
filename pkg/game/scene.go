package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents an application scene.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，场景实现后会在窗口尺寸变化时收到通知
//
// 场景应只更新布局位置，不重启任何动画。
type Resizable interface {
	SetViewport(width, height int)
}

// Closable 是一个可选接口，用于在程序退出时释放场景持有的资源
// （例如取消进行中的网络请求）
type Closable interface {
	Close()
}
