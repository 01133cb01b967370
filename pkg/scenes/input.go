package scenes

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/affirm/pkg/utils"
)

// InputSource 每帧读取的输入
type InputSource interface {
	Pointer() utils.PointerState
	KeyJustPressed(key ebiten.Key) bool
}

// ebitenInput 从 ebiten 读取真实输入
type ebitenInput struct{}

func (ebitenInput) Pointer() utils.PointerState {
	return utils.PollPointer()
}

func (ebitenInput) KeyJustPressed(key ebiten.Key) bool {
	return inpututil.IsKeyJustPressed(key)
}
