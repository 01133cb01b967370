package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/systems"
	"github.com/decker502/affirm/pkg/utils"
)

// ChoicePresenter 情绪与二选一界面
// 选择结果通过 Update 的返回值作为事件交给场景
type ChoicePresenter interface {
	PresentEmotionChoices(options []string)
	PresentBinaryChoice(pair config.ChoicePair)
	Dismiss()
	// Update 处理指针输入，用户完成选择时返回 (选项, true)
	Update(pointer utils.PointerState) (string, bool)
	Draw(screen *ebiten.Image)
}

// 选项按钮尺寸
const (
	choiceButtonHeight  = 48.0
	choiceButtonPadding = 24.0
	choiceButtonGap     = 16.0
	choiceFontSize      = 22.0
	choicePromptSize    = 26.0
	mobileButtonScale   = 1.5
)

var (
	choiceButtonFill      = color.RGBA{R: 40, G: 46, B: 80, A: 220}
	choiceButtonHighlight = color.RGBA{R: 70, G: 80, B: 140, A: 240}
	choiceButtonBorder    = color.RGBA{R: 180, G: 190, B: 255, A: 255}
	choiceTextColor       = color.RGBA{R: 240, G: 240, B: 255, A: 255}
)

type choiceButton struct {
	label      string
	x, y, w, h float64
}

func (b *choiceButton) contains(px, py float64) bool {
	return px >= b.x && px <= b.x+b.w && py >= b.y && py <= b.y+b.h
}

// ChoiceOverlay 在屏幕下方绘制一行按钮
type ChoiceOverlay struct {
	faces    systems.FaceSource
	measurer systems.TextMeasurer

	prompt  string
	options []string
	buttons []choiceButton
	hovered int
	pressed int

	width, height float64
}

// NewChoiceOverlay 创建选择界面；faces 为 nil 时按固定宽度估算按钮
func NewChoiceOverlay(faces systems.FaceSource) *ChoiceOverlay {
	o := &ChoiceOverlay{faces: faces, hovered: -1, pressed: -1}
	if faces != nil {
		o.measurer = systems.FaceMeasurer{Faces: faces}
	}
	return o
}

// SetViewport 视口变化时重新排布按钮
func (o *ChoiceOverlay) SetViewport(width, height float64) {
	o.width, o.height = width, height
	o.layoutButtons()
}

// PresentEmotionChoices 实现 ChoicePresenter
func (o *ChoiceOverlay) PresentEmotionChoices(options []string) {
	o.present("How are you feeling?", options)
}

// PresentBinaryChoice 实现 ChoicePresenter
func (o *ChoiceOverlay) PresentBinaryChoice(pair config.ChoicePair) {
	o.present("Which feels right?", []string{pair.Left, pair.Right})
}

// Dismiss 实现 ChoicePresenter
func (o *ChoiceOverlay) Dismiss() {
	o.prompt = ""
	o.options = nil
	o.buttons = nil
	o.hovered, o.pressed = -1, -1
}

// Active 是否正在显示选项
func (o *ChoiceOverlay) Active() bool {
	return len(o.options) > 0
}

func (o *ChoiceOverlay) present(prompt string, options []string) {
	o.prompt = prompt
	o.options = append(o.options[:0], options...)
	o.hovered, o.pressed = -1, -1
	o.layoutButtons()
}

func (o *ChoiceOverlay) measure(s string) float64 {
	if o.measurer != nil {
		return o.measurer.Measure(s, choiceFontSize)
	}
	return float64(len([]rune(s))) * choiceFontSize * 0.55
}

func (o *ChoiceOverlay) layoutButtons() {
	o.buttons = o.buttons[:0]
	if len(o.options) == 0 || o.width <= 0 {
		return
	}

	total := 0.0
	widths := make([]float64, len(o.options))
	for i, opt := range o.options {
		widths[i] = o.measure(opt) + 2*choiceButtonPadding
		total += widths[i]
	}
	total += choiceButtonGap * float64(len(o.options)-1)

	// 触屏上按钮更高，便于点击
	height := choiceButtonHeight
	if utils.IsMobile() {
		height *= mobileButtonScale
	}

	x := (o.width - total) / 2
	y := o.height*0.78 - height/2
	for i, opt := range o.options {
		o.buttons = append(o.buttons, choiceButton{label: opt, x: x, y: y, w: widths[i], h: height})
		x += widths[i] + choiceButtonGap
	}
}

// Update 实现 ChoicePresenter：在同一按钮上按下并松开即为选择
func (o *ChoiceOverlay) Update(pointer utils.PointerState) (string, bool) {
	if len(o.buttons) == 0 || !pointer.Valid {
		o.hovered = -1
		return "", false
	}

	o.hovered = -1
	for i := range o.buttons {
		if o.buttons[i].contains(pointer.X, pointer.Y) {
			o.hovered = i
			break
		}
	}

	if pointer.JustPressed {
		o.pressed = o.hovered
	}
	if pointer.JustReleased {
		pressed := o.pressed
		o.pressed = -1
		if pressed >= 0 && pressed == o.hovered {
			return o.buttons[pressed].label, true
		}
	}
	return "", false
}

// Draw 实现 ChoicePresenter
func (o *ChoiceOverlay) Draw(screen *ebiten.Image) {
	if len(o.buttons) == 0 || o.faces == nil {
		return
	}

	if o.prompt != "" {
		op := &text.DrawOptions{}
		op.GeoM.Translate(o.width/2, o.buttons[0].y-choicePromptSize*1.5)
		op.ColorScale.ScaleWithColor(choiceTextColor)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(screen, o.prompt, o.faces.Face(choicePromptSize), op)
	}

	face := o.faces.Face(choiceFontSize)
	for i := range o.buttons {
		b := &o.buttons[i]
		fill := choiceButtonFill
		if i == o.hovered {
			fill = choiceButtonHighlight
		}
		vector.DrawFilledRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), fill, true)
		vector.StrokeRect(screen, float32(b.x), float32(b.y), float32(b.w), float32(b.h), 1.5, choiceButtonBorder, true)

		op := &text.DrawOptions{}
		op.GeoM.Translate(b.x+b.w/2, b.y+b.h/2)
		op.ColorScale.ScaleWithColor(choiceTextColor)
		op.PrimaryAlign = text.AlignCenter
		op.SecondaryAlign = text.AlignCenter
		text.Draw(screen, b.label, face, op)
	}
}
