package scenes

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

// BreathPhase 呼吸引导的阶段
type BreathPhase int

const (
	BreathInhale BreathPhase = iota
	BreathHold
	BreathExhale
	BreathDone
)

// Label 阶段提示文字
func (p BreathPhase) Label() string {
	switch p {
	case BreathInhale:
		return "Breathe in"
	case BreathHold:
		return "Hold"
	case BreathExhale:
		return "Breathe out"
	default:
		return ""
	}
}

// BreathingStep 某一时刻的呼吸引导状态
type BreathingStep struct {
	Cycle int
	Phase BreathPhase
	// Expansion 圆的扩张程度 0（最小）到 1（最大）
	Expansion float64
}

// BreathingAt 计算开始后 elapsed 毫秒的呼吸引导状态
func BreathingAt(elapsed float64, cfg config.SceneConfig) BreathingStep {
	cycle := cfg.InhaleDuration + cfg.HoldDuration + cfg.ExhaleDuration
	if elapsed < 0 {
		elapsed = 0
	}
	if cycle <= 0 || elapsed >= cycle*float64(cfg.BreathingCycles) {
		return BreathingStep{Cycle: cfg.BreathingCycles, Phase: BreathDone}
	}

	n := int(elapsed / cycle)
	t := elapsed - float64(n)*cycle
	switch {
	case t < cfg.InhaleDuration:
		return BreathingStep{Cycle: n, Phase: BreathInhale, Expansion: utils.EaseInOutSine(t / cfg.InhaleDuration)}
	case t < cfg.InhaleDuration+cfg.HoldDuration:
		return BreathingStep{Cycle: n, Phase: BreathHold, Expansion: 1}
	default:
		p := (t - cfg.InhaleDuration - cfg.HoldDuration) / cfg.ExhaleDuration
		return BreathingStep{Cycle: n, Phase: BreathExhale, Expansion: 1 - utils.EaseInOutSine(p)}
	}
}

var (
	breathFill   = color.RGBA{R: 120, G: 170, B: 255, A: 60}
	breathStroke = color.RGBA{R: 170, G: 200, B: 255, A: 200}
)

// drawBreathing 绘制呼吸圆与提示文字
func drawBreathing(screen *ebiten.Image, step BreathingStep, cx, cy, minRadius, maxRadius float64, face text.Face) {
	if step.Phase == BreathDone {
		return
	}
	r := utils.Lerp(minRadius, maxRadius, step.Expansion)
	vector.DrawFilledCircle(screen, float32(cx), float32(cy), float32(r), breathFill, true)
	vector.StrokeCircle(screen, float32(cx), float32(cy), float32(r), 2, breathStroke, true)

	if face == nil {
		return
	}
	op := &text.DrawOptions{}
	op.GeoM.Translate(cx, cy)
	op.ColorScale.ScaleWithColor(choiceTextColor)
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, step.Phase.Label(), face, op)
}
