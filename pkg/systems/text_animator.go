package systems

import (
	"image/color"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

// Emitter 接收粒子发射请求
type Emitter interface {
	Emit(x, y float64, count int, c color.RGBA, origin components.OriginKind) int
}

// PositionSource 覆盖单元的绘制位置（群体模式下由 BoidSystem 提供）
type PositionSource interface {
	GlyphPosition(cellIndex int) (x, y float64, ok bool)
}

// TextAnimator 负责短语布局与逐字淡入淡出
//
// 时间以毫秒为单位，由调用方传入；单元不透明度只在 Update 中写入。
type TextAnimator struct {
	cfg      config.TextConfig
	measurer TextMeasurer
	faces    FaceSource
	emitter  Emitter
	rng      *rand.Rand
	color    color.RGBA
	fallback string

	positions PositionSource
	scope     *RenderScope
}

// NewTextAnimator 创建文字动画器
// emitter 可以为 nil（不产生粒子）；faces 为 nil 时 Draw 不绘制
func NewTextAnimator(cfg config.TextConfig, measurer TextMeasurer, faces FaceSource, emitter Emitter, rng *rand.Rand) *TextAnimator {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &TextAnimator{
		cfg:      cfg,
		measurer: measurer,
		faces:    faces,
		emitter:  emitter,
		rng:      rng,
		color:    color.RGBA{R: uint8(cfg.Color[0]), G: uint8(cfg.Color[1]), B: uint8(cfg.Color[2]), A: 255},
		fallback: config.DefaultFallbackPhrase,
		scope:    NewRenderScope(),
	}
}

// SetFallback 设置空短语时使用的备用短语
func (a *TextAnimator) SetFallback(phrase string) {
	if NormalizePhrase(phrase) != "" {
		a.fallback = phrase
	}
}

// SetPositionSource 设置绘制位置覆盖，nil 表示使用单元自身位置
func (a *TextAnimator) SetPositionSource(src PositionSource) {
	a.positions = src
}

// Layout 布局短语；空短语改用备用短语
func (a *TextAnimator) Layout(phrase string, vp Viewport) *TextBlock {
	block, err := LayoutPhrase(phrase, a.measurer, a.cfg, vp)
	if err != nil {
		log.Printf("[TextAnimator] 无法布局短语 %q: %v，使用备用短语", phrase, err)
		block, err = LayoutPhrase(a.fallback, a.measurer, a.cfg, vp)
		if err != nil {
			block, _ = LayoutPhrase(config.DefaultFallbackPhrase, a.measurer, a.cfg, vp)
		}
	}
	return block
}

// Relayout 视口变化后只更新位置
func (a *TextAnimator) Relayout(block *TextBlock, vp Viewport) {
	if err := RelayoutBlock(block, a.measurer, a.cfg, vp); err != nil {
		log.Printf("[TextAnimator] 重新布局失败: %v", err)
	}
}

// BeginEntry 开始入场：按可见序号错峰 EntryStagger 毫秒
func (a *TextAnimator) BeginEntry(cells []components.CellComponent, now float64) {
	k := 0
	for i := range cells {
		c := &cells[i]
		if c.IsSpace {
			continue
		}
		c.Phase = components.CellFadingIn
		c.StartTime = now + float64(k)*a.cfg.EntryStagger
		c.Opacity = 0
		c.FadeFrom = 0
		c.Emitted = false
		k++
	}
}

// BeginExit 开始退场：错峰为入场的一半，从当前不透明度淡出
func (a *TextAnimator) BeginExit(cells []components.CellComponent, now float64) {
	k := 0
	for i := range cells {
		c := &cells[i]
		if c.IsSpace {
			continue
		}
		c.Phase = components.CellFadingOut
		c.StartTime = now + float64(k)*a.cfg.ExitStagger
		c.FadeFrom = c.Opacity
		k++
	}
}

// Update 推进所有单元的不透明度，并按阈值与概率发射文字粒子
func (a *TextAnimator) Update(cells []components.CellComponent, now float64) {
	threshold := 255 * a.cfg.EmitThreshold

	for i := range cells {
		c := &cells[i]
		if c.IsSpace {
			continue
		}

		switch c.Phase {
		case components.CellFadingIn:
			p := utils.Progress(now, c.StartTime, a.cfg.FadeInDuration)
			if p >= 1 {
				c.Phase = components.CellVisible
				c.Opacity = 255
			} else {
				c.Opacity = 255 * utils.EaseInOutCubic(p)
			}

			if !c.Emitted && c.Opacity >= threshold {
				c.Emitted = true
				a.emit(i, c, a.cfg.BurstMin+a.rng.Intn(a.cfg.BurstMax-a.cfg.BurstMin))
			} else if p > 0 && p < 1 && a.rng.Float64() < a.cfg.FadeInEmitChance {
				a.emit(i, c, 1)
			}

		case components.CellFadingOut:
			p := utils.Progress(now, c.StartTime, a.cfg.FadeOutDuration)
			if p >= 1 {
				c.Phase = components.CellHidden
				c.Opacity = 0
				continue
			}
			c.Opacity = c.FadeFrom * (1 - utils.EaseInOutCubic(p))
			if p > 0 && a.rng.Float64() < a.cfg.FadeOutEmitChance {
				a.emit(i, c, 1)
			}
		}
	}
}

func (a *TextAnimator) emit(index int, c *components.CellComponent, count int) {
	if a.emitter == nil || count <= 0 {
		return
	}
	x, y := a.cellPosition(index, c)
	a.emitter.Emit(x, y, count, a.color, components.OriginTextGlyph)
}

func (a *TextAnimator) cellPosition(index int, c *components.CellComponent) (float64, float64) {
	if a.positions != nil {
		if x, y, ok := a.positions.GlyphPosition(index); ok {
			return x, y
		}
	}
	return c.X, c.Y
}

// IsEntryComplete 没有正在淡入的单元，且所有可见字符不透明度 ≥ 254
func IsEntryComplete(cells []components.CellComponent) bool {
	for i := range cells {
		c := &cells[i]
		if c.IsSpace {
			continue
		}
		if c.Phase == components.CellFadingIn || c.Opacity < 254 {
			return false
		}
	}
	return true
}

// IsExitComplete 没有正在淡出的单元，且所有可见字符不透明度恰好为 0
func IsExitComplete(cells []components.CellComponent) bool {
	for i := range cells {
		c := &cells[i]
		if c.IsSpace {
			continue
		}
		if c.Phase == components.CellFadingOut || c.Opacity != 0 {
			return false
		}
	}
	return true
}

// Draw 绘制所有可见单元；Hidden 与空格单元不产生绘制调用
func (a *TextAnimator) Draw(screen *ebiten.Image, block *TextBlock) {
	if block == nil || a.faces == nil {
		return
	}
	face := a.faces.Face(block.FontSize)

	for i := range block.Cells {
		c := &block.Cells[i]
		if !c.Visible() {
			continue
		}
		a.drawCell(screen, face, i, c)
	}
}

func (a *TextAnimator) drawCell(screen *ebiten.Image, face text.Face, index int, c *components.CellComponent) {
	restore := a.scope.Push()
	defer restore()

	x, y := a.cellPosition(index, c)
	a.scope.Translate(x, y)
	a.scope.MultiplyAlpha(float32(c.Opacity / 255))

	op := &text.DrawOptions{}
	op.GeoM = a.scope.GeoM()
	op.ColorScale.ScaleWithColor(a.color)
	op.ColorScale.ScaleAlpha(a.scope.Alpha())
	op.PrimaryAlign = text.AlignCenter
	op.SecondaryAlign = text.AlignCenter
	text.Draw(screen, string(c.Glyph), face, op)
}
