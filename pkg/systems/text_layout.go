package systems

import (
	"errors"
	"log"
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

// ErrDegeneratePhrase 短语为空或只包含空白，无法布局
var ErrDegeneratePhrase = errors.New("phrase is empty or whitespace only")

// TextMeasurer 测量文本在给定字号下的渲染宽度
type TextMeasurer interface {
	Measure(s string, fontSize float64) float64
}

// FaceSource 按字号返回字体
type FaceSource interface {
	Face(size float64) text.Face
}

// FaceMeasurer 使用 ebiten text/v2 测量宽度
type FaceMeasurer struct {
	Faces FaceSource
}

// Measure 实现 TextMeasurer
func (m FaceMeasurer) Measure(s string, fontSize float64) float64 {
	return utils.MeasureTextWidth(s, m.Faces.Face(fontSize))
}

// TextBlock 一个短语的布局结果
// Cells 与规范化后短语的码点一一对应（包括空格）
type TextBlock struct {
	Phrase   string
	Cells    []components.CellComponent
	FontSize float64
	Lines    int
	// Overflow 已缩至 MinFontSize 仍超出最大宽度或高度
	Overflow bool
}

// VisibleCount 非空格单元数量
func (b *TextBlock) VisibleCount() int {
	n := 0
	for i := range b.Cells {
		if !b.Cells[i].IsSpace {
			n++
		}
	}
	return n
}

// Viewport 布局区域：锚点（文字块中心）与视口尺寸
type Viewport struct {
	AnchorX, AnchorY float64
	Width, Height    float64
}

// NormalizePhrase 规范化短语：NFC 组合，连续空白折叠为单个空格，去掉首尾空白
func NormalizePhrase(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// LayoutPhrase 对短语做贪心换行并计算每个字符的位置
//
// 字号从 BaseFontSize 开始；最长行超过 MaxWidthRatio × 视口宽度
// （或总高度超过 MaxHeightRatio × 视口高度）时按比例缩小并重新换行，
// 直到适配或达到 MinFontSize。行高 = 字号 × LineHeightFactor，
// 整个文字块以锚点为中心垂直居中。
//
// 换行处的空格放在上一行末尾，不参与该行的居中宽度。
func LayoutPhrase(phrase string, m TextMeasurer, cfg config.TextConfig, vp Viewport) (*TextBlock, error) {
	normalized := NormalizePhrase(phrase)
	if normalized == "" {
		return nil, ErrDegeneratePhrase
	}

	words := strings.Fields(normalized)
	maxWidth := vp.Width * cfg.MaxWidthRatio
	maxHeight := vp.Height * cfg.MaxHeightRatio

	size := cfg.BaseFontSize
	var lines [][]string
	overflow := false
	for {
		measure := func(s string) float64 { return m.Measure(s, size) }
		lines = utils.WrapWords(words, measure, maxWidth)

		widest := 0.0
		for _, line := range lines {
			if w := measure(strings.Join(line, " ")); w > widest {
				widest = w
			}
		}
		height := float64(len(lines)) * size * cfg.LineHeightFactor

		if widest <= maxWidth && (maxHeight <= 0 || height <= maxHeight) {
			break
		}
		if size <= cfg.MinFontSize {
			// 最小字号下仍放不下（通常是单个超长单词），保留溢出
			overflow = true
			log.Printf("[TextAnimator] 字号已缩至下限 %.1f，短语仍超出视口 (宽 %.1f > %.1f): %q",
				size, widest, maxWidth, normalized)
			break
		}

		scale := cfg.ShrinkFactor
		if widest > maxWidth && widest > 0 {
			scale = min(scale, maxWidth/widest*cfg.ShrinkFactor)
		}
		if maxHeight > 0 && height > maxHeight {
			scale = min(scale, maxHeight/height*cfg.ShrinkFactor)
		}
		size = max(size*scale, cfg.MinFontSize)
	}

	block := &TextBlock{
		Phrase:   normalized,
		Cells:    make([]components.CellComponent, 0, len([]rune(normalized))),
		FontSize: size,
		Lines:    len(lines),
		Overflow: overflow,
	}
	placeCells(block, lines, m, cfg, vp)
	return block, nil
}

// placeCells 按行生成单元并计算字形中心
func placeCells(block *TextBlock, lines [][]string, m TextMeasurer, cfg config.TextConfig, vp Viewport) {
	size := block.FontSize
	lineHeight := size * cfg.LineHeightFactor
	top := vp.AnchorY - float64(len(lines))*lineHeight/2
	spaceWidth := m.Measure(" ", size)

	for li, words := range lines {
		lineText := strings.Join(words, " ")
		lineWidth := m.Measure(lineText, size)
		startX := vp.AnchorX - lineWidth/2
		centerY := top + lineHeight*(float64(li)+0.5)

		for offset, r := range lineText {
			glyphWidth := m.Measure(string(r), size)
			block.Cells = append(block.Cells, components.CellComponent{
				Glyph:   r,
				IsSpace: r == ' ',
				X:       startX + m.Measure(lineText[:offset], size) + glyphWidth/2,
				Y:       centerY,
				Line:    li,
			})
		}

		// 换行处的空格
		if li < len(lines)-1 {
			block.Cells = append(block.Cells, components.CellComponent{
				Glyph:   ' ',
				IsSpace: true,
				X:       startX + lineWidth + spaceWidth/2,
				Y:       centerY,
				Line:    li,
			})
		}
	}
}

// RelayoutBlock 在视口变化后重新计算位置，只更新坐标
// 单元的阶段、不透明度和开始时间保持不变
func RelayoutBlock(block *TextBlock, m TextMeasurer, cfg config.TextConfig, vp Viewport) error {
	if block == nil {
		return nil
	}
	fresh, err := LayoutPhrase(block.Phrase, m, cfg, vp)
	if err != nil {
		return err
	}
	if len(fresh.Cells) != len(block.Cells) {
		return errors.New("relayout produced a different cell count")
	}
	for i := range block.Cells {
		block.Cells[i].X = fresh.Cells[i].X
		block.Cells[i].Y = fresh.Cells[i].Y
		block.Cells[i].Line = fresh.Cells[i].Line
	}
	block.FontSize = fresh.FontSize
	block.Lines = fresh.Lines
	block.Overflow = fresh.Overflow
	return nil
}
