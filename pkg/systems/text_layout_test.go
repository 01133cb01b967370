package systems

import (
	"strings"
	"testing"

	"github.com/decker502/affirm/pkg/config"
)

// monoMeasurer 等宽测量：每个码点宽度 = 字号 × 0.5
type monoMeasurer struct{}

func (monoMeasurer) Measure(s string, fontSize float64) float64 {
	return float64(len([]rune(s))) * fontSize * 0.5
}

func testViewport(w, h float64) Viewport {
	return Viewport{AnchorX: w / 2, AnchorY: h / 2, Width: w, Height: h}
}

func TestNormalizePhrase(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"折叠空白", "  Hi   you \n", "Hi you"},
		{"纯空白", " \t\n ", ""},
		{"NFC 组合", "café", "café"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePhrase(tt.in); got != tt.want {
				t.Errorf("NormalizePhrase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestLayoutPhrase_HiYou(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text
	block, err := LayoutPhrase("Hi you", monoMeasurer{}, cfg, testViewport(960, 640))
	if err != nil {
		t.Fatalf("LayoutPhrase failed: %v", err)
	}

	if len(block.Cells) != 6 {
		t.Fatalf("Expected 6 cells, got %d", len(block.Cells))
	}
	for i, c := range block.Cells {
		if c.IsSpace != (i == 2) {
			t.Errorf("cell %d (%q): IsSpace = %v", i, c.Glyph, c.IsSpace)
		}
	}
	if block.VisibleCount() != 5 {
		t.Errorf("Expected 5 visible cells, got %d", block.VisibleCount())
	}
	if block.FontSize != cfg.BaseFontSize {
		t.Errorf("short phrase should keep base font size, got %v", block.FontSize)
	}

	// 单行居中：第一个与最后一个字形中心关于锚点对称
	first, last := block.Cells[0], block.Cells[5]
	if diff := (first.X+last.X)/2 - 480; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("line not centered: first=%v last=%v", first.X, last.X)
	}
	if first.Y != 320 {
		t.Errorf("single line should be centered on anchor Y, got %v", first.Y)
	}
}

func TestLayoutPhrase_Degenerate(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text
	for _, phrase := range []string{"", "   ", "\n\t"} {
		if _, err := LayoutPhrase(phrase, monoMeasurer{}, cfg, testViewport(960, 640)); err != ErrDegeneratePhrase {
			t.Errorf("LayoutPhrase(%q) error = %v, want ErrDegeneratePhrase", phrase, err)
		}
	}
}

func TestLayoutPhrase_CellCountAndWidthBound(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text
	phrases := []string{
		"You are exactly where you need to be.",
		"Breathe in slowly, and let the quiet settle over every thought you carry today.",
		"Supercalifragilisticexpialidocious moments still pass",
		"a b c d e f g h i j k l m n o p q r s t u v w x y z",
	}
	widths := []float64{320, 640, 960, 1920}

	for _, phrase := range phrases {
		for _, w := range widths {
			block, err := LayoutPhrase(phrase, monoMeasurer{}, cfg, testViewport(w, 1080))
			if err != nil {
				t.Fatalf("LayoutPhrase failed: %v", err)
			}

			want := len([]rune(NormalizePhrase(phrase)))
			if len(block.Cells) != want {
				t.Errorf("%q@%v: expected %d cells, got %d", phrase, w, want, len(block.Cells))
			}

			// 每行可见宽度不超过 80% 视口
			lineWidths := map[int][2]float64{}
			for _, c := range block.Cells {
				if c.IsSpace {
					continue
				}
				half := block.FontSize * 0.25
				lw, ok := lineWidths[c.Line]
				if !ok {
					lw = [2]float64{c.X - half, c.X + half}
				}
				lw[0] = min(lw[0], c.X-half)
				lw[1] = max(lw[1], c.X+half)
				lineWidths[c.Line] = lw
			}
			for line, lw := range lineWidths {
				if lw[1]-lw[0] > w*cfg.MaxWidthRatio+1e-6 {
					t.Errorf("%q@%v line %d width %.2f exceeds %.2f", phrase, w, line, lw[1]-lw[0], w*cfg.MaxWidthRatio)
				}
			}
		}
	}
}

func TestLayoutPhrase_WrapSpacesAtLineEnd(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text
	// 48px × 0.5 = 24px/字符，80% × 300 = 240px → 每行最多 10 个字符
	block, err := LayoutPhrase("hello there friend", monoMeasurer{}, cfg, testViewport(300, 1000))
	if err != nil {
		t.Fatalf("LayoutPhrase failed: %v", err)
	}
	if block.Lines != 3 {
		t.Fatalf("Expected 3 lines, got %d", block.Lines)
	}

	var rebuilt strings.Builder
	for _, c := range block.Cells {
		rebuilt.WriteRune(c.Glyph)
	}
	if rebuilt.String() != "hello there friend" {
		t.Errorf("cells should spell the phrase, got %q", rebuilt.String())
	}

	// 换行空格属于上一行
	if c := block.Cells[5]; !c.IsSpace || c.Line != 0 {
		t.Errorf("break space should end line 0, got %+v", c)
	}

	// 行高 = 48 × 1.5，三行整体以锚点居中
	if got := block.Cells[6].Y - block.Cells[0].Y; got != 72 {
		t.Errorf("line spacing: expected 72, got %v", got)
	}
	if mid := block.Cells[6].Y; mid != 500 {
		t.Errorf("middle line should sit on anchor Y 500, got %v", mid)
	}
}

func TestLayoutPhrase_ShrinksLongWord(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text
	block, err := LayoutPhrase("Incomprehensibilities", monoMeasurer{}, cfg, testViewport(400, 600))
	if err != nil {
		t.Fatalf("LayoutPhrase failed: %v", err)
	}
	if block.FontSize >= cfg.BaseFontSize {
		t.Errorf("expected font to shrink, got %v", block.FontSize)
	}
	if w := (monoMeasurer{}).Measure("Incomprehensibilities", block.FontSize); w > 400*cfg.MaxWidthRatio {
		t.Errorf("word width %.2f exceeds bound", w)
	}
	if block.Overflow {
		t.Error("word fits after shrinking, Overflow should be false")
	}
}

// 最小字号下仍放不下时停在 MinFontSize 并标记溢出
func TestLayoutPhrase_OverflowAtMinFontSize(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text

	tests := []struct {
		name     string
		width    float64
		overflow bool
	}{
		{"可以放下", 400, false},
		{"最小字号仍超宽", 40, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block, err := LayoutPhrase("Incomprehensibilities", monoMeasurer{}, cfg, testViewport(tt.width, 600))
			if err != nil {
				t.Fatalf("LayoutPhrase failed: %v", err)
			}
			if block.Overflow != tt.overflow {
				t.Errorf("Overflow = %v, want %v", block.Overflow, tt.overflow)
			}
			if tt.overflow && block.FontSize != cfg.MinFontSize {
				t.Errorf("expected font clamped to %v, got %v", cfg.MinFontSize, block.FontSize)
			}
			if len(block.Cells) != len("Incomprehensibilities") {
				t.Errorf("expected every glyph laid out, got %d cells", len(block.Cells))
			}
		})
	}
}

func TestRelayoutBlock_PreservesAnimationState(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Text
	block, _ := LayoutPhrase("Hi you", monoMeasurer{}, cfg, testViewport(960, 640))

	a := NewTextAnimator(cfg, monoMeasurer{}, nil, nil, nil)
	a.BeginEntry(block.Cells, 0)
	a.Update(block.Cells, 700)
	before := append(block.Cells[:0:0], block.Cells...)

	if err := RelayoutBlock(block, monoMeasurer{}, cfg, testViewport(1280, 720)); err != nil {
		t.Fatalf("RelayoutBlock failed: %v", err)
	}

	for i := range block.Cells {
		b, c := before[i], block.Cells[i]
		if b.Phase != c.Phase || b.Opacity != c.Opacity || b.StartTime != c.StartTime || b.Emitted != c.Emitted {
			t.Errorf("cell %d animation state changed: %+v -> %+v", i, b, c)
		}
	}
	if block.Cells[0].X == before[0].X {
		t.Error("expected positions to move after relayout")
	}
}
