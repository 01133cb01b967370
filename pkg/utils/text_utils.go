package utils

import (
	"strings"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// MeasureFunc 测量一段文本在当前字号下的渲染宽度（像素）
type MeasureFunc func(s string) float64

// WrapWords 贪心按词换行
// 参数:
//   - words: 已按空白切分的单词
//   - measure: 宽度测量函数
//   - maxWidth: 最大宽度（像素）
//
// 返回:
//   - [][]string: 每行包含的单词
//
// 换行规则:
//   - 单词依次累加到当前行，只要整行测量宽度 ≤ maxWidth
//   - 超出时以溢出的单词开始新行
//   - 单个单词本身超宽时独占一行（由调用方缩小字号后重新换行）
func WrapWords(words []string, measure MeasureFunc, maxWidth float64) [][]string {
	if len(words) == 0 {
		return nil
	}

	var lines [][]string
	current := []string{words[0]}

	for _, word := range words[1:] {
		candidate := strings.Join(append(current[:len(current):len(current)], word), " ")
		if measure(candidate) <= maxWidth {
			current = append(current, word)
			continue
		}
		lines = append(lines, current)
		current = []string{word}
	}

	return append(lines, current)
}

// MeasureTextWidth 测量文本宽度
func MeasureTextWidth(textStr string, face text.Face) float64 {
	if textStr == "" || face == nil {
		return 0
	}

	// 使用 Measure 方法测量文本尺寸
	width, _ := text.Measure(textStr, face, 0)
	return width
}
