package utils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// monoMeasure 等宽测量：每个字符 10 像素
func monoMeasure(s string) float64 {
	return float64(utf8.RuneCountInString(s)) * 10
}

// TestWrapWords 测试贪心按词换行
func TestWrapWords(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		maxWidth  float64
		wantLines []string
	}{
		{
			name:      "短文本不换行",
			input:     "Hi you",
			maxWidth:  1000,
			wantLines: []string{"Hi you"},
		},
		{
			name:      "恰好等于最大宽度不换行",
			input:     "abc def",
			maxWidth:  70,
			wantLines: []string{"abc def"},
		},
		{
			name:      "溢出的单词开始新行",
			input:     "you are doing well",
			maxWidth:  80,
			wantLines: []string{"you are", "doing", "well"},
		},
		{
			name:      "超长单词独占一行",
			input:     "a extraordinarily b",
			maxWidth:  50,
			wantLines: []string{"a", "extraordinarily", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := WrapWords(strings.Fields(tt.input), monoMeasure, tt.maxWidth)
			if len(lines) != len(tt.wantLines) {
				t.Fatalf("行数 = %d (%v), 期望 %d", len(lines), lines, len(tt.wantLines))
			}
			for i, line := range lines {
				if got := strings.Join(line, " "); got != tt.wantLines[i] {
					t.Errorf("第 %d 行 = %q, 期望 %q", i, got, tt.wantLines[i])
				}
			}
		})
	}
}

// TestWrapWordsEmpty 空输入返回 nil
func TestWrapWordsEmpty(t *testing.T) {
	if lines := WrapWords(nil, monoMeasure, 100); lines != nil {
		t.Errorf("空输入应返回 nil, got %v", lines)
	}
}

// TestWrapWordsDoesNotAliasLines 换行结果各行互不共享底层数组
func TestWrapWordsDoesNotAliasLines(t *testing.T) {
	lines := WrapWords(strings.Fields("aa bb cc dd ee"), monoMeasure, 50)
	joined := make([]string, 0, len(lines))
	for _, l := range lines {
		joined = append(joined, strings.Join(l, " "))
	}
	if got := strings.Join(joined, "|"); got != "aa bb|cc dd|ee" {
		t.Errorf("换行结果 = %q, 期望 %q", got, "aa bb|cc dd|ee")
	}
}
