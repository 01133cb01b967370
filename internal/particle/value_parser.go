package particle

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Range 闭区间随机范围 [Min, Max]
// Min == Max 时为固定值
type Range struct {
	Min float64
	Max float64
}

// Fixed 返回固定值范围
func Fixed(v float64) Range {
	return Range{Min: v, Max: v}
}

// ParseRange parses a value string from particle preset configuration.
// Supports two formats:
//   - Fixed value: "1500" → min=1500, max=1500
//   - Range: "[0.7 0.9]" → min=0.7, max=0.9
//   - Single bracketed value: "[3]" → min=3, max=3
//
// min > max is rejected.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Range{}, fmt.Errorf("empty range value")
	}

	// Check for range format: "[min max]" or "[value]"
	if strings.HasPrefix(s, "[") {
		if !strings.HasSuffix(s, "]") {
			return Range{}, fmt.Errorf("unterminated range %q", s)
		}
		parts := strings.Fields(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
		switch len(parts) {
		case 1:
			v, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range value %q: %w", s, err)
			}
			return Fixed(v), nil
		case 2:
			min, err := strconv.ParseFloat(parts[0], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range min %q: %w", s, err)
			}
			max, err := strconv.ParseFloat(parts[1], 64)
			if err != nil {
				return Range{}, fmt.Errorf("invalid range max %q: %w", s, err)
			}
			if min > max {
				return Range{}, fmt.Errorf("range %q has min > max", s)
			}
			return Range{Min: min, Max: max}, nil
		default:
			return Range{}, fmt.Errorf("range %q must contain one or two values", s)
		}
	}

	// Fixed value format
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Range{}, fmt.Errorf("invalid fixed value %q: %w", s, err)
	}
	return Fixed(v), nil
}

// UnmarshalYAML 允许在 YAML 中直接书写 "[0.5 2]" 或 2
func (r *Range) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: range must be a scalar like \"[0.5 2]\"", node.Line)
	}
	parsed, err := ParseRange(node.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*r = parsed
	return nil
}

// MarshalYAML 以区间记法输出
func (r Range) MarshalYAML() (interface{}, error) {
	return r.String(), nil
}

// String 返回区间记法
func (r Range) String() string {
	if r.Min == r.Max {
		return strconv.FormatFloat(r.Min, 'g', -1, 64)
	}
	return "[" + strconv.FormatFloat(r.Min, 'g', -1, 64) + " " + strconv.FormatFloat(r.Max, 'g', -1, 64) + "]"
}

// Random 在 [Min, Max] 中均匀取值
func (r Range) Random(rng *rand.Rand) float64 {
	if r.Min >= r.Max {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// RandomInt 在 [Min, Max] 中均匀取整数（两端包含）
func (r Range) RandomInt(rng *rand.Rand) int {
	lo, hi := int(r.Min), int(r.Max)
	if lo >= hi {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}
