package utils

import (
	"math"
	"testing"
)

func TestVec2Limit(t *testing.T) {
	tests := []struct {
		name    string
		v       Vec2
		max     float64
		wantMag float64
	}{
		{"未超出保持不变", Vec2{3, 4}, 10, 5},
		{"超出截断", Vec2{3, 4}, 2, 2},
		{"零向量", Vec2{}, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.v.Limit(tt.max)
			if math.Abs(got.Mag()-tt.wantMag) > 1e-9 {
				t.Errorf("Limit(%v) 长度 = %v, 期望 %v", tt.max, got.Mag(), tt.wantMag)
			}
		})
	}
}

func TestVec2SetMagKeepsDirection(t *testing.T) {
	v := Vec2{0, -2}.SetMag(5)
	if v.X != 0 || math.Abs(v.Y+5) > 1e-9 {
		t.Errorf("SetMag = %+v, 期望 {0 -5}", v)
	}

	if z := (Vec2{}).SetMag(5); !z.IsZero() {
		t.Errorf("零向量 SetMag 应保持为零, got %+v", z)
	}
}

func TestVec2Dist(t *testing.T) {
	a := Vec2{1, 1}
	b := Vec2{4, 5}
	if d := a.Dist(b); math.Abs(d-5) > 1e-9 {
		t.Errorf("Dist = %v, 期望 5", d)
	}
}
