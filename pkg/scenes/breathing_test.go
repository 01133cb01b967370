package scenes

import (
	"math"
	"testing"

	"github.com/decker502/affirm/pkg/config"
)

func TestBreathingAt(t *testing.T) {
	cfg := config.DefaultAnimationConfig().Scene

	tests := []struct {
		name      string
		elapsed   float64
		cycle     int
		phase     BreathPhase
		expansion float64
	}{
		{"开始吸气", 0, 0, BreathInhale, 0},
		{"吸气中点", 2000, 0, BreathInhale, 0.5},
		{"屏息", 5000, 0, BreathHold, 1},
		{"呼气结束前", 9999.999, 0, BreathExhale, 0},
		{"第二轮", 10000, 1, BreathInhale, 0},
		{"负数按零处理", -50, 0, BreathInhale, 0},
		{"全部结束", 30000, 3, BreathDone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			step := BreathingAt(tt.elapsed, cfg)
			if step.Cycle != tt.cycle || step.Phase != tt.phase {
				t.Fatalf("BreathingAt(%v) = cycle %d phase %v, want cycle %d phase %v",
					tt.elapsed, step.Cycle, step.Phase, tt.cycle, tt.phase)
			}
			if math.Abs(step.Expansion-tt.expansion) > 1e-3 {
				t.Errorf("expansion = %v, want %v", step.Expansion, tt.expansion)
			}
		})
	}
}

func TestBreathingAt_ZeroCycle(t *testing.T) {
	cfg := config.SceneConfig{BreathingCycles: 3}
	if step := BreathingAt(0, cfg); step.Phase != BreathDone {
		t.Errorf("expected Done for zero-length cycle, got %v", step.Phase)
	}
}

func TestBreathPhase_Label(t *testing.T) {
	if BreathInhale.Label() != "Breathe in" || BreathDone.Label() != "" {
		t.Errorf("unexpected labels: %q %q", BreathInhale.Label(), BreathDone.Label())
	}
}
