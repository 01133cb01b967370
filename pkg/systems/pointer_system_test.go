package systems

import (
	"image/color"
	"math/rand"
	"testing"

	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

func newTestPointerSystem() (*PointerSystem, *recordingEmitter) {
	emitter := &recordingEmitter{}
	s := NewPointerSystem(config.DefaultAnimationConfig().Pointer, emitter, color.RGBA{255, 255, 255, 255}, rand.New(rand.NewSource(5)))
	return s, emitter
}

func TestPointerSystem_PressBurst(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		s, emitter := newTestPointerSystem()
		s.rng = rand.New(rand.NewSource(seed))
		s.Update(utils.PointerState{X: 10, Y: 10, Pressed: true, JustPressed: true, Valid: true}, 0)

		if len(emitter.calls) != 1 {
			t.Fatalf("expected 1 emission, got %d", len(emitter.calls))
		}
		call := emitter.calls[0]
		if call.count < 10 || call.count > 15 {
			t.Errorf("press burst %d outside [10, 15]", call.count)
		}
		if call.origin != components.OriginCursor {
			t.Errorf("expected Cursor origin, got %v", call.origin)
		}
	}
}

func TestPointerSystem_MotionCount(t *testing.T) {
	s, _ := newTestPointerSystem()
	tests := []struct {
		name    string
		speed   float64
		pressed bool
		want    int
	}{
		{"静止", 0, false, 0},
		{"慢速", 9, false, 0},
		{"中速", 35, false, 3},
		{"按下翻倍", 35, true, 7},
		{"上限 8", 500, true, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.motionCount(tt.speed, tt.pressed); got != tt.want {
				t.Errorf("motionCount(%v, %v) = %d, want %d", tt.speed, tt.pressed, got, tt.want)
			}
		})
	}
}

func TestPointerSystem_ReleaseAfterHold(t *testing.T) {
	tests := []struct {
		name string
		held float64
		want int
	}{
		{"短按无爆发", 300, 0},
		{"恰好 500ms 无爆发", 500, 0},
		{"刚超过阈值", 501, 5},
		{"一半", 1750, 15},
		{"饱和", 10000, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, emitter := newTestPointerSystem()
			s.MotionEnabled = false
			s.Update(utils.PointerState{X: 0, Y: 0, Pressed: true, JustPressed: true, Valid: true}, 1000)
			emitter.calls = nil
			s.Update(utils.PointerState{X: 0, Y: 0, JustReleased: true, Valid: true}, 1000+tt.held)

			got := 0
			for _, c := range emitter.calls {
				got += c.count
			}
			if got != tt.want {
				t.Errorf("期望松开爆发 %d 个，实际 %d", tt.want, got)
			}
		})
	}
}

func TestPointerSystem_MotionDisabled(t *testing.T) {
	s, emitter := newTestPointerSystem()
	s.MotionEnabled = false
	s.Update(utils.PointerState{X: 0, Y: 0, Valid: true}, 0)
	s.Update(utils.PointerState{X: 300, Y: 0, Valid: true}, 16)
	if len(emitter.calls) != 0 {
		t.Errorf("motion emission should be disabled, got %d calls", len(emitter.calls))
	}
}

func TestPointerSystem_InvalidResetsMotion(t *testing.T) {
	s, emitter := newTestPointerSystem()
	s.Update(utils.PointerState{X: 0, Y: 0, Valid: true}, 0)
	s.Update(utils.PointerState{}, 16)
	s.Update(utils.PointerState{X: 500, Y: 500, Valid: true}, 32)
	if len(emitter.calls) != 0 {
		t.Errorf("pointer re-entry should not count as motion, got %d calls", len(emitter.calls))
	}
}
