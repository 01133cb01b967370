package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/utils"
)

func newTestBoidSystem() *BoidSystem {
	s := NewBoidSystem(config.DefaultAnimationConfig().Boid, rand.New(rand.NewSource(11)))
	s.SetViewport(800, 600)
	return s
}

func testBoid(cfg config.BoidConfig, pos, target utils.Vec2, mode components.BoidMode) components.BoidComponent {
	maxForce := cfg.FlockingMaxForce
	if mode == components.BoidSeeking {
		maxForce = cfg.SeekingMaxForce
	}
	return components.BoidComponent{
		Position:         pos,
		Target:           target,
		Mode:             mode,
		MaxSpeed:         cfg.MaxSpeed,
		MaxForce:         maxForce,
		GlyphSize:        20,
		SeparationWeight: 2,
		AlignmentWeight:  1.2,
		CohesionWeight:   1.2,
		InfluenceWeight:  0.5,
	}
}

func TestBoidSystem_SeekingSnap(t *testing.T) {
	s := newTestBoidSystem()
	target := utils.Vec2{X: 100, Y: 100}
	b := testBoid(s.cfg, utils.Vec2{X: 100.5, Y: 100}, target, components.BoidSeeking)
	b.Velocity = utils.Vec2{X: 1, Y: 0}
	s.boids = append(s.boids, b)

	s.Update()

	got := s.boids[0]
	if got.Mode != components.BoidSettled {
		t.Fatalf("expected Settled, got %v", got.Mode)
	}
	if got.Position != target {
		t.Errorf("expected position %v, got %v", target, got.Position)
	}
	if !got.Velocity.IsZero() {
		t.Errorf("expected zero velocity, got %v", got.Velocity)
	}
}

func TestBoidSystem_SeekingConverges(t *testing.T) {
	s := newTestBoidSystem()
	target := utils.Vec2{X: 400, Y: 300}
	s.boids = append(s.boids, testBoid(s.cfg, utils.Vec2{X: 50, Y: 80}, target, components.BoidSeeking))

	for tick := 0; tick < 1200 && !s.AllSettled(); tick++ {
		s.Update()
	}

	if !s.AllSettled() {
		t.Fatalf("boid did not settle, at %v (target %v)", s.boids[0].Position, target)
	}
	if s.boids[0].Position != target {
		t.Errorf("settled boid should sit exactly on target, got %v", s.boids[0].Position)
	}

	// 固定后不再移动
	s.Update()
	if s.boids[0].Position != target {
		t.Errorf("settled boid moved to %v", s.boids[0].Position)
	}
}

func TestBoidSystem_SetMode(t *testing.T) {
	s := newTestBoidSystem()
	s.boids = append(s.boids,
		testBoid(s.cfg, utils.Vec2{X: 10, Y: 10}, utils.Vec2{}, components.BoidFlocking),
		testBoid(s.cfg, utils.Vec2{X: 20, Y: 20}, utils.Vec2{X: 20, Y: 20}, components.BoidSettled),
	)

	s.SetMode(true)
	if s.boids[0].Mode != components.BoidSeeking || s.boids[0].MaxForce != 0.4 {
		t.Errorf("flocking boid should seek with force 0.4, got %v/%v", s.boids[0].Mode, s.boids[0].MaxForce)
	}
	if s.boids[1].Mode != components.BoidSettled {
		t.Errorf("settled boid should stay settled, got %v", s.boids[1].Mode)
	}

	s.SetMode(false)
	for i, b := range s.boids {
		if b.Mode != components.BoidFlocking || b.MaxForce != 0.2 {
			t.Errorf("boid %d: expected Flocking/0.2, got %v/%v", i, b.Mode, b.MaxForce)
		}
	}
}

func TestBoidSystem_PointerInfluence(t *testing.T) {
	tests := []struct {
		name     string
		pos      utils.Vec2
		mode     components.BoidMode
		attract  bool
		expected utils.Vec2
	}{
		{"半径内吸引", utils.Vec2{X: 325, Y: 300}, components.BoidFlocking, true, utils.Vec2{X: -0.25, Y: 0}},
		{"半径内排斥", utils.Vec2{X: 325, Y: 300}, components.BoidFlocking, false, utils.Vec2{X: 0.25, Y: 0}},
		{"半径外无影响", utils.Vec2{X: 460, Y: 300}, components.BoidFlocking, true, utils.Vec2{}},
		{"寻址模式不受影响", utils.Vec2{X: 325, Y: 300}, components.BoidSeeking, true, utils.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestBoidSystem()
			s.boids = append(s.boids, testBoid(s.cfg, tt.pos, utils.Vec2{}, tt.mode))

			// 指针在 (250, 300)，距离 75 → 强度 (1 - 75/150) × 0.5 = 0.25
			s.ApplyPointerInfluence(250, 300, tt.attract)

			got := s.boids[0].Acceleration
			if math.Abs(got.X-tt.expected.X) > 1e-9 || math.Abs(got.Y-tt.expected.Y) > 1e-9 {
				t.Errorf("期望加速度 %v，实际 %v", tt.expected, got)
			}
		})
	}
}

func TestBoidSystem_WrapClearsTrail(t *testing.T) {
	s := newTestBoidSystem()
	b := testBoid(s.cfg, utils.Vec2{X: -19, Y: 300}, utils.Vec2{}, components.BoidFlocking)
	b.Velocity = utils.Vec2{X: -3, Y: 0}
	b.Trail.Push(utils.Vec2{X: -16, Y: 300})
	s.boids = append(s.boids, b)

	s.Update()

	got := s.boids[0]
	if got.Position.X != 800+20 {
		t.Errorf("expected wrap to x=820, got %v", got.Position.X)
	}
	if got.Trail.Len() != 0 {
		t.Errorf("trail should be cleared on wrap, has %d points", got.Trail.Len())
	}
}

func TestBoidSystem_Separation(t *testing.T) {
	s := newTestBoidSystem()
	for _, x := range []float64{400, 405} {
		b := testBoid(s.cfg, utils.Vec2{X: x, Y: 300}, utils.Vec2{}, components.BoidFlocking)
		// 只保留分离规则
		b.AlignmentWeight = 0
		b.CohesionWeight = 0
		s.boids = append(s.boids, b)
	}

	before := s.boids[1].Position.Dist(s.boids[0].Position)
	for i := 0; i < 10; i++ {
		s.Update()
	}
	after := s.boids[1].Position.Dist(s.boids[0].Position)
	if after <= before {
		t.Errorf("close boids should separate: %v -> %v", before, after)
	}
}

func TestBoidSystem_ResetAndPositions(t *testing.T) {
	cfg := config.DefaultAnimationConfig()
	block, err := LayoutPhrase("Hi you", monoMeasurer{}, cfg.Text, testViewport(800, 600))
	if err != nil {
		t.Fatalf("LayoutPhrase failed: %v", err)
	}

	s := newTestBoidSystem()
	s.Reset(block, 800, 600)

	if len(s.Boids()) != 5 {
		t.Fatalf("expected one boid per visible cell (5), got %d", len(s.Boids()))
	}
	if _, _, ok := s.GlyphPosition(2); ok {
		t.Error("space cell should have no boid")
	}
	for _, b := range s.Boids() {
		if b.SeparationWeight < 1.5 || b.SeparationWeight > 2.5 {
			t.Errorf("separation weight %v out of range", b.SeparationWeight)
		}
		if b.AlignmentWeight < 1.0 || b.AlignmentWeight > 1.5 || b.CohesionWeight < 1.0 || b.CohesionWeight > 1.5 {
			t.Errorf("alignment/cohesion weights out of range: %v %v", b.AlignmentWeight, b.CohesionWeight)
		}
		c := block.Cells[b.CellIndex]
		if b.Target.X != c.X || b.Target.Y != c.Y {
			t.Errorf("target mismatch for cell %d", b.CellIndex)
		}
	}

	// 重新布局后已固定的 Boid 跟随槽位
	s.SetMode(true)
	for i := 0; i < 2000 && !s.AllSettled(); i++ {
		s.Update()
	}
	if !s.AllSettled() {
		t.Fatal("boids did not settle")
	}
	RelayoutBlock(block, monoMeasurer{}, cfg.Text, testViewport(1000, 600))
	s.UpdateTargets(block.Cells)
	x, y, ok := s.GlyphPosition(0)
	if !ok || x != block.Cells[0].X || y != block.Cells[0].Y {
		t.Errorf("settled boid should follow relayout, got (%v, %v)", x, y)
	}
}
