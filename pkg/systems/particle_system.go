package systems

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	particlePkg "github.com/decker502/affirm/internal/particle"
	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
)

// ParticleSystem owns a bounded pool of short-lived decorative particles.
//
// Emission is throttled above ThrottleRatio occupancy and dropped at capacity;
// requests are never queued. Dead particles are removed in the same tick they die,
// and the removal does not preserve order.
type ParticleSystem struct {
	particles []components.ParticleComponent
	capacity  int

	throttleRatio  float64
	throttledCount int
	damping        float64

	presets *particlePkg.PresetConfig
	rng     *rand.Rand
}

// NewParticleSystem creates a ParticleSystem.
// presets may be nil, in which case built-in presets are used.
func NewParticleSystem(cfg config.ParticleConfig, presets *particlePkg.PresetConfig, rng *rand.Rand) *ParticleSystem {
	if presets == nil {
		presets = particlePkg.DefaultPresets()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = config.DefaultAnimationConfig().Particle.Capacity
	}
	return &ParticleSystem{
		particles:      make([]components.ParticleComponent, 0, cfg.Capacity),
		capacity:       cfg.Capacity,
		throttleRatio:  cfg.ThrottleRatio,
		throttledCount: cfg.ThrottledCount,
		damping:        cfg.Damping,
		presets:        presets,
		rng:            rng,
	}
}

// Emit adds up to count particles at (x, y) and returns how many were added.
func (ps *ParticleSystem) Emit(x, y float64, count int, c color.RGBA, origin components.OriginKind) int {
	if count <= 0 {
		return 0
	}

	n := len(ps.particles)
	if n >= ps.capacity {
		return 0
	}

	// 高占用时限流
	if float64(n) > ps.throttleRatio*float64(ps.capacity) && count > ps.throttledCount {
		count = ps.throttledCount
	}
	if free := ps.capacity - n; count > free {
		count = free
	}

	for i := 0; i < count; i++ {
		ps.particles = append(ps.particles, NewParticle(x, y, c, origin, ps.preset(origin), ps.rng))
	}
	return count
}

// NewParticle 按来源类型的预设随机生成一个粒子
func NewParticle(x, y float64, c color.RGBA, origin components.OriginKind, preset *particlePkg.Preset, rng *rand.Rand) components.ParticleComponent {
	angle := rng.Float64() * 2 * math.Pi
	speed := preset.Speed.Random(rng)

	r, g, b := int(c.R), int(c.G), int(c.B)
	if j := preset.ColorJitter; j > 0 {
		r += rng.Intn(2*j+1) - j
		g += rng.Intn(2*j+1) - j
		b += rng.Intn(2*j+1) - j
	}
	r += preset.Brighten
	g += preset.Brighten
	b += preset.Brighten

	return components.ParticleComponent{
		X:          x,
		Y:          y,
		VelocityX:  math.Cos(angle) * speed,
		VelocityY:  math.Sin(angle) * speed,
		Red:        clampChannel(r),
		Green:      clampChannel(g),
		Blue:       clampChannel(b),
		Alpha:      preset.Alpha.Random(rng),
		Size:       preset.Size.Random(rng),
		FadeRate:   preset.FadeRate.Random(rng),
		Lifespan:   preset.Lifespan.RandomInt(rng),
		DriftSpeed: preset.Drift.Random(rng),
		Wiggle:     preset.Wiggle.Random(rng),
		Origin:     origin,
	}
}

// Update advances every particle by one tick and removes the dead ones.
func (ps *ParticleSystem) Update() {
	for i := 0; i < len(ps.particles); {
		p := &ps.particles[i]
		ps.tick(p)

		if isDead(p) {
			// swap-remove，不保证顺序
			last := len(ps.particles) - 1
			ps.particles[i] = ps.particles[last]
			ps.particles = ps.particles[:last]
			continue
		}
		i++
	}
}

func (ps *ParticleSystem) tick(p *components.ParticleComponent) {
	p.X += p.VelocityX
	p.Y += p.VelocityY
	p.VelocityX *= ps.damping
	p.VelocityY *= ps.damping
	p.Y -= p.DriftSpeed
	if p.Wiggle > 0 {
		p.X += (ps.rng.Float64()*2 - 1) * p.Wiggle
	}
	p.Alpha -= p.FadeRate
	p.Lifespan--
}

func isDead(p *components.ParticleComponent) bool {
	return p.Alpha <= 0 || p.Lifespan <= 0
}

// Draw renders each particle as a filled circle whose diameter is its size.
func (ps *ParticleSystem) Draw(screen *ebiten.Image) {
	for i := range ps.particles {
		p := &ps.particles[i]
		clr := color.NRGBA{R: p.Red, G: p.Green, B: p.Blue, A: uint8(math.Min(255, math.Max(0, p.Alpha)))}
		vector.DrawFilledCircle(screen, float32(p.X), float32(p.Y), float32(p.Size/2), clr, true)
	}
}

// Clear removes all particles.
func (ps *ParticleSystem) Clear() {
	ps.particles = ps.particles[:0]
}

// Count returns the number of live particles.
func (ps *ParticleSystem) Count() int {
	return len(ps.particles)
}

// Capacity returns the maximum number of live particles.
func (ps *ParticleSystem) Capacity() int {
	return ps.capacity
}

// Particles exposes the live particles for inspection.
func (ps *ParticleSystem) Particles() []components.ParticleComponent {
	return ps.particles
}

func (ps *ParticleSystem) preset(origin components.OriginKind) *particlePkg.Preset {
	if origin == components.OriginCursor {
		return &ps.presets.Cursor
	}
	return &ps.presets.Glyph
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
