// Package main provides a particle playground for tuning the particle
// presets used by the affirmation canvas.
//
// Usage:
//
//	go run ./cmd/particles [flags]
//
// Flags:
//
//	--presets <file>    Load presets from a YAML file on disk (default: built-in)
//	--capacity <n>      Override particle capacity
//	--phrase <text>     Phrase used by the T key
//	--verbose           Enable verbose logging (default off)
//
// Controls:
//
//	Mouse             - Cursor particles (press, drag, long-press release)
//	G                 - Glyph burst at screen center
//	T                 - Fade the phrase in, press again to fade it out
//	Left/Right Arrow  - Switch preset used by Space
//	Space             - Burst of the selected preset at screen center
//	P                 - Toggle pause
//	R                 - Clear all particles
//	Q/Escape          - Quit
package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	particlePkg "github.com/decker502/affirm/internal/particle"
	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/game"
	"github.com/decker502/affirm/pkg/systems"
	"github.com/decker502/affirm/pkg/utils"
)

const (
	screenWidth  = 1024
	screenHeight = 768
	burstSize    = 40
)

var (
	presetsFlag  = flag.String("presets", "", "Load particle presets from a YAML file")
	capacityFlag = flag.Int("capacity", 0, "Override particle capacity")
	phraseFlag   = flag.String("phrase", "You are exactly where you need to be.", "Phrase for the T key")
	verboseFlag  = flag.Bool("verbose", false, "Enable verbose logging (default off)")
)

var errQuit = errors.New("quit")

var (
	glyphColor  = color.RGBA{R: 235, G: 235, B: 255, A: 255}
	cursorColor = color.RGBA{R: 255, G: 214, B: 170, A: 255}
)

// ParticlePlaygroundGame implements ebiten.Game for the particle playground
type ParticlePlaygroundGame struct {
	particles *systems.ParticleSystem
	pointer   *systems.PointerSystem
	animator  *systems.TextAnimator
	block     *systems.TextBlock

	origins  []components.OriginKind
	selected int

	paused    bool
	textShown bool
	now       float64

	statusMessage string
}

// NewParticlePlaygroundGame creates a new playground instance
func NewParticlePlaygroundGame() (*ParticlePlaygroundGame, error) {
	presets := particlePkg.DefaultPresets()
	if *presetsFlag != "" {
		data, err := os.ReadFile(*presetsFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to read presets: %w", err)
		}
		presets, err = particlePkg.ParsePresets(data)
		if err != nil {
			return nil, err
		}
		log.Printf("Loaded presets from %s", *presetsFlag)
	}

	cfg := config.DefaultAnimationConfig()
	if *capacityFlag > 0 {
		cfg.Particle.Capacity = *capacityFlag
	}

	fonts, err := game.NewFontManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ps := systems.NewParticleSystem(cfg.Particle, presets, rng)

	g := &ParticlePlaygroundGame{
		particles: ps,
		pointer:   systems.NewPointerSystem(cfg.Pointer, ps, cursorColor, rng),
		animator:  systems.NewTextAnimator(cfg.Text, systems.FaceMeasurer{Faces: fonts}, fonts, ps, rng),
		origins:   []components.OriginKind{components.OriginTextGlyph, components.OriginCursor},
	}
	g.block = g.animator.Layout(*phraseFlag, systems.Viewport{
		AnchorX: screenWidth / 2, AnchorY: screenHeight / 2,
		Width: screenWidth, Height: screenHeight,
	})
	g.updateStatusMessage()
	return g, nil
}

func (g *ParticlePlaygroundGame) burst(x, y float64, origin components.OriginKind) {
	clr := glyphColor
	if origin == components.OriginCursor {
		clr = cursorColor
	}
	n := g.particles.Emit(x, y, burstSize, clr, origin)
	log.Printf("Emitted %d/%d %s particles", n, burstSize, originName(origin))
}

func originName(o components.OriginKind) string {
	if o == components.OriginCursor {
		return "cursor"
	}
	return "glyph"
}

func (g *ParticlePlaygroundGame) updateStatusMessage() {
	g.statusMessage = fmt.Sprintf("Preset: %s  Particles: %d/%d",
		originName(g.origins[g.selected]), g.particles.Count(), g.particles.Capacity())
	if g.paused {
		g.statusMessage += "  [PAUSED]"
	}
}

// Update implements ebiten.Game
func (g *ParticlePlaygroundGame) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return errQuit
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyLeft):
		g.selected = (g.selected + len(g.origins) - 1) % len(g.origins)
	case inpututil.IsKeyJustPressed(ebiten.KeyRight):
		g.selected = (g.selected + 1) % len(g.origins)
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.burst(screenWidth/2, screenHeight/2, g.origins[g.selected])
	case inpututil.IsKeyJustPressed(ebiten.KeyG):
		g.burst(screenWidth/2, screenHeight/2, components.OriginTextGlyph)
	case inpututil.IsKeyJustPressed(ebiten.KeyT):
		if g.textShown {
			g.animator.BeginExit(g.block.Cells, g.now)
		} else {
			g.animator.BeginEntry(g.block.Cells, g.now)
		}
		g.textShown = !g.textShown
	case inpututil.IsKeyJustPressed(ebiten.KeyP):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.particles.Clear()
	}

	if !g.paused {
		g.now += 1000.0 / config.TicksPerSecond
		g.pointer.Update(utils.PollPointer(), g.now)
		g.animator.Update(g.block.Cells, g.now)
		g.particles.Update()
	}
	g.updateStatusMessage()
	return nil
}

// Draw implements ebiten.Game
func (g *ParticlePlaygroundGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 12, G: 14, B: 28, A: 255})
	g.particles.Draw(screen)
	g.animator.Draw(screen, g.block)

	ebitenutil.DebugPrint(screen, fmt.Sprintf("%s\nFPS: %.1f\n\nClick/drag: cursor  G: glyph burst  T: phrase\n←/→: preset  Space: burst  P: pause  R: clear  Q: quit",
		g.statusMessage, ebiten.ActualFPS()))
}

// Layout implements ebiten.Game
func (g *ParticlePlaygroundGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

func main() {
	flag.Parse()
	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	g, err := NewParticlePlaygroundGame()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start particle playground: %v\n", err)
		os.Exit(1)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Particle Playground")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		fmt.Fprintf(os.Stderr, "Playground error: %v\n", err)
		os.Exit(1)
	}
}
