package app

import (
	"os"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/game"
	"github.com/decker502/affirm/pkg/provider"
	"github.com/decker502/affirm/pkg/scenes"
)

func TestNewApp_Defaults(t *testing.T) {
	a, err := NewApp(Config{Ephemeral: true})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	if _, ok := a.Provider().(*provider.StaticProvider); !ok {
		t.Errorf("expected static provider without URL, got %T", a.Provider())
	}
	scene, ok := a.GetSceneManager().GetCurrentScene().(*scenes.AffirmationScene)
	if !ok {
		t.Fatalf("expected affirmation scene, got %T", a.GetSceneManager().GetCurrentScene())
	}
	if scene.State() != scenes.StateEmotionSelect {
		t.Errorf("expected EmotionSelect, got %s", scene.State())
	}
}

func TestNewApp_Overrides(t *testing.T) {
	a, err := NewApp(Config{
		Ephemeral:       true,
		ProviderURL:     "http://localhost:9",
		ProviderTimeout: time.Second,
		Mode:            "boids",
		Emotion:         "calm",
	})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	client, ok := a.Provider().(*provider.HTTPClient)
	if !ok {
		t.Fatalf("expected HTTP provider, got %T", a.Provider())
	}
	if client.BaseURL() != "http://localhost:9" {
		t.Errorf("unexpected base URL %q", client.BaseURL())
	}
	scene := a.GetSceneManager().GetCurrentScene().(*scenes.AffirmationScene)
	if scene.VisualMode() != config.VisualModeBoids {
		t.Errorf("expected boids mode, got %s", scene.VisualMode())
	}
	if scene.State() != scenes.StateInitializing {
		t.Errorf("expected Initializing with preset emotion, got %s", scene.State())
	}
}

func TestNewApp_InvalidMode(t *testing.T) {
	if _, err := NewApp(Config{Ephemeral: true, Mode: "sparkle"}); err == nil {
		t.Error("expected error for unknown mode")
	}
}

func TestApp_LayoutFollowsWindow(t *testing.T) {
	a, err := NewApp(Config{Ephemeral: true})
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	defer a.Close()

	tests := []struct {
		name         string
		inW, inH     int
		wantW, wantH int
	}{
		{"窗口尺寸", 1280, 720, 1280, 720},
		{"无效尺寸回退默认", 0, 0, config.GameWindowWidth, config.GameWindowHeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := a.Layout(tt.inW, tt.inH)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Layout(%d, %d) = (%d, %d), want (%d, %d)", tt.inW, tt.inH, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

// fakeWindow 记录窗口操作
type fakeWindow struct {
	fullscreen bool
	restored   int
	width      int
	height     int
}

func (w *fakeWindow) IsFullscreen() bool            { return w.fullscreen }
func (w *fakeWindow) SetFullscreen(fullscreen bool) { w.fullscreen = fullscreen }
func (w *fakeWindow) Restore()                      { w.restored++ }
func (w *fakeWindow) SetSize(width, height int)     { w.width, w.height = width, height }

func TestApp_ToggleFullscreenSavesAppliedState(t *testing.T) {
	win := &fakeWindow{}
	settings := game.NewSettingsManager(nil)
	// 设置与窗口实际状态不一致（例如系统层面退出了全屏）
	settings.SetFullscreen(true)
	a := &App{sceneManager: game.NewSceneManager(), settings: settings, window: win}

	tests := []struct {
		name        string
		want        bool
		pendingSize bool
	}{
		{"进入全屏", true, false},
		{"退出全屏", false, true},
	}
	for _, tt := range tests {
		a.toggleFullscreen()
		if win.fullscreen != tt.want {
			t.Errorf("%s: window fullscreen = %v, want %v", tt.name, win.fullscreen, tt.want)
		}
		if got := settings.GetSettings().Fullscreen; got != tt.want {
			t.Errorf("%s: saved fullscreen = %v, want %v", tt.name, got, tt.want)
		}
		if a.pendingWindowSizeReset != tt.pendingSize {
			t.Errorf("%s: pending window reset = %v, want %v", tt.name, a.pendingWindowSizeReset, tt.pendingSize)
		}
	}
	if win.restored != 1 {
		t.Errorf("expected window restored once on exit, got %d", win.restored)
	}

	// 延迟几帧后恢复窗口尺寸
	for i := 0; i < 3; i++ {
		if err := a.Update(); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}
	if win.width != config.GameWindowWidth || win.height != config.GameWindowHeight {
		t.Errorf("expected window size reset, got %dx%d", win.width, win.height)
	}
}

// openTestStorage 在临时 HOME 下打开 gdata
func openTestStorage(t *testing.T) *gdata.Manager {
	t.Helper()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	m, err := gdata.Open(gdata.Config{AppName: "test_affirm_app"})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return m
}

func TestApplyOverrides_Persists(t *testing.T) {
	storage := openTestStorage(t)
	settings := game.NewSettingsManager(storage)

	err := applyOverrides(settings, Config{
		ProviderURL: "http://localhost:8080",
		Fullscreen:  true,
		Mode:        "boids",
	})
	if err != nil {
		t.Fatalf("applyOverrides failed: %v", err)
	}

	reloaded := game.NewSettingsManager(storage).GetSettings()
	if reloaded.ProviderURL != "http://localhost:8080" {
		t.Errorf("ProviderURL not persisted, got %q", reloaded.ProviderURL)
	}
	if !reloaded.Fullscreen {
		t.Error("Fullscreen not persisted")
	}
	if reloaded.VisualMode != config.VisualModeBoids {
		t.Errorf("VisualMode not persisted, got %s", reloaded.VisualMode)
	}
}

func TestApplyOverrides_InvalidMode(t *testing.T) {
	settings := game.NewSettingsManager(nil)
	if err := applyOverrides(settings, Config{Mode: "sparkle"}); err == nil {
		t.Error("expected error for unknown mode")
	}
	if settings.GetSettings().VisualMode != config.VisualModeFade {
		t.Error("settings should be unchanged after invalid mode")
	}
}
