// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	particlePkg "github.com/decker502/affirm/internal/particle"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/game"
	"github.com/decker502/affirm/pkg/provider"
	"github.com/decker502/affirm/pkg/scenes"
)

// AppName gdata 存储使用的应用名
const AppName = "affirm"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ProviderURL 短语提供方地址；为空时使用设置中保存的地址，仍为空则使用内置短语
	ProviderURL string
	// ProviderTimeout 单次请求超时
	ProviderTimeout time.Duration
	// Mode 视觉模式（fade/boids），为空时使用设置
	Mode string
	// Emotion 非空时跳过情绪选择
	Emotion string
	// Fullscreen 以全屏启动
	Fullscreen bool
	// Ephemeral 不读写持久化设置（测试与演示）
	Ephemeral bool
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	provider                 provider.Provider
	window                   window
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
// 配置文件缺失或无效时使用内置默认值；只有启动参数错误才返回 error。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	animCfg, err := config.LoadAnimationConfig(config.AnimationConfigPath)
	if err != nil {
		log.Printf("[Config] 动画配置加载失败: %v（使用默认值）", err)
		animCfg = config.DefaultAnimationConfig()
	}
	content, err := config.LoadContentConfig(config.ContentConfigPath)
	if err != nil {
		log.Printf("[Config] 内容配置加载失败: %v（使用默认值）", err)
		content = config.DefaultContentConfig()
	}
	presets, err := particlePkg.LoadPresets(particlePkg.PresetsPath)
	if err != nil {
		log.Printf("[Config] 粒子预设加载失败: %v（使用默认值）", err)
		presets = particlePkg.DefaultPresets()
	}

	fonts, err := game.NewFontManager()
	if err != nil {
		return nil, fmt.Errorf("字体加载失败: %w", err)
	}

	var settings *game.SettingsManager
	if cfg.Ephemeral {
		settings = game.NewSettingsManager(nil)
	} else {
		settings = game.NewSettingsManager(game.OpenStorage(AppName))
	}

	if err := applyOverrides(settings, cfg); err != nil {
		return nil, err
	}
	current := settings.GetSettings()

	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	p := NewProvider(current.ProviderURL, timeout, content)

	sceneManager := game.NewSceneManager()
	scene := scenes.NewAffirmationScene(scenes.SceneDeps{
		Config:         animCfg,
		Content:        content,
		Presets:        presets,
		Provider:       p,
		Settings:       settings,
		Faces:          fonts,
		InitialEmotion: cfg.Emotion,
		VisualMode:     current.VisualMode,
		Width:          config.GameWindowWidth,
		Height:         config.GameWindowHeight,
	})
	sceneManager.SwitchTo(scene)

	win := ebitenWindow{}
	if current.Fullscreen {
		win.SetFullscreen(true)
	}

	log.Printf("[App] 启动完成: mode=%s provider=%T", current.VisualMode, p)

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
		provider:     p,
		window:       win,
		verbose:      cfg.Verbose,
	}, nil
}

// applyOverrides 命令行/环境变量优先于保存的设置，有变化时立即保存
func applyOverrides(settings *game.SettingsManager, cfg Config) error {
	current := settings.GetSettings()
	changed := false

	if cfg.Mode != "" {
		mode, err := config.ParseVisualMode(cfg.Mode)
		if err != nil {
			return err
		}
		if mode != current.VisualMode {
			settings.SetVisualMode(mode)
			changed = true
		}
	}
	if cfg.ProviderURL != "" && cfg.ProviderURL != current.ProviderURL {
		settings.SetProviderURL(cfg.ProviderURL)
		changed = true
	}
	if cfg.Fullscreen && !current.Fullscreen {
		settings.SetFullscreen(true)
		changed = true
	}

	if changed {
		if err := settings.Save(); err != nil {
			log.Printf("[App] 保存设置失败: %v", err)
		}
	}
	return nil
}

// NewProvider 按地址选择短语提供方：有地址时使用 HTTP，否则循环内置备用短语
func NewProvider(url string, timeout time.Duration, content *config.ContentConfig) provider.Provider {
	if url == "" {
		log.Printf("[App] 未配置提供方地址，使用内置短语")
		return provider.NewStaticProvider(content.Fallbacks)
	}
	log.Printf("[App] 使用 HTTP 提供方: %s", url)
	client := provider.NewHTTPClient(url, timeout)

	// 启动探测只记录日志，不阻塞启动；不可达时场景会使用备用短语
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := client.Health(ctx); err != nil {
			log.Printf("[App] 提供方健康检查失败: %v", err)
			return
		}
		log.Printf("[App] 提供方可用: %s", client.BaseURL())
	}()
	return client
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			a.window.SetSize(config.GameWindowWidth, config.GameWindowHeight)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.sceneManager.Update(1.0 / config.TicksPerSecond)
	return nil
}

// toggleFullscreen 切换全屏，并保存实际应用的状态
func (a *App) toggleFullscreen() {
	fullscreen := !a.window.IsFullscreen()
	a.window.SetFullscreen(fullscreen)
	if !fullscreen {
		// 退出全屏
		a.window.Restore()
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		log.Printf("[App] 保存设置失败: %v", err)
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑尺寸跟随窗口尺寸，场景在尺寸变化时重新布局文字
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		outsideWidth, outsideHeight = config.GameWindowWidth, config.GameWindowHeight
	}
	a.sceneManager.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// Provider 返回当前使用的短语提供方
func (a *App) Provider() provider.Provider {
	return a.provider
}

// Close 取消进行中的请求
func (a *App) Close() {
	a.sceneManager.Close()
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
