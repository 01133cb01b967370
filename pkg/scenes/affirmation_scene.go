package scenes

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	particlePkg "github.com/decker502/affirm/internal/particle"
	"github.com/decker502/affirm/pkg/components"
	"github.com/decker502/affirm/pkg/config"
	"github.com/decker502/affirm/pkg/game"
	"github.com/decker502/affirm/pkg/provider"
	"github.com/decker502/affirm/pkg/systems"
)

var (
	backgroundColor = color.RGBA{R: 12, G: 14, B: 28, A: 255}
	cursorColor     = color.RGBA{R: 255, G: 214, B: 170, A: 255}
)

const breathLabelSize = 28.0

// resultBuffer 结果通道容量；过期结果会被丢弃，不会阻塞请求协程
const resultBuffer = 8

// SceneDeps 构造 AffirmationScene 所需的依赖
// 都可以为零值，使用内置默认；Faces 与 Measurer 至少需要一个
type SceneDeps struct {
	Config   *config.AnimationConfig
	Content  *config.ContentConfig
	Presets  *particlePkg.PresetConfig
	Provider provider.Provider
	Settings *game.SettingsManager

	// Faces 为 nil 时不绘制文字（测试）
	Faces    systems.FaceSource
	Measurer systems.TextMeasurer

	Presenter ChoicePresenter
	Input     InputSource
	Rng       *rand.Rand

	// InitialEmotion 非空时跳过情绪选择
	InitialEmotion string
	VisualMode     config.VisualMode

	Width, Height int
}

// providerResult 一次提供方调用的结果
type providerResult struct {
	gen  uint64
	op   string
	text string
	err  error
}

// AffirmationScene 肯定语画布的场景控制器
//
// 所有会话状态都在此实例中；只有 Update 修改状态。
// 提供方调用在协程中执行，结果通过带缓冲通道在下一次 Update 开头取回。
type AffirmationScene struct {
	cfg      *config.AnimationConfig
	content  *config.ContentConfig
	provider provider.Provider
	settings *game.SettingsManager

	presenter ChoicePresenter
	input     InputSource
	faces     systems.FaceSource
	rng       *rand.Rand

	particles *systems.ParticleSystem
	animator  *systems.TextAnimator
	boids     *systems.BoidSystem
	pointer   *systems.PointerSystem

	state    SceneState
	now      float64 // 毫秒
	entered  float64 // 进入当前状态的时间
	deadline float64 // 当前状态的安全超时时刻

	viewport systems.Viewport
	block    *systems.TextBlock

	current string
	pending string
	emotion string
	choice  string

	phrasesSinceChoice int
	choiceIndex        int
	fallbackIndex      int
	shown              map[string]bool

	breathingRequested bool
	visualMode         config.VisualMode
	showDebug          bool

	// 请求状态
	requestGen      uint64
	requestInFlight bool
	lastRequest     float64
	results         chan providerResult
	runAsync        func(func())

	ctx    context.Context
	cancel context.CancelFunc
}

// NewAffirmationScene 创建场景
func NewAffirmationScene(deps SceneDeps) *AffirmationScene {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.DefaultAnimationConfig()
	}
	content := deps.Content
	if content == nil {
		content = config.DefaultContentConfig()
	}
	rng := deps.Rng
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	measurer := deps.Measurer
	if measurer == nil && deps.Faces != nil {
		measurer = systems.FaceMeasurer{Faces: deps.Faces}
	}
	presenter := deps.Presenter
	if presenter == nil {
		presenter = NewChoiceOverlay(deps.Faces)
	}
	input := deps.Input
	if input == nil {
		input = ebitenInput{}
	}
	width, height := deps.Width, deps.Height
	if width <= 0 || height <= 0 {
		width, height = config.GameWindowWidth, config.GameWindowHeight
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &AffirmationScene{
		cfg:        cfg,
		content:    content,
		provider:   deps.Provider,
		settings:   deps.Settings,
		presenter:  presenter,
		input:      input,
		faces:      deps.Faces,
		rng:        rng,
		shown:      make(map[string]bool),
		visualMode: deps.VisualMode,
		results:    make(chan providerResult, resultBuffer),
		runAsync:   func(f func()) { go f() },
		ctx:        ctx,
		cancel:     cancel,
		deadline:   noDeadline,
		// 第一个请求不受最小间隔限制
		lastRequest: -cfg.Scene.MinRequestInterval,
	}
	if s.visualMode == "" {
		s.visualMode = config.VisualModeFade
	}

	s.particles = systems.NewParticleSystem(cfg.Particle, deps.Presets, rng)
	s.animator = systems.NewTextAnimator(cfg.Text, measurer, deps.Faces, s.particles, rng)
	s.animator.SetFallback(content.Fallback(0))
	s.boids = systems.NewBoidSystem(cfg.Boid, rng)
	s.pointer = systems.NewPointerSystem(cfg.Pointer, s.particles, cursorColor, rng)
	if deps.Settings != nil {
		s.pointer.MotionEnabled = deps.Settings.GetSettings().ParticlesEnabled
	}
	s.applyVisualMode()
	s.SetViewport(width, height)

	if deps.InitialEmotion != "" {
		s.selectEmotion(deps.InitialEmotion)
	} else {
		s.presenter.PresentEmotionChoices(content.Emotions)
		s.enterState(StateEmotionSelect)
	}

	return s
}

// State 当前状态
func (s *AffirmationScene) State() SceneState {
	return s.state
}

// CurrentPhrase 当前展示的短语
func (s *AffirmationScene) CurrentPhrase() string {
	return s.current
}

// Block 当前文字块
func (s *AffirmationScene) Block() *systems.TextBlock {
	return s.block
}

// Particles 粒子系统
func (s *AffirmationScene) Particles() *systems.ParticleSystem {
	return s.particles
}

// VisualMode 当前视觉模式
func (s *AffirmationScene) VisualMode() config.VisualMode {
	return s.visualMode
}

// RequestBreathing 在当前短语展示结束后进入呼吸引导
func (s *AffirmationScene) RequestBreathing() {
	s.breathingRequested = true
}

// SetViewport 实现 game.Resizable：只更新位置，不重启动画
func (s *AffirmationScene) SetViewport(width, height int) {
	w, h := float64(width), float64(height)
	s.viewport = systems.Viewport{AnchorX: w / 2, AnchorY: h * 0.45, Width: w, Height: h}
	if s.block != nil {
		s.animator.Relayout(s.block, s.viewport)
		s.boids.UpdateTargets(s.block.Cells)
	}
	s.boids.SetViewport(w, h)
	if r, ok := s.presenter.(interface{ SetViewport(w, h float64) }); ok {
		r.SetViewport(w, h)
	}
}

// Close 实现 game.Closable：取消进行中的请求
func (s *AffirmationScene) Close() {
	s.cancel()
}

// Update 推进一帧：取回结果 → 处理输入 → 状态求值 → 更新实体
func (s *AffirmationScene) Update(deltaTime float64) {
	s.now += deltaTime * 1000

	s.drainResults()

	ptr := s.input.Pointer()
	s.handleKeys()
	if choice, ok := s.presenter.Update(ptr); ok {
		s.handleSelection(choice)
	}

	s.evaluate()

	if s.block != nil {
		s.animator.Update(s.block.Cells, s.now)
	}
	if s.visualMode == config.VisualModeBoids {
		if ptr.Valid {
			s.boids.ApplyPointerInfluence(ptr.X, ptr.Y, ptr.Pressed)
		}
		s.boids.Update()
	}
	s.pointer.Update(ptr, s.now)
	s.particles.Update()
}

func (s *AffirmationScene) handleKeys() {
	if s.input.KeyJustPressed(ebiten.KeyB) {
		if s.visualMode == config.VisualModeBoids {
			s.visualMode = config.VisualModeFade
		} else {
			s.visualMode = config.VisualModeBoids
		}
		s.applyVisualMode()
		log.Printf("[AffirmationScene] 视觉模式切换为 %s", s.visualMode)
		if s.settings != nil {
			s.settings.SetVisualMode(s.visualMode)
			s.saveSettings()
		}
	}
	if s.input.KeyJustPressed(ebiten.KeyP) {
		s.pointer.MotionEnabled = !s.pointer.MotionEnabled
		if s.settings != nil {
			s.settings.SetParticlesEnabled(s.pointer.MotionEnabled)
			s.saveSettings()
		}
	}
	if s.input.KeyJustPressed(ebiten.KeyH) {
		s.RequestBreathing()
	}
	if s.input.KeyJustPressed(ebiten.KeyD) {
		s.showDebug = !s.showDebug
	}
}

func (s *AffirmationScene) saveSettings() {
	if err := s.settings.Save(); err != nil {
		log.Printf("[AffirmationScene] 保存设置失败: %v", err)
	}
}

// applyVisualMode 切换文字绘制位置来源
func (s *AffirmationScene) applyVisualMode() {
	if s.visualMode != config.VisualModeBoids {
		s.animator.SetPositionSource(nil)
		return
	}
	s.animator.SetPositionSource(s.boids)
	if s.block != nil {
		s.boids.Reset(s.block, s.viewport.Width, s.viewport.Height)
		s.boids.SetMode(s.state != StateTransitioning && s.state != StatePreChoiceTransition)
	}
}

// handleSelection 处理界面选择事件
func (s *AffirmationScene) handleSelection(choice string) {
	switch s.state {
	case StateEmotionSelect:
		s.presenter.Dismiss()
		s.selectEmotion(choice)
	case StateChoiceSelect:
		if s.requestInFlight {
			return
		}
		s.presenter.Dismiss()
		s.choice = choice
		log.Printf("[AffirmationScene] 用户选择: %s", choice)
		// 先请求下一句，拿到结果后才进入 Transitioning
		s.issueRequest("next")
	}
}

func (s *AffirmationScene) selectEmotion(emotion string) {
	s.emotion = emotion
	log.Printf("[AffirmationScene] 情绪: %s", emotion)
	s.enterState(StateInitializing)
	s.issueRequest("initial")
}

// enterState 切换状态并按超时表设置截止时间
func (s *AffirmationScene) enterState(state SceneState) {
	if state != s.state {
		log.Printf("[AffirmationScene] %s -> %s", s.state, state)
	}
	s.state = state
	s.entered = s.now
	s.deadline = noDeadline
	if timeout, ok := s.stateTimeout(state); ok {
		s.deadline = s.now + timeout
	}
}

// evaluate 每帧一次的状态求值
func (s *AffirmationScene) evaluate() {
	if s.now >= s.deadline {
		s.forceAdvance()
		return
	}

	switch s.state {
	case StateDisplaying:
		s.evaluateDisplaying()

	case StatePreChoiceTransition:
		if s.exitComplete() {
			s.enterChoiceSelect()
		}

	case StateTransitioning:
		if s.exitComplete() {
			s.enterCreating()
		}

	case StateCreating:
		if s.entryComplete() && s.glyphsArrived() {
			s.enterDisplaying()
		}

	case StateBreathingGuidance:
		if s.now-s.entered >= s.cfg.Scene.BreathingDuration() && !s.requestInFlight && s.requestAllowed() {
			s.issueRequest("next")
		}
	}
}

func (s *AffirmationScene) evaluateDisplaying() {
	if s.requestInFlight {
		return
	}
	elapsed := s.now - s.entered
	if elapsed < s.cfg.Scene.DisplayDuration {
		return
	}
	// 入场动画卡住时，额外等待一个安全超时后视为完成
	if !s.entryComplete() && elapsed < s.cfg.Scene.DisplayDuration+s.cfg.Scene.SafetyTimeout {
		return
	}

	switch {
	case s.phrasesSinceChoice >= s.cfg.Scene.ChoiceInterval:
		s.phrasesSinceChoice = 0
		s.beginExit()
		s.enterState(StatePreChoiceTransition)
	case s.breathingRequested:
		s.breathingRequested = false
		s.beginExit()
		s.enterState(StateBreathingGuidance)
	case s.requestAllowed():
		s.choice = ""
		s.issueRequest("next")
	}
}

// forceAdvance 安全超时：无论动画或请求是否完成都推进
func (s *AffirmationScene) forceAdvance() {
	log.Printf("[AffirmationScene] %s 超时，强制推进", s.state)

	switch s.state {
	case StateInitializing, StateDisplaying, StateChoiceSelect, StateBreathingGuidance:
		// 等待提供方超时：作废进行中的请求，使用备用短语
		s.invalidateRequest()
		s.acceptPhrase(s.nextFallback())
	case StatePreChoiceTransition:
		s.enterChoiceSelect()
	case StateTransitioning:
		s.enterCreating()
	case StateCreating:
		s.enterDisplaying()
	default:
		s.deadline = noDeadline
	}
}

func (s *AffirmationScene) enterChoiceSelect() {
	s.hideAll()
	pair := s.content.ChoicePairAt(s.choiceIndex)
	s.choiceIndex++
	s.presenter.PresentBinaryChoice(pair)
	s.enterState(StateChoiceSelect)
}

// enterTransitioning 当前短语退场（新短语已在 pending 中）
func (s *AffirmationScene) enterTransitioning() {
	s.beginExit()
	s.enterState(StateTransitioning)
}

// enterCreating 布局 pending 短语并开始入场
func (s *AffirmationScene) enterCreating() {
	phrase := s.pending
	if systems.NormalizePhrase(phrase) == "" {
		phrase = s.nextFallback()
	}
	s.pending = ""
	s.showPhrase(phrase)
	s.enterState(StateCreating)
}

func (s *AffirmationScene) enterDisplaying() {
	s.phrasesSinceChoice++
	s.enterState(StateDisplaying)
}

// showPhrase 替换整个单元集合并开始入场
func (s *AffirmationScene) showPhrase(phrase string) {
	s.block = s.animator.Layout(phrase, s.viewport)
	s.current = s.block.Phrase
	s.shown[s.current] = true
	s.animator.BeginEntry(s.block.Cells, s.now)

	if s.visualMode == config.VisualModeBoids {
		s.boids.Reset(s.block, s.viewport.Width, s.viewport.Height)
		s.boids.SetMode(true)
	}
}

func (s *AffirmationScene) beginExit() {
	if s.block == nil || systems.IsExitComplete(s.block.Cells) {
		return
	}
	s.animator.BeginExit(s.block.Cells, s.now)
	if s.visualMode == config.VisualModeBoids {
		s.boids.SetMode(false)
	}
}

// hideAll 立即隐藏（超时强制推进后不应残留半透明文字）
func (s *AffirmationScene) hideAll() {
	if s.block == nil {
		return
	}
	for i := range s.block.Cells {
		c := &s.block.Cells[i]
		if c.IsSpace {
			continue
		}
		c.Phase = components.CellHidden
		c.Opacity = 0
	}
}

func (s *AffirmationScene) exitComplete() bool {
	return s.block == nil || systems.IsExitComplete(s.block.Cells)
}

func (s *AffirmationScene) entryComplete() bool {
	return s.block == nil || systems.IsEntryComplete(s.block.Cells)
}

// glyphsArrived 群体模式下所有 Boid 都已到达槽位；淡入淡出模式始终为 true
func (s *AffirmationScene) glyphsArrived() bool {
	return s.visualMode != config.VisualModeBoids || s.boids.AllSettled()
}

func (s *AffirmationScene) requestAllowed() bool {
	return s.now-s.lastRequest >= s.cfg.Scene.MinRequestInterval
}

// issueRequest 异步请求短语
// 在 Displaying 与 ChoiceSelect 中请求开始计时
func (s *AffirmationScene) issueRequest(op string) {
	if s.requestInFlight {
		return
	}
	s.requestGen++
	gen := s.requestGen
	s.requestInFlight = true
	s.lastRequest = s.now
	s.armRequestDeadline()

	ctx := s.ctx
	p := s.provider
	emotion, previous, choice := s.emotion, s.current, s.choice
	results := s.results

	s.runAsync(func() {
		var phrase string
		var err error
		switch {
		case p == nil:
			// 未配置提供方：直接使用备用短语
			err = provider.ErrUnavailable
		case op == "initial":
			phrase, err = p.GetInitialPhrase(ctx, emotion)
		default:
			phrase, err = p.GetNextPhrase(ctx, previous, choice)
		}
		select {
		case results <- providerResult{gen: gen, op: op, text: phrase, err: err}:
		default:
			log.Printf("[AffirmationScene] 结果通道已满，丢弃 %s 结果", op)
		}
	})
}

func (s *AffirmationScene) armRequestDeadline() {
	if s.state == StateDisplaying || s.state == StateChoiceSelect || s.state == StateBreathingGuidance {
		s.deadline = s.now + s.cfg.Scene.SafetyTimeout
	}
}

// invalidateRequest 作废进行中的请求，之后到达的结果按过期丢弃
func (s *AffirmationScene) invalidateRequest() {
	s.requestGen++
	s.requestInFlight = false
}

// drainResults 取回所有已到达的结果
func (s *AffirmationScene) drainResults() {
	for {
		select {
		case r := <-s.results:
			s.handleResult(r)
		default:
			return
		}
	}
}

func (s *AffirmationScene) handleResult(r providerResult) {
	if r.gen != s.requestGen || !s.requestInFlight {
		log.Printf("[AffirmationScene] 丢弃过期的 %s 结果 (gen %d, 当前 %d)", r.op, r.gen, s.requestGen)
		return
	}
	s.requestInFlight = false

	phrase := r.text
	if r.err != nil {
		log.Printf("[AffirmationScene] 提供方 %s 失败: %v，使用备用短语", r.op, r.err)
		phrase = s.nextFallback()
	} else if normalized := systems.NormalizePhrase(phrase); normalized == "" {
		log.Printf("[AffirmationScene] 提供方返回空短语，使用备用短语")
		phrase = s.nextFallback()
	} else if s.shown[normalized] {
		log.Printf("[AffirmationScene] 短语本次会话已展示过，改用备用短语")
		phrase = s.nextFallback()
	}

	s.acceptPhrase(phrase)
}

// acceptPhrase 新短语到达后按当前状态推进
func (s *AffirmationScene) acceptPhrase(phrase string) {
	switch s.state {
	case StateInitializing:
		s.showPhrase(phrase)
		s.phrasesSinceChoice = 1
		s.enterState(StateDisplaying)
	case StateDisplaying, StateChoiceSelect, StateBreathingGuidance:
		s.pending = phrase
		s.presenter.Dismiss()
		s.enterTransitioning()
	default:
		log.Printf("[AffirmationScene] 状态 %s 下忽略短语", s.state)
	}
}

// nextFallback 选择一个与当前短语不同、尽量本次会话未展示过的备用短语
func (s *AffirmationScene) nextFallback() string {
	n := len(s.content.Fallbacks)
	if n == 0 {
		return config.DefaultFallbackPhrase
	}

	var differs string
	for i := 0; i < n; i++ {
		candidate := s.content.Fallback(s.fallbackIndex + i)
		normalized := systems.NormalizePhrase(candidate)
		if normalized == s.current {
			continue
		}
		if !s.shown[normalized] {
			s.fallbackIndex += i + 1
			return candidate
		}
		if differs == "" {
			differs = candidate
		}
	}
	s.fallbackIndex++
	if differs != "" {
		return differs
	}
	return s.content.Fallback(s.fallbackIndex)
}

// Draw 绘制：背景 → 轨迹 → 粒子 → 文字 → 呼吸引导 → 选择界面 → 调试信息
func (s *AffirmationScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)

	if s.block != nil && s.visualMode == config.VisualModeBoids {
		s.boids.DrawTrails(screen, s.block.Cells, color.RGBA{R: 200, G: 210, B: 255, A: 255})
	}
	s.particles.Draw(screen)
	s.animator.Draw(screen, s.block)

	if s.state == StateBreathingGuidance {
		step := BreathingAt(s.now-s.entered, s.cfg.Scene)
		minR := min(s.viewport.Width, s.viewport.Height) * 0.08
		drawBreathing(screen, step, s.viewport.AnchorX, s.viewport.AnchorY, minR, minR*3, s.labelFace())
	}

	s.presenter.Draw(screen)

	if s.showDebug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("state: %s\nmode: %s\nparticles: %d/%d\nFPS: %.1f",
			s.state, s.visualMode, s.particles.Count(), s.particles.Capacity(), ebiten.ActualFPS()))
	}
}

func (s *AffirmationScene) labelFace() text.Face {
	if s.faces == nil {
		return nil
	}
	return s.faces.Face(breathLabelSize)
}
