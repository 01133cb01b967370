package scenes

import "math"

// SceneState 场景状态机的状态
type SceneState int

const (
	// StateEmotionSelect 等待用户选择情绪
	StateEmotionSelect SceneState = iota
	// StateInitializing 等待第一句短语
	StateInitializing
	// StateDisplaying 展示当前短语（可能同时在等待下一句）
	StateDisplaying
	// StatePreChoiceTransition 二选一前的退场
	StatePreChoiceTransition
	// StateChoiceSelect 等待用户二选一，选择后等待下一句
	StateChoiceSelect
	// StateTransitioning 当前短语退场
	StateTransitioning
	// StateCreating 新短语入场
	StateCreating
	// StateBreathingGuidance 呼吸引导
	StateBreathingGuidance
)

// String 返回状态名称
func (s SceneState) String() string {
	switch s {
	case StateEmotionSelect:
		return "EmotionSelect"
	case StateInitializing:
		return "Initializing"
	case StateDisplaying:
		return "Displaying"
	case StatePreChoiceTransition:
		return "PreChoiceTransition"
	case StateChoiceSelect:
		return "ChoiceSelect"
	case StateTransitioning:
		return "Transitioning"
	case StateCreating:
		return "Creating"
	case StateBreathingGuidance:
		return "BreathingGuidance"
	default:
		return "Unknown"
	}
}

// noDeadline 表示当前没有计时等待
var noDeadline = math.Inf(1)

// stateTimeout 进入状态时的安全超时（毫秒）
// 返回 false 表示进入该状态时没有计时等待（例如等待用户输入）。
// Displaying 与 ChoiceSelect 只在发出请求后才开始计时，见 issueRequest。
func (s *AffirmationScene) stateTimeout(state SceneState) (float64, bool) {
	scene := s.cfg.Scene
	switch state {
	case StateInitializing, StatePreChoiceTransition, StateTransitioning, StateCreating:
		return scene.SafetyTimeout, true
	case StateBreathingGuidance:
		return scene.BreathingDuration() + scene.SafetyTimeout, true
	default:
		return 0, false
	}
}
