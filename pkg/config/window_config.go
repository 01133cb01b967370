package config

// 窗口配置常量
const (
	// GameWindowWidth 默认窗口宽度
	GameWindowWidth = 960

	// GameWindowHeight 默认窗口高度
	GameWindowHeight = 640

	// WindowTitle 窗口标题
	WindowTitle = "affirm"

	// TicksPerSecond 逻辑帧率，一帧 = 一次 Update
	TicksPerSecond = 60
)
