//go:build !mobile

// 非移动端构建只保留导出符号，让 `go build ./...` 在桌面端也能通过
package mobile

// Dummy 供 ebitenmobile 识别包
func Dummy() {}
