// Package provider 获取要展示的肯定语短语
//
// 提供方是黑盒：给定情绪或上一句与用户选择，返回一句短语。
// 所有错误由调用方记录日志并替换为备用短语，不会中断动画。
package provider

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyPhrase 提供方返回了空短语
	ErrEmptyPhrase = errors.New("provider returned an empty phrase")
	// ErrUnavailable 未配置提供方或提供方不可达
	ErrUnavailable = errors.New("phrase provider unavailable")
)

// Provider 短语提供方
type Provider interface {
	// GetInitialPhrase 根据用户选择的情绪返回第一句短语
	GetInitialPhrase(ctx context.Context, emotion string) (string, error)
	// GetNextPhrase 根据上一句短语与用户选择（可为空）返回下一句
	GetNextPhrase(ctx context.Context, previous, choice string) (string, error)
	// Health 检查提供方是否可用
	Health(ctx context.Context) error
}

// Error 一次失败的提供方调用
type Error struct {
	Op     string // "initial"、"next" 或 "health"
	Status int    // HTTP 状态码，非 HTTP 错误为 0
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
