package provider

import (
	"context"
	"sync"
)

// StaticProvider 未配置 HTTP 提供方时使用，按顺序循环返回内置短语
type StaticProvider struct {
	mu      sync.Mutex
	phrases []string
	next    int
}

// NewStaticProvider 创建静态提供方；phrases 为空时所有调用返回 ErrUnavailable
func NewStaticProvider(phrases []string) *StaticProvider {
	return &StaticProvider{phrases: append([]string(nil), phrases...)}
}

func (p *StaticProvider) take(op string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.phrases) == 0 {
		return "", &Error{Op: op, Err: ErrUnavailable}
	}
	s := p.phrases[p.next%len(p.phrases)]
	p.next++
	return s, nil
}

// GetInitialPhrase 实现 Provider
func (p *StaticProvider) GetInitialPhrase(ctx context.Context, emotion string) (string, error) {
	return p.take("initial")
}

// GetNextPhrase 实现 Provider
func (p *StaticProvider) GetNextPhrase(ctx context.Context, previous, choice string) (string, error) {
	return p.take("next")
}

// Health 实现 Provider
func (p *StaticProvider) Health(ctx context.Context) error {
	if len(p.phrases) == 0 {
		return &Error{Op: "health", Err: ErrUnavailable}
	}
	return nil
}
