package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// HTTPClient 通过 HTTP JSON 接口获取短语
//
//	POST {base}/phrase/initial  {"emotion": "..."}               → {"text": "..."}
//	POST {base}/phrase/next     {"previous": "...", "choice": ""} → {"text": "..."}
//	GET  {base}/health
type HTTPClient struct {
	baseURL string
	client  *http.Client
	group   singleflight.Group
}

type initialRequest struct {
	Emotion string `json:"emotion"`
}

type nextRequest struct {
	Previous string `json:"previous"`
	Choice   string `json:"choice,omitempty"`
}

type phraseResponse struct {
	Text  string `json:"text"`
	Error string `json:"error,omitempty"`
}

// NewHTTPClient 创建 HTTP 提供方，timeout 为单次请求超时
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL 返回提供方地址
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// GetInitialPhrase 实现 Provider
func (c *HTTPClient) GetInitialPhrase(ctx context.Context, emotion string) (string, error) {
	return c.fetch(ctx, "initial", "/phrase/initial", initialRequest{Emotion: emotion})
}

// GetNextPhrase 实现 Provider
func (c *HTTPClient) GetNextPhrase(ctx context.Context, previous, choice string) (string, error) {
	return c.fetch(ctx, "next", "/phrase/next", nextRequest{Previous: previous, Choice: choice})
}

// fetch 发送请求；相同参数的并发请求合并为一次
func (c *HTTPClient) fetch(ctx context.Context, op, path string, body any) (string, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", &Error{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
	}

	v, err, shared := c.group.Do(op+"\x00"+string(jsonData), func() (any, error) {
		return c.post(ctx, op, path, jsonData)
	})
	if shared {
		log.Printf("[Provider] %s 请求与进行中的请求合并", op)
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (c *HTTPClient) post(ctx context.Context, op, path string, jsonData []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return "", &Error{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &Error{Op: op, Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	var parsed phraseResponse
	jsonErr := json.Unmarshal(data, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if jsonErr == nil && parsed.Error != "" {
			msg = parsed.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &Error{Op: op, Status: resp.StatusCode, Err: errors.New(msg)}
	}

	if jsonErr != nil {
		return "", &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("failed to unmarshal response: %w", jsonErr)}
	}
	if strings.TrimSpace(parsed.Text) == "" {
		return "", &Error{Op: op, Status: resp.StatusCode, Err: ErrEmptyPhrase}
	}
	return parsed.Text, nil
}

// Health 实现 Provider
func (c *HTTPClient) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return &Error{Op: "health", Err: err}
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return &Error{Op: "health", Err: fmt.Errorf("%w: %v", ErrUnavailable, err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &Error{Op: "health", Status: resp.StatusCode, Err: ErrUnavailable}
	}
	return nil
}
