// Package providers 定义可互换的翻译后端契约。
// 任务控制器只依赖这里的接口，按配置的提供商名称多态分发。
package providers

import (
	"context"
	"time"
)

// BaseConfig 各提供商共享的基础配置
type BaseConfig struct {
	// API 配置
	APIKey      string `json:"api_key,omitempty"`
	APIEndpoint string `json:"api_endpoint,omitempty"`
	Model       string `json:"model,omitempty"`

	// 超时和重试
	Timeout    time.Duration `json:"timeout"`
	MaxRetries int           `json:"max_retries"`

	// 自定义头部
	Headers map[string]string `json:"headers,omitempty"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() BaseConfig {
	return BaseConfig{
		Timeout:    2 * time.Minute,
		MaxRetries: 3,
		Headers:    make(map[string]string),
	}
}

// Request 一次后端调用的请求。Payload 是编码后的
// <request>...</request> 负载，SourceLanguage 为 "auto"
// 时由后端自行检测源语言。
type Request struct {
	Payload        string `json:"payload"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language"`
}

// Response 后端回复。Payload 理想情况下是
// <response>...</response> 负载，但不做任何保证。
type Response struct {
	Payload   string `json:"payload"`
	Model     string `json:"model,omitempty"`
	TokensIn  int    `json:"tokens_in,omitempty"`
	TokensOut int    `json:"tokens_out,omitempty"`
}

// Provider 翻译后端接口。
// Translate 失败是批粒度的可恢复错误，永远不致命；
// GetModels 尽力而为，失败时按空列表处理，只供配置界面使用。
type Provider interface {
	Translate(ctx context.Context, req *Request) (*Response, error)
	GetModels(ctx context.Context) ([]string, error)
	GetName() string
}

// 错误代码
const (
	CodeNetwork     = "network"
	CodeAuth        = "auth"
	CodeRateLimit   = "rate_limit"
	CodeTimeout     = "timeout"
	CodeServerError = "server_error"
	CodeBadResponse = "bad_response"
)

// Error 提供商错误
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Code != "" {
		return "[" + e.Code + "] " + e.Message
	}
	return e.Message
}

// Unwrap 返回原因错误
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable 判断错误是否可重试
func (e *Error) IsRetryable() bool {
	switch e.Code {
	case CodeNetwork, CodeRateLimit, CodeTimeout, CodeServerError:
		return true
	default:
		return false
	}
}

// NewError 创建提供商错误
func NewError(code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError 创建带原因的提供商错误
func WrapError(code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}
