// Package retry 为基于 net/http 的提供商提供带指数退避的重试客户端。
package retry

import (
	"bytes"
	"errors"
	"io"
	"math"
	"net"
	"net/http"
	"net/url"
	"strings"
	"syscall"
	"time"
)

// Config 重试配置
type Config struct {
	// MaxRetries 首次请求之外的最大重试次数
	MaxRetries int `json:"max_retries"`

	// InitialDelay 初始退避
	InitialDelay time.Duration `json:"initial_delay"`

	// MaxDelay 退避上限
	MaxDelay time.Duration `json:"max_delay"`

	// BackoffFactor 指数退避因子
	BackoffFactor float64 `json:"backoff_factor"`
}

// DefaultConfig 返回默认重试配置
func DefaultConfig() Config {
	return Config{
		MaxRetries:    3,
		InitialDelay:  time.Second,
		MaxDelay:      30 * time.Second,
		BackoffFactor: 2.0,
	}
}

// ErrorType 错误分类
type ErrorType int

const (
	ErrorTypeNone      ErrorType = iota
	ErrorTypeNetwork             // 网络瞬时错误
	ErrorTypeRetryable           // 429 / 5xx
	ErrorTypeClient              // 4xx，不重试
	ErrorTypePermanent           // 其他不可恢复错误
)

// Client 带重试的 HTTP 客户端
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient 创建重试客户端
func NewClient(httpClient *http.Client, config Config) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}
	if config.InitialDelay <= 0 {
		config.InitialDelay = time.Second
	}
	if config.BackoffFactor < 1 {
		config.BackoffFactor = 2.0
	}
	return &Client{httpClient: httpClient, config: config}
}

// Do 执行请求，对网络瞬时错误与 429/5xx 重试。
// 请求体在重试前会被重新构造，因此 body 需以字节切片传入。
// 与 net/http 的约定一致，响应和错误恰好一个非 nil：
// 返回错误时中途留下的错误响应体已在这里关闭，调用方无需处理。
func (c *Client) Do(req *http.Request, body []byte) (*http.Response, error) {
	var lastErr error
	var lastResp *http.Response

	fail := func(err error) (*http.Response, error) {
		if lastResp != nil {
			lastResp.Body.Close()
		}
		return nil, err
	}

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if err := req.Context().Err(); err != nil {
			return fail(err)
		}
		if attempt > 0 {
			delay := c.backoff(attempt)
			select {
			case <-req.Context().Done():
				return fail(req.Context().Err())
			case <-time.After(delay):
			}
		}

		if body != nil {
			req.Body = io.NopCloser(bytes.NewReader(body))
			req.ContentLength = int64(len(body))
		}

		resp, err := c.httpClient.Do(req)
		if err == nil && resp.StatusCode < 400 {
			return resp, nil
		}

		kind := Classify(err, resp)
		lastErr = err
		if resp != nil {
			if lastResp != nil {
				lastResp.Body.Close()
			}
			lastResp = resp
		}
		if kind != ErrorTypeNetwork && kind != ErrorTypeRetryable {
			break
		}
	}

	if lastErr != nil {
		return fail(lastErr)
	}
	return lastResp, nil
}

// backoff 第 attempt 次重试前的等待时间
func (c *Client) backoff(attempt int) time.Duration {
	d := time.Duration(float64(c.config.InitialDelay) * math.Pow(c.config.BackoffFactor, float64(attempt-1)))
	if c.config.MaxDelay > 0 && d > c.config.MaxDelay {
		d = c.config.MaxDelay
	}
	return d
}

// Classify 区分网络错误、可重试 HTTP 错误与不可恢复错误
func Classify(err error, resp *http.Response) ErrorType {
	if err != nil {
		if IsNetworkError(err) {
			return ErrorTypeNetwork
		}
		return ErrorTypePermanent
	}
	if resp != nil {
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return ErrorTypeRetryable
		case resp.StatusCode >= 500:
			return ErrorTypeRetryable
		case resp.StatusCode >= 400:
			return ErrorTypeClient
		}
	}
	return ErrorTypeNone
}

// IsNetworkError 判断是否为瞬时网络错误
func IsNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return IsNetworkError(urlErr.Err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) {
		return true
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"connection refused",
		"connection reset",
		"timeout",
		"temporary failure",
		"network is unreachable",
		"no such host",
		"broken pipe",
		"unexpected eof",
	} {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
