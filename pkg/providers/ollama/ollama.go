// Package ollama 通过本地 Ollama 的 chat API 翻译批量负载。
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/retry"
)

const defaultEndpoint = "http://localhost:11434"

// Config Ollama 配置
type Config struct {
	providers.BaseConfig
	Temperature float64 `json:"temperature"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	cfg := Config{
		BaseConfig:  providers.DefaultConfig(),
		Temperature: 0.3,
	}
	cfg.APIEndpoint = defaultEndpoint
	cfg.Model = "llama3"
	// 本地推理可能很慢
	cfg.Timeout = 5 * time.Minute
	return cfg
}

// Provider Ollama 提供商
type Provider struct {
	config Config
	client *retry.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建 Ollama 提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		config.APIEndpoint = defaultEndpoint
	}
	retryCfg := retry.DefaultConfig()
	if config.MaxRetries > 0 {
		retryCfg.MaxRetries = config.MaxRetries
	}
	return &Provider{
		config: config,
		client: retry.NewClient(&http.Client{Timeout: config.Timeout}, retryCfg),
	}
}

// GetName 返回提供商名称
func (p *Provider) GetName() string {
	return "ollama"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []chatMessage  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Model   string      `json:"model"`
	Message chatMessage `json:"message"`
}

// Translate 把请求负载嵌入对话发送给本地模型
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	body, err := json.Marshal(chatRequest{
		Model: p.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: providers.SystemPrompt(req.SourceLanguage, req.TargetLanguage)},
			{Role: "user", Content: req.Payload},
		},
		Stream:  false,
		Options: map[string]any{"temperature": p.config.Temperature},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.config.APIEndpoint, "/")+"/api/chat", nil)
	if err != nil {
		return nil, fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq, body)
	if err != nil {
		return nil, providers.WrapError(providers.CodeNetwork, "ollama chat request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		code := providers.CodeServerError
		if resp.StatusCode == http.StatusNotFound {
			code = providers.CodeBadResponse
		}
		return nil, providers.NewError(code,
			fmt.Sprintf("ollama chat returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var chat chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chat); err != nil {
		return nil, providers.WrapError(providers.CodeBadResponse, "decode ollama response", err)
	}

	return &providers.Response{
		Payload: chat.Message.Content,
		Model:   chat.Model,
	}, nil
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// GetModels 列出本地已拉取的模型
func (p *Provider) GetModels(ctx context.Context) ([]string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		strings.TrimRight(p.config.APIEndpoint, "/")+"/api/tags", nil)
	if err != nil {
		return nil, fmt.Errorf("build tags request: %w", err)
	}

	resp, err := p.client.Do(httpReq, nil)
	if err != nil {
		return nil, providers.WrapError(providers.CodeNetwork, "ollama tags request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, providers.NewError(providers.CodeServerError,
			fmt.Sprintf("ollama tags returned %d", resp.StatusCode))
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, providers.WrapError(providers.CodeBadResponse, "decode ollama tags", err)
	}
	models := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		models = append(models, m.Name)
	}
	return models, nil
}
