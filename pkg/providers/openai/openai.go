// Package openai 通过 OpenAI 兼容的 Chat API 翻译批量负载。
// 配置 base_url 后同样适用于 OpenRouter、Azure 网关等兼容端点。
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

// Config OpenAI 配置
type Config struct {
	providers.BaseConfig
	Temperature float32 `json:"temperature"`
	MaxTokens   int     `json:"max_tokens"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	cfg := Config{
		BaseConfig:  providers.DefaultConfig(),
		Temperature: 0.3,
	}
	cfg.Model = openai.GPT3Dot5Turbo
	return cfg
}

// Provider OpenAI 提供商
type Provider struct {
	config Config
	client *openai.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建 OpenAI 提供商
func New(config Config) *Provider {
	cc := openai.DefaultConfig(config.APIKey)
	if config.APIEndpoint != "" {
		cc.BaseURL = config.APIEndpoint
	}
	if config.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: config.Timeout}
	}
	return &Provider{
		config: config,
		client: openai.NewClientWithConfig(cc),
	}
}

// GetName 返回提供商名称
func (p *Provider) GetName() string {
	return "openai"
}

// Translate 把请求负载嵌入对话发送给模型，返回模型的原始回复
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       p.config.Model,
		Temperature: p.config.Temperature,
		MaxTokens:   p.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: providers.SystemPrompt(req.SourceLanguage, req.TargetLanguage),
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: req.Payload,
			},
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, classifyError(err)
	}
	if len(resp.Choices) == 0 {
		return nil, providers.NewError(providers.CodeBadResponse, "chat completion returned no choices")
	}

	return &providers.Response{
		Payload:   resp.Choices[0].Message.Content,
		Model:     resp.Model,
		TokensIn:  resp.Usage.PromptTokens,
		TokensOut: resp.Usage.CompletionTokens,
	}, nil
}

// GetModels 列出端点可用的模型
func (p *Provider) GetModels(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, classifyError(err)
	}
	models := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		models = append(models, m.ID)
	}
	return models, nil
}

// classifyError 把客户端错误映射为提供商错误码
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := providers.CodeServerError
		switch {
		case apiErr.HTTPStatusCode == http.StatusUnauthorized || apiErr.HTTPStatusCode == http.StatusForbidden:
			code = providers.CodeAuth
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			code = providers.CodeRateLimit
		case apiErr.HTTPStatusCode >= 400 && apiErr.HTTPStatusCode < 500:
			code = providers.CodeBadResponse
		}
		return providers.WrapError(code, fmt.Sprintf("openai api: %s", apiErr.Message), err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return providers.WrapError(providers.CodeTimeout, "openai request timed out", err)
	}
	return providers.WrapError(providers.CodeNetwork, err.Error(), err)
}
