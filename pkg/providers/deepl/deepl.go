// Package deepl 通过 DeepL v2 API 翻译批量负载。
// 以 tag_handling=xml 发送，DeepL 会保留 <item> 边界，
// 解码侧再按原文回显的缺省规则匹配（DeepL 不回显原文，
// 由调用方依赖顺序保留的 XML 结构重建，见 Translate 注释）。
package deepl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/protocol"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/retry"
)

// Config DeepL 配置
type Config struct {
	providers.BaseConfig
	UseFreeAPI bool `json:"use_free_api"` // 是否使用免费 API
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	cfg := Config{BaseConfig: providers.DefaultConfig()}
	cfg.APIEndpoint = "https://api.deepl.com/v2"
	return cfg
}

// Provider DeepL 提供商
type Provider struct {
	config Config
	client *retry.Client
}

var _ providers.Provider = (*Provider)(nil)

// New 创建 DeepL 提供商
func New(config Config) *Provider {
	if config.APIEndpoint == "" {
		if config.UseFreeAPI {
			config.APIEndpoint = "https://api-free.deepl.com/v2"
		} else {
			config.APIEndpoint = "https://api.deepl.com/v2"
		}
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
	return "deepl"
}

type translateResponse struct {
	Translations []struct {
		Text string `json:"text"`
	} `json:"translations"`
}

// Translate 以 XML 标签处理模式提交请求负载。
// DeepL 不是 LLM，不会按提示词回显原文，所以这里在拿到
// 译文负载后自行补全 <original> 字段：tag_handling=xml 保证
// <item> 顺序与请求一致，按位置回填原文即可复用统一的解码路径。
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	form := url.Values{}
	form.Set("text", req.Payload)
	form.Set("target_lang", strings.ToUpper(req.TargetLanguage))
	if req.SourceLanguage != "" && req.SourceLanguage != "auto" {
		form.Set("source_lang", strings.ToUpper(req.SourceLanguage))
	}
	form.Set("tag_handling", "xml")
	body := []byte(form.Encode())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(p.config.APIEndpoint, "/")+"/translate", nil)
	if err != nil {
		return nil, fmt.Errorf("build translate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("Authorization", "DeepL-Auth-Key "+p.config.APIKey)

	resp, err := p.client.Do(httpReq, body)
	if err != nil {
		return nil, providers.WrapError(providers.CodeNetwork, "deepl request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		code := providers.CodeServerError
		switch resp.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized:
			code = providers.CodeAuth
		case http.StatusTooManyRequests:
			code = providers.CodeRateLimit
		}
		return nil, providers.NewError(code,
			fmt.Sprintf("deepl returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data))))
	}

	var tr translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, providers.WrapError(providers.CodeBadResponse, "decode deepl response", err)
	}
	if len(tr.Translations) == 0 {
		return nil, providers.NewError(providers.CodeBadResponse, "deepl returned no translations")
	}

	originals := protocol.DecodeRequest(req.Payload)
	translated := protocol.DecodeRequest(tr.Translations[0].Text)
	payload := protocol.EncodeResponse(originals, translated)

	return &providers.Response{Payload: payload}, nil
}

// GetModels DeepL 不是基于模型的服务，返回空列表
func (p *Provider) GetModels(ctx context.Context) ([]string, error) {
	return nil, nil
}
