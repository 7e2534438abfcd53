// Package factory 按名字构造翻译提供商。
package factory

import (
	"fmt"
	"strings"
	"time"

	"github.com/nerdneilsfield/go-webpage-translator/internal/config"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/deepl"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/ollama"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/openai"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/raw"
)

// CreateProvider 根据配置创建提供商
func CreateProvider(name string, pc config.ProviderConfig) (providers.Provider, error) {
	switch strings.ToLower(name) {
	case "openai":
		return createOpenAIProvider(pc), nil
	case "ollama":
		return createOllamaProvider(pc), nil
	case "deepl":
		return createDeepLProvider(pc), nil
	case "raw", "none":
		return raw.New(), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s (supported: %s)",
			name, strings.Join(SupportedProviders(), ", "))
	}
}

// BuildRegistry 构造配置中声明的全部提供商并注册到注册表，
// extra 列出配置之外也要可用的名字（如预演用的 raw），重复名字跳过。
func BuildRegistry(cfg *config.Config, extra ...string) (*providers.Registry, error) {
	reg := providers.NewRegistry()
	for name := range cfg.Providers {
		p, err := CreateProvider(name, cfg.Provider(name))
		if err != nil {
			return nil, fmt.Errorf("build provider %s: %w", name, err)
		}
		if err := reg.Register(name, p); err != nil {
			return nil, err
		}
	}
	for _, name := range extra {
		if _, err := reg.Get(name); err == nil {
			continue
		}
		p, err := CreateProvider(name, cfg.Provider(name))
		if err != nil {
			return nil, fmt.Errorf("build provider %s: %w", name, err)
		}
		if err := reg.Register(name, p); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// SupportedProviders 支持的提供商名字列表
func SupportedProviders() []string {
	return []string{"openai", "ollama", "deepl", "raw"}
}

func createOpenAIProvider(pc config.ProviderConfig) *openai.Provider {
	cfg := openai.DefaultConfig()
	cfg.APIKey = pc.APIKey
	applyBase(&cfg.BaseConfig, pc)
	if pc.Model != "" {
		cfg.Model = pc.Model
	}
	if pc.Temperature > 0 {
		cfg.Temperature = float32(pc.Temperature)
	}
	if pc.MaxTokens > 0 {
		cfg.MaxTokens = pc.MaxTokens
	}
	return openai.New(cfg)
}

func createOllamaProvider(pc config.ProviderConfig) *ollama.Provider {
	cfg := ollama.DefaultConfig()
	applyBase(&cfg.BaseConfig, pc)
	if pc.Model != "" {
		cfg.Model = pc.Model
	}
	if pc.Temperature > 0 {
		cfg.Temperature = pc.Temperature
	}
	return ollama.New(cfg)
}

func createDeepLProvider(pc config.ProviderConfig) *deepl.Provider {
	cfg := deepl.DefaultConfig()
	cfg.APIKey = pc.APIKey
	cfg.UseFreeAPI = pc.UseFreeAPI
	if pc.UseFreeAPI && pc.BaseURL == "" {
		cfg.APIEndpoint = ""
	}
	applyBase(&cfg.BaseConfig, pc)
	return deepl.New(cfg)
}

func applyBase(base *providers.BaseConfig, pc config.ProviderConfig) {
	if pc.BaseURL != "" {
		base.APIEndpoint = pc.BaseURL
	}
	if pc.Timeout > 0 {
		base.Timeout = time.Duration(pc.Timeout) * time.Second
	}
	if pc.MaxRetries > 0 {
		base.MaxRetries = pc.MaxRetries
	}
}
