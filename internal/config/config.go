package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"golang.org/x/text/language"
)

// ProviderConfig 单个提供商的接入配置
type ProviderConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"`     // 秒
	MaxRetries  int     `mapstructure:"max_retries"` // 单批请求的重试次数
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	UseFreeAPI  bool    `mapstructure:"use_free_api"` // 仅 deepl
}

// Config 保存引擎的全部配置
type Config struct {
	DefaultProvider string `mapstructure:"default_provider"`
	SourceLang      string `mapstructure:"source_lang"` // "auto" 表示由后端检测
	TargetLang      string `mapstructure:"target_lang"`

	// 批次上限。软约束：单个分组超限时仍整组成批，不截断。
	BatchMaxChars int `mapstructure:"batch_max_chars"`
	BatchMaxItems int `mapstructure:"batch_max_items"`

	// 批间节流间隔（毫秒），避免打爆后端
	BatchIntervalMS int `mapstructure:"batch_interval_ms"`

	// 选区翻译的软边界切块长度（字符）
	SelectionChunkSize int `mapstructure:"selection_chunk_size"`

	// 单次后端调用的默认超时（秒），提供商未单独配置时生效
	RequestTimeout int `mapstructure:"request_timeout"`

	// 预定义翻译表路径（TOML），可为空
	GlossaryPath string `mapstructure:"glossary_path"`

	Debug bool `mapstructure:"debug"`

	Providers map[string]ProviderConfig `mapstructure:"providers"`
}

// setDefaults 写入全部默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("default_provider", "openai")
	v.SetDefault("source_lang", "auto")
	v.SetDefault("target_lang", "zh")
	v.SetDefault("batch_max_chars", 2000)
	v.SetDefault("batch_max_items", 10)
	v.SetDefault("batch_interval_ms", 500)
	v.SetDefault("selection_chunk_size", 600)
	v.SetDefault("request_timeout", 120)
	v.SetDefault("glossary_path", "")
	v.SetDefault("debug", false)
}

// LoadConfig 从文件加载配置。
// configPath 为空时依次查找 ./webtranslator.yaml 和
// ~/.config/webtranslator/webtranslator.yaml；文件缺失不报错，
// 全部字段退回默认值。环境变量前缀 WEBTRANSLATOR_。
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("webtranslator")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "webtranslator"))
		}
	}

	v.SetEnvPrefix("WEBTRANSLATOR")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if configPath != "" {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.TargetLang == "" {
		return fmt.Errorf("target_lang is required")
	}
	if _, err := language.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("invalid target_lang %q: %w", c.TargetLang, err)
	}
	if c.SourceLang != "" && c.SourceLang != "auto" {
		if _, err := language.Parse(c.SourceLang); err != nil {
			return fmt.Errorf("invalid source_lang %q: %w", c.SourceLang, err)
		}
	}
	if c.BatchMaxChars <= 0 {
		return fmt.Errorf("batch_max_chars must be positive, got %d", c.BatchMaxChars)
	}
	if c.BatchMaxItems <= 0 {
		return fmt.Errorf("batch_max_items must be positive, got %d", c.BatchMaxItems)
	}
	if c.BatchIntervalMS < 0 {
		return fmt.Errorf("batch_interval_ms must not be negative, got %d", c.BatchIntervalMS)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative, got %d", c.RequestTimeout)
	}
	return nil
}

// Provider 取某提供商的配置，未单独配置超时的回落到全局默认
func (c *Config) Provider(name string) ProviderConfig {
	pc := ProviderConfig{}
	if c.Providers != nil {
		pc = c.Providers[name]
	}
	if pc.Timeout == 0 {
		pc.Timeout = c.RequestTimeout
	}
	return pc
}
