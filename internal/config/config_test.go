package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.DefaultProvider)
	assert.Equal(t, "auto", cfg.SourceLang)
	assert.Equal(t, 2000, cfg.BatchMaxChars)
	assert.Equal(t, 10, cfg.BatchMaxItems)
	assert.Equal(t, 500, cfg.BatchIntervalMS)
	assert.Equal(t, 600, cfg.SelectionChunkSize)
	assert.Equal(t, 120, cfg.RequestTimeout)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cfg.yaml")
	content := `
default_provider: ollama
target_lang: ja
batch_max_chars: 800
providers:
  ollama:
    base_url: http://localhost:11434
    model: qwen2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "ollama", cfg.DefaultProvider)
	assert.Equal(t, "ja", cfg.TargetLang)
	assert.Equal(t, 800, cfg.BatchMaxChars)
	// 未覆盖字段保持默认值
	assert.Equal(t, 10, cfg.BatchMaxItems)
	assert.Equal(t, "qwen2", cfg.Provider("ollama").Model)
	// 未单独配置超时的提供商回落到全局默认
	assert.Equal(t, 120, cfg.Provider("ollama").Timeout)
	assert.Equal(t, ProviderConfig{Timeout: 120}, cfg.Provider("missing"))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty target lang", func(c *Config) { c.TargetLang = "" }},
		{"bad target lang", func(c *Config) { c.TargetLang = "no-such-lang-tag!" }},
		{"bad source lang", func(c *Config) { c.SourceLang = "???" }},
		{"zero max chars", func(c *Config) { c.BatchMaxChars = 0 }},
		{"zero max items", func(c *Config) { c.BatchMaxItems = 0 }},
		{"negative interval", func(c *Config) { c.BatchIntervalMS = -1 }},
		{"negative timeout", func(c *Config) { c.RequestTimeout = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				TargetLang:      "zh",
				SourceLang:      "auto",
				BatchMaxChars:   2000,
				BatchMaxItems:   10,
				BatchIntervalMS: 500,
			}
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestGlossaryLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glossary.toml")
	content := `
source_lang = "en"
target_lang = "zh"

[translations]
"Sign in" = "登录"
"  Spaced   phrase " = "折叠"
"empty target" = "  "
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	g, err := LoadGlossary(path)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	got, ok := g.Lookup("Sign in")
	require.True(t, ok)
	assert.Equal(t, "登录", got)

	// 查询侧同样折叠空白
	got, ok = g.Lookup("\nSign   in ")
	require.True(t, ok)
	assert.Equal(t, "登录", got)

	_, ok = g.Lookup("Sign out")
	assert.False(t, ok)

	// 空译文条目在加载时被丢弃
	_, ok = g.Lookup("empty target")
	assert.False(t, ok)

	// nil 字典安全
	var nilG *Glossary
	_, ok = nilG.Lookup("x")
	assert.False(t, ok)
}

func TestLoadGlossaryMissingFile(t *testing.T) {
	_, err := LoadGlossary("/does/not/exist.toml")
	assert.Error(t, err)
}
