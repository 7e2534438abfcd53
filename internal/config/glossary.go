package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Glossary 预定义翻译表：完全匹配的片段直接用固定译文，
// 不再发往后端。键在加载时做空白折叠，与解码侧的匹配规则一致。
type Glossary struct {
	SourceLang string
	TargetLang string
	entries    map[string]string
}

type glossaryFile struct {
	SourceLang   string            `toml:"source_lang"`
	TargetLang   string            `toml:"target_lang"`
	Translations map[string]string `toml:"translations"`
}

// NewGlossary 从内存映射构造预定义翻译表
func NewGlossary(sourceLang, targetLang string, translations map[string]string) *Glossary {
	g := &Glossary{
		SourceLang: sourceLang,
		TargetLang: targetLang,
		entries:    make(map[string]string, len(translations)),
	}
	for src, dst := range translations {
		key := normalizeKey(src)
		if key == "" || strings.TrimSpace(dst) == "" {
			continue
		}
		g.entries[key] = dst
	}
	return g
}

// LoadGlossary 从 TOML 文件加载预定义翻译表
func LoadGlossary(path string) (*Glossary, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read glossary file: %w", err)
	}

	var file glossaryFile
	if err := toml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("unmarshal glossary: %w", err)
	}

	return NewGlossary(file.SourceLang, file.TargetLang, file.Translations), nil
}

// Lookup 查找片段的固定译文
func (g *Glossary) Lookup(text string) (string, bool) {
	if g == nil || len(g.entries) == 0 {
		return "", false
	}
	dst, ok := g.entries[normalizeKey(text)]
	return dst, ok
}

// Len 条目数
func (g *Glossary) Len() int {
	if g == nil {
		return 0
	}
	return len(g.entries)
}

// normalizeKey 折叠空白并去首尾，与协议解码的原文规范化保持一致
func normalizeKey(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
