package translator

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/protocol"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

// SelectionOptions 选中文本翻译的参数
type SelectionOptions struct {
	SourceLang string
	TargetLang string

	// 单块字符数上限，超长选区按此切块
	ChunkSize int
}

func (o *SelectionOptions) fillDefaults() {
	if o.ChunkSize <= 0 {
		o.ChunkSize = 600
	}
	if o.SourceLang == "" {
		o.SourceLang = "auto"
	}
}

// Selection 选中文本翻译器。与页面任务不同，它没有文档可写回，
// 逐块翻译后把结果拼接返回；单块失败时保留该块原文。
type Selection struct {
	provider providers.Provider
	opts     SelectionOptions
	logger   *zap.Logger
}

// NewSelection 创建选区翻译器
func NewSelection(provider providers.Provider, opts SelectionOptions, logger *zap.Logger) *Selection {
	opts.fillDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Selection{provider: provider, opts: opts, logger: logger}
}

// Translate 翻译一段选中文本
func (s *Selection) Translate(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrNothingToTranslate
	}

	chunks := SplitChunks(text, s.opts.ChunkSize)
	s.logger.Debug("selection translation started",
		zap.Int("chunks", len(chunks)),
		zap.Int("length", len(text)))

	var sb strings.Builder
	for i, chunk := range chunks {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		sb.WriteString(s.translateChunk(ctx, i, chunk))
	}
	return sb.String(), nil
}

func (s *Selection) translateChunk(ctx context.Context, i int, chunk string) string {
	originals := []string{chunk}
	resp, err := s.provider.Translate(ctx, &providers.Request{
		Payload:        protocol.Encode(originals),
		SourceLanguage: s.opts.SourceLang,
		TargetLanguage: s.opts.TargetLang,
	})
	if err != nil {
		s.logger.Warn("selection chunk failed, keeping original",
			zap.Int("chunk", i), zap.Error(err))
		return chunk
	}

	decoded := protocol.Decode(resp.Payload, originals)
	if decoded != nil && decoded[0] != "" {
		return decoded[0]
	}

	// 回复不成形时剥标签兜底，再不行保留原文
	if stripped := protocol.StripTags(resp.Payload); stripped != "" {
		s.logger.Warn("selection chunk reply unparseable, using stripped text",
			zap.Int("chunk", i))
		return stripped
	}
	return chunk
}

// SplitChunks 把文本按 limit 个字符切块，切分点尽量落在软边界上。
// limit 以 rune 计
func SplitChunks(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var chunks []string
	pos := 0
	for pos < len(runes) {
		end := pos + limit
		if end >= len(runes) {
			chunks = append(chunks, string(runes[pos:]))
			break
		}
		cut := softBoundary(runes, pos, end)
		chunks = append(chunks, string(runes[pos:cut]))
		pos = cut
	}
	return chunks
}
