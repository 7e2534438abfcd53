package translator

import (
	"strings"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/protocol"
)

// distributeReply 降级分配：剥掉协议标签后把回复文本近似均分成 n 份。
// 切分点优先选软边界：换行 > 句末标点 > 空格，都找不到才硬切。
// 返回切片长度恒为 n，不足的槽位为空串。
func distributeReply(reply string, n int) []string {
	out := make([]string, n)
	if n <= 0 {
		return out
	}

	text := protocol.StripTags(reply)
	if text == "" {
		return out
	}

	runes := []rune(text)
	per := (len(runes) + n - 1) / n

	pos := 0
	for i := 0; i < n && pos < len(runes); i++ {
		end := pos + per
		if end >= len(runes) || i == n-1 {
			out[i] = strings.TrimSpace(string(runes[pos:]))
			pos = len(runes)
			continue
		}
		cut := softBoundary(runes, pos, end)
		out[i] = strings.TrimSpace(string(runes[pos:cut]))
		pos = cut
	}
	return out
}

// softBoundary 在 [lo, hi] 附近找最好的切分点，返回切分位置（不含）。
// 从 hi 往回扫最多半个窗口，按换行、句末标点、空格的优先级取最近的。
func softBoundary(runes []rune, lo, hi int) int {
	limit := lo + (hi-lo)/2
	newline, punct, space := -1, -1, -1
	for i := hi; i > limit; i-- {
		switch runes[i-1] {
		case '\n':
			if newline < 0 {
				newline = i
			}
		case '.', '!', '?', '。', '！', '？':
			if punct < 0 {
				punct = i
			}
		case ' ', '\t':
			if space < 0 {
				space = i
			}
		}
		if newline >= 0 {
			break
		}
	}
	switch {
	case newline >= 0:
		return newline
	case punct >= 0:
		return punct
	case space >= 0:
		return space
	default:
		return hi
	}
}
