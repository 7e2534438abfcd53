// Package protocol 实现批量翻译的线格式编解码。
//
// 请求与响应都是标签分隔的文本：
//
//	<request><item>ESCAPED_TEXT</item>...</request>
//	<response><item><original>E</original><translated>E</translated></item>...</response>
//
// 片段内部的空白和换行属于负载内容，原样透传；只有 & < > " '
// 在编码时实体转义、解码时还原。
package protocol

import (
	"strings"

	"github.com/dlclark/regexp2"
)

var (
	escaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	unescaper = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&amp;", "&",
	)
)

// 响应容器。回复里常混有多余空白甚至完全缺失标签，
// 用 (?s) 惰性匹配逐个提取，解析不到就交给调用方降级。
var (
	responseItemPattern = regexp2.MustCompile(
		`(?s)<item>\s*<original>(.*?)</original>\s*<translated>(.*?)</translated>\s*</item>`, 0)
	requestItemPattern = regexp2.MustCompile(`(?s)<item>(.*?)</item>`, 0)
	tagPattern         = regexp2.MustCompile(`</?(?:request|response|item|original|translated)>`, 0)
)

// Escape 实体转义结构性字符
func Escape(s string) string {
	return escaper.Replace(s)
}

// Unescape Escape 的逆操作
func Unescape(s string) string {
	return unescaper.Replace(s)
}

// Normalize 折叠空白并去掉首尾空白，用于解码时的原文匹配
func Normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Encode 把待译片段编码为请求负载
func Encode(texts []string) string {
	var b strings.Builder
	b.WriteString("<request>")
	for _, t := range texts {
		b.WriteString("<item>")
		b.WriteString(Escape(t))
		b.WriteString("</item>")
	}
	b.WriteString("</request>")
	return b.String()
}

// EncodeResponse 构造响应负载，originals 与 translations 一一对应。
// raw 提供商和测试用它伪造后端回复。
func EncodeResponse(originals, translations []string) string {
	var b strings.Builder
	b.WriteString("<response>")
	for i, o := range originals {
		t := ""
		if i < len(translations) {
			t = translations[i]
		}
		b.WriteString("<item><original>")
		b.WriteString(Escape(o))
		b.WriteString("</original><translated>")
		b.WriteString(Escape(t))
		b.WriteString("</translated></item>")
	}
	b.WriteString("</response>")
	return b.String()
}

// DecodeRequest 从请求负载中取出各片段原文
func DecodeRequest(payload string) []string {
	var items []string
	m, _ := requestItemPattern.FindStringMatch(payload)
	for m != nil {
		items = append(items, Unescape(m.Groups()[1].String()))
		m, _ = requestItemPattern.FindNextMatch(m)
	}
	return items
}

// Decode 把后端回复匹配回各片段。
//
// 逐个解析 <item> 容器：还原两个字段；原文为空的容器按噪声跳过；
// 用规范化后的原文在 MatchIndex 里弹出下一个待匹配下标（FIFO，
// 重复原文按首见顺序尽力分配，无法保证严格同一）；译文非空才记录，
// 空白译文不算错误，槽位留空表示保留原文。
//
// 整个回复里找不到任何成形的容器时返回 nil，调用方据此走降级路径；
// 否则返回与 originals 等长的切片，空串表示未解析到译文。
func Decode(reply string, originals []string) []string {
	index := newMatchIndex(originals)
	containers := 0
	out := make([]string, len(originals))

	m, _ := responseItemPattern.FindStringMatch(reply)
	for m != nil {
		containers++
		groups := m.Groups()
		original := Unescape(groups[1].String())
		translated := Unescape(groups[2].String())

		if strings.TrimSpace(original) != "" {
			if i, ok := index.take(Normalize(original)); ok {
				if strings.TrimSpace(translated) != "" {
					out[i] = translated
				}
			}
		}
		m, _ = responseItemPattern.FindNextMatch(m)
	}

	if containers == 0 {
		return nil
	}
	return out
}

// StripTags 去掉协议标签并还原转义，降级路径用来清洗原始回复
func StripTags(reply string) string {
	cleaned, err := tagPattern.Replace(reply, "", -1, -1)
	if err != nil {
		cleaned = reply
	}
	return strings.TrimSpace(Unescape(cleaned))
}
