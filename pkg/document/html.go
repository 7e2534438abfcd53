package document

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// skipTags 整棵子树都不参与翻译的标签
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"pre":      true,
	"code":     true,
	"textarea": true,
	"svg":      true,
	"math":     true,
	"iframe":   true,
	"head":     true,
}

// blockTags 视为分组边界的块级标签
var blockTags = map[string]bool{
	"p":          true,
	"h1":         true,
	"h2":         true,
	"h3":         true,
	"h4":         true,
	"h5":         true,
	"h6":         true,
	"li":         true,
	"dt":         true,
	"dd":         true,
	"td":         true,
	"th":         true,
	"caption":    true,
	"figcaption": true,
	"blockquote": true,
	"div":        true,
	"section":    true,
	"article":    true,
	"aside":      true,
	"header":     true,
	"footer":     true,
	"main":       true,
	"nav":        true,
	"summary":    true,
	"tr":         true,
	"table":      true,
	"ul":         true,
	"ol":         true,
	"body":       true,
}

// fragmentRecord 句柄背后的文本节点与原文
type fragmentRecord struct {
	node     *html.Node
	original string
}

// HTMLDocument 基于 goquery 的文档适配器实现。
// 扫描时为每个文本节点签发句柄，句柄到节点的映射保存在 arena 中，
// 原文一并记录，RevertAll 据此恢复。
type HTMLDocument struct {
	doc    *goquery.Document
	arena  map[Handle]*fragmentRecord
	ids    map[*html.Node]Handle
	nextID int
}

var _ Adapter = (*HTMLDocument)(nil)

// ParseHTML 解析 HTML 文档并构建适配器
func ParseHTML(r io.Reader) (*HTMLDocument, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &HTMLDocument{
		doc:   doc,
		arena: make(map[Handle]*fragmentRecord),
		ids:   make(map[*html.Node]Handle),
	}, nil
}

// Scan 按文档顺序收集片段分组。
// 块级标签关闭当前分组，行内标签（a、span、b 等）内的文本并入所在块的分组。
func (d *HTMLDocument) Scan() ([]Group, error) {
	if d.doc == nil {
		return nil, fmt.Errorf("document not parsed")
	}

	var groups []Group
	var current []Fragment

	flush := func() {
		if len(current) > 0 {
			groups = append(groups, Group{Fragments: current})
			current = nil
		}
	}

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if strings.TrimSpace(n.Data) == "" {
				return
			}
			current = append(current, Fragment{Handle: d.register(n), Text: n.Data})
		case html.ElementNode, html.DocumentNode:
			if n.Type == html.ElementNode && skipTags[n.Data] {
				return
			}
			isBlock := n.Type == html.ElementNode && blockTags[n.Data]
			if isBlock {
				flush()
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c)
			}
			if isBlock {
				flush()
			}
		}
	}

	for _, root := range d.doc.Nodes {
		walk(root)
	}
	flush()

	return groups, nil
}

// Apply 把译文写入句柄对应的文本节点
func (d *HTMLDocument) Apply(h Handle, text string) error {
	rec, ok := d.arena[h]
	if !ok {
		return fmt.Errorf("unknown fragment handle %q", h)
	}
	rec.node.Data = text
	return nil
}

// RevertAll 把所有已登记的文本节点恢复为扫描时的原文
func (d *HTMLDocument) RevertAll() error {
	for _, rec := range d.arena {
		rec.node.Data = rec.original
	}
	return nil
}

// HTML 序列化当前文档
func (d *HTMLDocument) HTML() (string, error) {
	return d.doc.Html()
}

// Text 返回句柄当前指向的文本，测试与诊断用
func (d *HTMLDocument) Text(h Handle) (string, bool) {
	rec, ok := d.arena[h]
	if !ok {
		return "", false
	}
	return rec.node.Data, true
}

// register 为文本节点签发句柄，重复扫描同一节点返回同一句柄
func (d *HTMLDocument) register(n *html.Node) Handle {
	if h, ok := d.ids[n]; ok {
		return h
	}
	d.nextID++
	h := Handle(fmt.Sprintf("f%d", d.nextID))
	d.ids[n] = h
	d.arena[h] = &fragmentRecord{node: n, original: n.Data}
	return h
}
