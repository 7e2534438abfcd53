// Package batch 把扫描得到的片段分组装配成大小受限的批次，
// 以尽量少的后端调用完成翻译。
package batch

import "github.com/nerdneilsfield/go-webpage-translator/pkg/document"

// Batch 一次后端调用的单位，由若干完整分组构成。
// Fragments 为展平后的片段，GroupOf[i] 记录 Fragments[i]
// 所属分组在扫描序中的下标。
type Batch struct {
	Fragments []document.Fragment
	GroupOf   []int
	Chars     int
}

// Texts 批内所有片段的原文，顺序与 Fragments 一致
func (b *Batch) Texts() []string {
	texts := make([]string, len(b.Fragments))
	for i, f := range b.Fragments {
		texts[i] = f.Text
	}
	return texts
}

// GroupIndexes 批内包含的分组下标，按出现顺序去重
func (b *Batch) GroupIndexes() []int {
	var out []int
	seen := make(map[int]bool)
	for _, gi := range b.GroupOf {
		if !seen[gi] {
			seen[gi] = true
			out = append(out, gi)
		}
	}
	return out
}

// Build 按扫描顺序把分组装配成批次。
// 若加入某个分组会超出 maxChars、或让片段数越过 maxItems，
// 先关闭当前非空批次；随后无论该分组自身是否超限都整组并入
// （上限是软约束，永远不会用来截断分组）。
// 输出只由输入顺序和两个上限决定，分组之间不重排。
func Build(groups []document.Group, maxChars, maxItems int) []Batch {
	var batches []Batch
	var cur Batch

	for gi, g := range groups {
		if len(g.Fragments) == 0 {
			continue
		}
		chars := g.CharCount()
		if len(cur.Fragments) > 0 &&
			(cur.Chars+chars > maxChars || len(cur.Fragments)+len(g.Fragments) > maxItems) {
			batches = append(batches, cur)
			cur = Batch{}
		}
		for _, f := range g.Fragments {
			cur.Fragments = append(cur.Fragments, f)
			cur.GroupOf = append(cur.GroupOf, gi)
		}
		cur.Chars += chars
	}

	if len(cur.Fragments) > 0 {
		batches = append(batches, cur)
	}
	return batches
}
