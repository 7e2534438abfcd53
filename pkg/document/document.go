package document

// Handle 由文档适配器签发的不透明应用句柄。
// 引擎只持有句柄，从不直接引用文档结构。
type Handle string

// Fragment 一段可独立翻译的文本，扫描之后不可变
type Fragment struct {
	Handle Handle
	Text   string
}

// Group 必须一起结算的最小片段集合，通常对应同一个块级容器。
// 不变式：一个分组永远不会被拆到两个批次里。
type Group struct {
	Fragments []Fragment
}

// CharCount 分组内所有片段的字符总量
func (g Group) CharCount() int {
	total := 0
	for _, f := range g.Fragments {
		total += len(f.Text)
	}
	return total
}

// Adapter 文档适配器接口。Apply 与 RevertAll 都要求幂等。
type Adapter interface {
	// Scan 按文档顺序返回所有可翻译的片段分组
	Scan() ([]Group, error)

	// Apply 把译文写回句柄对应的位置
	Apply(h Handle, text string) error

	// RevertAll 无条件把所有片段恢复为原文
	RevertAll() error
}
