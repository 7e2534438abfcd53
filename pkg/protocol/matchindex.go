package protocol

// matchIndex 规范化原文到批内片段下标的 FIFO 队列。
// 只在一次解码内存活，用于后端不保序时把译文匹配回片段。
// 对完全重复的原文这是启发式分配，不是同一性证明。
type matchIndex map[string][]int

func newMatchIndex(originals []string) matchIndex {
	idx := make(matchIndex, len(originals))
	for i, t := range originals {
		key := Normalize(t)
		idx[key] = append(idx[key], i)
	}
	return idx
}

// take 弹出该原文下一个未匹配的下标
func (m matchIndex) take(key string) (int, bool) {
	queue := m[key]
	if len(queue) == 0 {
		return 0, false
	}
	m[key] = queue[1:]
	return queue[0], true
}
