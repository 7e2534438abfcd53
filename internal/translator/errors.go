package translator

import "errors"

// 预定义错误
var (
	// ErrNothingToTranslate 扫描未发现任何可翻译片段，任务立即终止
	ErrNothingToTranslate = errors.New("nothing to translate")

	// ErrPageJobActive 同一时刻只允许一个页面翻译任务
	ErrPageJobActive = errors.New("a page translation job is already running")

	// ErrSelectionActive 选区翻译不可重入
	ErrSelectionActive = errors.New("a selection translation is already running")
)
