package translator

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-webpage-translator/pkg/document"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

// Manager 任务并发闸门：同一时刻最多一个页面任务、一个选区任务，
// 两类任务互不排斥。新任务在旧任务处于非终态时被拒绝。
type Manager struct {
	logger *zap.Logger

	mu      sync.Mutex
	current *Controller

	selectionActive atomic.Bool
}

// NewManager 创建任务管理器
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{logger: logger}
}

// StartPage 启动页面翻译任务。已有未到终态的页面任务时返回 ErrPageJobActive。
// 任务从 StartPage 起就占用闸门，不等 Run：连续两次 StartPage 第二次必被拒。
func (m *Manager) StartPage(provider providers.Provider, adapter document.Adapter, opts Options, sink StatusSink) (*Controller, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current != nil && !m.current.State().Terminal() {
		return nil, ErrPageJobActive
	}
	m.current = New(provider, adapter, opts, m.logger, sink)
	return m.current, nil
}

// Current 当前页面任务，可能为 nil
func (m *Manager) Current() *Controller {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// CancelPage 取消当前页面任务，没有在跑的任务时是空操作
func (m *Manager) CancelPage() {
	m.mu.Lock()
	c := m.current
	m.mu.Unlock()
	if c != nil && !c.State().Terminal() {
		c.Cancel()
	}
}

// TranslateSelection 执行一次选区翻译。已有选区任务在跑时返回 ErrSelectionActive。
func (m *Manager) TranslateSelection(ctx context.Context, provider providers.Provider, opts SelectionOptions, text string) (string, error) {
	if !m.selectionActive.CompareAndSwap(false, true) {
		return "", ErrSelectionActive
	}
	defer m.selectionActive.Store(false)

	sel := NewSelection(provider, opts, m.logger)
	return sel.Translate(ctx, text)
}
