package translator

import (
	"fmt"
	"time"
)

// State 任务状态机：Idle → Scanning → Running →
// {Completed, CompletedWithErrors, Cancelled}；
// 扫描失败或无可翻译内容进入 Failed。
// Idle 表示任务已创建但还未到终态，单飞闸门据此拒绝新任务。
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateRunning
	StateCompleted
	StateCompletedWithErrors
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCompletedWithErrors:
		return "completed_with_errors"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Terminal 是否为终态
func (s State) Terminal() bool {
	switch s {
	case StateCompleted, StateCompletedWithErrors, StateCancelled, StateFailed:
		return true
	default:
		return false
	}
}

// GroupState 分组的结算状态。
// 分组在其全部成员片段都已解决（译出、保留原文或出错）时结算。
type GroupState int

const (
	GroupPending GroupState = iota
	GroupLoading
	GroupSettled
)

// BatchError 单个批次失败的聚合记录，带分组下标便于诊断
type BatchError struct {
	Batch        int
	GroupIndexes []int
	Err          error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch %d (groups %v): %v", e.Batch, e.GroupIndexes, e.Err)
}

// Unwrap 返回底层错误
func (e *BatchError) Unwrap() error {
	return e.Err
}

// Summary 任务终态汇总，错误只在这里集中上报一次
type Summary struct {
	JobID          string
	State          State
	TotalFragments int
	TotalBatches   int

	// Translated 成功写回译文的片段数
	Translated int

	// Errored 失败的批次数
	Errored int

	// FallbackBatches 走了降级均分路径的批次数
	FallbackBatches int

	Errors   []BatchError
	Duration time.Duration
}

// Progress 运行中的进度快照
type Progress struct {
	State       State
	BatchesDone int
	BatchesAll  int
	Translated  int
	Errored     int
}

// StatusSink 接收任务的状态变化。实现不得阻塞。
type StatusSink interface {
	JobStarted(jobID string, totalBatches, totalFragments int)
	BatchFinished(p Progress)
	JobFinished(s *Summary)
}

// NopSink 丢弃所有状态通知
type NopSink struct{}

func (NopSink) JobStarted(string, int, int) {}
func (NopSink) BatchFinished(Progress)      {}
func (NopSink) JobFinished(*Summary)        {}
