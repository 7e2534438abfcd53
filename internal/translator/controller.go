package translator

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-webpage-translator/internal/config"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/batch"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/document"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/protocol"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
)

// Options 一次页面翻译任务的运行参数
type Options struct {
	SourceLang string
	TargetLang string

	// 批次软上限
	MaxChars int
	MaxItems int

	// 批与批之间的节流间隔
	BatchInterval time.Duration

	// 预定义翻译表，可为 nil
	Glossary *config.Glossary
}

func (o *Options) fillDefaults() {
	if o.MaxChars <= 0 {
		o.MaxChars = 2000
	}
	if o.MaxItems <= 0 {
		o.MaxItems = 10
	}
	if o.SourceLang == "" {
		o.SourceLang = "auto"
	}
}

// Controller 页面翻译任务的控制器。
// 批次严格串行处理，挂起点只有后端调用和节流等待；
// 取消是协作式的：Cancel 置位后立即整页回滚，
// 在途批次的结果到达时直接丢弃，不会写回文档。
type Controller struct {
	id       string
	opts     Options
	provider providers.Provider
	adapter  document.Adapter
	logger   *zap.Logger
	sink     StatusSink

	state     atomic.Int32
	cancelled atomic.Bool

	// 以下字段只在 Run 所在的 goroutine 里写
	groupStates []GroupState
	pending     []int
}

// New 创建任务控制器
func New(provider providers.Provider, adapter document.Adapter, opts Options, logger *zap.Logger, sink StatusSink) *Controller {
	opts.fillDefaults()
	if logger == nil {
		logger = zap.NewNop()
	}
	if sink == nil {
		sink = NopSink{}
	}
	c := &Controller{
		id:       uuid.NewString(),
		opts:     opts,
		provider: provider,
		adapter:  adapter,
		sink:     sink,
	}
	c.logger = logger.With(zap.String("jobID", c.id))
	c.state.Store(int32(StateIdle))
	return c
}

// ID 任务标识
func (c *Controller) ID() string {
	return c.id
}

// State 当前状态
func (c *Controller) State() State {
	return State(c.state.Load())
}

func (c *Controller) setState(s State) {
	c.state.Store(int32(s))
}

// Cancel 协作式取消：置位标志并立即整页回滚。
// 不等待在途批次；其结果到达后会在应用前被丢弃。
// 尚未进入 Run 的任务直接落入 Cancelled 终态，不再占用闸门。
func (c *Controller) Cancel() {
	if c.cancelled.CompareAndSwap(false, true) {
		c.state.CompareAndSwap(int32(StateIdle), int32(StateCancelled))
		c.logger.Info("job cancelled, reverting document")
		if err := c.adapter.RevertAll(); err != nil {
			c.logger.Warn("revert after cancel failed", zap.Error(err))
		}
	}
}

// GroupStates 分组结算状态的快照，诊断与测试用
func (c *Controller) GroupStates() []GroupState {
	out := make([]GroupState, len(c.groupStates))
	copy(out, c.groupStates)
	return out
}

// Run 执行任务直到终态。所有批粒度错误聚合在 Summary 里一次性上报，
// 只有扫描失败和"无可翻译内容"会让任务直接出错返回。
func (c *Controller) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	c.setState(StateScanning)
	groups, err := c.adapter.Scan()
	if err != nil {
		c.setState(StateFailed)
		return nil, err
	}

	totalFragments := 0
	for _, g := range groups {
		totalFragments += len(g.Fragments)
	}
	if totalFragments == 0 {
		c.setState(StateFailed)
		return nil, ErrNothingToTranslate
	}

	batches := batch.Build(groups, c.opts.MaxChars, c.opts.MaxItems)
	c.groupStates = make([]GroupState, len(groups))
	c.pending = make([]int, len(groups))
	for i, g := range groups {
		c.pending[i] = len(g.Fragments)
	}

	c.setState(StateRunning)
	c.sink.JobStarted(c.id, len(batches), totalFragments)
	c.logger.Info("translation job started",
		zap.Int("groups", len(groups)),
		zap.Int("fragments", totalFragments),
		zap.Int("batches", len(batches)),
		zap.String("provider", c.provider.GetName()),
		zap.String("targetLang", c.opts.TargetLang))

	summary := &Summary{
		JobID:          c.id,
		TotalFragments: totalFragments,
		TotalBatches:   len(batches),
	}

	for bi := range batches {
		if c.cancelled.Load() {
			break
		}
		if ctx.Err() != nil {
			c.Cancel()
			break
		}

		c.runBatch(ctx, bi, &batches[bi], summary)
		if c.cancelled.Load() {
			break
		}

		c.sink.BatchFinished(Progress{
			State:       StateRunning,
			BatchesDone: bi + 1,
			BatchesAll:  len(batches),
			Translated:  summary.Translated,
			Errored:     summary.Errored,
		})

		// 批间节流，别把后端打爆
		if bi < len(batches)-1 && c.opts.BatchInterval > 0 {
			select {
			case <-ctx.Done():
				c.Cancel()
			case <-time.After(c.opts.BatchInterval):
			}
		}
	}

	switch {
	case c.cancelled.Load():
		c.setState(StateCancelled)
	case summary.Errored > 0:
		c.setState(StateCompletedWithErrors)
	default:
		c.setState(StateCompleted)
	}
	summary.State = c.State()
	summary.Duration = time.Since(start)

	c.sink.JobFinished(summary)
	c.logger.Info("translation job finished",
		zap.String("state", summary.State.String()),
		zap.Int("translated", summary.Translated),
		zap.Int("erroredBatches", summary.Errored),
		zap.Int("fallbackBatches", summary.FallbackBatches),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

// runBatch 处理一个批次：词表预解析、编码、后端调用、解码匹配、写回。
// 后端失败记为批错误并把片段按保留原文解决，保证分组照常结算。
func (c *Controller) runBatch(ctx context.Context, bi int, b *batch.Batch, summary *Summary) {
	for _, gi := range b.GroupIndexes() {
		c.groupStates[gi] = GroupLoading
	}

	texts := b.Texts()

	// 词表命中的片段不发往后端
	pre := make(map[int]string)
	var callIdx []int
	var callTexts []string
	for i, t := range texts {
		if dst, ok := c.opts.Glossary.Lookup(t); ok {
			pre[i] = dst
			continue
		}
		callIdx = append(callIdx, i)
		callTexts = append(callTexts, t)
	}

	results := make([]string, len(texts))
	var callErr error

	if len(callTexts) > 0 {
		payload := protocol.Encode(callTexts)
		resp, err := c.provider.Translate(ctx, &providers.Request{
			Payload:        payload,
			SourceLanguage: c.opts.SourceLang,
			TargetLanguage: c.opts.TargetLang,
		})

		// 应用任何结果之前先看取消标志；迟到的结果直接丢弃
		if c.cancelled.Load() {
			return
		}
		if err != nil && ctx.Err() != nil {
			c.Cancel()
			return
		}

		if err != nil {
			callErr = err
		} else {
			decoded := protocol.Decode(resp.Payload, callTexts)
			if decoded == nil {
				// 降级路径：回复里一个成形条目都没有，
				// 把清洗后的原始回复近似均分，总比整批丢掉强
				c.logger.Warn("no parseable items in reply, falling back to even split",
					zap.Int("batch", bi),
					zap.Int("replyLength", len(resp.Payload)))
				decoded = distributeReply(resp.Payload, len(callTexts))
				summary.FallbackBatches++
			}
			for i, idx := range callIdx {
				results[idx] = decoded[i]
			}
		}
	}

	if c.cancelled.Load() {
		return
	}

	if callErr != nil {
		be := BatchError{Batch: bi, GroupIndexes: b.GroupIndexes(), Err: callErr}
		summary.Errors = append(summary.Errors, be)
		summary.Errored++
		c.logger.Warn("batch translation failed, keeping original text",
			zap.Int("batch", bi),
			zap.Ints("groups", be.GroupIndexes),
			zap.Error(callErr))
	}

	for i := range texts {
		out := results[i]
		if dst, ok := pre[i]; ok {
			out = dst
		}
		if strings.TrimSpace(out) != "" {
			if dist, suspect := echoSuspect(texts[i], out); suspect {
				c.logger.Warn("translation nearly identical to original",
					zap.Int("batch", bi),
					zap.Int("distance", dist),
					zap.String("handle", string(b.Fragments[i].Handle)))
			}
			if err := c.adapter.Apply(b.Fragments[i].Handle, out); err != nil {
				c.logger.Warn("apply translation failed",
					zap.String("handle", string(b.Fragments[i].Handle)),
					zap.Error(err))
			} else {
				summary.Translated++
			}
		}
		c.resolveFragment(b.GroupOf[i])
	}
}

// echoSuspect 判断译文是否疑似后端原样回显。
// 编辑距离不超过原文长度的十分之一（至少容忍 2）视为可疑；
// 译文照常应用，只记一条告警，永远不算错误。
func echoSuspect(original, translated string) (int, bool) {
	src := strings.TrimSpace(original)
	dst := strings.TrimSpace(translated)
	threshold := len([]rune(src)) / 10
	if threshold < 2 {
		threshold = 2
	}
	dist := fuzzy.LevenshteinDistance(src, dst)
	return dist, dist <= threshold
}

// resolveFragment 片段解决后递减所属分组的未决计数，归零即结算
func (c *Controller) resolveFragment(gi int) {
	c.pending[gi]--
	if c.pending[gi] == 0 {
		c.groupStates[gi] = GroupSettled
		c.logger.Debug("group settled", zap.Int("group", gi))
	}
}
