package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"github.com/pterm/pterm"

	"github.com/nerdneilsfield/go-webpage-translator/internal/translator"
)

// progressSink 把任务进度渲染为终端进度条
type progressSink struct {
	bar *pterm.ProgressbarPrinter
}

func newProgressSink() *progressSink {
	return &progressSink{}
}

func (s *progressSink) JobStarted(_ string, totalBatches, totalFragments int) {
	bar, err := pterm.DefaultProgressbar.
		WithTotal(totalBatches).
		WithTitle(fmt.Sprintf("翻译进度（%d 个片段）", totalFragments)).
		WithRemoveWhenDone(true).
		Start()
	if err != nil {
		return
	}
	s.bar = bar
}

func (s *progressSink) BatchFinished(p translator.Progress) {
	if s.bar == nil {
		return
	}
	s.bar.Increment()
}

func (s *progressSink) JobFinished(_ *translator.Summary) {
	if s.bar == nil {
		return
	}
	_, _ = s.bar.Stop()
	s.bar = nil
}

// printSummary 打印任务汇总表
func printSummary(w io.Writer, summary *translator.Summary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendRow(table.Row{"state", summary.State.String()})
	t.AppendRow(table.Row{"fragments", summary.TotalFragments})
	t.AppendRow(table.Row{"translated", summary.Translated})
	t.AppendRow(table.Row{"batches", summary.TotalBatches})
	if summary.Errored > 0 {
		t.AppendRow(table.Row{"failed batches", summary.Errored})
	}
	if summary.FallbackBatches > 0 {
		t.AppendRow(table.Row{"fallback batches", summary.FallbackBatches})
	}
	t.AppendRow(table.Row{"duration", summary.Duration.Round(time.Millisecond)})
	t.Render()

	for i := range summary.Errors {
		fmt.Fprintf(w, "  %s\n", truncate(summary.Errors[i].Error(), 100))
	}
}

// truncate 按显示宽度截断，宽字符按两格计
func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return runewidth.Truncate(s, width, "…")
}
