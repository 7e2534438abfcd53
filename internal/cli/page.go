package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-webpage-translator/internal/translator"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/document"
)

var pageOutput string

func newPageCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page input_file",
		Short: "翻译整个 HTML 页面",
		Long: `扫描页面中的可翻译文本，按块级边界分组、成批发送给后端，
译文按原文匹配后写回文档。输入为 "-" 时读取标准输入。`,
		Args: cobra.ExactArgs(1),
		RunE: runPage,
	}
	cmd.Flags().StringVarP(&pageOutput, "output", "o", "", "输出文件，缺省写到标准输出")
	return cmd
}

func runPage(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	cfg, log := rt.cfg, rt.log
	defer func() {
		_ = log.Sync()
	}()

	glossary, err := loadGlossary(cfg, log)
	if err != nil {
		return err
	}

	raw, err := readInput(args[0])
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}

	doc, err := document.ParseHTML(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}

	manager := translator.NewManager(log)
	ctrl, err := manager.StartPage(rt.prov, doc, translator.Options{
		SourceLang:    cfg.SourceLang,
		TargetLang:    cfg.TargetLang,
		MaxChars:      cfg.BatchMaxChars,
		MaxItems:      cfg.BatchMaxItems,
		BatchInterval: time.Duration(cfg.BatchIntervalMS) * time.Millisecond,
		Glossary:      glossary,
	}, newProgressSink())
	if err != nil {
		return err
	}

	summary, err := ctrl.Run(cmd.Context())
	if err != nil {
		return err
	}

	printSummary(os.Stderr, summary)

	out, err := doc.HTML()
	if err != nil {
		return fmt.Errorf("serialize html: %w", err)
	}
	if pageOutput == "" || pageOutput == "-" {
		_, err = io.WriteString(os.Stdout, out)
		return err
	}
	if err := os.WriteFile(pageOutput, []byte(out), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	log.Info("translated page written",
		zap.String("output", pageOutput),
		zap.String("state", summary.State.String()))

	if summary.State == translator.StateCompletedWithErrors {
		color.New(color.FgYellow).Fprintf(os.Stderr, "completed with %d failed batch(es), originals kept\n", summary.Errored)
	}
	return nil
}
