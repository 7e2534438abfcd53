package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-webpage-translator/internal/config"
	"github.com/nerdneilsfield/go-webpage-translator/internal/logger"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers"
	"github.com/nerdneilsfield/go-webpage-translator/pkg/providers/factory"
)

var (
	// 命令行标志变量
	cfgFile      string
	providerName string
	sourceLang   string
	targetLang   string
	debugMode    bool
	dryRun       bool // 预演模式，走完批次链路但不真正调用后端
	glossaryFile string
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "webtranslator",
		Short: "网页翻译引擎：批量构建、标签负载匹配与任务状态机",
		Long: `webtranslator 把网页中的可翻译文本分组成批、编码为标签负载
发送给翻译后端，再将结构化回复按原文匹配写回文档。

支持的翻译提供商:
  - openai: OpenAI 兼容的 Chat API
  - ollama: Ollama 本地大语言模型
  - deepl: DeepL 专业翻译
  - raw: 直通回显（预演与调试用）`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVarP(&providerName, "provider", "p", "", "翻译提供商（覆盖配置）")
	rootCmd.PersistentFlags().StringVarP(&sourceLang, "source", "s", "", "源语言（auto 表示自动检测）")
	rootCmd.PersistentFlags().StringVarP(&targetLang, "target", "t", "", "目标语言")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "输出调试日志")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "预演模式，不调用真实后端")
	rootCmd.PersistentFlags().StringVar(&glossaryFile, "glossary", "", "预定义翻译表路径（覆盖配置）")

	rootCmd.AddCommand(newPageCommand())
	rootCmd.AddCommand(newTextCommand())
	rootCmd.AddCommand(newModelsCommand())

	return rootCmd
}

// runtime 命令间共享的启动结果
type runtime struct {
	cfg  *config.Config
	log  *zap.Logger
	reg  *providers.Registry
	prov providers.Provider
}

// loadRuntime 加载配置与日志，构造提供商注册表并按名解析出当前提供商
func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	// 命令行标志覆盖配置文件
	if sourceLang != "" {
		cfg.SourceLang = sourceLang
	}
	if targetLang != "" {
		cfg.TargetLang = targetLang
	}
	if debugMode {
		cfg.Debug = true
	}
	if glossaryFile != "" {
		cfg.GlossaryPath = glossaryFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.NewLogger(cfg.Debug)

	name := cfg.DefaultProvider
	if providerName != "" {
		name = providerName
	}
	if dryRun {
		name = "raw"
	}

	reg, err := factory.BuildRegistry(cfg, name, "raw")
	if err != nil {
		return nil, err
	}
	prov, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	log.Debug("provider ready",
		zap.String("provider", prov.GetName()),
		zap.Strings("registered", reg.List()))
	return &runtime{cfg: cfg, log: log, reg: reg, prov: prov}, nil
}

// loadGlossary 按配置加载词表，路径为空时返回 nil
func loadGlossary(cfg *config.Config, log *zap.Logger) (*config.Glossary, error) {
	if cfg.GlossaryPath == "" {
		return nil, nil
	}
	g, err := config.LoadGlossary(cfg.GlossaryPath)
	if err != nil {
		return nil, fmt.Errorf("load glossary: %w", err)
	}
	log.Info("glossary loaded",
		zap.String("path", cfg.GlossaryPath),
		zap.Int("entries", g.Len()))
	return g, nil
}

// readInput 读取文件内容，路径为 "-" 时读标准输入
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return readAllStdin()
	}
	return os.ReadFile(path)
}
