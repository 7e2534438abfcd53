package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-webpage-translator/internal/translator"
)

func newTextCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "text [text...]",
		Short: "翻译一段选中文本",
		Long: `翻译命令行参数给出的文本，无参数时读取标准输入。
超长文本按软边界切块逐个翻译后拼接。`,
		RunE: runText,
	}
}

func runText(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	cfg, log := rt.cfg, rt.log
	defer func() {
		_ = log.Sync()
	}()

	var text string
	if len(args) > 0 {
		text = strings.Join(args, " ")
	} else {
		raw, err := readAllStdin()
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(raw)
	}

	manager := translator.NewManager(log)
	out, err := manager.TranslateSelection(cmd.Context(), rt.prov, translator.SelectionOptions{
		SourceLang: cfg.SourceLang,
		TargetLang: cfg.TargetLang,
		ChunkSize:  cfg.SelectionChunkSize,
	}, text)
	if err != nil {
		return err
	}

	fmt.Println(out)
	return nil
}

func readAllStdin() ([]byte, error) {
	return io.ReadAll(os.Stdin)
}
