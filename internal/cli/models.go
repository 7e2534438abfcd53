package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newModelsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "列出当前提供商可用的模型",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime()
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.log.Sync()
			}()

			prov := rt.prov
			models, err := prov.GetModels(cmd.Context())
			if err != nil {
				return fmt.Errorf("list models for %s: %w", prov.GetName(), err)
			}
			if len(models) == 0 {
				fmt.Printf("%s 没有可列出的模型\n", prov.GetName())
				fmt.Println("已注册的提供商:", rt.reg.List())
				return nil
			}

			title := color.New(color.FgCyan, color.Bold)
			_, _ = title.Printf("%s 可用模型:\n", prov.GetName())
			for _, m := range models {
				fmt.Printf("  - %s\n", m)
			}
			return nil
		},
	}
}
