package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/weisyn/zkcompress/pkg/types"
)

var retrieveFlags struct {
	OutputFile string // 载荷输出路径，缺省写到标准输出
}

// retrieveCmd 读回命令
var retrieveCmd = &cobra.Command{
	Use:   "retrieve <内容哈希>",
	Short: "按内容哈希读回载荷并校验内容寻址",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := types.ContentHashFromHex(args[0])
		if err != nil {
			return fmt.Errorf("解析内容哈希失败: %w", err)
		}

		application, err := startApp()
		if err != nil {
			return err
		}
		defer application.Stop()

		payload, err := application.Compressor().Retrieve(context.Background(), hash)
		if err != nil {
			return err
		}

		if retrieveFlags.OutputFile != "" {
			if err := os.WriteFile(retrieveFlags.OutputFile, payload, 0644); err != nil {
				return fmt.Errorf("写入载荷失败: %w", err)
			}
			if !globalFlags.Silent {
				pterm.Success.Printfln("载荷已写入: %s (%d字节)", retrieveFlags.OutputFile, len(payload))
			}
			return nil
		}

		_, err = os.Stdout.Write(payload)
		return err
	},
}

func init() {
	retrieveCmd.Flags().StringVarP(&retrieveFlags.OutputFile, "out", "o", "", "载荷输出路径 (默认: 标准输出)")
}
