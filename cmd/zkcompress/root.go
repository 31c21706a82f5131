package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/weisyn/zkcompress/internal/app"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath string // 配置文件路径
	Silent     bool   // 静默模式
}

var globalFlags GlobalFlags

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "zkcompress",
	Short: "链下批次压缩命令行工具",
	Long: `zkcompress - 链下载荷的批次承诺工具

将一批链下载荷压缩为单一默克尔根承诺：
- 对每个载荷计算版本化内容哈希
- 构建默克尔树并为每个叶子生成包含证明
- 将载荷以内容哈希为键持久化到内容存储

只有根哈希需要提交给账本协作方，任意单个载荷的存在性
可以凭叶子哈希、证明和根独立验证。`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// CLI模式下控制台日志静音，避免干扰命令输出
		os.Setenv("ZKC_CLI_MODE", "true")
		return nil
	},
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", "", "配置文件路径 (默认: configs/config.json)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出结果)")

	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(hashCmd)
}

// startApp 按全局标志启动应用
func startApp() (app.App, error) {
	var opts []app.Option
	if globalFlags.ConfigPath != "" {
		opts = append(opts, app.WithConfigFile(globalFlags.ConfigPath))
	}
	return app.Start(opts...)
}
