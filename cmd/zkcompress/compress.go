package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var compressFlags struct {
	OutputFile string // 批次结果JSON输出路径
}

// compressCmd 压缩命令
var compressCmd = &cobra.Command{
	Use:   "compress <文件或目录>...",
	Short: "将一批载荷文件压缩为默克尔根承诺",
	Long: `读取指定的载荷文件（目录按文件名排序展开），计算批次的
默克尔根并持久化所有载荷。批次结果（根、叶子哈希、全部证明）
可通过 --out 写入JSON文件供后续验证使用。`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectPayloadFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("没有找到任何载荷文件")
		}

		payloads := make([][]byte, len(files))
		for i, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("读取载荷文件 %s 失败: %w", file, err)
			}
			payloads[i] = data
		}

		application, err := startApp()
		if err != nil {
			return err
		}
		defer application.Stop()

		var spinner *pterm.SpinnerPrinter
		if !globalFlags.Silent {
			spinner, _ = pterm.DefaultSpinner.Start(fmt.Sprintf("压缩 %d 个载荷...", len(payloads)))
		}

		result, err := application.Compressor().Compress(context.Background(), payloads)
		if err != nil {
			if spinner != nil {
				spinner.Fail("压缩失败")
			}
			return err
		}

		if spinner != nil {
			spinner.Success("压缩完成")
		}

		if globalFlags.Silent {
			fmt.Println(result.Root.Hex())
		} else {
			pterm.DefaultSection.Println("批次承诺")
			pterm.Info.Printfln("批次ID:   %s", result.BatchID)
			pterm.Info.Printfln("方案版本: 0x%02x", byte(result.Version))
			pterm.Info.Printfln("载荷数:   %d", len(result.LeafHashes))
			pterm.Success.Printfln("根哈希:   %s", result.Root.Hex())

			for i, file := range files {
				pterm.Debug.Printfln("叶子%d %s  %s", i, result.LeafHashes[i].Hex(), file)
			}
		}

		if compressFlags.OutputFile != "" {
			data, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化批次结果失败: %w", err)
			}
			if err := os.WriteFile(compressFlags.OutputFile, data, 0644); err != nil {
				return fmt.Errorf("写入批次结果失败: %w", err)
			}
			if !globalFlags.Silent {
				pterm.Info.Printfln("批次结果已写入: %s", compressFlags.OutputFile)
			}
		}

		return nil
	},
}

func init() {
	compressCmd.Flags().StringVarP(&compressFlags.OutputFile, "out", "o", "", "批次结果JSON输出路径")
}

// collectPayloadFiles 展开文件与目录参数为有序文件列表
// 目录展开按文件名排序，保证叶子顺序可复现
func collectPayloadFiles(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("访问 %s 失败: %w", arg, err)
		}

		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("读取目录 %s 失败: %w", arg, err)
		}

		var names []string
		for _, entry := range entries {
			if entry.Type().IsRegular() {
				names = append(names, entry.Name())
			}
		}
		sort.Strings(names)

		for _, name := range names {
			files = append(files, filepath.Join(arg, name))
		}
	}

	return files, nil
}
