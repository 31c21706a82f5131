package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/weisyn/zkcompress/pkg/types"
)

var verifyFlags struct {
	BatchFile string // compress --out 生成的批次结果文件
	LeafIndex int    // 待验证的叶子索引
	LeafHex   string // 直接指定叶子哈希（与--index二选一）
	RootHex   string // 期望根哈希，缺省使用批次文件中的根
	Strict    bool   // 严格模式：结构/版本错误显式报告
}

// verifyCmd 验证命令
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "验证批次结果中的包含证明",
	Long: `从批次结果JSON中取出指定叶子的证明并对根验证。
可用 --root 指定外部声称的根哈希，用 --leaf 指定外部声称的
叶子哈希，用于争议核查场景。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(verifyFlags.BatchFile)
		if err != nil {
			return fmt.Errorf("读取批次结果失败: %w", err)
		}

		var result types.BatchResult
		if err := json.Unmarshal(data, &result); err != nil {
			return fmt.Errorf("解析批次结果失败: %w", err)
		}

		proof, ok := result.Proofs[verifyFlags.LeafIndex]
		if !ok {
			return fmt.Errorf("批次结果中没有叶子%d的证明", verifyFlags.LeafIndex)
		}

		// 叶子哈希：显式指定优先，否则取批次记录值
		var leaf types.ContentHash
		if verifyFlags.LeafHex != "" {
			leaf, err = types.ContentHashFromHex(verifyFlags.LeafHex)
			if err != nil {
				return fmt.Errorf("解析叶子哈希失败: %w", err)
			}
		} else {
			if verifyFlags.LeafIndex < 0 || verifyFlags.LeafIndex >= len(result.LeafHashes) {
				return fmt.Errorf("叶子索引%d超出范围", verifyFlags.LeafIndex)
			}
			leaf = result.LeafHashes[verifyFlags.LeafIndex]
		}

		// 根哈希：显式指定优先
		root := result.Root
		if verifyFlags.RootHex != "" {
			root, err = types.ContentHashFromHex(verifyFlags.RootHex)
			if err != nil {
				return fmt.Errorf("解析根哈希失败: %w", err)
			}
		}

		application, err := startApp()
		if err != nil {
			return err
		}
		defer application.Stop()

		var verified bool
		if verifyFlags.Strict {
			verified, err = application.Compressor().VerifyStrict(leaf, proof, root)
			if err != nil {
				return fmt.Errorf("证明结构校验失败: %w", err)
			}
		} else {
			verified = application.Compressor().Verify(leaf, proof, root)
		}

		if globalFlags.Silent {
			fmt.Println(verified)
			if !verified {
				os.Exit(1)
			}
			return nil
		}

		if verified {
			pterm.Success.Printfln("验证通过: 叶子%d包含于根 %s", verifyFlags.LeafIndex, root.Hex())
			return nil
		}

		pterm.Error.Printfln("验证失败: 叶子%d不包含于根 %s", verifyFlags.LeafIndex, root.Hex())
		os.Exit(1)
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVarP(&verifyFlags.BatchFile, "batch", "b", "", "批次结果JSON文件路径")
	verifyCmd.Flags().IntVarP(&verifyFlags.LeafIndex, "index", "i", 0, "待验证的叶子索引")
	verifyCmd.Flags().StringVar(&verifyFlags.LeafHex, "leaf", "", "外部声称的叶子哈希（66位十六进制）")
	verifyCmd.Flags().StringVar(&verifyFlags.RootHex, "root", "", "外部声称的根哈希（66位十六进制）")
	verifyCmd.Flags().BoolVar(&verifyFlags.Strict, "strict", false, "严格模式：结构和方案版本错误显式报告")
	verifyCmd.MarkFlagRequired("batch")
}
