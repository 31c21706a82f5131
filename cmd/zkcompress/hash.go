package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/zkcompress/pkg/types"
)

var hashFlags struct {
	SchemeVersion uint8 // 哈希方案版本
}

// hashCmd 哈希命令
// 不启动完整应用：内容哈希是纯函数，直接调用哈希器
var hashCmd = &cobra.Command{
	Use:   "hash <文件>...",
	Short: "计算文件的版本化内容哈希",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hasher, err := hash.NewHasher(types.SchemeVersion(hashFlags.SchemeVersion))
		if err != nil {
			return err
		}

		for _, file := range args {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("读取文件 %s 失败: %w", file, err)
			}
			fmt.Printf("%s  %s\n", hasher.Sum(data).Hex(), file)
		}

		return nil
	},
}

func init() {
	hashCmd.Flags().Uint8Var(&hashFlags.SchemeVersion, "scheme", uint8(types.SchemeV1), "哈希方案版本 (1=SHA-256, 2=遗留Keccak-256)")
}
