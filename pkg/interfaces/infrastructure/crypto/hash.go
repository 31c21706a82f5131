// Package crypto 提供系统的内容哈希接口定义
//
// 🔐 **内容哈希服务 (Content Hashing Service)**
//
// 本文件定义了批次压缩系统的内容哈希接口，专注于：
// - 确定性哈希：相同输入在任意进程、任意实现中产生逐字节相同的输出
// - 版本化方案：版本字节前缀区分摘要算法，防止方案升级后的静默冲突
// - 十六进制编码：66字符小写十六进制作为对外交换格式
//
// 🎯 **核心功能**
// - ContentHasher：内容哈希器接口，提供完整的内容寻址哈希能力
// - 方案注册：按版本字节选择SHA-256或遗留Keccak-256摘要
// - 纯函数：无随机性、无机器相关状态、无本地化编码
//
// 🔗 **组件关系**
// - ContentHasher：被默克尔树、批次压缩器、内容存储使用
// - 与MerkleTreeManager：提供叶子哈希和内部节点哈希的统一摘要
package crypto

import (
	"github.com/weisyn/zkcompress/pkg/types"
)

// ContentHasher 定义版本化内容哈希接口
//
// 确定性是唯一的实质契约：对相同的字节输入，任何时间、任何进程
// 的两次调用必须产生逐字节相同的内容哈希。
//
// 🔧 **哈希格式**：
// 内容哈希 = 版本字节 ++ 32字节摘要（共33字节，66位十六进制）
// - 0x01: SHA-256（当前方案）
// - 0x02: Keccak-256（遗留方案，按版本字节门控）
type ContentHasher interface {
	// Sum 计算数据的内容哈希（使用哈希器绑定的方案版本）
	// 空输入是合法输入；nil输入视为空输入
	Sum(data []byte) types.ContentHash

	// SumString 计算字符串的内容哈希
	// 字符串按UTF-8字节序列编码后哈希
	SumString(s string) types.ContentHash

	// Version 返回哈希器绑定的方案版本
	Version() types.SchemeVersion
}

// HasherFactory 按方案版本创建内容哈希器
type HasherFactory interface {
	// ForVersion 返回指定方案版本的哈希器
	// 未知版本返回types.ErrUnknownScheme
	ForVersion(version types.SchemeVersion) (ContentHasher, error)
}
