// Package storage 提供系统的内容存储接口定义
//
// 💾 **内容寻址存储服务 (Content-Addressed Storage Service)**
//
// 本文件定义了批次压缩系统的链下内容存储接口，专注于：
// - 内容寻址：以内容哈希为键存取完整载荷
// - 幂等写入：相同哈希重复写入结果一致，取消后无需回滚
// - 引擎无关：BadgerDB、文件系统、内存三种引擎实现同一接口
//
// 🔗 **组件关系**
// - ContentStore：被BatchCompressor用于批次载荷持久化
// - 与StoreFactory：按配置选择具体存储引擎
package storage

import (
	"context"
	"errors"

	"github.com/weisyn/zkcompress/pkg/types"
)

// ErrNotFound 请求的内容哈希不存在于存储中
var ErrNotFound = errors.New("内容不存在")

// ContentStore 定义内容寻址存储接口
//
// 所有操作以内容哈希为键。写入是幂等的：同一哈希对应同一内容，
// 重复写入不改变存储语义
type ContentStore interface {
	// Put 以内容哈希为键存储载荷
	// 调用方负责保证hash确实是payload的内容哈希
	Put(ctx context.Context, hash types.ContentHash, payload []byte) error

	// Get 按内容哈希读取载荷
	// 键不存在返回ErrNotFound
	Get(ctx context.Context, hash types.ContentHash) ([]byte, error)

	// Has 检查内容是否已存储
	Has(ctx context.Context, hash types.ContentHash) (bool, error)

	// Delete 删除指定内容
	// 键不存在不返回错误
	Delete(ctx context.Context, hash types.ContentHash) error

	// Close 关闭存储并释放资源
	// 应用关闭时必须调用，确保数据正确落盘
	Close() error
}
