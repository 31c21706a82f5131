package badger

import (
	"github.com/weisyn/zkcompress/pkg/utils"
)

// BadgerDB存储默认配置值
// 这些默认值基于BadgerDB的最佳实践和内容寻址存储的访问模式

// getDefaultPath 获取默认数据库路径（使用路径解析工具）
// 原因：统一的数据目录便于管理和备份，确保路径解析正确
func getDefaultPath() string {
	return utils.ResolveDataPath("./data/badger")
}

const (
	// === 基础配置 ===

	// defaultSyncWrites 默认启用同步写入
	// 原因：批次载荷是承诺根的唯一数据来源，丢失载荷意味着
	// 无法响应后续的包含性争议，同步写入确保数据安全性
	defaultSyncWrites = true

	// === 性能配置 ===

	// defaultMemTableSize 默认内存表大小为64MB
	// 原因：64MB提供良好的读写性能，适合批量写入的访问模式
	defaultMemTableSize = 64 << 20 // 64MB
)
