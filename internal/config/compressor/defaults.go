package compressor

import (
	configtypes "github.com/weisyn/zkcompress/pkg/types"
)

// 批次压缩默认配置值
const (
	// defaultSchemeVersion 默认使用当前哈希方案（SHA-256）
	// 遗留Keccak-256方案仅用于验证历史批次，不用于新批次
	defaultSchemeVersion = configtypes.SchemeV1

	// defaultMaxPersistWorkers 默认持久化并发上限为8
	// 原因：载荷持久化是I/O密集操作，适度的并发可以掩盖
	// 存储延迟；上限防止大批次瞬间占满文件描述符
	defaultMaxPersistWorkers = 8

	// defaultMaxBatchSize 默认不限制批次大小
	defaultMaxBatchSize = 0
)
