// Package config provides configuration provider interfaces.
package config

import (
	compressorconfig "github.com/weisyn/zkcompress/internal/config/compressor"
	logconfig "github.com/weisyn/zkcompress/internal/config/log"
	badgerconfig "github.com/weisyn/zkcompress/internal/config/storage/badger"
	fileconfig "github.com/weisyn/zkcompress/internal/config/storage/file"
	memoryconfig "github.com/weisyn/zkcompress/internal/config/storage/memory"
)

// Provider 配置提供者接口
// 各模块通过Provider获取已合并默认值的完整配置，
// 不直接读取用户配置文件
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetStorageEngine 获取内容存储引擎名称：badger | file | memory
	GetStorageEngine() string

	// GetBadger 获取BadgerDB存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetFile 获取文件存储配置
	GetFile() *fileconfig.FileOptions

	// GetMemory 获取内存存储配置
	GetMemory() *memoryconfig.MemoryOptions

	// GetCompressor 获取批次压缩配置
	GetCompressor() *compressorconfig.CompressorOptions
}
