package config

import (
	compressorconfig "github.com/weisyn/zkcompress/internal/config/compressor"
	logconfig "github.com/weisyn/zkcompress/internal/config/log"
	badgerconfig "github.com/weisyn/zkcompress/internal/config/storage/badger"
	fileconfig "github.com/weisyn/zkcompress/internal/config/storage/file"
	memoryconfig "github.com/weisyn/zkcompress/internal/config/storage/memory"
	"github.com/weisyn/zkcompress/pkg/interfaces/config"
	"github.com/weisyn/zkcompress/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// 确保Provider实现了config.Provider接口
var _ config.Provider = (*Provider)(nil)

// NewProvider 创建配置提供者
func NewProvider(appConfig *types.AppConfig) config.Provider {
	return &Provider{
		appConfig: appConfig,
	}
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *logconfig.LogOptions {
	var userLogConfig *types.UserLogConfig
	if p.appConfig != nil && p.appConfig.Log != nil {
		userLogConfig = p.appConfig.Log
	}

	// logconfig.New会处理默认值应用和用户配置覆盖
	return logconfig.New(userLogConfig).GetOptions()
}

// GetStorageEngine 获取内容存储引擎名称
func (p *Provider) GetStorageEngine() string {
	if p.appConfig != nil && p.appConfig.Storage != nil && p.appConfig.Storage.Engine != nil {
		switch *p.appConfig.Storage.Engine {
		case "badger", "file", "memory":
			return *p.appConfig.Storage.Engine
		}
		// 未知引擎名称回退到默认引擎
	}
	return defaultStorageEngine
}

// GetBadger 获取BadgerDB存储配置
func (p *Provider) GetBadger() *badgerconfig.BadgerOptions {
	return badgerconfig.New(p.userStorageConfig()).GetOptions()
}

// GetFile 获取文件存储配置
func (p *Provider) GetFile() *fileconfig.FileOptions {
	return fileconfig.New(p.userStorageConfig()).GetOptions()
}

// GetMemory 获取内存存储配置
func (p *Provider) GetMemory() *memoryconfig.MemoryOptions {
	return memoryconfig.New(p.userStorageConfig()).GetOptions()
}

// GetCompressor 获取批次压缩配置
func (p *Provider) GetCompressor() *compressorconfig.CompressorOptions {
	var userCompressorConfig *types.UserCompressorConfig
	if p.appConfig != nil && p.appConfig.Compressor != nil {
		userCompressorConfig = p.appConfig.Compressor
	}
	return compressorconfig.New(userCompressorConfig).GetOptions()
}

// userStorageConfig 提取用户存储配置（可能为nil）
func (p *Provider) userStorageConfig() *types.UserStorageConfig {
	if p.appConfig != nil && p.appConfig.Storage != nil {
		return p.appConfig.Storage
	}
	return nil
}
