package memory

import (
	configtypes "github.com/weisyn/zkcompress/pkg/types"
)

// MemoryOptions 内存存储配置选项
// 内存引擎基于BigCache，用于测试和不需要持久化的临时批次
type MemoryOptions struct {
	// LifeWindow 条目生命周期窗口（时间字符串，如"10m"）
	LifeWindow string `json:"life_window"`

	// CleanWindow 过期条目清理窗口
	CleanWindow string `json:"clean_window"`

	// MaxSizeMB 缓存内存上限(MB)，0表示不限制
	MaxSizeMB int `json:"max_size_mb"`
}

// Config 内存存储配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存存储配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultMemoryOptions()

	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从MemoryOptions创建配置实现
func NewFromOptions(options *MemoryOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultMemoryOptions 创建默认内存存储配置
func createDefaultMemoryOptions() *MemoryOptions {
	return &MemoryOptions{
		LifeWindow:  defaultLifeWindow,
		CleanWindow: defaultCleanWindow,
		MaxSizeMB:   defaultMaxSizeMB,
	}
}

// applyUserConfig 应用用户配置覆盖默认值
func applyUserConfig(options *MemoryOptions, userConfig interface{}) {
	storageConfig, ok := userConfig.(*configtypes.UserStorageConfig)
	if !ok || storageConfig == nil || storageConfig.Memory == nil {
		return
	}

	if storageConfig.Memory.LifeWindow != nil {
		options.LifeWindow = *storageConfig.Memory.LifeWindow
	}
	if storageConfig.Memory.MaxSizeMB != nil {
		options.MaxSizeMB = *storageConfig.Memory.MaxSizeMB
	}
}

// GetOptions 获取完整的内存存储配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}

// GetLifeWindow 获取条目生命周期窗口
func (c *Config) GetLifeWindow() string {
	return c.options.LifeWindow
}

// GetCleanWindow 获取清理窗口
func (c *Config) GetCleanWindow() string {
	return c.options.CleanWindow
}

// GetMaxSizeMB 获取缓存内存上限
func (c *Config) GetMaxSizeMB() int {
	return c.options.MaxSizeMB
}
