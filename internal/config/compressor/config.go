package compressor

import (
	configtypes "github.com/weisyn/zkcompress/pkg/types"
)

// CompressorOptions 批次压缩配置选项
type CompressorOptions struct {
	// SchemeVersion 哈希方案版本
	SchemeVersion configtypes.SchemeVersion `json:"scheme_version"`

	// MaxPersistWorkers 持久化并发上限
	MaxPersistWorkers int `json:"max_persist_workers"`

	// MaxBatchSize 单批次最大载荷数，0表示不限制
	MaxBatchSize int `json:"max_batch_size"`
}

// Config 批次压缩配置实现
type Config struct {
	options *CompressorOptions
}

// New 创建批次压缩配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultCompressorOptions()

	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// createDefaultCompressorOptions 创建默认批次压缩配置
func createDefaultCompressorOptions() *CompressorOptions {
	return &CompressorOptions{
		SchemeVersion:     defaultSchemeVersion,
		MaxPersistWorkers: defaultMaxPersistWorkers,
		MaxBatchSize:      defaultMaxBatchSize,
	}
}

// applyUserConfig 应用用户配置覆盖默认值
func applyUserConfig(options *CompressorOptions, userConfig interface{}) {
	compressorConfig, ok := userConfig.(*configtypes.UserCompressorConfig)
	if !ok || compressorConfig == nil {
		return
	}

	if compressorConfig.SchemeVersion != nil {
		v := configtypes.SchemeVersion(*compressorConfig.SchemeVersion)
		// 未知版本保持默认值，由压缩器在运行时再次校验
		if configtypes.IsKnownScheme(v) {
			options.SchemeVersion = v
		}
	}
	if compressorConfig.MaxPersistWorkers != nil && *compressorConfig.MaxPersistWorkers > 0 {
		options.MaxPersistWorkers = *compressorConfig.MaxPersistWorkers
	}
	if compressorConfig.MaxBatchSize != nil && *compressorConfig.MaxBatchSize >= 0 {
		options.MaxBatchSize = *compressorConfig.MaxBatchSize
	}
}

// GetOptions 获取完整的批次压缩配置选项
func (c *Config) GetOptions() *CompressorOptions {
	return c.options
}

// GetSchemeVersion 获取哈希方案版本
func (c *Config) GetSchemeVersion() configtypes.SchemeVersion {
	return c.options.SchemeVersion
}

// GetMaxPersistWorkers 获取持久化并发上限
func (c *Config) GetMaxPersistWorkers() int {
	return c.options.MaxPersistWorkers
}

// GetMaxBatchSize 获取单批次最大载荷数
func (c *Config) GetMaxBatchSize() int {
	return c.options.MaxBatchSize
}
