package file

import (
	"path/filepath"

	configtypes "github.com/weisyn/zkcompress/pkg/types"
	"github.com/weisyn/zkcompress/pkg/utils"
)

// FileOptions 文件存储配置选项
// 文件引擎把每个载荷作为独立文件存储在内容寻址的二级目录结构下
type FileOptions struct {
	// Path 文件存储根目录
	Path string `json:"path"`

	// FileMode 载荷文件权限
	FileMode uint32 `json:"file_mode"`
}

// Config 文件存储配置实现
type Config struct {
	options *FileOptions
}

// New 创建文件存储配置实现
func New(userConfig interface{}) *Config {
	defaultOptions := createDefaultFileOptions()

	if userConfig != nil {
		applyUserConfig(defaultOptions, userConfig)
	}

	return &Config{
		options: defaultOptions,
	}
}

// NewFromOptions 从FileOptions创建配置实现
func NewFromOptions(options *FileOptions) *Config {
	return &Config{
		options: options,
	}
}

// createDefaultFileOptions 创建默认文件存储配置
func createDefaultFileOptions() *FileOptions {
	return &FileOptions{
		Path:     getDefaultPath(),
		FileMode: defaultFileMode,
	}
}

// applyUserConfig 应用用户配置覆盖默认值
// 路径规则与badger引擎一致：{data_root}/payloads/
func applyUserConfig(options *FileOptions, userConfig interface{}) {
	storageConfig, ok := userConfig.(*configtypes.UserStorageConfig)
	if !ok || storageConfig == nil {
		return
	}

	if storageConfig.DataRoot != nil {
		filePath := filepath.Join(*storageConfig.DataRoot, "payloads")
		options.Path = utils.ResolveDataPath(filePath)
	}
}

// GetOptions 获取完整的文件存储配置选项
func (c *Config) GetOptions() *FileOptions {
	return c.options
}

// GetPath 获取文件存储根目录
func (c *Config) GetPath() string {
	return c.options.Path
}

// GetFileMode 获取载荷文件权限
func (c *Config) GetFileMode() uint32 {
	return c.options.FileMode
}
