package app

import (
	"github.com/weisyn/zkcompress/pkg/types"
)

// Option 应用启动选项
type Option func(*options)

// options 应用选项集合
type options struct {
	configFilePath string
	appConfig      *types.AppConfig
}

// newOptions 创建带默认值的选项集合
func newOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithConfigFile 指定配置文件路径
func WithConfigFile(path string) Option {
	return func(o *options) {
		o.configFilePath = path
	}
}

// GetAppConfig 实现config.AppOptions接口
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
