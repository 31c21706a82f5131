// Package storage 提供内容存储管理功能
package storage

import (
	"context"

	"github.com/weisyn/zkcompress/pkg/interfaces/config"
	"github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider config.Provider // 配置提供者
	Logger   log.Logger      // 日志记录器
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	// 内容存储（必需，失败即错误）
	ContentStore storageInterface.ContentStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		// 提供存储服务
		fx.Provide(ProvideServices),

		// 添加生命周期钩子确保在应用停止时关闭存储
		fx.Invoke(func(lc fx.Lifecycle, store storageInterface.ContentStore, logger log.Logger) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					logger.Info("正在关闭存储服务...")
					if err := store.Close(); err != nil {
						logger.Errorf("关闭内容存储失败: %v", err)
						return err
					}
					logger.Info("存储服务已安全关闭")
					return nil
				},
			})
		}),
	)
}

// ProvideServices 提供存储服务
// 根据配置初始化选定的存储引擎并返回
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	serviceOutput, err := CreateStorageServices(ServiceInput{
		Provider: params.Provider,
		Logger:   params.Logger,
	})
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		ContentStore: serviceOutput.ContentStore,
	}, nil
}
