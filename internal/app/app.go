// Package app 组装并启动应用
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	appconfig "github.com/weisyn/zkcompress/internal/config"
	"github.com/weisyn/zkcompress/internal/core/compressor"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto"
	logmodule "github.com/weisyn/zkcompress/internal/core/infrastructure/log"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/interfaces/config"
	"github.com/weisyn/zkcompress/pkg/types"
	"go.uber.org/fx"
)

// App 应用的对外接口
type App interface {
	// Stop 停止应用
	Stop() error

	// Wait 等待应用收到退出信号
	Wait()

	// Compressor 获取批次压缩服务
	Compressor() *compressor.Compressor
}

// internalApp 应用的内部实现
type internalApp struct {
	fxApp      *fx.App
	compressor *compressor.Compressor
}

// Stop 停止应用
func (a *internalApp) Stop() error {
	// 增加超时时间，确保存储有足够时间完成同步和关闭
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	return a.fxApp.Stop(ctx)
}

// Wait 等待应用收到退出信号
func (a *internalApp) Wait() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	sig := <-signals
	fmt.Printf("\n🛑 收到信号 %v，正在优雅退出...\n", sig)

	if err := a.Stop(); err != nil {
		fmt.Printf("⚠️ 停止应用时出错: %v\n", err)
	}
}

// Compressor 获取批次压缩服务
func (a *internalApp) Compressor() *compressor.Compressor {
	return a.compressor
}

// Start 启动应用
//
// 按依赖顺序组装配置、日志、加密、存储和压缩模块，
// 启动失败返回错误而非部分可用的应用
func Start(appOptions ...Option) (App, error) {
	opts := newOptions(appOptions...)

	if opts.configFilePath != "" {
		SetConfigFilePath(opts.configFilePath)
	}

	application := &internalApp{}

	fxApp := fx.New(
		fx.NopLogger,

		// 提供应用配置选项，供config模块使用
		fx.Provide(ProvideAppOptions),

		appconfig.Module(),
		logmodule.Module(),
		crypto.Module(),
		storage.Module(),
		compressor.Module(),

		fx.Populate(&application.compressor),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fxApp.Start(startCtx); err != nil {
		return nil, fmt.Errorf("应用启动失败: %w", err)
	}

	application.fxApp = fxApp
	return application, nil
}

// ProvideAppOptions 提供应用配置选项实例
// 这个函数为依赖注入系统提供config.AppOptions接口的实现
func ProvideAppOptions() config.AppOptions {
	return loadConfigFromFile()
}

// loadConfigFromFile 从配置文件加载配置（支持自定义路径）
//
// 配置文件使用指针类型字段区分"用户未设置"和"用户设置为零值"：
// nil表示使用系统默认值，&value表示用户明确设置（即使是零值）
func loadConfigFromFile() config.AppOptions {
	defaultOptions := newOptions()

	configPath := getConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		fmt.Printf("配置文件 %s 不存在，使用默认配置\n", configPath)
		return defaultOptions
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		fmt.Printf("读取配置文件失败: %v，使用默认配置\n", err)
		return defaultOptions
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		fmt.Printf("解析配置文件失败: %v，使用默认配置\n", err)
		return defaultOptions
	}

	fmt.Printf("已成功加载配置文件: %s\n", configPath)
	defaultOptions.appConfig = &appConfig

	// 根据配置自动创建数据目录
	if err := createDataDirectories(defaultOptions); err != nil {
		fmt.Printf("⚠️  创建数据目录失败: %v\n", err)
		// 不返回错误，允许系统继续运行，但记录问题
	}

	return defaultOptions
}

// createDataDirectories 根据配置自动创建数据目录结构
func createDataDirectories(opts config.AppOptions) error {
	appConfig := opts.GetAppConfig()
	if appConfig == nil {
		return fmt.Errorf("无法获取应用配置")
	}

	var directories []string

	// 存储根目录
	if appConfig.Storage != nil && appConfig.Storage.DataRoot != nil {
		directories = append(directories, *appConfig.Storage.DataRoot)
	}

	// 日志目录
	if appConfig.Log != nil && appConfig.Log.OutputPath != nil {
		directories = append(directories, filepath.Dir(*appConfig.Log.OutputPath))
	}

	for _, dir := range directories {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("创建目录 %s 失败: %v", dir, err)
		}
	}

	return nil
}

// globalConfigPath 全局配置文件路径变量
var globalConfigPath string

// SetConfigFilePath 设置全局配置文件路径
func SetConfigFilePath(path string) {
	globalConfigPath = path
}

// getConfigFilePath 获取配置文件路径
func getConfigFilePath() string {
	// 1. 优先使用环境变量 ZKC_CONFIG_PATH
	if envPath := os.Getenv("ZKC_CONFIG_PATH"); envPath != "" {
		return envPath
	}

	// 2. 其次使用全局变量（通过SetConfigFilePath设置）
	if globalConfigPath != "" {
		return globalConfigPath
	}

	// 3. 最后使用默认配置路径
	return "configs/config.json"
}
