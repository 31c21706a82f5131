// Package storage 提供内容存储服务工厂实现
package storage

import (
	"fmt"
	"path/filepath"

	badgerconfig "github.com/weisyn/zkcompress/internal/config/storage/badger"
	fileconfig "github.com/weisyn/zkcompress/internal/config/storage/file"
	memoryconfig "github.com/weisyn/zkcompress/internal/config/storage/memory"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/storage/file"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/zkcompress/pkg/interfaces/config"
	"github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
)

// ServiceInput 定义存储服务工厂的输入参数
type ServiceInput struct {
	Provider config.Provider // 配置提供者
	Logger   log.Logger      // 日志记录器
}

// ServiceOutput 定义存储服务工厂的输出结果
type ServiceOutput struct {
	ContentStore storageInterface.ContentStore
}

// CreateStorageServices 创建存储服务
//
// 🏭 **存储服务工厂**：
// 按配置的引擎名称创建内容存储实例。三种引擎实现同一个
// ContentStore接口，上层组件不感知具体引擎
//
// 参数：
//   - input: 服务创建所需的输入参数
//
// 返回：
//   - ServiceOutput: 创建的服务实例集合
//   - error: 创建过程中的错误
func CreateStorageServices(input ServiceInput) (ServiceOutput, error) {
	provider := input.Provider
	logger := input.Logger

	// 为存储模块添加module字段，便于日志归类
	var storageLogger log.Logger
	if logger != nil {
		storageLogger = logger.With("module", "storage")
	}

	engine := provider.GetStorageEngine()

	var (
		store storageInterface.ContentStore
		err   error
	)

	switch engine {
	case "badger":
		badgerOptions := provider.GetBadger()
		store, err = badger.New(badgerconfig.NewFromOptions(badgerOptions), storageLogger)
		if err != nil {
			return ServiceOutput{}, fmt.Errorf("存储初始化失败：BadgerDB存储不可用: %w", err)
		}

		// 显示实际使用的数据路径，并转换为绝对路径以避免混淆
		actualPath := badgerOptions.Path
		if actualPath == "" {
			actualPath = "./data/badger"
		}
		absPath, pathErr := filepath.Abs(actualPath)
		if pathErr != nil {
			absPath = actualPath
		}

		if storageLogger != nil {
			storageLogger.Infof("✅ BadgerDB内容存储初始化成功")
			storageLogger.Infof("📁 数据存储路径: %s", absPath)
		}

	case "file":
		store, err = file.New(fileconfig.NewFromOptions(provider.GetFile()), storageLogger)
		if err != nil {
			return ServiceOutput{}, fmt.Errorf("存储初始化失败：文件存储不可用: %w", err)
		}
		if storageLogger != nil {
			storageLogger.Info("✅ 文件内容存储初始化成功")
		}

	case "memory":
		store, err = memory.New(memoryconfig.NewFromOptions(provider.GetMemory()), storageLogger)
		if err != nil {
			return ServiceOutput{}, fmt.Errorf("存储初始化失败：内存存储不可用: %w", err)
		}
		if storageLogger != nil {
			storageLogger.Info("✅ 内存内容存储初始化成功")
		}

	default:
		return ServiceOutput{}, fmt.Errorf("未知的存储引擎: %s", engine)
	}

	if storageLogger != nil {
		storageLogger.Info("🎯 存储模块所有服务初始化完成")
	}

	return ServiceOutput{
		ContentStore: store,
	}, nil
}
