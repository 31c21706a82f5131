// Package memory 提供基于BigCache的内存内容存储实现
//
// 内存引擎主要服务于测试和临时批次场景：进程退出后数据丢失，
// 达到容量上限或生命周期窗口后旧条目会被淘汰
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"
	memoryconfig "github.com/weisyn/zkcompress/internal/config/storage/memory"
	"github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
)

// Store 实现基于BigCache的ContentStore
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	config *memoryconfig.Config

	mutex  sync.Mutex
	closed bool
}

var _ interfaces.ContentStore = (*Store)(nil)

// New 创建一个新的BigCache内容存储实例
func New(config *memoryconfig.Config, logger log.Logger) (*Store, error) {
	// 解析配置的生命周期窗口
	lifeWindow, err := time.ParseDuration(config.GetLifeWindow())
	if err != nil {
		logger.Errorf("解析生命周期窗口失败: %v", err)
		lifeWindow = 10 * time.Minute // 默认值
	}

	// 解析清理窗口
	cleanWindow, err := time.ParseDuration(config.GetCleanWindow())
	if err != nil {
		logger.Errorf("解析清理窗口失败: %v", err)
		cleanWindow = 5 * time.Minute // 默认值
	}

	// 使用配置参数设置BigCache
	bigCacheConfig := bigcache.DefaultConfig(lifeWindow)
	bigCacheConfig.CleanWindow = cleanWindow
	bigCacheConfig.HardMaxCacheSize = config.GetMaxSizeMB()
	bigCacheConfig.Shards = 1024 // 使用合理的默认分片数

	// 创建BigCache实例
	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	return &Store{
		cache:  cache,
		logger: logger,
		config: config,
	}, nil
}

// 缓存键为内容哈希的十六进制表示
func contentKey(hash types.ContentHash) string {
	return hash.Hex()
}

// Put 以内容哈希为键存储载荷
func (s *Store) Put(ctx context.Context, hash types.ContentHash, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := s.cache.Set(contentKey(hash), payload); err != nil {
		s.logger.Warnf("内存存储写入失败[%s]: %v", hash.Hex(), err)
		return fmt.Errorf("内存存储写入内容失败: %w", err)
	}

	return nil
}

// Get 按内容哈希读取载荷
func (s *Store) Get(ctx context.Context, hash types.ContentHash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := s.cache.Get(contentKey(hash))
	if err == bigcache.ErrEntryNotFound {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, hash.Hex())
	}
	if err != nil {
		s.logger.Warnf("内存存储读取失败[%s]: %v", hash.Hex(), err)
		return nil, fmt.Errorf("内存存储读取内容失败: %w", err)
	}

	return payload, nil
}

// Has 检查内容是否已存储
func (s *Store) Has(ctx context.Context, hash types.ContentHash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := s.cache.Get(contentKey(hash))
	if err == bigcache.ErrEntryNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("内存存储检查内容失败: %w", err)
	}

	return true, nil
}

// Delete 删除指定内容
func (s *Store) Delete(ctx context.Context, hash types.ContentHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.cache.Delete(contentKey(hash))
	if err != nil && err != bigcache.ErrEntryNotFound {
		return fmt.Errorf("内存存储删除内容失败: %w", err)
	}

	return nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		s.logger.Info("内存存储已关闭，跳过重复关闭")
		return nil
	}

	s.logger.Info("关闭内存存储")
	err := s.cache.Close()
	if err == nil {
		s.closed = true
	}
	return err
}
