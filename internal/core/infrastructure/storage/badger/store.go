// Package badger 提供基于BadgerDB的内容存储实现
package badger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
	badgerconfig "github.com/weisyn/zkcompress/internal/config/storage/badger"
	log "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
	"github.com/weisyn/zkcompress/pkg/utils"
	"go.uber.org/zap"
)

// 内容键前缀，与未来可能的元数据键区分
const contentKeyPrefix = "content/"

// Store 实现基于BadgerDB的ContentStore
type Store struct {
	db     *badgerdb.DB
	config *badgerconfig.Config
	logger log.Logger

	// 避免Close过程中仍被写入，触发Badger内部断言的fatal退出
	closing int32
	writeWg sync.WaitGroup
}

var _ interfaces.ContentStore = (*Store)(nil)

// New 创建新的BadgerDB内容存储实例
func New(config *badgerconfig.Config, logger log.Logger) (*Store, error) {
	if logger == nil {
		logger = nopLogger{}
	}

	// 确保数据目录存在
	dataDir := config.GetPath()
	if dataDir == "" {
		// 使用默认路径作为备用，确保路径解析正确
		dataDir = utils.ResolveDataPath("./data/badger")
		logger.Warnf("BadgerDB数据目录路径未配置，使用默认路径: %s", dataDir)
	}

	logger.Infof("初始化BadgerDB内容存储，数据目录: %s", dataDir)

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("无法创建BadgerDB数据目录: %w", err)
	}

	// 创建BadgerDB配置
	opts := badgerdb.DefaultOptions(dataDir)
	opts.SyncWrites = config.IsSyncWritesEnabled()
	opts.MemTableSize = config.GetMemTableSize()

	// 降低ValueLogFileSize减少mmap虚拟地址占用
	opts.ValueLogFileSize = 512 << 20

	// 内容载荷以顺序写入为主，保守的缓存和压缩线程配置即可
	opts.BlockCacheSize = 64 << 20
	opts.IndexCacheSize = 64 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2

	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("无法打开BadgerDB: %w", err)
	}

	logger.Info("BadgerDB内容存储初始化完成")

	return &Store{
		db:     db,
		config: config,
		logger: logger,
	}, nil
}

// nopLogger 用于在测试/工具链等logger未注入时，避免nil指针崩溃
// 生产环境应通过DI注入真实logger
type nopLogger struct{}

func (nopLogger) Debug(string)                  {}
func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Info(string)                   {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warn(string)                   {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Error(string)                  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Fatal(string)                  {}
func (nopLogger) Fatalf(string, ...interface{}) {}
func (nopLogger) With(...interface{}) log.Logger { return nopLogger{} }
func (nopLogger) Sync() error                    { return nil }
func (nopLogger) GetZapLogger() *zap.Logger      { return zap.NewNop() }

func contentKey(hash types.ContentHash) []byte {
	key := make([]byte, 0, len(contentKeyPrefix)+types.ContentHashSize)
	key = append(key, contentKeyPrefix...)
	key = append(key, hash[:]...)
	return key
}

func (s *Store) beginWrite() (func(), error) {
	// 关闭过程中拒绝写入
	if atomic.LoadInt32(&s.closing) == 1 {
		return nil, fmt.Errorf("badger存储正在关闭")
	}
	s.writeWg.Add(1)
	// double-check，避免在Add之后进入closing
	if atomic.LoadInt32(&s.closing) == 1 {
		s.writeWg.Done()
		return nil, fmt.Errorf("badger存储正在关闭")
	}
	return s.writeWg.Done, nil
}

// Put 以内容哈希为键存储载荷
// 内容寻址保证幂等：重复写入同一哈希不改变存储状态
func (s *Store) Put(ctx context.Context, hash types.ContentHash, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	err = s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(contentKey(hash), payload)
	})
	if err != nil {
		return fmt.Errorf("badger写入内容失败 %s: %w", hash.Hex(), err)
	}

	return nil
}

// Get 按内容哈希读取载荷
func (s *Store) Get(ctx context.Context, hash types.ContentHash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var valCopy []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(contentKey(hash))
		if err != nil {
			return err
		}

		// 复制值，事务结束后item不再有效
		valCopy, err = item.ValueCopy(nil)
		return err
	})

	if err == badgerdb.ErrKeyNotFound {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, hash.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("badger读取内容失败 %s: %w", hash.Hex(), err)
	}

	return valCopy, nil
}

// Has 检查内容是否已存储
func (s *Store) Has(ctx context.Context, hash types.ContentHash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var exists bool
	err := s.db.View(func(txn *badgerdb.Txn) error {
		_, err := txn.Get(contentKey(hash))
		if err == badgerdb.ErrKeyNotFound {
			exists = false
			return nil
		}
		if err != nil {
			return err
		}
		exists = true
		return nil
	})

	if err != nil {
		return false, fmt.Errorf("badger检查内容存在性失败: %w", err)
	}

	return exists, nil
}

// Delete 删除指定内容
func (s *Store) Delete(ctx context.Context, hash types.ContentHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	err = s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete(contentKey(hash))
	})
	if err != nil {
		return fmt.Errorf("badger删除内容失败 %s: %w", hash.Hex(), err)
	}

	return nil
}

// Close 关闭存储并释放资源
func (s *Store) Close() error {
	// 进入关闭态：阻断后续写入，并等待in-flight写完成
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil
	}

	s.logger.Info("开始关闭BadgerDB内容存储...")

	if s.db == nil {
		return nil
	}

	// 等待所有写事务退出，避免Close过程中仍有Update写入
	waitCh := make(chan struct{})
	go func() {
		s.writeWg.Wait()
		close(waitCh)
	}()
	select {
	case <-waitCh:
	case <-time.After(30 * time.Second):
		s.logger.Warn("等待in-flight写事务超时（30s），继续关闭BadgerDB")
	}

	if err := s.db.Close(); err != nil {
		// LOCK文件不存在通常是正常的关闭过程，只记录警告
		if strings.Contains(err.Error(), "LOCK: no such file or directory") {
			s.logger.Warn("BadgerDB LOCK文件已不存在")
		} else {
			return fmt.Errorf("关闭BadgerDB失败: %w", err)
		}
	}

	s.logger.Info("BadgerDB内容存储已安全关闭")
	return nil
}
