// Package file 提供基于文件系统的内容存储实现
//
// 载荷以内容寻址路径存放：{root}/{哈希前2位}/{完整哈希}，
// 两级目录避免单目录下文件过多
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	fileconfig "github.com/weisyn/zkcompress/internal/config/storage/file"
	log "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
	"github.com/weisyn/zkcompress/pkg/utils"
)

// Store 实现基于文件系统的ContentStore
type Store struct {
	root     string
	fileMode os.FileMode
	logger   log.Logger
}

var _ interfaces.ContentStore = (*Store)(nil)

// New 创建新的文件内容存储实例
func New(config *fileconfig.Config, logger log.Logger) (*Store, error) {
	root := config.GetPath()
	if root == "" {
		root = utils.ResolveDataPath("./data/payloads")
		logger.Warnf("文件存储路径未配置，使用默认路径: %s", root)
	}

	if err := utils.EnsureDir(root); err != nil {
		return nil, fmt.Errorf("无法创建文件存储目录: %w", err)
	}

	logger.Infof("初始化文件内容存储，目录: %s", root)

	return &Store{
		root:     root,
		fileMode: os.FileMode(config.GetFileMode()),
		logger:   logger,
	}, nil
}

// payloadPath 计算载荷的内容寻址路径
func (s *Store) payloadPath(hash types.ContentHash) string {
	return filepath.Join(s.root, utils.BuildContentAddressedPath(hash.Hex()))
}

// Put 以内容哈希为键存储载荷
//
// 写入是原子的：先写临时文件再重命名，崩溃不会留下半写的载荷。
// 目标文件已存在时直接成功（内容寻址下内容必然一致）
func (s *Store) Put(ctx context.Context, hash types.ContentHash, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := s.payloadPath(hash)

	// 已存在即幂等成功
	if _, err := os.Stat(target); err == nil {
		return nil
	}

	if err := utils.EnsureDir(filepath.Dir(target)); err != nil {
		return fmt.Errorf("无法创建载荷目录: %w", err)
	}

	// 临时文件与目标文件同目录，保证rename不跨文件系统
	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("无法创建临时文件: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("写入载荷失败 %s: %w", hash.Hex(), err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("同步载荷失败 %s: %w", hash.Hex(), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("关闭临时文件失败: %w", err)
	}

	if err := os.Chmod(tmpName, s.fileMode); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("设置载荷文件权限失败: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("提交载荷失败 %s: %w", hash.Hex(), err)
	}

	return nil
}

// Get 按内容哈希读取载荷
func (s *Store) Get(ctx context.Context, hash types.ContentHash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	payload, err := os.ReadFile(s.payloadPath(hash))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", interfaces.ErrNotFound, hash.Hex())
	}
	if err != nil {
		return nil, fmt.Errorf("读取载荷失败 %s: %w", hash.Hex(), err)
	}

	return payload, nil
}

// Has 检查内容是否已存储
func (s *Store) Has(ctx context.Context, hash types.ContentHash) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := os.Stat(s.payloadPath(hash))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("检查载荷存在性失败: %w", err)
	}

	return true, nil
}

// Delete 删除指定内容
func (s *Store) Delete(ctx context.Context, hash types.ContentHash) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(s.payloadPath(hash))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("删除载荷失败 %s: %w", hash.Hex(), err)
	}

	return nil
}

// Close 关闭存储
// 文件存储无持有资源，每次写入已同步落盘
func (s *Store) Close() error {
	return nil
}
