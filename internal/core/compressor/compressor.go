// Package compressor 提供批次压缩服务
//
// 🗜️ **批次压缩器 (Batch Compressor)**
//
// 将一组链下载荷压缩为单一默克尔根承诺：
// - 对每个载荷计算内容哈希（叶子顺序即输入顺序）
// - 构建默克尔树并为每个叶子生成包含证明
// - 将所有载荷以内容哈希为键持久化到内容存储
//
// 只有根哈希需要提交给账本协作方，单个载荷的存在性
// 可以凭叶子哈希、证明和根独立验证
package compressor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	compressorconfig "github.com/weisyn/zkcompress/internal/config/compressor"
	cryptointf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	storageintf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/zkcompress/pkg/types"
	"github.com/google/uuid"
)

// 错误定义
var (
	// ErrBatchTooLarge 批次载荷数超过配置上限
	ErrBatchTooLarge = errors.New("批次超过大小上限")

	// ErrContentMismatch 读回的载荷与其内容哈希不符
	ErrContentMismatch = errors.New("内容与哈希不符")
)

// Compressor 批次压缩服务
type Compressor struct {
	factory cryptointf.HasherFactory
	merkle  cryptointf.MerkleTreeManager
	store   storageintf.ContentStore
	logger  log.Logger
	options *compressorconfig.CompressorOptions
}

// New 创建批次压缩服务
func New(
	factory cryptointf.HasherFactory,
	merkle cryptointf.MerkleTreeManager,
	store storageintf.ContentStore,
	logger log.Logger,
	options *compressorconfig.CompressorOptions,
) (*Compressor, error) {
	if factory == nil || merkle == nil || store == nil {
		return nil, errors.New("压缩服务依赖不完整")
	}
	if logger == nil {
		logger = nopLogger{}
	}
	if options == nil {
		options = compressorconfig.New(nil).GetOptions()
	}
	if !types.IsKnownScheme(options.SchemeVersion) {
		return nil, fmt.Errorf("%w: 0x%02x", types.ErrUnknownScheme, byte(options.SchemeVersion))
	}

	return &Compressor{
		factory: factory,
		merkle:  merkle,
		store:   store,
		logger:  logger,
		options: options,
	}, nil
}

// Compress 将一批载荷压缩为默克尔根承诺
//
// 叶子顺序严格等于输入顺序。所有载荷在返回前持久化到内容存储；
// 首个写入失败中止压缩并返回携带失败哈希的错误。内容寻址下
// 写入是幂等的，已完成的写入无需回滚
//
// 参数:
//   - ctx: 上下文，取消后放弃未完成的持久化
//   - payloads: 原始载荷列表，不允许为空
//
// 返回:
//   - *types.BatchResult: 批次标识、根哈希、叶子哈希和全部证明
//   - error: 压缩过程中的错误
func (c *Compressor) Compress(ctx context.Context, payloads [][]byte) (*types.BatchResult, error) {
	if len(payloads) == 0 {
		return nil, types.ErrEmptyBatch
	}
	if c.options.MaxBatchSize > 0 && len(payloads) > c.options.MaxBatchSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(payloads), c.options.MaxBatchSize)
	}

	hasher, err := c.factory.ForVersion(c.options.SchemeVersion)
	if err != nil {
		return nil, fmt.Errorf("获取哈希器失败: %w", err)
	}

	batchID := uuid.New().String()
	c.logger.Infof("开始压缩批次 %s，载荷数: %d，方案版本: 0x%02x",
		batchID, len(payloads), byte(c.options.SchemeVersion))

	// 计算叶子哈希，顺序即输入顺序
	leaves := make([]types.ContentHash, len(payloads))
	for i, payload := range payloads {
		leaves[i] = hasher.Sum(payload)
	}

	// 构建默克尔树
	tree, err := c.merkle.BuildTree(leaves)
	if err != nil {
		return nil, fmt.Errorf("批次 %s 构建默克尔树失败: %w", batchID, err)
	}

	// 为每个叶子生成包含证明
	proofs := make(map[int]*types.Proof, len(leaves))
	for i := range leaves {
		proof, err := tree.Proof(i)
		if err != nil {
			return nil, fmt.Errorf("批次 %s 生成证明失败（叶子%d）: %w", batchID, i, err)
		}
		proofs[i] = proof
	}

	// 持久化所有载荷
	if err := c.persistPayloads(ctx, leaves, payloads); err != nil {
		return nil, fmt.Errorf("批次 %s 持久化失败: %w", batchID, err)
	}

	c.logger.Infof("批次 %s 压缩完成，根: %s", batchID, tree.Root().Hex())

	return &types.BatchResult{
		BatchID:    batchID,
		Version:    c.options.SchemeVersion,
		Root:       tree.Root(),
		LeafHashes: leaves,
		Proofs:     proofs,
	}, nil
}

// persistPayloads 有界并发地将载荷写入内容存储
//
// 信号量限制并发写入数；首个错误通过context取消其余写入。
// 取消只是放弃未开始的写入，已完成的内容寻址写入保持原样
func (c *Compressor) persistPayloads(ctx context.Context, leaves []types.ContentHash, payloads [][]byte) error {
	workers := c.options.MaxPersistWorkers
	if workers <= 0 {
		workers = 1
	}

	persistCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := make(chan struct{}, workers)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	setErr := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for i := range payloads {
		// 已出错或上层取消时不再启动新的写入
		select {
		case <-persistCtx.Done():
		case sem <- struct{}{}:
			wg.Add(1)
			go func(hash types.ContentHash, payload []byte) {
				defer wg.Done()
				defer func() { <-sem }()

				if err := c.store.Put(persistCtx, hash, payload); err != nil {
					setErr(fmt.Errorf("持久化内容 %s 失败: %w", hash.Hex(), err))
				}
			}(leaves[i], payloads[i])
		}
	}

	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if firstErr != nil {
		return firstErr
	}

	// 所有写入启动前上层context已取消的情况
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Verify 验证叶子哈希的包含证明
// 证明与根不符返回false而非错误
func (c *Compressor) Verify(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) bool {
	return c.merkle.VerifyProof(leaf, proof, root)
}

// VerifyStrict 带结构和方案版本检查的验证
func (c *Compressor) VerifyStrict(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) (bool, error) {
	return c.merkle.VerifyProofStrict(leaf, proof, root)
}

// Retrieve 按内容哈希读回载荷并校验内容寻址
//
// 读回后按哈希自带的方案版本重新计算哈希，与请求哈希不符时
// 返回ErrContentMismatch，说明存储内容已被破坏
func (c *Compressor) Retrieve(ctx context.Context, hash types.ContentHash) ([]byte, error) {
	payload, err := c.store.Get(ctx, hash)
	if err != nil {
		return nil, err
	}

	hasher, err := c.factory.ForVersion(hash.Version())
	if err != nil {
		return nil, fmt.Errorf("读回校验失败: %w", err)
	}

	if recomputed := hasher.Sum(payload); !recomputed.Equal(hash) {
		return nil, fmt.Errorf("%w: 期望%s，实际%s", ErrContentMismatch, hash.Hex(), recomputed.Hex())
	}

	return payload, nil
}
