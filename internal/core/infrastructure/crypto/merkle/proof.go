package merkle

import (
	"context"
	"crypto/subtle"
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"github.com/weisyn/zkcompress/pkg/types"
)

// ProofOptions 证明生成与验证的选项
type ProofOptions struct {
	// Timeout 生成证明的超时时间，零值表示不限制
	Timeout time.Duration

	// ConstantTime 验证时使用常数时间比较，防止时序侧信道
	ConstantTime bool
}

// DefaultProofOptions 返回默认选项
func DefaultProofOptions() *ProofOptions {
	return &ProofOptions{
		Timeout:      30 * time.Second,
		ConstantTime: false,
	}
}

// ProofCache 默克尔证明缓存
type ProofCache struct {
	// 叶子列表指纹+目标索引作为键，证明作为值
	cache map[string]*types.Proof
	mu    sync.RWMutex
}

// NewProofCache 创建新的证明缓存
func NewProofCache() *ProofCache {
	return &ProofCache{
		cache: make(map[string]*types.Proof),
	}
}

// Get 从缓存获取证明，返回副本而非引用
func (c *ProofCache) Get(key string) (*types.Proof, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.cache[key]
	if !ok {
		return nil, false
	}

	return copyProof(entry), true
}

// Set 设置证明到缓存，存储副本而非引用
func (c *ProofCache) Set(key string, proof *types.Proof) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = copyProof(proof)
}

func copyProof(proof *types.Proof) *types.Proof {
	dup := &types.Proof{
		LeafIndex:  proof.LeafIndex,
		Siblings:   make([]types.ContentHash, len(proof.Siblings)),
		Directions: make([]bool, len(proof.Directions)),
	}
	copy(dup.Siblings, proof.Siblings)
	copy(dup.Directions, proof.Directions)
	return dup
}

// 全局证明缓存
var globalProofCache = NewProofCache()

// proofCacheKey 生成证明缓存的键
func proofCacheKey(hashes []types.ContentHash, targetIdx int) string {
	fingerprint := hashesFingerprint(hashes)

	// 将目标索引附加到指纹末尾
	result := make([]byte, len(fingerprint)+4)
	copy(result, fingerprint)
	binary.BigEndian.PutUint32(result[len(fingerprint):], uint32(targetIdx))

	return string(result)
}

// GenerateProof 为指定索引的叶子生成默克尔证明
//
// 参数:
//   - hashes: 叶子哈希列表
//   - targetIdx: 目标叶子的索引
//
// 返回:
//   - *types.Proof: 生成的证明
//   - error: 生成过程中的错误，成功时为nil
func GenerateProof(hashes []types.ContentHash, targetIdx int) (*types.Proof, error) {
	return GenerateProofWithOptions(context.Background(), hashes, targetIdx, DefaultProofOptions())
}

// GenerateProofWithOptions 使用自定义选项生成默克尔证明
//
// 证明由兄弟哈希列表和方向列表组成：方向为true表示兄弟在右侧
// （当前节点为左子节点），false表示兄弟在左侧
func GenerateProofWithOptions(ctx context.Context, hashes []types.ContentHash, targetIdx int, options *ProofOptions) (*types.Proof, error) {
	if options == nil {
		options = DefaultProofOptions()
	}

	if _, err := validateLeaves(hashes); err != nil {
		return nil, err
	}

	if targetIdx < 0 || targetIdx >= len(hashes) {
		return nil, fmt.Errorf("%w: 索引%d超出范围[0, %d)",
			types.ErrIndexOutOfRange, targetIdx, len(hashes))
	}

	// 设置超时控制
	if options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, options.Timeout)
		defer cancel()
	}

	// 检查缓存
	cacheKey := proofCacheKey(hashes, targetIdx)
	if cached, ok := globalProofCache.Get(cacheKey); ok {
		return cached, nil
	}

	proof := &types.Proof{
		LeafIndex:  targetIdx,
		Siblings:   make([]types.ContentHash, 0, 16),
		Directions: make([]bool, 0, 16),
	}

	// 单叶子树的证明为空
	if len(hashes) == 1 {
		globalProofCache.Set(cacheKey, proof)
		return proof, nil
	}

	// 逐层向上收集兄弟哈希
	level := make([]types.ContentHash, len(hashes))
	copy(level, hashes)
	idx := targetIdx

	for len(level) > 1 {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("生成证明超时: %w", ctx.Err())
		default:
		}

		// 奇数层复制最后一个节点
		if len(level)%2 != 0 {
			level = append(level, level[len(level)-1])
		}

		if idx%2 == 0 {
			// 当前节点在左，兄弟在右
			proof.Siblings = append(proof.Siblings, level[idx+1])
			proof.Directions = append(proof.Directions, true)
		} else {
			// 当前节点在右，兄弟在左
			proof.Siblings = append(proof.Siblings, level[idx-1])
			proof.Directions = append(proof.Directions, false)
		}

		// 构建上一层
		next := make([]types.ContentHash, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, combineHashes(level[i], level[i+1]))
		}

		level = next
		idx /= 2
	}

	// 存入缓存
	globalProofCache.Set(cacheKey, proof)

	return proof, nil
}

// VerifyProof 验证默克尔证明
// 不匹配的证明返回false而非错误；格式错误的入参同样返回false
//
// 参数:
//   - leaf: 待验证的叶子哈希
//   - proof: 默克尔证明
//   - root: 期望的根哈希
//
// 返回:
//   - bool: 验证是否通过
func VerifyProof(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) bool {
	return VerifyProofWithOptions(leaf, proof, root, nil)
}

// VerifyProofWithOptions 使用自定义选项验证默克尔证明
// 比较方式由options.ConstantTime控制；错误语义与VerifyProof相同，
// 任何结构性错误均返回false
func VerifyProofWithOptions(leaf types.ContentHash, proof *types.Proof, root types.ContentHash, options *ProofOptions) bool {
	if options == nil {
		options = DefaultProofOptions()
	}

	ok, err := verifyProof(leaf, proof, root, options.ConstantTime)
	if err != nil {
		return false
	}
	return ok
}

// VerifyProofStrict 严格验证默克尔证明
// 与VerifyProof的区别在于：结构性错误（格式错误的证明、方案版本
// 不一致）作为显式错误返回，与计算正确但根不匹配的情况区分开
//
// 返回:
//   - bool: 验证是否通过
//   - error: 结构性错误，纯粹的根不匹配时为nil
func VerifyProofStrict(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) (bool, error) {
	return verifyProof(leaf, proof, root, false)
}

func verifyProof(leaf types.ContentHash, proof *types.Proof, root types.ContentHash, constantTime bool) (bool, error) {
	if proof == nil {
		return false, fmt.Errorf("%w: 证明为空", types.ErrMalformedProof)
	}

	if err := proof.Validate(); err != nil {
		return false, err
	}

	version := leaf.Version()
	if !types.IsKnownScheme(version) {
		return false, fmt.Errorf("%w: 0x%02x", types.ErrUnknownScheme, byte(version))
	}

	// 叶子、所有兄弟和根必须使用同一方案版本
	if root.Version() != version {
		return false, fmt.Errorf("%w: 根为0x%02x，叶子为0x%02x",
			types.ErrSchemeMismatch, byte(root.Version()), byte(version))
	}

	for i, sibling := range proof.Siblings {
		if sibling.Version() != version {
			return false, fmt.Errorf("%w: 兄弟%d为0x%02x，期望0x%02x",
				types.ErrSchemeMismatch, i, byte(sibling.Version()), byte(version))
		}
	}

	// 从叶子沿证明路径重建根
	current := leaf
	for i, sibling := range proof.Siblings {
		if proof.Directions[i] {
			// 兄弟在右侧
			current = combineHashes(current, sibling)
		} else {
			// 兄弟在左侧
			current = combineHashes(sibling, current)
		}
	}

	if constantTime {
		return subtle.ConstantTimeCompare(current[:], root[:]) == 1, nil
	}

	return current.Equal(root), nil
}
