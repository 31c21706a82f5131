// Package hash 提供版本化的内容哈希功能
package hash

import (
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"sync"

	cryptointf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/zkcompress/pkg/types"
	"golang.org/x/crypto/sha3"
)

// 确保Hasher实现了cryptointf.ContentHasher接口
var _ cryptointf.ContentHasher = (*Hasher)(nil)

// HashCache 简单的哈希缓存结构
type HashCache struct {
	cache map[string]types.ContentHash
	mu    sync.RWMutex
}

// NewHashCache 创建新的哈希缓存
func NewHashCache() *HashCache {
	return &HashCache{
		cache: make(map[string]types.ContentHash),
	}
}

// Get 从缓存获取哈希值
func (c *HashCache) Get(key string) (types.ContentHash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// ContentHash是值类型，返回即副本
	value, ok := c.cache[key]
	return value, ok
}

// Set 设置缓存中的哈希值
func (c *HashCache) Set(key string, value types.ContentHash) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[key] = value
}

// cacheKey 根据数据生成缓存键
// 使用SHA256哈希作为缓存键，确保唯一性，
// 避免因数据截断导致的缓存键冲突
func cacheKey(data []byte) string {
	keyHash := sha256.Sum256(data)
	return string(keyHash[:])
}

// Hasher 提供绑定单一方案版本的内容哈希计算
//
// 确定性契约：相同输入的重复调用产生逐字节相同的内容哈希，
// 无随机性、无机器相关状态
type Hasher struct {
	version types.SchemeVersion

	// 缓存最近的哈希结果，避免重复计算
	cache *HashCache
}

// NewHasher 创建指定方案版本的内容哈希器
//
// 参数:
//   - version: 方案版本（SchemeV1=SHA-256, SchemeV2=Keccak-256）
//
// 返回:
//   - *Hasher: 哈希器实例
//   - error: 未知版本时返回types.ErrUnknownScheme
func NewHasher(version types.SchemeVersion) (*Hasher, error) {
	if !types.IsKnownScheme(version) {
		return nil, fmt.Errorf("%w: 0x%02x", types.ErrUnknownScheme, byte(version))
	}
	return &Hasher{
		version: version,
		cache:   NewHashCache(),
	}, nil
}

// Version 返回哈希器绑定的方案版本
func (h *Hasher) Version() types.SchemeVersion {
	return h.version
}

// Sum 计算数据的内容哈希
//
// 参数:
//   - data: 要计算哈希的数据，nil视为空输入
//
// 返回:
//   - types.ContentHash: 版本字节 ++ 32字节摘要
func (h *Hasher) Sum(data []byte) types.ContentHash {
	// 检查缓存
	key := cacheKey(data)
	if cachedHash, ok := h.cache.Get(key); ok {
		return cachedHash
	}

	// 计算摘要
	result := h.digest(data)

	// 存入缓存
	h.cache.Set(key, result)
	return result
}

// SumString 计算字符串的内容哈希
// 字符串按UTF-8字节序列编码，不做任何本地化转换
func (h *Hasher) SumString(s string) types.ContentHash {
	return h.Sum([]byte(s))
}

// digest 按方案版本计算摘要并加上版本字节前缀
func (h *Hasher) digest(data []byte) types.ContentHash {
	var out types.ContentHash
	out[0] = byte(h.version)

	switch h.version {
	case types.SchemeV2:
		// 遗留方案：Keccak-256
		hasher := sha3.NewLegacyKeccak256()
		hasher.Write(data)
		copy(out[1:], hasher.Sum(nil))
	default:
		// 当前方案：SHA-256
		digest := sha256.Sum256(data)
		copy(out[1:], digest[:])
	}

	return out
}

// Factory 按方案版本创建哈希器，复用已创建的实例以共享缓存
type Factory struct {
	mu      sync.Mutex
	hashers map[types.SchemeVersion]*Hasher
}

// 确保Factory实现了cryptointf.HasherFactory接口
var _ cryptointf.HasherFactory = (*Factory)(nil)

// NewFactory 创建哈希器工厂
func NewFactory() *Factory {
	return &Factory{
		hashers: make(map[types.SchemeVersion]*Hasher),
	}
}

// ForVersion 返回指定方案版本的哈希器
func (f *Factory) ForVersion(version types.SchemeVersion) (cryptointf.ContentHasher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if hasher, ok := f.hashers[version]; ok {
		return hasher, nil
	}

	hasher, err := NewHasher(version)
	if err != nil {
		return nil, err
	}
	f.hashers[version] = hasher
	return hasher, nil
}

// ConstantTimeCompare 在常量时间内比较两个哈希值是否相等
// 用于防止时序攻击，无论何时都会比较整个字节数组
//
// 参数:
//   - a: 第一个哈希值
//   - b: 第二个哈希值
//
// 返回:
//   - bool: 如果两个哈希值相等返回true，否则返回false
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
