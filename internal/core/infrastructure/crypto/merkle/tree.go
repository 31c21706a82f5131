// Package merkle provides Merkle tree implementation with caching and parallel processing.
package merkle

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/weisyn/zkcompress/pkg/types"
	"golang.org/x/crypto/sha3"
)

// 错误定义
var (
	ErrEmptyHashList = errors.New("空哈希列表")
	ErrNilHash       = errors.New("存在空哈希")
)

// Node 默克尔树节点
type Node struct {
	Hash  types.ContentHash
	Left  *Node
	Right *Node
}

// TreeCache 默克尔树缓存
type TreeCache struct {
	// 叶子哈希列表的指纹作为键，根哈希作为值
	rootCache map[string]types.ContentHash
	mu        sync.RWMutex
}

// NewTreeCache 创建新的默克尔树缓存
func NewTreeCache() *TreeCache {
	return &TreeCache{
		rootCache: make(map[string]types.ContentHash),
	}
}

// GetRoot 从缓存获取根哈希
func (c *TreeCache) GetRoot(hashesKey string) (types.ContentHash, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// ContentHash是值类型，返回即副本
	root, ok := c.rootCache[hashesKey]
	return root, ok
}

// SetRoot 将根哈希添加到缓存
func (c *TreeCache) SetRoot(hashesKey string, root types.ContentHash) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.rootCache[hashesKey] = root
}

// 全局树缓存
var globalTreeCache = NewTreeCache()

// hashesFingerprint 计算哈希列表的指纹，用于缓存
// 指纹覆盖叶子数量和每个叶子的全部33字节，
// 不同的叶子列表不会映射到同一缓存键
func hashesFingerprint(hashes []types.ContentHash) string {
	h := sha256.New()

	var count [8]byte
	binary.BigEndian.PutUint64(count[:], uint64(len(hashes)))
	h.Write(count[:])

	for _, leaf := range hashes {
		h.Write(leaf[:])
	}

	return string(h.Sum(nil))
}

// nodePool 节点对象池，减少GC压力
var nodePool = sync.Pool{
	New: func() interface{} {
		return &Node{}
	},
}

// getNode 从池中获取一个节点
func getNode() *Node {
	return nodePool.Get().(*Node)
}

// validateLeaves 检查叶子列表非空且方案版本一致
//
// 返回:
//   - types.SchemeVersion: 所有叶子共同的方案版本
//   - error: 空列表、零值哈希或版本不一致时的错误
func validateLeaves(leaves []types.ContentHash) (types.SchemeVersion, error) {
	if len(leaves) == 0 {
		return 0, ErrEmptyHashList
	}

	version := leaves[0].Version()
	if !types.IsKnownScheme(version) {
		return 0, fmt.Errorf("%w: 0x%02x", types.ErrUnknownScheme, byte(version))
	}

	for i, leaf := range leaves {
		if leaf.IsZero() {
			return 0, fmt.Errorf("%w: 索引%d", ErrNilHash, i)
		}
		if leaf.Version() != version {
			return 0, fmt.Errorf("%w: 叶子%d为0x%02x，期望0x%02x",
				types.ErrSchemeMismatch, i, byte(leaf.Version()), byte(version))
		}
	}

	return version, nil
}

// ComputeRoot 计算一组哈希的默克尔根
// 此实现使用缓存提高重复计算的性能
//
// 参数:
//   - hashes: 要计算的叶子哈希列表（必须使用同一方案版本）
//
// 返回:
//   - types.ContentHash: 计算得到的默克尔根哈希
//   - error: 计算过程中的错误，成功时为nil
func ComputeRoot(hashes []types.ContentHash) (types.ContentHash, error) {
	var zero types.ContentHash

	if _, err := validateLeaves(hashes); err != nil {
		return zero, err
	}

	// 如果只有一个哈希，根就是叶子本身（高度为零的树）
	if len(hashes) == 1 {
		return hashes[0], nil
	}

	// 检查缓存
	fingerprintKey := hashesFingerprint(hashes)

	if cachedRoot, ok := globalTreeCache.GetRoot(fingerprintKey); ok {
		return cachedRoot, nil
	}

	// 使用并行构建优化性能
	root := parallelBuildTree(hashes)

	// 存入缓存
	globalTreeCache.SetRoot(fingerprintKey, root.Hash)

	return root.Hash, nil
}

// parallelBuildTree 并行构建默克尔树
func parallelBuildTree(hashes []types.ContentHash) *Node {
	// 构建叶子节点
	leaves := make([]*Node, len(hashes))
	for i, hash := range hashes {
		node := getNode()
		node.Hash = hash
		node.Left = nil
		node.Right = nil
		leaves[i] = node
	}

	// 构建树
	return buildTreeParallel(leaves)
}

// buildTreeParallel 并行构建树的上层，针对大型树提高性能
func buildTreeParallel(nodes []*Node) *Node {
	if len(nodes) == 0 {
		return nil
	}

	if len(nodes) == 1 {
		return nodes[0]
	}

	// 如果节点数为奇数，复制最后一个节点
	var nodesList []*Node
	if len(nodes)%2 != 0 {
		nodesList = make([]*Node, len(nodes)+1)
		copy(nodesList, nodes)
		nodesList[len(nodes)] = nodes[len(nodes)-1]
	} else {
		nodesList = nodes
	}

	// 计算下一层父节点数量
	numParents := len(nodesList) / 2

	// 对于大型树使用并行处理
	if numParents > 32 {
		return buildTreeParallelLarge(nodesList)
	}

	// 两两组合，构建上一层节点
	parents := make([]*Node, 0, numParents)
	for i := 0; i < len(nodesList); i += 2 {
		left := nodesList[i]
		right := nodesList[i+1]

		// 计算父节点哈希
		parent := getNode()
		parent.Hash = combineHashes(left.Hash, right.Hash)
		parent.Left = left
		parent.Right = right

		parents = append(parents, parent)
	}

	// 递归构建树的上层
	return buildTreeParallel(parents)
}

// buildTreeParallelLarge 使用goroutine并行处理大型树
// 并行只改变哈希计算的时刻，不改变叶子的逻辑顺序，
// 因此结果与串行构建完全一致
func buildTreeParallelLarge(nodes []*Node) *Node {
	numParents := len(nodes) / 2
	parents := make([]*Node, numParents)

	// 使用多个goroutine并行处理
	var wg sync.WaitGroup
	numGoroutines := 4

	// 计算每个goroutine处理的节点数
	nodesPerGoroutine := (numParents + numGoroutines - 1) / numGoroutines

	for g := 0; g < numGoroutines; g++ {
		wg.Add(1)

		go func(goroutineID int) {
			defer wg.Done()

			// 计算此goroutine处理的范围
			startIdx := goroutineID * nodesPerGoroutine * 2
			endIdx := (goroutineID + 1) * nodesPerGoroutine * 2
			if endIdx > len(nodes) {
				endIdx = len(nodes)
			}

			// 处理分配的节点
			for i := startIdx; i < endIdx; i += 2 {
				if i+1 >= len(nodes) {
					break
				}

				left := nodes[i]
				right := nodes[i+1]

				parent := getNode()
				parent.Hash = combineHashes(left.Hash, right.Hash)
				parent.Left = left
				parent.Right = right

				parents[i/2] = parent
			}
		}(g)
	}

	wg.Wait()

	// 递归构建树的上层
	return buildTreeParallel(parents)
}

// combineHashes 组合两个子节点哈希，计算父节点哈希
//
// 固定约定：父节点 = 版本字节 ++ 摘要(左33字节 ++ 右33字节)。
// 版本字节在每次哈希调用中恰好出现一次（作为子节点字节的一部分
// 进入摘要，作为前缀出现在输出中），摘要算法由版本字节选择
//
// 参数:
//   - left: 左侧哈希
//   - right: 右侧哈希
//
// 返回:
//   - types.ContentHash: 组合后的父节点哈希
func combineHashes(left, right types.ContentHash) types.ContentHash {
	// 将两个完整哈希连接起来
	combined := make([]byte, 0, types.ContentHashSize*2)
	combined = append(combined, left[:]...)
	combined = append(combined, right[:]...)

	var parent types.ContentHash
	parent[0] = left[0]

	switch types.SchemeVersion(left[0]) {
	case types.SchemeV2:
		hasher := sha3.NewLegacyKeccak256()
		hasher.Write(combined)
		copy(parent[1:], hasher.Sum(nil))
	default:
		digest := sha256.Sum256(combined)
		copy(parent[1:], digest[:])
	}

	return parent
}
