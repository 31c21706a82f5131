// Package crypto 提供系统的默克尔树接口定义
//
// 🌲 **默克尔承诺服务 (Merkle Commitment Service)**
//
// 本文件定义了批次压缩系统的默克尔树接口，专注于：
// - 根计算：对有序叶子哈希列表计算单一承诺根
// - 包含证明：按叶子索引提取兄弟路径
// - 独立验证：仅凭叶子哈希、证明和根哈希重算验证，不依赖完整批次
//
// 🔧 **固定约定（跨实现一致性的关键）**：
// - 父节点 = 版本字节 ++ 摘要(左33字节 ++ 右33字节)
// - 奇数节点层：复制孤立节点与自身配对
// - 单叶子批次：根等于叶子本身
// - 方向指示：true表示兄弟在右侧
package crypto

import (
	"github.com/weisyn/zkcompress/pkg/types"
)

// MerkleTree 已构建的默克尔树
//
// 树是每批次重建的临时结构，只有根和证明会被持久化
type MerkleTree interface {
	// Root 返回树的根哈希
	Root() types.ContentHash

	// LeafCount 返回原始叶子数量（不含复制节点）
	LeafCount() int

	// Proof 提取指定索引叶子的包含证明
	// 索引超出范围返回types.ErrIndexOutOfRange，不返回nil证明
	Proof(index int) (*types.Proof, error)
}

// MerkleTreeManager 定义默克尔树构建与验证接口
type MerkleTreeManager interface {
	// BuildTree 从有序叶子哈希列表构建默克尔树
	// 空列表返回错误；所有叶子必须使用同一方案版本
	BuildTree(leaves []types.ContentHash) (MerkleTree, error)

	// ComputeRoot 只计算根哈希的快速路径
	// 根是有序叶子列表的纯函数：交换任意两个叶子会改变根
	ComputeRoot(leaves []types.ContentHash) (types.ContentHash, error)

	// VerifyProof 验证包含证明
	// 证明与根不符是验证的正常结果，返回false而非错误
	VerifyProof(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) bool

	// VerifyProofStrict 带结构检查的验证
	// 结构错误和方案版本不匹配返回显式错误，内容不符返回(false, nil)
	VerifyProofStrict(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) (bool, error)
}
