package merkle

import (
	"fmt"

	cryptointf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/crypto"
	"github.com/weisyn/zkcompress/pkg/types"
)

// Tree 已构建的默克尔树
// 保留叶子副本，根在构建时计算，证明按需从叶子重算。
// 对于批次规模的树，重算路径比保留全部中间层更省内存
type Tree struct {
	leaves []types.ContentHash
	root   types.ContentHash
}

var _ cryptointf.MerkleTree = (*Tree)(nil)

// Root 返回树的根哈希
func (t *Tree) Root() types.ContentHash {
	return t.root
}

// LeafCount 返回原始叶子数量
func (t *Tree) LeafCount() int {
	return len(t.leaves)
}

// Proof 提取指定索引叶子的包含证明
func (t *Tree) Proof(index int) (*types.Proof, error) {
	return GenerateProof(t.leaves, index)
}

// Service 默克尔树管理服务
type Service struct{}

var _ cryptointf.MerkleTreeManager = (*Service)(nil)

// NewService 创建默克尔树管理服务
func NewService() *Service {
	return &Service{}
}

// BuildTree 从有序叶子哈希列表构建默克尔树
func (s *Service) BuildTree(leaves []types.ContentHash) (cryptointf.MerkleTree, error) {
	root, err := ComputeRoot(leaves)
	if err != nil {
		return nil, fmt.Errorf("构建默克尔树失败: %w", err)
	}

	// 复制叶子，防止调用方后续修改影响证明生成
	leavesCopy := make([]types.ContentHash, len(leaves))
	copy(leavesCopy, leaves)

	return &Tree{
		leaves: leavesCopy,
		root:   root,
	}, nil
}

// ComputeRoot 只计算根哈希
func (s *Service) ComputeRoot(leaves []types.ContentHash) (types.ContentHash, error) {
	return ComputeRoot(leaves)
}

// VerifyProof 验证包含证明
func (s *Service) VerifyProof(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) bool {
	return VerifyProof(leaf, proof, root)
}

// VerifyProofStrict 带结构检查的验证
func (s *Service) VerifyProofStrict(leaf types.ContentHash, proof *types.Proof, root types.ContentHash) (bool, error) {
	return VerifyProofStrict(leaf, proof, root)
}
