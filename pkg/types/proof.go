package types

import "fmt"

// Proof 默克尔包含证明
// 自底向上的兄弟哈希路径，配合方向指示和叶子索引可以独立重算根哈希。
// 这是唯一需要跨进程/跨语言传输的产物，JSON编码使用十六进制哈希字符串
type Proof struct {
	// LeafIndex 叶子在批次中的位置（从0开始）
	LeafIndex int `json:"leaf_index"`

	// Siblings 自底向上的兄弟哈希列表
	Siblings []ContentHash `json:"siblings"`

	// Directions 每层的方向指示，true表示兄弟在右侧
	// 与Siblings等长
	Directions []bool `json:"directions"`
}

// Validate 检查证明的结构完整性
// 结构错误（长度不一致、负索引）是输入错误；
// 证明内容与根不符不属于结构错误，由验证器返回false
func (p *Proof) Validate() error {
	if p == nil {
		return ErrMalformedProof
	}
	if p.LeafIndex < 0 {
		return fmt.Errorf("%w: 负叶子索引%d", ErrMalformedProof, p.LeafIndex)
	}
	if len(p.Siblings) != len(p.Directions) {
		return fmt.Errorf("%w: 兄弟数%d与方向数%d不一致",
			ErrMalformedProof, len(p.Siblings), len(p.Directions))
	}
	return nil
}

// BatchResult 一次批次压缩的结果
// Root是唯一提交给账本协作方的值；Proofs用于事后对任意单个载荷做包含性验证
type BatchResult struct {
	// BatchID 批次标识
	BatchID string `json:"batch_id"`

	// Version 本批次使用的哈希方案版本
	Version SchemeVersion `json:"version"`

	// Root 整个批次的默克尔根
	Root ContentHash `json:"root"`

	// LeafHashes 按输入顺序排列的叶子哈希
	LeafHashes []ContentHash `json:"leaf_hashes"`

	// Proofs 叶子索引到包含证明的映射
	Proofs map[int]*Proof `json:"proofs"`
}
