package merkle

import (
	"errors"
	"testing"

	"github.com/weisyn/zkcompress/pkg/types"
)

func TestProofRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 8, 9, 17} {
		inputs := make([]string, n)
		for i := range inputs {
			inputs[i] = string(rune('a' + i))
		}
		leaves := leavesFromStrings(t, types.SchemeV1, inputs...)

		root, err := ComputeRoot(leaves)
		if err != nil {
			t.Fatalf("n=%d 计算根失败: %v", n, err)
		}

		// 每个叶子的证明都必须通过验证
		for i := 0; i < n; i++ {
			proof, err := GenerateProof(leaves, i)
			if err != nil {
				t.Fatalf("n=%d 叶子%d 生成证明失败: %v", n, i, err)
			}

			if proof.LeafIndex != i {
				t.Errorf("n=%d 证明索引应为%d，得到%d", n, i, proof.LeafIndex)
			}

			if !VerifyProof(leaves[i], proof, root) {
				t.Errorf("n=%d 叶子%d 的证明验证失败", n, i)
			}
		}
	}
}

func TestProofSingleLeaf(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a")

	proof, err := GenerateProof(leaves, 0)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// 单叶子树的证明路径为空，根即叶子
	if len(proof.Siblings) != 0 {
		t.Errorf("单叶子证明的兄弟列表应为空，得到%d项", len(proof.Siblings))
	}

	if !VerifyProof(leaves[0], proof, leaves[0]) {
		t.Error("单叶子证明验证失败")
	}
}

func TestProofIndexOutOfRange(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c")

	for _, idx := range []int{-1, 3, 100} {
		_, err := GenerateProof(leaves, idx)
		if err == nil {
			t.Errorf("索引%d应返回错误", idx)
			continue
		}
		if !errors.Is(err, types.ErrIndexOutOfRange) {
			t.Errorf("索引%d应返回ErrIndexOutOfRange，得到: %v", idx, err)
		}
	}
}

func TestVerifyProofWrongLeaf(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	proof, err := GenerateProof(leaves, 1)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// 用错误的叶子验证应返回false而非错误
	wrongLeaf := leavesFromStrings(t, types.SchemeV1, "x")[0]
	if VerifyProof(wrongLeaf, proof, root) {
		t.Error("错误叶子的验证不应通过")
	}
}

func TestVerifyProofCorruptedSibling(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	proof, err := GenerateProof(leaves, 2)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// 翻转兄弟哈希摘要中的一个比特
	proof.Siblings[0][5] ^= 0x01

	if VerifyProof(leaves[2], proof, root) {
		t.Error("被篡改的证明不应通过验证")
	}
}

func TestVerifyProofFlippedDirection(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	proof, err := GenerateProof(leaves, 0)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// 翻转方向指示会改变组合顺序，验证必须失败
	proof.Directions[0] = !proof.Directions[0]

	if VerifyProof(leaves[0], proof, root) {
		t.Error("方向被翻转的证明不应通过验证")
	}
}

func TestVerifyProofWrongRoot(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	proof, err := GenerateProof(leaves, 1)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	wrongRoot := leavesFromStrings(t, types.SchemeV1, "not-the-root")[0]
	if VerifyProof(leaves[1], proof, wrongRoot) {
		t.Error("错误根哈希的验证不应通过")
	}
}

func TestVerifyProofStrictMalformed(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	proof, err := GenerateProof(leaves, 1)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// 方向列表长度与兄弟列表不一致，严格模式返回显式错误
	proof.Directions = proof.Directions[:len(proof.Directions)-1]

	_, err = VerifyProofStrict(leaves[1], proof, root)
	if !errors.Is(err, types.ErrMalformedProof) {
		t.Errorf("应返回ErrMalformedProof，得到: %v", err)
	}

	// 非严格模式下同样的输入只返回false
	proof2 := &types.Proof{LeafIndex: -1}
	if VerifyProof(leaves[1], proof2, root) {
		t.Error("格式错误的证明不应通过非严格验证")
	}
}

func TestVerifyProofStrictSchemeMismatch(t *testing.T) {
	v1Leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")
	v2Leaves := leavesFromStrings(t, types.SchemeV2, "a", "b", "c", "d")

	v1Root, err := ComputeRoot(v1Leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	proof, err := GenerateProof(v1Leaves, 0)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// v2叶子对v1证明和根：版本不一致是结构性错误
	ok, err := VerifyProofStrict(v2Leaves[0], proof, v1Root)
	if ok {
		t.Error("跨方案版本的验证不应通过")
	}
	if !errors.Is(err, types.ErrSchemeMismatch) {
		t.Errorf("应返回ErrSchemeMismatch，得到: %v", err)
	}

	// 纯粹的内容不符：版本一致但叶子错误，严格模式返回(false, nil)
	ok, err = VerifyProofStrict(v1Leaves[2], proof, v1Root)
	if err != nil {
		t.Errorf("内容不符不应返回错误: %v", err)
	}
	if ok {
		t.Error("错误叶子的严格验证不应通过")
	}
}

func TestVerifyProofStrictNilProof(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b")

	ok, err := VerifyProofStrict(leaves[0], nil, leaves[0])
	if ok {
		t.Error("空证明不应通过验证")
	}
	if !errors.Is(err, types.ErrMalformedProof) {
		t.Errorf("应返回ErrMalformedProof，得到: %v", err)
	}
}

func TestProofConstantTimeOption(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	proof, err := GenerateProof(leaves, 3)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	options := &ProofOptions{ConstantTime: true}

	// 常数时间路径与普通路径结果一致
	if !VerifyProofWithOptions(leaves[3], proof, root, options) {
		t.Error("常数时间验证应通过")
	}

	// 错误的根在常数时间路径下同样失败
	wrongRoot := root
	wrongRoot[10] ^= 0x01
	if VerifyProofWithOptions(leaves[3], proof, wrongRoot, options) {
		t.Error("错误的根不应通过常数时间验证")
	}
}

func TestGenerateProofCachePerIndex(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d", "e")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	// 对同一叶子列表反复生成各索引的证明，缓存命中
	// 不应串扰不同索引的证明
	for round := 0; round < 2; round++ {
		for i := range leaves {
			proof, err := GenerateProof(leaves, i)
			if err != nil {
				t.Fatalf("第%d轮生成索引%d的证明失败: %v", round, i, err)
			}
			if proof.LeafIndex != i {
				t.Errorf("证明索引应为%d，得到%d", i, proof.LeafIndex)
			}
			if !VerifyProof(leaves[i], proof, root) {
				t.Errorf("第%d轮索引%d的证明验证失败", round, i)
			}
		}
	}
}

func TestGenerateProofCacheReturnsCopy(t *testing.T) {
	leaves := leavesFromStrings(t, types.SchemeV1, "a", "b", "c", "d")

	root, err := ComputeRoot(leaves)
	if err != nil {
		t.Fatalf("计算根失败: %v", err)
	}

	first, err := GenerateProof(leaves, 2)
	if err != nil {
		t.Fatalf("生成证明失败: %v", err)
	}

	// 篡改调用方拿到的证明，不应污染缓存中的条目
	first.Siblings[0][5] ^= 0xFF

	second, err := GenerateProof(leaves, 2)
	if err != nil {
		t.Fatalf("重新生成证明失败: %v", err)
	}
	if !VerifyProof(leaves[2], second, root) {
		t.Error("篡改第一份证明后，重新获取的证明应仍然有效")
	}
}
