package types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
)

// SchemeVersion 内容哈希方案版本
// 版本字节是内容哈希的第一个字节，用于区分不同的摘要算法，
// 防止算法升级后新旧哈希静默混用
type SchemeVersion byte

const (
	// SchemeV1 当前方案：SHA-256摘要
	SchemeV1 SchemeVersion = 0x01

	// SchemeV2 遗留方案：Keccak-256摘要
	// 历史上部分批次使用该方案提交，验证时必须按版本字节选择算法
	SchemeV2 SchemeVersion = 0x02
)

const (
	// DigestSize 摘要长度（字节）
	DigestSize = 32

	// ContentHashSize 内容哈希总长度：1字节版本 + 32字节摘要
	ContentHashSize = 1 + DigestSize

	// ContentHashHexSize 十六进制编码后的长度
	ContentHashHexSize = ContentHashSize * 2
)

// 错误定义
var (
	ErrMalformedHash   = errors.New("内容哈希格式错误")
	ErrUnknownScheme   = errors.New("未知的哈希方案版本")
	ErrSchemeMismatch  = errors.New("哈希方案版本不匹配")
	ErrEmptyBatch      = errors.New("批次不能为空")
	ErrIndexOutOfRange = errors.New("叶子索引超出范围")
	ErrMalformedProof  = errors.New("证明结构错误")
)

// ContentHash 内容哈希：版本字节 ++ 32字节摘要
// 不可变值类型，创建后不会被修改
type ContentHash [ContentHashSize]byte

// NewContentHash 从版本和摘要构造内容哈希
//
// 参数:
//   - version: 方案版本字节
//   - digest: 32字节摘要
//
// 返回:
//   - ContentHash: 构造的内容哈希
//   - error: 摘要长度错误时返回ErrMalformedHash
func NewContentHash(version SchemeVersion, digest []byte) (ContentHash, error) {
	var h ContentHash
	if len(digest) != DigestSize {
		return h, fmt.Errorf("%w: 摘要长度%d，期望%d", ErrMalformedHash, len(digest), DigestSize)
	}
	h[0] = byte(version)
	copy(h[1:], digest)
	return h, nil
}

// ContentHashFromBytes 从33字节切片解析内容哈希
func ContentHashFromBytes(data []byte) (ContentHash, error) {
	var h ContentHash
	if len(data) != ContentHashSize {
		return h, fmt.Errorf("%w: 长度%d，期望%d", ErrMalformedHash, len(data), ContentHashSize)
	}
	if !IsKnownScheme(SchemeVersion(data[0])) {
		return h, fmt.Errorf("%w: 0x%02x", ErrUnknownScheme, data[0])
	}
	copy(h[:], data)
	return h, nil
}

// ContentHashFromHex 从66位小写十六进制字符串解析内容哈希
func ContentHashFromHex(s string) (ContentHash, error) {
	var h ContentHash
	if len(s) != ContentHashHexSize {
		return h, fmt.Errorf("%w: 十六进制长度%d，期望%d", ErrMalformedHash, len(s), ContentHashHexSize)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
	return ContentHashFromBytes(raw)
}

// IsKnownScheme 判断版本字节是否为已知方案
func IsKnownScheme(v SchemeVersion) bool {
	return v == SchemeV1 || v == SchemeV2
}

// Version 返回哈希的方案版本字节
func (h ContentHash) Version() SchemeVersion {
	return SchemeVersion(h[0])
}

// Digest 返回32字节摘要部分的副本
func (h ContentHash) Digest() []byte {
	digest := make([]byte, DigestSize)
	copy(digest, h[1:])
	return digest
}

// Bytes 返回完整的33字节表示的副本
func (h ContentHash) Bytes() []byte {
	raw := make([]byte, ContentHashSize)
	copy(raw, h[:])
	return raw
}

// Hex 返回小写十六进制编码（66字符），这是对外交换的标准编码
func (h ContentHash) Hex() string {
	return hex.EncodeToString(h[:])
}

// String 实现fmt.Stringer
func (h ContentHash) String() string {
	return h.Hex()
}

// Equal 精确比较两个内容哈希
// 完整逐字节比较，不允许截断或前缀比较
func (h ContentHash) Equal(other ContentHash) bool {
	return bytes.Equal(h[:], other[:])
}

// IsZero 判断是否为零值哈希
func (h ContentHash) IsZero() bool {
	for _, b := range h {
		if b != 0 {
			return false
		}
	}
	return true
}

// MarshalJSON 实现json.Marshaler，序列化为十六进制字符串
func (h ContentHash) MarshalJSON() ([]byte, error) {
	return []byte(`"` + h.Hex() + `"`), nil
}

// UnmarshalJSON 实现json.Unmarshaler
func (h *ContentHash) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return ErrMalformedHash
	}
	parsed, err := ContentHashFromHex(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
