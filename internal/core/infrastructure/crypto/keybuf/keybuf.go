// Package keybuf 提供安全的密钥缓冲区内存管理
package keybuf

import (
	"crypto/rand"
	"errors"
	"sync"
)

// KeySize 密钥缓冲区的固定长度
const KeySize = 32

// 错误定义
var (
	ErrInvalidKeyLength = errors.New("无效的密钥长度")
	ErrNilCallback      = errors.New("回调函数为空")
)

// SecureKeyPool 密钥内存池，提供安全的密钥内存管理
//
// 🛡️ 安全特性：
// - 多重清除：使用随机数据覆盖确保密钥完全清除
// - 长度验证：严格验证缓冲区长度防止错误使用
// - 防止重复归还：归还时统一清除，重复归还不泄露数据
type SecureKeyPool struct {
	pool          sync.Pool
	clearingMutex sync.Mutex // 防止并发清除操作
}

// NewSecureKeyPool 创建新的密钥内存池
func NewSecureKeyPool() *SecureKeyPool {
	return &SecureKeyPool{
		pool: sync.Pool{
			New: func() interface{} {
				// 创建32字节缓冲区并预清零
				buf := make([]byte, KeySize)
				// 初始化时用随机数据填充，确保不包含敏感信息
				rand.Read(buf)
				// 然后清零
				for i := range buf {
					buf[i] = 0
				}
				return buf
			},
		},
	}
}

// Get 从池中获取一个密钥缓冲区
//
// 返回的缓冲区已清零，可以安全使用
func (p *SecureKeyPool) Get() []byte {
	buf := p.pool.Get().([]byte)

	// 再次清零，防止池中残留数据
	for i := range buf {
		buf[i] = 0
	}

	return buf
}

// Put 安全归还密钥缓冲区到池中
//
// 执行多重安全清除：
// 1. 验证长度确保是有效的密钥缓冲区
// 2. 用随机数据覆盖确保原始数据无法恢复
// 3. 清零确保缓冲区处于安全状态
func (p *SecureKeyPool) Put(key []byte) {
	if len(key) != KeySize {
		// 长度不匹配的缓冲区不归还到池中，直接丢弃
		// 但仍然清除数据以确保安全
		SecureWipe(key)
		return
	}

	p.clearingMutex.Lock()
	defer p.clearingMutex.Unlock()

	// 执行三阶段安全清除
	SecureWipe(key)

	// 归还到池中
	p.pool.Put(key)
}

// WithKey 在受保护的作用域内使用密钥
//
// 将密钥复制到池化缓冲区中执行回调，无论回调正常返回还是panic，
// 缓冲区都会被安全清除并归还。密钥内容不会被记录或序列化
//
// 参数:
//   - key: 密钥材料，必须为32字节
//   - fn: 使用密钥缓冲区的回调函数
//
// 返回:
//   - error: 长度错误、回调为空或回调返回的错误
func (p *SecureKeyPool) WithKey(key []byte, fn func([]byte) error) error {
	if len(key) != KeySize {
		return ErrInvalidKeyLength
	}
	if fn == nil {
		return ErrNilCallback
	}

	buf := p.Get()
	// defer保证panic路径同样清除
	defer p.Put(buf)

	copy(buf, key)

	return fn(buf)
}

// 全局密钥池
var globalKeyPool = NewSecureKeyPool()

// WithKey 使用全局密钥池执行受保护的密钥操作
func WithKey(key []byte, fn func([]byte) error) error {
	return globalKeyPool.WithKey(key, fn)
}

// SecureWipe 执行安全的密钥数据清除
//
// 清除策略：
// 1. 第一阶段：用随机数据覆盖
// 2. 第二阶段：用0xFF覆盖
// 3. 第三阶段：用0x00覆盖
//
// 这样三重覆盖确保即使在某些硬件上也无法通过物理方法恢复数据
func SecureWipe(data []byte) {
	if len(data) == 0 {
		return
	}

	// 第一阶段：随机数据覆盖
	randomData := make([]byte, len(data))
	rand.Read(randomData)
	copy(data, randomData)

	// 第二阶段：全1覆盖
	for i := range data {
		data[i] = 0xFF
	}

	// 第三阶段：全0覆盖（最终状态）
	for i := range data {
		data[i] = 0x00
	}

	// 清除临时随机数据
	for i := range randomData {
		randomData[i] = 0
	}
}
