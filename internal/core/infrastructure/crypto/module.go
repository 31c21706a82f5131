// Package crypto 提供加密相关功能
package crypto

import (
	compressorconfig "github.com/weisyn/zkcompress/internal/config/compressor"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/hash"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/keybuf"
	"github.com/weisyn/zkcompress/internal/core/infrastructure/crypto/merkle"
	config "github.com/weisyn/zkcompress/pkg/interfaces/config"
	cryptointf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CryptoParams 定义加密模块的依赖参数
type CryptoParams struct {
	fx.In

	Provider         config.Provider                     // 配置提供者
	Logger           log.Logger                          `optional:"true"` // 日志记录器
	CompressorConfig *compressorconfig.CompressorOptions `optional:"true"` // 压缩器配置（决定默认方案版本）
}

// CryptoOutput 定义加密模块的输出结构
type CryptoOutput struct {
	fx.Out

	// 各个子服务 - 移除命名以支持无名注入
	HasherFactory     cryptointf.HasherFactory
	ContentHasher     cryptointf.ContentHasher
	MerkleTreeManager cryptointf.MerkleTreeManager
	KeyPool           *keybuf.SecureKeyPool
}

// Module 返回加密模块
func Module() fx.Option {
	return fx.Module("crypto",
		// 提供加密服务
		fx.Provide(ProvideCryptoServices),
	)
}

// ProvideCryptoServices 提供加密服务
func ProvideCryptoServices(params CryptoParams) (CryptoOutput, error) {
	logger := params.Logger
	if logger == nil {
		logger = &noopLogger{}
	}

	compressorOpts := params.CompressorConfig
	if compressorOpts == nil {
		compressorOpts = compressorconfig.New(nil).GetOptions()
	}

	factory := hash.NewFactory()

	// 按配置的方案版本创建默认哈希器
	hasher, err := factory.ForVersion(compressorOpts.SchemeVersion)
	if err != nil {
		return CryptoOutput{}, err
	}

	logger.Debugf("加密服务初始化完成，默认方案版本: 0x%02x", byte(compressorOpts.SchemeVersion))

	return CryptoOutput{
		HasherFactory:     factory,
		ContentHasher:     hasher,
		MerkleTreeManager: merkle.NewService(),
		KeyPool:           keybuf.NewSecureKeyPool(),
	}, nil
}

// noopLogger 是一个无操作的Logger实现，用于可选Logger为nil时的回退
type noopLogger struct{}

func (l *noopLogger) Debug(msg string)                          {}
func (l *noopLogger) Debugf(format string, args ...interface{}) {}
func (l *noopLogger) Info(msg string)                           {}
func (l *noopLogger) Infof(format string, args ...interface{})  {}
func (l *noopLogger) Warn(msg string)                           {}
func (l *noopLogger) Warnf(format string, args ...interface{})  {}
func (l *noopLogger) Error(msg string)                          {}
func (l *noopLogger) Errorf(format string, args ...interface{}) {}
func (l *noopLogger) Fatal(msg string)                          {}
func (l *noopLogger) Fatalf(format string, args ...interface{}) {}
func (l *noopLogger) With(keyvals ...interface{}) log.Logger    { return l }
func (l *noopLogger) Sync() error                               { return nil }
func (l *noopLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }
