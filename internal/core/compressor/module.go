package compressor

import (
	compressorconfig "github.com/weisyn/zkcompress/internal/config/compressor"
	config "github.com/weisyn/zkcompress/pkg/interfaces/config"
	cryptointf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/crypto"
	log "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/log"
	storageintf "github.com/weisyn/zkcompress/pkg/interfaces/infrastructure/storage"
	"go.uber.org/fx"
)

// ModuleParams 定义压缩模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider      config.Provider
	HasherFactory cryptointf.HasherFactory
	MerkleManager cryptointf.MerkleTreeManager
	ContentStore  storageintf.ContentStore
	Logger        log.Logger
}

// ModuleOutput 定义压缩模块的输出结构
type ModuleOutput struct {
	fx.Out

	Compressor *Compressor
}

// Module 返回批次压缩模块
func Module() fx.Option {
	return fx.Module("compressor",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 提供批次压缩服务
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	var options *compressorconfig.CompressorOptions
	if params.Provider != nil {
		options = params.Provider.GetCompressor()
	}

	compressorLogger := params.Logger
	if compressorLogger != nil {
		compressorLogger = compressorLogger.With("module", "compressor")
	}

	service, err := New(
		params.HasherFactory,
		params.MerkleManager,
		params.ContentStore,
		compressorLogger,
		options,
	)
	if err != nil {
		return ModuleOutput{}, err
	}

	return ModuleOutput{
		Compressor: service,
	}, nil
}
