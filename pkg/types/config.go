// Package types provides configuration type definitions.
package types

// AppConfig 应用程序根配置
// 只包含JSON配置文件解析所需的结构，不包含任何内部字段
// 默认值和完整配置结构在 internal/config/*/defaults.go 和 internal/config/*/config.go 中定义
//
// 🔧 零值陷阱处理说明：
// 为了区分"用户未设置"和"用户设置为零值"，用户配置字段统一使用指针类型：
// - nil: 表示用户未在配置文件中设置该字段，将使用系统默认值
// - &value: 表示用户明确设置了该值，即使是零值也会被采用
type AppConfig struct {
	// 应用程序基本信息
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径
	Version *string `json:"version,omitempty"`  // 应用版本

	// 日志配置
	Log *UserLogConfig `json:"log,omitempty"`

	// 存储配置
	Storage *UserStorageConfig `json:"storage,omitempty"`

	// 批次压缩配置
	Compressor *UserCompressorConfig `json:"compressor,omitempty"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level      *string `json:"level,omitempty"`       // 日志级别：debug | info | warn | error
	OutputPath *string `json:"output_path,omitempty"` // 日志文件路径
	Console    *bool   `json:"console,omitempty"`     // 是否同时输出到控制台
	MaxSizeMB  *int    `json:"max_size_mb,omitempty"` // 单个日志文件最大大小
	MaxBackups *int    `json:"max_backups,omitempty"` // 保留的旧日志文件数
}

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	// DataRoot 数据根目录，各存储引擎在其下建立子目录
	DataRoot *string `json:"data_root,omitempty"`

	// Engine 内容存储引擎：badger | file | memory
	Engine *string `json:"engine,omitempty"`

	// Badger BadgerDB引擎配置
	Badger *UserBadgerConfig `json:"badger,omitempty"`

	// Memory 内存引擎配置
	Memory *UserMemoryConfig `json:"memory,omitempty"`
}

// UserBadgerConfig 用户BadgerDB配置
type UserBadgerConfig struct {
	SyncWrites   *bool  `json:"sync_writes,omitempty"`    // 是否同步写入
	MemTableSize *int64 `json:"mem_table_size,omitempty"` // 内存表大小
}

// UserMemoryConfig 用户内存存储配置
type UserMemoryConfig struct {
	LifeWindow *string `json:"life_window,omitempty"` // 条目生命周期窗口，如"10m"
	MaxSizeMB  *int    `json:"max_size_mb,omitempty"` // 缓存内存上限
}

// UserCompressorConfig 用户批次压缩配置
type UserCompressorConfig struct {
	// SchemeVersion 哈希方案版本：1 | 2
	SchemeVersion *int `json:"scheme_version,omitempty"`

	// MaxPersistWorkers 持久化并发上限
	MaxPersistWorkers *int `json:"max_persist_workers,omitempty"`

	// MaxBatchSize 单批次最大载荷数
	MaxBatchSize *int `json:"max_batch_size,omitempty"`
}
