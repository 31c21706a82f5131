package config

// 配置提供者默认值
const (
	// defaultStorageEngine 默认内容存储引擎
	// 原因：BadgerDB提供持久化和同步写入保证，适合作为
	// 承诺批次载荷的权威存储；file和memory引擎按需选用
	defaultStorageEngine = "badger"
)
