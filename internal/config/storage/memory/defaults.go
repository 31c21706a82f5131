package memory

// 内存存储默认配置值
const (
	// defaultLifeWindow 默认条目生命周期为10分钟
	// 原因：内存引擎面向测试和临时批次，10分钟覆盖一次完整的
	// 压缩-验证周期，之后条目可以被回收
	defaultLifeWindow = "10m"

	// defaultCleanWindow 默认清理窗口为5分钟
	defaultCleanWindow = "5m"

	// defaultMaxSizeMB 默认缓存上限256MB
	// 原因：足够容纳测试批次，同时防止内存引擎无限增长
	defaultMaxSizeMB = 256
)
