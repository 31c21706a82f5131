package file

import (
	"github.com/weisyn/zkcompress/pkg/utils"
)

// 文件存储默认配置值

// getDefaultPath 获取默认文件存储根目录
func getDefaultPath() string {
	return utils.ResolveDataPath("./data/payloads")
}

const (
	// defaultFileMode 载荷文件默认权限
	// 原因：载荷可能包含业务敏感数据，只允许属主读写
	defaultFileMode = 0600
)
