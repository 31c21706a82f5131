// Package log 提供系统的日志接口定义
//
// 📃 **日志服务 (Logging Service)**
//
// 本文件定义了系统的日志记录接口，专注于：
// - 分级日志：debug/info/warn/error/fatal五个级别
// - 结构化日志：基于zap的字段化日志记录
// - 日志轮转：配合lumberjack实现文件大小轮转
//
// 🔗 **组件关系**
// - Logger：被所有基础设施和业务模块使用
// - 与DI容器：由fx统一提供和管理生命周期
package log

import (
	"github.com/weisyn/zkcompress/pkg/types"
	"go.uber.org/zap"
)

// LogLevel 日志级别类型（别名，定义迁至 pkg/types）
type LogLevel = types.LogLevel

// 日志级别别名
const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
	FatalLevel = types.FatalLevel
)

// Logger 定义日志记录接口
type Logger interface {
	// Debug 记录调试级别的日志
	Debug(msg string)

	// Debugf 使用格式化字符串记录调试级别的日志
	Debugf(format string, args ...interface{})

	// Info 记录信息级别的日志
	Info(msg string)

	// Infof 使用格式化字符串记录信息级别的日志
	Infof(format string, args ...interface{})

	// Warn 记录警告级别的日志
	Warn(msg string)

	// Warnf 使用格式化字符串记录警告级别的日志
	Warnf(format string, args ...interface{})

	// Error 记录错误级别的日志
	Error(msg string)

	// Errorf 使用格式化字符串记录错误级别的日志
	Errorf(format string, args ...interface{})

	// Fatal 记录致命级别的日志，然后退出程序
	Fatal(msg string)

	// Fatalf 使用格式化字符串记录致命级别的日志，然后退出程序
	Fatalf(format string, args ...interface{})

	// With 返回一个带有额外字段的Logger
	With(args ...interface{}) Logger

	// Sync 同步日志缓冲区到输出
	Sync() error

	// 注意：日志记录器由DI容器自动管理资源，无需手动Close()

	// GetZapLogger 获取原始的zap日志记录器
	GetZapLogger() *zap.Logger
}
