// 包 logger：集中初始化构建管线的日志器；各阶段通过 L() 取用，避免重复配置
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// 进程级默认日志器：批处理流程为单线程，按需懒加载即可
var defaultLogger *slog.Logger

// Setup：按环境变量初始化默认日志器
// 背景：构建任务多在终端/CI 中运行，默认文本格式输出到标准错误；LOG_FORMAT=json 供采集场景
// 约束：不落盘、不滚动；文件与聚合由外层运行环境负责
func Setup() *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}
	defaultLogger = slog.New(h)
	return defaultLogger
}

// L：获取默认日志器，未初始化时回退到 Setup
func L() *slog.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
