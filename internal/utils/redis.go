package utils

import (
	"os"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/flame-0/2025-nea/internal/logger"
)

// OpenRedisFromEnv：按 REDIS_* 环境变量打开客户端
// 背景：Redis 仅作为 GDB 抽取缓存的可选共享层；REDIS_HOST 未配置返回 nil，
// 缓存链自动降级为进程内 + 文件两级。
// 约束：REDIS_DB 解析失败静默回退 0
func OpenRedisFromEnv() *redis.Client {
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	addr := host + ":" + port
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}
