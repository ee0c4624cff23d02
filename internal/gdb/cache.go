package gdb

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/flame-0/2025-nea/internal/logger"
)

// Cache：市镇抽取结果的字节缓存；键为 ADM3_PCODE
type Cache interface {
	Get(ctx context.Context, pcode string) ([]byte, bool)
	Put(ctx context.Context, pcode string, b []byte)
}

// ChainCache：按序查询多级缓存，首个命中即返回；写入广播到全部层级
// 背景：进程内 → 本地文件 → 可选 Redis 三级递减速度排列；
// 任一层缺席以 nil 占位跳过。
type ChainCache struct {
	tiers []Cache
}

// NewChain：构造缓存链；全部层级缺席返回 nil
// 约束：构造函数一律返回 Cache 接口，缺席以无类型 nil 表达，避免带类型空指针
// 混进层级判空。
func NewChain(tiers ...Cache) Cache {
	var alive []Cache
	for _, t := range tiers {
		if t != nil {
			alive = append(alive, t)
		}
	}
	if len(alive) == 0 {
		return nil
	}
	return &ChainCache{tiers: alive}
}

func (c *ChainCache) Get(ctx context.Context, pcode string) ([]byte, bool) {
	for _, t := range c.tiers {
		if b, ok := t.Get(ctx, pcode); ok {
			return b, true
		}
	}
	return nil, false
}

func (c *ChainCache) Put(ctx context.Context, pcode string, b []byte) {
	for _, t := range c.tiers {
		t.Put(ctx, pcode, b)
	}
}

// MemCache：进程内缓存；单次构建内同一市镇至多抽取一次
type MemCache struct {
	m map[string][]byte
}

func NewMemCache() *MemCache { return &MemCache{m: map[string][]byte{}} }

func (c *MemCache) Get(ctx context.Context, pcode string) ([]byte, bool) {
	b, ok := c.m[pcode]
	return b, ok
}

func (c *MemCache) Put(ctx context.Context, pcode string, b []byte) { c.m[pcode] = b }

// FileCache：落盘缓存，跨进程重跑复用抽取结果
// 约束：写失败仅告警；缓存目录不可用不影响主流程
type FileCache struct {
	dir string
}

func NewFileCache(dir string) Cache {
	if dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		logger.L().Warn("gdb_cache_dir_error", "dir", dir, "err", err)
		return nil
	}
	return &FileCache{dir: dir}
}

func (c *FileCache) path(pcode string) string {
	return filepath.Join(c.dir, pcode+".geojson")
}

func (c *FileCache) Get(ctx context.Context, pcode string) ([]byte, bool) {
	b, err := os.ReadFile(c.path(pcode))
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (c *FileCache) Put(ctx context.Context, pcode string, b []byte) {
	if err := os.WriteFile(c.path(pcode), b, 0o644); err != nil {
		logger.L().Warn("gdb_cache_write_error", "pcode", pcode, "err", err)
	}
}

// RedisCache：可选共享缓存层，多机/CI 构建间复用
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache：客户端为 nil 时返回 nil，由缓存链跳过
func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &RedisCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCache) key(pcode string) string { return "gdb:extract:" + pcode }

func (c *RedisCache) Get(ctx context.Context, pcode string) ([]byte, bool) {
	b, err := c.rdb.Get(ctx, c.key(pcode)).Bytes()
	if err != nil || len(b) == 0 {
		return nil, false
	}
	return b, true
}

func (c *RedisCache) Put(ctx context.Context, pcode string, b []byte) {
	if err := c.rdb.Set(ctx, c.key(pcode), b, c.ttl).Err(); err != nil {
		logger.L().Warn("gdb_cache_redis_error", "pcode", pcode, "err", err)
	}
}
