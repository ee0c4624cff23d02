// 包 gdb：三级兜底边界源（PSA/NAMRIA 地理数据库）的查询通道
// 背景：GDB 体量过大不宜整库进内存，借助外部工具 ogr2ogr 做属性导出与
// 按市镇抽取；引擎只消费抽取后的要素列表，抽取本身是外部协作方职责。
// 约束：工具或数据库缺失时整级跳过并告警，管线继续以两级运行，绝不中断。
package gdb

import (
	"context"
	"encoding/csv"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/match"
	"github.com/flame-0/2025-nea/internal/metrics"
)

// 默认图层：PSA/NAMRIA 2023-11 行政村边界
const defaultLayer = "phl_admbnda_adm4_psa_namria_20231106"

// Runner：单个 GDB 的查询执行器
type Runner struct {
	gdbPath string
	layer   string
	cache   Cache
}

// Open：探测工具与数据库可用性并构造执行器
// 返回：任一缺失返回 nil（调用方据此跳过三级兜底），不返回错误。
func Open(gdbPath, layer string, cache Cache) *Runner {
	if gdbPath == "" {
		return nil
	}
	if _, err := os.Stat(gdbPath); err != nil {
		logger.L().Warn("gdb_missing", "path", gdbPath)
		return nil
	}
	if _, err := exec.LookPath("ogr2ogr"); err != nil {
		logger.L().Warn("gdb_tool_missing", "tool", "ogr2ogr")
		return nil
	}
	if layer == "" {
		layer = defaultLayer
	}
	return &Runner{gdbPath: gdbPath, layer: layer, cache: cache}
}

// IndexKey：市镇名称索引键；Province 为空表示全局唯一名兜底槽位
type IndexKey struct {
	Name     string
	Province string
}

// MuniIndex：导出属性表构建市镇名称 → ADM3_PCODE 索引
// 背景：规范化市镇名配省名为主键；同名市镇跨省存在，名称单独成键仅当全局唯一，
// 重名槽位以空 pcode 占位表示歧义。
func (r *Runner) MuniIndex(ctx context.Context) (map[IndexKey]string, error) {
	out, err := r.run(ctx, 60*time.Second,
		"-f", "CSV", "/vsistdout/", r.gdbPath, r.layer,
		"-select", "ADM4_EN,ADM3_EN,ADM3_PCODE,ADM2_EN")
	if err != nil {
		return nil, err
	}
	cr := csv.NewReader(strings.NewReader(string(out)))
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, err
	}
	col := map[string]int{}
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	field := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	idx := map[IndexKey]string{}
	seen := map[string]bool{}
	for {
		row, rerr := cr.Read()
		if rerr != nil {
			break
		}
		pcode := field(row, "ADM3_PCODE")
		if pcode == "" || seen[pcode] {
			continue
		}
		seen[pcode] = true
		norm := match.NormalizeMunicipality(field(row, "ADM3_EN"))
		adm2 := strings.ToUpper(field(row, "ADM2_EN"))
		idx[IndexKey{norm, adm2}] = pcode
		if _, dup := idx[IndexKey{norm, ""}]; dup {
			idx[IndexKey{norm, ""}] = "" // 重名，全局槽位失效
		} else {
			idx[IndexKey{norm, ""}] = pcode
		}
	}
	logger.L().Info("gdb_index_built", "municipalities", len(seen))
	return idx, nil
}

// Extract：抽取单个市镇的全部行政村要素
// 背景：按 ADM3_PCODE 过滤一次只取一市镇；坐标精度在导出端先压到 4 位，
// 产物仍会在输出装配时统一舍入。抽取结果经缓存链复用，重跑不再落盘查询。
func (r *Runner) Extract(ctx context.Context, pcode string) ([]*geo.Feature, error) {
	if r.cache != nil {
		if b, ok := r.cache.Get(ctx, pcode); ok {
			fc, err := geo.Parse(b)
			if err == nil {
				return fc.Features, nil
			}
		}
	}
	start := time.Now()
	out, err := r.run(ctx, 30*time.Second,
		"-f", "GeoJSON", "/vsistdout/", r.gdbPath, r.layer,
		"-select", "ADM4_EN,ADM4_PCODE,ADM3_EN",
		"-where", "ADM3_PCODE = '"+pcode+"'",
		"-lco", "COORDINATE_PRECISION=4")
	metrics.ExtractDurationMs.Observe(float64(time.Since(start).Milliseconds()))
	if err != nil {
		return nil, err
	}
	fc, err := geo.Parse(out)
	if err != nil {
		return nil, err
	}
	if r.cache != nil {
		r.cache.Put(ctx, pcode, out)
	}
	return fc.Features, nil
}

func (r *Runner) run(ctx context.Context, timeout time.Duration, args ...string) ([]byte, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	cmd := exec.CommandContext(cctx, "ogr2ogr", args...)
	out, err := cmd.Output()
	if err != nil {
		logger.L().Warn("gdb_ogr2ogr_error", "err", err)
		return nil, err
	}
	return out, nil
}
