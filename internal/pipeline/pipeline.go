// 包 pipeline：三级回退匹配编排
// 背景：主源（PSGC 市镇文件）→ 次源（OSM 提取）→ 三级源（PSA/NAMRIA GDB）
// 依质量递减的固定顺序推进；唯一的跨级状态是已匹配键集合，
// 前级吸收的记录对后级不可见。
// 约束：单线程同步推进，任何一级缺席只跳过不中断；结束后
// 已匹配数与残余未匹配数之和恒等于记录总数。
package pipeline

import (
	"context"
	"strings"

	"github.com/flame-0/2025-nea/internal/gdb"
	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/match"
	"github.com/flame-0/2025-nea/internal/metrics"
	"github.com/flame-0/2025-nea/internal/output"
	"github.com/flame-0/2025-nea/internal/psgc"
	"github.com/flame-0/2025-nea/internal/results"
)

// Sources：三路边界数据的落地位置；次源与三级源可选
type Sources struct {
	MunicitiesDir string
	OSMPath       string      // 为空跳过次级回退
	GDB           *gdb.Runner // 为 nil 跳过三级回退
}

// StageStats：单级匹配统计
type StageStats struct {
	GeoMatched     int // 吸收了记录的几何要素数
	GeoUnmatched   int // 市镇已解析但无记录命中的几何要素数
	MuniUnresolved int // 市镇归属无法桥接的几何要素数
	RecordsMatched int // 本级吸收的聚合记录数
}

// Stats：整次构建的匹配账目
type Stats struct {
	Records   int
	Primary   StageStats
	Secondary StageStats
	Tertiary  StageStats
	Matched   int
	Residual  int
}

// Pipeline：一次构建的可变状态；matched 为跨级共享的已匹配键集
type Pipeline struct {
	bridge   psgc.Bridge
	table    *results.Table
	matched  map[results.Key]bool
	features []*geo.Feature
	stats    Stats
}

// Run：完整执行三级匹配并返回输出要素、统计与残余未匹配记录
func Run(ctx context.Context, bridge psgc.Bridge, table *results.Table, src Sources) ([]*geo.Feature, *Stats, []*results.Record) {
	p := &Pipeline{
		bridge:  bridge,
		table:   table,
		matched: map[results.Key]bool{},
	}
	p.stats.Records = table.Len()
	metrics.RecordsTotal.Set(float64(table.Len()))

	p.runPrimary(src.MunicitiesDir)
	if src.OSMPath != "" {
		p.runSecondary(src.OSMPath)
	} else {
		logger.L().Warn("secondary_skip", "reason", "osm extract not configured")
	}
	if src.GDB != nil {
		p.runTertiary(ctx, src.GDB)
	} else {
		logger.L().Warn("tertiary_skip", "reason", "geodatabase or ogr2ogr unavailable")
	}

	p.stats.Matched = len(p.matched)
	p.stats.Residual = p.stats.Records - p.stats.Matched
	metrics.ResidualUnmatched.Set(float64(p.stats.Residual))

	var residual []*results.Record
	for _, r := range p.table.Records {
		if !p.matched[r.Key] {
			residual = append(residual, r)
		}
	}
	logger.L().Info("pipeline_done",
		"records", p.stats.Records,
		"matched", p.stats.Matched,
		"residual", p.stats.Residual,
		"features", len(p.features))
	return p.features, &p.stats, residual
}

// buildIndices：按未匹配记录重建每市镇的四路索引
// 背景：级间剔除通过重建完成——已匹配键不再入索引，天然对后级不可见；
// 记录按选票表首现顺序入索引，保证展示键选择确定。
func (p *Pipeline) buildIndices() map[psgc.Muni]*match.Index {
	indices := map[psgc.Muni]*match.Index{}
	for _, r := range p.table.Records {
		if p.matched[r.Key] {
			continue
		}
		k := psgc.Muni{Province: r.Key.Province, Municipality: r.Key.Municipality}
		ix, ok := indices[k]
		if !ok {
			ix = match.NewIndex()
			indices[k] = ix
		}
		ix.Add(r)
	}
	return indices
}

// absorb：对单个几何要素执行级联匹配并装配输出要素
// 约束：级联返回的候选先按已匹配集过滤，确保任何记录跨全程只被吸收一次；
// 过滤后为空视为未命中。
func (p *Pipeline) absorb(stage string, st *StageStats, ix *match.Index, name string, g *geo.Geometry) bool {
	cands := match.Cascade(ix, name)
	var recs []*results.Record
	for _, r := range cands {
		if !p.matched[r.Key] {
			recs = append(recs, r)
		}
	}
	if len(recs) == 0 {
		st.GeoUnmatched++
		metrics.GeoUnmatchedTotal.WithLabelValues(stage).Inc()
		return false
	}
	f := output.MergeFeature(recs, g)
	if f == nil {
		st.GeoUnmatched++
		metrics.GeoUnmatchedTotal.WithLabelValues(stage).Inc()
		return false
	}
	for _, r := range recs {
		p.matched[r.Key] = true
	}
	p.features = append(p.features, f)
	st.GeoMatched++
	st.RecordsMatched += len(recs)
	metrics.GeoMatchedTotal.WithLabelValues(stage).Inc()
	metrics.RecordsMatchedTotal.WithLabelValues(stage).Add(float64(len(recs)))
	return true
}

// featureName：读取并归一要素的显示名
func featureName(f *geo.Feature, key string) string {
	return strings.ToUpper(strings.TrimSpace(f.Prop(key)))
}
