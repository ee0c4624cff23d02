package pipeline

import (
	"context"
	"sort"

	"github.com/flame-0/2025-nea/internal/gdb"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/match"
	"github.com/flame-0/2025-nea/internal/psgc"
)

// runTertiary：三级兜底匹配（PSA/NAMRIA 地理数据库）
// 背景：只为仍有未匹配记录的市镇发起抽取——每市镇一次外部工具调用，
// 代价最高放在最后；市镇名索引整库只建一次。
// 约束：索引构建失败时整级放弃并告警；市镇按省名+市镇名排序遍历，
// 保证重跑产物确定。
func (p *Pipeline) runTertiary(ctx context.Context, r *gdb.Runner) {
	st := &p.stats.Tertiary
	idx, err := r.MuniIndex(ctx)
	if err != nil {
		logger.L().Warn("tertiary_skip", "reason", "muni index build failed", "err", err)
		return
	}
	indices := p.buildIndices()

	munis := make([]psgc.Muni, 0, len(indices))
	for k := range indices {
		munis = append(munis, k)
	}
	sort.Slice(munis, func(i, j int) bool {
		if munis[i].Province != munis[j].Province {
			return munis[i].Province < munis[j].Province
		}
		return munis[i].Municipality < munis[j].Municipality
	})

	resolved := 0
	for _, m := range munis {
		pcode, ok := lookupPcode(idx, m)
		if !ok {
			continue
		}
		resolved++
		feats, err := r.Extract(ctx, pcode)
		if err != nil || len(feats) == 0 {
			continue
		}
		ix := indices[m]
		for _, f := range feats {
			name := featureName(f, "ADM4_EN")
			if f.Geometry == nil || name == "" {
				continue
			}
			p.absorb("tertiary", st, ix, name, f.Geometry)
		}
	}
	logger.L().Info("tertiary_done",
		"munis_unmatched", len(munis),
		"munis_resolved", resolved,
		"geo_matched", st.GeoMatched,
		"geo_unmatched", st.GeoUnmatched,
		"records_matched", st.RecordsMatched)
}

// lookupPcode：市镇落位到 GDB 的 ADM3_PCODE
// 背景：先做省名限定匹配（经省名等价表换算），落空再试全局唯一名槽位；
// 等价表显式排除的省（GDB 无对应图层）整市镇跳过。
func lookupPcode(idx map[gdb.IndexKey]string, m psgc.Muni) (string, bool) {
	adm2, excluded := gdb.ADM2Province(m.Province)
	if excluded {
		return "", false
	}
	norm := match.NormalizeMunicipality(m.Municipality)
	if pcode := idx[gdb.IndexKey{Name: norm, Province: adm2}]; pcode != "" {
		return pcode, true
	}
	if pcode := idx[gdb.IndexKey{Name: norm, Province: ""}]; pcode != "" {
		return pcode, true
	}
	return "", false
}
