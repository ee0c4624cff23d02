package pipeline

import (
	"strings"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/match"
	"github.com/flame-0/2025-nea/internal/metrics"
	"github.com/flame-0/2025-nea/internal/osm"
	"github.com/flame-0/2025-nea/internal/psgc"
)

// runSecondary：次级边界源匹配（OSM Overpass 提取，补主源缺口）
// 背景：要素带 10 位 PSGC 时查前缀表；无代码的编号村先做马尼拉包围盒
// 启发，再退到跨市镇唯一名搜索——同名仅存在于一个仍有未匹配记录的
// 市镇时才敢指派，多处同名宁可放弃。
func (p *Pipeline) runSecondary(path string) {
	st := &p.stats.Secondary
	fc, err := geo.Load(path)
	if err != nil {
		logger.L().Warn("secondary_skip", "path", path, "err", err)
		return
	}
	indices := p.buildIndices()

	for _, f := range fc.Features {
		name := strings.TrimSpace(f.Prop("name"))
		if f.Geometry == nil || name == "" {
			continue
		}
		key, ok := p.resolveSecondary(f, name, indices)
		if !ok {
			st.MuniUnresolved++
			metrics.MuniUnresolvedTotal.WithLabelValues("secondary").Inc()
			continue
		}
		ix, ok := indices[key]
		if !ok {
			// 前缀表给出的市镇名可能带 "CITY OF" 而选票表不带
			alt := psgc.Muni{Province: key.Province, Municipality: strings.ReplaceAll(key.Municipality, "CITY OF ", "")}
			if ix, ok = indices[alt]; !ok {
				st.MuniUnresolved++
				metrics.MuniUnresolvedTotal.WithLabelValues("secondary").Inc()
				continue
			}
		}
		p.absorb("secondary", st, ix, name, f.Geometry)
	}
	logger.L().Info("secondary_done",
		"features", len(fc.Features),
		"geo_matched", st.GeoMatched,
		"geo_unmatched", st.GeoUnmatched,
		"muni_unresolved", st.MuniUnresolved,
		"records_matched", st.RecordsMatched)
}

// resolveSecondary：代码前缀 → 编号村包围盒启发 → 唯一名搜索
func (p *Pipeline) resolveSecondary(f *geo.Feature, name string, indices map[psgc.Muni]*match.Index) (psgc.Muni, bool) {
	if m, ok := osm.ResolveByCode(f.Prop("psgc")); ok {
		return m, true
	}
	if osm.Numbered(name) && osm.InManila(f.Geometry) {
		return osm.Manila(), true
	}
	return uniqueMuni(indices, match.Normalize(name))
}

// uniqueMuni：在所有仍持有未匹配记录的市镇中搜索规范名，恰一处命中才接受
func uniqueMuni(indices map[psgc.Muni]*match.Index, norm string) (psgc.Muni, bool) {
	var found psgc.Muni
	hits := 0
	for k, ix := range indices {
		if ix.HasNormalized(norm) {
			found = k
			hits++
			if hits > 1 {
				return psgc.Muni{}, false
			}
		}
	}
	return found, hits == 1
}
