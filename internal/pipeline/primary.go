package pipeline

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/metrics"
	"github.com/flame-0/2025-nea/internal/psgc"
)

// runPrimary：主边界源匹配（PSGC 2023 市镇文件，每文件一市镇）
// 背景：以文件首要素的 adm3_psgc 定位市镇，HUC 的代码写在 adm2 层级，
// 细级缺席时回退粗一级再查桥接表；文件按名排序保证重跑产物逐字节一致。
func (p *Pipeline) runPrimary(dir string) {
	st := &p.stats.Primary
	entries, err := os.ReadDir(dir)
	if err != nil {
		logger.L().Error("primary_dir_error", "dir", dir, "err", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if strings.HasSuffix(ent.Name(), ".json") || strings.HasSuffix(ent.Name(), ".geojson") {
			names = append(names, ent.Name())
		}
	}
	sort.Strings(names)

	indices := p.buildIndices()
	exists := func(m psgc.Muni) bool { _, ok := indices[m]; return ok }

	for _, name := range names {
		fc, err := geo.Load(filepath.Join(dir, name))
		if err != nil {
			logger.L().Warn("primary_file_skip", "file", name, "err", err)
			continue
		}
		if len(fc.Features) == 0 {
			continue
		}
		first := fc.Features[0]
		muni, ok := p.resolveBridge(first)
		if !ok {
			st.MuniUnresolved += len(fc.Features)
			metrics.MuniUnresolvedTotal.WithLabelValues("primary").Add(float64(len(fc.Features)))
			continue
		}
		key, ok := psgc.ResolveCSVKey(muni.Province, muni.Municipality, exists)
		if !ok {
			st.MuniUnresolved += len(fc.Features)
			metrics.MuniUnresolvedTotal.WithLabelValues("primary").Add(float64(len(fc.Features)))
			continue
		}
		ix := indices[key]
		for _, f := range fc.Features {
			if f.Geometry == nil {
				continue
			}
			p.absorb("primary", st, ix, featureName(f, "adm4_en"), f.Geometry)
		}
	}
	logger.L().Info("primary_done",
		"geo_matched", st.GeoMatched,
		"geo_unmatched", st.GeoUnmatched,
		"muni_unresolved", st.MuniUnresolved,
		"records_matched", st.RecordsMatched)
}

// resolveBridge：先试 adm3 代码，缺席再试 adm2（HUC 把自身代码同时写在两级）
// 约束：查桥前统一截断到 municipality 级——桥键全为市镇级代码，
// 个别文件在 adm3 槽位里写的是村级代码
func (p *Pipeline) resolveBridge(f *geo.Feature) (psgc.Muni, bool) {
	if code, ok := featureCode(f, "adm3_psgc"); ok {
		if m, hit := p.bridge[psgc.MuniCode(code)]; hit {
			return m, true
		}
	}
	if code, ok := featureCode(f, "adm2_psgc"); ok {
		if m, hit := p.bridge[psgc.MuniCode(code)]; hit {
			return m, true
		}
	}
	return psgc.Muni{}, false
}

func featureCode(f *geo.Feature, key string) (int64, bool) {
	if n, ok := f.PropInt64(key); ok && n > 0 {
		return n, true
	}
	return psgc.Parse(f.Prop(key))
}
