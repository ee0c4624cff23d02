package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/psgc"
	"github.com/flame-0/2025-nea/internal/results"
)

const calambaGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "properties": {"adm3_psgc": 403405000, "adm4_en": "Poblacion"},
     "geometry": {"type": "Polygon", "coordinates": [[[121.1,14.2],[121.2,14.2],[121.2,14.3],[121.1,14.2]]]}},
    {"type": "Feature",
     "properties": {"adm3_psgc": 403405000, "adm4_en": "Unit 176"},
     "geometry": {"type": "Polygon", "coordinates": [[[121.3,14.2],[121.4,14.2],[121.4,14.3],[121.3,14.2]]]}},
    {"type": "Feature",
     "properties": {"adm3_psgc": 403405000, "adm4_en": "Null Geom"},
     "geometry": null},
    {"type": "Feature",
     "properties": {"adm3_psgc": 403405000, "adm4_en": "Ghost Barangay"},
     "geometry": {"type": "Polygon", "coordinates": [[[121.5,14.2],[121.6,14.2],[121.6,14.3],[121.5,14.2]]]}}
  ]
}`

const osmGeoJSON = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature",
     "properties": {"name": "Barangay 176", "psgc": "1381100023"},
     "geometry": {"type": "Polygon", "coordinates": [[[120.98,14.59],[120.99,14.59],[120.99,14.60],[120.98,14.59]]]}},
    {"type": "Feature",
     "properties": {"name": "Barangay 176", "psgc": "1381100023"},
     "geometry": {"type": "Polygon", "coordinates": [[[120.98,14.59],[120.99,14.59],[120.99,14.60],[120.98,14.59]]]}}
  ]
}`

func testTable() *results.Table {
	tab := results.NewTable()
	add := func(prov, muni, brgy string, rv int64) {
		r := &results.Record{
			Key:              results.Key{Province: prov, Municipality: muni, Barangay: brgy},
			RegisteredVoters: rv,
			ActualVoters:     rv / 2,
			Votes:            map[string]int64{"reyes": rv / 10},
		}
		tab.Records = append(tab.Records, r)
	}
	add("LAGUNA", "CITY OF CALAMBA", "POBLACION", 300)
	add("LAGUNA", "CITY OF CALAMBA", "UNIT 176-A", 100)
	add("LAGUNA", "CITY OF CALAMBA", "UNIT 176-B", 60)
	add("LAGUNA", "CITY OF CALAMBA", "SAN ISIDRO", 50)
	add("NATIONAL CAPITAL REGION - MANILA", "CITY OF MANILA", "BARANGAY 176", 900)
	return tab
}

func TestRunPrimaryAndSecondary(t *testing.T) {
	dir := t.TempDir()
	muniDir := filepath.Join(dir, "municities")
	require.NoError(t, os.MkdirAll(muniDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(muniDir, "calamba.json"), []byte(calambaGeoJSON), 0o644))
	osmPath := filepath.Join(dir, "osm.geojson")
	require.NoError(t, os.WriteFile(osmPath, []byte(osmGeoJSON), 0o644))

	bridge := psgc.Bridge{403405000: {Province: "LAGUNA", Municipality: "CITY OF CALAMBA"}}
	tab := testTable()

	features, stats, residual := Run(context.Background(), bridge, tab, Sources{
		MunicitiesDir: muniDir,
		OSMPath:       osmPath,
	})

	// Poblacion、Unit 176（吸收两条分村）、Barangay 176 三个输出要素
	require.Len(t, features, 3)
	assert.Equal(t, 5, stats.Records)
	assert.Equal(t, 4, stats.Matched)
	assert.Equal(t, 1, stats.Residual)
	// 账目恒等式
	assert.Equal(t, stats.Records, stats.Matched+stats.Residual)

	require.Len(t, residual, 1)
	assert.Equal(t, "SAN ISIDRO", residual[0].Key.Barangay)

	// 主级：两要素命中，幽灵要素未命中，空几何要素静默跳过
	assert.Equal(t, 2, stats.Primary.GeoMatched)
	assert.Equal(t, 1, stats.Primary.GeoUnmatched)
	assert.Equal(t, 3, stats.Primary.RecordsMatched)

	// 次级：首个要素按代码前缀命中；重复要素被已匹配集拦下
	assert.Equal(t, 1, stats.Secondary.GeoMatched)
	assert.Equal(t, 1, stats.Secondary.GeoUnmatched)
	assert.Equal(t, 1, stats.Secondary.RecordsMatched)

	// 分村合并要素数值求和，展示键取首现记录
	var unit map[string]any
	for _, f := range features {
		if f.Prop("b") == "UNIT 176-A" {
			unit = f.Properties
		}
	}
	require.NotNil(t, unit)
	assert.Equal(t, int64(160), unit["rv"])
	assert.Equal(t, int64(16), unit["v_reyes"])
}

func TestResolveBridgeTruncatesToMuniLevel(t *testing.T) {
	p := &Pipeline{bridge: psgc.Bridge{403405000: {Province: "LAGUNA", Municipality: "CITY OF CALAMBA"}}}

	// adm3 槽位里写了村级代码：截断后仍命中市镇级桥键
	m, ok := p.resolveBridge(&geo.Feature{Properties: map[string]any{"adm3_psgc": float64(403405017)}})
	require.True(t, ok)
	assert.Equal(t, "CITY OF CALAMBA", m.Municipality)

	// adm2 回退路径同样截断，字符串形态的代码亦可
	m, ok = p.resolveBridge(&geo.Feature{Properties: map[string]any{"adm2_psgc": "403405001"}})
	require.True(t, ok)
	assert.Equal(t, "LAGUNA", m.Province)

	_, ok = p.resolveBridge(&geo.Feature{Properties: map[string]any{}})
	assert.False(t, ok)
}

func TestRunWithoutOptionalSources(t *testing.T) {
	dir := t.TempDir()
	muniDir := filepath.Join(dir, "municities")
	require.NoError(t, os.MkdirAll(muniDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(muniDir, "calamba.json"), []byte(calambaGeoJSON), 0o644))

	bridge := psgc.Bridge{403405000: {Province: "LAGUNA", Municipality: "CITY OF CALAMBA"}}
	features, stats, residual := Run(context.Background(), bridge, testTable(), Sources{
		MunicitiesDir: muniDir,
	})

	// 次级与三级缺席：马尼拉记录落入残余
	assert.Len(t, features, 2)
	assert.Equal(t, 3, stats.Matched)
	assert.Len(t, residual, 2)
}

func TestRunUnresolvableMunicipality(t *testing.T) {
	dir := t.TempDir()
	muniDir := filepath.Join(dir, "municities")
	require.NoError(t, os.MkdirAll(muniDir, 0o755))
	// 桥接表为空：整文件市镇归属无法解析
	require.NoError(t, os.WriteFile(filepath.Join(muniDir, "calamba.json"), []byte(calambaGeoJSON), 0o644))

	features, stats, _ := Run(context.Background(), psgc.Bridge{}, testTable(), Sources{
		MunicitiesDir: muniDir,
	})

	assert.Empty(t, features)
	assert.Equal(t, 4, stats.Primary.MuniUnresolved)
	assert.Equal(t, 0, stats.Matched)
	assert.Equal(t, 5, stats.Residual)
}
