package psgc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flame-0/2025-nea/internal/geo"
)

func TestParse(t *testing.T) {
	n, ok := Parse(" 1381100000 ")
	require.True(t, ok)
	assert.Equal(t, int64(1381100000), n)

	for _, s := range []string{"", "abc", "0", "-5"} {
		_, ok := Parse(s)
		assert.False(t, ok, "input %q", s)
	}
}

func TestMuniCode(t *testing.T) {
	assert.Equal(t, int64(1381100000), MuniCode(1381100023))
	assert.Equal(t, int64(1381100000), MuniCode(1381100000))
	// 9 位与 10 位代码截断到同一市镇级
	assert.Equal(t, int64(403401000), MuniCode(403401015))
}

func TestMuniPrefix(t *testing.T) {
	n, ok := MuniPrefix("1380100001")
	require.True(t, ok)
	assert.Equal(t, int64(1380100000), n)

	for _, s := range []string{"", "138010001", "13801000011", "abcdefghij"} {
		_, ok := MuniPrefix(s)
		assert.False(t, ok, "input %q", s)
	}
}

func fc(features ...*geo.Feature) *geo.FeatureCollection {
	return &geo.FeatureCollection{Type: "FeatureCollection", Features: features}
}

func TestBuildBridge(t *testing.T) {
	regions := fc(
		&geo.Feature{Properties: map[string]any{"adm2_en": "Laguna", "adm2_psgc": float64(403400000)}},
		&geo.Feature{Properties: map[string]any{"adm2_en": "Cavite", "adm2_psgc": "402100000"}},
	)
	provdists := fc(
		&geo.Feature{Properties: map[string]any{"adm3_en": "City of Calamba", "adm3_psgc": float64(403405000), "adm2_psgc": float64(403400000)}},
		// 省代码缺席：市镇仍入桥，省名为空
		&geo.Feature{Properties: map[string]any{"adm3_en": "Orphan Town", "adm3_psgc": float64(999990100)}},
	)

	b := BuildBridge([]*geo.FeatureCollection{regions}, []*geo.FeatureCollection{provdists})

	m, ok := b[403405000]
	require.True(t, ok)
	assert.Equal(t, Muni{Province: "LAGUNA", Municipality: "CITY OF CALAMBA"}, m)

	orphan, ok := b[999990100]
	require.True(t, ok)
	assert.Equal(t, "", orphan.Province)
	assert.Equal(t, "ORPHAN TOWN", orphan.Municipality)

	// HUC 叠加表不经过 provdists 图层
	huc, ok := b[730600000]
	require.True(t, ok)
	assert.Equal(t, Muni{Province: "CEBU", Municipality: "CITY OF CEBU"}, huc)
}

func TestResolveCSVKey(t *testing.T) {
	table := map[Muni]bool{}
	for _, m := range []Muni{
		{"LAGUNA", "CITY OF CALAMBA"},
		{"NATIONAL CAPITAL REGION - FOURTH DISTRICT", "TAGUIG"},
		{"NATIONAL CAPITAL REGION - FIRST DISTRICT", "TONDO"},
		{"MISAMIS OCCIDENTAL", "CITY OF OZAMIS"},
		{"BATANGAS", "CITY OF BATANGAS"},
		{"CEBU", "MANDAUE"},
	} {
		table[m] = true
	}
	exists := func(m Muni) bool { return table[m] }

	// 直接命中
	k, ok := ResolveCSVKey("LAGUNA", "CITY OF CALAMBA", exists)
	require.True(t, ok)
	assert.Equal(t, Muni{"LAGUNA", "CITY OF CALAMBA"}, k)

	// NCR 换算
	k, ok = ResolveCSVKey("NCR, FOURTH DISTRICT (NOT A PROVINCE)", "TAGUIG", exists)
	require.True(t, ok)
	assert.Equal(t, "NATIONAL CAPITAL REGION - FOURTH DISTRICT", k.Province)

	// 第一选区的两种选票侧写法都能落位
	k, ok = ResolveCSVKey("NCR, CITY OF MANILA, FIRST DISTRICT (NOT A PROVINCE)", "TONDO", exists)
	require.True(t, ok)
	assert.Equal(t, "NATIONAL CAPITAL REGION - FIRST DISTRICT", k.Province)

	// 拼写修正
	k, ok = ResolveCSVKey("MISAMIS OCCIDENTAL", "CITY OF OZAMIZ", exists)
	require.True(t, ok)
	assert.Equal(t, "CITY OF OZAMIS", k.Municipality)

	// CITY OF 前缀增删
	k, ok = ResolveCSVKey("BATANGAS", "BATANGAS", exists)
	require.True(t, ok)
	assert.Equal(t, "CITY OF BATANGAS", k.Municipality)

	k, ok = ResolveCSVKey("CEBU", "CITY OF MANDAUE", exists)
	require.True(t, ok)
	assert.Equal(t, "MANDAUE", k.Municipality)

	_, ok = ResolveCSVKey("NOWHERE", "NO TOWN", exists)
	assert.False(t, ok)
}
