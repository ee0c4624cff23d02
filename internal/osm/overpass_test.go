package osm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(id int64, lon, lat float64) element {
	return element{Type: "node", ID: id, Lon: lon, Lat: lat}
}

func way(id int64, nodes ...int64) element {
	return element{Type: "way", ID: id, Nodes: nodes}
}

func TestBuildFeaturesSingleRing(t *testing.T) {
	// 两条 way 拼成一个四点方环，第二条方向相反
	resp := &overpassResponse{Elements: []element{
		node(1, 121.00, 14.50),
		node(2, 121.01, 14.50),
		node(3, 121.01, 14.51),
		node(4, 121.00, 14.51),
		way(10, 1, 2, 3),
		way(11, 1, 4, 3),
		{Type: "relation", ID: 100,
			Tags: map[string]string{"name": "Barangay 176", "ref": "1381100023"},
			Members: []member{
				{Type: "way", Ref: 10, Role: "outer"},
				{Type: "way", Ref: 11, Role: "outer"},
			}},
	}}

	fs := buildFeatures(resp)
	require.Len(t, fs, 1)
	f := fs[0]
	assert.Equal(t, "Barangay 176", f.Prop("name"))
	assert.Equal(t, "1381100023", f.Prop("psgc"))
	assert.Equal(t, "100", f.Prop("osm_id"))

	require.Equal(t, "Polygon", f.Geometry.Type)
	rings := f.Geometry.Coordinates.([][][]float64)
	require.Len(t, rings, 1)
	ring := rings[0]
	// 闭合：首尾相同，四角齐备
	assert.Equal(t, ring[0], ring[len(ring)-1])
	assert.Len(t, ring, 5)
}

func TestBuildFeaturesMultiRing(t *testing.T) {
	// 两个互不相接的闭合环 → MultiPolygon
	resp := &overpassResponse{Elements: []element{
		node(1, 121.00, 14.50), node(2, 121.01, 14.50), node(3, 121.01, 14.51),
		node(4, 122.00, 6.50), node(5, 122.01, 6.50), node(6, 122.01, 6.51),
		way(10, 1, 2, 3, 1),
		way(11, 4, 5, 6, 4),
		{Type: "relation", ID: 200,
			Tags: map[string]string{"name": "Split"},
			Members: []member{
				{Type: "way", Ref: 10, Role: "outer"},
				{Type: "way", Ref: 11, Role: "outer"},
			}},
	}}

	fs := buildFeatures(resp)
	require.Len(t, fs, 1)
	require.Equal(t, "MultiPolygon", fs[0].Geometry.Type)
	polys := fs[0].Geometry.Coordinates.([][][][]float64)
	assert.Len(t, polys, 2)
}

func TestBuildFeaturesSkipsDegenerate(t *testing.T) {
	resp := &overpassResponse{Elements: []element{
		node(1, 121.00, 14.50), node(2, 121.01, 14.50),
		way(10, 1, 2),
		// 仅内环成员：无外环，整个关系跳过
		{Type: "relation", ID: 300, Tags: map[string]string{"name": "InnerOnly"},
			Members: []member{{Type: "way", Ref: 10, Role: "inner"}}},
		// 外环只有两点：缝合后不足四点，环抛弃
		{Type: "relation", ID: 301, Tags: map[string]string{"name": "TooShort"},
			Members: []member{{Type: "way", Ref: 10, Role: "outer"}}},
	}}
	assert.Empty(t, buildFeatures(resp))
}

func TestBuildFeaturesRoleDefaultOuter(t *testing.T) {
	// role 缺省视为外环
	resp := &overpassResponse{Elements: []element{
		node(1, 121.00, 14.50), node(2, 121.01, 14.50), node(3, 121.01, 14.51),
		way(10, 1, 2, 3, 1),
		{Type: "relation", ID: 400, Tags: map[string]string{"name": "NoRole"},
			Members: []member{{Type: "way", Ref: 10}}},
	}}
	fs := buildFeatures(resp)
	require.Len(t, fs, 1)
	assert.Equal(t, "Polygon", fs[0].Geometry.Type)
}
