package geo

import "math"

// 点坐标（WGS84）
type Point struct {
	Lat float64
	Lon float64
}

// 包围盒：minLon, minLat, maxLon, maxLat
type BBox [4]float64

// InBBox：快速包围盒包含判定
func InBBox(pt Point, b BBox) bool {
	return pt.Lon >= b[0] && pt.Lon <= b[2] && pt.Lat >= b[1] && pt.Lat <= b[3]
}

// RoundCoords：递归舍入坐标树到固定小数位
// 背景：边界数据原始精度远超展示所需，统一舍入可显著压缩产物体积。
// 约束：仅处理 float64 与嵌套切片；其余节点原样返回，不做几何校验。
func RoundCoords(v any, precision int) any {
	p := math.Pow10(precision)
	switch x := v.(type) {
	case float64:
		return math.Round(x*p) / p
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = RoundCoords(e, precision)
		}
		return out
	default:
		return v
	}
}

// Centroid：取几何外环的顶点均值
// 背景：仅用于次级数据源的包围盒消歧（编号村不带代码时判断是否落在马尼拉市内）；
// 不追求形心精度，顶点均值已足够。
// 约束：Polygon 取第一环，MultiPolygon 取第一面的第一环；空环返回 false。
func Centroid(g *Geometry) (Point, bool) {
	if g == nil {
		return Point{}, false
	}
	var ring []any
	switch g.Type {
	case "Polygon":
		coords, ok := g.Coordinates.([]any)
		if !ok || len(coords) == 0 {
			return Point{}, false
		}
		ring, _ = coords[0].([]any)
	case "MultiPolygon":
		coords, ok := g.Coordinates.([]any)
		if !ok || len(coords) == 0 {
			return Point{}, false
		}
		poly, ok := coords[0].([]any)
		if !ok || len(poly) == 0 {
			return Point{}, false
		}
		ring, _ = poly[0].([]any)
	default:
		return Point{}, false
	}
	if len(ring) == 0 {
		return Point{}, false
	}
	var sumLat, sumLon float64
	n := 0
	for _, pv := range ring {
		pair, ok := pv.([]any)
		if !ok || len(pair) < 2 {
			continue
		}
		lon, ok1 := pair[0].(float64)
		lat, ok2 := pair[1].(float64)
		if !ok1 || !ok2 {
			continue
		}
		sumLon += lon
		sumLat += lat
		n++
	}
	if n == 0 {
		return Point{}, false
	}
	return Point{Lat: sumLat / float64(n), Lon: sumLon / float64(n)}, true
}
