// 包 osm：次级边界源（OSM Overpass 提取）的市镇归属解析
// 背景：OSM 行政村关系的 ref 标签偶有缺失或残缺，PSGC 前缀表只覆盖提取范围内
// （NCR 与巴西兰）的市镇；无代码要素走编号村包围盒启发与唯一名搜索两条兜底。
package osm

import (
	"regexp"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/psgc"
)

// 提取范围内 municipality 级 PSGC（10 位 barangay 代码前 7 位补零）→ 选票表名称对
// 背景：与主边界源不同，OSM 侧的 NCR 市镇在选票表中按选区挂靠，需人工固定。
var muniByPrefix = map[int64]psgc.Muni{
	// NCR 第一选区（马尼拉市）
	1381100000: {Province: "NATIONAL CAPITAL REGION - MANILA", Municipality: "CITY OF MANILA"},
	// NCR 第二选区
	1380200000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF MANDALUYONG"},
	1380300000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF MAKATI"},
	1380400000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF MARIKINA"},
	1380500000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF PASIG"},
	1381300000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF SAN JUAN"},
	1380700000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "PATEROS"},
	1381600000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF TAGUIG"},
	// NCR 第三选区
	1380800000: {Province: "NATIONAL CAPITAL REGION - THIRD DISTRICT", Municipality: "CITY OF CALOOCAN"},
	1381000000: {Province: "NATIONAL CAPITAL REGION - THIRD DISTRICT", Municipality: "CITY OF MALABON"},
	1381400000: {Province: "NATIONAL CAPITAL REGION - THIRD DISTRICT", Municipality: "CITY OF NAVOTAS"},
	1381500000: {Province: "NATIONAL CAPITAL REGION - THIRD DISTRICT", Municipality: "CITY OF VALENZUELA"},
	// NCR 第四选区
	1380600000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF PARANAQUE"},
	1380900000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF LAS PINAS"},
	1381200000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF MUNTINLUPA"},
	1381701000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF PASAY"},
	// 奎松市在选票表中跨两个分区
	402109000: {Province: "NATIONAL CAPITAL REGION - SECOND DISTRICT", Municipality: "CITY OF QUEZON"},
	// NCR 周边的布拉干近郊
	301405000: {Province: "BULACAN", Municipality: "CITY OF MEYCAUAYAN"},
	301412000: {Province: "BULACAN", Municipality: "OBANDO"},
	301414000: {Province: "BULACAN", Municipality: "CITY OF SAN JOSE DEL MONTE"},
	// 甲米地
	402103000: {Province: "CAVITE", Municipality: "CITY OF BACOOR"},
	402106000: {Province: "CAVITE", Municipality: "CITY OF DASMARINAS"},
	402108000: {Province: "CAVITE", Municipality: "CITY OF GENERAL TRIAS"},
	402111000: {Province: "CAVITE", Municipality: "CITY OF IMUS"},
	// 内湖
	405801000: {Province: "LAGUNA", Municipality: "CITY OF BINAN"},
	405802000: {Province: "LAGUNA", Municipality: "CITY OF CABUYAO"},
	405813000: {Province: "LAGUNA", Municipality: "CITY OF SANTA ROSA"},
	// 帕赛下辖子市镇代码
	1380608000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF PASAY"},
	1380609000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF PASAY"},
	1380611000: {Province: "NATIONAL CAPITAL REGION - FOURTH DISTRICT", Municipality: "CITY OF PASAY"},
}

// 马尼拉市包围盒：编号村无代码时的归属启发
var manilaBBox = geo.BBox{120.96, 14.55, 121.02, 14.63}

var numberedRe = regexp.MustCompile(`^Barangay \d+`)

// ResolveByCode：按 10 位 PSGC 前缀解析市镇归属
// 约束：非 10 位代码按无代码处理（残缺 ref 走名称兜底）
func ResolveByCode(psgcTag string) (psgc.Muni, bool) {
	code, ok := psgc.MuniPrefix(psgcTag)
	if !ok {
		return psgc.Muni{}, false
	}
	m, ok := muniByPrefix[code]
	return m, ok
}

// Numbered：要素名是否为通用编号村式命名（"Barangay NNN"）
func Numbered(name string) bool { return numberedRe.MatchString(name) }

// InManila：质心是否落在马尼拉市包围盒内
// 背景：编号村全国大量重名，仅当多边形确在马尼拉市范围内才指派给马尼拉；
// 这是引擎中唯一的空间判定，代价有界。
func InManila(g *geo.Geometry) bool {
	c, ok := geo.Centroid(g)
	if !ok {
		return false
	}
	return geo.InBBox(c, manilaBBox)
}

// Manila：编号村包围盒命中时的固定归属
func Manila() psgc.Muni {
	return psgc.Muni{Province: "NATIONAL CAPITAL REGION - MANILA", Municipality: "CITY OF MANILA"}
}
