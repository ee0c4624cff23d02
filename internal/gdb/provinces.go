package gdb

import "strings"

// 选票表省名 → GDB ADM2_EN 等价表
// 背景：GDB 沿用 PSA 行政区划命名，与选票表在 NCR 选区、巴西兰、达沃德奥罗
// 三处系统性分歧；SPECIAL GEOGRAPHIC AREA 在 GDB 中无对应图层，显式排除。
var provCSVToADM2 = map[string]string{
	"NATIONAL CAPITAL REGION - MANILA":          "Metropolitan Manila First District",
	"NATIONAL CAPITAL REGION - SECOND DISTRICT": "Metropolitan Manila Second District",
	"NATIONAL CAPITAL REGION - THIRD DISTRICT":  "Metropolitan Manila Third District",
	"NATIONAL CAPITAL REGION - FOURTH DISTRICT": "Metropolitan Manila Fourth District",
	"BASILAN":           "City of Isabela (not a province)",
	"DAVAO DEL NORTE":   "Davao del Norte",
	"COMPOSTELA VALLEY": "Davao de Oro",
}

var provExcluded = map[string]bool{
	"SPECIAL GEOGRAPHIC AREA": true,
}

// ADM2Province：换算选票表省名到 GDB 省名（大写，供索引键使用）
// 返回：excluded 为真表示该省在 GDB 无对应条目，整省跳过。
func ADM2Province(csvProv string) (adm2Upper string, excluded bool) {
	if provExcluded[csvProv] {
		return "", true
	}
	if adm2, ok := provCSVToADM2[csvProv]; ok {
		return strings.ToUpper(adm2), false
	}
	return strings.ToUpper(csvProv), false
}
