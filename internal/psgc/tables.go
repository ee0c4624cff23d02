package psgc

import "strings"

// 人工维护表：独立建制市（HUC）的 municipality 级 PSGC → 选票表名称对
// 背景：HUC 不隶属省级统计，provdists 图层没有它们的条目，只能人工补齐。
var hucMuni = map[int64]Muni{
	330100000:  {"PAMPANGA", "CITY OF ANGELES"},
	331400000:  {"ZAMBALES", "CITY OF OLONGAPO"},
	431200000:  {"QUEZON", "CITY OF LUCENA"},
	630200000:  {"NEGROS OCCIDENTAL", "CITY OF BACOLOD"},
	631000000:  {"ILOILO", "CITY OF ILOILO"},
	730600000:  {"CEBU", "CITY OF CEBU"},
	731100000:  {"CEBU", "CITY OF LAPU-LAPU"},
	731300000:  {"CEBU", "CITY OF MANDAUE"},
	831600000:  {"LEYTE", "CITY OF TACLOBAN"},
	931700000:  {"ZAMBOANGA DEL SUR", "CITY OF ZAMBOANGA"},
	1030500000: {"MISAMIS ORIENTAL", "CITY OF CAGAYAN DE ORO"},
	1030900000: {"LANAO DEL NORTE", "CITY OF ILIGAN"},
	1230800000: {"SOUTH COTABATO", "CITY OF GENERAL SANTOS"},
	1430300000: {"BENGUET", "CITY OF BAGUIO"},
	1630400000: {"AGUSAN DEL NORTE", "CITY OF BUTUAN"},
	1731500000: {"PALAWAN", "CITY OF PUERTO PRINCESA"},
}

// NCR 行政区省名等价表：边界图层命名 → 选票表候选命名
// 背景：NCR 在选票表中按选区拆分，图层侧沿用 PSA 的"NOT A PROVINCE"命名；
// 第一选区在选票侧同时出现过 "- MANILA" 与 "- FIRST DISTRICT" 两种写法，
// 逐一探测，以实际存在的键为准。
var ncrProvGeoToCSV = map[string][]string{
	"NCR, CITY OF MANILA, FIRST DISTRICT (NOT A PROVINCE)": {
		"NATIONAL CAPITAL REGION - MANILA",
		"NATIONAL CAPITAL REGION - FIRST DISTRICT",
	},
	"NCR, SECOND DISTRICT (NOT A PROVINCE)": {"NATIONAL CAPITAL REGION - SECOND DISTRICT"},
	"NCR, THIRD DISTRICT (NOT A PROVINCE)":  {"NATIONAL CAPITAL REGION - THIRD DISTRICT"},
	"NCR, FOURTH DISTRICT (NOT A PROVINCE)": {"NATIONAL CAPITAL REGION - FOURTH DISTRICT"},
}

// 市镇名拼写修正表：选票表拼写 → 图层拼写
var muniNameCSVToGeo = map[string]string{
	"CITY OF OZAMIS":      "CITY OF OZAMIZ",
	"GEN. S. K. PENDATUN": "GEN. S.K. PENDATUN",
}

// ResolveCSVKey：把桥接出的图层名称对落位到选票表中实际存在的键
// 背景：图层与选票表在 NCR 省名、个别市镇拼写、"CITY OF" 前缀三处系统性不一致，
// 依次尝试直接命中、NCR 换算、拼写修正、前缀增删。
// 返回：命中的选票表键；全部落空返回 false，由调用方计入未解析统计。
func ResolveCSVKey(geoProv, geoMuni string, exists func(Muni) bool) (Muni, bool) {
	if k := (Muni{geoProv, geoMuni}); exists(k) {
		return k, true
	}
	provs := []string{geoProv}
	provs = append(provs, ncrProvGeoToCSV[geoProv]...)
	for _, p := range provs[1:] {
		if k := (Muni{p, geoMuni}); exists(k) {
			return k, true
		}
	}
	for csvName, geoName := range muniNameCSVToGeo {
		if geoMuni != geoName {
			continue
		}
		for _, p := range provs {
			if k := (Muni{p, csvName}); exists(k) {
				return k, true
			}
		}
	}
	for _, p := range provs {
		if k := (Muni{p, "CITY OF " + geoMuni}); exists(k) {
			return k, true
		}
		bare := strings.ReplaceAll(geoMuni, "CITY OF ", "")
		if k := (Muni{p, bare}); exists(k) {
			return k, true
		}
	}
	return Muni{}, false
}
