// 包 psgc：PSGC 行政代码与选票表 (province, municipality) 名称对的双向桥接
// 背景：PSGC 为分层数值代码，前缀依次标识 region/province/municipality/barangay；
// 选票 CSV 只有自由文本名称，主边界源只有代码，桥接层是两者唯一的连接点。
// 约束：桥接失败一律以"查无"形式返回给调用方并落入后续解析策略，绝不中断构建。
package psgc

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
)

// Muni：选票表使用的 (province, municipality) 名称对，全大写
type Muni struct {
	Province     string
	Municipality string
}

// Bridge：municipality 级 PSGC 代码 → 选票表名称对
type Bridge map[int64]Muni

// Parse：解析字符串形态的 PSGC 代码
func Parse(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// MuniCode：将 barangay 级代码截断为 municipality 级，末三位补零
// 背景：不同数据源同一市镇的代码位宽可能不同（9 位与 10 位并存），
// 统一在 municipality 级截断后比较。
func MuniCode(code int64) int64 {
	return code / 1000 * 1000
}

// MuniPrefix：取 10 位 barangay 代码的前 7 位并补零为 municipality 级代码
// 约束：非 10 位输入视为无代码，返回 false（次级数据源偶见残缺 ref 标签）。
func MuniPrefix(s string) (int64, bool) {
	s = strings.TrimSpace(s)
	if len(s) != 10 {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:7]+"000", 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// codeProp：从要素属性中读代码；数据源中数值与字符串两种形态都出现过
func codeProp(f *geo.Feature, key string) (int64, bool) {
	if n, ok := f.PropInt64(key); ok && n > 0 {
		return n, true
	}
	return Parse(f.Prop(key))
}

// BuildBridge：由省级图层与市镇图层交叉引用构建桥接表
// 背景：regions 图层提供 adm2_psgc→省名，provdists 图层提供 adm3_psgc→(adm2_psgc, 市镇名)；
// 两层拼接后再叠加独立建制市（HUC）人工表，HUC 的代码不出现在 provdists 层。
// 约束：省代码查不到省名时写入空省名而非报错，由调用方按"无桥接"处理。
func BuildBridge(regions, provdists []*geo.FeatureCollection) Bridge {
	provName := map[int64]string{}
	for _, fc := range regions {
		if fc == nil {
			continue
		}
		for _, f := range fc.Features {
			name := strings.ToUpper(strings.TrimSpace(f.Prop("adm2_en")))
			if name == "" {
				continue
			}
			if code, ok := codeProp(f, "adm2_psgc"); ok {
				provName[code] = name
			}
		}
	}
	b := Bridge{}
	for _, fc := range provdists {
		if fc == nil {
			continue
		}
		for _, f := range fc.Features {
			muni := strings.ToUpper(strings.TrimSpace(f.Prop("adm3_en")))
			if muni == "" {
				continue
			}
			code, ok := codeProp(f, "adm3_psgc")
			if !ok {
				continue
			}
			provCode, _ := codeProp(f, "adm2_psgc")
			b[code] = Muni{Province: provName[provCode], Municipality: muni}
		}
	}
	for code, m := range hucMuni {
		b[code] = m
	}
	logger.L().Info("psgc_bridge_built", "entries", len(b), "provinces", len(provName))
	return b
}

// LoadBridge：从两个图层目录读取全部 GeoJSON 并构建桥接表
// 约束：单个文件读取失败仅告警跳过；目录缺失返回错误（主数据源不可或缺）。
func LoadBridge(regionsDir, provdistsDir string) (Bridge, error) {
	regions, err := loadDir(regionsDir)
	if err != nil {
		return nil, err
	}
	provdists, err := loadDir(provdistsDir)
	if err != nil {
		return nil, err
	}
	return BuildBridge(regions, provdists), nil
}

func loadDir(dir string) ([]*geo.FeatureCollection, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []*geo.FeatureCollection
	for _, ent := range entries {
		if ent.IsDir() || !strings.HasSuffix(ent.Name(), ".json") && !strings.HasSuffix(ent.Name(), ".geojson") {
			continue
		}
		fc, err := geo.Load(filepath.Join(dir, ent.Name()))
		if err != nil {
			logger.L().Warn("psgc_layer_file_skip", "file", ent.Name(), "err", err)
			continue
		}
		out = append(out, fc)
	}
	return out, nil
}
