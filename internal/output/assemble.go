// 包 output：匹配产物装配与紧凑序列化
// 背景：产物直接喂给前端地图，属性集压到最短键名、坐标统一舍入以控制体积；
// 一次成功匹配产出且仅产出一个要素。
package output

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/results"
)

// 坐标舍入位数：约 110 米网格，村级展示足够
const coordPrecision = 3

// MergeFeature：把一组命中的聚合记录合并为一个输出要素
// 背景：分村合并层一次命中多条记录，数值全部求和；展示键取枚举序首条记录，
// 该顺序即记录在选票表中的首现顺序，对固定输入确定。
// 约束：缺席的候选人不写零值属性，直接省略。
func MergeFeature(matched []*results.Record, g *geo.Geometry) *geo.Feature {
	if len(matched) == 0 || g == nil {
		return nil
	}
	first := matched[0]
	var rv, av int64
	votes := map[string]int64{}
	for _, r := range matched {
		rv += r.RegisteredVoters
		av += r.ActualVoters
		for id, v := range r.Votes {
			votes[id] += v
		}
	}
	props := map[string]any{
		"p":  first.Key.Province,
		"m":  first.Key.Municipality,
		"b":  first.Key.Barangay,
		"rv": rv,
		"av": av,
	}
	for id, v := range votes {
		props["v_"+id] = v
	}
	return &geo.Feature{
		Type:       "Feature",
		Properties: props,
		Geometry: &geo.Geometry{
			Type:        g.Type,
			Coordinates: geo.RoundCoords(g.Coordinates, coordPrecision),
		},
	}
}

// WriteCollection：紧凑序列化整个要素集并落盘
// 约束：encoding/json 默认无多余空白，满足紧凑输出契约；目标目录不存在时创建。
func WriteCollection(path string, features []*geo.Feature) error {
	if features == nil {
		features = []*geo.Feature{}
	}
	fc := geo.FeatureCollection{Type: "FeatureCollection", Features: features}
	b, err := json.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return err
	}
	logger.L().Info("output_written", "path", path, "features", len(features), "bytes", len(b))
	return nil
}
