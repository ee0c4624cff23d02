// 包 geo：GeoJSON 要素集的最小数据模型与加载工具
// 背景：三路边界数据源均以 GeoJSON 形态进入引擎；保持结构轻量以便整份常驻内存。
// 约束：几何仅支持 Polygon/MultiPolygon；坐标树以 any 承载（经度在前、纬度在后），
// 引擎除取质心与舍入外不改写几何。
package geo

import (
	"encoding/json"
	"os"
)

type FeatureCollection struct {
	Type     string     `json:"type"`
	Features []*Feature `json:"features"`
}

type Feature struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	Geometry   *Geometry      `json:"geometry"`
}

type Geometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// Prop：读取字符串属性，缺失或非字符串返回空串
func (f *Feature) Prop(key string) string {
	if f == nil || f.Properties == nil {
		return ""
	}
	if v, ok := f.Properties[key].(string); ok {
		return v
	}
	return ""
}

// PropInt64：读取数值属性并取整
// 背景：PSGC 代码在不同数据源中既有数值也有字符串形态，统一在 psgc 包解析；
// 此处仅处理 JSON 数值（解码后为 float64）。
func (f *Feature) PropInt64(key string) (int64, bool) {
	if f == nil || f.Properties == nil {
		return 0, false
	}
	if v, ok := f.Properties[key].(float64); ok {
		return int64(v), true
	}
	return 0, false
}

// Load：读取单个 GeoJSON 文件
func Load(path string) (*FeatureCollection, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fc FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}

// Parse：从字节解析要素集（供外部工具输出与测试复用）
func Parse(b []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	return &fc, nil
}
