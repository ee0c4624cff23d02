package osm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
)

// DefaultEndpoint：公共 Overpass 实例
const DefaultEndpoint = "https://overpass-api.de/api/interpreter"

const userAgent = "election-dashboard-builder/1.0"

// Region：一次抽取的地理范围；BBox 为 Overpass 语法 south,west,north,east
type Region struct {
	Name string
	BBox string
}

// FetchRegions：需要 OSM 补缺的两片区域
// 背景：主边界源缺少马尼拉市与巴西兰省的行政村多边形，其余地区不从 OSM 取
var FetchRegions = []Region{
	{Name: "NCR (Manila + Metro Manila)", BBox: "14.35,120.90,14.80,121.15"},
	{Name: "Basilan", BBox: "6.35,121.85,6.80,122.25"},
}

// BoundaryQuery：行政村级（admin_level=10）边界关系查询
// 约束：> 递归展开成员 way 与 node，skel qt 只带坐标不带标签
func BoundaryQuery(bbox string) string {
	return fmt.Sprintf(`
    [out:json][timeout:120];
    relation["admin_level"="10"]["boundary"="administrative"](%s);
    out body;
    >;
    out skel qt;
    `, bbox)
}

type member struct {
	Type string `json:"type"`
	Ref  int64  `json:"ref"`
	Role string `json:"role"`
}

type element struct {
	Type    string            `json:"type"`
	ID      int64             `json:"id"`
	Lat     float64           `json:"lat"`
	Lon     float64           `json:"lon"`
	Nodes   []int64           `json:"nodes"`
	Tags    map[string]string `json:"tags"`
	Members []member          `json:"members"`
}

type overpassResponse struct {
	Elements []element `json:"elements"`
}

// Fetch：抓取单个区域并组装成要素列表
// 背景：公共实例负载高，非 200 与网络错误按 3s*attempt 退避重试；
// 五次仍失败才向上报错。
func Fetch(ctx context.Context, client *http.Client, endpoint, bbox string) ([]*geo.Feature, error) {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	body := url.Values{"data": {BoundaryQuery(bbox)}}.Encode()

	const maxRetries = 5
	var raw []byte
	for attempt := 1; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", userAgent)

		resp, err := client.Do(req)
		if err == nil && resp.StatusCode == http.StatusOK {
			raw, err = io.ReadAll(resp.Body)
			resp.Body.Close()
			if err == nil {
				break
			}
		} else if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			err = fmt.Errorf("overpass status %d", resp.StatusCode)
		}
		if attempt >= maxRetries {
			return nil, err
		}
		wait := time.Duration(3*attempt) * time.Second
		logger.L().Warn("overpass_retry", "attempt", attempt, "wait", wait.String(), "err", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}

	var parsed overpassResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}
	return buildFeatures(&parsed), nil
}

// buildFeatures：关系 → 要素；外环 way 缝合成闭合环
func buildFeatures(resp *overpassResponse) []*geo.Feature {
	nodes := map[int64][2]float64{}
	ways := map[int64][]int64{}
	var relations []element
	for _, el := range resp.Elements {
		switch el.Type {
		case "node":
			nodes[el.ID] = [2]float64{el.Lon, el.Lat}
		case "way":
			ways[el.ID] = el.Nodes
		case "relation":
			relations = append(relations, el)
		}
	}
	logger.L().Debug("overpass_elements", "relations", len(relations), "ways", len(ways), "nodes", len(nodes))

	var features []*geo.Feature
	for _, rel := range relations {
		var outer []int64
		for _, m := range rel.Members {
			if m.Type == "way" && (m.Role == "outer" || m.Role == "") {
				outer = append(outer, m.Ref)
			}
		}
		if len(outer) == 0 {
			continue
		}
		rings := stitchRings(outer, ways, nodes)
		if len(rings) == 0 {
			continue
		}

		g := &geo.Geometry{}
		if len(rings) == 1 {
			g.Type = "Polygon"
			g.Coordinates = rings
		} else {
			g.Type = "MultiPolygon"
			polys := make([][][][]float64, 0, len(rings))
			for _, r := range rings {
				polys = append(polys, [][][]float64{r})
			}
			g.Coordinates = polys
		}
		features = append(features, &geo.Feature{
			Type: "Feature",
			Properties: map[string]any{
				"name":   rel.Tags["name"],
				"psgc":   rel.Tags["ref"],
				"osm_id": strconv.FormatInt(rel.ID, 10),
			},
			Geometry: g,
		})
	}
	return features
}

// stitchRings：把无序的外环 way 段缝合为闭合环
// 背景：OSM 关系的外环由多条 way 任意方向拼成；贪心地把首尾相接的段并入
// 当前环，必要时倒序，直至无段可并。
// 约束：缺失节点的坐标直接丢弃；缝合后不足四点的环不可能闭合，抛弃；
// 首尾不等时强制补首点闭合。
func stitchRings(wayIDs []int64, ways map[int64][]int64, nodes map[int64][2]float64) [][][]float64 {
	var segments [][][2]float64
	for _, wid := range wayIDs {
		ids, ok := ways[wid]
		if !ok {
			continue
		}
		var coords [][2]float64
		for _, nid := range ids {
			if pt, ok := nodes[nid]; ok {
				coords = append(coords, pt)
			}
		}
		if len(coords) > 0 {
			segments = append(segments, coords)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	var rings [][][]float64
	for len(segments) > 0 {
		ring := segments[0]
		segments = segments[1:]
		for {
			joined := false
			for i, seg := range segments {
				switch {
				case ring[len(ring)-1] == seg[0]:
					ring = append(ring, seg[1:]...)
				case ring[len(ring)-1] == seg[len(seg)-1]:
					ring = append(ring, reverse(seg[:len(seg)-1])...)
				case ring[0] == seg[len(seg)-1]:
					ring = append(append([][2]float64{}, seg[:len(seg)-1]...), ring...)
				case ring[0] == seg[0]:
					ring = append(reverse(seg[1:]), ring...)
				default:
					continue
				}
				segments = append(segments[:i], segments[i+1:]...)
				joined = true
				break
			}
			if !joined {
				break
			}
		}
		if ring[0] != ring[len(ring)-1] {
			ring = append(ring, ring[0])
		}
		if len(ring) < 4 {
			continue
		}
		out := make([][]float64, len(ring))
		for i, pt := range ring {
			out[i] = []float64{round6(pt[0]), round6(pt[1])}
		}
		rings = append(rings, out)
	}
	return rings
}

func reverse(seg [][2]float64) [][2]float64 {
	out := make([][2]float64, len(seg))
	for i, pt := range seg {
		out[len(seg)-1-i] = pt
	}
	return out
}

func round6(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
