// 程序入口：从 Overpass 抽取补缺区域的行政村边界并落盘为 GeoJSON；
// 产物供 choropleth-build 的次级匹配源使用
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/flame-0/2025-nea/internal/config"
	"github.com/flame-0/2025-nea/internal/geo"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/osm"
	"github.com/flame-0/2025-nea/internal/output"
	"github.com/flame-0/2025-nea/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Info("overpass_fetch_start", "version", version.Version)

	sourcesDir := config.Getenv("SOURCES_DIR", filepath.Join("data", "sources"))
	outPath := config.Getenv("OSM_GEOJSON", filepath.Join(sourcesDir, "osm_barangays.geojson"))
	if _, err := os.Stat(outPath); err == nil && strings.ToLower(os.Getenv("OSM_FORCE")) != "true" {
		l.Info("overpass_fetch_cached", "path", outPath)
		return
	}
	endpoint := config.Getenv("OVERPASS_URL", osm.DefaultEndpoint)

	client := &http.Client{Timeout: 180 * time.Second}
	ctx := context.Background()
	var features []*geo.Feature
	for i, region := range osm.FetchRegions {
		l.Info("overpass_fetch_region", "region", region.Name)
		fs, err := osm.Fetch(ctx, client, endpoint, region.BBox)
		if err != nil {
			l.Error("overpass_fetch_error", "region", region.Name, "err", err)
			os.Exit(1)
		}
		l.Info("overpass_region_done", "region", region.Name, "features", len(fs))
		features = append(features, fs...)
		// 公共实例礼让间隔
		if i < len(osm.FetchRegions)-1 {
			time.Sleep(10 * time.Second)
		}
	}

	if err := output.WriteCollection(outPath, features); err != nil {
		l.Error("overpass_write_error", "path", outPath, "err", err)
		os.Exit(1)
	}
	l.Info("overpass_fetch_done", "features", len(features), "path", outPath)
}
