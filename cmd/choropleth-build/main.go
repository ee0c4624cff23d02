// 程序入口：读取配置、装载两份选票表与三路边界源、执行三级匹配并落盘产物；
// 匹配引擎全部在 internal 下，入口只做编排与收尾汇报
package main

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/flame-0/2025-nea/internal/config"
	"github.com/flame-0/2025-nea/internal/gdb"
	"github.com/flame-0/2025-nea/internal/logger"
	"github.com/flame-0/2025-nea/internal/metrics"
	"github.com/flame-0/2025-nea/internal/migrate"
	"github.com/flame-0/2025-nea/internal/output"
	"github.com/flame-0/2025-nea/internal/pipeline"
	"github.com/flame-0/2025-nea/internal/psgc"
	"github.com/flame-0/2025-nea/internal/results"
	"github.com/flame-0/2025-nea/internal/store"
	"github.com/flame-0/2025-nea/internal/utils"
	"github.com/flame-0/2025-nea/internal/version"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	l := logger.Setup()
	l.Info("build_start", "version", version.Version)
	start := time.Now()
	ctx := context.Background()

	sourcesDir := config.Getenv("SOURCES_DIR", filepath.Join("data", "sources"))
	geoBase := filepath.Join(sourcesDir, "philippines-json-maps", "2023", "geojson")
	outputPath := config.Getenv("OUTPUT_PATH", filepath.Join("public", "data", "barangays.geojson"))

	// 长构建期间可选暴露进度指标
	if addr := os.Getenv("METRICS_ADDR"); addr != "" {
		go func() {
			l.Info("metrics_listen", "addr", addr)
			if err := http.ListenAndServe(addr, metrics.Handler()); err != nil {
				l.Warn("metrics_listen_error", "err", err)
			}
		}()
	}

	senCand, plCand, err := config.LoadCandidates(os.Getenv("CANDIDATES_YAML"))
	if err != nil {
		l.Error("candidates_yaml_error", "err", err)
		os.Exit(1)
	}

	senate, err := results.AggregateFile(
		config.Getenv("SENATE_CSV", filepath.Join(sourcesDir, "senate25-final_updated.csv")), senCand)
	if err != nil {
		l.Error("senate_csv_error", "err", err)
		os.Exit(1)
	}
	metrics.RowsTotal.WithLabelValues("senate").Add(float64(senate.Rows))

	partylist, err := results.AggregateFile(
		config.Getenv("PARTYLIST_CSV", filepath.Join(sourcesDir, "partylist25-final_updated.csv")), plCand)
	if err != nil {
		l.Error("partylist_csv_error", "err", err)
		os.Exit(1)
	}
	metrics.RowsTotal.WithLabelValues("partylist").Add(float64(partylist.Rows))

	merged := results.Merge(senate, partylist)

	bridge, err := psgc.LoadBridge(
		filepath.Join(geoBase, "regions", "hires"),
		filepath.Join(geoBase, "provdists", "hires"))
	if err != nil {
		l.Error("bridge_load_error", "err", err)
		os.Exit(1)
	}

	// 次源：提取文件缺席则跳过该级
	osmPath := config.Getenv("OSM_GEOJSON", filepath.Join(sourcesDir, "osm_barangays.geojson"))
	if _, err := os.Stat(osmPath); err != nil {
		l.Warn("osm_extract_missing", "path", osmPath, "hint", "run cmd/overpass-fetch first")
		osmPath = ""
	}

	// 三级源：GDB 或 ogr2ogr 缺席时 Open 返回 nil，该级自动跳过
	cacheTTL := 0
	if v := os.Getenv("GDB_CACHE_TTL_S"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cacheTTL = n
		}
	}
	runner := gdb.Open(
		config.Getenv("GDB_PATH", filepath.Join(sourcesDir, "hdx_gdb", "phl_adm_psa_namria_20231106_GDB.gdb")),
		os.Getenv("GDB_LAYER"),
		gdb.NewChain(
			gdb.NewMemCache(),
			gdb.NewFileCache(filepath.Join(sourcesDir, "gdb_cache")),
			gdb.NewRedisCache(utils.OpenRedisFromEnv(), time.Duration(cacheTTL)*time.Second),
		))

	features, stats, residual := pipeline.Run(ctx, bridge, merged, pipeline.Sources{
		MunicitiesDir: filepath.Join(geoBase, "municities", "hires"),
		OSMPath:       osmPath,
		GDB:           runner,
	})

	if err := output.WriteCollection(outputPath, features); err != nil {
		l.Error("output_write_error", "path", outputPath, "err", err)
		os.Exit(1)
	}

	// 可选汇报层：PG_HOST 配置时写入本次构建账目与残余未匹配记录
	if dsn := utils.BuildPostgresDSNFromEnv(); dsn != "" {
		reportRun(ctx, dsn, stats, len(features), residual, time.Since(start))
	}

	l.Info("build_done",
		"records", stats.Records,
		"matched", stats.Matched,
		"residual", stats.Residual,
		"features", len(features),
		"elapsed", time.Since(start).Round(time.Millisecond).String())
}

// reportRun：汇报层整体尽力而为，任何错误只告警不影响构建结果
func reportRun(ctx context.Context, dsn string, stats *pipeline.Stats, features int, residual []*results.Record, dur time.Duration) {
	l := logger.L()
	s, err := store.Open(dsn)
	if err != nil {
		l.Warn("report_open_error", "err", err)
		return
	}
	defer s.Close()
	if err := migrate.EnsureSchema(s.DB()); err != nil {
		l.Warn("report_schema_error", "err", err)
		return
	}
	id, err := s.InsertRun(ctx, stats, features, dur)
	if err != nil {
		l.Warn("report_run_error", "err", err)
		return
	}
	if err := s.InsertResiduals(ctx, id, residual); err != nil {
		l.Warn("report_residuals_error", "err", err)
	}
}
