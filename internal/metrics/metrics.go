package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RowsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_rows_total",
		Help: "Tabular rows aggregated, by contest",
	}, []string{"contest"})
	RecordsTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "choropleth_records_total",
		Help: "Aggregated barangay records after merge",
	})
	GeoMatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_geo_matched_total",
		Help: "Geometry features matched to records, by stage",
	}, []string{"stage"})
	GeoUnmatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_geo_unmatched_total",
		Help: "Geometry features with no record match, by stage",
	}, []string{"stage"})
	MuniUnresolvedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_muni_unresolved_total",
		Help: "Geometry features whose municipality could not be bridged, by stage",
	}, []string{"stage"})
	RecordsMatchedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "choropleth_records_matched_total",
		Help: "Barangay records absorbed into output features, by stage",
	}, []string{"stage"})
	ResidualUnmatched = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "choropleth_residual_unmatched",
		Help: "Records never matched by any geometry source",
	})
	ExtractDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "choropleth_gdb_extract_duration_ms",
		Help:    "Per-municipality geodatabase extraction duration in milliseconds",
		Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000, 10000},
	})
)

func init() {
	prometheus.MustRegister(RowsTotal)
	prometheus.MustRegister(RecordsTotal)
	prometheus.MustRegister(GeoMatchedTotal)
	prometheus.MustRegister(GeoUnmatchedTotal)
	prometheus.MustRegister(MuniUnresolvedTotal)
	prometheus.MustRegister(RecordsMatchedTotal)
	prometheus.MustRegister(ResidualUnmatched)
	prometheus.MustRegister(ExtractDurationMs)
}

// 文档注释：返回 Prometheus 指标监听器
// 背景：长构建期间通过 METRICS_ADDR 暴露进度指标供抓取；批处理结束即随进程退出。
func Handler() http.Handler { return promhttp.Handler() }
