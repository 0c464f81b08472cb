// Package metrics はPrometheusのメトリクスを定義します。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics はHTTPサーバーと変換処理のメトリクスを保持します。
type Metrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	conversions     *prometheus.CounterVec
	domainErrors    *prometheus.CounterVec
}

// New は reg にメトリクスを登録して返します。
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		requestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "koyomi",
				Subsystem: "api",
				Name:      "requests_total",
				Help:      "Total number of API requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "koyomi",
				Subsystem: "api",
				Name:      "request_duration_seconds",
				Help:      "API request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		),
		conversions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "koyomi",
				Name:      "conversions_total",
				Help:      "Number of successful moment conversions",
			},
			[]string{"operation"},
		),
		domainErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "koyomi",
				Name:      "conversion_errors_total",
				Help:      "Number of rejected moment conversions",
			},
			[]string{"operation", "reason"},
		),
	}
}

// ObserveConversion は変換の成功を記録します。
func (m *Metrics) ObserveConversion(operation string) {
	m.conversions.WithLabelValues(operation).Inc()
}

// ObserveConversionError は変換の失敗を理由ごとに記録します。
func (m *Metrics) ObserveConversionError(operation, reason string) {
	m.domainErrors.WithLabelValues(operation, reason).Inc()
}

// statusRecorder はレスポンスのステータスコードを記録します。
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware はリクエスト数と処理時間を記録するミドルウェアです。
// ルートはServeMuxが一致させたパターンで集計します。
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		m.requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
