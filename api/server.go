// Package api はkoyomiのAPIサーバー実装を提供します。
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stsysd/koyomi/clock"
	"github.com/stsysd/koyomi/config"
	"github.com/stsysd/koyomi/metrics"
	"github.com/stsysd/koyomi/store"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

// Server はAPIサーバーの構造体です。
type Server struct {
	router   *http.ServeMux
	handler  http.Handler
	store    store.EventStore
	config   *config.Config
	clock    utc.Clock
	logger   *zap.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
}

// Option はServerの設定を変更します。
type Option func(*Server)

// WithClock は現在時刻の取得に使う時計を設定します。
func WithClock(c utc.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// WithLogger はロガーを設定します。
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithRegistry はメトリクスの登録先と /metrics の公開元を設定します。
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.metrics = metrics.New(reg)
		s.gatherer = reg
	}
}

// ErrorResponse はエラーレスポンスの構造体です。
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

// writeJSONError はJSON形式でエラーレスポンスを返却します。
func (s *Server) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	resp := ErrorResponse{
		Error: message,
		Code:  statusCode,
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.logger.Error("Error encoding error response", zap.Error(err))
	}
}

// writeJSON はJSON形式でレスポンスを返却します。
func (s *Server) writeJSON(w http.ResponseWriter, v any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Error encoding response", zap.Error(err))
	}
}

// NewServer は新しいAPIサーバーインスタンスを生成します。
func NewServer(store store.EventStore, config *config.Config, opts ...Option) *Server {
	s := &Server{
		router: http.NewServeMux(),
		store:  store,
		config: config,
		clock:  clock.System{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		WithRegistry(prometheus.NewRegistry())(s)
	}
	s.routes()
	s.handler = s.metrics.Middleware(s.router)
	return s
}

// routes はAPIエンドポイントのルーティングを設定します。
func (s *Server) routes() {
	// ヘルスチェックとメトリクスは認証不要
	s.router.HandleFunc("GET /healthz", s.handleHealthCheck)
	s.router.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	// すべての保護されたエンドポイントをまずセキュアなルータに登録
	securedHandler := http.NewServeMux()

	// Moment endpoints
	securedHandler.HandleFunc("GET /api/v0/now", s.handleNow)
	securedHandler.HandleFunc("GET /api/v0/epoch", s.handleEpoch)
	securedHandler.HandleFunc("GET /api/v0/moments", s.handleFromCivil)
	securedHandler.HandleFunc("GET /api/v0/moments/{seconds}", s.handleFromSeconds)

	// Event endpoints
	securedHandler.HandleFunc("POST /api/v0/events", s.handleCreateEvent)
	securedHandler.HandleFunc("GET /api/v0/events", s.handleListEvents)
	securedHandler.HandleFunc("GET /api/v0/events/{event_id}", s.handleGetEvent)
	securedHandler.HandleFunc("DELETE /api/v0/events/{event_id}", s.handleDeleteEvent)

	// 認証ミドルウェアを適用し、メインルータにマウント
	s.router.Handle("/api/", s.authMiddleware(securedHandler))

	// Calendar endpoints - support both with and without .svg extension
	s.router.HandleFunc("GET /calendar.svg", s.handleGetCalendar)
	s.router.HandleFunc("GET /calendar", s.handleGetCalendar)
	s.router.HandleFunc("GET /calendar/weekly.svg", s.handleGetWeeklyCalendar)
	s.router.HandleFunc("GET /calendar/weekly", s.handleGetWeeklyCalendar)
}

// ServeHTTP はServer構造体をhttp.Handlerとして実装します。
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// HealthResponse はヘルスチェックのレスポンスです。
type HealthResponse struct {
	Status string       `json:"status"`
	Clock  *ClockHealth `json:"clock,omitempty"`
}

// ClockHealth はNTP時計の状態です。
type ClockHealth struct {
	Healthy       bool    `json:"healthy"`
	OffsetSeconds float64 `json:"offset_seconds"`
	LastSync      string  `json:"last_sync,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// healthReporter は状態を報告できる時計です。
type healthReporter interface {
	Health() clock.Health
}

// handleHealthCheck はヘルスチェックエンドポイントのハンドラーです。
// NTP時計が同期できていない場合は status が degraded になります。
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok"}

	if hr, ok := s.clock.(healthReporter); ok {
		h := hr.Health()
		ch := &ClockHealth{
			Healthy:       h.Healthy,
			OffsetSeconds: h.Offset.Seconds(),
		}
		if !h.LastSync.IsZero() {
			ch.LastSync = h.LastSync.UTC().Format(time.RFC3339)
		}
		if h.Err != nil {
			ch.Error = h.Err.Error()
		}
		if !h.Healthy {
			resp.Status = "degraded"
		}
		resp.Clock = ch
	}

	s.writeJSON(w, resp, http.StatusOK)
}

// Run はサーバーを起動します。
func (s *Server) Run(addr string) error {
	s.logger.Info("Server starting", zap.String("addr", addr))
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
