package api

import (
	"context"
	"net/http"

	"github.com/stsysd/koyomi/heatmap"
	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/store"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

var calendarColors = []string{"#ebedf0", "#9be9a8", "#40c463", "#30a14e", "#216e39"}

// GetCalendarParams represents parameters for getting a calendar graph.
type GetCalendarParams struct {
	DateRange *model.DateRange
	Title     string
}

// NewGetCalendarParams creates parameters for graph generation from HTTP request.
// year takes precedence over from and to.
func NewGetCalendarParams(r *http.Request, today utc.Moment) (*GetCalendarParams, error) {
	query := r.URL.Query()

	var dateRange *model.DateRange
	if yearStr := query.Get("year"); yearStr != "" {
		year, err := model.NewYear(yearStr)
		if err != nil {
			return nil, err
		}
		dateRange, err = year.DateRange()
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		dateRange, err = model.NewDateRange(query.Get("from"), query.Get("to"), today)
		if err != nil {
			return nil, err
		}
	}

	return &GetCalendarParams{
		DateRange: dateRange,
		Title:     query.Get("title"),
	}, nil
}

// handleGetCalendar は日ごとのイベント数のヒートマップを返却するハンドラーです。
func (s *Server) handleGetCalendar(w http.ResponseWriter, r *http.Request) {
	s.serveCalendar(w, r, s.store.CountEventsByDay, heatmap.GenerateYearlyHeatmapSVG)
}

// handleGetWeeklyCalendar は4時間ごとのイベント数のヒートマップを返却するハンドラーです。
func (s *Server) handleGetWeeklyCalendar(w http.ResponseWriter, r *http.Request) {
	s.serveCalendar(w, r, s.store.CountEventsByHour, heatmap.GenerateWeeklyHeatmapSVG)
}

func (s *Server) serveCalendar(
	w http.ResponseWriter,
	r *http.Request,
	count func(ctx context.Context, from, until utc.Moment) ([]store.Bucket, error),
	render func(data []heatmap.Data, opts *heatmap.Options) string,
) {
	today, err := utc.NowFrom(s.clock)
	if err != nil {
		s.logger.Error("Clock is unusable", zap.Error(err))
		http.Error(w, "Clock is unavailable", http.StatusInternalServerError)
		return
	}

	// パラメータを検証
	params, err := NewGetCalendarParams(r, today)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	buckets, err := count(r.Context(), params.DateRange.From(), params.DateRange.Until())
	if err != nil {
		s.logger.Error("Error counting events", zap.Error(err))
		http.Error(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	// イベントがない期間でも空のグリッドを描画する
	data := make([]heatmap.Data, 0, len(buckets)+1)
	data = append(data, heatmap.Data{Date: params.DateRange.From()})
	for _, b := range buckets {
		data = append(data, heatmap.Data{Date: b.Start, Value: b.Count})
	}

	svg := render(data, &heatmap.Options{
		CellSize:    12,
		CellPadding: 2,
		FontSize:    10,
		FontFamily:  "sans-serif",
		Colors:      calendarColors,
		Title:       params.Title,
		From:        params.DateRange.From(),
		To:          params.DateRange.To(),
	})

	// レスポンスの返却
	w.Header().Set("Content-Type", "image/svg+xml")
	if _, err := w.Write([]byte(svg)); err != nil {
		s.logger.Error("Error writing response", zap.Error(err))
	}
}
