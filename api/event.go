package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

// CreateEventParams represents parameters for creating an event.
type CreateEventParams struct {
	Name string
	// At is nil when the event happens now.
	At *utc.Moment
}

// NewCreateEventParams creates parameters for event creation from HTTP request.
// The moment is given either as a basic timestamp in "at" or as a number in
// "seconds", not both.
func NewCreateEventParams(r *http.Request) (*CreateEventParams, error) {
	// Parse request body
	var requestBody struct {
		Name    string   `json:"name"`
		At      *string  `json:"at"`
		Seconds *float64 `json:"seconds"`
	}

	if err := json.NewDecoder(r.Body).Decode(&requestBody); err != nil {
		return nil, model.NewValidationError(fmt.Sprintf("invalid request body: %v", err))
	}

	if requestBody.At != nil && requestBody.Seconds != nil {
		return nil, model.NewValidationError("at and seconds are mutually exclusive")
	}

	params := &CreateEventParams{Name: requestBody.Name}

	switch {
	case requestBody.At != nil:
		m, err := utc.ParseBasicTimestamp(*requestBody.At)
		if err != nil {
			return nil, err
		}
		params.At = &m
	case requestBody.Seconds != nil:
		m, err := utc.FromSeconds(*requestBody.Seconds)
		if err != nil {
			return nil, err
		}
		params.At = &m
	}

	return params, nil
}

// handleCreateEvent はイベント作成エンドポイントのハンドラーです。
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewCreateEventParams(r)
	if err != nil {
		s.writeConversionError(w, "create_event", err)
		return
	}

	now, err := utc.NowFrom(s.clock)
	if err != nil {
		s.logger.Error("Clock is unusable", zap.Error(err))
		s.writeJSONError(w, "Clock is unavailable", http.StatusInternalServerError)
		return
	}

	at := now
	if params.At != nil {
		at = *params.At
	}

	// 新しいイベントの作成
	event, err := model.NewEvent(params.Name, at, now)
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// イベントの保存
	if err := s.store.CreateEvent(r.Context(), event); err != nil {
		s.logger.Error("Error creating event", zap.Error(err))
		s.writeJSONError(w, "Failed to create event", http.StatusInternalServerError)
		return
	}

	s.logger.Info("Event created", zap.Stringer("id", event.ID), zap.Stringer("at", event.At))

	// 成功レスポンスの返却
	s.writeJSON(w, event, http.StatusCreated)
}

// handleGetEvent は特定のIDのイベントを取得するハンドラーです。
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	id, err := model.NewEventID(r.PathValue("event_id"))
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// イベントの取得
	event, err := s.store.GetEvent(r.Context(), id.UUID())
	if err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			s.writeJSONError(w, "Event not found", http.StatusNotFound)
		} else {
			s.logger.Error("Error retrieving event", zap.Error(err))
			s.writeJSONError(w, "Failed to retrieve event", http.StatusInternalServerError)
		}
		return
	}

	s.writeJSON(w, event, http.StatusOK)
}

// handleDeleteEvent は特定のIDのイベントを削除するハンドラーです。
func (s *Server) handleDeleteEvent(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	id, err := model.NewEventID(r.PathValue("event_id"))
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// イベントの削除
	if err := s.store.DeleteEvent(r.Context(), id.UUID()); err != nil {
		if errors.Is(err, model.ErrEventNotFound) {
			s.writeJSONError(w, "Event not found", http.StatusNotFound)
		} else {
			s.logger.Error("Error deleting event", zap.Error(err))
			s.writeJSONError(w, "Failed to delete event", http.StatusInternalServerError)
		}
		return
	}

	// 削除成功のレスポンスを返す
	w.WriteHeader(http.StatusNoContent)
}

// ListEventsParams represents parameters for listing events.
type ListEventsParams struct {
	DateRange  *model.DateRange
	Pagination *model.Pagination
}

// NewListEventsParams creates parameters for event listing from HTTP request.
// today is used for the default date range.
func NewListEventsParams(r *http.Request, today utc.Moment) (*ListEventsParams, error) {
	query := r.URL.Query()

	dateRange, err := model.NewDateRange(query.Get("from"), query.Get("to"), today)
	if err != nil {
		return nil, err
	}

	pagination, err := model.NewPagination(query.Get("limit"), query.Get("offset"))
	if err != nil {
		return nil, err
	}

	return &ListEventsParams{
		DateRange:  dateRange,
		Pagination: pagination,
	}, nil
}

// ListEventsResponse represents the paginated response for list events.
type ListEventsResponse struct {
	Items  []*model.Event `json:"items"`
	From   utc.Moment     `json:"from"`
	To     utc.Moment     `json:"to"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// handleListEvents は期間内のイベントの一覧を取得するハンドラーです。
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	today, err := utc.NowFrom(s.clock)
	if err != nil {
		s.logger.Error("Clock is unusable", zap.Error(err))
		s.writeJSONError(w, "Clock is unavailable", http.StatusInternalServerError)
		return
	}

	// パラメータを検証
	params, err := NewListEventsParams(r, today)
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	events, err := s.store.ListEvents(r.Context(), params.DateRange.From(), params.DateRange.Until(), params.Pagination)
	if err != nil {
		s.logger.Error("Error retrieving events", zap.Error(err))
		s.writeJSONError(w, "Failed to retrieve events", http.StatusInternalServerError)
		return
	}

	// 空配列を返すためにnilチェック
	if events == nil {
		events = []*model.Event{}
	}

	s.writeJSON(w, &ListEventsResponse{
		Items:  events,
		From:   params.DateRange.From(),
		To:     params.DateRange.To(),
		Limit:  params.Pagination.Limit(),
		Offset: params.Pagination.Offset(),
	}, http.StatusOK)
}
