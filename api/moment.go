package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/utc"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// MomentResponse は瞬間を表すレスポンスです。
type MomentResponse struct {
	Seconds   float64 `json:"seconds" msgpack:"seconds"`
	Year      int     `json:"year" msgpack:"year"`
	Month     int     `json:"month" msgpack:"month"`
	MonthName string  `json:"month_name" msgpack:"month_name"`
	Day       int     `json:"day" msgpack:"day"`
	Weekday   string  `json:"weekday" msgpack:"weekday"`
	Hour      int     `json:"hour" msgpack:"hour"`
	Minute    int     `json:"minute" msgpack:"minute"`
	Second    int     `json:"second" msgpack:"second"`
	Fraction  float64 `json:"fraction" msgpack:"fraction"`
	Timestamp string  `json:"timestamp" msgpack:"timestamp"`
	HTTPDate  string  `json:"http_date" msgpack:"http_date"`
}

// NewMomentResponse はレスポンスを生成します。
// timestamp は precision 桁の小数秒付きで出力されます。
func NewMomentResponse(m utc.Moment, precision int) *MomentResponse {
	inst := m.Instant()
	return &MomentResponse{
		Seconds:   float64(inst.Sec) + inst.Frac,
		Year:      m.Year(),
		Month:     int(m.Month()),
		MonthName: m.MonthName(),
		Day:       m.Day(),
		Weekday:   m.WeekdayName(),
		Hour:      m.Hour(),
		Minute:    m.Minute(),
		Second:    m.Second(),
		Fraction:  m.Fraction(),
		Timestamp: m.BasicTimestampWithFraction(precision),
		HTTPDate:  m.HTTPDate(),
	}
}

const contentTypeMsgpack = "application/msgpack"

// writeMoment は Accept ヘッダーに応じてJSONかMessagePackで瞬間を返却します。
func (s *Server) writeMoment(w http.ResponseWriter, r *http.Request, resp *MomentResponse) {
	if !strings.Contains(r.Header.Get("Accept"), contentTypeMsgpack) {
		s.writeJSON(w, resp, http.StatusOK)
		return
	}

	b, err := msgpack.Marshal(resp)
	if err != nil {
		s.logger.Error("Error encoding msgpack response", zap.Error(err))
		s.writeJSONError(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeMsgpack)
	if _, err := w.Write(b); err != nil {
		s.logger.Error("Error writing response", zap.Error(err))
	}
}

// writeConversionError は変換エラーをステータスコードに対応付けて返却します。
func (s *Server) writeConversionError(w http.ResponseWriter, operation string, err error) {
	switch {
	case errors.Is(err, utc.ErrBeforeEpoch):
		s.metrics.ObserveConversionError(operation, "before_epoch")
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, utc.ErrOutOfRange):
		s.metrics.ObserveConversionError(operation, "out_of_range")
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, utc.ErrInvalidSeconds), errors.Is(err, utc.ErrInvalidFormat), model.IsValidationError(err):
		s.metrics.ObserveConversionError(operation, "invalid_input")
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		s.metrics.ObserveConversionError(operation, "internal")
		s.logger.Error("Conversion failed", zap.String("operation", operation), zap.Error(err))
		s.writeJSONError(w, "Failed to convert moment", http.StatusInternalServerError)
	}
}

// handleNow は現在時刻を返すハンドラーです。
func (s *Server) handleNow(w http.ResponseWriter, r *http.Request) {
	precision, err := model.NewPrecision(r.URL.Query().Get("precision"))
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	// エポックより前の時計は環境の異常として扱う
	now, err := utc.NowFrom(s.clock)
	if err != nil {
		s.metrics.ObserveConversionError("now", "clock")
		s.logger.Error("Clock is unusable", zap.Error(err))
		s.writeJSONError(w, "Clock is unavailable", http.StatusInternalServerError)
		return
	}

	s.metrics.ObserveConversion("now")
	s.writeMoment(w, r, NewMomentResponse(now, precision.Int()))
}

// handleEpoch はエポックを返すハンドラーです。
func (s *Server) handleEpoch(w http.ResponseWriter, r *http.Request) {
	precision, err := model.NewPrecision(r.URL.Query().Get("precision"))
	if err != nil {
		s.writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.metrics.ObserveConversion("epoch")
	s.writeMoment(w, r, NewMomentResponse(utc.Epoch(), precision.Int()))
}

// FromCivilParams represents parameters for civil conversion.
type FromCivilParams struct {
	Civil     *model.CivilFields
	Precision *model.Precision
}

// NewFromCivilParams creates parameters for civil conversion from HTTP request.
func NewFromCivilParams(r *http.Request) (*FromCivilParams, error) {
	query := r.URL.Query()

	civil, err := model.NewCivilFields(
		query.Get("year"),
		query.Get("month"),
		query.Get("day"),
		query.Get("hour"),
		query.Get("minute"),
		query.Get("second"),
	)
	if err != nil {
		return nil, err
	}

	precision, err := model.NewPrecision(query.Get("precision"))
	if err != nil {
		return nil, err
	}

	return &FromCivilParams{
		Civil:     civil,
		Precision: precision,
	}, nil
}

// handleFromCivil は暦のフィールドを正規化して瞬間を返すハンドラーです。
func (s *Server) handleFromCivil(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewFromCivilParams(r)
	if err != nil {
		s.writeConversionError(w, "from_civil", err)
		return
	}

	m, err := params.Civil.Moment()
	if err != nil {
		s.writeConversionError(w, "from_civil", err)
		return
	}

	s.metrics.ObserveConversion("from_civil")
	s.writeMoment(w, r, NewMomentResponse(m, params.Precision.Int()))
}

// FromSecondsParams represents parameters for seconds conversion.
type FromSecondsParams struct {
	Seconds   *model.Seconds
	Precision *model.Precision
}

// NewFromSecondsParams creates parameters for seconds conversion from HTTP request.
func NewFromSecondsParams(r *http.Request) (*FromSecondsParams, error) {
	seconds, err := model.NewSeconds(r.PathValue("seconds"))
	if err != nil {
		return nil, err
	}

	precision, err := model.NewPrecision(r.URL.Query().Get("precision"))
	if err != nil {
		return nil, err
	}

	return &FromSecondsParams{
		Seconds:   seconds,
		Precision: precision,
	}, nil
}

// handleFromSeconds はエポックからの秒数を瞬間に変換するハンドラーです。
func (s *Server) handleFromSeconds(w http.ResponseWriter, r *http.Request) {
	// パラメータを検証
	params, err := NewFromSecondsParams(r)
	if err != nil {
		s.writeConversionError(w, "from_seconds", err)
		return
	}

	m, err := params.Seconds.Moment()
	if err != nil {
		s.writeConversionError(w, "from_seconds", err)
		return
	}

	s.metrics.ObserveConversion("from_seconds")
	s.writeMoment(w, r, NewMomentResponse(m, params.Precision.Int()))
}
