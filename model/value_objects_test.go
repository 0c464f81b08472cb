package model

import (
	"errors"
	"testing"

	"github.com/stsysd/koyomi/utc"
)

// TestNewPagination tests the NewPagination function
func TestNewPagination(t *testing.T) {
	tests := []struct {
		name           string
		limitStr       string
		offsetStr      string
		expectError    bool
		expectedLimit  int
		expectedOffset int
		description    string
	}{
		{
			name:           "Valid limit and offset",
			limitStr:       "50",
			offsetStr:      "10",
			expectedLimit:  50,
			expectedOffset: 10,
			description:    "正常なlimitとoffsetで成功すること",
		},
		{
			name:          "Default limit with empty strings",
			expectedLimit: 100,
			description:   "空文字列の場合、デフォルトのlimit=100が設定されること",
		},
		{
			name:          "Limit exceeds maximum",
			limitStr:      "2000",
			expectedLimit: 1000,
			description:   "limitが1000を超える場合、1000に制限されること",
		},
		{
			name:        "Invalid limit (non-numeric)",
			limitStr:    "abc",
			expectError: true,
			description: "limitが数値でない場合、エラーになること",
		},
		{
			name:        "Invalid limit (trailing garbage)",
			limitStr:    "10abc",
			expectError: true,
			description: "limitに数値以外が続く場合、エラーになること",
		},
		{
			name:        "Invalid limit (zero)",
			limitStr:    "0",
			expectError: true,
			description: "limitが0の場合、エラーになること",
		},
		{
			name:        "Invalid offset (negative)",
			offsetStr:   "-1",
			expectError: true,
			description: "offsetが負の数の場合、エラーになること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pagination, err := NewPagination(tt.limitStr, tt.offsetStr)

			if tt.expectError {
				if err == nil {
					t.Errorf("%s: expected error but got nil", tt.description)
				}
				return
			}
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tt.description, err)
				return
			}

			if pagination.Limit() != tt.expectedLimit {
				t.Errorf("%s: expected limit %d, got %d", tt.description, tt.expectedLimit, pagination.Limit())
			}
			if pagination.Offset() != tt.expectedOffset {
				t.Errorf("%s: expected offset %d, got %d", tt.description, tt.expectedOffset, pagination.Offset())
			}
		})
	}
}

// TestNewCivilFields tests parsing and normalizing civil fields
func TestNewCivilFields(t *testing.T) {
	tests := []struct {
		name        string
		fields      [6]string
		expectError bool
		expected    string
		description string
	}{
		{
			name:        "Date only",
			fields:      [6]string{"2024", "1", "5", "", "", ""},
			expected:    "2024-01-05T00:00:00.000000",
			description: "時刻を省略した場合は0時になること",
		},
		{
			name:        "Full fields with fraction",
			fields:      [6]string{"2024", "1", "5", "5", "34", "12.5"},
			expected:    "2024-01-05T05:34:12.500000",
			description: "小数秒を含めて変換できること",
		},
		{
			name:        "Out of range month",
			fields:      [6]string{"2020", "14", "1", "", "", ""},
			expected:    "2022-02-01T00:00:00.000000",
			description: "範囲外の月が正規化されること",
		},
		{
			name:        "Missing day",
			fields:      [6]string{"2024", "1", "", "", "", ""},
			expectError: true,
			description: "dayがない場合、エラーになること",
		},
		{
			name:        "Non-numeric hour",
			fields:      [6]string{"2024", "1", "5", "noon", "", ""},
			expectError: true,
			description: "hourが数値でない場合、エラーになること",
		},
		{
			name:        "Infinite second",
			fields:      [6]string{"2024", "1", "5", "0", "0", "Inf"},
			expectError: true,
			description: "secondが有限でない場合、エラーになること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := tt.fields
			civil, err := NewCivilFields(f[0], f[1], f[2], f[3], f[4], f[5])

			if tt.expectError {
				if !IsValidationError(err) {
					t.Errorf("%s: expected ValidationError, got %v", tt.description, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.description, err)
			}

			m, err := civil.Moment()
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.description, err)
			}
			if m.String() != tt.expected {
				t.Errorf("%s: expected %s, got %s", tt.description, tt.expected, m.String())
			}
		})
	}
}

// TestCivilFieldsBeforeEpoch tests that the domain error is passed through
func TestCivilFieldsBeforeEpoch(t *testing.T) {
	civil, err := NewCivilFields("1969", "12", "31", "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := civil.Moment(); !errors.Is(err, utc.ErrBeforeEpoch) {
		t.Errorf("Expected ErrBeforeEpoch, got %v", err)
	}
}

// TestNewSeconds tests the NewSeconds function
func TestNewSeconds(t *testing.T) {
	s, err := NewSeconds("1704455098.25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m, err := s.Moment()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := m.BasicTimestampWithFraction(2); got != "2024-01-05T11:44:58.25" {
		t.Errorf("Expected 2024-01-05T11:44:58.25, got %s", got)
	}

	for _, input := range []string{"", "abc", "NaN", "-Inf"} {
		if _, err := NewSeconds(input); !IsValidationError(err) {
			t.Errorf("Expected ValidationError for %q, got %v", input, err)
		}
	}

	s, err = NewSeconds("-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Moment(); !errors.Is(err, utc.ErrBeforeEpoch) {
		t.Errorf("Expected ErrBeforeEpoch, got %v", err)
	}
}

// TestNewPrecision tests the NewPrecision function
func TestNewPrecision(t *testing.T) {
	tests := []struct {
		input       string
		expected    int
		expectError bool
	}{
		{input: "", expected: 6},
		{input: "0", expected: 0},
		{input: "9", expected: 9},
		{input: "10", expectError: true},
		{input: "-1", expectError: true},
		{input: "two", expectError: true},
	}

	for _, tt := range tests {
		p, err := NewPrecision(tt.input)
		if tt.expectError {
			if err == nil {
				t.Errorf("Expected error for %q", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("unexpected error for %q: %v", tt.input, err)
			continue
		}
		if p.Int() != tt.expected {
			t.Errorf("Expected precision %d for %q, got %d", tt.expected, tt.input, p.Int())
		}
	}
}

// TestNewDateRange tests the NewDateRange function
func TestNewDateRange(t *testing.T) {
	// 2024-01-10は水曜日
	today, err := utc.FromCivil(2024, 1, 10, 15, 30, 0)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name          string
		fromStr       string
		toStr         string
		expectError   bool
		expectedFrom  string
		expectedTo    string
		expectedUntil string
		description   string
	}{
		{
			name:          "Defaults",
			expectedFrom:  "2023-01-08T00:00:00",
			expectedTo:    "2024-01-10T00:00:00",
			expectedUntil: "2024-01-11T00:00:00",
			description:   "デフォルトは直近の週と過去52週になること",
		},
		{
			name:          "Explicit range",
			fromStr:       "2024-02-27",
			toStr:         "2024-03-01T12:00:00Z",
			expectedFrom:  "2024-02-27T00:00:00",
			expectedTo:    "2024-03-01T00:00:00",
			expectedUntil: "2024-03-02T00:00:00",
			description:   "指定した範囲が日単位に丸められること",
		},
		{
			name:          "Single day",
			fromStr:       "2024-02-29",
			toStr:         "2024-02-29",
			expectedFrom:  "2024-02-29T00:00:00",
			expectedTo:    "2024-02-29T00:00:00",
			expectedUntil: "2024-03-01T00:00:00",
			description:   "同じ日を指定できること",
		},
		{
			name:        "Reversed range",
			fromStr:     "2024-03-01",
			toStr:       "2024-02-01",
			expectError: true,
			description: "fromがtoより後の場合、エラーになること",
		},
		{
			name:        "Invalid from",
			fromStr:     "01/02/2024",
			expectError: true,
			description: "不正な形式の場合、エラーになること",
		},
		{
			name:        "Before epoch",
			fromStr:     "1969-12-31",
			expectError: true,
			description: "エポックより前の日付はエラーになること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dr, err := NewDateRange(tt.fromStr, tt.toStr, today)

			if tt.expectError {
				if !IsValidationError(err) {
					t.Errorf("%s: expected ValidationError, got %v", tt.description, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", tt.description, err)
			}

			if got := dr.From().BasicTimestamp(); got != tt.expectedFrom {
				t.Errorf("%s: expected from %s, got %s", tt.description, tt.expectedFrom, got)
			}
			if got := dr.To().BasicTimestamp(); got != tt.expectedTo {
				t.Errorf("%s: expected to %s, got %s", tt.description, tt.expectedTo, got)
			}
			if got := dr.Until().BasicTimestamp(); got != tt.expectedUntil {
				t.Errorf("%s: expected until %s, got %s", tt.description, tt.expectedUntil, got)
			}
		})
	}
}

// TestDefaultDateRangeNearEpoch tests that the default range is clamped to the epoch
func TestDefaultDateRangeNearEpoch(t *testing.T) {
	today, err := utc.FromDate(1970, 3, 1)
	if err != nil {
		t.Fatal(err)
	}
	dr, err := NewDateRange("", "", today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dr.From().Equal(utc.Epoch()) {
		t.Errorf("Expected range to start at the epoch, got %v", dr.From())
	}
}

// TestNewYear tests the NewYear function
func TestNewYear(t *testing.T) {
	y, err := NewYear("2024")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	dr, err := y.DateRange()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := dr.From().BasicTimestamp(); got != "2024-01-01T00:00:00" {
		t.Errorf("Expected 2024-01-01, got %s", got)
	}
	if got := dr.Until().BasicTimestamp(); got != "2025-01-01T00:00:00" {
		t.Errorf("Expected 2025-01-01, got %s", got)
	}

	for _, input := range []string{"", "1969", "MMXXIV"} {
		if _, err := NewYear(input); err == nil {
			t.Errorf("Expected error for %q", input)
		}
	}
}

// TestNewEventID tests the NewEventID function
func TestNewEventID(t *testing.T) {
	id, err := NewEventID("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.UUID().String() != "6ba7b810-9dad-11d1-80b4-00c04fd430c8" {
		t.Errorf("unexpected UUID %s", id.UUID())
	}

	for _, input := range []string{"", "not-a-uuid"} {
		if _, err := NewEventID(input); !IsValidationError(err) {
			t.Errorf("Expected ValidationError for %q, got %v", input, err)
		}
	}
}
