// Package model は、アプリケーションのデータモデル定義を提供します。
package model

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stsysd/koyomi/utc"
)

// MaxEventNameLength はイベント名の最大文字数です。
const MaxEventNameLength = 200

// Event は特定の瞬間に起きた名前付きの出来事を表すモデルです。
type Event struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`       // イベント名
	At        utc.Moment `json:"at"`         // イベントの発生時刻
	CreatedAt utc.Moment `json:"created_at"` // 登録時刻
}

// NewEvent はEventの新しいインスタンスを作成します。
// IDはここで生成されます。
func NewEvent(name string, at, createdAt utc.Moment) (*Event, error) {
	ev := &Event{
		ID:        uuid.New(),
		Name:      name,
		At:        at,
		CreatedAt: createdAt,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// LoadEvent は既存のEventインスタンスを作成します。
func LoadEvent(id uuid.UUID, name string, at, createdAt utc.Moment) (*Event, error) {
	// LoadEventはDBから読み込んだイベント用なので、IDは必須
	if id == uuid.Nil {
		return nil, errors.New("id is required for loaded event")
	}

	ev := &Event{
		ID:        id,
		Name:      name,
		At:        at,
		CreatedAt: createdAt,
	}
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// Validate はイベントのデータバリデーションを行います。
func (e *Event) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return NewValidationError("name is required")
	}
	if n := utf8.RuneCountInString(e.Name); n > MaxEventNameLength {
		return NewValidationError(fmt.Sprintf("name must be at most %d characters, got %d", MaxEventNameLength, n))
	}
	if e.At.IsZero() {
		return NewValidationError("at is required")
	}
	if e.CreatedAt.IsZero() {
		return NewValidationError("created_at is required")
	}
	return nil
}
