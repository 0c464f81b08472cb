package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stsysd/koyomi/db"
	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/utc"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	// テスト用のSQLiteストアを初期化
	store, err := NewSQLiteStore(t.TempDir(), db.Migrate)
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustMoment(t *testing.T, year, month, day, hour, minute int, second float64) utc.Moment {
	t.Helper()
	m, err := utc.FromCivil(year, month, day, hour, minute, second)
	if err != nil {
		t.Fatalf("Failed to build moment: %v", err)
	}
	return m
}

func createTestEvent(t *testing.T, store *SQLiteStore, name string, at utc.Moment) *model.Event {
	t.Helper()
	event, err := model.NewEvent(name, at, at)
	if err != nil {
		t.Fatalf("Failed to create event model: %v", err)
	}
	if err := store.CreateEvent(context.Background(), event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}
	return event
}

func TestCreateAndGetEvent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	at := mustMoment(t, 2024, 2, 29, 12, 34, 56.123456789)
	createdAt := mustMoment(t, 2024, 3, 1, 0, 0, 0.5)
	event, err := model.NewEvent("leap day deploy", at, createdAt)
	if err != nil {
		t.Fatalf("Failed to create event model: %v", err)
	}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("Failed to create event: %v", err)
	}

	got, err := store.GetEvent(ctx, event.ID)
	if err != nil {
		t.Fatalf("Failed to get event: %v", err)
	}

	if got.ID != event.ID {
		t.Errorf("Expected ID %s, got %s", event.ID, got.ID)
	}
	if got.Name != event.Name {
		t.Errorf("Expected name %s, got %s", event.Name, got.Name)
	}
	// 小数秒まで失われずに復元されること
	if !got.At.Equal(at) {
		t.Errorf("Expected at %v (frac %v), got %v (frac %v)", at, at.Fraction(), got.At, got.At.Fraction())
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Errorf("Expected created_at %v, got %v", createdAt, got.CreatedAt)
	}
}

func TestGetEventNotFound(t *testing.T) {
	store := setupTestStore(t)

	_, err := store.GetEvent(context.Background(), uuid.New())
	if !errors.Is(err, model.ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound, got %v", err)
	}
}

func TestCreateInvalidEvent(t *testing.T) {
	store := setupTestStore(t)

	event := &model.Event{ID: uuid.New(), Name: " ", At: utc.Epoch(), CreatedAt: utc.Epoch()}
	err := store.CreateEvent(context.Background(), event)
	if !model.IsValidationError(err) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}

func TestDeleteEvent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	event := createTestEvent(t, store, "temporary", mustMoment(t, 2024, 1, 5, 0, 0, 0))

	if err := store.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("Failed to delete event: %v", err)
	}
	if _, err := store.GetEvent(ctx, event.ID); !errors.Is(err, model.ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound after delete, got %v", err)
	}

	// 存在しないイベントの削除はErrEventNotFound
	if err := store.DeleteEvent(ctx, event.ID); !errors.Is(err, model.ErrEventNotFound) {
		t.Errorf("Expected ErrEventNotFound, got %v", err)
	}
}

func TestListEvents(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	// 挿入順と発生順を変えておく
	c := createTestEvent(t, store, "c", mustMoment(t, 2024, 1, 6, 0, 0, 0))
	a := createTestEvent(t, store, "a", mustMoment(t, 2024, 1, 5, 0, 0, 0))
	b := createTestEvent(t, store, "b", mustMoment(t, 2024, 1, 5, 23, 59, 59.75))
	createTestEvent(t, store, "before", mustMoment(t, 2024, 1, 4, 23, 59, 59.999))
	createTestEvent(t, store, "after", mustMoment(t, 2024, 1, 7, 0, 0, 0))

	from := mustMoment(t, 2024, 1, 5, 0, 0, 0)
	until := mustMoment(t, 2024, 1, 7, 0, 0, 0)

	tests := []struct {
		name        string
		pagination  *model.Pagination
		expected    []*model.Event
		description string
	}{
		{
			name:        "All in range",
			pagination:  model.NewPaginationWithValues(100, 0),
			expected:    []*model.Event{a, b, c},
			description: "範囲内のイベントが発生時刻順に返ること",
		},
		{
			name:        "Limit",
			pagination:  model.NewPaginationWithValues(2, 0),
			expected:    []*model.Event{a, b},
			description: "limitで件数が制限されること",
		},
		{
			name:        "Offset",
			pagination:  model.NewPaginationWithValues(2, 2),
			expected:    []*model.Event{c},
			description: "offsetで先頭が読み飛ばされること",
		},
		{
			name:        "Offset beyond end",
			pagination:  model.NewPaginationWithValues(2, 10),
			expected:    []*model.Event{},
			description: "offsetが件数を超える場合は空になること",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := store.ListEvents(ctx, from, until, tt.pagination)
			if err != nil {
				t.Fatalf("%s: failed to list events: %v", tt.description, err)
			}
			if len(events) != len(tt.expected) {
				t.Fatalf("%s: expected %d events, got %d", tt.description, len(tt.expected), len(events))
			}
			for i, want := range tt.expected {
				if events[i].ID != want.ID {
					t.Errorf("%s: event %d: expected %s, got %s", tt.description, i, want.Name, events[i].Name)
				}
			}
		})
	}
}

func TestCountEventsByDay(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestEvent(t, store, "1", mustMoment(t, 2024, 2, 28, 8, 0, 0))
	createTestEvent(t, store, "2", mustMoment(t, 2024, 2, 28, 23, 59, 59.5))
	createTestEvent(t, store, "3", mustMoment(t, 2024, 2, 29, 0, 0, 0))
	createTestEvent(t, store, "4", mustMoment(t, 2024, 3, 2, 12, 0, 0))
	createTestEvent(t, store, "outside", mustMoment(t, 2024, 3, 3, 0, 0, 0))

	buckets, err := store.CountEventsByDay(ctx, mustMoment(t, 2024, 2, 28, 0, 0, 0), mustMoment(t, 2024, 3, 3, 0, 0, 0))
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}

	expected := []struct {
		day   string
		count int
	}{
		{"2024-02-28T00:00:00", 2},
		{"2024-02-29T00:00:00", 1},
		{"2024-03-02T00:00:00", 1},
	}
	if len(buckets) != len(expected) {
		t.Fatalf("Expected %d buckets, got %d", len(expected), len(buckets))
	}
	for i, want := range expected {
		if got := buckets[i].Start.BasicTimestamp(); got != want.day {
			t.Errorf("bucket %d: expected day %s, got %s", i, want.day, got)
		}
		if buckets[i].Count != want.count {
			t.Errorf("bucket %d: expected count %d, got %d", i, want.count, buckets[i].Count)
		}
	}
}

func TestCountEventsByHour(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	createTestEvent(t, store, "1", mustMoment(t, 2024, 1, 5, 10, 0, 0))
	createTestEvent(t, store, "2", mustMoment(t, 2024, 1, 5, 10, 59, 59))
	createTestEvent(t, store, "3", mustMoment(t, 2024, 1, 5, 15, 30, 0))

	buckets, err := store.CountEventsByHour(ctx, mustMoment(t, 2024, 1, 5, 0, 0, 0), mustMoment(t, 2024, 1, 6, 0, 0, 0))
	if err != nil {
		t.Fatalf("Failed to count events: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("Expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Start.Hour() != 10 || buckets[0].Count != 2 {
		t.Errorf("Expected 2 events at 10:00, got %d at %v", buckets[0].Count, buckets[0].Start)
	}
	if buckets[1].Start.Hour() != 15 || buckets[1].Count != 1 {
		t.Errorf("Expected 1 event at 15:00, got %d at %v", buckets[1].Count, buckets[1].Start)
	}
}
