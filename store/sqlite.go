// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stsysd/koyomi/model"
	"github.com/stsysd/koyomi/utc"
)

// 集計の単位（秒）
const (
	secondsPerHour = 60 * 60
	secondsPerDay  = 24 * secondsPerHour
)

// EventStore はイベントの保存と取得を行うインターフェースです。
type EventStore interface {
	// CreateEvent は新しいイベントを作成します。
	CreateEvent(ctx context.Context, event *model.Event) error
	// GetEvent は指定されたIDのイベントを取得します。
	GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error)
	// DeleteEvent は指定されたIDのイベントを削除します。
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	// ListEvents は [from, until) に発生したイベントを発生時刻の昇順で取得します。
	ListEvents(ctx context.Context, from, until utc.Moment, pagination *model.Pagination) ([]*model.Event, error)
	// CountEventsByDay は [from, until) のイベント数を日ごとに集計します。
	CountEventsByDay(ctx context.Context, from, until utc.Moment) ([]Bucket, error)
	// CountEventsByHour は [from, until) のイベント数を時間ごとに集計します。
	CountEventsByHour(ctx context.Context, from, until utc.Moment) ([]Bucket, error)
	// Close はストアの接続を閉じます。
	Close() error
}

// Bucket は集計区間の開始時刻とイベント数です。
type Bucket struct {
	Start utc.Moment
	Count int
}

// MigrateFunc はデータベースのスキーマを準備する関数です。
type MigrateFunc func(conn *sql.DB) error

// SQLiteStore はSQLiteを使用したEventStoreの実装です。
// 時刻は秒の整数部と小数部を別々の列に保存し、精度を落とさずに復元します。
type SQLiteStore struct {
	conn *sql.DB
}

var _ EventStore = (*SQLiteStore)(nil)

// NewSQLiteStore は新しいSQLiteStoreを作成します。
func NewSQLiteStore(dataDir string, migrate MigrateFunc) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	// SQLiteデータベースファイルのパス
	dbPath := filepath.Join(dataDir, "koyomi.db")

	// SQLiteデータベースへの接続
	conn, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}

	// マイグレーションの実行
	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}

	return &SQLiteStore{conn: conn}, nil
}

// CreateEvent は新しいイベントをデータベースに保存します。
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *model.Event) error {
	// バリデーション
	if err := event.Validate(); err != nil {
		return err
	}

	at := event.At.Instant()
	created := event.CreatedAt.Instant()
	_, err := s.conn.ExecContext(ctx, `
		INSERT INTO events (id, name, at_sec, at_frac, created_sec, created_frac)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID.String(), event.Name, at.Sec, at.Frac, created.Sec, created.Frac,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetEvent は指定されたIDのイベントを取得します。
func (s *SQLiteStore) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	row := s.conn.QueryRowContext(ctx, `
		SELECT id, name, at_sec, at_frac, created_sec, created_frac
		FROM events WHERE id = ?`, id.String())

	event, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return event, nil
}

// DeleteEvent は指定されたIDのイベントを削除します。
func (s *SQLiteStore) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	result, err := s.conn.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	// 削除された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	// イベントが見つからない場合
	if rowsAffected == 0 {
		return model.ErrEventNotFound
	}

	return nil
}

// ListEvents は [from, until) に発生したイベントを取得します。
func (s *SQLiteStore) ListEvents(ctx context.Context, from, until utc.Moment, pagination *model.Pagination) ([]*model.Event, error) {
	args := append(rangeArgs(from, until), pagination.Limit(), pagination.Offset())
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, name, at_sec, at_frac, created_sec, created_frac
		FROM events
		WHERE `+rangeCondition+`
		ORDER BY at_sec, at_frac, id
		LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []*model.Event{}
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// CountEventsByDay は [from, until) のイベント数を日ごとに集計します。
func (s *SQLiteStore) CountEventsByDay(ctx context.Context, from, until utc.Moment) ([]Bucket, error) {
	return s.countEvents(ctx, secondsPerDay, from, until)
}

// CountEventsByHour は [from, until) のイベント数を時間ごとに集計します。
func (s *SQLiteStore) CountEventsByHour(ctx context.Context, from, until utc.Moment) ([]Bucket, error) {
	return s.countEvents(ctx, secondsPerHour, from, until)
}

func (s *SQLiteStore) countEvents(ctx context.Context, size int64, from, until utc.Moment) ([]Bucket, error) {
	args := append([]any{size}, rangeArgs(from, until)...)
	rows, err := s.conn.QueryContext(ctx, `
		SELECT at_sec / ? AS bucket, COUNT(*)
		FROM events
		WHERE `+rangeCondition+`
		GROUP BY bucket
		ORDER BY bucket`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	defer rows.Close()

	var buckets []Bucket
	for rows.Next() {
		var bucket int64
		var count int
		if err := rows.Scan(&bucket, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event count: %w", err)
		}
		start, err := utc.FromInstant(utc.Instant{Sec: bucket * size})
		if err != nil {
			return nil, fmt.Errorf("invalid bucket in database: %w", err)
		}
		buckets = append(buckets, Bucket{Start: start, Count: count})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event counts: %w", err)
	}
	return buckets, nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

// rangeCondition は (at_sec, at_frac) が [from, until) に含まれる条件です。
const rangeCondition = `(at_sec > ? OR (at_sec = ? AND at_frac >= ?))
		AND (at_sec < ? OR (at_sec = ? AND at_frac < ?))`

func rangeArgs(from, until utc.Moment) []any {
	f, u := from.Instant(), until.Instant()
	return []any{f.Sec, f.Sec, f.Frac, u.Sec, u.Sec, u.Frac}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(sc scanner) (*model.Event, error) {
	var (
		idStr               string
		name                string
		atSec, createdSec   int64
		atFrac, createdFrac float64
	)
	if err := sc.Scan(&idStr, &name, &atSec, &atFrac, &createdSec, &createdFrac); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan event: %w", err)
	}

	// UUID の解析
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid UUID in database: %w", err)
	}

	at, err := utc.FromInstant(utc.Instant{Sec: atSec, Frac: atFrac})
	if err != nil {
		return nil, fmt.Errorf("invalid event time in database: %w", err)
	}
	createdAt, err := utc.FromInstant(utc.Instant{Sec: createdSec, Frac: createdFrac})
	if err != nil {
		return nil, fmt.Errorf("invalid creation time in database: %w", err)
	}

	return model.LoadEvent(id, name, at, createdAt)
}
