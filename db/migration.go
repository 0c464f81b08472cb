// Package db はデータベーススキーマとマイグレーションを管理します。
package db

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed schema/*.sql
var embedMigrations embed.FS

// Migrate はデータベースに対してマイグレーションを実行します。
func Migrate(conn *sql.DB) error {
	// goose の設定
	goose.SetBaseFS(embedMigrations)

	// SQLite 用に goose を設定
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	// マイグレーションを実行
	if err := goose.Up(conn, "schema"); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// Version は適用済みの最新マイグレーションのバージョンを返します。
func Version(conn *sql.DB) (int64, error) {
	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return 0, fmt.Errorf("failed to set goose dialect: %w", err)
	}

	v, err := goose.GetDBVersion(conn)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return v, nil
}
