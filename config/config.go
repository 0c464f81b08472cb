// Package config はアプリケーション設定を管理します。
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ErrAPIKeyNotSet はサーバー起動時にAPIキーが設定されていない場合のエラーです。
var ErrAPIKeyNotSet = errors.New("KOYOMI_API_KEY is not set")

// Config はアプリケーション全体の設定を保持します。
type Config struct {
	// データディレクトリのパス
	DataDir string

	// HTTPサーバーのポート
	Port string

	// API認証キー
	APIKey string

	// ログレベル (debug, info, warn, error)
	LogLevel string

	// ログファイルのパス（空の場合は標準エラー出力）
	LogFile string

	// NTPサーバー（空の場合はシステム時計を使用）
	NTPServer string

	// NTP再同期の間隔
	NTPInterval time.Duration
}

// NewConfig は環境変数から設定を読み込み、Configインスタンスを生成します。
func NewConfig() (*Config, error) {
	// データディレクトリの設定
	dataDir := os.Getenv("KOYOMI_DATA_DIR")
	if dataDir == "" {
		dataDir = filepath.Join(".", "data")
	}

	// ポートの設定
	port := os.Getenv("KOYOMI_SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("KOYOMI_LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	// NTP同期間隔の設定
	interval := 10 * time.Minute
	if s := os.Getenv("KOYOMI_NTP_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("invalid KOYOMI_NTP_INTERVAL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("invalid KOYOMI_NTP_INTERVAL: must be positive, got %s", d)
		}
		interval = d
	}

	return &Config{
		DataDir:     dataDir,
		Port:        port,
		APIKey:      os.Getenv("KOYOMI_API_KEY"),
		LogLevel:    logLevel,
		LogFile:     os.Getenv("KOYOMI_LOG_FILE"),
		NTPServer:   os.Getenv("KOYOMI_NTP_SERVER"),
		NTPInterval: interval,
	}, nil
}

// ValidateServer はHTTPサーバーの起動に必要な設定が揃っているか検証します。
func (c *Config) ValidateServer() error {
	// デフォルトキーは設定しない
	if c.APIKey == "" {
		return ErrAPIKeyNotSet
	}
	return nil
}
