// Package logging は zap ベースのロガーを構築します。
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// ログファイルのローテーション設定
const (
	maxSizeMB  = 50
	maxBackups = 5
	maxAgeDays = 28
)

// New はログレベルと出力先からロガーを生成します。
// file が空の場合は標準エラー出力にコンソール形式で、
// 指定された場合はローテーション付きのファイルにJSON形式で出力します。
func New(level, file string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var core zapcore.Core
	if file == "" {
		core = zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderConfig),
			zapcore.AddSync(os.Stderr),
			zap.NewAtomicLevelAt(lvl),
		)
	} else {
		writer, err := createFileWriter(file)
		if err != nil {
			return nil, err
		}
		core = zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderConfig),
			writer,
			zap.NewAtomicLevelAt(lvl),
		)
	}

	return zap.New(core, zap.AddCaller()), nil
}

// createFileWriter はローテーション付きのファイル出力を生成します。
func createFileWriter(logPath string) (zapcore.WriteSyncer, error) {
	// ログディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}), nil
}
