package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/stsysd/koyomi/api"
	"github.com/stsysd/koyomi/clock"
	"github.com/stsysd/koyomi/config"
	"github.com/stsysd/koyomi/db"
	"github.com/stsysd/koyomi/logging"
	"github.com/stsysd/koyomi/store"
	"github.com/stsysd/koyomi/utc"
	"go.uber.org/zap"
)

// NTP時計をunhealthyとみなす時刻差
const maxClockOffset = time.Second

// newServeCmd はHTTPサーバーを起動するコマンドです。
func newServeCmd(flags *globalFlags) *cobra.Command {
	var port, dataDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "HTTPサーバーを起動する",
		Long: `イベントの記録と瞬間の変換を行うHTTPサーバーを起動します。

KOYOMI_API_KEY の設定が必要です。`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// 設定の読み込み
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}
			if err := cfg.ValidateServer(); err != nil {
				return err
			}

			level := cfg.LogLevel
			if flags.verbose {
				level = "debug"
			}
			logger, err := logging.New(level, cfg.LogFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			// SQLiteストアの初期化（マイグレーション関数を渡す）
			sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
			if err != nil {
				return fmt.Errorf("failed to initialize SQLite store: %w", err)
			}
			defer sqliteStore.Close()

			reg := prometheus.NewRegistry()
			reg.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)

			var c utc.Clock = clock.System{}
			if cfg.NTPServer != "" {
				ntpClock := clock.NewNTPClock(cfg.NTPServer, cfg.NTPInterval,
					clock.WithLogger(logger.Named("clock")),
					clock.WithMaxOffset(maxClockOffset),
				)
				if err := clock.RegisterMetrics(reg, ntpClock); err != nil {
					return fmt.Errorf("failed to register clock metrics: %w", err)
				}
				logger.Info("Using NTP clock",
					zap.String("server", cfg.NTPServer), zap.Duration("interval", cfg.NTPInterval))
				c = ntpClock
			}

			// サーバーインスタンスの作成
			server := api.NewServer(sqliteStore, cfg,
				api.WithClock(c),
				api.WithLogger(logger),
				api.WithRegistry(reg),
			)

			// サーバーの起動
			return server.Run(":" + cfg.Port)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "待ち受けポート (KOYOMI_SERVER_PORT を上書き)")
	cmd.Flags().StringVar(&dataDir, "data-dir", "", "データディレクトリ (KOYOMI_DATA_DIR を上書き)")
	return cmd
}
