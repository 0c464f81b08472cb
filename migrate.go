package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stsysd/koyomi/config"
	"github.com/stsysd/koyomi/db"
	"github.com/stsysd/koyomi/store"
	"go.uber.org/zap"
)

// newMigrateCmd はデータベースのマイグレーションを実行するコマンドです。
func newMigrateCmd(flags *globalFlags) *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "データベースのマイグレーションを実行する",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("data-dir") {
				cfg.DataDir = dataDir
			}

			logger, err := flags.logger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// マイグレーション後のバージョンを記録する
			var version int64
			migrate := func(conn *sql.DB) error {
				if err := db.Migrate(conn); err != nil {
					return err
				}
				v, err := db.Version(conn)
				version = v
				return err
			}

			s, err := store.NewSQLiteStore(cfg.DataDir, migrate)
			if err != nil {
				return err
			}
			defer s.Close()

			logger.Debug("Migration finished", zap.String("data_dir", cfg.DataDir), zap.Int64("version", version))
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", version)
			return err
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "データディレクトリ (KOYOMI_DATA_DIR を上書き)")
	return cmd
}
