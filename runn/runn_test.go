package runn

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/k1LoW/runn"
	"github.com/stsysd/koyomi/api"
	"github.com/stsysd/koyomi/clock"
	"github.com/stsysd/koyomi/config"
	"github.com/stsysd/koyomi/db"
	"github.com/stsysd/koyomi/store"
)

func TestRouter(t *testing.T) {
	t.Setenv("KOYOMI_API_KEY", "test-token")
	t.Setenv("KOYOMI_DATA_DIR", t.TempDir())

	// 設定の読み込み
	cfg, err := config.NewConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// SQLiteストアの初期化（マイグレーション関数を渡す）
	sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
	if err != nil {
		t.Fatalf("Failed to initialize SQLite store: %v", err)
	}
	defer sqliteStore.Close()

	// シナリオの結果を固定するため時計を止める
	mockClock := clock.NewMock(time.Date(2024, 1, 5, 11, 44, 58, 250_000_000, time.UTC))

	// サーバーインスタンスの作成
	server := api.NewServer(sqliteStore, cfg, api.WithClock(mockClock))

	ctx := context.Background()
	ts := httptest.NewServer(server)
	t.Cleanup(func() {
		ts.Close()
	})
	opts := []runn.Option{
		runn.T(t),
		runn.Runner("req", ts.URL),
		runn.Var("api_key", cfg.APIKey),
	}
	o, err := runn.Load("./**/*.yml", opts...)
	if err != nil {
		t.Fatal(err)
	}
	if err := o.RunN(ctx); err != nil {
		t.Fatal(err)
	}
}
