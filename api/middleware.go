package api

import (
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"
)

// authMiddleware はAPIリクエストの認証を行うミドルウェアです。
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// ヘッダーからAPIキーを取得
		apiKey := r.Header.Get("X-API-Key")

		// APIキーがサーバー側で設定されていない場合はエラー
		if s.config.APIKey == "" {
			s.logger.Error("API key is not configured")
			s.writeJSONError(w, "API authentication is not configured on server", http.StatusInternalServerError)
			return
		}

		// APIキーが一致するか確認
		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(s.config.APIKey)) != 1 {
			s.logger.Debug("Rejected request with invalid API key",
				zap.String("method", r.Method), zap.String("path", r.URL.Path))
			s.writeJSONError(w, "Unauthorized: Invalid API key", http.StatusUnauthorized)
			return
		}

		// 認証成功：次のハンドラーを呼び出し
		next.ServeHTTP(w, r)
	})
}
