package admin

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/httputil"
	request "idlink/pkg/platform/middleware/request"
)

// RequireServiceToken admits trusted collaborators whose bearer token matches
// the configured bcrypt hash.
func RequireServiceToken(tokenHash string, logger *slog.Logger) func(http.Handler) http.Handler {
	hash := []byte(tokenHash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || token == "" || bcrypt.CompareHashAndPassword(hash, []byte(token)) != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "service token mismatch",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "service token required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
