package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "idlink/pkg/domain"
	dErrors "idlink/pkg/domain-errors"
	"idlink/pkg/platform/httputil"
	request "idlink/pkg/platform/middleware/request"
	"idlink/pkg/requestcontext"
)

// SessionValidator checks a session bearer token.
type SessionValidator interface {
	ValidateToken(tokenString string) (*SessionClaims, error)
}

// SessionClaims is what the middleware needs from a verified session token.
type SessionClaims struct {
	PersonID string
	JTI      string
}

// GetPersonID retrieves the signed-in person from the context.
func GetPersonID(ctx context.Context) id.PersonID {
	return requestcontext.PersonID(ctx)
}

func bearerToken(r *http.Request) (string, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// RequireSession admits requests carrying a valid session token and puts the
// person id from its uid claim on the context.
func RequireSession(validator SessionValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing or invalid Authorization header"))
				return
			}

			claims, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			personID, err := id.ParsePersonID(claims.PersonID)
			if err != nil || personID.IsNil() {
				logger.WarnContext(ctx, "unauthorized access - bad uid claim",
					"request_id", request.GetRequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithPersonID(ctx, personID)))
		})
	}
}
