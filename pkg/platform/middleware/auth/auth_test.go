package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	id "idlink/pkg/domain"
	"idlink/pkg/requestcontext"
)

type stubValidator map[string]*SessionClaims

func (s stubValidator) ValidateToken(token string) (*SessionClaims, error) {
	if c, ok := s[token]; ok {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

func TestRequireSession(t *testing.T) {
	person := id.NewPersonID()
	validator := stubValidator{
		"good":    {PersonID: person.String()},
		"bad-uid": {PersonID: "not-a-uuid"},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var got id.PersonID
	h := RequireSession(validator, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = requestcontext.PersonID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid session", "Bearer good", http.StatusOK},
		{"unknown token", "Bearer other", http.StatusUnauthorized},
		{"malformed uid claim", "Bearer bad-uid", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got = id.PersonID{}
			req := httptest.NewRequest(http.MethodPost, "/v1/link/codes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, person, got)
			} else {
				assert.True(t, got.IsNil())
				assert.JSONEq(t, `{"error":"unauthorized","error_description":"`+errDescription(tt.header)+`"}`, rr.Body.String())
			}
		})
	}
}

func errDescription(header string) string {
	if header == "" || header == "Bearer " {
		return "missing or invalid Authorization header"
	}
	return "invalid or expired token"
}
