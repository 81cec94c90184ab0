package testutil

import (
	"net/http"

	id "idlink/pkg/domain"
	"idlink/pkg/requestcontext"
)

// WithPersonID simulates the session middleware for handler tests that skip
// token signing. Invalid ids are ignored.
func WithPersonID(req *http.Request, personID string) *http.Request {
	if parsed, err := id.ParsePersonID(personID); err == nil {
		return req.WithContext(requestcontext.WithPersonID(req.Context(), parsed))
	}
	return req
}
