// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values. Middleware sets them; handlers and services read them
// without importing net/http.
//
//	personID := requestcontext.PersonID(ctx)
//	requestID := requestcontext.RequestID(ctx)
package requestcontext

import (
	"context"

	id "idlink/pkg/domain"
)

type (
	personIDKey  struct{}
	clientIPKey  struct{}
	userAgentKey struct{}
	requestIDKey struct{}
)

// Exported context keys for tests that need context.WithValue directly.
var (
	ContextKeyPersonID  = personIDKey{}
	ContextKeyClientIP  = clientIPKey{}
	ContextKeyUserAgent = userAgentKey{}
	ContextKeyRequestID = requestIDKey{}
)

// PersonID returns the signed-in person taken from the session token, or the
// nil id when the request is not session-authenticated.
func PersonID(ctx context.Context) id.PersonID {
	if personID, ok := ctx.Value(ContextKeyPersonID).(id.PersonID); ok {
		return personID
	}
	return id.PersonID{}
}

func WithPersonID(ctx context.Context, personID id.PersonID) context.Context {
	return context.WithValue(ctx, ContextKeyPersonID, personID)
}

func ClientIP(ctx context.Context) string {
	if ip, ok := ctx.Value(ContextKeyClientIP).(string); ok {
		return ip
	}
	return ""
}

func UserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(ContextKeyUserAgent).(string); ok {
		return ua
	}
	return ""
}

// WithClientMetadata injects client IP and User-Agent into a context.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, ContextKeyClientIP, clientIP)
	ctx = context.WithValue(ctx, ContextKeyUserAgent, userAgent)
	return ctx
}

func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}
