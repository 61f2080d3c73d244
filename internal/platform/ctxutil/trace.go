package ctxutil

import "context"

type traceDataKey struct{}

type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if td, ok := ctx.Value(traceDataKey{}).(*TraceData); ok {
		return td
	}
	return nil
}

type sessionDataKey struct{}

// SessionData is the verified session attached by the session middleware.
type SessionData struct {
	SessionID string
	Verified  bool
}

func WithSessionData(ctx context.Context, sd *SessionData) context.Context {
	return context.WithValue(ctx, sessionDataKey{}, sd)
}

func GetSessionData(ctx context.Context) *SessionData {
	if sd, ok := ctx.Value(sessionDataKey{}).(*SessionData); ok {
		return sd
	}
	return nil
}
