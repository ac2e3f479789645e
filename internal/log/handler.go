package log

import (
	"context"
	"log/slog"

	"github.com/ErlanBelekov/rbac-admin/internal/authctx"
	"github.com/ErlanBelekov/rbac-admin/internal/requestid"
)

// ContextHandler wraps an slog.Handler and automatically extracts
// request-scoped values (request_id, and user_id once the request has
// passed authentication) from the context of each log record.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler returns a handler that enriches every record with
// context values before delegating to inner.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if id := requestid.FromContext(ctx); id != "" {
		r.AddAttrs(slog.String("request_id", id))
	}
	if user := authctx.FromContext(ctx); user != nil {
		r.AddAttrs(slog.String("user_id", user.ID.Hex()))
	}
	return h.inner.Handle(ctx, r)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}
