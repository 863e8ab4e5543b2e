package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/shop_ledger_backend/internal/middleware"
)

// BaseService gives every service the request-scoped logger installed by the
// logging middleware. Outside a request it falls back to slog's default.
type BaseService struct{}

func (s *BaseService) logger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

func errorAttrs(err error, keyvals []any) []any {
	return append([]any{slog.String("error", err.Error())}, keyvals...)
}

// LogError records a failed operation with its cause.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	s.logger(ctx).Error(msg, errorAttrs(err, keyvals)...)
}

// LogWarn records a recoverable problem, such as a stored rule document that
// no longer parses and was replaced by a default.
func (s *BaseService) LogWarn(ctx context.Context, err error, msg string, keyvals ...any) {
	s.logger(ctx).Warn(msg, errorAttrs(err, keyvals)...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.logger(ctx).Info(msg, keyvals...)
}

func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.logger(ctx).Debug(msg, keyvals...)
}
