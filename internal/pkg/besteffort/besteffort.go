// Package besteffort runs secondary side effects that must never abort the
// primary operation: the failure is logged and handed back to the caller,
// which decides whether to surface it as a warning or drop it.
package besteffort

import (
	"context"

	"go.uber.org/zap"
)

// Do runs fn and logs a failure under op. It returns the error unchanged.
func Do(ctx context.Context, logger *zap.Logger, op string, fn func(ctx context.Context) error, fields ...zap.Field) error {
	err := fn(ctx)
	if err != nil && logger != nil {
		logger.Warn("best-effort step failed",
			append([]zap.Field{zap.String("op", op), zap.Error(err)}, fields...)...,
		)
	}
	return err
}

// Ignore runs fn through Do and discards the outcome.
func Ignore(ctx context.Context, logger *zap.Logger, op string, fn func(ctx context.Context) error, fields ...zap.Field) {
	_ = Do(ctx, logger, op, fn, fields...)
}
