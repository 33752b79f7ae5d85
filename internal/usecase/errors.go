package usecase

import (
	"context"
	"errors"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/validation"
)

// internalError logs an unexpected storage failure and hides it from the
// caller. AppErrors pass through unchanged.
func internalError(ctx context.Context, op string, err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	logger.Log.ErrorContext(ctx, "storage failure", "op", op, "error", err, "request_id", requestID(ctx))
	return apperror.Internal(err)
}

func validationError(err error) error {
	return apperror.BadRequest(validation.Message(err))
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(domain.KeyRequestID).(string)
	return id
}
