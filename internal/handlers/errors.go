package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// internalError logs err with the request logger and hides it from the
// client.
func internalError(ctx context.Context, msg string, err error) error {
	zerolog.Ctx(ctx).Error().Err(err).Msg(msg)
	return huma.Error500InternalServerError(msg)
}

// saveError maps a failed insert or update to a client error when the
// cause is bad input, and to a 500 otherwise.
func saveError(ctx context.Context, msg string, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		details := make([]error, 0, len(verrs))
		for _, fe := range verrs {
			details = append(details, &huma.ErrorDetail{
				Location: "body." + fe.Field(),
				Message:  fmt.Sprintf("failed %q validation", fe.Tag()),
				Value:    fe.Value(),
			})
		}
		return huma.Error422UnprocessableEntity("Validation failed", details...)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return huma.Error409Conflict(msg + ": already exists")
	default:
		return internalError(ctx, msg, err)
	}
}

// notFound turns gorm.ErrRecordNotFound into a 404 and anything else into
// a 500.
func notFound(ctx context.Context, what string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return huma.Error404NotFound(what + " not found")
	}
	return internalError(ctx, "Failed to load "+what, err)
}
