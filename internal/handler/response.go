package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-inventory-api/internal/middleware"
	"go-inventory-api/internal/service"
	"go-inventory-api/pkg/apperror"
	"go-inventory-api/pkg/validator"
)

// ValidationError carries per-field failures from request validation.
type ValidationError struct {
	Fields []*validator.ErrorResponse
}

func (e *ValidationError) Error() string { return "Validation failed" }

var statusByKind = map[apperror.Kind]int{
	apperror.NotFound:            fiber.StatusNotFound,
	apperror.InvalidOperation:    fiber.StatusBadRequest,
	apperror.ConstraintViolation: fiber.StatusConflict,
	apperror.UpstreamUnavailable: fiber.StatusServiceUnavailable,
	apperror.Unauthorized:        fiber.StatusUnauthorized,
	apperror.Forbidden:           fiber.StatusForbidden,
}

// ErrorHandler renders every error returned by a route as
// {success:false, error, message}.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   "ValidationError",
				"message": ve.Error(),
				"details": ve.Fields,
			})
		}

		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{
				"success": false,
				"error":   http.StatusText(fe.Code),
				"message": fe.Message,
			})
		}

		kind := apperror.KindOf(err)
		status, ok := statusByKind[kind]
		if !ok {
			status = fiber.StatusInternalServerError
		}
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   kind,
			"message": apperror.MessageOf(err),
		})
	}
}

// bind parses the JSON body into dst and validates it.
func bind(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return apperror.New(apperror.InvalidOperation, "Invalid JSON")
	}
	if errs := validator.ValidateStruct(dst); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func parseProductID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperror.New(apperror.InvalidOperation, "Invalid product ID")
	}
	return id, nil
}

func actorFrom(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:    middleware.UserID(c),
		Name:  middleware.UserName(c),
		Email: middleware.UserEmail(c),
	}
}
