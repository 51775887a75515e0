package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
)

const responseTimeFormat = "2006-01-02 15:04:05"

// SuccessResponse is the envelope wrapping every successful JSON payload.
type SuccessResponse struct {
	StatusCode int    `json:"statusCode"`
	Path       string `json:"path"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Timestamp  string `json:"timestamp"`
}

// ErrorResponse is the envelope wrapping every error payload. Result carries
// the machine readable detail: a text code or a field validation map.
type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Path       string `json:"path"`
	Message    string `json:"message"`
	Result     any    `json:"result"`
	Timestamp  string `json:"timestamp"`
}

// JSONSuccess writes the success envelope. Data may be nil, which renders
// as an explicit null so clients can rely on the field being present.
func JSONSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(SuccessResponse{
		StatusCode: status,
		Path:       c.Path(),
		Message:    message,
		Data:       data,
		Timestamp:  time.Now().Format(responseTimeFormat),
	})
}

// JSONError translates an error into the error envelope. Rich errors carry
// their own HTTP status; anything else is a 500 with a generic message so
// internals never leak to clients.
func JSONError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "Internal server error"
	var result any

	var richErr *errors.Error
	if errors.As(err, &richErr) {
		if richErr.Code > 0 {
			status = richErr.Code
		} else {
			switch richErr.Category {
			case errors.CategoryValidation, errors.CategoryBadInput:
				status = fiber.StatusBadRequest
			case errors.CategoryAuth:
				status = fiber.StatusUnauthorized
			case errors.CategoryAuthz:
				status = fiber.StatusForbidden
			case errors.CategoryNotFound:
				status = fiber.StatusNotFound
			case errors.CategoryConflict:
				status = fiber.StatusConflict
			}
		}

		if richErr.Category != errors.CategoryInternal {
			message = richErr.Message
		}

		if richErr.Category == errors.CategoryValidation {
			if fields := richErr.ValidationMap(); len(fields) > 0 {
				result = fields
			}
		}

		if result == nil && richErr.TextCode != "" {
			result = richErr.TextCode
		}
	}

	return c.Status(status).JSON(ErrorResponse{
		StatusCode: status,
		Path:       c.Path(),
		Message:    message,
		Result:     result,
		Timestamp:  time.Now().Format(responseTimeFormat),
	})
}
