package middleware

import (
	"errors"

	"bazaar-backend/internal/application/listings"
	"bazaar-backend/internal/application/marketplace"
	"bazaar-backend/internal/application/purchases"
	"bazaar-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the global error handler. Ledger errors map onto the two
// caller-facing failure classes: bounds errors and invalid input are 400
// (caller bug, not retryable as-is), state errors are 404/409/402 and may be
// retried after re-reading ledger state.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	switch {
	case errors.Is(err, listings.ErrIndexOutOfRange),
		errors.Is(err, listings.ErrInvalidInput):
		code = fiber.StatusBadRequest
		message = err.Error()
	case errors.Is(err, listings.ErrNotFound):
		code = fiber.StatusNotFound
		message = err.Error()
	case errors.Is(err, listings.ErrAlreadyPurchased),
		errors.Is(err, purchases.ErrListingUnavailable):
		code = fiber.StatusConflict
		message = err.Error()
	case errors.Is(err, purchases.ErrInsufficientPayment):
		code = fiber.StatusPaymentRequired
		message = err.Error()
	case errors.Is(err, marketplace.ErrCallerRequired):
		code = fiber.StatusUnauthorized
		message = err.Error()
	default:
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			message = fe.Message
		}
	}

	return response.Error(c, message, code, nil)
}
