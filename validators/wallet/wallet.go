package walletValidator

import (
	"propfund/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

func fieldErrors(err error) map[string]string {
	errors := make(map[string]string)
	if verrs, ok := err.(validator.ValidationErrors); ok {
		for _, fe := range verrs {
			errors[fe.Field()] = "failed on rule: " + fe.Tag()
		}
	}
	return errors
}

// DepositRequest is the validated deposit payload
type DepositRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethodID uint    `json:"paymentMethodId" validate:"required"`
	Reference       string  `json:"reference" validate:"required"` // opaque processor confirmation
	AutoApprove     bool    `json:"autoApprove"`
}

// WithdrawRequest is the validated withdrawal payload
type WithdrawRequest struct {
	Amount          float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethodID uint    `json:"paymentMethodId" validate:"required"`
	DestinationID   uint    `json:"destinationId" validate:"required"` // bank details record
}

// RejectRequest is the validated rejection payload
type RejectRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// Deposit validates user deposit request
func Deposit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(DepositRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedDeposit", reqData)
		return c.Next()
	}
}

// Withdraw validates user withdrawal request
func Withdraw() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(WithdrawRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedWithdraw", reqData)
		return c.Next()
	}
}

// Reject validates transaction rejection request
func Reject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(RejectRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}
