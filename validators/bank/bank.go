package bankValidator

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

// BankRequest is the validated bank-details payload
type BankRequest struct {
	BankName    string `json:"bankName" validate:"required,min=2"`
	AccountNo   string `json:"accountNo" validate:"required,min=6,max=20"`
	HolderName  string `json:"holderName" validate:"required,min=2"`
	IFSCCode    string `json:"ifscCode" validate:"required,len=11"`
	BranchName  string `json:"branchName" validate:"omitempty,min=2"`
	AccountType string `json:"accountType" validate:"omitempty,oneof=savings current"`
}

// Add validates a new bank-details request
func Add() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(BankRequest)

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if err := validate.Struct(reqData); err != nil {
			return middleware.ValidationErrorResponse(c, fieldErrors(err))
		}

		c.Locals("validatedBank", reqData)
		return c.Next()
	}
}
