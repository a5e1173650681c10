package bankController

import (
	"log"
	"strings"

	"propfund/database"
	"propfund/middleware"
	"propfund/models"
	"propfund/security"
	bankValidator "propfund/validators/bank"

	"github.com/gofiber/fiber/v2"
)

// maskAccount hides all but the last four digits.
func maskAccount(accountNo string) string {
	if len(accountNo) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(accountNo)-4) + accountNo[len(accountNo)-4:]
}

// AddBankDetails registers a withdrawal destination for the caller. The
// account number is encrypted at rest; responses only ever carry the
// masked form.
func AddBankDetails(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedBank").(*bankValidator.BankRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	accountType := reqData.AccountType
	if accountType == "" {
		accountType = "savings"
	}

	encryptedNo, err := security.EncryptValue(reqData.AccountNo)
	if err != nil {
		log.Printf("Error encrypting account number: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	bank := models.BankDetails{
		BankName:    security.Sanitize(reqData.BankName).(string),
		AccountNo:   encryptedNo,
		HolderName:  security.Sanitize(reqData.HolderName).(string),
		IFSCCode:    strings.ToUpper(reqData.IFSCCode),
		BranchName:  security.Sanitize(reqData.BranchName).(string),
		AccountType: accountType,
		UserID:      userId,
	}
	if err := database.Database.Db.Create(&bank).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save bank details!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bank details added!", fiber.Map{
		"id":         bank.ID,
		"bankName":   bank.BankName,
		"accountNo":  maskAccount(reqData.AccountNo),
		"holderName": bank.HolderName,
		"ifscCode":   bank.IFSCCode,
	})
}

// ListBankDetails returns the caller's withdrawal destinations with
// masked account numbers.
func ListBankDetails(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var banks []models.BankDetails
	if err := database.Database.Db.
		Where("user_id = ? AND is_deleted = false", userId).
		Find(&banks).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch bank details!", nil)
	}

	items := make([]fiber.Map, 0, len(banks))
	for _, bank := range banks {
		masked := "****"
		var plain string
		if err := security.DecryptValue(bank.AccountNo, &plain); err == nil {
			masked = maskAccount(plain)
		}
		items = append(items, fiber.Map{
			"id":          bank.ID,
			"bankName":    bank.BankName,
			"accountNo":   masked,
			"holderName":  bank.HolderName,
			"ifscCode":    bank.IFSCCode,
			"branchName":  bank.BranchName,
			"accountType": bank.AccountType,
			"isVerified":  bank.IsVerified,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bank details fetched!", items)
}
