package kycController

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"propfund/config"
	"propfund/database"
	"propfund/middleware"
	"propfund/models"
	"propfund/security"

	"github.com/gofiber/fiber/v2"
)

// SubmitKYC accepts the verification form with a document attachment. The
// attachment must pass the upload allow-list, and the document number is
// encrypted before it touches the database. Resubmitting replaces an
// unverified submission; a verified one cannot be overwritten.
func SubmitKYC(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	country := strings.TrimSpace(c.FormValue("country"))
	docType := strings.ToUpper(strings.TrimSpace(c.FormValue("documentType")))
	docNumber := strings.TrimSpace(c.FormValue("documentNumber"))
	if country == "" || docType == "" || docNumber == "" {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false,
			"country, documentType and documentNumber are required!", nil)
	}

	file, err := c.FormFile("document")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Document attachment is required!", nil)
	}
	if err := security.ValidateUpload(file.Filename, file.Size, file.Header.Get("Content-Type")); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Document attachment rejected!", nil)
	}

	db := database.Database.Db

	var existing models.UserKYC
	hasExisting := db.Where("user_id = ? AND is_deleted = false", userId).First(&existing).Error == nil
	if hasExisting && existing.IsVerified {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "KYC is already verified!", nil)
	}

	encryptedNo, err := security.EncryptValue(docNumber)
	if err != nil {
		log.Printf("Error encrypting document number: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	uploadDir := filepath.Join(config.AppConfig.UploadDir, "kyc")
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Printf("Error creating upload directory: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store document!", nil)
	}
	savePath := filepath.Join(uploadDir, fmt.Sprintf("%d_%s", userId, filepath.Base(file.Filename)))
	if err := c.SaveFile(file, savePath); err != nil {
		log.Printf("Error saving document: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store document!", nil)
	}

	kyc := existing
	kyc.UserID = userId
	kyc.Country = security.Sanitize(country).(string)
	kyc.DocumentType = docType
	kyc.DocumentNumber = encryptedNo
	kyc.IsVerified = false
	kyc.VerifiedAt = nil

	if hasExisting {
		err = db.Save(&kyc).Error
	} else {
		err = db.Create(&kyc).Error
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save KYC submission!", nil)
	}

	db.Model(&models.User{}).Where("id = ?", userId).Update("kyc_id", kyc.ID)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "KYC submitted for review.", fiber.Map{
		"id":           kyc.ID,
		"country":      kyc.Country,
		"documentType": kyc.DocumentType,
		"isVerified":   kyc.IsVerified,
	})
}
