package kycController

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"propfund/config"
	"propfund/database"
	"propfund/middleware"
	"propfund/models"
	"propfund/security"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	config.AppConfig = &config.Config{
		JWTKey:        "test-jwt-key",
		EncryptionKey: "test-encryption-key",
		UploadDir:     t.TempDir(),
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/kyc/submit", middleware.JWTMiddleware, SubmitKYC)
	return app, db
}

func seedToken(t *testing.T, db *gorm.DB) (uint, string) {
	t.Helper()

	user := models.User{
		Name:     "Ravi",
		Email:    fmt.Sprintf("%s@example.com", t.Name()),
		Password: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user.ID, token
}

func kycForm(t *testing.T, docNumber, filename, contentType string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("country", "IN"))
	require.NoError(t, w.WriteField("documentType", "pan"))
	require.NoError(t, w.WriteField("documentNumber", docNumber))

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte("document-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestSubmitKYCEncryptsDocumentNumber(t *testing.T) {
	app, db := setupApp(t)
	userID, token := seedToken(t, db)

	body, contentType := kycForm(t, "ABCDE1234F", "pan.jpg", "image/jpeg")
	req := httptest.NewRequest("POST", "/kyc/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var stored models.UserKYC
	require.NoError(t, db.Where("user_id = ?", userID).First(&stored).Error)
	assert.Equal(t, "PAN", stored.DocumentType)
	assert.False(t, stored.IsVerified)

	assert.NotEqual(t, "ABCDE1234F", stored.DocumentNumber)
	var plain string
	require.NoError(t, security.DecryptValue(stored.DocumentNumber, &plain))
	assert.Equal(t, "ABCDE1234F", plain)

	var user models.User
	require.NoError(t, db.First(&user, userID).Error)
	assert.Equal(t, stored.ID, user.KycID)
}

func TestSubmitKYCRejectsDisallowedUpload(t *testing.T) {
	app, db := setupApp(t)
	userID, token := seedToken(t, db)

	body, contentType := kycForm(t, "ABCDE1234F", "payload.exe", "application/octet-stream")
	req := httptest.NewRequest("POST", "/kyc/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, db.Model(&models.UserKYC{}).Where("user_id = ?", userID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSubmitKYCDoesNotOverwriteVerified(t *testing.T) {
	app, db := setupApp(t)
	userID, token := seedToken(t, db)

	require.NoError(t, db.Create(&models.UserKYC{
		UserID:     userID,
		IsVerified: true,
	}).Error)

	body, contentType := kycForm(t, "NEWNUMBER99", "pan.jpg", "image/jpeg")
	req := httptest.NewRequest("POST", "/kyc/submit", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}
