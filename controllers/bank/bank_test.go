package bankController

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"propfund/config"
	"propfund/database"
	"propfund/middleware"
	"propfund/models"
	"propfund/security"
	bankValidator "propfund/validators/bank"

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
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	database.Database = database.DbInstance{Db: db}

	app := fiber.New()
	app.Post("/bank/add", bankValidator.Add(), middleware.JWTMiddleware, AddBankDetails)
	app.Get("/bank/list", middleware.JWTMiddleware, ListBankDetails)
	return app, db
}

func seedToken(t *testing.T, db *gorm.DB) (uint, string) {
	t.Helper()

	user := models.User{
		Name:     "Asha",
		Email:    fmt.Sprintf("%s@example.com", t.Name()),
		Password: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Role, user.Email)
	require.NoError(t, err)
	return user.ID, token
}

func TestAddBankDetailsEncryptsAccountNumber(t *testing.T) {
	app, db := setupApp(t)
	userID, token := seedToken(t, db)

	body := `{"bankName":"HDFC Bank","accountNo":"123456789012","holderName":"Asha Rao","ifscCode":"HDFC0001234","accountType":"savings"}`
	req := httptest.NewRequest("POST", "/bank/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var stored models.BankDetails
	require.NoError(t, db.Where("user_id = ?", userID).First(&stored).Error)

	// Ciphertext at rest, plaintext recoverable
	assert.NotEqual(t, "123456789012", stored.AccountNo)
	assert.NotContains(t, stored.AccountNo, "123456789012")

	var plain string
	require.NoError(t, security.DecryptValue(stored.AccountNo, &plain))
	assert.Equal(t, "123456789012", plain)

	// Response carries only the masked form
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "123456789012")
	assert.Contains(t, string(raw), "9012")
}

func TestAddBankDetailsStripsMarkup(t *testing.T) {
	app, db := setupApp(t)
	userID, token := seedToken(t, db)

	body := `{"bankName":"<b>HDFC Bank</b>","accountNo":"123456789012","holderName":"<i>Asha Rao</i>","ifscCode":"HDFC0001234"}`
	req := httptest.NewRequest("POST", "/bank/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var stored models.BankDetails
	require.NoError(t, db.Where("user_id = ?", userID).First(&stored).Error)
	assert.Equal(t, "HDFC Bank", stored.BankName)
	assert.Equal(t, "Asha Rao", stored.HolderName)
}

func TestListBankDetailsMasksAccountNumbers(t *testing.T) {
	app, db := setupApp(t)
	userID, token := seedToken(t, db)

	encrypted, err := security.EncryptValue("987654321098")
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.BankDetails{
		BankName:   "ICICI Bank",
		AccountNo:  encrypted,
		HolderName: "Asha Rao",
		IFSCCode:   "ICIC0004321",
		UserID:     userID,
	}).Error)

	req := httptest.NewRequest("GET", "/bank/list", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload struct {
		Data []struct {
			AccountNo string `json:"accountNo"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	require.Len(t, payload.Data, 1)
	assert.Equal(t, "********1098", payload.Data[0].AccountNo)
}

func TestAddBankDetailsRequiresValidPayload(t *testing.T) {
	app, db := setupApp(t)
	_, token := seedToken(t, db)

	body := `{"bankName":"HDFC Bank","accountNo":"123","holderName":"Asha Rao","ifscCode":"BAD"}`
	req := httptest.NewRequest("POST", "/bank/add", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
