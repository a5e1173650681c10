package ledger

import (
	"fmt"
	"testing"

	"propfund/config"
	"propfund/database"
	"propfund/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{
		SaltRound:               4,
		EncryptionKey:           "test-encryption-key",
		RequiredRegistrationFee: 500,
		RequiredTeamSize:        20,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps in-memory SQLite free of busy errors under
	// concurrent test writers.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUserWallet(t *testing.T, db *gorm.DB, balance float64) (*models.User, *models.Wallet) {
	t.Helper()

	user := models.User{
		Name:     "Asha",
		Email:    fmt.Sprintf("%s@example.com", t.Name()),
		Password: "irrelevant",
	}
	require.NoError(t, db.Create(&user).Error)

	wallet := models.Wallet{
		UserID:  user.ID,
		Balance: balance,
		Status:  models.WalletStatusActive,
	}
	require.NoError(t, db.Create(&wallet).Error)
	return &user, &wallet
}

func seedMethod(t *testing.T, db *gorm.DB, feeType models.FeeType, feeValue, minAmount float64) *models.PaymentMethod {
	t.Helper()

	method := models.PaymentMethod{
		Code:      fmt.Sprintf("%s-%s-%v", t.Name(), feeType, feeValue),
		Name:      "Test Method",
		FeeType:   feeType,
		FeeValue:  feeValue,
		MinAmount: minAmount,
		IsActive:  true,
	}
	require.NoError(t, db.Create(&method).Error)
	return &method
}

func reloadWallet(t *testing.T, db *gorm.DB, walletID uint) *models.Wallet {
	t.Helper()

	var wallet models.Wallet
	require.NoError(t, db.First(&wallet, walletID).Error)
	return &wallet
}
