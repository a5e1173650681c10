package reports

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"propfund/database"
	"propfund/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedTxn(t *testing.T, db *gorm.DB, txnType models.TransactionType, status models.TransactionStatus, amount, fee float64, when time.Time) {
	t.Helper()

	txn := models.Transaction{
		UserID:          1,
		WalletID:        1,
		Type:            txnType,
		Amount:          amount,
		Fee:             fee,
		NetAmount:       amount - fee,
		Status:          status,
		TransactionDate: when,
	}
	require.NoError(t, db.Create(&txn).Error)
}

func TestGenerateAggregatesPeriod(t *testing.T) {
	db := setupDB(t)
	now := time.Now()
	from := now.Add(-24 * time.Hour)
	inside := now.Add(-time.Hour)
	outside := now.Add(-48 * time.Hour)

	seedTxn(t, db, models.TransactionTypeDeposit, models.TransactionStatusCompleted, 1000, 15, inside)
	seedTxn(t, db, models.TransactionTypeDeposit, models.TransactionStatusCompleted, 500, 10, inside)
	seedTxn(t, db, models.TransactionTypeDeposit, models.TransactionStatusCompleted, 9999, 99, outside)
	seedTxn(t, db, models.TransactionTypeWithdrawal, models.TransactionStatusCompleted, 300, 5, inside)
	seedTxn(t, db, models.TransactionTypeDeposit, models.TransactionStatusPending, 250, 0, inside)
	seedTxn(t, db, models.TransactionTypeWithdrawal, models.TransactionStatusRejected, 700, 0, inside)

	locked := models.User{
		Name:     "Locked",
		Email:    fmt.Sprintf("%s@example.com", t.Name()),
		Password: "irrelevant",
		IsLocked: true,
	}
	require.NoError(t, db.Create(&locked).Error)

	for i := 0; i < 3; i++ {
		event := models.SecurityEvent{
			EventType:  models.EventLoginFailed,
			UserID:     locked.ID,
			OccurredAt: inside,
		}
		require.NoError(t, db.Create(&event).Error)
	}

	reporter := NewReporter(db)
	report, err := reporter.Generate(from, now)
	require.NoError(t, err)

	assert.Equal(t, int64(2), report.DepositCount)
	assert.Equal(t, 1500.0, report.DepositGross)
	assert.Equal(t, 25.0, report.DepositFees)
	assert.Equal(t, int64(1), report.WithdrawalCount)
	assert.Equal(t, 300.0, report.WithdrawalGross)
	assert.Equal(t, int64(1), report.PendingCount)
	assert.Equal(t, 250.0, report.PendingAmount)
	assert.Equal(t, int64(1), report.RejectedCount)
	assert.Equal(t, int64(1), report.LockedAccounts)

	var counts map[string]int64
	require.NoError(t, json.Unmarshal(report.EventCounts, &counts))
	assert.Equal(t, int64(3), counts[string(models.EventLoginFailed)])

	// The report row is persisted
	var stored models.ComplianceReport
	require.NoError(t, db.First(&stored, report.ID).Error)
	assert.Equal(t, report.DepositCount, stored.DepositCount)
}

func TestGenerateEmptyPeriod(t *testing.T) {
	db := setupDB(t)
	now := time.Now()

	reporter := NewReporter(db)
	report, err := reporter.Generate(now.Add(-24*time.Hour), now)
	require.NoError(t, err)

	assert.Zero(t, report.DepositCount)
	assert.Zero(t, report.DepositGross)
	assert.Zero(t, report.WithdrawalCount)
	assert.Zero(t, report.PendingCount)
	assert.Zero(t, report.RejectedCount)
}
