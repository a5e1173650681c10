// Package reports aggregates ledger and audit data into periodic
// compliance reports. It only reads the wallet/transaction/event tables;
// all mutation stays in the ledger.
package reports

import (
	"encoding/json"
	"fmt"
	"time"

	"propfund/models"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Reporter struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewReporter(db *gorm.DB) *Reporter {
	return &Reporter{db: db, log: logrus.StandardLogger()}
}

type txnAggregate struct {
	Count int64
	Gross float64
	Fees  float64
}

func (r *Reporter) aggregateTransactions(txnType models.TransactionType, status models.TransactionStatus, from, to time.Time) (txnAggregate, error) {
	var agg txnAggregate
	row := r.db.Model(&models.Transaction{}).
		Select("COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(fee), 0)").
		Where("type = ? AND status = ? AND is_deleted = false", txnType, status).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Row()
	if err := row.Scan(&agg.Count, &agg.Gross, &agg.Fees); err != nil {
		return agg, fmt.Errorf("aggregate %s/%s: %w", txnType, status, err)
	}
	return agg, nil
}

// Generate builds and persists a compliance report for the period.
func (r *Reporter) Generate(from, to time.Time) (*models.ComplianceReport, error) {
	deposits, err := r.aggregateTransactions(models.TransactionTypeDeposit, models.TransactionStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}
	withdrawals, err := r.aggregateTransactions(models.TransactionTypeWithdrawal, models.TransactionStatusCompleted, from, to)
	if err != nil {
		return nil, err
	}

	var pendingCount int64
	var pendingAmount float64
	row := r.db.Model(&models.Transaction{}).
		Select("COUNT(*), COALESCE(SUM(amount), 0)").
		Where("status = ? AND is_deleted = false", models.TransactionStatusPending).
		Row()
	if err := row.Scan(&pendingCount, &pendingAmount); err != nil {
		return nil, fmt.Errorf("aggregate pending backlog: %w", err)
	}

	var rejectedCount int64
	if err := r.db.Model(&models.Transaction{}).
		Where("status = ? AND is_deleted = false", models.TransactionStatusRejected).
		Where("transaction_date >= ? AND transaction_date < ?", from, to).
		Count(&rejectedCount).Error; err != nil {
		return nil, fmt.Errorf("count rejected: %w", err)
	}

	var lockedAccounts int64
	if err := r.db.Model(&models.User{}).
		Where("is_locked = true AND is_deleted = false").
		Count(&lockedAccounts).Error; err != nil {
		return nil, fmt.Errorf("count locked accounts: %w", err)
	}

	eventCounts, err := r.countEvents(from, to)
	if err != nil {
		return nil, err
	}
	eventJSON, err := json.Marshal(eventCounts)
	if err != nil {
		return nil, fmt.Errorf("encode event counts: %w", err)
	}

	report := models.ComplianceReport{
		PeriodStart:     from,
		PeriodEnd:       to,
		DepositCount:    deposits.Count,
		DepositGross:    deposits.Gross,
		DepositFees:     deposits.Fees,
		WithdrawalCount: withdrawals.Count,
		WithdrawalGross: withdrawals.Gross,
		PendingCount:    pendingCount,
		PendingAmount:   pendingAmount,
		RejectedCount:   rejectedCount,
		LockedAccounts:  lockedAccounts,
		EventCounts:     datatypes.JSON(eventJSON),
		GeneratedAt:     time.Now(),
	}
	if err := r.db.Create(&report).Error; err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}

	r.log.WithFields(logrus.Fields{
		"from":        from.Format(time.RFC3339),
		"to":          to.Format(time.RFC3339),
		"deposits":    deposits.Count,
		"withdrawals": withdrawals.Count,
	}).Info("compliance report generated")

	return &report, nil
}

func (r *Reporter) countEvents(from, to time.Time) (map[string]int64, error) {
	rows, err := r.db.Model(&models.SecurityEvent{}).
		Select("event_type, COUNT(*)").
		Where("occurred_at >= ? AND occurred_at < ?", from, to).
		Group("event_type").
		Rows()
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var eventType string
		var count int64
		if err := rows.Scan(&eventType, &count); err != nil {
			return nil, err
		}
		counts[eventType] = count
	}
	return counts, rows.Err()
}

// StartScheduler registers the nightly report job (02:00) and returns the
// running cron instance so main can stop it on shutdown.
func StartScheduler(db *gorm.DB) *cron.Cron {
	c := cron.New()
	reporter := NewReporter(db)

	c.AddFunc("0 2 * * *", func() {
		to := time.Now()
		from := to.Add(-24 * time.Hour)
		if _, err := reporter.Generate(from, to); err != nil {
			logrus.WithError(err).Error("nightly compliance report failed")
		}
	})

	c.Start()
	return c
}
