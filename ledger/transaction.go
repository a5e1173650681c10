package ledger

import (
	"fmt"
	"time"

	"propfund/models"
	"propfund/utils"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Service drives the transaction lifecycle: PENDING -> COMPLETED | REJECTED,
// terminal. Every ledger primitive is invoked exactly once per lifecycle
// event; the guarded status update makes concurrent approve/reject mutually
// exclusive.
type Service struct {
	db     *gorm.DB
	ledger *Ledger
	log    *logrus.Logger

	// Notify is invoked fire-and-forget after a transaction completes.
	// A failed notification never rolls back the ledger mutation.
	Notify func(user models.User, txn models.Transaction)
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:     db,
		ledger: NewLedger(db),
		log:    logrus.StandardLogger(),
		Notify: utils.NotifyTransaction,
	}
}

// Ledger exposes the wallet primitives for read-only callers.
func (s *Service) Ledger() *Ledger {
	return s.ledger
}

func (s *Service) walletFor(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := s.db.Where("user_id = ? AND is_deleted = false", userID).First(&wallet).Error; err != nil {
		return nil, fmt.Errorf("wallet for user %d: %w", userID, err)
	}
	return &wallet, nil
}

func (s *Service) methodByID(methodID uint) (*models.PaymentMethod, error) {
	var method models.PaymentMethod
	if err := s.db.Where("id = ? AND is_active = true AND is_deleted = false", methodID).First(&method).Error; err != nil {
		return nil, ErrPaymentMethodUnknown
	}
	return &method, nil
}

// CreateDeposit records a deposit request. The net amount (gross minus fee)
// lands in pending until an approval settles it. autoApprove runs the
// approve transition immediately, for methods whose processor confirmation
// is trusted as final.
func (s *Service) CreateDeposit(userID uint, amount float64, methodID uint, reference string, autoApprove bool) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}

	method, err := s.methodByID(methodID)
	if err != nil {
		return nil, err
	}
	if amount < method.MinAmount {
		return nil, ErrBelowMinimum
	}

	wallet, err := s.walletFor(userID)
	if err != nil {
		return nil, err
	}

	fee := method.CalculateFee(amount)
	net := amount - fee

	txn := models.Transaction{
		UserID:          userID,
		WalletID:        wallet.ID,
		Type:            models.TransactionTypeDeposit,
		Amount:          amount,
		Fee:             fee,
		NetAmount:       net,
		Status:          models.TransactionStatusPending,
		PaymentMethodID: method.ID,
		Reference:       reference,
		TransactionDate: time.Now(),
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("create deposit: %w", err)
	}

	if err := s.ledger.AddPending(wallet.ID, net); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"txnId":  txn.ID,
		"userId": userID,
		"amount": amount,
		"fee":    fee,
	}).Info("deposit recorded")

	if autoApprove {
		return s.Approve(txn.ID, 0)
	}
	return &txn, nil
}

// CreateWithdrawal records a withdrawal request and freezes the gross
// amount. Fails with ErrInsufficientBalance when available funds cannot
// cover it.
func (s *Service) CreateWithdrawal(userID uint, amount float64, methodID uint, destinationID uint) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, ErrValidation
	}

	method, err := s.methodByID(methodID)
	if err != nil {
		return nil, err
	}
	if amount < method.MinAmount {
		return nil, ErrBelowMinimum
	}

	wallet, err := s.walletFor(userID)
	if err != nil {
		return nil, err
	}

	// Freeze re-checks availability under the wallet lock; the early check
	// only short-circuits the obvious case before a transaction row exists.
	if !wallet.CanWithdraw(amount) {
		return nil, ErrInsufficientBalance
	}

	// Fee is charged to the recipient side: net equals the gross amount.
	txn := models.Transaction{
		UserID:          userID,
		WalletID:        wallet.ID,
		Type:            models.TransactionTypeWithdrawal,
		Amount:          amount,
		Fee:             method.CalculateFee(amount),
		NetAmount:       amount,
		Status:          models.TransactionStatusPending,
		PaymentMethodID: method.ID,
		DestinationID:   destinationID,
		TransactionDate: time.Now(),
	}
	if err := s.db.Create(&txn).Error; err != nil {
		return nil, fmt.Errorf("create withdrawal: %w", err)
	}

	if err := s.ledger.Freeze(wallet.ID, amount); err != nil {
		// Another request drained the wallet between the check and the
		// freeze. The transaction row is finalized as rejected.
		s.db.Model(&models.Transaction{}).Where("id = ?", txn.ID).
			Updates(map[string]interface{}{
				"status":           models.TransactionStatusRejected,
				"rejection_reason": "insufficient available balance",
			})
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"txnId":  txn.ID,
		"userId": userID,
		"amount": amount,
	}).Info("withdrawal recorded")

	return &txn, nil
}

// finalize flips the transaction out of PENDING. The guarded update is the
// mutual-exclusion point: whichever of two concurrent approve/reject calls
// loses the race observes zero affected rows and fails with
// ErrInvalidStateTransition instead of double-applying the ledger effect.
func (s *Service) finalize(txnID uint, updates map[string]interface{}) (*models.Transaction, error) {
	res := s.db.Model(&models.Transaction{}).
		Where("id = ? AND status = ? AND is_deleted = false", txnID, models.TransactionStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("finalize transaction %d: %w", txnID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrInvalidStateTransition
	}

	var txn models.Transaction
	if err := s.db.First(&txn, txnID).Error; err != nil {
		return nil, fmt.Errorf("reload transaction %d: %w", txnID, err)
	}
	return &txn, nil
}

// reopen returns a transaction to PENDING after a failed ledger mutation,
// so the funds it holds never end up stranded behind a terminal status.
// The guard in finalize only matches PENDING rows, so no concurrent writer
// can touch the row between the failed mutation and the rollback.
func (s *Service) reopen(txnID uint) {
	err := s.db.Model(&models.Transaction{}).Where("id = ?", txnID).
		Updates(map[string]interface{}{
			"status":           models.TransactionStatusPending,
			"reviewed_by":      0,
			"rejection_reason": "",
		}).Error
	if err != nil {
		s.log.WithError(err).WithField("txnId", txnID).Error("failed to reopen transaction")
	}
}

// Approve settles a pending transaction. Deposits move net funds from
// pending into the balance; withdrawals burn the frozen reservation. A
// ledger failure reopens the transaction so the approval can be retried.
func (s *Service) Approve(txnID uint, reviewerID uint) (*models.Transaction, error) {
	txn, err := s.finalize(txnID, map[string]interface{}{
		"status":      models.TransactionStatusCompleted,
		"reviewed_by": reviewerID,
	})
	if err != nil {
		return nil, err
	}

	switch txn.Type {
	case models.TransactionTypeDeposit:
		err = s.ledger.SettlePending(txn.WalletID, txn.NetAmount)
	case models.TransactionTypeWithdrawal:
		err = s.ledger.SettleFrozen(txn.WalletID, txn.Amount)
	}
	if err != nil {
		s.reopen(txn.ID)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"txnId": txn.ID, "type": txn.Type}).Info("transaction approved")

	s.notify(txn)
	return txn, nil
}

// Reject finalizes a pending transaction without moving funds into the
// balance. A non-empty reason is required.
func (s *Service) Reject(txnID uint, reviewerID uint, reason string) (*models.Transaction, error) {
	if reason == "" {
		return nil, ErrRejectionReasonRequired
	}

	txn, err := s.finalize(txnID, map[string]interface{}{
		"status":           models.TransactionStatusRejected,
		"reviewed_by":      reviewerID,
		"rejection_reason": reason,
	})
	if err != nil {
		return nil, err
	}

	switch txn.Type {
	case models.TransactionTypeDeposit:
		err = s.ledger.CancelPending(txn.WalletID, txn.NetAmount)
	case models.TransactionTypeWithdrawal:
		err = s.ledger.Unfreeze(txn.WalletID, txn.Amount)
	}
	if err != nil {
		s.reopen(txn.ID)
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"txnId": txn.ID, "reason": reason}).Info("transaction rejected")

	s.notify(txn)
	return txn, nil
}

func (s *Service) notify(txn *models.Transaction) {
	if s.Notify == nil {
		return
	}
	var user models.User
	if err := s.db.First(&user, txn.UserID).Error; err != nil {
		return
	}
	go s.Notify(user, *txn)
}
