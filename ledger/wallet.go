package ledger

import (
	"fmt"
	"sync"

	"propfund/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// walletLocks serializes mutations per wallet id. The lock is held only
// around the read-mutate-write of the wallet row, never across external I/O.
var walletLocks sync.Map

func lockFor(walletID uint) *sync.Mutex {
	mu, _ := walletLocks.LoadOrStore(walletID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Ledger exposes the atomic wallet primitives. Primitives are not
// idempotent; the transaction state machine guarantees each is invoked
// exactly once per lifecycle event.
type Ledger struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, log: logrus.StandardLogger()}
}

// withWallet runs fn on the wallet row under the wallet's lock and persists
// the mutated row. fn returning an error aborts without persisting.
func (l *Ledger) withWallet(walletID uint, fn func(w *models.Wallet) error) error {
	mu := lockFor(walletID)
	mu.Lock()
	defer mu.Unlock()

	var wallet models.Wallet
	if err := l.db.Where("id = ? AND is_deleted = false", walletID).First(&wallet).Error; err != nil {
		return fmt.Errorf("load wallet %d: %w", walletID, err)
	}
	if wallet.Status == models.WalletStatusSuspended {
		return ErrWalletSuspended
	}

	if err := fn(&wallet); err != nil {
		return err
	}

	if err := l.db.Save(&wallet).Error; err != nil {
		return fmt.Errorf("save wallet %d: %w", walletID, err)
	}
	return nil
}

// clamp floors a sub-balance subtraction at zero. An engaged clamp means an
// upstream caller miscounted; it is surfaced as an anomaly, not an error.
func (l *Ledger) clamp(w *models.Wallet, field string, current, amount float64) float64 {
	if amount > current {
		l.log.WithFields(logrus.Fields{
			"walletId": w.ID,
			"field":    field,
			"current":  current,
			"amount":   amount,
		}).Warn("ledger clamp engaged: subtraction exceeds sub-balance")
		return 0
	}
	return current - amount
}

// Credit adds spendable funds and bumps the deposit counter.
func (l *Ledger) Credit(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		w.Balance += amount
		w.TotalDeposits += amount
		return nil
	})
}

// AddPending records a deposit that is not yet approved.
func (l *Ledger) AddPending(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		w.PendingAmount += amount
		return nil
	})
}

// SettlePending moves an approved deposit from pending into the balance.
func (l *Ledger) SettlePending(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		w.PendingAmount = l.clamp(w, "pending_amount", w.PendingAmount, amount)
		w.Balance += amount
		w.TotalDeposits += amount
		return nil
	})
}

// CancelPending drops a rejected deposit from pending without crediting.
func (l *Ledger) CancelPending(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		w.PendingAmount = l.clamp(w, "pending_amount", w.PendingAmount, amount)
		return nil
	})
}

// Freeze reserves available funds against an in-flight withdrawal.
func (l *Ledger) Freeze(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		if w.Available() < amount {
			return ErrInsufficientBalance
		}
		w.FrozenAmount += amount
		return nil
	})
}

// SettleFrozen finalizes an approved withdrawal: the reserved funds leave
// the balance and the withdrawal counter is bumped.
func (l *Ledger) SettleFrozen(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		w.FrozenAmount = l.clamp(w, "frozen_amount", w.FrozenAmount, amount)
		w.Balance = l.clamp(w, "balance", w.Balance, amount)
		w.TotalWithdrawals += amount
		return nil
	})
}

// Unfreeze releases reserved funds after a rejected withdrawal. No balance
// change.
func (l *Ledger) Unfreeze(walletID uint, amount float64) error {
	if amount <= 0 {
		return ErrValidation
	}
	return l.withWallet(walletID, func(w *models.Wallet) error {
		w.FrozenAmount = l.clamp(w, "frozen_amount", w.FrozenAmount, amount)
		return nil
	})
}

// AvailableBalance returns balance minus frozen funds.
func (l *Ledger) AvailableBalance(walletID uint) (float64, error) {
	var wallet models.Wallet
	if err := l.db.Where("id = ? AND is_deleted = false", walletID).First(&wallet).Error; err != nil {
		return 0, fmt.Errorf("load wallet %d: %w", walletID, err)
	}
	return wallet.Available(), nil
}

// CanWithdraw reports whether the wallet could cover a withdrawal of amount.
func (l *Ledger) CanWithdraw(walletID uint, amount float64) (bool, error) {
	var wallet models.Wallet
	if err := l.db.Where("id = ? AND is_deleted = false", walletID).First(&wallet).Error; err != nil {
		return false, fmt.Errorf("load wallet %d: %w", walletID, err)
	}
	return wallet.CanWithdraw(amount), nil
}
