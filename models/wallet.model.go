package models

import (
	"gorm.io/gorm"
)

// WalletStatus defines the state of a wallet
type WalletStatus string

const (
	WalletStatusActive    WalletStatus = "ACTIVE"
	WalletStatusSuspended WalletStatus = "SUSPENDED"
)

// Wallet holds the three sub-balances for one user. Created atomically with
// the user record and mutated only through the ledger primitives.
type Wallet struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"userId"`

	Balance       float64 `gorm:"not null;default:0" json:"balance"`       // spendable funds
	PendingAmount float64 `gorm:"not null;default:0" json:"pendingAmount"` // deposits awaiting approval
	FrozenAmount  float64 `gorm:"not null;default:0" json:"frozenAmount"`  // reserved against in-flight withdrawals

	TotalDeposits    float64 `gorm:"not null;default:0" json:"totalDeposits"`
	TotalWithdrawals float64 `gorm:"not null;default:0" json:"totalWithdrawals"`

	Status    WalletStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	IsDeleted bool         `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string {
	return "wallets"
}

// Available is the only amount eligible for withdrawal or investment.
// PendingAmount never contributes to it.
func (w *Wallet) Available() float64 {
	return w.Balance - w.FrozenAmount
}

// CanWithdraw reports whether amount could be withdrawn right now.
func (w *Wallet) CanWithdraw(amount float64) bool {
	return amount > 0 && amount <= w.Available()
}
