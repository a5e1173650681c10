package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TransactionType defines the type of wallet transaction
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "DEPOSIT"
	TransactionTypeWithdrawal TransactionType = "WITHDRAWAL"
)

// TransactionStatus defines the status of a transaction. Status only moves
// forward: PENDING -> COMPLETED | REJECTED.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusRejected  TransactionStatus = "REJECTED"
)

// Transaction tracks a single money-movement attempt against a wallet
type Transaction struct {
	gorm.Model
	UserID   uint `gorm:"not null;index" json:"userId"`
	WalletID uint `gorm:"not null;index" json:"walletId"`

	Type      TransactionType   `gorm:"type:varchar(20);not null" json:"type"`
	Amount    float64           `gorm:"not null" json:"amount"` // gross amount requested
	Fee       float64           `gorm:"not null;default:0" json:"fee"`
	NetAmount float64           `gorm:"not null" json:"netAmount"` // amount - fee for deposits; amount for withdrawals
	Status    TransactionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`

	PaymentMethodID uint   `gorm:"not null" json:"paymentMethodId"`
	Reference       string `gorm:"type:varchar(100);index" json:"reference"` // opaque payment-processor reference
	DestinationID   uint   `gorm:"default:0" json:"destinationId"`           // bank details id, withdrawals only

	RejectionReason string `gorm:"type:text" json:"rejectionReason"`
	ReviewedBy      uint   `gorm:"default:0" json:"reviewedBy"`

	GatewayResponse datatypes.JSON `json:"gatewayResponse"`

	TransactionDate time.Time `gorm:"not null" json:"transactionDate"`
	IsDeleted       bool      `gorm:"default:false" json:"isDeleted"`

	User   User   `gorm:"foreignKey:UserID" json:"-"`
	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (Transaction) TableName() string {
	return "transactions"
}
