// Package ledger owns the wallet sub-balances and the transaction state
// machine. Sub-balances change nowhere else in the codebase.
package ledger

import "errors"

// Ledger and transaction errors. Callers map these onto HTTP statuses
// (422 insufficient balance / validation, 409-style invalid transition).
var (
	// ErrValidation: bad input shape or range, caller should correct and retry
	ErrValidation = errors.New("invalid input")
	// ErrInsufficientBalance: available balance cannot cover the request
	ErrInsufficientBalance = errors.New("insufficient available balance")
	// ErrInvalidStateTransition: transaction already finalized; indicates a double submit
	ErrInvalidStateTransition = errors.New("transaction is not pending")
	// ErrWalletSuspended: wallet exists but is not accepting mutations
	ErrWalletSuspended = errors.New("wallet is suspended")
	// ErrPaymentMethodUnknown: payment method missing or inactive
	ErrPaymentMethodUnknown = errors.New("unknown or inactive payment method")
	// ErrBelowMinimum: amount below the payment method's minimum
	ErrBelowMinimum = errors.New("amount is below the payment method minimum")
	// ErrRejectionReasonRequired: reject called without a reason
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
)
