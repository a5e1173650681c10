package walletController

import (
	"errors"

	"propfund/database"
	"propfund/ledger"
	"propfund/middleware"
	"propfund/models"
	walletValidator "propfund/validators/wallet"

	"github.com/gofiber/fiber/v2"
)

func currentUser(c *fiber.Ctx) (*models.User, error) {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ledgerError maps ledger failures onto the HTTP conventions the callers
// expect: 422 for balance/validation problems, 409 for double submits.
func ledgerError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrInsufficientBalance):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Insufficient available balance!", nil)
	case errors.Is(err, ledger.ErrBelowMinimum):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Amount is below the payment method minimum!", nil)
	case errors.Is(err, ledger.ErrPaymentMethodUnknown):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Unknown or inactive payment method!", nil)
	case errors.Is(err, ledger.ErrInvalidStateTransition):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transaction is already finalized!", nil)
	case errors.Is(err, ledger.ErrRejectionReasonRequired):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Rejection reason is required!", nil)
	case errors.Is(err, ledger.ErrWalletSuspended):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Wallet is suspended!", nil)
	case errors.Is(err, ledger.ErrValidation):
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Invalid amount!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process transaction!", nil)
}

// GetWalletBalance returns the caller's wallet balances
func GetWalletBalance(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	var wallet models.Wallet
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = false", user.ID).First(&wallet).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Wallet not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet balance fetched!", fiber.Map{
		"balance":          wallet.Balance,
		"pendingAmount":    wallet.PendingAmount,
		"frozenAmount":     wallet.FrozenAmount,
		"availableBalance": wallet.Available(),
		"totalDeposits":    wallet.TotalDeposits,
		"totalWithdrawals": wallet.TotalWithdrawals,
		"currency":         "INR",
	})
}

// Deposit records a deposit request against the caller's wallet
func Deposit(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedDeposit").(*walletValidator.DepositRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := ledger.NewService(database.Database.Db)
	txn, err := service.CreateDeposit(user.ID, reqData.Amount, reqData.PaymentMethodID, reqData.Reference, reqData.AutoApprove)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Deposit recorded!", fiber.Map{
		"transactionId": txn.ID,
		"amount":        txn.Amount,
		"fee":           txn.Fee,
		"netAmount":     txn.NetAmount,
		"status":        txn.Status,
		"reference":     txn.Reference,
	})
}

// Withdraw records a withdrawal request against the caller's wallet
func Withdraw(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	reqData, ok := c.Locals("validatedWithdraw").(*walletValidator.WithdrawRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Destination must belong to the caller
	var destination models.BankDetails
	if err := database.Database.Db.
		Where("id = ? AND user_id = ? AND is_deleted = false", reqData.DestinationID, user.ID).
		First(&destination).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Unknown withdrawal destination!", nil)
	}

	service := ledger.NewService(database.Database.Db)
	txn, err := service.CreateWithdrawal(user.ID, reqData.Amount, reqData.PaymentMethodID, reqData.DestinationID)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Withdrawal requested!", fiber.Map{
		"transactionId": txn.ID,
		"amount":        txn.Amount,
		"fee":           txn.Fee,
		"status":        txn.Status,
	})
}

// GetWalletHistory returns the caller's transaction history
func GetWalletHistory(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	txnType := c.Query("type") // DEPOSIT, WITHDRAWAL

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.Transaction{}).Where("user_id = ? AND is_deleted = false", user.ID)
	if txnType != "" {
		query = query.Where("type = ?", txnType)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.
		Order("transaction_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Wallet history fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

func requireAdmin(c *fiber.Ctx) (*models.User, error) {
	userId := c.Locals("userId").(uint)

	var admin models.User
	err := database.Database.Db.
		Where("id = ? AND is_deleted = false AND role IN ?", userId, []string{"ADMIN", "SUPER-ADMIN"}).
		First(&admin).Error
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// ApproveTransaction finalizes a pending transaction (Admin only)
func ApproveTransaction(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	txnId, err := c.ParamsInt("id")
	if err != nil || txnId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	service := ledger.NewService(database.Database.Db)
	txn, err := service.Approve(uint(txnId), admin.ID)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction approved!", txn)
}

// RejectTransaction rejects a pending transaction with a reason (Admin only)
func RejectTransaction(c *fiber.Ctx) error {
	admin, err := requireAdmin(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	txnId, err := c.ParamsInt("id")
	if err != nil || txnId <= 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid transaction id!", nil)
	}

	reqData, ok := c.Locals("validatedReject").(*walletValidator.RejectRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	service := ledger.NewService(database.Database.Db)
	txn, err := service.Reject(uint(txnId), admin.ID, reqData.Reason)
	if err != nil {
		return ledgerError(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction rejected!", txn)
}

// GetAllTransactions lists transactions across users (Admin only)
func GetAllTransactions(c *fiber.Ctx) error {
	if _, err := requireAdmin(c); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied! Admin role required.", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	status := c.Query("status")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	offset := (page - 1) * limit
	db := database.Database.Db

	query := db.Model(&models.Transaction{}).Where("is_deleted = false")
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.
		Order("transaction_date DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}
