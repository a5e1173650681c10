package utils

import (
	"fmt"
	"time"

	"propfund/config"
	"propfund/models"

	"github.com/go-resty/resty/v2"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
)

// NotifyTransaction sends a receipt for a finalized transaction. It is
// invoked fire-and-forget: delivery failures are logged and never affect
// the ledger.
func NotifyTransaction(user models.User, txn models.Transaction) {
	if config.AppConfig == nil {
		return
	}

	if err := sendReceiptEmail(user, txn); err != nil {
		logrus.WithError(err).WithField("txnId", txn.ID).Warn("receipt email failed")
	}
	if err := postReceiptWebhook(user, txn); err != nil {
		logrus.WithError(err).WithField("txnId", txn.ID).Warn("receipt webhook failed")
	}
}

func receiptSubject(txn models.Transaction) string {
	verb := "Deposit"
	if txn.Type == models.TransactionTypeWithdrawal {
		verb = "Withdrawal"
	}
	if txn.Status == models.TransactionStatusRejected {
		return fmt.Sprintf("%s of %.2f was rejected", verb, txn.Amount)
	}
	return fmt.Sprintf("%s of %.2f completed", verb, txn.Amount)
}

func sendReceiptEmail(user models.User, txn models.Transaction) error {
	if config.AppConfig.SendGridAPIKey == "" || user.Email == "" {
		return nil
	}

	from := mail.NewEmail("PropFund", config.AppConfig.EmailSender)
	to := mail.NewEmail(user.Name, user.Email)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour %s request for %.2f (fee %.2f) is now %s.\nReference: %s\nDate: %s\n\nPropFund Team",
		user.Name, txn.Type, txn.Amount, txn.Fee, txn.Status,
		txn.Reference, txn.TransactionDate.Format(time.RFC1123),
	)
	message := mail.NewSingleEmail(from, receiptSubject(txn), to, body, "")

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned %d", resp.StatusCode)
	}
	return nil
}

func postReceiptWebhook(user models.User, txn models.Transaction) error {
	if config.AppConfig.ReceiptWebhook == "" {
		return nil
	}

	client := resty.New().SetTimeout(10 * time.Second)
	resp, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]interface{}{
			"userId":    user.ID,
			"txnId":     txn.ID,
			"type":      txn.Type,
			"amount":    txn.Amount,
			"fee":       txn.Fee,
			"netAmount": txn.NetAmount,
			"status":    txn.Status,
			"reference": txn.Reference,
			"date":      txn.TransactionDate,
		}).
		Post(config.AppConfig.ReceiptWebhook)
	if err != nil {
		return err
	}
	if resp.StatusCode() >= 400 {
		return fmt.Errorf("webhook returned %d", resp.StatusCode())
	}
	return nil
}
