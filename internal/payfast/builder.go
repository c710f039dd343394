package payfast

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
)

// Well-known payload field names.
const (
	fieldMerchantID    = "merchant_id"
	fieldMerchantKey   = "merchant_key"
	fieldReturnURL     = "return_url"
	fieldCancelURL     = "cancel_url"
	fieldNotifyURL     = "notify_url"
	fieldPaymentID     = "m_payment_id"
	fieldAmount        = "amount"
	fieldAmountGross   = "amount_gross"
	fieldItemName      = "item_name"
	fieldEmailAddress  = "email_address"
	fieldPaymentStatus = "payment_status"
	fieldPFPaymentID   = "pf_payment_id"
	fieldSignature     = "signature"
)

const itemNameMaxLen = 100

// PaymentRequest describes one checkout handoff to the provider.
type PaymentRequest struct {
	OrderID  string
	Amount   decimal.Decimal
	ItemName string
	Email    string
}

// BuildPaymentData assembles the signed field map the storefront posts to
// the provider's process endpoint. The order id rides along as m_payment_id
// and is echoed back in the callback.
func BuildPaymentData(cfg Config, req PaymentRequest) (map[string]string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, apperrors.New(apperrors.CodePaymentMissingField, "order id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperrors.New(apperrors.CodeOrderInvalidTotal, "payment amount must be positive")
	}

	appURL := strings.TrimRight(cfg.AppBaseURL, "/")
	notifyBase := strings.TrimRight(cfg.NotifyBaseURL, "/")
	notifyURL := appURL + "/api/payfast-itn"
	if notifyBase != "" {
		notifyURL = notifyBase + "/payfast-itn"
	}

	itemName := strings.TrimSpace(req.ItemName)
	if len(itemName) > itemNameMaxLen {
		itemName = itemName[:itemNameMaxLen]
	}

	fields := map[string]string{
		fieldMerchantID:  cfg.MerchantID,
		fieldMerchantKey: cfg.MerchantKey,
		fieldReturnURL:   appURL + "/checkout/success?orderId=" + orderID,
		fieldCancelURL:   appURL + "/checkout/cancel?orderId=" + orderID,
		fieldNotifyURL:   notifyURL,
		fieldPaymentID:   orderID,
		fieldAmount:      req.Amount.StringFixed(2),
		fieldItemName:    itemName,
	}
	if email := strings.TrimSpace(req.Email); email != "" {
		fields[fieldEmailAddress] = email
	}

	fields[fieldSignature] = Sign(fields, cfg.Passphrase)
	return fields, nil
}
