// Package payfast implements the PayFast payment integration: signed
// checkout payload construction and ITN webhook reconciliation. ITN is the
// provider's Instant Transaction Notification, its asynchronous
// server-to-server payment callback.
package payfast

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/storage"
)

// Provider payment_status values that resolve an order.
const (
	StatusComplete  = "COMPLETE"
	StatusCancelled = "CANCELLED"
)

// Notification is one parsed ITN callback. Fields holds every received
// key/value pair, including the ones lifted into named fields; the signature
// is computed over all of them.
type Notification struct {
	MerchantID    string
	OrderID       string
	AmountGross   decimal.Decimal
	PaymentStatus string
	PFPaymentID   string
	Signature     string
	Fields        map[string]string
}

// ParseNotification decodes a form-encoded callback body into a typed
// notification, requiring the fields verification depends on.
func ParseNotification(rawBody string) (Notification, error) {
	values, err := url.ParseQuery(rawBody)
	if err != nil {
		return Notification{}, apperrors.Wrap(apperrors.CodePaymentMissingField, "malformed callback body", err)
	}

	fields := make(map[string]string, len(values))
	for key := range values {
		fields[key] = values.Get(key)
	}

	for _, required := range []string{fieldSignature, fieldPaymentID, fieldAmountGross, fieldPaymentStatus, fieldMerchantID} {
		if strings.TrimSpace(fields[required]) == "" {
			return Notification{}, apperrors.WithMetadata(
				apperrors.CodePaymentMissingField,
				"callback is missing required field "+required,
				map[string]string{"field": required},
			)
		}
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(fields[fieldAmountGross]))
	if err != nil {
		return Notification{}, apperrors.Wrap(apperrors.CodePaymentMissingField, "callback gross amount is not a number", err)
	}

	return Notification{
		MerchantID:    fields[fieldMerchantID],
		OrderID:       fields[fieldPaymentID],
		AmountGross:   amount,
		PaymentStatus: fields[fieldPaymentStatus],
		PFPaymentID:   fields[fieldPFPaymentID],
		Signature:     fields[fieldSignature],
		Fields:        fields,
	}, nil
}

// OrderReconciliationStore is the slice of order storage the reconciler
// needs: a read for verification and the single conditional update.
type OrderReconciliationStore interface {
	GetOrder(ctx context.Context, id string) (storage.Order, error)
	ApplyPaymentOutcome(ctx context.Context, orderID string, status storage.OrderStatus, paymentID string) (bool, error)
}

// Notifier receives order transitions the reconciler applied. Failures are
// logged, never surfaced to the provider.
type Notifier interface {
	OrderStatusChanged(ctx context.Context, orderID string, status storage.OrderStatus, paymentID string) error
}

// Result is the outcome of processing one callback. A rejected callback has
// OK false and a Reason suitable for the 400 response body; Transitioned
// reports whether this particular callback moved the order.
type Result struct {
	OK           bool
	Reason       string
	Transitioned bool
	Status       storage.OrderStatus
}

func reject(reason string) Result {
	return Result{Reason: reason}
}

// Reconciler verifies ITN callbacks and applies payment outcomes to orders.
type Reconciler struct {
	cfg       Config
	orders    OrderReconciliationStore
	validator Validator
	notifier  Notifier
	logger    *log.Logger
}

// NewReconciler wires a reconciler. The notifier may be nil.
func NewReconciler(cfg Config, orders OrderReconciliationStore, validator Validator, notifier Notifier, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	return &Reconciler{
		cfg:       cfg,
		orders:    orders,
		validator: validator,
		notifier:  notifier,
		logger:    logger,
	}
}

// amountTolerance absorbs rounding differences between the provider's gross
// amount and the stored order total.
var amountTolerance = decimal.NewFromFloat(0.01)

// Process runs the verification pipeline over one callback and, when every
// check passes, applies the payment outcome. Verification failures come back
// as rejected results with a nil error; an error means infrastructure
// trouble and the provider should retry.
//
// The pipeline order matters: the signature gate runs before any storage
// read, and the provider confirmation runs before any mutation. rawBody must
// be the exact bytes received on the webhook, since the provider validates
// them verbatim.
func (r *Reconciler) Process(ctx context.Context, rawBody string, n Notification) (Result, error) {
	if !VerifySignature(n.Fields, r.cfg.Passphrase) {
		r.logger.Printf("itn rejected: signature mismatch order=%s", n.OrderID)
		return reject("Signature mismatch"), nil
	}

	order, err := r.orders.GetOrder(ctx, n.OrderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Printf("itn rejected: order not found order=%s", n.OrderID)
			return reject("Order not found"), nil
		}
		return Result{}, fmt.Errorf("load order %s: %w", n.OrderID, err)
	}

	if n.AmountGross.Sub(order.TotalAmount).Abs().GreaterThan(amountTolerance) {
		r.logger.Printf("itn rejected: amount mismatch order=%s got=%s want=%s",
			n.OrderID, n.AmountGross, order.TotalAmount)
		return reject("Amount mismatch"), nil
	}

	if n.MerchantID != r.cfg.MerchantID {
		r.logger.Printf("itn rejected: merchant id mismatch order=%s", n.OrderID)
		return reject("Merchant ID mismatch"), nil
	}

	valid, err := r.validator.Validate(ctx, rawBody)
	if err != nil {
		return Result{}, fmt.Errorf("confirm callback with provider: %w", err)
	}
	if !valid {
		r.logger.Printf("itn rejected: provider validation failed order=%s", n.OrderID)
		return reject("Validation failed"), nil
	}

	var next storage.OrderStatus
	switch n.PaymentStatus {
	case StatusComplete:
		next = storage.OrderPaid
	case StatusCancelled:
		next = storage.OrderCancelled
	default:
		// Interim statuses like PENDING are acknowledged without touching
		// the order; the provider sends a final status later.
		r.logger.Printf("itn ignored: payment status %q order=%s", n.PaymentStatus, n.OrderID)
		return Result{OK: true}, nil
	}

	applied, err := r.orders.ApplyPaymentOutcome(ctx, n.OrderID, next, n.PFPaymentID)
	if err != nil {
		return Result{}, fmt.Errorf("apply payment outcome for order %s: %w", n.OrderID, err)
	}
	if !applied {
		r.logger.Printf("itn duplicate: order %s already settled, skipping", n.OrderID)
		return Result{OK: true, Status: next}, nil
	}

	r.logger.Printf("itn applied: order=%s status=%s payment=%s", n.OrderID, next, n.PFPaymentID)
	if r.notifier != nil {
		if err := r.notifier.OrderStatusChanged(ctx, n.OrderID, next, n.PFPaymentID); err != nil {
			r.logger.Printf("itn notify failed: order=%s err=%v", n.OrderID, err)
		}
	}
	return Result{OK: true, Transitioned: true, Status: next}, nil
}
