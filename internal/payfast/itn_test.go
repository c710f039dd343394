package payfast

import (
	"context"
	"log"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/storage"
)

type fakeOrders struct {
	mu     sync.Mutex
	orders map[string]storage.Order
}

func newFakeOrders(orders ...storage.Order) *fakeOrders {
	f := &fakeOrders{orders: make(map[string]storage.Order)}
	for _, order := range orders {
		f.orders[order.ID] = order
	}
	return f
}

func (f *fakeOrders) GetOrder(_ context.Context, id string) (storage.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return storage.Order{}, storage.ErrNotFound
	}
	return order, nil
}

func (f *fakeOrders) ApplyPaymentOutcome(_ context.Context, orderID string, status storage.OrderStatus, paymentID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[orderID]
	if !ok || order.Status != storage.OrderPending {
		return false, nil
	}
	order.Status = status
	order.PaymentID = paymentID
	f.orders[orderID] = order
	return true, nil
}

func (f *fakeOrders) status(id string) storage.OrderStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id].Status
}

type fakeValidator struct {
	valid    bool
	lastBody string
}

func (f *fakeValidator) Validate(_ context.Context, rawBody string) (bool, error) {
	f.lastBody = rawBody
	return f.valid, nil
}

type recordingNotifier struct {
	orderID   string
	status    storage.OrderStatus
	paymentID string
	calls     int
}

func (n *recordingNotifier) OrderStatusChanged(_ context.Context, orderID string, status storage.OrderStatus, paymentID string) error {
	n.orderID = orderID
	n.status = status
	n.paymentID = paymentID
	n.calls++
	return nil
}

// signedBody builds a form-encoded callback with a valid signature, then
// lets the caller tamper with individual fields after signing.
func signedBody(t *testing.T, cfg Config, fields map[string]string, tamper map[string]string) string {
	t.Helper()
	signed := make(map[string]string, len(fields)+1)
	for key, value := range fields {
		signed[key] = value
	}
	signed["signature"] = Sign(fields, cfg.Passphrase)
	for key, value := range tamper {
		signed[key] = value
	}
	values := url.Values{}
	for key, value := range signed {
		values.Set(key, value)
	}
	return values.Encode()
}

func completeCallback(orderID, amount string) map[string]string {
	return map[string]string{
		"merchant_id":    "10000100",
		"m_payment_id":   orderID,
		"amount_gross":   amount,
		"payment_status": StatusComplete,
		"pf_payment_id":  "PF123",
	}
}

func pendingOrder(id string, total float64) storage.Order {
	return storage.Order{
		ID:          id,
		TotalAmount: decimal.NewFromFloat(total),
		Status:      storage.OrderPending,
	}
}

func quietLogger() *log.Logger {
	return log.New(&strings.Builder{}, "", 0)
}

func process(t *testing.T, r *Reconciler, body string) Result {
	t.Helper()
	notification, err := ParseNotification(body)
	if err != nil {
		t.Fatalf("parse notification: %v", err)
	}
	result, err := r.Process(context.Background(), body, notification)
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	return result
}

func TestParseNotificationRequiresFields(t *testing.T) {
	t.Parallel()

	body := "m_payment_id=order-1&amount_gross=250.00&payment_status=COMPLETE&merchant_id=10000100"
	if _, err := ParseNotification(body); err == nil {
		t.Fatal("expected error for missing signature")
	}

	body = "signature=abc&amount_gross=250.00&payment_status=COMPLETE&merchant_id=10000100"
	if _, err := ParseNotification(body); err == nil {
		t.Fatal("expected error for missing order id")
	}

	body = "signature=abc&m_payment_id=order-1&amount_gross=abc&payment_status=COMPLETE&merchant_id=10000100"
	if _, err := ParseNotification(body); err == nil {
		t.Fatal("expected error for non-numeric amount")
	}
}

func TestProcessCompletePayment(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	orders := newFakeOrders(pendingOrder("order-1", 250))
	validator := &fakeValidator{valid: true}
	notifier := &recordingNotifier{}
	r := NewReconciler(cfg, orders, validator, notifier, quietLogger())

	body := signedBody(t, cfg, completeCallback("order-1", "250.00"), nil)
	result := process(t, r, body)

	if !result.OK || !result.Transitioned {
		t.Fatalf("result = %+v", result)
	}
	if result.Status != storage.OrderPaid {
		t.Fatalf("status = %q, want paid", result.Status)
	}
	if orders.status("order-1") != storage.OrderPaid {
		t.Fatalf("stored status = %q, want paid", orders.status("order-1"))
	}
	if orders.orders["order-1"].PaymentID != "PF123" {
		t.Fatalf("payment id = %q, want PF123", orders.orders["order-1"].PaymentID)
	}
	if validator.lastBody != body {
		t.Fatal("validator did not receive the raw body verbatim")
	}
	if notifier.calls != 1 || notifier.status != storage.OrderPaid || notifier.paymentID != "PF123" {
		t.Fatalf("notifier = %+v", notifier)
	}
}

func TestProcessCancelledPayment(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	orders := newFakeOrders(pendingOrder("order-1", 250))
	r := NewReconciler(cfg, orders, &fakeValidator{valid: true}, nil, quietLogger())

	fields := completeCallback("order-1", "250.00")
	fields["payment_status"] = StatusCancelled
	result := process(t, r, signedBody(t, cfg, fields, nil))

	if !result.OK || !result.Transitioned {
		t.Fatalf("result = %+v", result)
	}
	if orders.status("order-1") != storage.OrderCancelled {
		t.Fatalf("stored status = %q, want cancelled", orders.status("order-1"))
	}
}

func TestProcessDuplicateCallbackIsIdempotent(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	orders := newFakeOrders(pendingOrder("order-1", 250))
	notifier := &recordingNotifier{}
	r := NewReconciler(cfg, orders, &fakeValidator{valid: true}, notifier, quietLogger())

	body := signedBody(t, cfg, completeCallback("order-1", "250.00"), nil)
	first := process(t, r, body)
	second := process(t, r, body)

	if !first.Transitioned {
		t.Fatal("first callback should transition")
	}
	if !second.OK || second.Transitioned {
		t.Fatalf("second result = %+v, want OK without transition", second)
	}
	if orders.status("order-1") != storage.OrderPaid {
		t.Fatalf("stored status = %q", orders.status("order-1"))
	}
	if notifier.calls != 1 {
		t.Fatalf("notifier calls = %d, want 1", notifier.calls)
	}
}

func TestProcessIgnoresInterimStatus(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	orders := newFakeOrders(pendingOrder("order-1", 250))
	r := NewReconciler(cfg, orders, &fakeValidator{valid: true}, nil, quietLogger())

	fields := completeCallback("order-1", "250.00")
	fields["payment_status"] = "PENDING"
	result := process(t, r, signedBody(t, cfg, fields, nil))

	if !result.OK || result.Transitioned {
		t.Fatalf("result = %+v", result)
	}
	if orders.status("order-1") != storage.OrderPending {
		t.Fatalf("stored status = %q, want pending", orders.status("order-1"))
	}
}

func TestProcessAmountTolerance(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	// A one-cent difference is within rounding tolerance.
	orders := newFakeOrders(pendingOrder("order-1", 250))
	r := NewReconciler(cfg, orders, &fakeValidator{valid: true}, nil, quietLogger())
	result := process(t, r, signedBody(t, cfg, completeCallback("order-1", "250.01"), nil))
	if !result.OK {
		t.Fatalf("one cent off rejected: %+v", result)
	}

	// Two cents is outside it.
	orders = newFakeOrders(pendingOrder("order-2", 250))
	r = NewReconciler(cfg, orders, &fakeValidator{valid: true}, nil, quietLogger())
	result = process(t, r, signedBody(t, cfg, completeCallback("order-2", "250.02"), nil))
	if result.OK || result.Reason != "Amount mismatch" {
		t.Fatalf("two cents off = %+v, want amount mismatch", result)
	}
	if orders.status("order-2") != storage.OrderPending {
		t.Fatal("rejected callback mutated the order")
	}
}

func TestProcessRejectionsDoNotMutate(t *testing.T) {
	t.Parallel()

	cfg := testConfig()

	tests := []struct {
		name   string
		fields map[string]string
		tamper map[string]string
		valid  bool
		reason string
	}{
		{
			name:   "bad signature",
			fields: completeCallback("order-1", "250.00"),
			tamper: map[string]string{"amount_gross": "999.00"},
			valid:  true,
			reason: "Signature mismatch",
		},
		{
			name:   "unknown order",
			fields: completeCallback("order-missing", "250.00"),
			valid:  true,
			reason: "Order not found",
		},
		{
			name:   "amount mismatch",
			fields: completeCallback("order-1", "999.00"),
			valid:  true,
			reason: "Amount mismatch",
		},
		{
			name: "merchant mismatch",
			fields: func() map[string]string {
				fields := completeCallback("order-1", "250.00")
				fields["merchant_id"] = "20000200"
				return fields
			}(),
			valid:  true,
			reason: "Merchant ID mismatch",
		},
		{
			name:   "provider validation failed",
			fields: completeCallback("order-1", "250.00"),
			valid:  false,
			reason: "Validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			orders := newFakeOrders(pendingOrder("order-1", 250))
			notifier := &recordingNotifier{}
			r := NewReconciler(cfg, orders, &fakeValidator{valid: tt.valid}, notifier, quietLogger())

			result := process(t, r, signedBody(t, cfg, tt.fields, tt.tamper))
			if result.OK {
				t.Fatalf("callback accepted, want rejection %q", tt.reason)
			}
			if result.Reason != tt.reason {
				t.Fatalf("reason = %q, want %q", result.Reason, tt.reason)
			}
			if orders.status("order-1") != storage.OrderPending {
				t.Fatalf("order status = %q, want pending", orders.status("order-1"))
			}
			if notifier.calls != 0 {
				t.Fatalf("notifier called %d times on rejection", notifier.calls)
			}
		})
	}
}

func TestProcessConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	orders := newFakeOrders(pendingOrder("order-1", 250))
	r := NewReconciler(cfg, orders, &fakeValidator{valid: true}, nil, quietLogger())
	body := signedBody(t, cfg, completeCallback("order-1", "250.00"), nil)
	notification, err := ParseNotification(body)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	const callers = 8
	results := make([]Result, callers)
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func(i int) {
			defer wg.Done()
			result, err := r.Process(context.Background(), body, notification)
			if err != nil {
				t.Errorf("caller %d: %v", i, err)
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	var transitions int
	for _, result := range results {
		if !result.OK {
			t.Fatalf("rejected result %+v", result)
		}
		if result.Transitioned {
			transitions++
		}
	}
	if transitions != 1 {
		t.Fatalf("transitions = %d, want exactly 1", transitions)
	}
	if orders.status("order-1") != storage.OrderPaid {
		t.Fatalf("stored status = %q", orders.status("order-1"))
	}
}
