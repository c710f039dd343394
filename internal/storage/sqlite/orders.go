package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warmnest/warmnest/internal/platform/money"
	"github.com/warmnest/warmnest/internal/storage"
)

const orderColumns = `id, user_id, guest_email, total_cents, status, payment_id,
       ship_street, ship_city, ship_province, ship_postal_code, ship_country,
       created_at`

// CreateOrder inserts one order and its line items in a single transaction.
func (s *Store) CreateOrder(ctx context.Context, order storage.Order, items []storage.OrderItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	orderID := strings.TrimSpace(order.ID)
	if orderID == "" {
		return fmt.Errorf("order id is required")
	}
	if !storage.ValidOrderStatus(order.Status) {
		return fmt.Errorf("order status %q is invalid", order.Status)
	}
	if order.TotalAmount.IsNegative() {
		return fmt.Errorf("order total must not be negative")
	}
	createdAt := order.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(
		ctx,
		`INSERT INTO orders (`+orderColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		orderID,
		strings.TrimSpace(order.UserID),
		strings.TrimSpace(order.GuestEmail),
		money.ToCents(order.TotalAmount),
		string(order.Status),
		strings.TrimSpace(order.PaymentID),
		strings.TrimSpace(order.ShippingTo.Street),
		strings.TrimSpace(order.ShippingTo.City),
		strings.TrimSpace(order.ShippingTo.Province),
		strings.TrimSpace(order.ShippingTo.PostalCode),
		strings.TrimSpace(order.ShippingTo.Country),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create order: %w", err)
	}

	for _, item := range items {
		if item.Quantity <= 0 {
			return fmt.Errorf("order item quantity must be positive")
		}
		_, err = tx.ExecContext(
			ctx,
			`INSERT INTO order_items (id, order_id, product_id, vendor_id, quantity, unit_price_cents)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			item.ID,
			orderID,
			item.ProductID,
			item.VendorID,
			item.Quantity,
			money.ToCents(item.UnitPrice),
		)
		if err != nil {
			return fmt.Errorf("create order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order: %w", err)
	}
	return nil
}

// GetOrder returns one order by id.
func (s *Store) GetOrder(ctx context.Context, id string) (storage.Order, error) {
	if err := ctx.Err(); err != nil {
		return storage.Order{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Order{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Order{}, fmt.Errorf("order id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = ?`,
		id,
	)
	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Order{}, storage.ErrNotFound
		}
		return storage.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// ListOrdersByUser returns a user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID string) ([]storage.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}
	return s.queryOrders(
		ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
}

// ListOrders returns every order, newest first.
func (s *Store) ListOrders(ctx context.Context) ([]storage.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.queryOrders(
		ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC, id DESC`,
	)
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]storage.Order, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []storage.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("list orders: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// ListOrderItems returns the line items of one order.
func (s *Store) ListOrderItems(ctx context.Context, orderID string) ([]storage.OrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	return s.queryOrderItems(
		ctx,
		`SELECT id, order_id, product_id, vendor_id, quantity, unit_price_cents
		   FROM order_items WHERE order_id = ? ORDER BY id ASC`,
		orderID,
	)
}

// ListAllOrderItems returns every line item. Used by admin analytics.
func (s *Store) ListAllOrderItems(ctx context.Context) ([]storage.OrderItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	return s.queryOrderItems(
		ctx,
		`SELECT id, order_id, product_id, vendor_id, quantity, unit_price_cents
		   FROM order_items ORDER BY id ASC`,
	)
}

func (s *Store) queryOrderItems(ctx context.Context, query string, args ...any) ([]storage.OrderItem, error) {
	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()

	var items []storage.OrderItem
	for rows.Next() {
		var item storage.OrderItem
		var unitPriceCents int64
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.VendorID,
			&item.Quantity,
			&unitPriceCents,
		); err != nil {
			return nil, fmt.Errorf("list order items: %w", err)
		}
		item.UnitPrice = money.FromCents(unitPriceCents)
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

// ApplyPaymentOutcome moves an order out of pending in one conditional
// update. Gating on the stored status makes concurrent duplicate callbacks
// safe: exactly one wins, the rest see zero affected rows.
func (s *Store) ApplyPaymentOutcome(ctx context.Context, orderID string, status storage.OrderStatus, paymentID string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if err := s.ready(); err != nil {
		return false, err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return false, fmt.Errorf("order id is required")
	}
	if status != storage.OrderPaid && status != storage.OrderCancelled {
		return false, fmt.Errorf("payment outcome status %q is invalid", status)
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE orders SET status = ?, payment_id = ? WHERE id = ? AND status = ?`,
		string(status),
		strings.TrimSpace(paymentID),
		orderID,
		string(storage.OrderPending),
	)
	if err != nil {
		return false, fmt.Errorf("apply payment outcome: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("apply payment outcome: %w", err)
	}
	return affected == 1, nil
}

// UpdateOrderStatus sets an order status unconditionally. Admin override path.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID string, status storage.OrderStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return fmt.Errorf("order id is required")
	}
	if !storage.ValidOrderStatus(status) {
		return fmt.Errorf("order status %q is invalid", status)
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE orders SET status = ? WHERE id = ?`,
		string(status),
		orderID,
	)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (storage.Order, error) {
	var order storage.Order
	var totalCents int64
	var status string
	var createdAt int64
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.GuestEmail,
		&totalCents,
		&status,
		&order.PaymentID,
		&order.ShippingTo.Street,
		&order.ShippingTo.City,
		&order.ShippingTo.Province,
		&order.ShippingTo.PostalCode,
		&order.ShippingTo.Country,
		&createdAt,
	)
	if err != nil {
		return storage.Order{}, err
	}
	order.TotalAmount = money.FromCents(totalCents)
	order.Status = storage.OrderStatus(status)
	order.CreatedAt = fromMillis(createdAt)
	return order, nil
}
