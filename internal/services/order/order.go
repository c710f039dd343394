// Package order implements checkout order creation and retrieval. Payment
// settlement is not handled here; orders start pending and leave that state
// through the payment reconciliation flow.
package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/platform/id"
	"github.com/warmnest/warmnest/internal/storage"
)

// Service owns the order workflows.
type Service struct {
	orders   storage.OrderStore
	products storage.ProductStore
	logger   *log.Logger
}

// New wires an order service.
func New(orders storage.OrderStore, products storage.ProductStore, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{orders: orders, products: products, logger: logger}
}

// ItemInput is one requested order line.
type ItemInput struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CreateInput describes one checkout. UserID is empty for guest checkout;
// GuestEmail identifies the buyer in that case. The total is the amount the
// storefront quoted and is what the payment callback is verified against.
type CreateInput struct {
	UserID     string
	GuestEmail string
	Total      decimal.Decimal
	ShippingTo storage.Address
	Items      []ItemInput
}

// Create records a new pending order. Line items referencing unknown
// products are skipped rather than failing the checkout; the vendor id of
// each surviving line is snapshotted from the product at creation time.
func (s *Service) Create(ctx context.Context, input CreateInput) (storage.Order, error) {
	if err := validateAddress(input.ShippingTo); err != nil {
		return storage.Order{}, err
	}
	if !input.Total.IsPositive() {
		return storage.Order{}, apperrors.New(apperrors.CodeOrderInvalidTotal, "order total must be positive")
	}

	orderID, err := id.NewID()
	if err != nil {
		return storage.Order{}, fmt.Errorf("generate order id: %w", err)
	}

	var items []storage.OrderItem
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return storage.Order{}, apperrors.New(apperrors.CodeInvalidArgument, "order item quantity must be positive")
		}
		product, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				s.logger.Printf("order %s: skipping unknown product %s", orderID, item.ProductID)
				continue
			}
			return storage.Order{}, fmt.Errorf("load product %s: %w", item.ProductID, err)
		}
		itemID, err := id.NewID()
		if err != nil {
			return storage.Order{}, fmt.Errorf("generate item id: %w", err)
		}
		items = append(items, storage.OrderItem{
			ID:        itemID,
			OrderID:   orderID,
			ProductID: product.ID,
			VendorID:  product.VendorID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}

	order := storage.Order{
		ID:          orderID,
		UserID:      strings.TrimSpace(input.UserID),
		GuestEmail:  strings.TrimSpace(input.GuestEmail),
		TotalAmount: input.Total,
		Status:      storage.OrderPending,
		ShippingTo:  input.ShippingTo,
	}
	if err := s.orders.CreateOrder(ctx, order, items); err != nil {
		return storage.Order{}, fmt.Errorf("create order: %w", err)
	}
	return order, nil
}

// Get returns one order with its line items.
func (s *Service) Get(ctx context.Context, orderID string) (storage.Order, []storage.OrderItem, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Order{}, nil, apperrors.New(apperrors.CodeOrderNotFound, "order not found")
		}
		return storage.Order{}, nil, fmt.Errorf("get order: %w", err)
	}
	items, err := s.orders.ListOrderItems(ctx, orderID)
	if err != nil {
		return storage.Order{}, nil, fmt.Errorf("list order items: %w", err)
	}
	return order, items, nil
}

// ListForUser returns a user's orders, newest first.
func (s *Service) ListForUser(ctx context.Context, userID string) ([]storage.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func validateAddress(address storage.Address) error {
	var missing []string
	if strings.TrimSpace(address.Street) == "" {
		missing = append(missing, "street")
	}
	if strings.TrimSpace(address.City) == "" {
		missing = append(missing, "city")
	}
	if strings.TrimSpace(address.Province) == "" {
		missing = append(missing, "province")
	}
	if strings.TrimSpace(address.PostalCode) == "" {
		missing = append(missing, "postal code")
	}
	if strings.TrimSpace(address.Country) == "" {
		missing = append(missing, "country")
	}
	if len(missing) > 0 {
		return apperrors.WithMetadata(
			apperrors.CodeOrderEmptyAddress,
			"shipping address is incomplete",
			map[string]string{"missing": strings.Join(missing, ",")},
		)
	}
	return nil
}
