// Package storage defines persistence contracts for marketplace state.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates a requested record is missing.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists indicates a uniqueness-constrained record already exists.
	ErrAlreadyExists = errors.New("record already exists")
)

// Role classifies a user account.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleVendor   Role = "vendor"
	RoleCustomer Role = "customer"
)

// ValidRole reports whether value is a known role.
func ValidRole(value Role) bool {
	switch value {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

// User stores one account record. Accounts are created by the hosted auth
// provider; this table mirrors the identity plus marketplace role state.
type User struct {
	ID        string
	Name      string
	Email     string
	ImageURL  string
	Role      Role
	VendorID  string
	CreatedAt time.Time
}

// VendorStatus tracks vendor onboarding state.
type VendorStatus string

const (
	VendorPending  VendorStatus = "pending"
	VendorApproved VendorStatus = "approved"
	VendorRejected VendorStatus = "rejected"
)

// Vendor stores one storefront profile.
type Vendor struct {
	ID             string
	UserID         string
	StoreName      string
	Slug           string
	Description    string
	LogoURL        string
	Status         VendorStatus
	CommissionRate float64
	CreatedAt      time.Time
}

// Product stores one catalog record. Price fields are rand amounts.
type Product struct {
	ID          string
	VendorID    string
	Name        string
	Description string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	SKU         string
	Stock       int
	Images      []string
	Category    string
	Tags        []string
	IsActive    bool
	CreatedAt   time.Time
}

// ProductFilter narrows a product listing.
type ProductFilter struct {
	Category        string
	VendorID        string
	Search          string
	IncludeInactive bool
}

// ProductPage stores one page of product records.
type ProductPage struct {
	Products      []Product
	NextPageToken string
}

// OrderStatus tracks order lifecycle state.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderPaid       OrderStatus = "paid"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether value is a known order status.
func ValidOrderStatus(value OrderStatus) bool {
	switch value {
	case OrderPending, OrderPaid, OrderProcessing, OrderShipped, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Address stores a shipping destination.
type Address struct {
	Street     string
	City       string
	Province   string
	PostalCode string
	Country    string
}

// Order stores one checkout record. UserID is empty for guest checkout.
type Order struct {
	ID          string
	UserID      string
	GuestEmail  string
	TotalAmount decimal.Decimal
	Status      OrderStatus
	PaymentID   string
	ShippingTo  Address
	CreatedAt   time.Time
}

// OrderItem stores one purchased line. UnitPrice and VendorID are snapshots
// captured at order creation; later product or vendor changes never alter
// historical orders.
type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	VendorID  string
	Quantity  int
	UnitPrice decimal.Decimal
}

// BusinessType classifies a waitlist applicant.
type BusinessType string

const (
	BusinessSoleProprietor     BusinessType = "sole_proprietor"
	BusinessRegisteredBusiness BusinessType = "registered_business"
)

// WaitlistEntry stores one vendor waitlist application.
type WaitlistEntry struct {
	ID           string
	Name         string
	Email        string
	Location     string
	BusinessType BusinessType
	CreatedAt    time.Time
}

// UserStore persists account records.
type UserStore interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, id string) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)
	UpdateUserName(ctx context.Context, id, name string) error
	UpdateUserRole(ctx context.Context, id string, role Role, vendorID string) error
	DeleteUser(ctx context.Context, id string) error
}

// VendorStore persists vendor profiles.
type VendorStore interface {
	CreateVendor(ctx context.Context, vendor Vendor) error
	GetVendor(ctx context.Context, id string) (Vendor, error)
	GetVendorByUser(ctx context.Context, userID string) (Vendor, error)
	GetVendorBySlug(ctx context.Context, slug string) (Vendor, error)
	ListVendors(ctx context.Context, status VendorStatus) ([]Vendor, error)
	UpdateVendorStatus(ctx context.Context, id string, status VendorStatus) error
	DeleteVendor(ctx context.Context, id string) error
}

// ProductStore persists catalog records.
type ProductStore interface {
	CreateProduct(ctx context.Context, product Product) error
	GetProduct(ctx context.Context, id string) (Product, error)
	ListProducts(ctx context.Context, filter ProductFilter, pageSize int, pageToken string) (ProductPage, error)
	ListProductsByVendor(ctx context.Context, vendorID string) ([]Product, error)
	UpdateProduct(ctx context.Context, product Product) error
	SetProductActive(ctx context.Context, id string, active bool) error
	DeleteProduct(ctx context.Context, id string) error
}

// OrderStore persists orders and line items.
type OrderStore interface {
	CreateOrder(ctx context.Context, order Order, items []OrderItem) error
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]Order, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListOrderItems(ctx context.Context, orderID string) ([]OrderItem, error)
	ListAllOrderItems(ctx context.Context) ([]OrderItem, error)
	// ApplyPaymentOutcome moves an order out of pending in a single
	// conditional update. It reports whether the transition happened; false
	// with a nil error means the order had already left pending.
	ApplyPaymentOutcome(ctx context.Context, orderID string, status OrderStatus, paymentID string) (bool, error)
	// UpdateOrderStatus is the administrative override path. It is not
	// gated on the current status.
	UpdateOrderStatus(ctx context.Context, orderID string, status OrderStatus) error
}

// WaitlistStore persists vendor waitlist applications.
type WaitlistStore interface {
	AddWaitlistEntry(ctx context.Context, entry WaitlistEntry) error
	GetWaitlistEntry(ctx context.Context, id string) (WaitlistEntry, error)
	ListWaitlist(ctx context.Context) ([]WaitlistEntry, error)
	CountWaitlist(ctx context.Context) (int, error)
	DeleteWaitlistEntry(ctx context.Context, id string) error
}

// SettingStore persists site-wide key/value settings.
type SettingStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
	DeleteSetting(ctx context.Context, key string) error
}
