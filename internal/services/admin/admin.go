// Package admin implements the administrative surface: marketplace stats,
// analytics, moderation of users/vendors/products/orders, waitlist grants,
// and site settings. Every operation except the public hero banner read is
// gated on the caller holding the admin role.
package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/warmnest/warmnest/internal/cache"
	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/platform/id"
	vendorsvc "github.com/warmnest/warmnest/internal/services/vendor"
	"github.com/warmnest/warmnest/internal/storage"
)

// GrantedCommissionRate applies to vendors created through waitlist grants.
const GrantedCommissionRate = 0.12

const heroBannerKey = "heroBanner"

// allPageSize fetches the whole catalog in one page for moderation views.
const allPageSize = 1000

// Service owns administrative workflows.
type Service struct {
	users    storage.UserStore
	vendors  storage.VendorStore
	products storage.ProductStore
	orders   storage.OrderStore
	waitlist storage.WaitlistStore
	settings storage.SettingStore
	cache    *cache.Catalog
}

// New wires an admin service. The cache may be nil.
func New(
	users storage.UserStore,
	vendors storage.VendorStore,
	products storage.ProductStore,
	orders storage.OrderStore,
	waitlist storage.WaitlistStore,
	settings storage.SettingStore,
	catalogCache *cache.Catalog,
) *Service {
	return &Service{
		users:    users,
		vendors:  vendors,
		products: products,
		orders:   orders,
		waitlist: waitlist,
		settings: settings,
		cache:    catalogCache,
	}
}

// requireAdmin verifies the caller holds the admin role.
func (s *Service) requireAdmin(ctx context.Context, adminID string) error {
	if strings.TrimSpace(adminID) == "" {
		return apperrors.New(apperrors.CodeUnauthorized, "authentication required")
	}
	user, err := s.users.GetUser(ctx, adminID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeUnauthorized, "authentication required")
		}
		return fmt.Errorf("load caller: %w", err)
	}
	if user.Role != storage.RoleAdmin {
		return apperrors.New(apperrors.CodeAdminRequired, "admin access required")
	}
	return nil
}

// ListUsers returns every account, newest first.
func (s *Service) ListUsers(ctx context.Context, adminID string) ([]storage.User, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

// VendorWithOwner is a vendor joined with its owning account.
type VendorWithOwner struct {
	storage.Vendor
	OwnerName  string
	OwnerEmail string
}

// ListVendors returns every vendor with owner info, newest first.
func (s *Service) ListVendors(ctx context.Context, adminID string) ([]VendorWithOwner, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	vendors, err := s.vendors.ListVendors(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	out := make([]VendorWithOwner, 0, len(vendors))
	for _, vendor := range vendors {
		joined := VendorWithOwner{Vendor: vendor, OwnerName: "Unknown"}
		if user, err := s.users.GetUser(ctx, vendor.UserID); err == nil {
			joined.OwnerName = user.Name
			joined.OwnerEmail = user.Email
		}
		out = append(out, joined)
	}
	return out, nil
}

// ProductWithVendor is a product joined with its vendor's storefront info.
type ProductWithVendor struct {
	storage.Product
	VendorName     string
	CommissionRate float64
}

// ListProducts returns every product, active or not, with vendor info.
func (s *Service) ListProducts(ctx context.Context, adminID string) ([]ProductWithVendor, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	page, err := s.products.ListProducts(ctx, storage.ProductFilter{IncludeInactive: true}, allPageSize, "")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	out := make([]ProductWithVendor, 0, len(page.Products))
	for _, product := range page.Products {
		joined := ProductWithVendor{Product: product, VendorName: "Unknown", CommissionRate: GrantedCommissionRate}
		if vendor, err := s.vendors.GetVendor(ctx, product.VendorID); err == nil {
			joined.VendorName = vendor.StoreName
			joined.CommissionRate = vendor.CommissionRate
		}
		out = append(out, joined)
	}
	return out, nil
}

// OrderWithCustomer is an order joined with buyer identity.
type OrderWithCustomer struct {
	storage.Order
	CustomerName  string
	CustomerEmail string
}

// ListOrders returns every order with customer info, newest first.
func (s *Service) ListOrders(ctx context.Context, adminID string) ([]OrderWithCustomer, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	out := make([]OrderWithCustomer, 0, len(orders))
	for _, order := range orders {
		joined := OrderWithCustomer{Order: order, CustomerName: "Guest", CustomerEmail: order.GuestEmail}
		if order.UserID != "" {
			if user, err := s.users.GetUser(ctx, order.UserID); err == nil {
				joined.CustomerName = user.Name
				joined.CustomerEmail = user.Email
			}
		}
		out = append(out, joined)
	}
	return out, nil
}

// ListWaitlist returns every waitlist application, newest first.
func (s *Service) ListWaitlist(ctx context.Context, adminID string) ([]storage.WaitlistEntry, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.waitlist.ListWaitlist(ctx)
}

// UpdateUserRole sets an account's role.
func (s *Service) UpdateUserRole(ctx context.Context, adminID, userID string, role storage.Role) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if !storage.ValidRole(role) {
		return apperrors.New(apperrors.CodeUserInvalidRole, "unknown role")
	}
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return fmt.Errorf("load user: %w", err)
	}
	if err := s.users.UpdateUserRole(ctx, userID, role, user.VendorID); err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	return nil
}

// DeleteUser removes an account and cascades over its vendor profile and
// that vendor's products.
func (s *Service) DeleteUser(ctx context.Context, adminID, userID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	vendor, err := s.vendors.GetVendorByUser(ctx, userID)
	if err == nil {
		if err := s.deleteVendorCascade(ctx, vendor.ID); err != nil {
			return err
		}
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("load vendor: %w", err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeUserNotFound, "user not found")
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

// ApproveVendor moves a vendor to approved and promotes its owner.
func (s *Service) ApproveVendor(ctx context.Context, adminID, vendorID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	vendor, err := s.vendors.GetVendor(ctx, vendorID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeVendorNotFound, "vendor not found")
		}
		return fmt.Errorf("load vendor: %w", err)
	}
	if err := s.vendors.UpdateVendorStatus(ctx, vendorID, storage.VendorApproved); err != nil {
		return fmt.Errorf("approve vendor: %w", err)
	}
	if err := s.users.UpdateUserRole(ctx, vendor.UserID, storage.RoleVendor, vendorID); err != nil {
		return fmt.Errorf("promote owner: %w", err)
	}
	return nil
}

// RejectVendor moves a vendor to rejected.
func (s *Service) RejectVendor(ctx context.Context, adminID, vendorID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.vendors.UpdateVendorStatus(ctx, vendorID, storage.VendorRejected); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeVendorNotFound, "vendor not found")
		}
		return fmt.Errorf("reject vendor: %w", err)
	}
	return nil
}

// DeleteVendor removes a vendor and its products.
func (s *Service) DeleteVendor(ctx context.Context, adminID, vendorID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	return s.deleteVendorCascade(ctx, vendorID)
}

func (s *Service) deleteVendorCascade(ctx context.Context, vendorID string) error {
	products, err := s.products.ListProductsByVendor(ctx, vendorID)
	if err != nil {
		return fmt.Errorf("list vendor products: %w", err)
	}
	for _, product := range products {
		if err := s.products.DeleteProduct(ctx, product.ID); err != nil && !errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("delete product %s: %w", product.ID, err)
		}
		s.cache.Invalidate(ctx, product.ID)
	}
	if err := s.vendors.DeleteVendor(ctx, vendorID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeVendorNotFound, "vendor not found")
		}
		return fmt.Errorf("delete vendor: %w", err)
	}
	return nil
}

// DeleteProduct removes any product.
func (s *Service) DeleteProduct(ctx context.Context, adminID, productID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeProductNotFound, "product not found")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

// ToggleProductActive flips a product's catalog visibility.
func (s *Service) ToggleProductActive(ctx context.Context, adminID, productID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeProductNotFound, "product not found")
		}
		return fmt.Errorf("load product: %w", err)
	}
	if err := s.products.SetProductActive(ctx, productID, !product.IsActive); err != nil {
		return fmt.Errorf("toggle product: %w", err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

// UpdateOrderStatus overrides an order's status. This is the manual
// fulfilment path (processing, shipped, completed); payment settlement goes
// through the reconciliation flow instead.
func (s *Service) UpdateOrderStatus(ctx context.Context, adminID, orderID string, status storage.OrderStatus) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if !storage.ValidOrderStatus(status) {
		return apperrors.New(apperrors.CodeInvalidArgument, "unknown order status")
	}
	if err := s.orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeOrderNotFound, "order not found")
		}
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// RemoveFromWaitlist drops one application.
func (s *Service) RemoveFromWaitlist(ctx context.Context, adminID, entryID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.waitlist.DeleteWaitlistEntry(ctx, entryID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.New(apperrors.CodeWaitlistEntryNotFound, "waitlist entry not found")
		}
		return fmt.Errorf("remove waitlist entry: %w", err)
	}
	return nil
}

// GrantWish converts a waitlist application into an approved vendor: the
// applicant must already hold an account under the waitlisted email and must
// not have a vendor profile yet. The new vendor is approved immediately, the
// owner promoted, and the application removed.
func (s *Service) GrantWish(ctx context.Context, adminID, entryID string) (storage.Vendor, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return storage.Vendor{}, err
	}
	entry, err := s.waitlist.GetWaitlistEntry(ctx, entryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Vendor{}, apperrors.New(apperrors.CodeWaitlistEntryNotFound, "waitlist entry not found")
		}
		return storage.Vendor{}, fmt.Errorf("load waitlist entry: %w", err)
	}

	user, err := s.users.GetUserByEmail(ctx, entry.Email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Vendor{}, apperrors.WithMetadata(
				apperrors.CodeWaitlistAccountMissing,
				"no registered account for waitlisted email",
				map[string]string{"email": entry.Email},
			)
		}
		return storage.Vendor{}, fmt.Errorf("find account: %w", err)
	}
	if _, err := s.vendors.GetVendorByUser(ctx, user.ID); err == nil {
		return storage.Vendor{}, apperrors.New(apperrors.CodeVendorProfileExists, "account already has a vendor profile")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return storage.Vendor{}, fmt.Errorf("check existing vendor: %w", err)
	}

	slug, err := s.uniqueSlug(ctx, entry.Name)
	if err != nil {
		return storage.Vendor{}, err
	}
	vendorID, err := id.NewID()
	if err != nil {
		return storage.Vendor{}, fmt.Errorf("generate vendor id: %w", err)
	}
	vendor := storage.Vendor{
		ID:             vendorID,
		UserID:         user.ID,
		StoreName:      entry.Name,
		Slug:           slug,
		Description:    "Vendor from " + entry.Location,
		Status:         storage.VendorApproved,
		CommissionRate: GrantedCommissionRate,
	}
	if err := s.vendors.CreateVendor(ctx, vendor); err != nil {
		return storage.Vendor{}, fmt.Errorf("create vendor: %w", err)
	}
	if err := s.users.UpdateUserRole(ctx, user.ID, storage.RoleVendor, vendorID); err != nil {
		return storage.Vendor{}, fmt.Errorf("promote owner: %w", err)
	}
	if err := s.waitlist.DeleteWaitlistEntry(ctx, entryID); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storage.Vendor{}, fmt.Errorf("remove waitlist entry: %w", err)
	}
	return vendor, nil
}

// uniqueSlug derives a slug from a store name, suffixing a counter until it
// is free.
func (s *Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := vendorsvc.Slugify(name)
	if base == "" {
		base = "store"
	}
	slug := base
	for attempt := 1; ; attempt++ {
		_, err := s.vendors.GetVendorBySlug(ctx, slug)
		if errors.Is(err, storage.ErrNotFound) {
			return slug, nil
		}
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		slug = fmt.Sprintf("%s-%d", base, attempt)
	}
}

// HeroBanner returns the public hero banner asset key; empty when unset.
func (s *Service) HeroBanner(ctx context.Context) (string, error) {
	value, err := s.settings.GetSetting(ctx, heroBannerKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get hero banner: %w", err)
	}
	return value, nil
}

// SetHeroBanner stores the hero banner asset key.
func (s *Service) SetHeroBanner(ctx context.Context, adminID, value string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if strings.TrimSpace(value) == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "banner value is required")
	}
	if err := s.settings.SetSetting(ctx, heroBannerKey, value); err != nil {
		return fmt.Errorf("set hero banner: %w", err)
	}
	return nil
}

// RemoveHeroBanner clears the hero banner.
func (s *Service) RemoveHeroBanner(ctx context.Context, adminID string) error {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return err
	}
	if err := s.settings.DeleteSetting(ctx, heroBannerKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("remove hero banner: %w", err)
	}
	return nil
}
