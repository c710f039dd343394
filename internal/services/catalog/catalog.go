// Package catalog implements the product catalog: public browsing and
// vendor-scoped product management.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/cache"
	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/platform/id"
	"github.com/warmnest/warmnest/internal/storage"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Service owns catalog workflows.
type Service struct {
	products storage.ProductStore
	vendors  storage.VendorStore
	users    storage.UserStore
	cache    *cache.Catalog
}

// New wires a catalog service. The cache may be nil.
func New(products storage.ProductStore, vendors storage.VendorStore, users storage.UserStore, catalogCache *cache.Catalog) *Service {
	return &Service{products: products, vendors: vendors, users: users, cache: catalogCache}
}

// ListInput narrows a public catalog listing.
type ListInput struct {
	Category  string
	VendorID  string
	Search    string
	PageSize  int
	PageToken string
}

// List returns one page of active products.
func (s *Service) List(ctx context.Context, input ListInput) (storage.ProductPage, error) {
	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	filter := storage.ProductFilter{
		Category: strings.TrimSpace(input.Category),
		VendorID: strings.TrimSpace(input.VendorID),
		Search:   strings.TrimSpace(input.Search),
	}

	if page, ok := s.cache.GetPage(ctx, filter, pageSize, input.PageToken); ok {
		return page, nil
	}
	page, err := s.products.ListProducts(ctx, filter, pageSize, input.PageToken)
	if err != nil {
		return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	s.cache.SetPage(ctx, filter, pageSize, input.PageToken, page)
	return page, nil
}

// Get returns one product.
func (s *Service) Get(ctx context.Context, productID string) (storage.Product, error) {
	if product, ok := s.cache.GetProduct(ctx, productID); ok {
		return product, nil
	}
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Product{}, apperrors.New(apperrors.CodeProductNotFound, "product not found")
		}
		return storage.Product{}, fmt.Errorf("get product: %w", err)
	}
	s.cache.SetProduct(ctx, product)
	return product, nil
}

// ProductInput carries the vendor-editable fields of a product.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SalePrice   *decimal.Decimal
	SKU         string
	Stock       int
	Images      []string
	Category    string
	Tags        []string
}

// CreateProduct adds a product to the caller's storefront. The caller must
// own an approved vendor profile; an admin without one may still create
// products, which land on the first approved vendor.
func (s *Service) CreateProduct(ctx context.Context, userID string, input ProductInput) (storage.Product, error) {
	if strings.TrimSpace(input.Name) == "" {
		return storage.Product{}, apperrors.New(apperrors.CodeInvalidArgument, "product name is required")
	}
	if !input.Price.IsPositive() {
		return storage.Product{}, apperrors.New(apperrors.CodeInvalidArgument, "product price must be positive")
	}

	vendor, err := s.sellingVendor(ctx, userID)
	if err != nil {
		return storage.Product{}, err
	}

	productID, err := id.NewID()
	if err != nil {
		return storage.Product{}, fmt.Errorf("generate product id: %w", err)
	}
	product := storage.Product{
		ID:          productID,
		VendorID:    vendor.ID,
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		Price:       input.Price,
		SalePrice:   input.SalePrice,
		SKU:         strings.TrimSpace(input.SKU),
		Stock:       input.Stock,
		Images:      input.Images,
		Category:    strings.TrimSpace(input.Category),
		Tags:        input.Tags,
		IsActive:    true,
	}
	if err := s.products.CreateProduct(ctx, product); err != nil {
		return storage.Product{}, fmt.Errorf("create product: %w", err)
	}
	s.cache.Invalidate(ctx, "")
	return product, nil
}

// sellingVendor resolves the vendor a product operation acts on behalf of.
func (s *Service) sellingVendor(ctx context.Context, userID string) (storage.Vendor, error) {
	vendor, err := s.vendors.GetVendorByUser(ctx, userID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return storage.Vendor{}, fmt.Errorf("load vendor: %w", err)
	}
	if err == nil && vendor.Status == storage.VendorApproved {
		return vendor, nil
	}

	// Admins without an approved storefront of their own may stock the
	// first approved vendor.
	user, userErr := s.users.GetUser(ctx, userID)
	if userErr == nil && user.Role == storage.RoleAdmin {
		approved, listErr := s.vendors.ListVendors(ctx, storage.VendorApproved)
		if listErr != nil {
			return storage.Vendor{}, fmt.Errorf("list approved vendors: %w", listErr)
		}
		if len(approved) > 0 {
			return approved[len(approved)-1], nil
		}
	}
	return storage.Vendor{}, apperrors.New(apperrors.CodeVendorNotApproved, "vendor not approved")
}

// ListMine returns every product of the caller's vendor profile.
func (s *Service) ListMine(ctx context.Context, userID string) ([]storage.Product, error) {
	vendor, err := s.vendors.GetVendorByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load vendor: %w", err)
	}
	products, err := s.products.ListProductsByVendor(ctx, vendor.ID)
	if err != nil {
		return nil, fmt.Errorf("list vendor products: %w", err)
	}
	return products, nil
}

// UpdateProduct replaces the editable fields of a product the caller owns.
func (s *Service) UpdateProduct(ctx context.Context, userID, productID string, input ProductInput) error {
	product, err := s.ownedProduct(ctx, userID, productID)
	if err != nil {
		return err
	}
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.Price = input.Price
	product.SalePrice = input.SalePrice
	product.SKU = strings.TrimSpace(input.SKU)
	product.Stock = input.Stock
	product.Images = input.Images
	product.Category = strings.TrimSpace(input.Category)
	product.Tags = input.Tags
	if err := s.products.UpdateProduct(ctx, product); err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

// DeleteProduct removes a product the caller owns.
func (s *Service) DeleteProduct(ctx context.Context, userID, productID string) error {
	if _, err := s.ownedProduct(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.products.DeleteProduct(ctx, productID); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	s.cache.Invalidate(ctx, productID)
	return nil
}

func (s *Service) ownedProduct(ctx context.Context, userID, productID string) (storage.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return storage.Product{}, apperrors.New(apperrors.CodeProductNotFound, "product not found")
		}
		return storage.Product{}, fmt.Errorf("get product: %w", err)
	}
	vendor, err := s.vendors.GetVendorByUser(ctx, userID)
	if err != nil || vendor.ID != product.VendorID {
		return storage.Product{}, apperrors.New(apperrors.CodeProductNotOwned, "not your product")
	}
	return product, nil
}
