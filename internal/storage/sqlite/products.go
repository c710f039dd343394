package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/platform/money"
	"github.com/warmnest/warmnest/internal/storage"
)

const productColumns = `id, vendor_id, name, description, price_cents, sale_price_cents,
       sku, stock, images, category, tags, is_active, created_at`

// CreateProduct inserts one catalog record.
func (s *Store) CreateProduct(ctx context.Context, product storage.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	productID := strings.TrimSpace(product.ID)
	name := strings.TrimSpace(product.Name)
	if productID == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(product.VendorID) == "" {
		return fmt.Errorf("vendor id is required")
	}
	if name == "" {
		return fmt.Errorf("product name is required")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative")
	}
	images, err := marshalStrings(product.Images)
	if err != nil {
		return err
	}
	tags, err := marshalStrings(product.Tags)
	if err != nil {
		return err
	}
	createdAt := product.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO products (`+productColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		productID,
		strings.TrimSpace(product.VendorID),
		name,
		strings.TrimSpace(product.Description),
		money.ToCents(product.Price),
		salePriceCents(product.SalePrice),
		strings.TrimSpace(product.SKU),
		product.Stock,
		images,
		strings.TrimSpace(product.Category),
		tags,
		boolToInt(product.IsActive),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// GetProduct returns one product by id.
func (s *Store) GetProduct(ctx context.Context, id string) (storage.Product, error) {
	if err := ctx.Err(); err != nil {
		return storage.Product{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Product{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.Product{}, fmt.Errorf("product id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`,
		id,
	)
	product, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Product{}, storage.ErrNotFound
		}
		return storage.Product{}, fmt.Errorf("get product: %w", err)
	}
	return product, nil
}

// ListProducts returns one page of products matching the filter.
func (s *Store) ListProducts(ctx context.Context, filter storage.ProductFilter, pageSize int, pageToken string) (storage.ProductPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProductPage{}, err
	}
	if err := s.ready(); err != nil {
		return storage.ProductPage{}, err
	}
	if pageSize <= 0 {
		return storage.ProductPage{}, fmt.Errorf("page size must be greater than zero")
	}
	pageToken = strings.TrimSpace(pageToken)

	where := []string{"1=1"}
	var args []any
	if !filter.IncludeInactive {
		where = append(where, "is_active = 1")
	}
	if category := strings.TrimSpace(filter.Category); category != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}
	if vendorID := strings.TrimSpace(filter.VendorID); vendorID != "" {
		where = append(where, "vendor_id = ?")
		args = append(args, vendorID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		where = append(where, "(name LIKE ? ESCAPE '\\' OR description LIKE ? ESCAPE '\\')")
		pattern := "%" + escapeLike(search) + "%"
		args = append(args, pattern, pattern)
	}
	if pageToken != "" {
		where = append(where, "id > ?")
		args = append(args, pageToken)
	}
	args = append(args, pageSize+1)

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+productColumns+` FROM products
		  WHERE `+strings.Join(where, " AND ")+`
		  ORDER BY id ASC
		  LIMIT ?`,
		args...,
	)
	if err != nil {
		return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	page := storage.ProductPage{
		Products: make([]storage.Product, 0, pageSize),
	}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
		}
		page.Products = append(page.Products, product)
	}
	if err := rows.Err(); err != nil {
		return storage.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	if len(page.Products) > pageSize {
		page.NextPageToken = page.Products[pageSize-1].ID
		page.Products = page.Products[:pageSize]
	}
	return page, nil
}

// ListProductsByVendor returns every product of one vendor, active or not.
func (s *Store) ListProductsByVendor(ctx context.Context, vendorID string) ([]storage.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}
	vendorID = strings.TrimSpace(vendorID)
	if vendorID == "" {
		return nil, fmt.Errorf("vendor id is required")
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+productColumns+` FROM products WHERE vendor_id = ? ORDER BY created_at DESC, id DESC`,
		vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("list vendor products: %w", err)
	}
	defer rows.Close()

	var products []storage.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("list vendor products: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vendor products: %w", err)
	}
	return products, nil
}

// UpdateProduct replaces the mutable fields of one product.
func (s *Store) UpdateProduct(ctx context.Context, product storage.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	productID := strings.TrimSpace(product.ID)
	if productID == "" {
		return fmt.Errorf("product id is required")
	}
	if strings.TrimSpace(product.Name) == "" {
		return fmt.Errorf("product name is required")
	}
	if product.Price.IsNegative() {
		return fmt.Errorf("product price must not be negative")
	}
	images, err := marshalStrings(product.Images)
	if err != nil {
		return err
	}
	tags, err := marshalStrings(product.Tags)
	if err != nil {
		return err
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE products
		    SET name = ?, description = ?, price_cents = ?, sale_price_cents = ?,
		        sku = ?, stock = ?, images = ?, category = ?, tags = ?
		  WHERE id = ?`,
		strings.TrimSpace(product.Name),
		strings.TrimSpace(product.Description),
		money.ToCents(product.Price),
		salePriceCents(product.SalePrice),
		strings.TrimSpace(product.SKU),
		product.Stock,
		images,
		strings.TrimSpace(product.Category),
		tags,
		productID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetProductActive toggles catalog visibility for one product.
func (s *Store) SetProductActive(ctx context.Context, id string, active bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("product id is required")
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE products SET is_active = ? WHERE id = ?`,
		boolToInt(active),
		id,
	)
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set product active: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteProduct removes one product.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("product id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanProduct(row rowScanner) (storage.Product, error) {
	var product storage.Product
	var priceCents int64
	var salePrice sql.NullInt64
	var images string
	var tags string
	var isActive int
	var createdAt int64
	err := row.Scan(
		&product.ID,
		&product.VendorID,
		&product.Name,
		&product.Description,
		&priceCents,
		&salePrice,
		&product.SKU,
		&product.Stock,
		&images,
		&product.Category,
		&tags,
		&isActive,
		&createdAt,
	)
	if err != nil {
		return storage.Product{}, err
	}
	product.Price = money.FromCents(priceCents)
	if salePrice.Valid {
		value := money.FromCents(salePrice.Int64)
		product.SalePrice = &value
	}
	if product.Images, err = unmarshalStrings(images); err != nil {
		return storage.Product{}, err
	}
	if product.Tags, err = unmarshalStrings(tags); err != nil {
		return storage.Product{}, err
	}
	product.IsActive = isActive != 0
	product.CreatedAt = fromMillis(createdAt)
	return product, nil
}

func salePriceCents(value *decimal.Decimal) any {
	if value == nil {
		return nil
	}
	return money.ToCents(*value)
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// escapeLike escapes LIKE wildcards in user-provided search input.
func escapeLike(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	value = strings.ReplaceAll(value, "%", `\%`)
	value = strings.ReplaceAll(value, "_", `\_`)
	return value
}
