package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/warmnest/warmnest/internal/storage"
)

const vendorColumns = `id, user_id, store_name, slug, description, logo_url,
       status, commission_rate, created_at`

func validVendorStatus(status storage.VendorStatus) bool {
	switch status {
	case storage.VendorPending, storage.VendorApproved, storage.VendorRejected:
		return true
	}
	return false
}

// CreateVendor inserts one vendor profile.
func (s *Store) CreateVendor(ctx context.Context, vendor storage.Vendor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	vendorID := strings.TrimSpace(vendor.ID)
	storeName := strings.TrimSpace(vendor.StoreName)
	slug := strings.TrimSpace(vendor.Slug)
	if vendorID == "" {
		return fmt.Errorf("vendor id is required")
	}
	if strings.TrimSpace(vendor.UserID) == "" {
		return fmt.Errorf("user id is required")
	}
	if storeName == "" {
		return fmt.Errorf("store name is required")
	}
	if slug == "" {
		return fmt.Errorf("slug is required")
	}
	if !validVendorStatus(vendor.Status) {
		return fmt.Errorf("vendor status %q is invalid", vendor.Status)
	}
	createdAt := vendor.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO vendors (`+vendorColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		vendorID,
		strings.TrimSpace(vendor.UserID),
		storeName,
		slug,
		strings.TrimSpace(vendor.Description),
		strings.TrimSpace(vendor.LogoURL),
		string(vendor.Status),
		vendor.CommissionRate,
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("create vendor: %w", err)
	}
	return nil
}

// GetVendor returns one vendor by id.
func (s *Store) GetVendor(ctx context.Context, id string) (storage.Vendor, error) {
	return s.getVendorWhere(ctx, "id = ?", strings.TrimSpace(id))
}

// GetVendorByUser returns the vendor profile owned by a user.
func (s *Store) GetVendorByUser(ctx context.Context, userID string) (storage.Vendor, error) {
	return s.getVendorWhere(ctx, "user_id = ?", strings.TrimSpace(userID))
}

// GetVendorBySlug returns the vendor with a storefront slug.
func (s *Store) GetVendorBySlug(ctx context.Context, slug string) (storage.Vendor, error) {
	return s.getVendorWhere(ctx, "slug = ?", strings.TrimSpace(slug))
}

func (s *Store) getVendorWhere(ctx context.Context, clause, value string) (storage.Vendor, error) {
	if err := ctx.Err(); err != nil {
		return storage.Vendor{}, err
	}
	if err := s.ready(); err != nil {
		return storage.Vendor{}, err
	}
	if value == "" {
		return storage.Vendor{}, fmt.Errorf("vendor lookup value is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE `+clause,
		value,
	)
	vendor, err := scanVendor(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.Vendor{}, storage.ErrNotFound
		}
		return storage.Vendor{}, fmt.Errorf("get vendor: %w", err)
	}
	return vendor, nil
}

// ListVendors returns vendors, newest first, optionally filtered by status.
func (s *Store) ListVendors(ctx context.Context, status storage.VendorStatus) ([]storage.Vendor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	query := `SELECT ` + vendorColumns + ` FROM vendors ORDER BY created_at DESC, id DESC`
	var args []any
	if status != "" {
		if !validVendorStatus(status) {
			return nil, fmt.Errorf("vendor status %q is invalid", status)
		}
		query = `SELECT ` + vendorColumns + ` FROM vendors WHERE status = ? ORDER BY created_at DESC, id DESC`
		args = append(args, string(status))
	}

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []storage.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("list vendors: %w", err)
		}
		vendors = append(vendors, vendor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	return vendors, nil
}

// UpdateVendorStatus moves a vendor through onboarding.
func (s *Store) UpdateVendorStatus(ctx context.Context, id string, status storage.VendorStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("vendor id is required")
	}
	if !validVendorStatus(status) {
		return fmt.Errorf("vendor status %q is invalid", status)
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE vendors SET status = ? WHERE id = ?`,
		string(status),
		id,
	)
	if err != nil {
		return fmt.Errorf("update vendor status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vendor status: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// DeleteVendor removes one vendor profile.
func (s *Store) DeleteVendor(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("vendor id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM vendors WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete vendor: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanVendor(row rowScanner) (storage.Vendor, error) {
	var vendor storage.Vendor
	var status string
	var createdAt int64
	err := row.Scan(
		&vendor.ID,
		&vendor.UserID,
		&vendor.StoreName,
		&vendor.Slug,
		&vendor.Description,
		&vendor.LogoURL,
		&status,
		&vendor.CommissionRate,
		&createdAt,
	)
	if err != nil {
		return storage.Vendor{}, err
	}
	vendor.Status = storage.VendorStatus(status)
	vendor.CreatedAt = fromMillis(createdAt)
	return vendor, nil
}
