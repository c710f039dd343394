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

const waitlistColumns = `id, name, email, location, business_type, created_at`

// AddWaitlistEntry inserts one vendor waitlist application.
func (s *Store) AddWaitlistEntry(ctx context.Context, entry storage.WaitlistEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	entryID := strings.TrimSpace(entry.ID)
	email := strings.TrimSpace(entry.Email)
	if entryID == "" {
		return fmt.Errorf("waitlist entry id is required")
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if email == "" {
		return fmt.Errorf("email is required")
	}
	switch entry.BusinessType {
	case storage.BusinessSoleProprietor, storage.BusinessRegisteredBusiness:
	default:
		return fmt.Errorf("business type %q is invalid", entry.BusinessType)
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := s.sqlDB.ExecContext(
		ctx,
		`INSERT INTO vendor_waitlist (`+waitlistColumns+`) VALUES (?, ?, ?, ?, ?, ?)`,
		entryID,
		strings.TrimSpace(entry.Name),
		email,
		strings.TrimSpace(entry.Location),
		string(entry.BusinessType),
		toMillis(createdAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return storage.ErrAlreadyExists
		}
		return fmt.Errorf("add waitlist entry: %w", err)
	}
	return nil
}

// GetWaitlistEntry returns one application by id.
func (s *Store) GetWaitlistEntry(ctx context.Context, id string) (storage.WaitlistEntry, error) {
	if err := ctx.Err(); err != nil {
		return storage.WaitlistEntry{}, err
	}
	if err := s.ready(); err != nil {
		return storage.WaitlistEntry{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.WaitlistEntry{}, fmt.Errorf("waitlist entry id is required")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT `+waitlistColumns+` FROM vendor_waitlist WHERE id = ?`,
		id,
	)
	entry, err := scanWaitlistEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return storage.WaitlistEntry{}, storage.ErrNotFound
		}
		return storage.WaitlistEntry{}, fmt.Errorf("get waitlist entry: %w", err)
	}
	return entry, nil
}

// ListWaitlist returns every application, newest first.
func (s *Store) ListWaitlist(ctx context.Context) ([]storage.WaitlistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.ready(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT `+waitlistColumns+` FROM vendor_waitlist ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list waitlist: %w", err)
	}
	defer rows.Close()

	var entries []storage.WaitlistEntry
	for rows.Next() {
		entry, err := scanWaitlistEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list waitlist: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list waitlist: %w", err)
	}
	return entries, nil
}

// CountWaitlist returns the number of open applications.
func (s *Store) CountWaitlist(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if err := s.ready(); err != nil {
		return 0, err
	}

	var count int
	row := s.sqlDB.QueryRowContext(ctx, `SELECT COUNT(*) FROM vendor_waitlist`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count waitlist: %w", err)
	}
	return count, nil
}

// DeleteWaitlistEntry removes one application.
func (s *Store) DeleteWaitlistEntry(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.ready(); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("waitlist entry id is required")
	}

	result, err := s.sqlDB.ExecContext(ctx, `DELETE FROM vendor_waitlist WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete waitlist entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete waitlist entry: %w", err)
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanWaitlistEntry(row rowScanner) (storage.WaitlistEntry, error) {
	var entry storage.WaitlistEntry
	var businessType string
	var createdAt int64
	err := row.Scan(
		&entry.ID,
		&entry.Name,
		&entry.Email,
		&entry.Location,
		&businessType,
		&createdAt,
	)
	if err != nil {
		return storage.WaitlistEntry{}, err
	}
	entry.BusinessType = storage.BusinessType(businessType)
	entry.CreatedAt = fromMillis(createdAt)
	return entry, nil
}
