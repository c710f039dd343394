package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/warmnest/warmnest/internal/storage"
)

func openTempStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "warmnest.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return store
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestOpenAppliesMigrationsTwice(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "warmnest.db")
	first, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("close first: %v", err)
	}

	second, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	if err := second.Close(); err != nil {
		t.Fatalf("close second: %v", err)
	}
}

func TestUserLifecycle(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	user := storage.User{
		ID:        "user-1",
		Name:      "Thandi M",
		Email:     "thandi@example.com",
		Role:      storage.RoleCustomer,
		CreatedAt: time.UnixMilli(1700000000000).UTC(),
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := store.CreateUser(ctx, user); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate create = %v, want ErrAlreadyExists", err)
	}

	got, err := store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != user.Email || got.Role != storage.RoleCustomer {
		t.Fatalf("got user %+v", got)
	}
	if !got.CreatedAt.Equal(user.CreatedAt) {
		t.Fatalf("created at = %v, want %v", got.CreatedAt, user.CreatedAt)
	}

	byEmail, err := store.GetUserByEmail(ctx, "thandi@example.com")
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.ID != "user-1" {
		t.Fatalf("lookup by email returned %q", byEmail.ID)
	}

	if err := store.UpdateUserName(ctx, "user-1", "Thandi Mokoena"); err != nil {
		t.Fatalf("update name: %v", err)
	}
	if err := store.UpdateUserRole(ctx, "user-1", storage.RoleVendor, "vendor-1"); err != nil {
		t.Fatalf("update role: %v", err)
	}
	got, err = store.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get user after update: %v", err)
	}
	if got.Name != "Thandi Mokoena" || got.Role != storage.RoleVendor || got.VendorID != "vendor-1" {
		t.Fatalf("updated user = %+v", got)
	}

	if err := store.DeleteUser(ctx, "user-1"); err != nil {
		t.Fatalf("delete user: %v", err)
	}
	if _, err := store.GetUser(ctx, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}
	if err := store.DeleteUser(ctx, "user-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete missing = %v, want ErrNotFound", err)
	}
}

func TestCreateUserRejectsInvalidRole(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	err := store.CreateUser(context.Background(), storage.User{
		ID:   "user-1",
		Role: storage.Role("superuser"),
	})
	if err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestVendorLifecycle(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	vendor := storage.Vendor{
		ID:             "vendor-1",
		UserID:         "user-1",
		StoreName:      "Karoo Crafts",
		Slug:           "karoo-crafts",
		Status:         storage.VendorPending,
		CommissionRate: 0.1,
	}
	if err := store.CreateVendor(ctx, vendor); err != nil {
		t.Fatalf("create vendor: %v", err)
	}

	dupSlug := vendor
	dupSlug.ID = "vendor-2"
	dupSlug.UserID = "user-2"
	if err := store.CreateVendor(ctx, dupSlug); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate slug = %v, want ErrAlreadyExists", err)
	}

	bySlug, err := store.GetVendorBySlug(ctx, "karoo-crafts")
	if err != nil {
		t.Fatalf("get by slug: %v", err)
	}
	if bySlug.ID != "vendor-1" {
		t.Fatalf("slug lookup returned %q", bySlug.ID)
	}
	byUser, err := store.GetVendorByUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("get by user: %v", err)
	}
	if byUser.ID != "vendor-1" {
		t.Fatalf("user lookup returned %q", byUser.ID)
	}

	if err := store.UpdateVendorStatus(ctx, "vendor-1", storage.VendorApproved); err != nil {
		t.Fatalf("update status: %v", err)
	}
	approved, err := store.ListVendors(ctx, storage.VendorApproved)
	if err != nil {
		t.Fatalf("list approved: %v", err)
	}
	if len(approved) != 1 || approved[0].ID != "vendor-1" {
		t.Fatalf("approved vendors = %+v", approved)
	}
	pending, err := store.ListVendors(ctx, storage.VendorPending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("pending vendors = %+v", pending)
	}

	if err := store.DeleteVendor(ctx, "vendor-1"); err != nil {
		t.Fatalf("delete vendor: %v", err)
	}
	if _, err := store.GetVendor(ctx, "vendor-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestWaitlistLifecycle(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	entry := storage.WaitlistEntry{
		ID:           "wait-1",
		Name:         "Sipho N",
		Email:        "sipho@example.com",
		Location:     "Durban",
		BusinessType: storage.BusinessSoleProprietor,
	}
	if err := store.AddWaitlistEntry(ctx, entry); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	dup := entry
	dup.ID = "wait-2"
	if err := store.AddWaitlistEntry(ctx, dup); !errors.Is(err, storage.ErrAlreadyExists) {
		t.Fatalf("duplicate email = %v, want ErrAlreadyExists", err)
	}

	count, err := store.CountWaitlist(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	entries, err := store.ListWaitlist(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 1 || entries[0].BusinessType != storage.BusinessSoleProprietor {
		t.Fatalf("entries = %+v", entries)
	}

	if err := store.DeleteWaitlistEntry(ctx, "wait-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.GetWaitlistEntry(ctx, "wait-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get after delete = %v, want ErrNotFound", err)
	}
}

func TestSettingsUpsert(t *testing.T) {
	t.Parallel()

	store := openTempStore(t)
	ctx := context.Background()

	if _, err := store.GetSetting(ctx, "heroBanner"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("get missing = %v, want ErrNotFound", err)
	}

	if err := store.SetSetting(ctx, "heroBanner", "Spring sale"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.SetSetting(ctx, "heroBanner", "Winter sale"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}

	value, err := store.GetSetting(ctx, "heroBanner")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if value != "Winter sale" {
		t.Fatalf("value = %q, want %q", value, "Winter sale")
	}

	if err := store.DeleteSetting(ctx, "heroBanner"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteSetting(ctx, "heroBanner"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("delete missing = %v, want ErrNotFound", err)
	}
}
