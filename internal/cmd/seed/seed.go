// Package seed populates a local development database with demo accounts,
// vendors, and products, and prints session tokens for poking at the API.
package seed

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/platform/authtoken"
	entrypoint "github.com/warmnest/warmnest/internal/platform/cmd"
	"github.com/warmnest/warmnest/internal/platform/id"
	"github.com/warmnest/warmnest/internal/storage"
	"github.com/warmnest/warmnest/internal/storage/sqlite"
)

const tokenTTL = 24 * time.Hour

// Config holds seed command configuration.
type Config struct {
	DBPath     string `env:"WARMNEST_DB_PATH" envDefault:"warmnest.db"`
	PrintToken bool
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "The SQLite database path")
	fs.BoolVar(&cfg.PrintToken, "tokens", true, "print session tokens for the seeded accounts")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds the database. Reseeding an existing database is safe: records
// that already exist are left alone.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceSeed, func(ctx context.Context) error {
		return run(ctx, cfg)
	})
}

type demoProduct struct {
	name     string
	price    string
	stock    int
	category string
}

type demoVendor struct {
	userName  string
	email     string
	storeName string
	slug      string
	products  []demoProduct
}

var demoVendors = []demoVendor{
	{
		userName:  "Thandi Mokoena",
		email:     "thandi@warmnest.test",
		storeName: "Karoo Crafts",
		slug:      "karoo-crafts",
		products: []demoProduct{
			{"Karoo Wool Blanket", "450.00", 12, "home"},
			{"Mohair Scarf", "320.00", 20, "apparel"},
			{"Hand-carved Serving Spoon", "95.00", 40, "kitchen"},
		},
	},
	{
		userName:  "Sipho Ndlovu",
		email:     "sipho@warmnest.test",
		storeName: "Durban Spice Co",
		slug:      "durban-spice-co",
		products: []demoProduct{
			{"Masala Blend 250g", "65.00", 80, "pantry"},
			{"Peri-Peri Oil", "85.00", 60, "pantry"},
		},
	},
}

func run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() { _ = store.Close() }()

	adminID, err := seedUser(ctx, store, "Ayanda Admin", "admin@warmnest.test", storage.RoleAdmin)
	if err != nil {
		return err
	}
	customerID, err := seedUser(ctx, store, "Lerato Customer", "lerato@warmnest.test", storage.RoleCustomer)
	if err != nil {
		return err
	}

	for _, demo := range demoVendors {
		if err := seedVendor(ctx, store, demo); err != nil {
			return err
		}
	}

	if cfg.PrintToken {
		sessions, err := authtoken.LoadConfigFromEnv(nil)
		if err != nil {
			log.Printf("skipping tokens: %v", err)
			return nil
		}
		for _, account := range []struct{ label, id string }{
			{"admin", adminID},
			{"customer", customerID},
		} {
			token, err := authtoken.Mint(sessions, account.id, tokenTTL)
			if err != nil {
				return fmt.Errorf("mint %s token: %w", account.label, err)
			}
			log.Printf("%s token: %s", account.label, token)
		}
	}
	return nil
}

func seedUser(ctx context.Context, store *sqlite.Store, name, email string, role storage.Role) (string, error) {
	if existing, err := store.GetUserByEmail(ctx, email); err == nil {
		return existing.ID, nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return "", fmt.Errorf("check user %s: %w", email, err)
	}
	userID, err := id.NewID()
	if err != nil {
		return "", err
	}
	err = store.CreateUser(ctx, storage.User{
		ID:    userID,
		Name:  name,
		Email: email,
		Role:  role,
	})
	if err != nil {
		return "", fmt.Errorf("create user %s: %w", email, err)
	}
	log.Printf("created %s user %s", role, email)
	return userID, nil
}

func seedVendor(ctx context.Context, store *sqlite.Store, demo demoVendor) error {
	if _, err := store.GetVendorBySlug(ctx, demo.slug); err == nil {
		return nil
	} else if !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("check vendor %s: %w", demo.slug, err)
	}

	userID, err := seedUser(ctx, store, demo.userName, demo.email, storage.RoleVendor)
	if err != nil {
		return err
	}
	vendorID, err := id.NewID()
	if err != nil {
		return err
	}
	err = store.CreateVendor(ctx, storage.Vendor{
		ID:             vendorID,
		UserID:         userID,
		StoreName:      demo.storeName,
		Slug:           demo.slug,
		Description:    "Demo storefront",
		Status:         storage.VendorApproved,
		CommissionRate: 0.10,
	})
	if err != nil {
		return fmt.Errorf("create vendor %s: %w", demo.slug, err)
	}
	if err := store.UpdateUserRole(ctx, userID, storage.RoleVendor, vendorID); err != nil {
		return fmt.Errorf("link vendor %s: %w", demo.slug, err)
	}

	for _, product := range demo.products {
		productID, err := id.NewID()
		if err != nil {
			return err
		}
		err = store.CreateProduct(ctx, storage.Product{
			ID:       productID,
			VendorID: vendorID,
			Name:     product.name,
			Price:    decimal.RequireFromString(product.price),
			Stock:    product.stock,
			Category: product.category,
			IsActive: true,
		})
		if err != nil {
			return fmt.Errorf("create product %s: %w", product.name, err)
		}
	}
	log.Printf("created vendor %s with %d products", demo.storeName, len(demo.products))
	return nil
}
