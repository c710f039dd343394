package admin

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/storage"
)

// Stats is the dashboard headline view.
type Stats struct {
	TotalUsers     int             `json:"totalUsers"`
	ActiveVendors  int             `json:"activeVendors"`
	PendingVendors int             `json:"pendingVendors"`
	TotalProducts  int             `json:"totalProducts"`
	TotalOrders    int             `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	WaitlistCount  int             `json:"waitlistCount"`
}

// Stats aggregates marketplace totals. Revenue counts every non-cancelled
// order; products count only active listings.
func (s *Service) Stats(ctx context.Context, adminID string) (Stats, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return Stats{}, err
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list users: %w", err)
	}
	vendors, err := s.vendors.ListVendors(ctx, "")
	if err != nil {
		return Stats{}, fmt.Errorf("list vendors: %w", err)
	}
	page, err := s.products.ListProducts(ctx, storage.ProductFilter{}, allPageSize, "")
	if err != nil {
		return Stats{}, fmt.Errorf("list products: %w", err)
	}
	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("list orders: %w", err)
	}
	waitlistCount, err := s.waitlist.CountWaitlist(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count waitlist: %w", err)
	}

	stats := Stats{
		TotalUsers:    len(users),
		TotalProducts: len(page.Products),
		TotalOrders:   len(orders),
		WaitlistCount: waitlistCount,
	}
	for _, vendor := range vendors {
		switch vendor.Status {
		case storage.VendorApproved:
			stats.ActiveVendors++
		case storage.VendorPending:
			stats.PendingVendors++
		}
	}
	for _, order := range orders {
		if order.Status != storage.OrderCancelled {
			stats.TotalRevenue = stats.TotalRevenue.Add(order.TotalAmount)
		}
	}
	return stats, nil
}

// VendorPerformance is one vendor's share of marketplace sales. Orders
// counts sold line items, not checkouts.
type VendorPerformance struct {
	VendorID string          `json:"vendorId"`
	Name     string          `json:"name"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int             `json:"orders"`
}

// ProductSales is one product's sales tally.
type ProductSales struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// Analytics is the dashboard breakdown view.
type Analytics struct {
	TotalRevenue      decimal.Decimal             `json:"totalRevenue"`
	AvgOrderValue     decimal.Decimal             `json:"avgOrderValue"`
	OrdersByStatus    map[storage.OrderStatus]int `json:"ordersByStatus"`
	VendorPerformance []VendorPerformance         `json:"vendorPerformance"`
	TopProducts       []ProductSales              `json:"topProducts"`
}

// topProductLimit caps the best-seller list.
const topProductLimit = 10

// Analytics aggregates revenue and sales breakdowns. Cancelled orders are
// excluded from revenue and per-vendor/per-product tallies but still appear
// in the status breakdown. Line-item snapshots price the tallies, so later
// product edits never rewrite history.
func (s *Service) Analytics(ctx context.Context, adminID string) (Analytics, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return Analytics{}, err
	}

	orders, err := s.orders.ListOrders(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("list orders: %w", err)
	}
	items, err := s.orders.ListAllOrderItems(ctx)
	if err != nil {
		return Analytics{}, fmt.Errorf("list order items: %w", err)
	}

	out := Analytics{OrdersByStatus: make(map[storage.OrderStatus]int)}
	counted := make(map[string]bool, len(orders))
	validOrders := 0
	for _, order := range orders {
		out.OrdersByStatus[order.Status]++
		if order.Status != storage.OrderCancelled {
			out.TotalRevenue = out.TotalRevenue.Add(order.TotalAmount)
			counted[order.ID] = true
			validOrders++
		}
	}
	if validOrders > 0 {
		out.AvgOrderValue = out.TotalRevenue.Div(decimal.NewFromInt(int64(validOrders))).Round(2)
	}

	byVendor := make(map[string]*VendorPerformance)
	byProduct := make(map[string]*ProductSales)
	for _, item := range items {
		if !counted[item.OrderID] {
			continue
		}
		lineTotal := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))

		vp := byVendor[item.VendorID]
		if vp == nil {
			vp = &VendorPerformance{VendorID: item.VendorID, Name: "Unknown"}
			if vendor, err := s.vendors.GetVendor(ctx, item.VendorID); err == nil {
				vp.Name = vendor.StoreName
			}
			byVendor[item.VendorID] = vp
		}
		vp.Revenue = vp.Revenue.Add(lineTotal)
		vp.Orders++

		ps := byProduct[item.ProductID]
		if ps == nil {
			ps = &ProductSales{ProductID: item.ProductID, Name: "Deleted Product"}
			if product, err := s.products.GetProduct(ctx, item.ProductID); err == nil {
				ps.Name = product.Name
			}
			byProduct[item.ProductID] = ps
		}
		ps.Quantity += item.Quantity
		ps.Revenue = ps.Revenue.Add(lineTotal)
	}

	out.VendorPerformance = make([]VendorPerformance, 0, len(byVendor))
	for _, vp := range byVendor {
		out.VendorPerformance = append(out.VendorPerformance, *vp)
	}
	sort.Slice(out.VendorPerformance, func(i, j int) bool {
		return out.VendorPerformance[i].Revenue.GreaterThan(out.VendorPerformance[j].Revenue)
	})

	out.TopProducts = make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out.TopProducts = append(out.TopProducts, *ps)
	}
	sort.Slice(out.TopProducts, func(i, j int) bool {
		return out.TopProducts[i].Quantity > out.TopProducts[j].Quantity
	})
	if len(out.TopProducts) > topProductLimit {
		out.TopProducts = out.TopProducts[:topProductLimit]
	}
	return out, nil
}
