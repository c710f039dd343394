package httpapi

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/storage"
)

// Views are the JSON shapes of the API. Times render as Unix milliseconds.

func millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

type addressView struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

func toAddressView(a storage.Address) addressView {
	return addressView{
		Street:     a.Street,
		City:       a.City,
		Province:   a.Province,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

func (v addressView) address() storage.Address {
	return storage.Address{
		Street:     v.Street,
		City:       v.City,
		Province:   v.Province,
		PostalCode: v.PostalCode,
		Country:    v.Country,
	}
}

type orderView struct {
	ID         string          `json:"id"`
	UserID     string          `json:"userId,omitempty"`
	GuestEmail string          `json:"guestEmail,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
	PaymentID  string          `json:"paymentId,omitempty"`
	ShippingTo addressView     `json:"shippingTo"`
	CreatedAt  int64           `json:"createdAt"`
}

func toOrderView(o storage.Order) orderView {
	return orderView{
		ID:         o.ID,
		UserID:     o.UserID,
		GuestEmail: o.GuestEmail,
		Total:      o.TotalAmount,
		Status:     string(o.Status),
		PaymentID:  o.PaymentID,
		ShippingTo: toAddressView(o.ShippingTo),
		CreatedAt:  millis(o.CreatedAt),
	}
}

func toOrderViews(orders []storage.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderView(o))
	}
	return out
}

type orderItemView struct {
	ID        string          `json:"id"`
	ProductID string          `json:"productId"`
	VendorID  string          `json:"vendorId"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

func toOrderItemViews(items []storage.OrderItem) []orderItemView {
	out := make([]orderItemView, 0, len(items))
	for _, item := range items {
		out = append(out, orderItemView{
			ID:        item.ID,
			ProductID: item.ProductID,
			VendorID:  item.VendorID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	return out
}

type productView struct {
	ID          string           `json:"id"`
	VendorID    string           `json:"vendorId"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	SalePrice   *decimal.Decimal `json:"salePrice,omitempty"`
	SKU         string           `json:"sku,omitempty"`
	Stock       int              `json:"stock"`
	Images      []string         `json:"images,omitempty"`
	Category    string           `json:"category,omitempty"`
	Tags        []string         `json:"tags,omitempty"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   int64            `json:"createdAt"`
}

func toProductView(p storage.Product) productView {
	return productView{
		ID:          p.ID,
		VendorID:    p.VendorID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		SalePrice:   p.SalePrice,
		SKU:         p.SKU,
		Stock:       p.Stock,
		Images:      p.Images,
		Category:    p.Category,
		Tags:        p.Tags,
		IsActive:    p.IsActive,
		CreatedAt:   millis(p.CreatedAt),
	}
}

func toProductViews(products []storage.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

type vendorView struct {
	ID             string  `json:"id"`
	UserID         string  `json:"userId"`
	StoreName      string  `json:"storeName"`
	Slug           string  `json:"slug"`
	Description    string  `json:"description,omitempty"`
	LogoURL        string  `json:"logoUrl,omitempty"`
	Status         string  `json:"status"`
	CommissionRate float64 `json:"commissionRate"`
	CreatedAt      int64   `json:"createdAt"`
}

func toVendorView(v storage.Vendor) vendorView {
	return vendorView{
		ID:             v.ID,
		UserID:         v.UserID,
		StoreName:      v.StoreName,
		Slug:           v.Slug,
		Description:    v.Description,
		LogoURL:        v.LogoURL,
		Status:         string(v.Status),
		CommissionRate: v.CommissionRate,
		CreatedAt:      millis(v.CreatedAt),
	}
}

type userView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Role      string `json:"role"`
	VendorID  string `json:"vendorId,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

func toUserView(u storage.User) userView {
	return userView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		ImageURL:  u.ImageURL,
		Role:      string(u.Role),
		VendorID:  u.VendorID,
		CreatedAt: millis(u.CreatedAt),
	}
}

type waitlistView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Location     string `json:"location,omitempty"`
	BusinessType string `json:"businessType"`
	CreatedAt    int64  `json:"createdAt"`
}

func toWaitlistView(e storage.WaitlistEntry) waitlistView {
	return waitlistView{
		ID:           e.ID,
		Name:         e.Name,
		Email:        e.Email,
		Location:     e.Location,
		BusinessType: string(e.BusinessType),
		CreatedAt:    millis(e.CreatedAt),
	}
}
