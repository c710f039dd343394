package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/payfast"
	"github.com/warmnest/warmnest/internal/storage"
	"github.com/warmnest/warmnest/internal/storage/sqlite"
)

func doJSON(handler http.Handler, method, target, token string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func seedApprovedVendor(t *testing.T, store *sqlite.Store, userID, vendorID string) {
	t.Helper()
	ctx := context.Background()
	if err := store.CreateUser(ctx, storage.User{
		ID:    userID,
		Name:  "Seller " + userID,
		Email: userID + "@example.com",
		Role:  storage.RoleVendor,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := store.CreateVendor(ctx, storage.Vendor{
		ID:             vendorID,
		UserID:         userID,
		StoreName:      "Store " + vendorID,
		Slug:           "store-" + vendorID,
		Status:         storage.VendorApproved,
		CommissionRate: 0.10,
	}); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	handler, _ := newTestAPI(t, "")
	rec := doJSON(handler, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
}

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	handler, _ := newTestAPI(t, "")

	rec := doJSON(handler, http.MethodGet, "/api/orders", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}

	rec = doJSON(handler, http.MethodGet, "/api/orders", "not-a-token", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("basic auth status = %d", rec.Code)
	}
}

func TestProductBrowsing(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	seedApprovedVendor(t, store, "user-1", "vendor-1")
	ctx := context.Background()
	if err := store.CreateProduct(ctx, storage.Product{
		ID:       "prod-1",
		VendorID: "vendor-1",
		Name:     "Karoo Blanket",
		Price:    decimal.RequireFromString("450.00"),
		Stock:    3,
		Category: "home",
		IsActive: true,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	rec := doJSON(handler, http.MethodGet, "/api/products?category=home", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decodeBody[struct {
		Products []productView `json:"products"`
	}](t, rec)
	if len(list.Products) != 1 || list.Products[0].Name != "Karoo Blanket" {
		t.Fatalf("products = %+v", list.Products)
	}

	rec = doJSON(handler, http.MethodGet, "/api/products/prod-1", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	product := decodeBody[productView](t, rec)
	if !product.Price.Equal(decimal.RequireFromString("450.00")) {
		t.Fatalf("price = %s", product.Price)
	}

	rec = doJSON(handler, http.MethodGet, "/api/products/ghost", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing status = %d", rec.Code)
	}
}

func TestGuestCheckoutFlow(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	seedApprovedVendor(t, store, "user-1", "vendor-1")
	if err := store.CreateProduct(context.Background(), storage.Product{
		ID:       "prod-1",
		VendorID: "vendor-1",
		Name:     "Karoo Blanket",
		Price:    decimal.RequireFromString("125.00"),
		Stock:    3,
		IsActive: true,
	}); err != nil {
		t.Fatalf("seed product: %v", err)
	}

	body := `{
		"guestEmail": "guest@example.com",
		"total": "250.00",
		"shippingTo": {"street": "12 Kloof St", "city": "Cape Town", "province": "Western Cape", "postalCode": "8001", "country": "ZA"},
		"items": [{"productId": "prod-1", "quantity": 2, "unitPrice": "125.00"}]
	}`
	rec := doJSON(handler, http.MethodPost, "/api/orders", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %q", rec.Code, rec.Body.String())
	}
	created := decodeBody[orderView](t, rec)
	if created.Status != "pending" {
		t.Fatalf("status = %q", created.Status)
	}

	rec = doJSON(handler, http.MethodGet, "/api/orders/"+created.ID, "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	fetched := decodeBody[struct {
		orderView
		Items []orderItemView `json:"items"`
	}](t, rec)
	if len(fetched.Items) != 1 || fetched.Items[0].VendorID != "vendor-1" {
		t.Fatalf("items = %+v", fetched.Items)
	}

	// Guest checkout without an email is rejected.
	rec = doJSON(handler, http.MethodPost, "/api/orders", "", `{"total": "10.00"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("no email status = %d", rec.Code)
	}
}

func TestOrderVisibility(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	ctx := context.Background()
	for _, id := range []string{"user-1", "user-2"} {
		if err := store.CreateUser(ctx, storage.User{
			ID: id, Name: id, Email: id + "@example.com", Role: storage.RoleCustomer,
		}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	if err := store.CreateOrder(ctx, storage.Order{
		ID:          "order-1",
		UserID:      "user-1",
		TotalAmount: decimal.RequireFromString("99.00"),
		Status:      storage.OrderPending,
		ShippingTo: storage.Address{
			Street: "12 Kloof St", City: "Cape Town", Province: "Western Cape",
			PostalCode: "8001", Country: "ZA",
		},
	}, nil); err != nil {
		t.Fatalf("seed order: %v", err)
	}

	rec := doJSON(handler, http.MethodGet, "/api/orders/order-1", mintToken(t, "user-1"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner status = %d", rec.Code)
	}
	rec = doJSON(handler, http.MethodGet, "/api/orders/order-1", mintToken(t, "user-2"), "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("stranger status = %d", rec.Code)
	}
	rec = doJSON(handler, http.MethodGet, "/api/orders", mintToken(t, "user-1"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	list := decodeBody[struct {
		Orders []orderView `json:"orders"`
	}](t, rec)
	if len(list.Orders) != 1 {
		t.Fatalf("orders = %+v", list.Orders)
	}
}

func TestCheckoutPaymentFields(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	seedPendingOrder(t, store, "order-1", "250.00")

	rec := doJSON(handler, http.MethodPost, "/api/checkout/payment", "", `{"orderId": "order-1"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %q", rec.Code, rec.Body.String())
	}
	payment := decodeBody[struct {
		ProcessURL string            `json:"processUrl"`
		Fields     map[string]string `json:"fields"`
	}](t, rec)
	if !strings.Contains(payment.ProcessURL, "sandbox.payfast.co.za") {
		t.Errorf("process url = %q", payment.ProcessURL)
	}
	if payment.Fields["amount"] != "250.00" {
		t.Errorf("amount = %q", payment.Fields["amount"])
	}
	if payment.Fields["m_payment_id"] != "order-1" {
		t.Errorf("m_payment_id = %q", payment.Fields["m_payment_id"])
	}
	if payment.Fields["email_address"] != "buyer@example.com" {
		t.Errorf("email_address = %q", payment.Fields["email_address"])
	}
	if !payfast.VerifySignature(payment.Fields, testPassphrase) {
		t.Error("returned fields do not verify")
	}
}

func TestShippingRates(t *testing.T) {
	t.Parallel()

	handler, _ := newTestAPI(t, "")
	rec := doJSON(handler, http.MethodGet, "/api/shipping/rates?city=Durban&weightKg=2.5", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	quoted := decodeBody[struct {
		Rates []struct {
			ID    string `json:"id"`
			Price string `json:"price"`
		} `json:"rates"`
	}](t, rec)
	if len(quoted.Rates) != 2 || quoted.Rates[0].ID != "standard" {
		t.Fatalf("rates = %+v", quoted.Rates)
	}
}

func TestVendorProductManagement(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	seedApprovedVendor(t, store, "user-1", "vendor-1")
	token := mintToken(t, "user-1")

	rec := doJSON(handler, http.MethodPost, "/api/vendor/products", token,
		`{"name": "Mohair Scarf", "price": "320.00", "stock": 5, "category": "apparel"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %q", rec.Code, rec.Body.String())
	}
	created := decodeBody[productView](t, rec)
	if created.VendorID != "vendor-1" || !created.IsActive {
		t.Fatalf("created = %+v", created)
	}

	rec = doJSON(handler, http.MethodPut, "/api/vendor/products/"+created.ID, token,
		`{"name": "Mohair Scarf", "price": "300.00", "salePrice": "280.00", "stock": 4}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d, body = %q", rec.Code, rec.Body.String())
	}

	rec = doJSON(handler, http.MethodGet, "/api/vendor/products", token, "")
	list := decodeBody[struct {
		Products []productView `json:"products"`
	}](t, rec)
	if len(list.Products) != 1 || list.Products[0].SalePrice == nil {
		t.Fatalf("products = %+v", list.Products)
	}

	// Another vendor cannot touch it.
	seedApprovedVendor(t, store, "user-2", "vendor-2")
	rec = doJSON(handler, http.MethodDelete, "/api/vendor/products/"+created.ID, mintToken(t, "user-2"), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("hijack status = %d", rec.Code)
	}

	rec = doJSON(handler, http.MethodDelete, "/api/vendor/products/"+created.ID, token, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rec.Code)
	}
}

func TestVendorRegistrationAndWaitlist(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	if err := store.CreateUser(context.Background(), storage.User{
		ID: "user-1", Name: "Thandi", Email: "thandi@example.com", Role: storage.RoleCustomer,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token := mintToken(t, "user-1")

	rec := doJSON(handler, http.MethodPost, "/api/vendors/register", token,
		`{"storeName": "Karoo Crafts", "description": "Handmade goods"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, body = %q", rec.Code, rec.Body.String())
	}
	registered := decodeBody[vendorView](t, rec)
	if registered.Slug != "karoo-crafts" || registered.Status != "pending" {
		t.Fatalf("registered = %+v", registered)
	}

	rec = doJSON(handler, http.MethodGet, "/api/vendor/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}

	rec = doJSON(handler, http.MethodGet, "/api/vendors/karoo-crafts", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("by slug status = %d", rec.Code)
	}

	rec = doJSON(handler, http.MethodPost, "/api/waitlist", "",
		`{"name": "Sipho", "email": "Sipho@Example.com", "location": "Durban", "businessType": "sole_proprietor"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("waitlist status = %d, body = %q", rec.Code, rec.Body.String())
	}
	entry := decodeBody[waitlistView](t, rec)
	if entry.Email != "sipho@example.com" {
		t.Fatalf("email = %q", entry.Email)
	}

	rec = doJSON(handler, http.MethodPost, "/api/waitlist", "",
		`{"name": "Sipho", "email": "sipho@example.com", "businessType": "sole_proprietor"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d", rec.Code)
	}
}

func TestAdminEndpointsGuarded(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	ctx := context.Background()
	if err := store.CreateUser(ctx, storage.User{
		ID: "user-1", Name: "Customer", Email: "c@example.com", Role: storage.RoleCustomer,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	if err := store.CreateUser(ctx, storage.User{
		ID: "admin-1", Name: "Admin", Email: "a@example.com", Role: storage.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}

	rec := doJSON(handler, http.MethodGet, "/api/admin/stats", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", rec.Code)
	}
	rec = doJSON(handler, http.MethodGet, "/api/admin/stats", mintToken(t, "user-1"), "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("customer status = %d", rec.Code)
	}
	rec = doJSON(handler, http.MethodGet, "/api/admin/stats", mintToken(t, "admin-1"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, body = %q", rec.Code, rec.Body.String())
	}
	stats := decodeBody[map[string]any](t, rec)
	if stats["totalUsers"] != float64(2) {
		t.Fatalf("stats = %v", stats)
	}
}

func TestAdminOrderOverrideAndHeroBanner(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	ctx := context.Background()
	if err := store.CreateUser(ctx, storage.User{
		ID: "admin-1", Name: "Admin", Email: "a@example.com", Role: storage.RoleAdmin,
	}); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	seedPendingOrder(t, store, "order-1", "100.00")
	token := mintToken(t, "admin-1")

	rec := doJSON(handler, http.MethodPut, "/api/admin/orders/order-1/status", token, `{"status": "shipped"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("override status = %d, body = %q", rec.Code, rec.Body.String())
	}
	got, err := store.GetOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.Status != storage.OrderShipped {
		t.Fatalf("status = %q", got.Status)
	}

	rec = doJSON(handler, http.MethodGet, "/api/settings/hero-banner", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("banner get status = %d", rec.Code)
	}
	banner := decodeBody[struct {
		Value string `json:"value"`
	}](t, rec)
	if banner.Value != "" {
		t.Fatalf("value = %q", banner.Value)
	}

	rec = doJSON(handler, http.MethodPut, "/api/admin/settings/hero-banner", token, `{"value": "spring.jpg"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("banner set status = %d, body = %q", rec.Code, rec.Body.String())
	}
	rec = doJSON(handler, http.MethodGet, "/api/settings/hero-banner", "", "")
	banner = decodeBody[struct {
		Value string `json:"value"`
	}](t, rec)
	if banner.Value != "spring.jpg" {
		t.Fatalf("value = %q", banner.Value)
	}
}

func TestAccountEndpoints(t *testing.T) {
	t.Parallel()

	handler, store := newTestAPI(t, "")
	if err := store.CreateUser(context.Background(), storage.User{
		ID: "user-1", Name: "Thandi", Email: "thandi@example.com", Role: storage.RoleCustomer,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	token := mintToken(t, "user-1")

	rec := doJSON(handler, http.MethodGet, "/api/me", token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	me := decodeBody[userView](t, rec)
	if me.Email != "thandi@example.com" {
		t.Fatalf("me = %+v", me)
	}

	rec = doJSON(handler, http.MethodPut, "/api/me", token, `{"name": "Thandi Mokoena"}`)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("update status = %d", rec.Code)
	}
	rec = doJSON(handler, http.MethodGet, "/api/me", token, "")
	me = decodeBody[userView](t, rec)
	if me.Name != "Thandi Mokoena" {
		t.Fatalf("name = %q", me.Name)
	}
}
