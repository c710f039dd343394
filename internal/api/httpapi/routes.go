package httpapi

import "net/http"

func (a *API) routes(mux *http.ServeMux) {
	// Payment provider webhook. Form-encoded, plain-text responses.
	mux.HandleFunc("POST /payfast-itn", a.handlePayFastITN)

	// Storefront.
	mux.HandleFunc("GET /api/products", a.handleListProducts)
	mux.HandleFunc("GET /api/products/{id}", a.handleGetProduct)
	mux.HandleFunc("GET /api/vendors/{slug}", a.handleVendorBySlug)
	mux.HandleFunc("GET /api/shipping/rates", a.handleShippingRates)
	mux.HandleFunc("GET /api/settings/hero-banner", a.handleGetHeroBanner)

	// Checkout.
	mux.HandleFunc("POST /api/orders", a.handleCreateOrder)
	mux.HandleFunc("GET /api/orders", a.handleListMyOrders)
	mux.HandleFunc("GET /api/orders/{id}", a.handleGetOrder)
	mux.HandleFunc("POST /api/checkout/payment", a.handleCheckoutPayment)

	// Account.
	mux.HandleFunc("GET /api/me", a.handleCurrentUser)
	mux.HandleFunc("PUT /api/me", a.handleUpdateName)

	// Vendor onboarding and product management.
	mux.HandleFunc("POST /api/waitlist", a.handleJoinWaitlist)
	mux.HandleFunc("POST /api/vendors/register", a.handleRegisterVendor)
	mux.HandleFunc("GET /api/vendor/me", a.handleCurrentVendor)
	mux.HandleFunc("GET /api/vendor/products", a.handleListMyProducts)
	mux.HandleFunc("POST /api/vendor/products", a.handleCreateProduct)
	mux.HandleFunc("PUT /api/vendor/products/{id}", a.handleUpdateProduct)
	mux.HandleFunc("DELETE /api/vendor/products/{id}", a.handleDeleteProduct)

	// Administration.
	mux.HandleFunc("GET /api/admin/stats", a.handleAdminStats)
	mux.HandleFunc("GET /api/admin/analytics", a.handleAdminAnalytics)
	mux.HandleFunc("GET /api/admin/users", a.handleAdminListUsers)
	mux.HandleFunc("PUT /api/admin/users/{id}/role", a.handleAdminUpdateUserRole)
	mux.HandleFunc("DELETE /api/admin/users/{id}", a.handleAdminDeleteUser)
	mux.HandleFunc("GET /api/admin/vendors", a.handleAdminListVendors)
	mux.HandleFunc("POST /api/admin/vendors/{id}/approve", a.handleAdminApproveVendor)
	mux.HandleFunc("POST /api/admin/vendors/{id}/reject", a.handleAdminRejectVendor)
	mux.HandleFunc("DELETE /api/admin/vendors/{id}", a.handleAdminDeleteVendor)
	mux.HandleFunc("GET /api/admin/products", a.handleAdminListProducts)
	mux.HandleFunc("POST /api/admin/products/{id}/toggle", a.handleAdminToggleProduct)
	mux.HandleFunc("DELETE /api/admin/products/{id}", a.handleAdminDeleteProduct)
	mux.HandleFunc("GET /api/admin/orders", a.handleAdminListOrders)
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", a.handleAdminUpdateOrderStatus)
	mux.HandleFunc("GET /api/admin/waitlist", a.handleAdminListWaitlist)
	mux.HandleFunc("POST /api/admin/waitlist/{id}/grant", a.handleAdminGrantWish)
	mux.HandleFunc("DELETE /api/admin/waitlist/{id}", a.handleAdminRemoveFromWaitlist)
	mux.HandleFunc("PUT /api/admin/settings/hero-banner", a.handleAdminSetHeroBanner)
	mux.HandleFunc("DELETE /api/admin/settings/hero-banner", a.handleAdminRemoveHeroBanner)

	mux.HandleFunc("GET /healthz", a.handleHealthz)
}

func (a *API) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
