package httpapi

import (
	"net/http"

	"github.com/warmnest/warmnest/internal/storage"
)

// Admin handlers pass the caller through; the admin service owns the role
// check so the guard cannot be skipped by a new route.

func (a *API) handleAdminStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	stats, err := a.admin.Stats(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, stats)
}

func (a *API) handleAdminAnalytics(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	analytics, err := a.admin.Analytics(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, analytics)
}

func (a *API) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	users, err := a.admin.ListUsers(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	views := make([]userView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	a.writeJSON(w, http.StatusOK, struct {
		Users []userView `json:"users"`
	}{views})
}

func (a *API) handleAdminUpdateUserRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.admin.UpdateUserRole(r.Context(), userID, r.PathValue("id"), storage.Role(req.Role)); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.DeleteUser(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

type adminVendorView struct {
	vendorView
	OwnerName  string `json:"ownerName"`
	OwnerEmail string `json:"ownerEmail,omitempty"`
}

func (a *API) handleAdminListVendors(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	vendors, err := a.admin.ListVendors(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	views := make([]adminVendorView, 0, len(vendors))
	for _, joined := range vendors {
		views = append(views, adminVendorView{
			vendorView: toVendorView(joined.Vendor),
			OwnerName:  joined.OwnerName,
			OwnerEmail: joined.OwnerEmail,
		})
	}
	a.writeJSON(w, http.StatusOK, struct {
		Vendors []adminVendorView `json:"vendors"`
	}{views})
}

func (a *API) handleAdminApproveVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.ApproveVendor(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleAdminRejectVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.RejectVendor(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleAdminDeleteVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.DeleteVendor(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

type adminProductView struct {
	productView
	VendorName     string  `json:"vendorName"`
	CommissionRate float64 `json:"commissionRate"`
}

func (a *API) handleAdminListProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	products, err := a.admin.ListProducts(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	views := make([]adminProductView, 0, len(products))
	for _, joined := range products {
		views = append(views, adminProductView{
			productView:    toProductView(joined.Product),
			VendorName:     joined.VendorName,
			CommissionRate: joined.CommissionRate,
		})
	}
	a.writeJSON(w, http.StatusOK, struct {
		Products []adminProductView `json:"products"`
	}{views})
}

func (a *API) handleAdminToggleProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.ToggleProductActive(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleAdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.DeleteProduct(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

type adminOrderView struct {
	orderView
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail,omitempty"`
}

func (a *API) handleAdminListOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	orders, err := a.admin.ListOrders(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	views := make([]adminOrderView, 0, len(orders))
	for _, joined := range orders {
		views = append(views, adminOrderView{
			orderView:     toOrderView(joined.Order),
			CustomerName:  joined.CustomerName,
			CustomerEmail: joined.CustomerEmail,
		})
	}
	a.writeJSON(w, http.StatusOK, struct {
		Orders []adminOrderView `json:"orders"`
	}{views})
}

func (a *API) handleAdminUpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.admin.UpdateOrderStatus(r.Context(), userID, r.PathValue("id"), storage.OrderStatus(req.Status)); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleAdminListWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	entries, err := a.admin.ListWaitlist(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	views := make([]waitlistView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toWaitlistView(entry))
	}
	a.writeJSON(w, http.StatusOK, struct {
		Waitlist []waitlistView `json:"waitlist"`
	}{views})
}

func (a *API) handleAdminGrantWish(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	granted, err := a.admin.GrantWish(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toVendorView(granted))
}

func (a *API) handleAdminRemoveFromWaitlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.RemoveFromWaitlist(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleGetHeroBanner(w http.ResponseWriter, r *http.Request) {
	value, err := a.admin.HeroBanner(r.Context())
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		Value string `json:"value"`
	}{value})
}

func (a *API) handleAdminSetHeroBanner(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Value string `json:"value"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.admin.SetHeroBanner(r.Context(), userID, req.Value); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleAdminRemoveHeroBanner(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.admin.RemoveHeroBanner(r.Context(), userID); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}
