package httpapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/warmnest/warmnest/internal/payfast"
	apperrors "github.com/warmnest/warmnest/internal/platform/errors"
	"github.com/warmnest/warmnest/internal/platform/requestctx"
	"github.com/warmnest/warmnest/internal/services/catalog"
	"github.com/warmnest/warmnest/internal/services/order"
	"github.com/warmnest/warmnest/internal/services/vendor"
	"github.com/warmnest/warmnest/internal/shiprazor"
	"github.com/warmnest/warmnest/internal/storage"
)

// --- catalog ---

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageSize, _ := strconv.Atoi(query.Get("pageSize"))
	page, err := a.catalog.List(r.Context(), catalog.ListInput{
		Category:  query.Get("category"),
		VendorID:  query.Get("vendor"),
		Search:    query.Get("search"),
		PageSize:  pageSize,
		PageToken: query.Get("pageToken"),
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		Products      []productView `json:"products"`
		NextPageToken string        `json:"nextPageToken,omitempty"`
	}{toProductViews(page.Products), page.NextPageToken})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := a.catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toProductView(product))
}

func (a *API) handleVendorBySlug(w http.ResponseWriter, r *http.Request) {
	profile, err := a.vendors.BySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toVendorView(profile))
}

// --- shipping ---

func (a *API) handleShippingRates(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	weightKG, err := strconv.ParseFloat(query.Get("weightKg"), 64)
	if err != nil || weightKG <= 0 {
		weightKG = 1
	}
	address := storage.Address{
		Street:     query.Get("street"),
		City:       query.Get("city"),
		Province:   query.Get("province"),
		PostalCode: query.Get("postalCode"),
		Country:    query.Get("country"),
	}
	rates, err := a.shipping.GetRates(r.Context(), address, weightKG)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		Rates []shiprazor.Rate `json:"rates"`
	}{rates})
}

// --- orders ---

type createOrderRequest struct {
	GuestEmail string      `json:"guestEmail"`
	Total      string      `json:"total"`
	ShippingTo addressView `json:"shippingTo"`
	Items      []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
		UnitPrice string `json:"unitPrice"`
	} `json:"items"`
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	userID := requestctx.UserIDFromContext(r.Context())
	if userID == "" && strings.TrimSpace(req.GuestEmail) == "" {
		a.writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "guest checkout requires an email"))
		return
	}
	total, err := decimal.NewFromString(strings.TrimSpace(req.Total))
	if err != nil {
		a.writeError(w, apperrors.New(apperrors.CodeOrderInvalidTotal, "order total is not a number"))
		return
	}
	input := order.CreateInput{
		UserID:     userID,
		GuestEmail: req.GuestEmail,
		Total:      total,
		ShippingTo: req.ShippingTo.address(),
	}
	for _, item := range req.Items {
		unitPrice, err := decimal.NewFromString(strings.TrimSpace(item.UnitPrice))
		if err != nil {
			a.writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "item unit price is not a number"))
			return
		}
		input.Items = append(input.Items, order.ItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
		})
	}
	created, err := a.orders.Create(r.Context(), input)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toOrderView(created))
}

func (a *API) handleListMyOrders(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	orders, err := a.orders.ListForUser(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		Orders []orderView `json:"orders"`
	}{toOrderViews(orders)})
}

// handleGetOrder returns one order with line items. Orders placed by an
// account are visible to that account only; guest orders are addressed by
// their unguessable id.
func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	got, items, err := a.orders.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		a.writeError(w, err)
		return
	}
	if got.UserID != "" && got.UserID != requestctx.UserIDFromContext(r.Context()) {
		a.writeError(w, apperrors.New(apperrors.CodeOrderNotFound, "order not found"))
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		orderView
		Items []orderItemView `json:"items"`
	}{toOrderView(got), toOrderItemViews(items)})
}

// --- checkout payment ---

type checkoutPaymentRequest struct {
	OrderID string `json:"orderId"`
	Email   string `json:"email"`
}

// handleCheckoutPayment builds the signed field set the storefront posts to
// the provider's process endpoint. The amount always comes from the stored
// order, never from the request.
func (a *API) handleCheckoutPayment(w http.ResponseWriter, r *http.Request) {
	var req checkoutPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	got, _, err := a.orders.Get(r.Context(), req.OrderID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = got.GuestEmail
	}
	fields, err := payfast.BuildPaymentData(a.payfastCfg, payfast.PaymentRequest{
		OrderID:  got.ID,
		Amount:   got.TotalAmount,
		ItemName: "WarmNest Order " + got.ID,
		Email:    email,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		ProcessURL string            `json:"processUrl"`
		Fields     map[string]string `json:"fields"`
	}{a.payfastCfg.ProcessURL(), fields})
}

// --- account ---

func (a *API) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	user, err := a.accounts.Current(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toUserView(user))
}

func (a *API) handleUpdateName(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.accounts.UpdateName(r.Context(), userID, req.Name); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

// --- vendor onboarding ---

func (a *API) handleJoinWaitlist(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         string `json:"name"`
		Email        string `json:"email"`
		Location     string `json:"location"`
		BusinessType string `json:"businessType"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	entry, err := a.vendors.JoinWaitlist(r.Context(), vendor.JoinWaitlistInput{
		Name:         req.Name,
		Email:        req.Email,
		Location:     req.Location,
		BusinessType: storage.BusinessType(req.BusinessType),
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toWaitlistView(entry))
}

func (a *API) handleRegisterVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req struct {
		StoreName   string `json:"storeName"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	registered, err := a.vendors.Register(r.Context(), userID, vendor.RegisterInput{
		StoreName:   req.StoreName,
		Slug:        req.Slug,
		Description: req.Description,
	})
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toVendorView(registered))
}

func (a *API) handleCurrentVendor(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	profile, err := a.vendors.Current(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, toVendorView(profile))
}

// --- vendor product management ---

type productRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       string   `json:"price"`
	SalePrice   *string  `json:"salePrice"`
	SKU         string   `json:"sku"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

func (r productRequest) input() (catalog.ProductInput, error) {
	price, err := decimal.NewFromString(strings.TrimSpace(r.Price))
	if err != nil {
		return catalog.ProductInput{}, apperrors.New(apperrors.CodeInvalidArgument, "product price is not a number")
	}
	input := catalog.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       price,
		SKU:         r.SKU,
		Stock:       r.Stock,
		Images:      r.Images,
		Category:    r.Category,
		Tags:        r.Tags,
	}
	if r.SalePrice != nil {
		salePrice, err := decimal.NewFromString(strings.TrimSpace(*r.SalePrice))
		if err != nil {
			return catalog.ProductInput{}, apperrors.New(apperrors.CodeInvalidArgument, "sale price is not a number")
		}
		input.SalePrice = &salePrice
	}
	return input, nil
}

func (a *API) handleListMyProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	products, err := a.catalog.ListMine(r.Context(), userID)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusOK, struct {
		Products []productView `json:"products"`
	}{toProductViews(products)})
}

func (a *API) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	input, err := req.input()
	if err != nil {
		a.writeError(w, err)
		return
	}
	product, err := a.catalog.CreateProduct(r.Context(), userID, input)
	if err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusCreated, toProductView(product))
}

func (a *API) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, err)
		return
	}
	input, err := req.input()
	if err != nil {
		a.writeError(w, err)
		return
	}
	if err := a.catalog.UpdateProduct(r.Context(), userID, r.PathValue("id"), input); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}

func (a *API) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := a.requireUser(w, r)
	if !ok {
		return
	}
	if err := a.catalog.DeleteProduct(r.Context(), userID, r.PathValue("id")); err != nil {
		a.writeError(w, err)
		return
	}
	a.writeJSON(w, http.StatusNoContent, nil)
}
