// Package httpapi hosts the WarmNest HTTP surface: the storefront and admin
// JSON API plus the PayFast ITN webhook.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/warmnest/warmnest/internal/payfast"
	"github.com/warmnest/warmnest/internal/platform/authtoken"
	"github.com/warmnest/warmnest/internal/platform/timeouts"
	"github.com/warmnest/warmnest/internal/services/account"
	"github.com/warmnest/warmnest/internal/services/admin"
	"github.com/warmnest/warmnest/internal/services/catalog"
	"github.com/warmnest/warmnest/internal/services/order"
	"github.com/warmnest/warmnest/internal/services/vendor"
	"github.com/warmnest/warmnest/internal/shiprazor"
)

// Dependencies are the collaborators the API surface is built from.
type Dependencies struct {
	Orders     *order.Service
	Catalog    *catalog.Service
	Vendors    *vendor.Service
	Accounts   *account.Service
	Admin      *admin.Service
	Reconciler *payfast.Reconciler
	PayFast    payfast.Config
	Shipping   *shiprazor.Client
	Sessions   authtoken.Config
	Logger     *log.Logger
}

// API holds the handler state.
type API struct {
	orders     *order.Service
	catalog    *catalog.Service
	vendors    *vendor.Service
	accounts   *account.Service
	admin      *admin.Service
	reconciler *payfast.Reconciler
	payfastCfg payfast.Config
	shipping   *shiprazor.Client
	sessions   authtoken.Config
	logger     *log.Logger
}

// NewHandler composes the full route table.
func NewHandler(deps Dependencies) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	a := &API{
		orders:     deps.Orders,
		catalog:    deps.Catalog,
		vendors:    deps.Vendors,
		accounts:   deps.Accounts,
		admin:      deps.Admin,
		reconciler: deps.Reconciler,
		payfastCfg: deps.PayFast,
		shipping:   deps.Shipping,
		sessions:   deps.Sessions,
		logger:     logger,
	}
	mux := http.NewServeMux()
	a.routes(mux)
	return a.withSession(mux)
}

// Config defines startup inputs for the API server.
type Config struct {
	HTTPAddr string
}

// Server hosts the API HTTP surface and lifecycle.
type Server struct {
	httpServer *http.Server
}

// NewServer validates config and constructs an API server.
func NewServer(cfg Config, deps Dependencies) (*Server, error) {
	httpAddr := strings.TrimSpace(cfg.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	return &Server{
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           otelhttp.NewHandler(NewHandler(deps), "warmnest-api"),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
	}, nil
}

// ListenAndServe serves HTTP traffic until context cancellation or a serve
// failure, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("api server is nil")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve api http: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api http server: %w", err)
		}
		return nil
	})
	return g.Wait()
}

// Close closes open server resources.
func (s *Server) Close() {
	if s == nil || s.httpServer == nil {
		return
	}
	_ = s.httpServer.Close()
}
