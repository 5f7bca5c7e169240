package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	authsvc "github.com/aureliajewels/aurelia-backend/internal/auth"
	checkoutsvc "github.com/aureliajewels/aurelia-backend/internal/checkout"
	ordersvc "github.com/aureliajewels/aurelia-backend/internal/orders"
	packagingsvc "github.com/aureliajewels/aurelia-backend/internal/packaging"
	paymentsvc "github.com/aureliajewels/aurelia-backend/internal/payments"
	productsvc "github.com/aureliajewels/aurelia-backend/internal/products"
	ratesvc "github.com/aureliajewels/aurelia-backend/internal/rates"
	pkgauth "github.com/aureliajewels/aurelia-backend/pkg/auth"
	"github.com/aureliajewels/aurelia-backend/pkg/config"
	"github.com/aureliajewels/aurelia-backend/pkg/enums"
	"github.com/aureliajewels/aurelia-backend/pkg/logger"
	pkgredis "github.com/aureliajewels/aurelia-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(ctx context.Context, input authsvc.RegisterInput) (*authsvc.Session, error) {
	panic("unimplemented")
}

func (stubAuthService) Login(ctx context.Context, input authsvc.LoginInput) (*authsvc.Session, error) {
	panic("unimplemented")
}

type stubProductService struct{}

func (stubProductService) ListProducts(ctx context.Context, includeInactive bool) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}

func (stubProductService) GetProduct(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) CreateProduct(ctx context.Context, input productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(ctx context.Context, id uuid.UUID, input productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubRateService struct{}

func (stubRateService) LatestRates(ctx context.Context) ([]ratesvc.RateDTO, error) {
	return []ratesvc.RateDTO{}, nil
}

func (stubRateService) Snapshot(ctx context.Context) (map[enums.MetalKey]decimal.Decimal, error) {
	return map[enums.MetalKey]decimal.Decimal{}, nil
}

func (stubRateService) SetRate(ctx context.Context, input ratesvc.SetRateInput) (*ratesvc.RateDTO, error) {
	panic("unimplemented")
}

type stubPackagingService struct{}

func (stubPackagingService) ListItems(ctx context.Context) ([]packagingsvc.ItemDTO, error) {
	return []packagingsvc.ItemDTO{}, nil
}

func (stubPackagingService) CreateItem(ctx context.Context, input packagingsvc.CreateItemInput) (*packagingsvc.ItemDTO, error) {
	panic("unimplemented")
}

func (stubPackagingService) UpdateItem(ctx context.Context, id uuid.UUID, input packagingsvc.UpdateItemInput) (*packagingsvc.ItemDTO, error) {
	panic("unimplemented")
}

func (stubPackagingService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateOrder(ctx context.Context, userID uuid.UUID, input checkoutsvc.Input) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubCheckoutService) Quote(ctx context.Context, items []checkoutsvc.CartItem) (*checkoutsvc.QuoteDTO, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) GetOrder(ctx context.Context, orderID uuid.UUID, actor ordersvc.Actor) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]ordersvc.OrderSummaryDTO, error) {
	return []ordersvc.OrderSummaryDTO{}, nil
}

func (stubOrderService) ListAllOrders(ctx context.Context) ([]ordersvc.OrderSummaryDTO, error) {
	return []ordersvc.OrderSummaryDTO{}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, input ordersvc.UpdateStatusInput) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, input ordersvc.UpdatePaymentStatusInput) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

func (stubOrderService) UpdateTracking(ctx context.Context, orderID uuid.UUID, trackingNumber string) (*ordersvc.OrderDTO, error) {
	panic("unimplemented")
}

type stubPaymentService struct{}

func (stubPaymentService) CreateGatewayOrder(ctx context.Context, actor ordersvc.Actor, orderID uuid.UUID) (*paymentsvc.GatewayOrderDTO, error) {
	panic("unimplemented")
}

func (stubPaymentService) Verify(ctx context.Context, actor ordersvc.Actor, input paymentsvc.VerifyInput) (*paymentsvc.VerifyResult, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*pkgredis.Client)(nil),
		nil, // metrics registry
		nil, // http metrics
		stubAuthService{},
		stubProductService{},
		stubRateService{},
		stubPackagingService{},
		stubCheckoutService{},
		stubOrderService{},
		stubPaymentService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "router-test@example.com",
		Role:   role,
		JTI:    uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness got %d", resp.Code)
	}
}

func TestCatalogReadsArePublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/api/v1/products", "/api/v1/rates"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s got %d", path, resp.Code)
		}
	}
}

func TestOrdersGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestOrdersGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for order list got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestMetricsEndpointAbsentWithoutRegistry(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 when no registry is wired got %d", resp.Code)
	}
}
