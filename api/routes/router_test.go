package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/feastlyhq/feastly-backend/internal/addresses"
	"github.com/feastlyhq/feastly-backend/internal/auth"
	"github.com/feastlyhq/feastly-backend/internal/cart"
	"github.com/feastlyhq/feastly-backend/internal/media"
	"github.com/feastlyhq/feastly-backend/internal/orders"
	"github.com/feastlyhq/feastly-backend/internal/profiles"
	"github.com/feastlyhq/feastly-backend/internal/restaurants"
	"github.com/feastlyhq/feastly-backend/internal/roles"
	pkgAuth "github.com/feastlyhq/feastly-backend/pkg/auth"
	"github.com/feastlyhq/feastly-backend/pkg/auth/session"
	"github.com/feastlyhq/feastly-backend/pkg/config"
	"github.com/feastlyhq/feastly-backend/pkg/enums"
	"github.com/feastlyhq/feastly-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error { return nil }

func (stubAuthService) Session(ctx context.Context, userID uuid.UUID) (*auth.SessionDTO, error) {
	return &auth.SessionDTO{}, nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

type stubProfileService struct{}

func (stubProfileService) Get(ctx context.Context, userID uuid.UUID) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

func (stubProfileService) Update(ctx context.Context, userID uuid.UUID, input profiles.UpdateProfileInput) (*profiles.ProfileDTO, error) {
	return &profiles.ProfileDTO{}, nil
}

type stubRoleService struct{}

func (stubRoleService) Assign(ctx context.Context, userID uuid.UUID, role enums.Role) (*roles.AssignmentDTO, error) {
	return &roles.AssignmentDTO{}, nil
}

func (stubRoleService) Get(ctx context.Context, userID uuid.UUID) (*roles.AssignmentDTO, error) {
	return &roles.AssignmentDTO{}, nil
}

type stubRestaurantService struct{}

func (stubRestaurantService) Create(ctx context.Context, ownerID uuid.UUID, input restaurants.CreateRestaurantInput) (*restaurants.RestaurantDTO, error) {
	return &restaurants.RestaurantDTO{}, nil
}

func (stubRestaurantService) GetByID(ctx context.Context, id uuid.UUID) (*restaurants.RestaurantDTO, error) {
	return &restaurants.RestaurantDTO{ID: id}, nil
}

func (stubRestaurantService) GetByKey(ctx context.Context, key string) (*restaurants.RestaurantDTO, error) {
	return &restaurants.RestaurantDTO{UniqueKey: key}, nil
}

func (stubRestaurantService) GetMine(ctx context.Context, ownerID uuid.UUID) (*restaurants.RestaurantDTO, error) {
	return &restaurants.RestaurantDTO{ID: uuid.New(), OwnerID: ownerID}, nil
}

func (stubRestaurantService) List(ctx context.Context, search string, limit, offset int) ([]restaurants.RestaurantDTO, error) {
	return []restaurants.RestaurantDTO{}, nil
}

func (stubRestaurantService) Update(ctx context.Context, ownerID uuid.UUID, input restaurants.UpdateRestaurantInput) (*restaurants.RestaurantDTO, error) {
	return &restaurants.RestaurantDTO{}, nil
}

func (stubRestaurantService) SetOpen(ctx context.Context, ownerID uuid.UUID, open bool) (*restaurants.RestaurantDTO, error) {
	return &restaurants.RestaurantDTO{IsOpen: open}, nil
}

func (stubRestaurantService) Menu(ctx context.Context, restaurantID uuid.UUID) ([]restaurants.MenuSectionDTO, error) {
	return []restaurants.MenuSectionDTO{}, nil
}

func (stubRestaurantService) OwnerMenu(ctx context.Context, ownerID uuid.UUID) ([]restaurants.MenuSectionDTO, error) {
	return []restaurants.MenuSectionDTO{}, nil
}

func (stubRestaurantService) AddSection(ctx context.Context, ownerID uuid.UUID, input restaurants.CreateSectionInput) (*restaurants.MenuSectionDTO, error) {
	return &restaurants.MenuSectionDTO{}, nil
}

func (stubRestaurantService) UpdateSection(ctx context.Context, ownerID, sectionID uuid.UUID, input restaurants.UpdateSectionInput) (*restaurants.MenuSectionDTO, error) {
	return &restaurants.MenuSectionDTO{}, nil
}

func (stubRestaurantService) DeleteSection(ctx context.Context, ownerID, sectionID uuid.UUID) error {
	return nil
}

func (stubRestaurantService) AddItem(ctx context.Context, ownerID uuid.UUID, input restaurants.CreateItemInput) (*restaurants.MenuItemDTO, error) {
	return &restaurants.MenuItemDTO{}, nil
}

func (stubRestaurantService) UpdateItem(ctx context.Context, ownerID, itemID uuid.UUID, input restaurants.UpdateItemInput) (*restaurants.MenuItemDTO, error) {
	return &restaurants.MenuItemDTO{}, nil
}

func (stubRestaurantService) DeleteItem(ctx context.Context, ownerID, itemID uuid.UUID) error {
	return nil
}

func (stubRestaurantService) SetItemAvailability(ctx context.Context, ownerID, itemID uuid.UUID, available bool) (*restaurants.MenuItemDTO, error) {
	return &restaurants.MenuItemDTO{IsAvailable: available}, nil
}

type stubCartService struct{}

func (stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) AddItem(ctx context.Context, userID, menuItemID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) UpdateQuantity(ctx context.Context, userID, menuItemID uuid.UUID, quantity int) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) RemoveItem(ctx context.Context, userID, menuItemID uuid.UUID) (*cart.CartDTO, error) {
	return &cart.CartDTO{}, nil
}

func (stubCartService) Clear(ctx context.Context, userID uuid.UUID) error { return nil }

func (stubCartService) Snapshot(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	return nil, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(ctx context.Context, customerID uuid.UUID, input orders.CreateOrderInput) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) CustomerOrders(ctx context.Context, customerID uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrderService) CustomerOrderByID(ctx context.Context, customerID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) RestaurantOrders(ctx context.Context, restaurantID uuid.UUID) ([]orders.OrderDTO, error) {
	return []orders.OrderDTO{}, nil
}

func (stubOrderService) RestaurantOrderByID(ctx context.Context, restaurantID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) UpdateStatus(ctx context.Context, restaurantID, orderID uuid.UUID, status enums.OrderStatus) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) Cancel(ctx context.Context, customerID, orderID uuid.UUID) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, status enums.PaymentStatus, transactionID *string) (*orders.OrderDTO, error) {
	return &orders.OrderDTO{}, nil
}

func (stubOrderService) Stats(ctx context.Context, restaurantID uuid.UUID) (*orders.OrderStats, error) {
	return &orders.OrderStats{}, nil
}

func (stubOrderService) DailyRevenue(ctx context.Context, restaurantID uuid.UUID, days int) ([]orders.RevenuePoint, error) {
	return []orders.RevenuePoint{}, nil
}

type stubMediaService struct{}

func (stubMediaService) Upload(ctx context.Context, input media.UploadInput) (*media.UploadResult, error) {
	return &media.UploadResult{URL: "https://cdn.example.com/upload/x.jpg"}, nil
}

type stubFavoritesService struct{}

func (stubFavoritesService) AddRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	return nil
}

func (stubFavoritesService) RemoveRestaurant(ctx context.Context, userID, restaurantID uuid.UUID) error {
	return nil
}

func (stubFavoritesService) Restaurants(ctx context.Context, userID uuid.UUID) ([]restaurants.RestaurantDTO, error) {
	return []restaurants.RestaurantDTO{}, nil
}

func (stubFavoritesService) AddMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error {
	return nil
}

func (stubFavoritesService) RemoveMenuItem(ctx context.Context, userID, menuItemID uuid.UUID) error {
	return nil
}

func (stubFavoritesService) MenuItems(ctx context.Context, userID uuid.UUID) ([]restaurants.MenuItemDTO, error) {
	return []restaurants.MenuItemDTO{}, nil
}

type stubAddressService struct{}

func (stubAddressService) Create(ctx context.Context, userID uuid.UUID, input addresses.CreateAddressInput) (*addresses.AddressDTO, error) {
	return &addresses.AddressDTO{}, nil
}

func (stubAddressService) List(ctx context.Context, userID uuid.UUID) ([]addresses.AddressDTO, error) {
	return []addresses.AddressDTO{}, nil
}

func (stubAddressService) Update(ctx context.Context, userID, addressID uuid.UUID, input addresses.UpdateAddressInput) (*addresses.AddressDTO, error) {
	return &addresses.AddressDTO{}, nil
}

func (stubAddressService) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0", CORSOrigins: "*"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:            cfg,
		Logger:            logg,
		DB:                stubPinger{},
		SessionChecker:    stubSessionChecker{},
		AuthService:       stubAuthService{},
		RegisterService:   stubRegisterService{},
		ProfileService:    stubProfileService{},
		RoleService:       stubRoleService{},
		RestaurantService: stubRestaurantService{},
		CartService:       stubCartService{},
		OrderService:      stubOrderService{},
		MediaService:      stubMediaService{},
		FavoritesService:  stubFavoritesService{},
		AddressService:    stubAddressService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, role *enums.Role) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicRestaurantsNeedNoToken(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurants", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCustomerGroupRejectsRolelessUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for roleless user got %d", resp.Code)
	}
	if got := redirectFrom(t, resp.Body.Bytes()); got != "/select-role" {
		t.Fatalf("expected /select-role redirect got %q", got)
	}
}

func TestProfileRejectsRolelessUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for roleless user got %d", resp.Code)
	}
	if got := redirectFrom(t, resp.Body.Bytes()); got != "/select-role" {
		t.Fatalf("expected /select-role redirect got %q", got)
	}
}

func TestRoleRoutesAdmitRolelessUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/roles/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for roleless user got %d", resp.Code)
	}
}

func TestOwnerGroupRequiresOwnerRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := enums.RoleCustomer
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owner/restaurant/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &customer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer got %d", resp.Code)
	}

	owner := enums.RoleOwner
	req = httptest.NewRequest(http.MethodGet, "/api/v1/owner/restaurant/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &owner))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for owner got %d", resp.Code)
	}
}

func TestCustomerGroupAcceptsCustomer(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := enums.RoleCustomer
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &customer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer got %d", resp.Code)
	}
}

func TestLoginRejectsSignedInUser(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	customer := enums.RoleCustomer
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &customer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for signed-in login got %d", resp.Code)
	}
	if got := redirectFrom(t, resp.Body.Bytes()); got != "/" {
		t.Fatalf("expected / redirect got %q", got)
	}
}

func TestOwnerOrdersResolveThroughOwnedRestaurant(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	owner := enums.RoleOwner
	req := httptest.NewRequest(http.MethodGet, "/api/v1/owner/orders/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, &owner))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func redirectFrom(t *testing.T, body []byte) string {
	t.Helper()
	var payload struct {
		Error struct {
			RedirectTo string `json:"redirect_to"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return payload.Error.RedirectTo
}
