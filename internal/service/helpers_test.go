package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront-api/internal/apperr"
	"storefront-api/internal/auth"
	"storefront-api/internal/client"
	"storefront-api/internal/config"
	"storefront-api/internal/dto"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	testJWTSecret     = "jwt-test-secret"
	testGatewaySecret = "rzp-test-secret"
	testAdminEmail    = "admin@shop.test"
	testAdminPassword = "admin-password"
)

type fakeGateway struct {
	mu       sync.Mutex
	requests []client.CreateGatewayOrderRequest
	err      error
	seq      int
}

func (g *fakeGateway) CreateOrder(_ context.Context, req client.CreateGatewayOrderRequest) (*model.GatewayOrder, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return nil, g.err
	}
	g.seq++
	return &model.GatewayOrder{
		ID:        "order_gw_" + string(rune('A'+g.seq-1)),
		Entity:    "order",
		Amount:    client.MinorUnits(req.Amount),
		AmountDue: client.MinorUnits(req.Amount),
		Currency:  req.Currency,
		Receipt:   req.Receipt,
		Status:    "created",
	}, nil
}

type fakeImages struct {
	mu      sync.Mutex
	uploads []string
	failOn  string
}

func (f *fakeImages) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	if filename == f.failOn {
		return "", errors.New("storage unavailable")
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, filename)
	f.mu.Unlock()
	return "https://cdn.test/" + filename, nil
}

type publishedEvent struct {
	routingKey string
	payload    any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishJSON(_ context.Context, routingKey string, v any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{routingKey: routingKey, payload: v})
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.routingKey
	}
	return out
}

type env struct {
	db        *gorm.DB
	tokens    *auth.TokenManager
	gateway   *fakeGateway
	images    *fakeImages
	publisher *recordingPublisher

	userRepo    repository.UserRepository
	cartRepo    repository.CartRepository
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository

	users    UserService
	carts    CartService
	orders   OrderService
	products ProductService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := client.InitDatabase(config.Database{Driver: "sqlite", URL: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	e := &env{
		db:        db,
		tokens:    auth.NewTokenManager(testJWTSecret, time.Hour),
		gateway:   &fakeGateway{},
		images:    &fakeImages{},
		publisher: &recordingPublisher{},

		userRepo:    repository.NewUserRepository(db),
		cartRepo:    repository.NewCartRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewProductRepository(db),
	}
	e.users = NewUserService(e.userRepo, e.tokens, config.Auth{
		JWTSecret:     testJWTSecret,
		AdminEmail:    testAdminEmail,
		AdminPassword: testAdminPassword,
	}, zap.NewNop())
	e.carts = NewCartService(db, e.cartRepo, e.userRepo)
	e.orders = NewOrderService(db, e.orderRepo, e.cartRepo, e.gateway, testGatewaySecret, e.publisher)
	e.products = NewProductService(e.productRepo, e.images)
	return e
}

// register creates a shopper and returns their id.
func (e *env) register(t *testing.T, name string) string {
	t.Helper()
	ctx := context.Background()
	_, err := e.users.Register(ctx, dto.RegisterRequest{
		Name:     name,
		Email:    strings.ToLower(name) + "@example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	u, err := e.userRepo.FindByEmail(ctx, strings.ToLower(name)+"@example.com")
	require.NoError(t, err)
	return u.ID
}

func orderRequest(amount float64) dto.PlaceOrderRequest {
	return dto.PlaceOrderRequest{
		Items: []*dto.OrderItem{
			{ProductID: "p1", Name: "Tee", Price: amount, Size: "M", Quantity: 1, Images: dto.Images{"https://cdn.test/tee.png"}},
		},
		Amount:  amount,
		Address: model.JSONMap{"street": "MG Road", "city": "Pune"},
	}
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}
