package shopclient

import (
	"context"
	"errors"
	"sync"
)

var ErrNotLoggedIn = errors.New("storefront: not logged in")

// Session holds a shopper's token and a local copy of their cart. The copy
// is display state only: after every mutation it is replaced by a fresh read
// of the server cart.
type Session struct {
	client *Client

	mu    sync.RWMutex
	token string
	user  *User
	cart  Cart
}

func NewSession(c *Client) *Session {
	return &Session{client: c, cart: Cart{}}
}

// Resume starts a session from a previously issued token.
func (s *Session) Resume(ctx context.Context, token string) error {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return s.Refresh(ctx)
}

func (s *Session) Register(ctx context.Context, name, email, password string) error {
	token, err := s.client.Register(ctx, name, email, password)
	if err != nil {
		return err
	}
	return s.Resume(ctx, token)
}

func (s *Session) Login(ctx context.Context, email, password string) error {
	token, user, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return s.Resume(ctx, token)
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.user = nil
	s.cart = Cart{}
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Cart returns a copy of the mirrored cart.
func (s *Session) Cart() Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(Cart, len(s.cart))
	for id, sizes := range s.cart {
		inner := make(map[string]int, len(sizes))
		for size, qty := range sizes {
			inner[size] = qty
		}
		out[id] = inner
	}
	return out
}

func (s *Session) CartCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Count()
}

func (s *Session) requireToken() (string, error) {
	token := s.Token()
	if token == "" {
		return "", ErrNotLoggedIn
	}
	return token, nil
}

// Refresh replaces the local cart with the server's.
func (s *Session) Refresh(ctx context.Context) error {
	token, err := s.requireToken()
	if err != nil {
		return err
	}
	cart, err := s.client.GetCart(ctx, token)
	if err != nil {
		return err
	}
	if cart == nil {
		cart = Cart{}
	}
	s.mu.Lock()
	if s.token == token {
		s.cart = cart
	}
	s.mu.Unlock()
	return nil
}

// mutate runs fn with the current token and then refreshes the cart, even
// when fn failed, so the mirror never keeps an optimistic value.
func (s *Session) mutate(ctx context.Context, fn func(token string) error) error {
	token, err := s.requireToken()
	if err != nil {
		return err
	}
	opErr := fn(token)
	if err := s.Refresh(ctx); err != nil && opErr == nil {
		return err
	}
	return opErr
}

func (s *Session) AddToCart(ctx context.Context, itemID, size string) error {
	return s.mutate(ctx, func(token string) error {
		_, err := s.client.AddToCart(ctx, token, itemID, size)
		return err
	})
}

func (s *Session) RemoveFromCart(ctx context.Context, itemID, size string) error {
	return s.mutate(ctx, func(token string) error {
		_, err := s.client.RemoveFromCart(ctx, token, itemID, size)
		return err
	})
}

func (s *Session) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, func(token string) error {
		_, err := s.client.ClearCart(ctx, token)
		return err
	})
}

func (s *Session) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	var order *Order
	err := s.mutate(ctx, func(token string) error {
		var err error
		order, err = s.client.PlaceOrder(ctx, token, req)
		return err
	})
	return order, err
}

func (s *Session) PlaceGatewayOrder(ctx context.Context, req PlaceOrderRequest) (*GatewayOrder, *Order, error) {
	var (
		gw    *GatewayOrder
		order *Order
	)
	err := s.mutate(ctx, func(token string) error {
		var err error
		gw, order, err = s.client.PlaceGatewayOrder(ctx, token, req)
		return err
	})
	return gw, order, err
}

func (s *Session) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*Order, error) {
	var order *Order
	err := s.mutate(ctx, func(token string) error {
		var err error
		order, err = s.client.VerifyPayment(ctx, token, req)
		return err
	})
	return order, err
}

func (s *Session) Orders(ctx context.Context) ([]*Order, error) {
	token, err := s.requireToken()
	if err != nil {
		return nil, err
	}
	return s.client.UserOrders(ctx, token)
}
