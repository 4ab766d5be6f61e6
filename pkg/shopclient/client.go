// Package shopclient is a typed HTTP client for the storefront API together
// with a Session that holds the shopper's token and a mirror of their cart.
package shopclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New returns a client for the API rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/") + "/api",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, method, path, token string, in any, out any) error {
	var body io.Reader
	contentType := ""
	switch v := in.(type) {
	case nil:
	case *multipartBody:
		body = v.buf
		contentType = v.contentType
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var env envelope
		if json.Unmarshal(raw, &env) != nil || env.Message == "" {
			env.Message = http.StatusText(resp.StatusCode)
		}
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/users/register", "", map[string]string{
		"name": name, "email": email, "password": password,
	}, &res)
	return res.Token, err
}

func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	var res struct {
		Token string `json:"token"`
		User  *User  `json:"user"`
	}
	err := c.do(ctx, http.MethodPost, "/users/login", "", map[string]string{
		"email": email, "password": password,
	}, &res)
	return res.Token, res.User, err
}

func (c *Client) AdminLogin(ctx context.Context, email, password string) (string, error) {
	var res struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/users/admin", "", map[string]string{
		"email": email, "password": password,
	}, &res)
	return res.Token, err
}

type cartResponse struct {
	Cart Cart `json:"cart"`
}

func (c *Client) AddToCart(ctx context.Context, token, itemID, size string) (Cart, error) {
	var res cartResponse
	err := c.do(ctx, http.MethodPost, "/cart/add", token, map[string]string{"itemId": itemID, "size": size}, &res)
	return res.Cart, err
}

func (c *Client) GetCart(ctx context.Context, token string) (Cart, error) {
	var res cartResponse
	err := c.do(ctx, http.MethodGet, "/cart/get", token, nil, &res)
	return res.Cart, err
}

func (c *Client) RemoveFromCart(ctx context.Context, token, itemID, size string) (Cart, error) {
	q := url.Values{"itemId": {itemID}, "size": {size}}
	var res cartResponse
	err := c.do(ctx, http.MethodDelete, "/cart/remove?"+q.Encode(), token, nil, &res)
	return res.Cart, err
}

func (c *Client) ClearCart(ctx context.Context, token string) (Cart, error) {
	var res cartResponse
	err := c.do(ctx, http.MethodDelete, "/cart/clear", token, nil, &res)
	return res.Cart, err
}

type orderResponse struct {
	Order *Order `json:"order"`
}

type ordersResponse struct {
	Orders []*Order `json:"orders"`
}

func (c *Client) PlaceOrder(ctx context.Context, token string, req PlaceOrderRequest) (*Order, error) {
	var res orderResponse
	err := c.do(ctx, http.MethodPost, "/order/place", token, req, &res)
	return res.Order, err
}

func (c *Client) PlaceGatewayOrder(ctx context.Context, token string, req PlaceOrderRequest) (*GatewayOrder, *Order, error) {
	var res struct {
		Order   *GatewayOrder `json:"order"`
		DBOrder *Order        `json:"dbOrder"`
	}
	err := c.do(ctx, http.MethodPost, "/order/razorpay", token, req, &res)
	return res.Order, res.DBOrder, err
}

func (c *Client) VerifyPayment(ctx context.Context, token string, req VerifyPaymentRequest) (*Order, error) {
	var res orderResponse
	err := c.do(ctx, http.MethodPost, "/order/verify", token, req, &res)
	return res.Order, err
}

func (c *Client) UserOrders(ctx context.Context, token string) ([]*Order, error) {
	var res ordersResponse
	err := c.do(ctx, http.MethodPost, "/order/userorders", token, struct{}{}, &res)
	return res.Orders, err
}

func (c *Client) AllOrders(ctx context.Context, adminToken string) ([]*Order, error) {
	var res ordersResponse
	err := c.do(ctx, http.MethodGet, "/order/allorders", adminToken, nil, &res)
	return res.Orders, err
}

func (c *Client) UpdateStatus(ctx context.Context, adminToken, orderID, status string) (*Order, error) {
	var res orderResponse
	err := c.do(ctx, http.MethodPost, "/order/status", adminToken, map[string]string{
		"orderId": orderID, "status": status,
	}, &res)
	return res.Order, err
}

func (c *Client) ListProducts(ctx context.Context) ([]*Product, error) {
	var res struct {
		Products []*Product `json:"products"`
	}
	err := c.do(ctx, http.MethodGet, "/products/list", "", nil, &res)
	return res.Products, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	var res struct {
		Product *Product `json:"product"`
	}
	err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), "", nil, &res)
	return res.Product, err
}

func (c *Client) RemoveProduct(ctx context.Context, adminToken, id string) (*Product, error) {
	var res struct {
		Product *Product `json:"product"`
	}
	err := c.do(ctx, http.MethodPost, "/products/remove", adminToken, map[string]string{"id": id}, &res)
	return res.Product, err
}

type multipartBody struct {
	buf         *bytes.Buffer
	contentType string
}

func (c *Client) AddProduct(ctx context.Context, adminToken string, p NewProduct) (*Product, error) {
	sizes, err := json.Marshal(p.Sizes)
	if err != nil {
		return nil, fmt.Errorf("marshal sizes: %w", err)
	}

	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fields := map[string]string{
		"name":        p.Name,
		"description": p.Description,
		"price":       strconv.FormatFloat(p.Price, 'f', -1, 64),
		"category":    p.Category,
		"subCategory": p.SubCategory,
		"sizes":       string(sizes),
		"bestSeller":  strconv.FormatBool(p.BestSeller),
		"featured":    strconv.FormatBool(p.Featured),
		"newArrival":  strconv.FormatBool(p.NewArrival),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	for i, img := range p.Images {
		if i == 4 {
			break
		}
		fw, err := w.CreateFormFile(fmt.Sprintf("image%d", i+1), img.Name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(img.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var res struct {
		Product *Product `json:"product"`
	}
	err = c.do(ctx, http.MethodPost, "/products/add", adminToken, &multipartBody{buf: buf, contentType: w.FormDataContentType()}, &res)
	return res.Product, err
}
