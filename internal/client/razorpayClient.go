package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"storefront-api/internal/config"
	"storefront-api/internal/model"

	"github.com/shopspring/decimal"
)

type CreateGatewayOrderRequest struct {
	Amount   float64 // major units
	Currency string
	Receipt  string
}

type RazorpayClient interface {
	CreateOrder(ctx context.Context, req CreateGatewayOrderRequest) (*model.GatewayOrder, error)
}

type razorpayClientImpl struct {
	requester  *requester
	baseApiURL string
	keyID      string
	keySecret  string
}

func NewRazorpayClient(cfg *config.Razorpay) RazorpayClient {
	// order creation is not idempotent
	r := newRequester(cfg.Timeout, cfg.MaxRetries)
	r.unsentOnly = true

	return &razorpayClientImpl{
		requester:  r,
		baseApiURL: cfg.BaseApiURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
	}
}

// MinorUnits converts a major-unit amount to the smallest currency unit,
// rounding half away from zero.
func MinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (c *razorpayClientImpl) CreateOrder(ctx context.Context, in CreateGatewayOrderRequest) (*model.GatewayOrder, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, fmt.Errorf("razorpay credentials are not configured")
	}

	payload := map[string]interface{}{
		"amount":   MinorUnits(in.Amount),
		"currency": in.Currency,
		"receipt":  in.Receipt,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}

	auth := base64.StdEncoding.EncodeToString([]byte(c.keyID + ":" + c.keySecret))

	resp, err := c.requester.do(ctx, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseApiURL+"/v1/orders", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Basic "+auth)
		req.Header.Set("Content-Type", "application/json")
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		var gwErr model.GatewayError
		if json.Unmarshal(b, &gwErr) == nil && gwErr.Error.Description != "" {
			return nil, fmt.Errorf("razorpay error %d: %s", resp.StatusCode, gwErr.Error.Description)
		}
		return nil, fmt.Errorf("razorpay error %d: %s", resp.StatusCode, string(b))
	}

	var order model.GatewayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode razorpay response: %w", err)
	}

	return &order, nil
}
