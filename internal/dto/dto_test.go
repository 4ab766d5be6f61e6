package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImagesAcceptsStringOrList(t *testing.T) {
	var item OrderItem
	require.NoError(t, json.Unmarshal([]byte(`{"productId":"p1","size":"M","quantity":1,"images":"a.png"}`), &item))
	assert.Equal(t, Images{"a.png"}, item.Images)

	require.NoError(t, json.Unmarshal([]byte(`{"images":["a.png","b.png"]}`), &item))
	assert.Equal(t, Images{"a.png", "b.png"}, item.Images)

	require.NoError(t, json.Unmarshal([]byte(`{"images":null}`), &item))
	assert.Equal(t, Images{}, item.Images)

}

func TestImagesMalformedDecodesEmpty(t *testing.T) {
	for _, raw := range []string{`{"0":"a.png"}`, `42`, `[1,2]`, `true`, `["a.png",3]`} {
		t.Run(raw, func(t *testing.T) {
			var req PlaceOrderRequest
			body := `{"items":[{"productId":"p1","size":"M","quantity":1,"images":` + raw + `}],"amount":10}`
			require.NoError(t, json.Unmarshal([]byte(body), &req))
			require.Len(t, req.Items, 1)
			assert.Equal(t, Images{}, req.Items[0].Images)
			assert.Equal(t, "p1", req.Items[0].ProductID)
		})
	}
}

func TestVerifyPaymentRequestNormalize(t *testing.T) {
	var req VerifyPaymentRequest
	require.NoError(t, json.Unmarshal([]byte(`{"razorpay_order_id":"order_1","razorpay_payment_id":"pay_1","razorpay_signature":"sig"}`), &req))
	req.Normalize()

	assert.Equal(t, "order_1", req.GatewayOrderID)
	assert.Equal(t, "pay_1", req.GatewayPaymentID)
	assert.Equal(t, "sig", req.Signature)

	req = VerifyPaymentRequest{GatewayOrderID: "a", RazorpayOrderID: "b"}
	req.Normalize()
	assert.Equal(t, "a", req.GatewayOrderID)
}
