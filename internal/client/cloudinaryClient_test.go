package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"storefront-api/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParams(t *testing.T) {
	// sha1("folder=products&timestamp=1315060510abcd")
	got := signParams(map[string]string{
		"timestamp": "1315060510",
		"folder":    "products",
		"public_id": "",
	}, "abcd")
	assert.Equal(t, "dd8b2b335e5068a79944091ba366097eb6e40667", got)
	assert.Equal(t, got, signParams(map[string]string{"folder": "products", "timestamp": "1315060510"}, "abcd"))
}

func TestCloudinaryUpload(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		assert.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "key", r.FormValue("api_key"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))
		assert.Equal(t, "products", r.FormValue("folder"))
		assert.Equal(t, signParams(map[string]string{"timestamp": "1700000000", "folder": "products"}, "secret"), r.FormValue("signature"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		b, _ := io.ReadAll(f)
		assert.Equal(t, "shirt.png", hdr.Filename)
		assert.Equal(t, "png-bytes", string(b))

		_, _ = w.Write([]byte(`{"secure_url":"https://res.example.com/demo/products/shirt.png"}`))
	}))
	defer srv.Close()

	c := NewCloudinaryClient(&config.Cloudinary{
		BaseApiURL: srv.URL,
		CloudName:  "demo",
		APIKey:     "key",
		APISecret:  "secret",
		Folder:     "products",
		Timeout:    2 * time.Second,
		MaxRetries: 1,
	}).(*cloudinaryClientImpl)
	c.requester.backoff = time.Millisecond
	c.now = func() time.Time { return time.Unix(1700000000, 0) }

	url, err := c.Upload(context.Background(), "shirt.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.example.com/demo/products/shirt.png", url)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestCloudinaryMissingCredentials(t *testing.T) {
	c := NewCloudinaryClient(&config.Cloudinary{})
	_, err := c.Upload(context.Background(), "a.png", strings.NewReader("x"))
	require.ErrorContains(t, err, "not configured")
}
