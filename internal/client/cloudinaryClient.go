package client

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"storefront-api/internal/config"
)

// ImageStore uploads product images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

type cloudinaryClientImpl struct {
	requester  *requester
	baseApiURL string
	cloudName  string
	apiKey     string
	apiSecret  string
	folder     string
	now        func() time.Time
}

func NewCloudinaryClient(cfg *config.Cloudinary) ImageStore {
	return &cloudinaryClientImpl{
		requester:  newRequester(cfg.Timeout, cfg.MaxRetries),
		baseApiURL: cfg.BaseApiURL,
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		folder:     cfg.Folder,
		now:        time.Now,
	}
}

// signParams signs the upload parameters: sorted key=value pairs joined by
// "&" with the API secret appended, then SHA-1 hex encoded.
func signParams(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, len(keys))
	for i, k := range keys {
		pairs[i] = k + "=" + params[k]
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

func (c *cloudinaryClientImpl) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if c.cloudName == "" || c.apiKey == "" || c.apiSecret == "" {
		return "", fmt.Errorf("cloudinary credentials are not configured")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read image %s: %w", filename, err)
	}

	params := map[string]string{
		"timestamp": strconv.FormatInt(c.now().Unix(), 10),
		"folder":    c.folder,
	}
	signature := signParams(params, c.apiSecret)
	url := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseApiURL, c.cloudName)

	resp, err := c.requester.do(ctx, func(ctx context.Context) (*http.Request, error) {
		var body bytes.Buffer
		w := multipart.NewWriter(&body)
		for k, v := range params {
			if v == "" {
				continue
			}
			if err := w.WriteField(k, v); err != nil {
				return nil, err
			}
		}
		if err := w.WriteField("api_key", c.apiKey); err != nil {
			return nil, err
		}
		if err := w.WriteField("signature", signature); err != nil {
			return nil, err
		}
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", w.FormDataContentType())
		return req, nil
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("cloudinary error %d: %s", resp.StatusCode, string(b))
	}

	var result struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode cloudinary response: %w", err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response has no secure_url")
	}

	return result.SecureURL, nil
}
