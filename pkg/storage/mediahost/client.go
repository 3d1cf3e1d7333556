package mediahost

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/velora-app/velora-backend/pkg/config"
	"github.com/velora-app/velora-backend/pkg/enums"
	"github.com/velora-app/velora-backend/pkg/logger"
)

const (
	defaultBaseURL = "https://api.mediahost.io"
	pingTimeout    = 5 * time.Second
)

// Client talks to the external media host over its signed REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	uploadDir  string
	now        func() time.Time
}

// Pinger exposes the health check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Asset describes a stored object as reported by the host.
type Asset struct {
	PublicID string `json:"public_id"`
	URL      string `json:"secure_url"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int64  `json:"bytes"`
}

// Option tweaks client construction.
type Option func(*Client)

// WithBaseURL points the client at a different API host.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithClock overrides the timestamp source used for request signatures.
func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

// NewClient builds a media host client from configuration.
func NewClient(cfg config.MediaHostConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if cfg.CloudName == "" {
		return nil, errors.New("media host cloud name is required")
	}
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("media host api credentials are required")
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		uploadDir:  cfg.UploadDir,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(client)
	}

	if logg != nil {
		logg.Info(context.Background(), "media host client initialized")
	}
	return client, nil
}

// Upload pushes the asset bytes to the host and returns its descriptor.
func (c *Client) Upload(ctx context.Context, kind enums.MediaKind, fileName string, data io.Reader) (*Asset, error) {
	if c == nil {
		return nil, errors.New("media host client not initialized")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("invalid media kind %q", kind)
	}
	if data == nil {
		return nil, errors.New("upload data is required")
	}

	timestamp := fmt.Sprintf("%d", c.now().UTC().Unix())
	params := map[string]string{
		"timestamp": timestamp,
	}
	if c.uploadDir != "" {
		params["folder"] = c.uploadDir
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)
	for key, value := range params {
		if err := writer.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("write field %s: %w", key, err)
		}
	}
	if err := writer.WriteField("api_key", c.apiKey); err != nil {
		return nil, fmt.Errorf("write field api_key: %w", err)
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return nil, fmt.Errorf("write field signature: %w", err)
	}
	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return nil, fmt.Errorf("create file part: %w", err)
	}
	if _, err := io.Copy(part, data); err != nil {
		return nil, fmt.Errorf("copy upload data: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finalize multipart body: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/upload", c.baseURL, url.PathEscape(c.cloudName), resourceType(kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(body.String()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	asset := &Asset{}
	if err := c.do(req, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// Destroy removes an asset by its public id.
func (c *Client) Destroy(ctx context.Context, kind enums.MediaKind, publicID string) error {
	if c == nil {
		return errors.New("media host client not initialized")
	}
	if publicID == "" {
		return errors.New("public id is required")
	}

	timestamp := fmt.Sprintf("%d", c.now().UTC().Unix())
	params := map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}

	form := url.Values{}
	for key, value := range params {
		form.Set(key, value)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("%s/v1_1/%s/%s/destroy", c.baseURL, url.PathEscape(c.cloudName), resourceType(kind))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var result struct {
		Result string `json:"result"`
	}
	if err := c.do(req, &result); err != nil {
		return err
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("destroy %s: unexpected result %q", publicID, result.Result)
	}
	return nil
}

// Ping verifies credentials against the host's ping endpoint.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil {
		return errors.New("media host client not initialized")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1_1/%s/ping", c.baseURL, url.PathEscape(c.cloudName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.apiKey, c.apiSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("media host ping failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("media host ping failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("media host request failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode media host response: %w", err)
	}
	return nil
}

// sign builds the request signature: the sorted query string of the signed
// params with the api secret appended, hashed with sha1.
func (c *Client) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for key := range params {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, key+"="+params[key])
	}
	payload := strings.Join(pairs, "&") + c.apiSecret

	sum := sha1.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

func resourceType(kind enums.MediaKind) string {
	if kind == enums.MediaKindVideo {
		return "video"
	}
	return "image"
}
