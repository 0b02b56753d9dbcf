package vagon

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"vagondeck/internal/logger"
)

// ProductionURL is the default Vagon API base URL.
const ProductionURL = "https://api.vagon.io"

const basePath = "/organization-management/v1"

// Payload is a decoded vendor response. Records are vendor-owned and opaque;
// the dashboard forwards them without local validation.
type Payload map[string]interface{}

// ObserveFunc is called once per vendor request with the HTTP status of the
// response (0 when the request never got one). It lets the router feed metrics
// without this package importing them.
type ObserveFunc func(method, path string, status int, elapsed time.Duration)

// Client talks to the Vagon organization-management API. Each method maps to
// exactly one vendor endpoint: no retries, no caching, no pagination
// aggregation beyond passing page/per_page through.
type Client struct {
	apiKey     string
	apiSecret  string
	baseURL    string
	httpClient *http.Client
	observe    ObserveFunc

	// injectable for deterministic signature tests
	now   func() time.Time
	nonce func() string
}

// NewClient builds a client for the given credentials. baseURL falls back to
// the production API when empty.
func NewClient(apiKey, apiSecret, baseURL string) *Client {
	if baseURL == "" {
		baseURL = ProductionURL
	}
	return &Client{
		apiKey:     apiKey,
		apiSecret:  apiSecret,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		now:        time.Now,
		nonce:      uuid.NewString,
	}
}

// SetObserver registers a hook invoked after every vendor request.
func (c *Client) SetObserver(fn ObserveFunc) {
	c.observe = fn
}

// APIError is a non-success response from the vendor. ClientCode carries the
// vendor's extended error code (e.g. 440 AWS capacity, 480 insufficient
// funds) and defaults to the HTTP status when absent.
type APIError struct {
	StatusCode int
	ClientCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%d] %s", e.ClientCode, e.Message)
}

// signature computes the hex HMAC-SHA256 over
// api_key + METHOD + path + timestamp + nonce + body, keyed with the secret.
// The path excludes query parameters; the body is byte-identical to the bytes
// sent on the wire.
func (c *Client) signature(method, path, timestamp, nonce, body string) string {
	mac := hmac.New(sha256.New, []byte(c.apiSecret))
	mac.Write([]byte(c.apiKey + method + path + timestamp + nonce + body))
	return hex.EncodeToString(mac.Sum(nil))
}

// authHeader builds the Authorization value:
// HMAC api_key:signature:nonce:timestamp (timestamp in Unix milliseconds).
func (c *Client) authHeader(method, path, body string) string {
	nonce := c.nonce()
	timestamp := strconv.FormatInt(c.now().UnixMilli(), 10)
	sig := c.signature(method, path, timestamp, nonce, body)
	return fmt.Sprintf("HMAC %s:%s:%s:%s", c.apiKey, sig, nonce, timestamp)
}

func (c *Client) request(ctx context.Context, method, path string, params url.Values, body interface{}) (Payload, error) {
	var bodyStr string
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyStr = string(raw)
	}

	auth := c.authHeader(method, path, bodyStr)

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reader io.Reader
	if bodyStr != "" {
		reader = strings.NewReader(bodyStr)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", auth)
	if bodyStr != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.observe != nil {
			c.observe(method, path, 0, time.Since(start))
		}
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if c.observe != nil {
		c.observe(method, path, resp.StatusCode, time.Since(start))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp.StatusCode, raw)
	}

	if len(raw) == 0 {
		return Payload{}, nil
	}

	var out Payload
	if err := json.Unmarshal(raw, &out); err != nil {
		// The vendor occasionally answers 2xx with a non-JSON body;
		// treat it as an empty result like an empty body.
		logger.WithFields(map[string]interface{}{
			"method": method,
			"path":   path,
		}).Debug("vendor returned non-JSON success body")
		return Payload{}, nil
	}
	return out, nil
}

// parseError extracts {message|error, client_code} from an error body,
// degrading to the raw text and then to a synthetic message.
func parseError(status int, raw []byte) *APIError {
	var envelope struct {
		Message    string `json:"message"`
		Err        string `json:"error"`
		ClientCode int    `json:"client_code"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil {
		msg := envelope.Message
		if msg == "" {
			msg = envelope.Err
		}
		if msg == "" {
			msg = "Unknown error"
		}
		code := envelope.ClientCode
		if code == 0 {
			code = status
		}
		return &APIError{StatusCode: status, ClientCode: code, Message: msg}
	}

	text := strings.TrimSpace(string(raw))
	if text == "" {
		text = fmt.Sprintf("HTTP %d - No response body", status)
	}
	return &APIError{StatusCode: status, ClientCode: status, Message: text}
}
