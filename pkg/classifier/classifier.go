// Package classifier is an HTTP client for the external image classification
// service. It forwards an uploaded image to the service's /predict endpoint
// and returns the structured result.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// ErrClassificationFailed covers any transport failure, non-success status
// or unreadable response from the classification service.
var ErrClassificationFailed = errors.New("classification service request failed")

// Config holds classification service connection details.
type Config struct {
	BaseURL string
	Timeout time.Duration // zero means a 30s default
}

// Client calls the external classification service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new classification service client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Result is the classification service's response. WasteType is the label
// consumed by the impact estimator; Raw preserves every field the service
// returned so callers can pass them through verbatim.
type Result struct {
	WasteType string
	Raw       map[string]interface{}
}

// Classify sends the image to the service's /predict endpoint as a multipart
// form and decodes the JSON result. The request is bounded by ctx and by the
// client timeout; any failure comes back wrapped in ErrClassificationFailed.
func (c *Client) Classify(ctx context.Context, image []byte, filename, contentType, language string) (*Result, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/predict?language=%s", c.baseURL, url.QueryEscape(language))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrClassificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: unexpected status %d", ErrClassificationFailed, resp.StatusCode)
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: invalid response body: %v", ErrClassificationFailed, err)
	}

	wasteType, _ := raw["wasteType"].(string)
	return &Result{
		WasteType: wasteType,
		Raw:       raw,
	}, nil
}
