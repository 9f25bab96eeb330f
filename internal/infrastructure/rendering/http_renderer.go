package rendering

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	appbilling "github.com/printchain/backend/internal/application/billing"
	"github.com/google/uuid"
)

const renderInvoicePath = "/v1/render/invoice"

// Config holds the rendering service connection settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("rendering: base URL is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("rendering: timeout must be positive")
	}
	return nil
}

// HTTPRenderer renders documents through the external rendering service.
// The service owns layout and storage; only the stored file ID comes back.
type HTTPRenderer struct {
	config     *Config
	httpClient *http.Client
}

// NewHTTPRenderer creates a new HTTPRenderer
func NewHTTPRenderer(config *Config) (*HTTPRenderer, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &HTTPRenderer{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

type renderRequest struct {
	InvoiceID string `json:"invoice_id"`
}

type renderResponse struct {
	FileID string `json:"file_id"`
	Error  string `json:"error,omitempty"`
}

// RenderInvoice renders an invoice and returns the file ID
func (r *HTTPRenderer) RenderInvoice(ctx context.Context, invoiceID uuid.UUID) (string, error) {
	bodyBytes, err := json.Marshal(renderRequest{InvoiceID: invoiceID.String()})
	if err != nil {
		return "", fmt.Errorf("rendering: failed to marshal request: %w", err)
	}

	url := strings.TrimRight(r.config.BaseURL, "/") + renderInvoicePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("rendering: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("rendering: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("rendering: failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("rendering: service returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var rendered renderResponse
	if err := json.Unmarshal(respBody, &rendered); err != nil {
		return "", fmt.Errorf("rendering: failed to parse response: %w", err)
	}
	if rendered.FileID == "" {
		return "", fmt.Errorf("rendering: service returned no file ID: %s", rendered.Error)
	}

	return rendered.FileID, nil
}

var _ appbilling.DocumentRenderer = (*HTTPRenderer)(nil)
