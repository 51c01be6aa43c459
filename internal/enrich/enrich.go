// Package enrich resolves company profile identifiers from an external
// company-registry API. Enrichment is strictly optional: callers treat a
// failed or disabled lookup as "no profile".
package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 10 * time.Second

// Client queries the company-registry HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a registry client. A nil httpClient falls back to a
// default client with a request timeout.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

// companyResponse mirrors the relevant fields of the registry response.
type companyResponse struct {
	ID string `json:"id"`
}

// Lookup resolves companyName to a registry profile id. An unknown company
// is an error so the caller records no profile rather than an empty one.
func (c *Client) Lookup(ctx context.Context, companyName string) (string, error) {
	endpoint := c.baseURL + "/v1/companies?name=" + url.QueryEscape(companyName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("create registry request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("registry request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read registry response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("company %q not found in registry", companyName)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("registry returned HTTP %d: %s", resp.StatusCode, string(body))
	}

	var company companyResponse
	if err := json.Unmarshal(body, &company); err != nil {
		return "", fmt.Errorf("parse registry response: %w", err)
	}
	if company.ID == "" {
		return "", fmt.Errorf("registry returned no id for %q", companyName)
	}
	return company.ID, nil
}
