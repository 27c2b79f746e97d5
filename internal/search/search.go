// Package search is the boundary to the external company-search provider.
// Results are candidates only: nothing returned here is persisted until it
// goes through the repository's create-then-link path.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnavailable is returned when the provider cannot be reached or answers
// with a non-200 status.
var ErrUnavailable = errors.New("search provider unavailable")

// Candidate is a company-shaped record returned by the provider.
type Candidate struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

// Provider supplies candidate companies by free-text query.
type Provider interface {
	Search(ctx context.Context, query string) ([]Candidate, error)
}

// HTTPProvider implements Provider against a JSON search API.
type HTTPProvider struct {
	client   *http.Client
	baseURL  string
	apiKey   string
	engineID string
}

// NewHTTPProvider creates a Provider for the given endpoint.
func NewHTTPProvider(baseURL, apiKey, engineID string) *HTTPProvider {
	return &HTTPProvider{
		client:   &http.Client{Timeout: 10 * time.Second},
		baseURL:  baseURL,
		apiKey:   apiKey,
		engineID: engineID,
	}
}

type searchResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the provider and maps its items to candidates.
func (p *HTTPProvider) Search(ctx context.Context, query string) ([]Candidate, error) {
	u, err := url.Parse(p.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing search base URL: %w", err)
	}

	q := u.Query()
	q.Set("key", p.apiKey)
	q.Set("cx", p.engineID)
	q.Set("q", query)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building search request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ErrUnavailable
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	candidates := make([]Candidate, 0, len(body.Items))
	for _, item := range body.Items {
		candidates = append(candidates, Candidate{
			Name:        item.Title,
			Website:     item.Link,
			Description: item.Snippet,
		})
	}

	return candidates, nil
}
