// Package apollo provides access to the Apollo.io people enrichment API.
package apollo

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Client performs Apollo people-match operations.
type Client interface {
	PeopleMatch(ctx context.Context, req MatchRequest) (*MatchResponse, error)
	BulkMatch(ctx context.Context, req BulkMatchRequest) (*BulkMatchResponse, error)
}

// MatchRequest is the request body for POST /people/match. Exactly one of
// OrganizationDomain or OrganizationName should be set; domain matching is
// the higher-precision key.
type MatchRequest struct {
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name,omitempty"`
	OrganizationName   string `json:"organization_name,omitempty"`
	OrganizationDomain string `json:"domain,omitempty"`
}

// MatchResponse is the response from POST /people/match. Person is nil when
// no contact was found.
type MatchResponse struct {
	Person *Person `json:"person"`
}

// Person is a matched contact record.
type Person struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Title string `json:"title,omitempty"`
	Email string `json:"email,omitempty"`
}

// MatchDetail is a single item in a bulk match request.
type MatchDetail struct {
	ID                 string `json:"id,omitempty"`
	FirstName          string `json:"first_name,omitempty"`
	LastName           string `json:"last_name,omitempty"`
	OrganizationName   string `json:"organization_name,omitempty"`
	OrganizationDomain string `json:"domain,omitempty"`
}

// BulkMatchRequest is the request body for POST /people/bulk_match.
// The provider caps Details at 10 per call.
type BulkMatchRequest struct {
	Details []MatchDetail `json:"details"`
}

// BulkMatchResponse holds the matched people from a bulk call.
//
// Depending on account configuration Apollo nests the result collection under
// different field names. Decoding probes the known names in order and accepts
// the first present, non-null one, so the ambiguity stays inside this type.
type BulkMatchResponse struct {
	Matches []Person
}

// bulkCollectionKeys are the response field names observed across Apollo
// account configurations, in probe order.
var bulkCollectionKeys = []string{"people", "persons", "contacts", "matches"}

// UnmarshalJSON probes the known collection field names in order.
func (r *BulkMatchResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for _, key := range bulkCollectionKeys {
		field, ok := raw[key]
		if !ok || string(field) == "null" {
			continue
		}
		var people []Person
		if err := json.Unmarshal(field, &people); err != nil {
			return eris.Wrapf(err, "apollo: decode %q collection", key)
		}
		r.Matches = people
		return nil
	}
	r.Matches = nil
	return nil
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit sets a per-second request rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), max(int(rps), 1))
		}
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an Apollo.io API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) PeopleMatch(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	var result MatchResponse
	if err := c.post(ctx, "/people/match", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) BulkMatch(ctx context.Context, req BulkMatchRequest) (*BulkMatchResponse, error) {
	var result BulkMatchResponse
	if err := c.post(ctx, "/people/bulk_match", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) post(ctx context.Context, path string, req any, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "apollo: rate limit")
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return eris.Wrap(err, "apollo: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return eris.Wrap(err, "apollo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return eris.Wrap(err, "apollo: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "apollo: read response")
	}

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("apollo: unexpected status %d: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return eris.Wrap(err, "apollo: unmarshal response")
	}

	return nil
}
