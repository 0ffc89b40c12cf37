// Package twitter provides a client for the Twitter v1.1 friends list API.
package twitter

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// DefaultCount is the number of followers requested per lookup.
const DefaultCount = 20

// ErrMalformedResponse is returned when a JSON body carries no users array.
var ErrMalformedResponse = eris.New("twitter: malformed friends list response")

// Client returns the followers of an account as (name, raw location) pairs.
type Client interface {
	// Followers fetches up to the configured count of followers of screenName.
	Followers(ctx context.Context, screenName, bearerToken string) ([]Follower, error)
}

// Follower is a single entry of the friends list.
type Follower struct {
	ScreenName string `json:"screen_name"`
	Location   string `json:"location"`
}

type friendsListResponse struct {
	Users *[]Follower `json:"users"`
}

type apiErrorResponse struct {
	Errors []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// Option configures the Twitter client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithCount sets how many followers are requested. Values <= 0 are ignored.
func WithCount(n int) Option {
	return func(c *httpClient) {
		if n > 0 {
			c.count = n
		}
	}
}

type httpClient struct {
	baseURL string
	count   int
	http    *http.Client
}

// NewClient creates a new Twitter friends list client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://api.twitter.com",
		count:   DefaultCount,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) Followers(ctx context.Context, screenName, bearerToken string) ([]Follower, error) {
	params := url.Values{
		"screen_name": {screenName},
		"count":       {strconv.Itoa(c.count)},
	}
	reqURL := c.baseURL + "/1.1/friends/list.json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "twitter: create request")
	}
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "twitter: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "twitter: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, body)
	}

	return ParseFollowers(body)
}

// ParseFollowers decodes a friends list body into followers, preserving order.
func ParseFollowers(body []byte) ([]Follower, error) {
	var parsed friendsListResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, eris.Wrap(err, "twitter: decode friends list")
	}
	if parsed.Users == nil {
		return nil, ErrMalformedResponse
	}
	return *parsed.Users, nil
}

// statusError prefers the message from Twitter's error envelope when present.
func statusError(code int, body []byte) error {
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && len(apiErr.Errors) > 0 {
		e := apiErr.Errors[0]
		return eris.Errorf("twitter: unexpected status %d: code %d: %s", code, e.Code, e.Message)
	}
	return eris.Errorf("twitter: unexpected status %d: %s", code, string(body))
}
