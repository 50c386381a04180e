// Package recipeapi is the HTTP transport for the recipe search API.
package recipeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"philcali.me/foodrecipes/internal/data"
	"philcali.me/foodrecipes/internal/exceptions"
	"philcali.me/foodrecipes/internal/metrics"
	"philcali.me/foodrecipes/internal/provider"
)

const (
	DefaultBaseURL   = "https://recipesapi.herokuapp.com"
	defaultUserAgent = "foodrecipes/1.0"
)

type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(u, "/")
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithRateLimiter makes every call wait for a token first. Waiting honours
// the request context, so a cancelled search stops waiting too.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:   DefaultBaseURL,
		userAgent: defaultUserAgent,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ provider.RemoteRecipeClient = (*Client)(nil)

func (c *Client) SearchRecipe(ctx context.Context, apiKey string, query string, page string) (*data.Response[data.RecipeSearchResponse], error) {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("q", query)
	params.Set("page", page)
	return _apiRequest[data.RecipeSearchResponse](ctx, c, "search", params)
}

func (c *Client) GetRecipe(ctx context.Context, apiKey string, recipeId string) (*data.Response[data.RecipeResponse], error) {
	params := url.Values{}
	params.Set("key", apiKey)
	params.Set("rId", recipeId)
	return _apiRequest[data.RecipeResponse](ctx, c, "get", params)
}

func _apiRequest[T interface{}](ctx context.Context, c *Client, resource string, params url.Values) (*data.Response[T], error) {
	start := time.Now()
	defer func() {
		metrics.RemoteRequestDuration.WithLabelValues(resource).Observe(time.Since(start).Seconds())
	}()
	statusCode, body, err := c.do(ctx, resource, params)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(resource, "transport_error").Inc()
		return nil, err
	}
	metrics.RemoteRequestsTotal.WithLabelValues(resource, strconv.Itoa(statusCode)).Inc()
	resp := &data.Response[T]{StatusCode: statusCode}
	if !resp.OK() {
		resp.ErrorBody = body
		return resp, nil
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return resp, nil
	}
	var decoded T
	if err := json.Unmarshal(trimmed, &decoded); err != nil {
		return nil, fmt.Errorf("decoding %s response: %w: %v", resource, exceptions.ErrMalformedResponse, err)
	}
	resp.Body = &decoded
	return resp, nil
}

func (c *Client) do(ctx context.Context, resource string, params url.Values) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("rate limit: %w", err)
		}
	}
	endpoint := fmt.Sprintf("%s/api/%s?%s", c.baseURL, resource, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return 0, nil, fmt.Errorf("creating %s request: %w", resource, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("executing %s request: %w", resource, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("reading %s response: %w", resource, err)
	}
	return resp.StatusCode, body, nil
}
