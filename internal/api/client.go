// Package api provides an HTTP client for the content API.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bvapi/internal/cache"
	"bvapi/internal/config"
	"bvapi/internal/logger"
	"bvapi/internal/models"
	"bvapi/internal/normalizer"
	"bvapi/pkg/attrmap"
	"bvapi/pkg/utils"

	"github.com/google/uuid"
)

// maxLoggedBody bounds how much of an error response body is logged.
const maxLoggedBody = 512

// Client makes requests to the content API. Each call issues exactly one
// HTTP request; failures are returned, never retried.
type Client struct {
	cfg           config.APIConfig
	httpClient    *http.Client
	processor     *normalizer.Processor
	normalizerOpt normalizer.Options
	cache         cache.Store
	logger        *logger.Logger
	now           func() time.Time
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(log *logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCache enables caching of successful GET responses.
func WithCache(store cache.Store) Option {
	return func(c *Client) {
		c.cache = store
	}
}

// WithNormalizerOptions configures how responses are normalized.
func WithNormalizerOptions(opts normalizer.Options) Option {
	return func(c *Client) {
		c.normalizerOpt = opts
	}
}

// WithClock overrides the time source used for signing.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a client for cfg.
func NewClient(cfg config.APIConfig, opts ...Option) *Client {
	c := &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.GetTimeout(),
		},
		now: time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logger.NewLoggerWithWriter("error", "text", io.Discard)
	}

	c.processor = normalizer.NewProcessor(c.normalizerOpt, c.logger)

	return c
}

// Get fetches a page of entityType and normalizes it. Malformed payloads are
// reported as an empty HasErrors envelope rather than an error.
func (c *Client) Get(ctx context.Context, entityType models.EntityType, params url.Values) (attrmap.Map, error) {
	resp, err := c.GetRaw(ctx, entityType, params)
	if err != nil {
		return nil, err
	}

	return c.processor.Normalize(entityType, resp), nil
}

// GetReviews fetches reviews.
func (c *Client) GetReviews(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Review, params)
}

// GetQuestions fetches questions.
func (c *Client) GetQuestions(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Question, params)
}

// GetAnswers fetches answers.
func (c *Client) GetAnswers(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Answer, params)
}

// GetStories fetches stories.
func (c *Client) GetStories(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Story, params)
}

// GetAuthors fetches authors.
func (c *Client) GetAuthors(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Author, params)
}

// GetProducts fetches products.
func (c *Client) GetProducts(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Product, params)
}

// GetCategories fetches categories.
func (c *Client) GetCategories(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Get(ctx, models.Category, params)
}

// GetRaw fetches a page of entityType without normalizing it.
func (c *Client) GetRaw(ctx context.Context, entityType models.EntityType, params url.Values) (attrmap.Map, error) {
	return c.fetch(ctx, http.MethodGet, entityType, params)
}

// Post submits params to the submission endpoint of entityType.
func (c *Client) Post(ctx context.Context, entityType models.EntityType, params url.Values) (attrmap.Map, error) {
	return c.fetch(ctx, http.MethodPost, entityType, params)
}

// PostQuestion submits a question.
func (c *Client) PostQuestion(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Post(ctx, models.Question, params)
}

// PostAnswer submits an answer.
func (c *Client) PostAnswer(ctx context.Context, params url.Values) (attrmap.Map, error) {
	return c.Post(ctx, models.Answer, params)
}

// Processor returns the processor used by Get.
func (c *Client) Processor() *normalizer.Processor {
	return c.processor
}

func (c *Client) fetch(ctx context.Context, method string, entityType models.EntityType, params url.Values) (attrmap.Map, error) {
	if !entityType.Valid() {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownEntityType, entityType)
	}

	reqURL, body := c.BuildURL(method, entityType, params)
	safeURL := redact(reqURL)
	log := c.logger.With("request_id", uuid.NewString())

	var cacheKey string
	if method == http.MethodGet && c.cache != nil {
		cacheKey = cache.Key(method, reqURL)

		cached, found, err := c.cache.Get(ctx, cacheKey)
		if err != nil {
			log.Warn("Cache lookup failed", "url", safeURL, "error", err)
		} else if found {
			log.Debug("Cache HIT", "url", safeURL)

			return c.decode([]byte(cached), safeURL)
		}
	}

	if body == "" {
		log.Info("request", "method", method, "url", safeURL)
	} else {
		log.Info("request", "method", method, "url", safeURL, "body_bytes", len(body))
	}

	data, err := c.do(ctx, method, reqURL, body, log)
	if err != nil {
		return nil, err
	}

	resp, err := c.decode(data, safeURL)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			log.Error("Unexpected API error response", "code", apiErr.Code, "message", apiErr.Message, "url", safeURL)
		}

		return nil, err
	}

	if cacheKey != "" {
		if err := c.cache.Set(ctx, cacheKey, string(data)); err != nil {
			log.Warn("Cache store failed", "url", safeURL, "error", err)
		}
	}

	return resp, nil
}

func (c *Client) do(ctx context.Context, method, reqURL, body string, log *logger.Logger) ([]byte, error) {
	var reader io.Reader = http.NoBody
	if method == http.MethodPost {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	custom := map[string]string{}
	if method == http.MethodPost {
		custom["Content-Type"] = "application/x-www-form-urlencoded"
	}

	req.Header = utils.BuildHeaders(custom)

	// The proxy host, when set, still expects the API host in the Host header.
	req.Host = c.cfg.Host

	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("Failed to close response body", "error", closeErr)
		}
	}()

	limit := c.cfg.GetMaxResponseBytes()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(data)) > limit {
		log.Error("Response body too large", "limit_bytes", limit, "url", redact(reqURL))

		return nil, fmt.Errorf("%w: more than %d bytes from %s", ErrResponseTooLarge, limit, redact(reqURL))
	}

	log.Debug("response", "status", resp.StatusCode, "method", method, "duration", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		safeURL := redact(reqURL)
		log.Error("Unexpected API response code",
			"status", resp.StatusCode,
			"url", safeURL,
			"body", utils.TruncateString(string(data), maxLoggedBody),
		)

		return nil, &StatusError{
			URL:        safeURL,
			Body:       string(data),
			StatusCode: resp.StatusCode,
		}
	}

	return data, nil
}

// decode parses a body and turns HasErrors envelopes into *APIError.
func (c *Client) decode(data []byte, safeURL string) (attrmap.Map, error) {
	resp, err := attrmap.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.GetBool(models.FieldHasErrors) {
		return nil, newAPIError(resp, safeURL)
	}

	return resp, nil
}
