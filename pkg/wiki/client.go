// Package wiki talks to a MediaWiki-compatible API: it expands named
// templates server-side and hands back the resulting wikitext as Documents
// for the parser. One request per template, no retries, no pagination; a
// failed request or malformed response ends the run.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/goliatone/go-wikiform/pkg/pipeline"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "go-wikiform/1.0 (+https://github.com/goliatone/go-wikiform)"

	// wikitextPath addresses the expanded text inside the API response.
	wikitextPath = "expandtemplates.wikitext"
)

// Client issues expandtemplates requests against a single wiki endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
}

// Option mutates the client during construction.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client (proxies, transports, test
// servers).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithTimeout caps each request's duration. Zero disables the cap.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithUserAgent overrides the User-Agent header sent with each request. Wiki
// farms reject the Go default agent, so the client always sends one.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent != "" {
			c.userAgent = agent
		}
	}
}

// NewClient validates the endpoint and applies options.
func NewClient(endpoint string, options ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("wiki: endpoint is required")
	}
	parsed, err := url.ParseRequestURI(endpoint)
	if err != nil {
		return nil, fmt.Errorf("wiki: invalid endpoint %q: %w", endpoint, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("wiki: endpoint %q must be http or https", endpoint)
	}

	client := &Client{
		endpoint:   endpoint,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		userAgent:  defaultUserAgent,
	}
	for _, opt := range options {
		opt(client)
	}
	return client, nil
}

// Endpoint returns the configured API endpoint.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ExpandTemplate requests the server-side expansion of one named template and
// wraps the expanded wikitext in a Document. Transport failures and non-2xx
// statuses surface as pipeline.NetworkError; responses without the expected
// wikitext field surface as pipeline.ParseError.
func (c *Client) ExpandTemplate(ctx context.Context, template string) (Document, error) {
	if template == "" {
		return Document{}, errors.New("wiki: template name is required")
	}

	requestURL := ExpandURL(c.endpoint, template)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return Document{}, pipeline.NewNetworkError("expandtemplates", requestURL, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Document{}, pipeline.NewNetworkError("expandtemplates", requestURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, pipeline.NewNetworkError("expandtemplates", requestURL,
			fmt.Errorf("unexpected status %s", resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, pipeline.NewNetworkError("expandtemplates", requestURL,
			fmt.Errorf("read body: %w", err))
	}

	value := gjson.GetBytes(body, wikitextPath)
	if !value.Exists() {
		return Document{}, pipeline.NewParseError("response missing "+wikitextPath, nil)
	}
	wikitext := value.String()
	if wikitext == "" {
		return Document{}, pipeline.NewParseError(fmt.Sprintf("template %q expanded to empty wikitext", template), nil)
	}

	return NewDocument(SourceFromTemplate(c.endpoint, template), []byte(wikitext))
}
