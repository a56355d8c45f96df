// Package viya is a REST client for the SAS Viya services used to register
// models: Model Repository, Licenses and ML Pipeline Automation.
package viya

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"viya-model-manager/internal/config"
	"viya-model-manager/internal/core/domain"
)

const maxErrorBody = 64 << 10

type Config struct {
	BaseURL      string
	VerifyTLS    bool
	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// ConfigFrom maps the service configuration onto client settings.
func ConfigFrom(c *config.ViyaConfig) Config {
	return Config{
		BaseURL:      c.URL,
		VerifyTLS:    c.VerifyTLS,
		Timeout:      c.Timeout,
		RetryMax:     c.RetryMax,
		RetryWaitMin: c.RetryWaitMin,
		RetryWaitMax: c.RetryWaitMax,
	}
}

// Client sends authenticated requests to one SAS Viya deployment. Requests
// that fail with a connection error or a 5xx status are retried.
type Client struct {
	baseURL string
	http    *retryablehttp.Client
}

// NewHTTPClient returns the plain HTTP client used for both API calls and
// SAS Logon token requests.
func NewHTTPClient(cfg Config) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.VerifyTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &http.Client{Transport: transport, Timeout: timeout}
}

// NewClient builds a client that authenticates with tokens from ts. A nil ts
// sends unauthenticated requests.
func NewClient(cfg Config, ts oauth2.TokenSource) *Client {
	base := NewHTTPClient(cfg)
	if ts != nil {
		base = &http.Client{
			Transport: &oauth2.Transport{Source: ts, Base: base.Transport},
			Timeout:   base.Timeout,
		}
	}

	rc := retryablehttp.NewClient()
	rc.HTTPClient = base
	rc.Logger = retryLogger{}
	rc.RetryMax = cfg.RetryMax
	if cfg.RetryWaitMin > 0 {
		rc.RetryWaitMin = cfg.RetryWaitMin
	}
	if cfg.RetryWaitMax > 0 {
		rc.RetryWaitMax = cfg.RetryWaitMax
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    rc,
	}
}

func (c *Client) BaseURL() string { return c.baseURL }

// retryLogger routes retryablehttp output through logrus.
type retryLogger struct{}

func fields(kv []interface{}) log.Fields {
	f := log.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return f
}

func (retryLogger) Error(msg string, kv ...interface{}) { log.WithFields(fields(kv)).Error(msg) }
func (retryLogger) Info(msg string, kv ...interface{})  { log.WithFields(fields(kv)).Debug(msg) }
func (retryLogger) Debug(msg string, kv ...interface{}) { log.WithFields(fields(kv)).Trace(msg) }
func (retryLogger) Warn(msg string, kv ...interface{})  { log.WithFields(fields(kv)).Warn(msg) }

// request describes one API call.
type request struct {
	method  string
	path    string
	query   url.Values
	body    io.Reader
	headers map[string]string
}

func jsonBody(v any) (io.Reader, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do sends r and decodes a JSON response into out when out is non-nil. The
// response headers are returned so callers can read ETags.
func (c *Client) do(ctx context.Context, r request, out any) (http.Header, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var body any
	if r.body != nil {
		// retryablehttp needs a rewindable body to retry.
		data, err := io.ReadAll(r.body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		body = data
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if _, ok := r.headers["Accept"]; !ok {
		req.Header.Set("Accept", "application/json")
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %v: %w", r.method, r.path, err, domain.ErrViyaUnavailable)
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"method": r.method,
		"path":   r.path,
		"status": resp.StatusCode,
	}).Debug("SAS Viya request")

	if resp.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, newAPIError(r.method, r.path, resp, buf)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode %s %s: %w", r.method, r.path, err)
		}
	}
	return resp.Header, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

// collection is the SAS paged list envelope.
type collection[T any] struct {
	Start int `json:"start"`
	Limit int `json:"limit"`
	Count int `json:"count"`
	Items []T `json:"items"`
}

// listAll follows start/limit paging until every item has been read.
func listAll[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	const pageSize = 100
	if query == nil {
		query = url.Values{}
	}
	var all []T
	for start := 0; ; start += pageSize {
		query.Set("start", fmt.Sprint(start))
		query.Set("limit", fmt.Sprint(pageSize))
		var page collection[T]
		if _, err := c.get(ctx, path, query, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) < pageSize || (page.Count > 0 && len(all) >= page.Count) {
			return all, nil
		}
	}
}

// nameFilter renders the SAS filter expression eq(field,"value").
func nameFilter(field, value string) string {
	return fmt.Sprintf(`eq(%s,"%s")`, field, strings.ReplaceAll(value, `"`, `\"`))
}
