// Package paperless is a minimal client for the Paperless-ngx REST API,
// covering the correspondent and document operations the merge tooling
// needs. Listings transparently follow the service's results/next
// pagination and always return the full set.
package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client talks to one Paperless-ngx instance. All methods issue blocking,
// sequential requests; the only per-call deadline override is on
// BulkSetCorrespondent, which the merge engine drives with its own timeout.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient validates cfg and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		timeout: cfg.HTTPTimeout,
		// Deadlines come from per-request contexts, not a client-wide
		// timeout, so bulk calls can run longer than ordinary requests.
		httpc: &http.Client{},
	}
	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	}
	return c, nil
}

type correspondentPage struct {
	Count    int             `json:"count"`
	Next     string          `json:"next"`
	Previous string          `json:"previous"`
	Results  []Correspondent `json:"results"`
}

type documentPage struct {
	Count    int        `json:"count"`
	Next     string     `json:"next"`
	Previous string     `json:"previous"`
	Results  []Document `json:"results"`
}

// Correspondents returns every correspondent in the instance, in the order
// the service pages them out.
func (c *Client) Correspondents(ctx context.Context) ([]Correspondent, error) {
	var all []Correspondent
	next := c.baseURL + "/api/correspondents/"
	for next != "" {
		var page correspondentPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("fetching correspondents: %w", err)
		}
		all = append(all, page.Results...)
		next = page.Next
	}
	return all, nil
}

// Correspondent returns a single correspondent by id.
func (c *Client) Correspondent(ctx context.Context, id int) (*Correspondent, error) {
	var corr Correspondent
	u := fmt.Sprintf("%s/api/correspondents/%d/", c.baseURL, id)
	if err := c.getJSON(ctx, u, &corr); err != nil {
		return nil, fmt.Errorf("fetching correspondent %d: %w", id, err)
	}
	return &corr, nil
}

// CorrespondentDocuments returns every document currently assigned to the
// given correspondent.
func (c *Client) CorrespondentDocuments(ctx context.Context, id int) ([]Document, error) {
	var docs []Document
	next := fmt.Sprintf("%s/api/documents/?correspondent__id__in=%d", c.baseURL, id)
	for next != "" {
		var page documentPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("fetching documents for correspondent %d: %w", id, err)
		}
		docs = append(docs, page.Results...)
		next = page.Next
	}
	return docs, nil
}

// DocumentsCreatedBetween returns documents whose created date falls in the
// given inclusive range. Either bound may be empty to leave it open. When
// limit is positive, fetching stops once that many documents are collected.
func (c *Client) DocumentsCreatedBetween(ctx context.Context, createdFrom, createdTo string, limit int) ([]Document, error) {
	q := url.Values{}
	if createdFrom != "" {
		q.Set("created__date__gte", createdFrom)
	}
	if createdTo != "" {
		q.Set("created__date__lte", createdTo)
	}
	next := c.baseURL + "/api/documents/"
	if enc := q.Encode(); enc != "" {
		next += "?" + enc
	}

	var docs []Document
	for next != "" {
		var page documentPage
		if err := c.getJSON(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("fetching documents: %w", err)
		}
		docs = append(docs, page.Results...)
		if limit > 0 && len(docs) >= limit {
			return docs[:limit], nil
		}
		next = page.Next
	}
	return docs, nil
}

// BulkSetCorrespondent reassigns the given documents to correspondentID in
// one bulk_edit call. The supplied timeout bounds this single request; a
// non-positive timeout falls back to the client default. The call is
// idempotent server-side, so retrying a timed-out batch is safe even if it
// partially applied.
func (c *Client) BulkSetCorrespondent(ctx context.Context, documentIDs []int, correspondentID int, timeout time.Duration) error {
	payload := struct {
		Documents  []int  `json:"documents"`
		Method     string `json:"method"`
		Parameters struct {
			Correspondent int `json:"correspondent"`
		} `json:"parameters"`
	}{Documents: documentIDs, Method: "set_correspondent"}
	payload.Parameters.Correspondent = correspondentID

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding bulk edit: %w", err)
	}

	if timeout <= 0 {
		timeout = c.timeout
	}
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.do(reqCtx, http.MethodPost, c.baseURL+"/api/documents/bulk_edit/", bytes.NewReader(body))
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// DeleteCorrespondent removes a correspondent record. Documents must be
// reassigned first; the service itself leaves them correspondent-less
// otherwise.
func (c *Client) DeleteCorrespondent(ctx context.Context, id int) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	u := fmt.Sprintf("%s/api/correspondents/%d/", c.baseURL, id)
	resp, err := c.do(reqCtx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	drain(resp)
	return nil
}

// getJSON issues a GET with the default request timeout and decodes the
// response body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.do(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", rawURL, err)
	}
	return nil
}

// do sends one request with auth headers and maps non-2xx responses to
// *APIError. Callers own the response body on success.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json; version=9")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Method:     method,
			URL:        rawURL,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}
	return resp, nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
