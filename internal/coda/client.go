// Package coda is a lightweight read-only client for the Coda REST API.
//
// Every listing endpoint returns an items envelope; the client unwraps it and
// hands back plain slices. There is no pagination handling, no retry, and no
// backoff: a fault surfaces to the caller as one of the package's sentinel
// errors. The HTTP client carries an explicit timeout so a hung upstream call
// cannot stall a request forever.
package coda

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the public Coda REST API endpoint.
const DefaultBaseURL = "https://coda.io/apis/v1"

// DefaultTimeout bounds each API round trip.
const DefaultTimeout = 30 * time.Second

// Client is a Coda API client.
type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

// ClientConfig configures a Client.
type ClientConfig struct {
	// Token is the Coda API token (required).
	Token string
	// BaseURL overrides the API endpoint, mainly for tests.
	// Default: DefaultBaseURL.
	BaseURL string
	// Timeout bounds each HTTP round trip. Default: DefaultTimeout.
	Timeout time.Duration
}

// New creates a Coda API client.
//
// Returns an error if the token is empty.
func New(cfg ClientConfig) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("coda token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		token:   cfg.Token,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}, nil
}

// Docs lists all documents visible to the token.
func (c *Client) Docs(ctx context.Context) ([]Doc, error) {
	var resp docsResponse
	if err := c.makeRequest(ctx, http.MethodGet, c.baseURL+"/docs", nil, &resp); err != nil {
		return nil, fmt.Errorf("list docs: %w", err)
	}
	return resp.Items, nil
}

// ResolveDocID finds the id of the document whose name matches the given one,
// compared case-insensitively after trimming surrounding whitespace. The
// first match wins. Returns ErrDocumentNotFound when nothing matches.
func (c *Client) ResolveDocID(ctx context.Context, name string) (string, error) {
	docs, err := c.Docs(ctx)
	if err != nil {
		return "", err
	}

	want := strings.ToLower(strings.TrimSpace(name))
	for _, doc := range docs {
		if strings.ToLower(strings.TrimSpace(doc.Name)) == want {
			return doc.ID, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrDocumentNotFound, name)
}

// Pages lists the pages of a document in upstream order.
func (c *Client) Pages(ctx context.Context, docID string) ([]Page, error) {
	url := fmt.Sprintf("%s/docs/%s/pages", c.baseURL, docID)

	var resp pagesResponse
	if err := c.makeRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	return resp.Items, nil
}

// Tables lists every table of a document. The Coda API reports tables at
// document scope; the parent reference ties each one to its page.
func (c *Client) Tables(ctx context.Context, docID string) ([]Table, error) {
	url := fmt.Sprintf("%s/docs/%s/tables", c.baseURL, docID)

	var resp tablesResponse
	if err := c.makeRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return resp.Items, nil
}

// PageTables lists the tables whose parent page is pageID. The full table
// list is fetched on every call because the upstream endpoint does not
// filter server-side.
func (c *Client) PageTables(ctx context.Context, docID, pageID string) ([]Table, error) {
	tables, err := c.Tables(ctx, docID)
	if err != nil {
		return nil, err
	}

	var onPage []Table
	for _, table := range tables {
		if table.Parent.ID == pageID {
			onPage = append(onPage, table)
		}
	}
	return onPage, nil
}

// Columns lists the columns of a table in display order.
func (c *Client) Columns(ctx context.Context, docID, tableID string) ([]Column, error) {
	url := fmt.Sprintf("%s/docs/%s/tables/%s/columns", c.baseURL, docID, tableID)

	var resp columnsResponse
	if err := c.makeRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	return resp.Items, nil
}

// Rows lists the rows of a table with column ids rewritten to column names
// via colmap. Ids missing from colmap pass through unchanged. Values are
// untouched.
func (c *Client) Rows(ctx context.Context, docID, tableID string, colmap map[string]string) ([]Row, error) {
	url := fmt.Sprintf("%s/docs/%s/tables/%s/rows", c.baseURL, docID, tableID)

	var resp rowsResponse
	if err := c.makeRequest(ctx, http.MethodGet, url, nil, &resp); err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}

	rows := make([]Row, 0, len(resp.Items))
	for _, item := range resp.Items {
		row := make(Row, len(item.Values))
		for colID, value := range item.Values {
			name, ok := colmap[colID]
			if !ok {
				name = colID
			}
			row[name] = value
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ColumnNameMap builds the id→name lookup used to rewrite row keys.
func ColumnNameMap(cols []Column) map[string]string {
	m := make(map[string]string, len(cols))
	for _, col := range cols {
		m[col.ID] = col.Name
	}
	return m
}

// makeRequest performs one HTTP round trip against the Coda API.
//
// Faults map onto the package sentinels: transport errors and non-2xx
// statuses wrap ErrUpstream (with status and body text preserved), decode
// failures wrap ErrMalformedResponse.
func (c *Client) makeRequest(ctx context.Context, method, url string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}

	return nil
}
