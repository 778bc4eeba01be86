package sparql

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "kgraph-backend/pkg/errors"
)

const (
	contentTypeQuery  = "application/sparql-query"
	contentTypeUpdate = "application/sparql-update"
	acceptResults     = "application/sparql-results+json"

	// maxErrorBody bounds how much of a remote error response is carried
	// into the returned error message.
	maxErrorBody = 512
)

// Client speaks the SPARQL 1.1 protocol over HTTP. It performs no retries
// and adds no caching; both concerns live in the layers above.
type Client struct {
	queryURL   string
	updateURL  string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a client for one remote endpoint pair.
func NewClient(queryURL, updateURL string, timeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		queryURL:  queryURL,
		updateURL: updateURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// selectResponse mirrors the application/sparql-results+json envelope.
type selectResponse struct {
	Head struct {
		Vars []string `json:"vars"`
	} `json:"head"`
	Results struct {
		Bindings []map[string]binding `json:"bindings"`
	} `json:"results"`
}

type binding struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Lang     string `json:"xml:lang,omitempty"`
	Datatype string `json:"datatype,omitempty"`
}

// Select runs a read query and parses the JSON result bindings into rows.
func (c *Client) Select(ctx context.Context, query string) ([]Row, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.queryURL, strings.NewReader(query))
	if err != nil {
		return nil, appErrors.NewRemote("failed to build query request", err)
	}
	req.Header.Set("Content-Type", contentTypeQuery)
	req.Header.Set("Accept", acceptResults)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, appErrors.NewRemote("query request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.remoteError("query", resp)
	}

	var parsed selectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, appErrors.NewRemote("failed to decode query results", err)
	}

	rows := make([]Row, 0, len(parsed.Results.Bindings))
	for _, b := range parsed.Results.Bindings {
		row := make(Row, len(b))
		for name, bound := range b {
			row[name] = bound.Value
		}
		rows = append(rows, row)
	}

	c.logger.Debug("Executed remote query",
		zap.Int("rows", len(rows)),
		zap.Duration("duration", time.Since(start)),
	)

	return rows, nil
}

// Update runs a mutation against the remote store.
func (c *Client) Update(ctx context.Context, update string) error {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.updateURL, strings.NewReader(update))
	if err != nil {
		return appErrors.NewRemote("failed to build update request", err)
	}
	req.Header.Set("Content-Type", contentTypeUpdate)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return appErrors.NewRemote("update request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.remoteError("update", resp)
	}

	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)

	c.logger.Debug("Executed remote update",
		zap.Duration("duration", time.Since(start)),
	)

	return nil
}

// remoteError turns a non-2xx endpoint response into a remote execution error.
func (c *Client) remoteError(operation string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}

	return appErrors.NewRemote(
		fmt.Sprintf("%s endpoint returned %d: %s", operation, resp.StatusCode, message),
		nil,
	)
}
