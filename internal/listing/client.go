package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vyshnavsdeepak/ideaforge-sub000/internal/filter"
)

const defaultTimeout = 15 * time.Second

// Client talks to an ideaforge listing endpoint. A transport timeout is
// reported like any other fetch failure; the caller decides whether to retry.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: defaultTimeout},
	}
}

// BaseURL returns the endpoint root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// List fetches one page of the listing for the given filter state. The page
// argument overrides state.Page so that load-more fetches can advance through
// pages without mutating the committed state.
func (c *Client) List(ctx context.Context, st filter.State, page int) (*Page, error) {
	st.Page = page
	u := c.baseURL + "/api/opportunities"
	if q := filter.EncodeQuery(st); q != "" {
		u += "?" + q
	}

	var out Page
	if err := c.getJSON(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get fetches a single opportunity by id.
func (c *Client) Get(ctx context.Context, id string) (*Opportunity, error) {
	var out Opportunity
	if err := c.getJSON(ctx, c.baseURL+"/api/opportunities/"+id, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TriggerScan asks the server to kick off a source scan. Fire and forget:
// there is no job status to poll.
func (c *Client) TriggerScan(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/scan", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("triggering scan: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("triggering scan: unexpected status %s", resp.Status)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching %s: unexpected status %s", u, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s: %w", u, err)
	}
	return nil
}
