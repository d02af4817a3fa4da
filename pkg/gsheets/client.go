// Package gsheets is a minimal read-only client for the Google Sheets v4
// REST API.
package gsheets

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://sheets.googleapis.com/v4"

// Client performs Google Sheets API operations.
type Client interface {
	// Spreadsheet returns the title and tab list of a spreadsheet.
	Spreadsheet(ctx context.Context, spreadsheetID string) (*Spreadsheet, error)
	// Values returns the cells of an A1 range as formatted strings.
	Values(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error)
}

// Spreadsheet is the subset of spreadsheet metadata the dashboard uses.
type Spreadsheet struct {
	Properties SpreadsheetProperties `json:"properties"`
	Sheets     []Sheet               `json:"sheets"`
}

// SpreadsheetProperties holds the spreadsheet title.
type SpreadsheetProperties struct {
	Title string `json:"title"`
}

// Sheet is one tab.
type Sheet struct {
	Properties SheetProperties `json:"properties"`
}

// SheetProperties holds a tab's identity.
type SheetProperties struct {
	SheetID int    `json:"sheetId"`
	Title   string `json:"title"`
	Index   int    `json:"index"`
}

// SheetTitles lists tab titles in order.
func (s *Spreadsheet) SheetTitles() []string {
	out := make([]string, 0, len(s.Sheets))
	for _, sh := range s.Sheets {
		out = append(out, sh.Properties.Title)
	}
	return out
}

type valueRange struct {
	Range  string  `json:"range"`
	Values [][]any `json:"values"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithAPIKey authenticates with an API key instead of a bearer token. Only
// publicly shared spreadsheets can be read this way.
func WithAPIKey(key string) Option {
	return func(c *httpClient) {
		c.apiKey = key
	}
}

// WithRateLimit caps outgoing requests per second.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *httpClient) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), max(burst, 1))
		}
	}
}

type httpClient struct {
	tokens  TokenSource
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Sheets client. tokens may be nil when WithAPIKey is
// given.
func NewClient(tokens TokenSource, opts ...Option) Client {
	c := &httpClient{
		tokens:  tokens,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
		// Sheets allows 60 read requests per minute per user.
		limiter: rate.NewLimiter(rate.Limit(1), 10),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Spreadsheet(ctx context.Context, spreadsheetID string) (*Spreadsheet, error) {
	q := url.Values{"fields": {"properties.title,sheets.properties"}}
	var out Spreadsheet
	if err := c.get(ctx, "/spreadsheets/"+url.PathEscape(spreadsheetID), q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClient) Values(ctx context.Context, spreadsheetID, a1Range string) ([][]string, error) {
	var vr valueRange
	path := "/spreadsheets/" + url.PathEscape(spreadsheetID) + "/values/" + url.PathEscape(a1Range)
	if err := c.get(ctx, path, nil, &vr); err != nil {
		return nil, err
	}

	rows := make([][]string, len(vr.Values))
	for i, row := range vr.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			switch tv := v.(type) {
			case string:
				cells[j] = tv
			case nil:
				cells[j] = ""
			default:
				cells[j] = fmt.Sprint(tv)
			}
		}
		rows[i] = cells
	}
	return rows, nil
}

func (c *httpClient) get(ctx context.Context, path string, q url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "gsheets: rate limit wait")
		}
	}

	if q == nil {
		q = url.Values{}
	}
	if c.apiKey != "" {
		q.Set("key", c.apiKey)
	}
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return eris.Wrap(err, "gsheets: create request")
	}
	if c.apiKey == "" {
		if c.tokens == nil {
			return eris.New("gsheets: no credentials configured")
		}
		tok, err := c.tokens.Token(ctx)
		if err != nil {
			return eris.Wrap(err, "gsheets: get token")
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "gsheets: send request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return eris.Wrap(err, "gsheets: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return eris.Wrap(err, "gsheets: unmarshal response")
	}
	return nil
}

// APIError is a non-200 response from the Sheets API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("gsheets: unexpected status %d: %s", e.StatusCode, e.Body)
}

// A1Range builds a range covering columns cols of a tab, quoting the tab
// name as the API requires ('It''s here'!A1:AZ).
func A1Range(tab, cols string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'!" + cols
}
