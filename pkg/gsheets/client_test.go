package gsheets

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadsheet_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/spreadsheets/abc123", r.URL.Path)
		assert.Equal(t, "properties.title,sheets.properties", r.URL.Query().Get("fields"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"properties":{"title":"Acme Leads"},"sheets":[{"properties":{"sheetId":0,"title":"Leads","index":0}},{"properties":{"sheetId":7,"title":"Archive","index":1}}]}`))
	}))
	defer srv.Close()

	c := NewClient(StaticToken("tok"), WithBaseURL(srv.URL), WithRateLimit(1000, 10))
	got, err := c.Spreadsheet(context.Background(), "abc123")
	require.NoError(t, err)
	assert.Equal(t, "Acme Leads", got.Properties.Title)
	assert.Equal(t, []string{"Leads", "Archive"}, got.SheetTitles())
}

func TestValues_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/spreadsheets/abc123/values/'Leads'!A1:AZ", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"range":"Leads!A1:AZ","values":[["Lead Email","Status"],["a@b.com","Quality Lead",3],["c@d.com",null]]}`))
	}))
	defer srv.Close()

	c := NewClient(StaticToken("tok"), WithBaseURL(srv.URL))
	rows, err := c.Values(context.Background(), "abc123", A1Range("Leads", "A1:AZ"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Lead Email", "Status"},
		{"a@b.com", "Quality Lead", "3"},
		{"c@d.com", ""},
	}, rows)
}

func TestValues_EmptyRange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"range":"Leads!A1:AZ"}`))
	}))
	defer srv.Close()

	c := NewClient(StaticToken("tok"), WithBaseURL(srv.URL))
	rows, err := c.Values(context.Background(), "abc123", "Leads!A1:AZ")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGet_APIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "k-123", r.URL.Query().Get("key"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"properties":{"title":"Public"}}`))
	}))
	defer srv.Close()

	c := NewClient(nil, WithBaseURL(srv.URL), WithAPIKey("k-123"))
	got, err := c.Spreadsheet(context.Background(), "pub")
	require.NoError(t, err)
	assert.Equal(t, "Public", got.Properties.Title)
}

func TestGet_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"The caller does not have permission"}}`))
	}))
	defer srv.Close()

	c := NewClient(StaticToken("tok"), WithBaseURL(srv.URL))
	_, err := c.Spreadsheet(context.Background(), "private")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "permission")
}

func TestGet_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(StaticToken("tok"), WithBaseURL(srv.URL))
	_, err := c.Values(context.Background(), "id", "Leads!A1:AZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal")
}

func TestGet_NoCredentials(t *testing.T) {
	c := NewClient(nil, WithBaseURL("http://127.0.0.1:0"))
	_, err := c.Spreadsheet(context.Background(), "id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no credentials")
}

func TestGet_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(StaticToken("tok"), WithBaseURL("http://127.0.0.1:0"))
	_, err := c.Spreadsheet(ctx, "id")
	require.Error(t, err)
}

func TestA1Range(t *testing.T) {
	assert.Equal(t, "'Leads'!A1:AZ", A1Range("Leads", "A1:AZ"))
	assert.Equal(t, "'Bob''s Tab'!A1:Z5", A1Range("Bob's Tab", "A1:Z5"))
}
