package gsheets

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(key)
	require.NoError(t, err)
	pemText := string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	return key, pemText
}

func tokenServer(t *testing.T, pub *rsa.PublicKey, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !assert.NoError(t, r.ParseForm()) {
			return
		}
		assert.Equal(t, "urn:ietf:params:oauth:grant-type:jwt-bearer", r.PostForm.Get("grant_type"))

		tok, err := jwt.Parse(r.PostForm.Get("assertion"), func(*jwt.Token) (any, error) { return pub, nil },
			jwt.WithValidMethods([]string{"RS256"}))
		if !assert.NoError(t, err) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		claims := tok.Claims.(jwt.MapClaims)
		assert.Equal(t, "svc@project.iam.gserviceaccount.com", claims["iss"])
		assert.Equal(t, ReadOnlyScope, claims["scope"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "ya29.test",
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
	}))
}

func TestServiceAccount_TokenExchangeAndReuse(t *testing.T) {
	key, pemText := testKey(t)
	var calls atomic.Int32
	srv := tokenServer(t, &key.PublicKey, &calls)
	defer srv.Close()

	sa, err := NewServiceAccount("svc@project.iam.gserviceaccount.com", pemText, WithTokenURL(srv.URL))
	require.NoError(t, err)

	tok, err := sa.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ya29.test", tok)

	tok, err = sa.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ya29.test", tok)
	assert.Equal(t, int32(1), calls.Load())
}

func TestServiceAccount_RefreshesAfterExpiry(t *testing.T) {
	key, pemText := testKey(t)
	var calls atomic.Int32
	srv := tokenServer(t, &key.PublicKey, &calls)
	defer srv.Close()

	sa, err := NewServiceAccount("svc@project.iam.gserviceaccount.com", pemText, WithTokenURL(srv.URL))
	require.NoError(t, err)

	now := time.Now()
	sa.now = func() time.Time { return now }
	_, err = sa.Token(context.Background())
	require.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = sa.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestNewServiceAccount_EscapedNewlines(t *testing.T) {
	_, pemText := testKey(t)
	escaped := strings.ReplaceAll(pemText, "\n", `\n`)

	_, err := NewServiceAccount("svc@example.com", escaped)
	assert.NoError(t, err)
}

func TestNewServiceAccount_Invalid(t *testing.T) {
	_, err := NewServiceAccount("", "x")
	assert.Error(t, err)

	_, err = NewServiceAccount("svc@example.com", "not a key")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse private key")
}

func TestServiceAccount_ExchangeError(t *testing.T) {
	_, pemText := testKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	sa, err := NewServiceAccount("svc@example.com", pemText, WithTokenURL(srv.URL))
	require.NoError(t, err)
	_, err = sa.Token(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
}

func TestServiceAccount_UsedByClient(t *testing.T) {
	key, pemText := testKey(t)
	var calls atomic.Int32
	tokSrv := tokenServer(t, &key.PublicKey, &calls)
	defer tokSrv.Close()

	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.test", r.Header.Get("Authorization"))
		w.Write([]byte(`{"properties":{"title":"T"}}`))
	}))
	defer api.Close()

	sa, err := NewServiceAccount("svc@project.iam.gserviceaccount.com", pemText, WithTokenURL(tokSrv.URL))
	require.NoError(t, err)
	c := NewClient(sa, WithBaseURL(api.URL))
	_, err = c.Spreadsheet(context.Background(), "id")
	require.NoError(t, err)
}
