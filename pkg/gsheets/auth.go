package gsheets

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"
)

// ReadOnlyScope grants read access to spreadsheets.
const ReadOnlyScope = "https://www.googleapis.com/auth/spreadsheets.readonly"

const defaultTokenURL = "https://oauth2.googleapis.com/token"

// TokenSource supplies bearer tokens for API requests.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ServiceAccount exchanges a signed JWT assertion for an OAuth access token
// and reuses it until shortly before it expires.
type ServiceAccount struct {
	email    string
	key      any
	scopes   []string
	tokenURL string
	http     *http.Client
	now      func() time.Time

	mu      sync.Mutex
	token   string
	expires time.Time
}

// ServiceAccountOption configures a ServiceAccount.
type ServiceAccountOption func(*ServiceAccount)

// WithTokenURL overrides the OAuth token endpoint.
func WithTokenURL(u string) ServiceAccountOption {
	return func(s *ServiceAccount) {
		s.tokenURL = u
	}
}

// WithTokenHTTPClient overrides the http.Client used for token exchange.
func WithTokenHTTPClient(hc *http.Client) ServiceAccountOption {
	return func(s *ServiceAccount) {
		s.http = hc
	}
}

// WithScopes overrides the requested scopes.
func WithScopes(scopes ...string) ServiceAccountOption {
	return func(s *ServiceAccount) {
		s.scopes = scopes
	}
}

// NewServiceAccount parses a PEM private key. Keys copied from environment
// variables often carry literal "\n" sequences; those are expanded first.
func NewServiceAccount(email, privateKeyPEM string, opts ...ServiceAccountOption) (*ServiceAccount, error) {
	if email == "" {
		return nil, eris.New("gsheets: service account email is required")
	}
	pemText := strings.ReplaceAll(privateKeyPEM, `\n`, "\n")
	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(pemText))
	if err != nil {
		return nil, eris.Wrap(err, "gsheets: parse private key")
	}
	s := &ServiceAccount{
		email:    email,
		key:      key,
		scopes:   []string{ReadOnlyScope},
		tokenURL: defaultTokenURL,
		http:     &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Token returns a cached access token or fetches a new one.
func (s *ServiceAccount) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != "" && s.now().Before(s.expires) {
		return s.token, nil
	}

	now := s.now()
	claims := jwt.MapClaims{
		"iss":   s.email,
		"scope": strings.Join(s.scopes, " "),
		"aud":   s.tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.key)
	if err != nil {
		return "", eris.Wrap(err, "gsheets: sign assertion")
	}

	form := url.Values{
		"grant_type": {"urn:ietf:params:oauth:grant-type:jwt-bearer"},
		"assertion":  {assertion},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", eris.Wrap(err, "gsheets: create token request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.http.Do(req)
	if err != nil {
		return "", eris.Wrap(err, "gsheets: send token request")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "gsheets: read token response")
	}
	if resp.StatusCode != http.StatusOK {
		return "", eris.Errorf("gsheets: token exchange status %d: %s", resp.StatusCode, string(body))
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", eris.Wrap(err, "gsheets: unmarshal token response")
	}
	if tr.AccessToken == "" {
		return "", eris.New("gsheets: token response missing access_token")
	}

	s.token = tr.AccessToken
	// Refresh a minute early.
	s.expires = now.Add(time.Duration(tr.ExpiresIn)*time.Second - time.Minute)
	return s.token, nil
}

// StaticToken is a TokenSource returning a fixed token.
type StaticToken string

// Token returns the fixed token.
func (t StaticToken) Token(context.Context) (string, error) {
	return string(t), nil
}
