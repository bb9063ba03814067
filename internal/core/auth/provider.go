package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// User is the opaque identity handle carried by the session.
type User struct {
	ID    string
	Email string
}

// Identity is the result of a successful provider exchange: the user plus
// the bearer credential and its refresh handle.
type Identity struct {
	User         User
	Token        string
	RefreshToken string
	ExpiresAt    time.Time
}

// Provider is the external identity provider. It issues and refreshes
// bearer tokens; the AiDB API only verifies them.
type Provider interface {
	SignUp(ctx context.Context, email, password string) (*Identity, error)
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	Refresh(ctx context.Context, refreshToken string) (*Identity, error)
}

// RESTProvider talks to a Firebase-style identity REST API.
type RESTProvider struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewRESTProvider(baseURL, apiKey string) *RESTProvider {
	return &RESTProvider{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
	}
}

type identityResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
}

func (p *RESTProvider) SignUp(ctx context.Context, email, password string) (*Identity, error) {
	return p.exchange(ctx, "/v1/accounts:signUp", map[string]any{
		"email": email, "password": password, "returnSecureToken": true,
	})
}

func (p *RESTProvider) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	return p.exchange(ctx, "/v1/accounts:signInWithPassword", map[string]any{
		"email": email, "password": password, "returnSecureToken": true,
	})
}

func (p *RESTProvider) Refresh(ctx context.Context, refreshToken string) (*Identity, error) {
	body := url.Values{"grant_type": {"refresh_token"}, "refresh_token": {refreshToken}}
	payload, err := p.post(ctx, "/v1/token", strings.NewReader(body.Encode()), "application/x-www-form-urlencoded")
	if err != nil {
		return nil, err
	}

	var resp struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &Identity{
		User:         User{ID: resp.UserID},
		Token:        resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiryFrom(resp.ExpiresIn),
	}, nil
}

func (p *RESTProvider) exchange(ctx context.Context, path string, req map[string]any) (*Identity, error) {
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(req); err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	payload, err := p.post(ctx, path, buf, "application/json")
	if err != nil {
		return nil, err
	}

	var resp identityResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode identity response: %w", err)
	}
	return &Identity{
		User:         User{ID: resp.LocalID, Email: resp.Email},
		Token:        resp.IDToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    expiryFrom(resp.ExpiresIn),
	}, nil
}

func (p *RESTProvider) post(ctx context.Context, path string, body io.Reader, contentType string) ([]byte, error) {
	u := p.baseURL + path
	if p.apiKey != "" {
		u += "?key=" + url.QueryEscape(p.apiKey)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Network error. Please check your internet connection and try again.")
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("Network error. Please check your internet connection and try again.")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, providerError(payload)
	}
	return payload, nil
}

// providerError maps identity-provider error codes to the messages shown
// to the user.
func providerError(payload []byte) error {
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(payload, &body)

	code := body.Error.Message
	if i := strings.IndexByte(code, ' '); i > 0 {
		code = code[:i] // codes like "WEAK_PASSWORD : ..." carry detail
	}
	code = strings.TrimSuffix(code, ":")

	switch code {
	case "EMAIL_EXISTS":
		return fmt.Errorf("Email already in use. Please try a different email or sign in.")
	case "INVALID_EMAIL":
		return fmt.Errorf("Invalid email address. Please check your email and try again.")
	case "WEAK_PASSWORD":
		return fmt.Errorf("Password is too weak. Please choose a stronger password (at least 6 characters).")
	case "USER_DISABLED":
		return fmt.Errorf("This account has been disabled. Please contact support.")
	case "EMAIL_NOT_FOUND":
		return fmt.Errorf("No account found with this email. Please check your email or create a new account.")
	case "INVALID_PASSWORD":
		return fmt.Errorf("Incorrect password. Please check your password and try again.")
	case "INVALID_LOGIN_CREDENTIALS":
		return fmt.Errorf("Invalid email or password. Please check your credentials and try again.")
	case "TOO_MANY_ATTEMPTS_TRY_LATER":
		return fmt.Errorf("Too many failed attempts. Please try again later.")
	default:
		return fmt.Errorf("Authentication failed. Please try again.")
	}
}

func expiryFrom(expiresIn string) time.Time {
	secs, err := strconv.Atoi(expiresIn)
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return time.Now().Add(time.Duration(secs) * time.Second)
}
