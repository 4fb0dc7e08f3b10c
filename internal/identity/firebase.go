package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"firebase.google.com/go/v4/auth"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// UserGetter is the part of the firebase admin auth client we use.
type UserGetter interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

// FirebaseProvider signs in through the Identity Toolkit REST API and reads
// verification status through the admin SDK.
type FirebaseProvider struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	users      UserGetter
}

func NewFirebaseProvider(apiKey string, users UserGetter) *FirebaseProvider {
	return &FirebaseProvider{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		endpoint: signInEndpoint,
		apiKey:   apiKey,
		users:    users,
	}
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
}

func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	body, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", err
	}

	reqURL := p.endpoint + "?key=" + url.QueryEscape(p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("identity toolkit request: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return "", ErrInvalidCredentials
	default:
		return "", errors.New("identity toolkit returned " + resp.Status)
	}

	var out signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode identity toolkit response: %w", err)
	}
	if out.LocalID == "" {
		return "", ErrInvalidCredentials
	}
	return out.LocalID, nil
}

func (p *FirebaseProvider) EmailVerified(ctx context.Context, uid string) (bool, error) {
	u, err := p.users.GetUser(ctx, uid)
	if err != nil {
		if auth.IsUserNotFound(err) {
			return false, ErrInvalidCredentials
		}
		return false, err
	}
	return u.EmailVerified, nil
}
