package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smartmilk/internal/domain/users"
	"smartmilk/internal/platform/httpclient"
)

const DefaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

var (
	ErrNotConfigured = errors.New("google client id not configured")
	ErrInvalidToken  = errors.New("invalid google id token")
	ErrAudience      = errors.New("google token audience mismatch")
	ErrUpstream      = errors.New("google tokeninfo upstream error")
)

type Config struct {
	ClientID     string
	TokenInfoURL string // vacío => DefaultTokenInfoURL
	Timeout      time.Duration
}

// Verifier valida id tokens contra el endpoint tokeninfo de Google.
// Implementa users.IdentityVerifier.
type Verifier struct {
	clientID string
	endpoint string
	http     *httpclient.Client
}

func NewVerifier(cfg Config) (*Verifier, error) {
	clientID := strings.TrimSpace(cfg.ClientID)
	if clientID == "" {
		return nil, ErrNotConfigured
	}
	endpoint := strings.TrimSpace(cfg.TokenInfoURL)
	if endpoint == "" {
		endpoint = DefaultTokenInfoURL
	}

	hc, err := httpclient.New(httpclient.Options{Timeout: cfg.Timeout})
	if err != nil {
		return nil, err
	}
	return &Verifier{clientID: clientID, endpoint: endpoint, http: hc}, nil
}

// tokeninfo devuelve todos los campos como string (incluido email_verified).
type tokenInfo struct {
	Aud           string `json:"aud"`
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	Exp           string `json:"exp"`
}

func (v *Verifier) VerifyIDToken(ctx context.Context, idToken string) (users.Identity, error) {
	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return users.Identity{}, ErrInvalidToken
	}

	var info tokenInfo
	err := v.http.GetJSON(ctx, v.endpoint, url.Values{"id_token": {idToken}}, &info)
	if err != nil {
		if httpclient.IsStatus(err, http.StatusBadRequest) {
			return users.Identity{}, ErrInvalidToken
		}
		return users.Identity{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	if info.Aud != v.clientID {
		return users.Identity{}, ErrAudience
	}
	if strings.TrimSpace(info.Sub) == "" {
		return users.Identity{}, ErrInvalidToken
	}

	return users.Identity{
		Subject:       info.Sub,
		Email:         strings.TrimSpace(info.Email),
		EmailVerified: strings.EqualFold(info.EmailVerified, "true"),
		Name:          strings.TrimSpace(info.Name),
		Picture:       strings.TrimSpace(info.Picture),
	}, nil
}
