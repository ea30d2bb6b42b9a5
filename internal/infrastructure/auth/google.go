package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/piora/backend/internal/infrastructure/config"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrGoogleExchangeFailed = errors.New("google code exchange failed")
	ErrGoogleProfileFailed  = errors.New("failed to fetch google profile")
	ErrGoogleEmailMissing   = errors.New("google profile has no verified email")
)

// GoogleProfile holds the identity fields returned by Google's userinfo endpoint
type GoogleProfile struct {
	Sub           string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleVerifier resolves a Google OAuth credential into a verified profile
type GoogleVerifier interface {
	// ExchangeCode exchanges an authorization code for the user's profile
	ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error)

	// FetchProfile fetches the profile for an already-issued access token
	FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error)
}

// GoogleOAuthVerifier implements GoogleVerifier against Google's OAuth2 endpoints
type GoogleOAuthVerifier struct {
	oauthConfig *oauth2.Config
	httpClient  *http.Client
}

// NewGoogleOAuthVerifier creates a verifier from Google OAuth configuration
func NewGoogleOAuthVerifier(cfg config.GoogleConfig) *GoogleOAuthVerifier {
	return &GoogleOAuthVerifier{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// AuthCodeURL returns the URL to redirect the user to for consent
func (v *GoogleOAuthVerifier) AuthCodeURL(state string) string {
	return v.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeCode exchanges an authorization code for the user's profile
func (v *GoogleOAuthVerifier) ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := v.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleExchangeFailed, err)
	}
	return v.FetchProfile(ctx, token.AccessToken)
}

// FetchProfile fetches the profile for an already-issued access token
func (v *GoogleOAuthVerifier) FetchProfile(ctx context.Context, accessToken string) (*GoogleProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleProfileFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleProfileFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrGoogleProfileFailed, resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGoogleProfileFailed, err)
	}

	if profile.Email == "" || !profile.EmailVerified {
		return nil, ErrGoogleEmailMissing
	}

	return &profile, nil
}

var _ GoogleVerifier = (*GoogleOAuthVerifier)(nil)
