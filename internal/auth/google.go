package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	googleAuthURL     = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v1/userinfo"
)

// GoogleClient performs the OAuth authorization-code exchange against Google
type GoogleClient struct {
	clientID     string
	clientSecret string
	redirectURI  string
	httpClient   *http.Client
}

// GoogleUser is the subset of the userinfo response we care about
type GoogleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func NewGoogleClient(clientID, clientSecret, redirectURI string) *GoogleClient {
	return &GoogleClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// LoginURL builds the consent-screen URL the browser is redirected to
func (g *GoogleClient) LoginURL() string {
	params := url.Values{}
	params.Set("client_id", g.clientID)
	params.Set("redirect_uri", g.redirectURI)
	params.Set("response_type", "code")
	params.Set("scope", "email profile")
	params.Set("access_type", "online")

	return googleAuthURL + "?" + params.Encode()
}

type googleTokenResponse struct {
	AccessToken      string `json:"access_token"`
	ErrorDescription string `json:"error_description"`
}

// FetchUser exchanges the authorization code for an access token and loads
// the user's profile with it.
func (g *GoogleClient) FetchUser(ctx context.Context, code string) (*GoogleUser, error) {
	form := url.Values{}
	form.Set("code", code)
	form.Set("client_id", g.clientID)
	form.Set("client_secret", g.clientSecret)
	form.Set("redirect_uri", g.redirectURI)
	form.Set("grant_type", "authorization_code")

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		googleTokenURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload googleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	if payload.AccessToken == "" {
		return nil, fmt.Errorf(
			"google token exchange failed: status=%d error=%s",
			resp.StatusCode,
			payload.ErrorDescription,
		)
	}

	return g.fetchUserInfo(ctx, payload.AccessToken)
}

func (g *GoogleClient) fetchUserInfo(ctx context.Context, accessToken string) (*GoogleUser, error) {
	infoURL := fmt.Sprintf("%s?alt=json&access_token=%s", googleUserInfoURL, url.QueryEscape(accessToken))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, infoURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf(
			"google userinfo error: status=%d body=%s",
			resp.StatusCode,
			string(b),
		)
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}

	if user.ID == "" {
		return nil, fmt.Errorf("google userinfo response missing user id")
	}

	return &user, nil
}
