package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
	"github.com/Dsek-LTH/Janus/internal/oauth"
)

const (
	defaultAuthURL  = "https://discord.com/api/oauth2/authorize"
	defaultTokenURL = "https://discord.com/api/v10/oauth2/token"
	defaultAPIBase  = "https://discord.com/api/v10"
)

// Provider is the Discord OAuth client. It builds authorization URLs,
// exchanges and refreshes tokens, and makes the Discord REST calls the
// linking flow needs. It returns facts only; persistence and linking
// decisions belong to the caller.
type Provider struct {
	oauthConfig *oauth2.Config
	clientID    string
	apiBase     string
	httpClient  *http.Client
}

func New(clientID, clientSecret, redirectURL string) (*Provider, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("discord oauth config missing required fields")
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   defaultAuthURL,
			TokenURL:  defaultTokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"role_connections.write", "identify"},
	}

	return &Provider{
		oauthConfig: oauthCfg,
		clientID:    clientID,
		apiBase:     defaultAPIBase,
		httpClient:  http.DefaultClient,
	}, nil
}

// AuthCodeURL builds the consent URL for a caller-generated state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode exchanges the authorization code for a token pair.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (oauth.Credential, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return oauth.Credential{}, classifyTokenErr("discord token exchange", err)
	}
	return credentialFromToken(token)
}

// Refresh exchanges the refresh token for a whole new token pair. The
// token source is seeded with the refresh token only, so a round trip to
// Discord always happens regardless of what the caller thinks the
// expiry is.
func (p *Provider) Refresh(ctx context.Context, cred oauth.Credential) (oauth.Credential, error) {
	src := p.oauthConfig.TokenSource(ctx, &oauth2.Token{
		RefreshToken: cred.RefreshToken,
	})
	token, err := src.Token()
	if err != nil {
		return oauth.Credential{}, classifyTokenErr("discord token refresh", err)
	}
	return credentialFromToken(token)
}

// FetchIdentity resolves the account behind an access token via the
// oauth2/@me endpoint.
func (p *Provider) FetchIdentity(ctx context.Context, accessToken string) (oauth.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiBase+"/oauth2/@me", nil)
	if err != nil {
		return oauth.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return oauth.Identity{}, fmt.Errorf("%w: discord identity fetch: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return oauth.Identity{}, fmt.Errorf("%w: discord identity fetch: status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var body struct {
		User struct {
			ID       string `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return oauth.Identity{}, fmt.Errorf("%w: discord identity fetch: %v", apperrors.ErrMalformedResponse, err)
	}
	if body.User.ID == "" {
		return oauth.Identity{}, fmt.Errorf("%w: discord identity fetch: missing user id", apperrors.ErrMalformedResponse)
	}

	return oauth.Identity{
		Provider:    oauth.ProviderDiscord,
		ID:          body.User.ID,
		DisplayName: body.User.Username,
	}, nil
}

func credentialFromToken(token *oauth2.Token) (oauth.Credential, error) {
	if token.AccessToken == "" || token.RefreshToken == "" {
		return oauth.Credential{}, fmt.Errorf("%w: discord token response missing tokens", apperrors.ErrMalformedResponse)
	}
	return oauth.Credential{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.Unix(),
	}, nil
}

// classifyTokenErr maps x/oauth2 failures onto the error taxonomy: a
// non-2xx token response or transport failure is upstream trouble,
// anything else means the response body did not decode.
func classifyTokenErr(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return fmt.Errorf("%w: %s: status %d", apperrors.ErrUpstream, op, retrieveErr.Response.StatusCode)
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstream, op, err)
	}
	return fmt.Errorf("%w: %s: %v", apperrors.ErrMalformedResponse, op, err)
}
