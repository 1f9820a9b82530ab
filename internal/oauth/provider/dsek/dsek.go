package dsek

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
	"github.com/Dsek-LTH/Janus/internal/oauth"
)

// Provider is the OIDC client for the Dsek portal (a Keycloak realm).
// Unlike Discord, one code exchange yields everything: the id_token in
// the token response carries the identity, so there is no separate
// "who am I" call and the Dsek token is never stored.
type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New initializes the Dsek provider using OIDC discovery. issuer must be
// the realm issuer URL, e.g. https://portal.dsek.se/realms/dsek
func New(ctx context.Context, issuer, clientID, clientSecret, redirectURL string) (*Provider, error) {
	if issuer == "" || clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("dsek oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init dsek oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: clientID,
	})

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID},
	}

	return newProvider(oauthCfg, verifier), nil
}

func newProvider(cfg *oauth2.Config, verifier *oidc.IDTokenVerifier) *Provider {
	return &Provider{
		oauthConfig: cfg,
		verifier:    verifier,
	}
}

// AuthCodeURL builds the consent URL for a caller-generated state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// ExchangeCode exchanges the authorization code and returns the
// normalized identity carried by the id_token. Membership is derived
// here: a user is a dsek member iff the token lists any groups.
func (p *Provider) ExchangeCode(ctx context.Context, code string) (oauth.Identity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return oauth.Identity{}, classifyTokenErr("dsek token exchange", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return oauth.Identity{}, fmt.Errorf("%w: dsek did not return id_token", apperrors.ErrMalformedResponse)
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return oauth.Identity{}, fmt.Errorf("%w: dsek id_token verification failed: %v", apperrors.ErrMalformedResponse, err)
	}

	var claims struct {
		Name   string   `json:"name"`
		StilID string   `json:"preferred_username"`
		Groups []string `json:"group_list"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return oauth.Identity{}, fmt.Errorf("%w: dsek id_token claims parse failed: %v", apperrors.ErrMalformedResponse, err)
	}

	if claims.StilID == "" || claims.Name == "" {
		return oauth.Identity{}, fmt.Errorf("%w: dsek id_token missing required claims", apperrors.ErrMalformedResponse)
	}

	return oauth.Identity{
		Provider:    oauth.ProviderDsek,
		ID:          claims.StilID,
		DisplayName: claims.Name,
		Member:      len(claims.Groups) > 0,
	}, nil
}

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
