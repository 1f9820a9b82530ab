package oauth

import "time"

// Credential is one access/refresh token pair issued by a provider.
// ExpiresAt is unix seconds: issue time plus the provider-reported
// lifetime. A credential is replaced wholesale on every exchange and
// refresh, never partially updated.
type Credential struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    int64
}

// Expired reports whether the access token must be refreshed before use.
func (c Credential) Expired(now time.Time) bool {
	return now.Unix() >= c.ExpiresAt
}
