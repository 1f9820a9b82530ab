package provider

// AuthURLBuilder is the capability both providers share: deterministic
// construction of the consent-redirect URL for a given anti-forgery
// state. Nonce generation is the caller's responsibility so it can be
// stored in the session atomically with issuing the redirect.
//
// The providers diverge after this point — Discord's code exchange
// yields a token pair that needs a separate identity call, while the
// Dsek portal's token response carries the identity itself — so the
// exchange shapes live on the concrete clients.
type AuthURLBuilder interface {
	AuthCodeURL(state string) string
}
