package session

import "net/http"

const CookieName = "__Host-link-session"

// SetCookie issues the session cookie to the client. The cookie carries
// only the opaque session ID; the flow state itself stays server-side.
func SetCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     "/", // required for __Host-
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(FlowTTL.Seconds()),
	})
}

// ReadID returns the session ID from the request cookie, or "" when the
// visitor has no session yet.
func ReadID(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
