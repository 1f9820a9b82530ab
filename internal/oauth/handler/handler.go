package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Dsek-LTH/Janus/internal/logger"
	"github.com/Dsek-LTH/Janus/internal/oauth"
	"github.com/Dsek-LTH/Janus/internal/oauth/provider"
	"github.com/Dsek-LTH/Janus/internal/session"
	"github.com/Dsek-LTH/Janus/internal/store"
)

// DiscordClient is the slice of the Discord provider the flow needs.
type DiscordClient interface {
	provider.AuthURLBuilder
	ExchangeCode(ctx context.Context, code string) (oauth.Credential, error)
	FetchIdentity(ctx context.Context, accessToken string) (oauth.Identity, error)
}

// DsekClient is the slice of the Dsek provider the flow needs. Its
// exchange yields the identity directly; there is no token to keep.
type DsekClient interface {
	provider.AuthURLBuilder
	ExchangeCode(ctx context.Context, code string) (oauth.Identity, error)
}

// Publisher pushes the role-connection record once a link exists.
type Publisher interface {
	Publish(ctx context.Context, discordUserID string) error
}

// Handler drives the two-step linking flow:
//
//	/linked-role -> discord consent -> /discord-oauth-callback
//	             -> dsek consent    -> /dsek-oauth-callback -> linked
//
// All in-flight state lives in the visitor's session; the database only
// ever sees completed steps.
type Handler struct {
	discord   DiscordClient
	dsek      DsekClient
	sessions  session.Store
	store     store.Store
	publisher Publisher
}

func NewHandler(
	discord DiscordClient,
	dsek DsekClient,
	sessions session.Store,
	st store.Store,
	publisher Publisher,
) *Handler {
	return &Handler{
		discord:   discord,
		dsek:      dsek,
		sessions:  sessions,
		store:     st,
		publisher: publisher,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.index)
	r.GET("/linked-role", h.linkedRole)
	r.GET("/discord-oauth-callback", h.discordCallback)
	r.GET("/dsek-oauth-callback", h.dsekCallback)
}

func (h *Handler) index(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// linkedRole starts (or restarts) the flow: fresh session state with a
// fresh discord nonce, then off to the consent screen.
func (h *Handler) linkedRole(c *gin.Context) {
	sessionID := session.ReadID(c.Request)
	if sessionID == "" {
		var err error
		sessionID, err = session.GenerateID()
		if err != nil {
			h.serverError(c, "failed to create session", err)
			return
		}
		session.SetCookie(c.Writer, sessionID)
	}

	state := generateState()
	if err := h.sessions.Save(c.Request.Context(), sessionID, session.FlowState{
		DiscordState: state,
	}); err != nil {
		h.serverError(c, "failed to save flow state", err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.discord.AuthCodeURL(state))
}

// discordCallback completes the first hop: verify the nonce, trade the
// code for tokens, resolve and persist the discord identity, then send
// the browser onward to the dsek consent screen.
func (h *Handler) discordCallback(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, flow, ok := h.loadFlow(c)
	if !ok {
		return
	}

	if !validateState(flow.DiscordState, c.Query("state")) {
		h.forbidden(c)
		return
	}

	cred, err := h.discord.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		h.serverError(c, "discord code exchange failed", err)
		return
	}

	identity, err := h.discord.FetchIdentity(ctx, cred.AccessToken)
	if err != nil {
		h.serverError(c, "discord identity fetch failed", err)
		return
	}

	if err := h.store.PutIdentity(ctx, identity); err != nil {
		h.serverError(c, "failed to store discord identity", err)
		return
	}
	if err := h.store.PutCredential(ctx, identity.ID, cred); err != nil {
		h.serverError(c, "failed to store discord credential", err)
		return
	}

	// The discord nonce is spent; the state written back holds only
	// what the second hop needs.
	dsekState := generateState()
	if err := h.sessions.Save(ctx, sessionID, session.FlowState{
		DsekState:     dsekState,
		DiscordUserID: identity.ID,
	}); err != nil {
		h.serverError(c, "failed to save flow state", err)
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, h.dsek.AuthCodeURL(dsekState))
}

// dsekCallback completes the second hop: verify the nonce, fetch the
// dsek identity, link it to the discord identity recorded on the first
// hop, and push the role-connection metadata.
func (h *Handler) dsekCallback(c *gin.Context) {
	ctx := c.Request.Context()

	sessionID, flow, ok := h.loadFlow(c)
	if !ok {
		return
	}

	if !validateState(flow.DsekState, c.Query("state")) {
		h.forbidden(c)
		return
	}

	identity, err := h.dsek.ExchangeCode(ctx, c.Query("code"))
	if err != nil {
		h.serverError(c, "dsek code exchange failed", err)
		return
	}

	if err := h.store.PutIdentity(ctx, identity); err != nil {
		h.serverError(c, "failed to store dsek identity", err)
		return
	}

	// A valid dsek nonce with no recorded discord user is a session
	// inconsistency on our side, not a forgery attempt. Logged apart
	// from the 403 path so operators can tell the two cases apart.
	if flow.DiscordUserID == "" {
		logger.Error("dsek callback without discord identity in session", map[string]any{
			"session_present": true,
		})
		c.String(http.StatusInternalServerError, "linking session is inconsistent, restart from /linked-role")
		return
	}

	if err := h.store.Link(ctx, flow.DiscordUserID, identity.ID); err != nil {
		h.serverError(c, "failed to link identities", err)
		return
	}

	if err := h.sessions.Delete(ctx, sessionID); err != nil {
		logger.Warn("failed to delete flow state", map[string]any{
			"error": err.Error(),
		})
	}

	if err := h.publisher.Publish(ctx, flow.DiscordUserID); err != nil {
		h.serverError(c, "metadata publish failed", err)
		return
	}

	discordName, err := h.store.GetDiscordDisplayName(ctx, flow.DiscordUserID)
	if err != nil {
		h.serverError(c, "failed to read discord display name", err)
		return
	}

	c.String(http.StatusOK, "Linked Discord account %q to Dsek account %q", discordName, identity.DisplayName)
}

// loadFlow resolves the visitor's flow state. A missing session or
// missing state fails closed with the same 403 a bad nonce gets.
func (h *Handler) loadFlow(c *gin.Context) (string, *session.FlowState, bool) {
	sessionID := session.ReadID(c.Request)
	if sessionID == "" {
		h.forbidden(c)
		return "", nil, false
	}

	flow, err := h.sessions.Get(c.Request.Context(), sessionID)
	if err != nil {
		h.serverError(c, "failed to load flow state", err)
		return "", nil, false
	}
	if flow == nil {
		h.forbidden(c)
		return "", nil, false
	}

	return sessionID, flow, true
}

func (h *Handler) forbidden(c *gin.Context) {
	// One body for every state failure; which one occurred is not
	// leaked to the client.
	c.String(http.StatusForbidden, "invalid oauth state")
}

func (h *Handler) serverError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{
		"error": err.Error(),
		"path":  c.Request.URL.Path,
	})
	c.String(http.StatusInternalServerError, "something went wrong, restart from /linked-role")
}
