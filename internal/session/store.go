package session

import (
	"context"
	"time"
)

// FlowTTL bounds how long an in-flight linking attempt may take. Long
// enough for two consent screens, short enough that abandoned flows
// expire on their own.
const FlowTTL = 15 * time.Minute

// FlowState is the per-visitor state of one linking attempt. It lives
// only in the visitor's session, never in the database: losing it
// mid-flow fails the next callback closed instead of leaving server-side
// state behind.
type FlowState struct {
	DiscordState  string `json:"discord_state,omitempty"`
	DsekState     string `json:"dsek_state,omitempty"`
	DiscordUserID string `json:"discord_user_id,omitempty"`
}

// Store holds flow state keyed by session ID. Implementations must keep
// different visitors' state strictly separate.
type Store interface {
	// Get returns the state for a session, or nil when none exists.
	Get(ctx context.Context, sessionID string) (*FlowState, error)
	// Save replaces the state for a session and resets its TTL.
	Save(ctx context.Context, sessionID string, s FlowState) error
	Delete(ctx context.Context, sessionID string) error
}
