package store

import (
	"context"

	"github.com/Dsek-LTH/Janus/internal/oauth"
)

// Store persists the durable side of the linking flow: token pairs,
// provider identities, and the discord-to-dsek links. Every write is a
// single-row upsert; last write wins throughout.
type Store interface {
	GetCredential(ctx context.Context, userID string) (oauth.Credential, error)
	PutCredential(ctx context.Context, userID string, cred oauth.Credential) error

	PutIdentity(ctx context.Context, identity oauth.Identity) error

	Link(ctx context.Context, discordID, dsekID string) error
	GetLinkedDsekID(ctx context.Context, discordID string) (string, error)

	GetDiscordDisplayName(ctx context.Context, discordID string) (string, error)
	GetDsekMember(ctx context.Context, dsekID string) (bool, error)
}
