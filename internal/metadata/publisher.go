package metadata

import (
	"context"
	"time"

	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
	"github.com/Dsek-LTH/Janus/internal/oauth"
	"github.com/Dsek-LTH/Janus/internal/store"
)

// DiscordAPI is the slice of the Discord provider the publisher needs.
type DiscordAPI interface {
	Refresh(ctx context.Context, cred oauth.Credential) (oauth.Credential, error)
	UpdateRoleConnection(ctx context.Context, accessToken, platformUsername string, member bool) error
}

// Publisher pushes the role-connection record for a linked account. It
// only runs after both identities are durably linked; failures are
// terminal for the request and the user retries from /linked-role.
type Publisher struct {
	discord DiscordAPI
	store   store.Store
	now     func() time.Time
}

func NewPublisher(discord DiscordAPI, st store.Store) *Publisher {
	return &Publisher{
		discord: discord,
		store:   st,
		now:     time.Now,
	}
}

// Publish refreshes the stored Discord credential if it has expired,
// persists the new pair before using it, and PUTs the metadata record.
// Persisting before the PUT matters: a crash after refresh but before
// persist is recoverable by re-running the flow, whereas a stale stored
// refresh token is silently wrong on the next attempt.
func (p *Publisher) Publish(ctx context.Context, discordUserID string) error {
	cred, err := p.store.GetCredential(ctx, discordUserID)
	if err != nil {
		return apperrors.Wrapf(err, "publish for %s", discordUserID)
	}

	if cred.Expired(p.now()) {
		cred, err = p.discord.Refresh(ctx, cred)
		if err != nil {
			return apperrors.Wrapf(err, "publish for %s", discordUserID)
		}
		if err := p.store.PutCredential(ctx, discordUserID, cred); err != nil {
			return apperrors.Wrapf(err, "publish for %s", discordUserID)
		}
	}

	stilID, err := p.store.GetLinkedDsekID(ctx, discordUserID)
	if err != nil {
		return apperrors.Wrapf(err, "publish for %s", discordUserID)
	}

	member, err := p.store.GetDsekMember(ctx, stilID)
	if err != nil {
		return apperrors.Wrapf(err, "publish for %s", discordUserID)
	}

	return p.discord.UpdateRoleConnection(ctx, cred.AccessToken, stilID, member)
}
