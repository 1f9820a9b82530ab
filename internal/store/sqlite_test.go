package store_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/Dsek-LTH/Janus/internal/db"
	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
	"github.com/Dsek-LTH/Janus/internal/oauth"
	"github.com/Dsek-LTH/Janus/internal/store"
)

func newTestStore(t *testing.T) (*store.SQLiteStore, *sql.DB) {
	t.Helper()

	sqlDB, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "janus.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.RunMigration(context.Background(), sqlDB))
	return store.NewSQLiteStore(sqlDB), sqlDB
}

func TestCredentialRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	cred := oauth.Credential{AccessToken: "at-1", RefreshToken: "rt-1", ExpiresAt: 1_700_000_000}
	require.NoError(t, s.PutCredential(ctx, "D1", cred))

	got, err := s.GetCredential(ctx, "D1")
	require.NoError(t, err)
	require.Equal(t, cred, got)
}

func TestCredentialUpsertReplacesWholesale(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutCredential(ctx, "D1", oauth.Credential{
		AccessToken: "at-1", RefreshToken: "rt-1", ExpiresAt: 1,
	}))
	require.NoError(t, s.PutCredential(ctx, "D1", oauth.Credential{
		AccessToken: "at-2", RefreshToken: "rt-2", ExpiresAt: 2,
	}))

	got, err := s.GetCredential(ctx, "D1")
	require.NoError(t, err)
	require.Equal(t, oauth.Credential{AccessToken: "at-2", RefreshToken: "rt-2", ExpiresAt: 2}, got)
}

func TestGetCredentialNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetCredential(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestIdentityUpsert(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutIdentity(ctx, oauth.Identity{
		Provider: oauth.ProviderDsek, ID: "ga1234ni-s", DisplayName: "Gabriel", Member: true,
	}))
	// Re-fetching the identity overwrites, never appends.
	require.NoError(t, s.PutIdentity(ctx, oauth.Identity{
		Provider: oauth.ProviderDsek, ID: "ga1234ni-s", DisplayName: "Gabriel N", Member: false,
	}))

	member, err := s.GetDsekMember(ctx, "ga1234ni-s")
	require.NoError(t, err)
	require.False(t, member)
}

func TestIdentitiesAreProviderScoped(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutIdentity(ctx, oauth.Identity{
		Provider: oauth.ProviderDiscord, ID: "D1", DisplayName: "gabriel",
	}))
	require.NoError(t, s.PutIdentity(ctx, oauth.Identity{
		Provider: oauth.ProviderDsek, ID: "D1", DisplayName: "someone else", Member: true,
	}))

	name, err := s.GetDiscordDisplayName(ctx, "D1")
	require.NoError(t, err)
	require.Equal(t, "gabriel", name)

	member, err := s.GetDsekMember(ctx, "D1")
	require.NoError(t, err)
	require.True(t, member)
}

func TestGetDiscordDisplayNameNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetDiscordDisplayName(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLinkLastWriteWins(t *testing.T) {
	s, sqlDB := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Link(ctx, "D1", "U1"))

	got, err := s.GetLinkedDsekID(ctx, "D1")
	require.NoError(t, err)
	require.Equal(t, "U1", got)

	// Re-running the flow replaces the link, one row per discord id.
	require.NoError(t, s.Link(ctx, "D1", "U2"))

	got, err = s.GetLinkedDsekID(ctx, "D1")
	require.NoError(t, err)
	require.Equal(t, "U2", got)

	var count int
	require.NoError(t, sqlDB.QueryRow("SELECT COUNT(*) FROM account_links").Scan(&count))
	require.Equal(t, 1, count)
}

func TestGetLinkedDsekIDNotFound(t *testing.T) {
	s, _ := newTestStore(t)

	_, err := s.GetLinkedDsekID(context.Background(), "missing")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
