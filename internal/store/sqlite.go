package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
	"github.com/Dsek-LTH/Janus/internal/oauth"
)

// SQLiteStore implements Store over a single SQLite file. No
// multi-statement transactions: each operation is one statement, and the
// flow has exactly one writer per identity per run.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) GetCredential(ctx context.Context, userID string) (oauth.Credential, error) {
	var cred oauth.Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, expires_at
		FROM oauth_credentials
		WHERE user_id = ?
	`, userID).Scan(&cred.AccessToken, &cred.RefreshToken, &cred.ExpiresAt)

	if errors.Is(err, sql.ErrNoRows) {
		return oauth.Credential{}, fmt.Errorf("%w: credential for %s", apperrors.ErrNotFound, userID)
	}
	if err != nil {
		return oauth.Credential{}, err
	}
	return cred, nil
}

func (s *SQLiteStore) PutCredential(ctx context.Context, userID string, cred oauth.Credential) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO oauth_credentials (user_id, access_token, refresh_token, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at
	`, userID, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt)
	return err
}

func (s *SQLiteStore) PutIdentity(ctx context.Context, identity oauth.Identity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO identities (provider, id, display_name, member)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (provider, id) DO UPDATE SET
			display_name = excluded.display_name,
			member = excluded.member
	`, identity.Provider, identity.ID, identity.DisplayName, identity.Member)
	return err
}

func (s *SQLiteStore) Link(ctx context.Context, discordID, dsekID string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO account_links (discord_id, dsek_id)
		VALUES (?, ?)
		ON CONFLICT (discord_id) DO UPDATE SET
			dsek_id = excluded.dsek_id
	`, discordID, dsekID)
	return err
}

func (s *SQLiteStore) GetLinkedDsekID(ctx context.Context, discordID string) (string, error) {
	var dsekID string
	err := s.db.QueryRowContext(ctx, `
		SELECT dsek_id FROM account_links WHERE discord_id = ?
	`, discordID).Scan(&dsekID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: link for %s", apperrors.ErrNotFound, discordID)
	}
	if err != nil {
		return "", err
	}
	return dsekID, nil
}

func (s *SQLiteStore) GetDiscordDisplayName(ctx context.Context, discordID string) (string, error) {
	var name string
	err := s.db.QueryRowContext(ctx, `
		SELECT display_name FROM identities WHERE provider = ? AND id = ?
	`, oauth.ProviderDiscord, discordID).Scan(&name)

	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: discord identity %s", apperrors.ErrNotFound, discordID)
	}
	if err != nil {
		return "", err
	}
	return name, nil
}

func (s *SQLiteStore) GetDsekMember(ctx context.Context, dsekID string) (bool, error) {
	var member bool
	err := s.db.QueryRowContext(ctx, `
		SELECT member FROM identities WHERE provider = ? AND id = ?
	`, oauth.ProviderDsek, dsekID).Scan(&member)

	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("%w: dsek identity %s", apperrors.ErrNotFound, dsekID)
	}
	if err != nil {
		return false, err
	}
	return member, nil
}
