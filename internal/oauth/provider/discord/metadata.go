package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	apperrors "github.com/Dsek-LTH/Janus/internal/errors"
)

// platformName is the label Discord shows next to the linked role.
const platformName = "D-sektionen inom TLTH"

type roleConnectionMetadata struct {
	DsekMember bool `json:"dsek_member"`
}

type roleConnectionUpdate struct {
	PlatformName     string                 `json:"platform_name"`
	PlatformUsername string                 `json:"platform_username"`
	Metadata         roleConnectionMetadata `json:"metadata"`
}

// UpdateRoleConnection pushes the role-connection record for the user
// behind accessToken. platformUsername is the linked stil id, never the
// raw Discord id.
func (p *Provider) UpdateRoleConnection(ctx context.Context, accessToken, platformUsername string, member bool) error {
	endpoint := fmt.Sprintf("%s/users/@me/applications/%s/role-connection", p.apiBase, p.clientID)

	payload := roleConnectionUpdate{
		PlatformName:     platformName,
		PlatformUsername: platformUsername,
		Metadata:         roleConnectionMetadata{DsekMember: member},
	}

	return p.putJSON(ctx, endpoint, "Bearer "+accessToken, payload, "discord role connection update")
}

// RegisterMetadataSchema registers the dsek_member metadata field with
// the Discord application. One-time setup, authenticated with the bot
// token rather than a user token.
func (p *Provider) RegisterMetadataSchema(ctx context.Context, botToken string) error {
	endpoint := fmt.Sprintf("%s/applications/%s/role-connections/metadata", p.apiBase, p.clientID)

	// type 7 = boolean equal
	schema := []map[string]any{
		{
			"key":         "dsek_member",
			"name":        "Dsek member",
			"description": "Member of the D-guild at TLTH",
			"type":        7,
		},
	}

	return p.putJSON(ctx, endpoint, "Bot "+botToken, schema, "discord metadata schema registration")
}

func (p *Provider) putJSON(ctx context.Context, endpoint, authorization string, payload any, op string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authorization)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrUpstream, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: %s: status %d", apperrors.ErrUpstream, op, resp.StatusCode)
	}
	return nil
}
