package models

import (
	"time"
)

type IntegrationProvider string

const (
	IntegrationProviderSlack IntegrationProvider = "slack"
)

// Integration holds the stored OAuth token + workspace metadata for one
// (user, organization) pair's connection to Slack. At most one active record
// exists per (user_id, organization_id, provider) - reconnecting upserts.
type Integration struct {
	ID                   string              `db:"id"                    json:"id"`
	UserID               string              `db:"user_id"               json:"user_id"`
	OrganizationID       string              `db:"organization_id"       json:"organization_id"`
	Provider             IntegrationProvider `db:"provider"              json:"provider"`
	AccessToken          string              `db:"access_token"          json:"-"`
	RefreshToken         *string             `db:"refresh_token"         json:"-"`
	ExpiresAt            *time.Time          `db:"expires_at"            json:"expires_at"`
	SlackTeamID          string              `db:"slack_team_id"         json:"slack_team_id"`
	SlackTeamName        string              `db:"slack_team_name"       json:"slack_team_name"`
	SlackTeamDomain      string              `db:"slack_team_domain"     json:"slack_team_domain"`
	SlackUserID          string              `db:"slack_user_id"         json:"slack_user_id"`
	Scope                string              `db:"scope"                 json:"scope"`
	DefaultChannelID     *string             `db:"default_channel_id"    json:"default_channel_id"`
	NotificationsEnabled bool                `db:"notifications_enabled" json:"notifications_enabled"`
	IsActive             bool                `db:"is_active"             json:"is_active"`
	CreatedAt            time.Time           `db:"created_at"            json:"created_at"`
	UpdatedAt            time.Time           `db:"updated_at"            json:"updated_at"`
}

// IntegrationSettingsUpdate carries the user-editable integration settings.
// Nil fields are left unchanged.
type IntegrationSettingsUpdate struct {
	DefaultChannelID     *string `json:"default_channel_id"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}
