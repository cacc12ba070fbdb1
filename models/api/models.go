package api

import (
	"time"

	"currentlybackend/models"
)

// User is the API representation of a user
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SlackIntegration is the API representation of a Slack credential record.
// Token material is never serialized.
type SlackIntegration struct {
	ID                   string     `json:"id"`
	OrganizationID       string     `json:"organization_id"`
	SlackTeamID          string     `json:"slack_team_id"`
	SlackTeamName        string     `json:"slack_team_name"`
	SlackTeamDomain      string     `json:"slack_team_domain"`
	SlackUserID          string     `json:"slack_user_id"`
	Scope                string     `json:"scope"`
	DefaultChannelID     *string    `json:"default_channel_id"`
	NotificationsEnabled bool       `json:"notifications_enabled"`
	IsActive             bool       `json:"is_active"`
	ConnectedAt          time.Time  `json:"connected_at"`
	ExpiresAt            *time.Time `json:"expires_at"`
}

// LinkedMessage is the API representation of a pinned Slack message
type LinkedMessage struct {
	ID                     string                `json:"id"`
	StreamID               string                `json:"stream_id"`
	OrganizationID         string                `json:"organization_id"`
	SlackMessageID         string                `json:"slack_message_id"`
	SlackChannelID         string                `json:"slack_channel_id"`
	SlackChannelName       string                `json:"slack_channel_name"`
	SlackAuthorID          string                `json:"slack_author_id"`
	SlackAuthorName        string                `json:"slack_author_name"`
	SlackAuthorDisplayName string                `json:"slack_author_display_name"`
	MessageText            string                `json:"message_text"`
	MessageTS              string                `json:"message_ts"`
	ThreadTS               *string               `json:"thread_ts"`
	Permalink              string                `json:"permalink"`
	Attachments            models.AttachmentList `json:"attachments"`
	Reactions              models.ReactionList   `json:"reactions"`
	Metadata               models.MetadataMap    `json:"metadata"`
	LinkedByUserID         string                `json:"linked_by_user_id"`
	CreatedAt              time.Time             `json:"created_at"`
}

// SlackChannel is a channel available to the integration's bot token
type SlackChannel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SlackStatus is the payload of the integration status endpoint
type SlackStatus struct {
	Connected   bool              `json:"connected"`
	Integration *SlackIntegration `json:"integration,omitempty"`
	Channels    []SlackChannel    `json:"channels,omitempty"`
}
