package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SlackAttachment struct {
	Title    string `json:"title,omitempty"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

type SlackReaction struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// AttachmentList stores message attachments as a JSONB column
type AttachmentList []SlackAttachment

func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		a = AttachmentList{}
	}
	return json.Marshal(a)
}

func (a *AttachmentList) Scan(src any) error {
	return scanJSON(src, a)
}

// ReactionList stores message reactions as a JSONB column
type ReactionList []SlackReaction

func (r ReactionList) Value() (driver.Value, error) {
	if r == nil {
		r = ReactionList{}
	}
	return json.Marshal(r)
}

func (r *ReactionList) Scan(src any) error {
	return scanJSON(src, r)
}

// MetadataMap stores free-form message metadata as a JSONB column
type MetadataMap map[string]any

func (m MetadataMap) Value() (driver.Value, error) {
	if m == nil {
		m = MetadataMap{}
	}
	return json.Marshal(m)
}

func (m *MetadataMap) Scan(src any) error {
	return scanJSON(src, m)
}

func scanJSON(src, dest any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into JSON column", src)
	}
}

// LinkedMessage is a Slack message pinned to a stream. The slack_message_id
// column carries a global unique index - one Slack message links to at most
// one stream for the lifetime of the system.
type LinkedMessage struct {
	ID                     string         `db:"id"                        json:"id"`
	StreamID               string         `db:"stream_id"                 json:"stream_id"`
	OrganizationID         string         `db:"organization_id"           json:"organization_id"`
	SlackMessageID         string         `db:"slack_message_id"          json:"slack_message_id"`
	SlackChannelID         string         `db:"slack_channel_id"          json:"slack_channel_id"`
	SlackChannelName       string         `db:"slack_channel_name"        json:"slack_channel_name"`
	SlackAuthorID          string         `db:"slack_author_id"           json:"slack_author_id"`
	SlackAuthorName        string         `db:"slack_author_name"         json:"slack_author_name"`
	SlackAuthorDisplayName string         `db:"slack_author_display_name" json:"slack_author_display_name"`
	MessageText            string         `db:"message_text"              json:"message_text"`
	MessageTS              string         `db:"message_ts"                json:"message_ts"`
	ThreadTS               *string        `db:"thread_ts"                 json:"thread_ts"`
	Permalink              string         `db:"permalink"                 json:"permalink"`
	Attachments            AttachmentList `db:"attachments"               json:"attachments"`
	Reactions              ReactionList   `db:"reactions"                 json:"reactions"`
	Metadata               MetadataMap    `db:"metadata"                  json:"metadata"`
	LinkedByUserID         string         `db:"linked_by_user_id"         json:"linked_by_user_id"`
	CreatedAt              time.Time      `db:"created_at"                json:"created_at"`
	UpdatedAt              time.Time      `db:"updated_at"                json:"updated_at"`
}

// LinkMessageInput carries the fields required to pin a Slack message to a stream
type LinkMessageInput struct {
	StreamID               string         `json:"stream_id"`
	SlackMessageID         string         `json:"slack_message_id"`
	SlackChannelID         string         `json:"slack_channel_id"`
	SlackChannelName       string         `json:"slack_channel_name"`
	SlackAuthorID          string         `json:"slack_author_id"`
	SlackAuthorName        string         `json:"slack_author_name"`
	SlackAuthorDisplayName string         `json:"slack_author_display_name"`
	MessageText            string         `json:"message_text"`
	MessageTS              string         `json:"message_ts"`
	ThreadTS               *string        `json:"thread_ts"`
	Permalink              string         `json:"permalink"`
	Attachments            AttachmentList `json:"attachments"`
	Reactions              ReactionList   `json:"reactions"`
	Metadata               MetadataMap    `json:"metadata"`
}

// LinkedMessageStats aggregates the linked messages of one stream
type LinkedMessageStats struct {
	Total           int     `db:"total"             json:"total"`
	UniqueChannels  int     `db:"unique_channels"   json:"unique_channels"`
	UniqueUsers     int     `db:"unique_users"      json:"unique_users"`
	LatestMessageTS *string `db:"latest_message_ts" json:"latest_message_ts"`
}
