package models

import (
	"time"
)

// Stream is the project/workspace entity that Slack messages get pinned to
type Stream struct {
	ID             string    `db:"id"              json:"id"`
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Name           string    `db:"name"            json:"name"`
	Description    string    `db:"description"     json:"description"`
	CreatedByID    string    `db:"created_by_id"   json:"created_by_id"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"      json:"updated_at"`
}

type StreamRole string

const (
	StreamRoleOwner  StreamRole = "owner"
	StreamRoleMember StreamRole = "member"
)

type StreamMember struct {
	StreamID  string     `db:"stream_id"  json:"stream_id"`
	UserID    string     `db:"user_id"    json:"user_id"`
	Role      StreamRole `db:"role"       json:"role"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
}
