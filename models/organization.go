package models

import (
	"time"
)

type Organization struct {
	ID        string    `db:"id"         json:"id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

type OrganizationRole string

const (
	OrganizationRoleOwner  OrganizationRole = "owner"
	OrganizationRoleAdmin  OrganizationRole = "admin"
	OrganizationRoleMember OrganizationRole = "member"
)

type OrganizationMember struct {
	OrganizationID string           `db:"organization_id" json:"organization_id"`
	UserID         string           `db:"user_id"         json:"user_id"`
	Role           OrganizationRole `db:"role"            json:"role"`
	CreatedAt      time.Time        `db:"created_at"      json:"created_at"`
}
