package services

import (
	"context"

	"github.com/samber/mo"

	"currentlybackend/clients"
	"currentlybackend/models"
)

// UsersService defines the interface for user-related operations
type UsersService interface {
	GetOrCreateUser(ctx context.Context, authProvider, authProviderID, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (mo.Option[*models.User], error)
}

// OrganizationsService defines the interface for organization-related operations
type OrganizationsService interface {
	CreateOrganization(ctx context.Context, name, ownerUserID string) (*models.Organization, error)
	GetOrganizationByID(ctx context.Context, id string) (mo.Option[*models.Organization], error)
	GetOrganizationsForUser(ctx context.Context, userID string) ([]*models.Organization, error)
	AddMember(ctx context.Context, organizationID, userID string, role models.OrganizationRole) error
	IsMember(ctx context.Context, organizationID, userID string) (bool, error)
}

// StreamsService defines the interface for stream-related operations
type StreamsService interface {
	CreateStream(ctx context.Context, organizationID, name, description, createdByUserID string) (*models.Stream, error)
	GetStreamByID(ctx context.Context, id string) (mo.Option[*models.Stream], error)
	AddStreamMember(ctx context.Context, streamID, userID string, role models.StreamRole) error
	IsStreamMember(ctx context.Context, streamID, userID string) (bool, error)
	GetStreamsForUserInOrganization(ctx context.Context, userID, organizationID string) ([]*models.Stream, error)
}

// IntegrationsService defines the interface for Slack credential operations
type IntegrationsService interface {
	ConnectSlackIntegration(
		ctx context.Context,
		userID, organizationID, authCode, redirectURL string,
	) (*models.Integration, error)
	GetSlackIntegration(ctx context.Context, userID, organizationID string) (mo.Option[*models.Integration], error)
	GetSlackIntegrationBySlackUserID(
		ctx context.Context,
		slackTeamID, slackUserID string,
	) (mo.Option[*models.Integration], error)
	UpdateSlackIntegrationSettings(
		ctx context.Context,
		integrationID, userID string,
		settings models.IntegrationSettingsUpdate,
	) error
	DisconnectSlackIntegration(ctx context.Context, userID, organizationID string) error
	ListSlackChannels(ctx context.Context, integration *models.Integration) ([]clients.SlackChannel, error)
}

// LinkedMessagesService defines the interface for pinning Slack messages to streams
type LinkedMessagesService interface {
	AddLink(ctx context.Context, actingUserID string, input models.LinkMessageInput) (*models.LinkedMessage, error)
	RemoveLink(ctx context.Context, actingUserID, streamID, messageID string) error
	ListForStream(ctx context.Context, actingUserID, streamID string) ([]*models.LinkedMessage, error)
	StatsForStream(ctx context.Context, actingUserID, streamID string) (*models.LinkedMessageStats, error)
}

// TransactionManager defines the interface for transactional composition
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
