package integrations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"currentlybackend/clients"
	"currentlybackend/models"
)

type MockIntegrationsService struct {
	mock.Mock
}

func (m *MockIntegrationsService) ConnectSlackIntegration(
	ctx context.Context,
	userID, organizationID, authCode, redirectURL string,
) (*models.Integration, error) {
	args := m.Called(ctx, userID, organizationID, authCode, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Integration), args.Error(1)
}

func (m *MockIntegrationsService) GetSlackIntegration(
	ctx context.Context,
	userID, organizationID string,
) (mo.Option[*models.Integration], error) {
	args := m.Called(ctx, userID, organizationID)
	return args.Get(0).(mo.Option[*models.Integration]), args.Error(1)
}

func (m *MockIntegrationsService) GetSlackIntegrationBySlackUserID(
	ctx context.Context,
	slackTeamID, slackUserID string,
) (mo.Option[*models.Integration], error) {
	args := m.Called(ctx, slackTeamID, slackUserID)
	return args.Get(0).(mo.Option[*models.Integration]), args.Error(1)
}

func (m *MockIntegrationsService) UpdateSlackIntegrationSettings(
	ctx context.Context,
	integrationID, userID string,
	settings models.IntegrationSettingsUpdate,
) error {
	args := m.Called(ctx, integrationID, userID, settings)
	return args.Error(0)
}

func (m *MockIntegrationsService) DisconnectSlackIntegration(ctx context.Context, userID, organizationID string) error {
	args := m.Called(ctx, userID, organizationID)
	return args.Error(0)
}

func (m *MockIntegrationsService) ListSlackChannels(
	ctx context.Context,
	integration *models.Integration,
) ([]clients.SlackChannel, error) {
	args := m.Called(ctx, integration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.SlackChannel), args.Error(1)
}
