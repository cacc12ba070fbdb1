package streams

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"currentlybackend/models"
)

type MockStreamsService struct {
	mock.Mock
}

func (m *MockStreamsService) CreateStream(
	ctx context.Context,
	organizationID, name, description, createdByUserID string,
) (*models.Stream, error) {
	args := m.Called(ctx, organizationID, name, description, createdByUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stream), args.Error(1)
}

func (m *MockStreamsService) GetStreamByID(ctx context.Context, id string) (mo.Option[*models.Stream], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Stream]), args.Error(1)
}

func (m *MockStreamsService) AddStreamMember(
	ctx context.Context,
	streamID, userID string,
	role models.StreamRole,
) error {
	args := m.Called(ctx, streamID, userID, role)
	return args.Error(0)
}

func (m *MockStreamsService) IsStreamMember(ctx context.Context, streamID, userID string) (bool, error) {
	args := m.Called(ctx, streamID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockStreamsService) GetStreamsForUserInOrganization(
	ctx context.Context,
	userID, organizationID string,
) ([]*models.Stream, error) {
	args := m.Called(ctx, userID, organizationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Stream), args.Error(1)
}
