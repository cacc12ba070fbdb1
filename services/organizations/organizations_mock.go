package organizations

import (
	"context"

	"github.com/samber/mo"
	"github.com/stretchr/testify/mock"

	"currentlybackend/models"
)

type MockOrganizationsService struct {
	mock.Mock
}

func (m *MockOrganizationsService) CreateOrganization(
	ctx context.Context,
	name, ownerUserID string,
) (*models.Organization, error) {
	args := m.Called(ctx, name, ownerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Organization), args.Error(1)
}

func (m *MockOrganizationsService) GetOrganizationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Organization], error) {
	args := m.Called(ctx, id)
	return args.Get(0).(mo.Option[*models.Organization]), args.Error(1)
}

func (m *MockOrganizationsService) GetOrganizationsForUser(
	ctx context.Context,
	userID string,
) ([]*models.Organization, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Organization), args.Error(1)
}

func (m *MockOrganizationsService) AddMember(
	ctx context.Context,
	organizationID, userID string,
	role models.OrganizationRole,
) error {
	args := m.Called(ctx, organizationID, userID, role)
	return args.Error(0)
}

func (m *MockOrganizationsService) IsMember(ctx context.Context, organizationID, userID string) (bool, error) {
	args := m.Called(ctx, organizationID, userID)
	return args.Bool(0), args.Error(1)
}
