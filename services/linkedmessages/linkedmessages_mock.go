package linkedmessages

import (
	"context"

	"github.com/stretchr/testify/mock"

	"currentlybackend/models"
)

type MockLinkedMessagesService struct {
	mock.Mock
}

func (m *MockLinkedMessagesService) AddLink(
	ctx context.Context,
	actingUserID string,
	input models.LinkMessageInput,
) (*models.LinkedMessage, error) {
	args := m.Called(ctx, actingUserID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkedMessage), args.Error(1)
}

func (m *MockLinkedMessagesService) RemoveLink(ctx context.Context, actingUserID, streamID, messageID string) error {
	args := m.Called(ctx, actingUserID, streamID, messageID)
	return args.Error(0)
}

func (m *MockLinkedMessagesService) ListForStream(
	ctx context.Context,
	actingUserID, streamID string,
) ([]*models.LinkedMessage, error) {
	args := m.Called(ctx, actingUserID, streamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LinkedMessage), args.Error(1)
}

func (m *MockLinkedMessagesService) StatsForStream(
	ctx context.Context,
	actingUserID, streamID string,
) (*models.LinkedMessageStats, error) {
	args := m.Called(ctx, actingUserID, streamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkedMessageStats), args.Error(1)
}
