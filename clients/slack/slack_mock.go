package slack

import (
	"context"
	"net/http"

	"github.com/stretchr/testify/mock"

	"currentlybackend/clients"
)

type MockSlackClient struct {
	mock.Mock
}

func (m *MockSlackClient) GetOAuthV2Response(
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*clients.SlackOAuthV2Response, error) {
	args := m.Called(httpClient, clientID, clientSecret, code, redirectURL)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SlackOAuthV2Response), args.Error(1)
}

func (m *MockSlackClient) GetTeamInfo(ctx context.Context, accessToken string) (*clients.SlackTeamInfo, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*clients.SlackTeamInfo), args.Error(1)
}

func (m *MockSlackClient) GetConversations(ctx context.Context, accessToken string) ([]clients.SlackChannel, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]clients.SlackChannel), args.Error(1)
}
