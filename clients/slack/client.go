package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/slack-go/slack"

	"currentlybackend/clients"
	"currentlybackend/core"
)

// Client implements the clients.SlackClient interface using the slack-go/slack SDK
type Client struct{}

// NewSlackClient creates a new Slack client
func NewSlackClient() clients.SlackClient {
	return &Client{}
}

// GetOAuthV2Response exchanges an OAuth authorization code for access tokens
func (c *Client) GetOAuthV2Response(
	httpClient *http.Client,
	clientID, clientSecret, code, redirectURL string,
) (*clients.SlackOAuthV2Response, error) {
	slackResponse, err := slack.GetOAuthV2Response(httpClient, clientID, clientSecret, code, redirectURL)
	if err != nil {
		// Distinguish transport failures from Slack's logical denials. Slack
		// returns HTTP 200 with ok:false for rejected codes - the SDK turns
		// that into an error too, so a url.Error is the transport marker.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return nil, fmt.Errorf("slack oauth request failed: %w", err)
		}
		return nil, fmt.Errorf("%w: %v", core.ErrOAuthExchangeFailed, err)
	}

	return &clients.SlackOAuthV2Response{
		AccessToken:  slackResponse.AccessToken,
		RefreshToken: slackResponse.RefreshToken,
		ExpiresIn:    slackResponse.ExpiresIn,
		Scope:        slackResponse.Scope,
		TeamID:       slackResponse.Team.ID,
		TeamName:     slackResponse.Team.Name,
		AuthedUserID: slackResponse.AuthedUser.ID,
	}, nil
}

// GetTeamInfo fetches workspace display metadata with the given access token
func (c *Client) GetTeamInfo(ctx context.Context, accessToken string) (*clients.SlackTeamInfo, error) {
	api := slack.New(accessToken, slack.OptionHTTPClient(&http.Client{Timeout: 10 * time.Second}))

	teamInfo, err := api.GetTeamInfoContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch team info: %w", err)
	}

	return &clients.SlackTeamInfo{
		ID:     teamInfo.ID,
		Name:   teamInfo.Name,
		Domain: teamInfo.Domain,
	}, nil
}

// GetConversations lists the public channels visible to the given access token
func (c *Client) GetConversations(ctx context.Context, accessToken string) ([]clients.SlackChannel, error) {
	api := slack.New(accessToken, slack.OptionHTTPClient(&http.Client{Timeout: 10 * time.Second}))

	channels, _, err := api.GetConversationsContext(ctx, &slack.GetConversationsParameters{
		ExcludeArchived: true,
		Types:           []string{"public_channel"},
		Limit:           200,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}

	result := make([]clients.SlackChannel, 0, len(channels))
	for _, channel := range channels {
		result = append(result, clients.SlackChannel{
			ID:   channel.ID,
			Name: channel.Name,
		})
	}

	return result, nil
}
