package clients

import (
	"context"
	"net/http"
)

// SlackOAuthV2Response carries the fields we use from Slack's oauth.v2.access response
type SlackOAuthV2Response struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	Scope        string
	TeamID       string
	TeamName     string
	AuthedUserID string
}

// SlackTeamInfo is the workspace display metadata fetched after the OAuth exchange
type SlackTeamInfo struct {
	ID     string
	Name   string
	Domain string
}

// SlackChannel is a conversation visible to an access token
type SlackChannel struct {
	ID   string
	Name string
}

// SlackClient is the surface of the Slack Web API this backend depends on
type SlackClient interface {
	// GetOAuthV2Response exchanges an OAuth authorization code for access tokens.
	// A logical denial from Slack (ok:false) surfaces as core.ErrOAuthExchangeFailed.
	GetOAuthV2Response(
		httpClient *http.Client,
		clientID, clientSecret, code, redirectURL string,
	) (*SlackOAuthV2Response, error)

	// GetTeamInfo fetches workspace display metadata with the given access token
	GetTeamInfo(ctx context.Context, accessToken string) (*SlackTeamInfo, error)

	// GetConversations lists the public channels visible to the given access token
	GetConversations(ctx context.Context, accessToken string) ([]SlackChannel, error)
}
