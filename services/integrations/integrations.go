package integrations

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/samber/mo"

	"currentlybackend/clients"
	"currentlybackend/core"
	"currentlybackend/db"
	"currentlybackend/models"
)

type IntegrationsService struct {
	integrationsRepo  *db.PostgresIntegrationsRepository
	slackClient       clients.SlackClient
	slackClientID     string
	slackClientSecret string
}

func NewIntegrationsService(
	repo *db.PostgresIntegrationsRepository,
	slackClient clients.SlackClient,
	slackClientID, slackClientSecret string,
) *IntegrationsService {
	return &IntegrationsService{
		integrationsRepo:  repo,
		slackClient:       slackClient,
		slackClientID:     slackClientID,
		slackClientSecret: slackClientSecret,
	}
}

// ConnectSlackIntegration exchanges an OAuth code and upserts the credential
// record for the (user, organization) pair. Reauthorizing overwrites the
// existing record instead of creating a duplicate.
func (s *IntegrationsService) ConnectSlackIntegration(
	ctx context.Context,
	userID, organizationID, authCode, redirectURL string,
) (*models.Integration, error) {
	log.Printf("📋 Starting to connect Slack integration for user: %s, organization: %s", userID, organizationID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}
	if !core.IsValidULID(organizationID) {
		return nil, fmt.Errorf("organization ID must be a valid ULID")
	}
	if authCode == "" {
		return nil, fmt.Errorf("slack auth code cannot be empty")
	}

	oauthResponse, err := s.slackClient.GetOAuthV2Response(
		&http.Client{Timeout: 10 * time.Second},
		s.slackClientID,
		s.slackClientSecret,
		authCode,
		redirectURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange OAuth code with Slack: %w", err)
	}

	if oauthResponse.TeamID == "" {
		return nil, fmt.Errorf("team ID not found in Slack OAuth response")
	}
	if oauthResponse.AccessToken == "" {
		return nil, fmt.Errorf("access token not found in Slack OAuth response")
	}

	integration := &models.Integration{
		ID:             core.NewID("int"),
		UserID:         userID,
		OrganizationID: organizationID,
		Provider:       models.IntegrationProviderSlack,
		AccessToken:    oauthResponse.AccessToken,
		SlackTeamID:    oauthResponse.TeamID,
		SlackTeamName:  oauthResponse.TeamName,
		SlackUserID:    oauthResponse.AuthedUserID,
		Scope:          oauthResponse.Scope,
	}
	if oauthResponse.RefreshToken != "" {
		refreshToken := oauthResponse.RefreshToken
		integration.RefreshToken = &refreshToken
	}
	if oauthResponse.ExpiresIn > 0 {
		expiresAt := time.Now().Add(time.Duration(oauthResponse.ExpiresIn) * time.Second)
		integration.ExpiresAt = &expiresAt
	}

	// Secondary call for workspace display metadata. A failure here is
	// non-fatal: the integration is stored with whatever metadata the OAuth
	// response already carried.
	teamInfo, err := s.slackClient.GetTeamInfo(ctx, oauthResponse.AccessToken)
	if err != nil {
		log.Printf("⚠️ Failed to fetch Slack team info, storing integration without it: %v", err)
	} else {
		integration.SlackTeamName = teamInfo.Name
		integration.SlackTeamDomain = teamInfo.Domain
	}

	if err := s.integrationsRepo.UpsertIntegration(ctx, integration); err != nil {
		return nil, fmt.Errorf("failed to upsert slack integration: %w", err)
	}

	log.Printf("📋 Completed successfully - connected Slack integration %s for team: %s", integration.ID, integration.SlackTeamID)
	return integration, nil
}

func (s *IntegrationsService) GetSlackIntegration(
	ctx context.Context,
	userID, organizationID string,
) (mo.Option[*models.Integration], error) {
	log.Printf("📋 Starting to get Slack integration for user: %s, organization: %s", userID, organizationID)
	if !core.IsValidULID(userID) {
		return mo.None[*models.Integration](), fmt.Errorf("user ID must be a valid ULID")
	}
	if !core.IsValidULID(organizationID) {
		return mo.None[*models.Integration](), fmt.Errorf("organization ID must be a valid ULID")
	}

	maybeIntegration, err := s.integrationsRepo.GetActiveIntegration(
		ctx,
		userID,
		organizationID,
		models.IntegrationProviderSlack,
	)
	if err != nil {
		return mo.None[*models.Integration](), fmt.Errorf("failed to get slack integration: %w", err)
	}
	if !maybeIntegration.IsPresent() {
		log.Printf("📋 Completed successfully - slack integration not found")
		return mo.None[*models.Integration](), nil
	}

	log.Printf("📋 Completed successfully - found slack integration for team: %s", maybeIntegration.MustGet().SlackTeamName)
	return maybeIntegration, nil
}

func (s *IntegrationsService) GetSlackIntegrationBySlackUserID(
	ctx context.Context,
	slackTeamID, slackUserID string,
) (mo.Option[*models.Integration], error) {
	log.Printf("📋 Starting to get slack integration by slack user: %s in team: %s", slackUserID, slackTeamID)
	if slackTeamID == "" {
		return mo.None[*models.Integration](), fmt.Errorf("slack team ID cannot be empty")
	}
	if slackUserID == "" {
		return mo.None[*models.Integration](), fmt.Errorf("slack user ID cannot be empty")
	}

	maybeIntegration, err := s.integrationsRepo.GetActiveIntegrationBySlackUserID(ctx, slackTeamID, slackUserID)
	if err != nil {
		return mo.None[*models.Integration](), fmt.Errorf("failed to get slack integration by slack user: %w", err)
	}
	if !maybeIntegration.IsPresent() {
		log.Printf("📋 Completed successfully - slack integration not found")
		return mo.None[*models.Integration](), nil
	}

	log.Printf("📋 Completed successfully - resolved slack user %s to user: %s", slackUserID, maybeIntegration.MustGet().UserID)
	return maybeIntegration, nil
}

// UpdateSlackIntegrationSettings mutates settings on an owned credential
// record. Ownership is enforced by the repository's user_id predicate.
func (s *IntegrationsService) UpdateSlackIntegrationSettings(
	ctx context.Context,
	integrationID, userID string,
	settings models.IntegrationSettingsUpdate,
) error {
	log.Printf("📋 Starting to update settings for integration: %s", integrationID)
	if !core.IsValidULID(integrationID) {
		return fmt.Errorf("integration ID must be a valid ULID")
	}
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}

	updated, err := s.integrationsRepo.UpdateIntegrationSettings(ctx, integrationID, userID, settings)
	if err != nil {
		return fmt.Errorf("failed to update integration settings: %w", err)
	}
	if !updated {
		return core.ErrNotFound
	}

	log.Printf("📋 Completed successfully - updated settings for integration: %s", integrationID)
	return nil
}

// DisconnectSlackIntegration soft-disables the credential record
func (s *IntegrationsService) DisconnectSlackIntegration(ctx context.Context, userID, organizationID string) error {
	log.Printf("📋 Starting to disconnect Slack integration for user: %s, organization: %s", userID, organizationID)

	maybeIntegration, err := s.GetSlackIntegration(ctx, userID, organizationID)
	if err != nil {
		return err
	}
	if !maybeIntegration.IsPresent() {
		return core.ErrNotConnected
	}
	integration := maybeIntegration.MustGet()

	deactivated, err := s.integrationsRepo.DeactivateIntegration(ctx, integration.ID, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate integration: %w", err)
	}
	if !deactivated {
		return core.ErrNotFound
	}

	log.Printf("📋 Completed successfully - disconnected Slack integration: %s", integration.ID)
	return nil
}

func (s *IntegrationsService) ListSlackChannels(
	ctx context.Context,
	integration *models.Integration,
) ([]clients.SlackChannel, error) {
	log.Printf("📋 Starting to list Slack channels for integration: %s", integration.ID)

	channels, err := s.slackClient.GetConversations(ctx, integration.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list slack channels: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d Slack channels", len(channels))
	return channels, nil
}
