package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/samber/mo"

	dbtx "currentlybackend/db/tx"
	"currentlybackend/models"
)

type PostgresIntegrationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for integrations table
var integrationsColumns = []string{
	"id",
	"user_id",
	"organization_id",
	"provider",
	"access_token",
	"refresh_token",
	"expires_at",
	"slack_team_id",
	"slack_team_name",
	"slack_team_domain",
	"slack_user_id",
	"scope",
	"default_channel_id",
	"notifications_enabled",
	"is_active",
	"created_at",
	"updated_at",
}

func NewPostgresIntegrationsRepository(db *sqlx.DB, schema string) *PostgresIntegrationsRepository {
	return &PostgresIntegrationsRepository{db: db, schema: schema}
}

// UpsertIntegration inserts or overwrites the credential record for the
// (user_id, organization_id, provider) triple. Reconnecting must never create
// a duplicate row - the conflict target is the serialization point.
func (r *PostgresIntegrationsRepository) UpsertIntegration(
	ctx context.Context,
	integration *models.Integration,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{
		"id", "user_id", "organization_id", "provider",
		"access_token", "refresh_token", "expires_at",
		"slack_team_id", "slack_team_name", "slack_team_domain", "slack_user_id", "scope",
		"is_active", "created_at", "updated_at",
	}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(integrationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.integrations (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE, NOW(), NOW())
		ON CONFLICT (user_id, organization_id, provider)
		DO UPDATE SET
			access_token = EXCLUDED.access_token,
			refresh_token = EXCLUDED.refresh_token,
			expires_at = EXCLUDED.expires_at,
			slack_team_id = EXCLUDED.slack_team_id,
			slack_team_name = EXCLUDED.slack_team_name,
			slack_team_domain = EXCLUDED.slack_team_domain,
			slack_user_id = EXCLUDED.slack_user_id,
			scope = EXCLUDED.scope,
			is_active = TRUE,
			updated_at = NOW()
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		integration.ID,
		integration.UserID,
		integration.OrganizationID,
		integration.Provider,
		integration.AccessToken,
		integration.RefreshToken,
		integration.ExpiresAt,
		integration.SlackTeamID,
		integration.SlackTeamName,
		integration.SlackTeamDomain,
		integration.SlackUserID,
		integration.Scope,
	).StructScan(integration)
	if err != nil {
		return fmt.Errorf("failed to upsert integration: %w", err)
	}

	return nil
}

func (r *PostgresIntegrationsRepository) GetActiveIntegration(
	ctx context.Context,
	userID, organizationID string,
	provider models.IntegrationProvider,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.integrations
		WHERE user_id = $1 AND organization_id = $2 AND provider = $3 AND is_active = TRUE`,
		columnsStr, r.schema)

	integration := &models.Integration{}
	err := db.QueryRowxContext(ctx, query, userID, organizationID, provider).StructScan(integration)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to get active integration: %w", err)
	}

	return mo.Some(integration), nil
}

func (r *PostgresIntegrationsRepository) GetActiveIntegrationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.integrations
		WHERE id = $1 AND is_active = TRUE`, columnsStr, r.schema)

	integration := &models.Integration{}
	err := db.QueryRowxContext(ctx, query, id).StructScan(integration)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to get integration by ID: %w", err)
	}

	return mo.Some(integration), nil
}

// GetActiveIntegrationBySlackUserID resolves the internal credential record for
// a Slack user invoking a slash command in a given workspace
func (r *PostgresIntegrationsRepository) GetActiveIntegrationBySlackUserID(
	ctx context.Context,
	slackTeamID, slackUserID string,
) (mo.Option[*models.Integration], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(integrationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.integrations
		WHERE slack_team_id = $1 AND slack_user_id = $2 AND is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1`, columnsStr, r.schema)

	integration := &models.Integration{}
	err := db.QueryRowxContext(ctx, query, slackTeamID, slackUserID).StructScan(integration)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Integration](), nil
		}
		return mo.None[*models.Integration](), fmt.Errorf("failed to get integration by slack user: %w", err)
	}

	return mo.Some(integration), nil
}

// UpdateIntegrationSettings mutates the user-editable settings of an owned
// credential record. The user_id predicate is the authorization boundary, not
// just a filter - callers can only touch their own records.
func (r *PostgresIntegrationsRepository) UpdateIntegrationSettings(
	ctx context.Context,
	id, userID string,
	settings models.IntegrationSettingsUpdate,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.integrations
		SET default_channel_id = COALESCE($3, default_channel_id),
			notifications_enabled = COALESCE($4, notifications_enabled),
			updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE`, r.schema)

	result, err := db.ExecContext(ctx, query, id, userID, settings.DefaultChannelID, settings.NotificationsEnabled)
	if err != nil {
		return false, fmt.Errorf("failed to update integration settings: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

// DeactivateIntegration soft-disables a credential record. Rows are never hard
// deleted - reconnecting flips the same row back to active via the upsert.
func (r *PostgresIntegrationsRepository) DeactivateIntegration(
	ctx context.Context,
	id, userID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		UPDATE %s.integrations
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE`, r.schema)

	result, err := db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate integration: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}
