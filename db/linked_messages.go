package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/samber/mo"

	"currentlybackend/core"
	dbtx "currentlybackend/db/tx"
	"currentlybackend/models"
)

type PostgresLinkedMessagesRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for slack_messages table
var linkedMessagesColumns = []string{
	"id",
	"stream_id",
	"organization_id",
	"slack_message_id",
	"slack_channel_id",
	"slack_channel_name",
	"slack_author_id",
	"slack_author_name",
	"slack_author_display_name",
	"message_text",
	"message_ts",
	"thread_ts",
	"permalink",
	"attachments",
	"reactions",
	"metadata",
	"linked_by_user_id",
	"created_at",
	"updated_at",
}

const uniqueViolationCode = "23505"

func NewPostgresLinkedMessagesRepository(db *sqlx.DB, schema string) *PostgresLinkedMessagesRepository {
	return &PostgresLinkedMessagesRepository{db: db, schema: schema}
}

// CreateLinkedMessage inserts a linked message row. The unique constraint on
// slack_message_id is the serialization point for concurrent link attempts: a
// constraint violation maps to core.ErrAlreadyLinked rather than a raw db error.
func (r *PostgresLinkedMessagesRepository) CreateLinkedMessage(
	ctx context.Context,
	message *models.LinkedMessage,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(linkedMessagesColumns[:len(linkedMessagesColumns)-2], ", ")
	returningStr := strings.Join(linkedMessagesColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.slack_messages (%s, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		message.ID,
		message.StreamID,
		message.OrganizationID,
		message.SlackMessageID,
		message.SlackChannelID,
		message.SlackChannelName,
		message.SlackAuthorID,
		message.SlackAuthorName,
		message.SlackAuthorDisplayName,
		message.MessageText,
		message.MessageTS,
		message.ThreadTS,
		message.Permalink,
		message.Attachments,
		message.Reactions,
		message.Metadata,
		message.LinkedByUserID,
	).StructScan(message)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolationCode {
			return core.ErrAlreadyLinked
		}
		return fmt.Errorf("failed to create linked message: %w", err)
	}

	return nil
}

func (r *PostgresLinkedMessagesRepository) GetLinkedMessageByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.LinkedMessage], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(linkedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_messages
		WHERE id = $1`, columnsStr, r.schema)

	message := &models.LinkedMessage{}
	err := db.QueryRowxContext(ctx, query, id).StructScan(message)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.LinkedMessage](), nil
		}
		return mo.None[*models.LinkedMessage](), fmt.Errorf("failed to get linked message by ID: %w", err)
	}

	return mo.Some(message), nil
}

func (r *PostgresLinkedMessagesRepository) GetLinkedMessageBySlackMessageID(
	ctx context.Context,
	slackMessageID string,
) (mo.Option[*models.LinkedMessage], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(linkedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_messages
		WHERE slack_message_id = $1`, columnsStr, r.schema)

	message := &models.LinkedMessage{}
	err := db.QueryRowxContext(ctx, query, slackMessageID).StructScan(message)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.LinkedMessage](), nil
		}
		return mo.None[*models.LinkedMessage](), fmt.Errorf("failed to get linked message by slack message ID: %w", err)
	}

	return mo.Some(message), nil
}

func (r *PostgresLinkedMessagesRepository) GetLinkedMessagesByStreamID(
	ctx context.Context,
	streamID string,
) ([]*models.LinkedMessage, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(linkedMessagesColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.slack_messages
		WHERE stream_id = $1
		ORDER BY created_at DESC`, columnsStr, r.schema)

	var messages []*models.LinkedMessage
	err := db.SelectContext(ctx, &messages, query, streamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked messages by stream ID: %w", err)
	}

	return messages, nil
}

func (r *PostgresLinkedMessagesRepository) DeleteLinkedMessage(
	ctx context.Context,
	id, streamID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`DELETE FROM %s.slack_messages WHERE id = $1 AND stream_id = $2`, r.schema)

	result, err := db.ExecContext(ctx, query, id, streamID)
	if err != nil {
		return false, fmt.Errorf("failed to delete linked message: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return rowsAffected > 0, nil
}

func (r *PostgresLinkedMessagesRepository) GetLinkedMessageStatsForStream(
	ctx context.Context,
	streamID string,
) (*models.LinkedMessageStats, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total,
			COUNT(DISTINCT slack_channel_id) AS unique_channels,
			COUNT(DISTINCT slack_author_id) AS unique_users,
			MAX(message_ts) AS latest_message_ts
		FROM %s.slack_messages
		WHERE stream_id = $1`, r.schema)

	stats := &models.LinkedMessageStats{}
	if err := db.GetContext(ctx, stats, query, streamID); err != nil {
		return nil, fmt.Errorf("failed to get linked message stats: %w", err)
	}

	return stats, nil
}
