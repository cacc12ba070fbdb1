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

type PostgresStreamsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for streams table
var streamsColumns = []string{
	"id",
	"organization_id",
	"name",
	"description",
	"created_by_id",
	"created_at",
	"updated_at",
}

func NewPostgresStreamsRepository(db *sqlx.DB, schema string) *PostgresStreamsRepository {
	return &PostgresStreamsRepository{db: db, schema: schema}
}

func (r *PostgresStreamsRepository) CreateStream(ctx context.Context, stream *models.Stream) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{"id", "organization_id", "name", "description", "created_by_id", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(streamsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.streams (%s)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(
		ctx,
		query,
		stream.ID,
		stream.OrganizationID,
		stream.Name,
		stream.Description,
		stream.CreatedByID,
	).StructScan(stream)
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

func (r *PostgresStreamsRepository) GetStreamByID(ctx context.Context, id string) (mo.Option[*models.Stream], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(streamsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.streams
		WHERE id = $1`, columnsStr, r.schema)

	stream := &models.Stream{}
	err := db.QueryRowxContext(ctx, query, id).StructScan(stream)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Stream](), nil
		}
		return mo.None[*models.Stream](), fmt.Errorf("failed to get stream by ID: %w", err)
	}

	return mo.Some(stream), nil
}

func (r *PostgresStreamsRepository) AddStreamMember(
	ctx context.Context,
	streamID, userID string,
	role models.StreamRole,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.stream_members (stream_id, user_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (stream_id, user_id) DO UPDATE SET role = EXCLUDED.role`, r.schema)

	if _, err := db.ExecContext(ctx, query, streamID, userID, role); err != nil {
		return fmt.Errorf("failed to add stream member: %w", err)
	}

	return nil
}

func (r *PostgresStreamsRepository) IsStreamMember(ctx context.Context, streamID, userID string) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s.stream_members
			WHERE stream_id = $1 AND user_id = $2
		)`, r.schema)

	var isMember bool
	if err := db.GetContext(ctx, &isMember, query, streamID, userID); err != nil {
		return false, fmt.Errorf("failed to check stream membership: %w", err)
	}

	return isMember, nil
}

func (r *PostgresStreamsRepository) GetStreamsForUserInOrganization(
	ctx context.Context,
	userID, organizationID string,
) ([]*models.Stream, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columns := make([]string, 0, len(streamsColumns))
	for _, column := range streamsColumns {
		columns = append(columns, "s."+column)
	}
	columnsStr := strings.Join(columns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.streams s
		JOIN %s.stream_members m ON m.stream_id = s.id
		WHERE m.user_id = $1 AND s.organization_id = $2
		ORDER BY s.name ASC`, columnsStr, r.schema, r.schema)

	var streams []*models.Stream
	err := db.SelectContext(ctx, &streams, query, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streams for user in organization: %w", err)
	}

	return streams, nil
}
