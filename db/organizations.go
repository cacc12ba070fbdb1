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

type PostgresOrganizationsRepository struct {
	db     *sqlx.DB
	schema string
}

// Column names for organizations table
var organizationsColumns = []string{
	"id",
	"name",
	"created_at",
	"updated_at",
}

func NewPostgresOrganizationsRepository(db *sqlx.DB, schema string) *PostgresOrganizationsRepository {
	return &PostgresOrganizationsRepository{db: db, schema: schema}
}

func (r *PostgresOrganizationsRepository) CreateOrganization(
	ctx context.Context,
	organization *models.Organization,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	insertColumns := []string{"id", "name", "created_at", "updated_at"}
	columnsStr := strings.Join(insertColumns, ", ")
	returningStr := strings.Join(organizationsColumns, ", ")

	query := fmt.Sprintf(`
		INSERT INTO %s.organizations (%s)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING %s`, r.schema, columnsStr, returningStr)

	err := db.QueryRowxContext(ctx, query, organization.ID, organization.Name).StructScan(organization)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}

	return nil
}

func (r *PostgresOrganizationsRepository) GetOrganizationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Organization], error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columnsStr := strings.Join(organizationsColumns, ", ")
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organizations
		WHERE id = $1`, columnsStr, r.schema)

	organization := &models.Organization{}
	err := db.QueryRowxContext(ctx, query, id).StructScan(organization)
	if err != nil {
		if strings.Contains(err.Error(), "no rows") {
			return mo.None[*models.Organization](), nil
		}
		return mo.None[*models.Organization](), fmt.Errorf("failed to get organization by ID: %w", err)
	}

	return mo.Some(organization), nil
}

func (r *PostgresOrganizationsRepository) GetOrganizationsForUser(
	ctx context.Context,
	userID string,
) ([]*models.Organization, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	columns := make([]string, 0, len(organizationsColumns))
	for _, column := range organizationsColumns {
		columns = append(columns, "o."+column)
	}
	columnsStr := strings.Join(columns, ", ")

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.organizations o
		JOIN %s.organization_members m ON m.organization_id = o.id
		WHERE m.user_id = $1
		ORDER BY o.created_at ASC`, columnsStr, r.schema, r.schema)

	var organizations []*models.Organization
	err := db.SelectContext(ctx, &organizations, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations for user: %w", err)
	}

	return organizations, nil
}

func (r *PostgresOrganizationsRepository) AddOrganizationMember(
	ctx context.Context,
	organizationID, userID string,
	role models.OrganizationRole,
) error {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		INSERT INTO %s.organization_members (organization_id, user_id, role, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (organization_id, user_id) DO UPDATE SET role = EXCLUDED.role`, r.schema)

	if _, err := db.ExecContext(ctx, query, organizationID, userID, role); err != nil {
		return fmt.Errorf("failed to add organization member: %w", err)
	}

	return nil
}

func (r *PostgresOrganizationsRepository) IsOrganizationMember(
	ctx context.Context,
	organizationID, userID string,
) (bool, error) {
	db := dbtx.GetTransactional(ctx, r.db)

	query := fmt.Sprintf(`
		SELECT EXISTS (
			SELECT 1 FROM %s.organization_members
			WHERE organization_id = $1 AND user_id = $2
		)`, r.schema)

	var isMember bool
	if err := db.GetContext(ctx, &isMember, query, organizationID, userID); err != nil {
		return false, fmt.Errorf("failed to check organization membership: %w", err)
	}

	return isMember, nil
}
