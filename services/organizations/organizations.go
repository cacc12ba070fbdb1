package organizations

import (
	"context"
	"fmt"
	"log"

	"github.com/samber/mo"

	"currentlybackend/core"
	"currentlybackend/db"
	"currentlybackend/models"
	"currentlybackend/services"
)

type OrganizationsService struct {
	organizationsRepo *db.PostgresOrganizationsRepository
	txManager         services.TransactionManager
}

func NewOrganizationsService(
	repo *db.PostgresOrganizationsRepository,
	txManager services.TransactionManager,
) *OrganizationsService {
	return &OrganizationsService{organizationsRepo: repo, txManager: txManager}
}

func (s *OrganizationsService) CreateOrganization(
	ctx context.Context,
	name, ownerUserID string,
) (*models.Organization, error) {
	log.Printf("📋 Starting to create organization: %s", name)
	if name == "" {
		return nil, fmt.Errorf("organization name cannot be empty")
	}
	if !core.IsValidULID(ownerUserID) {
		return nil, fmt.Errorf("owner user ID must be a valid ULID")
	}

	organization := &models.Organization{
		ID:   core.NewID("org"),
		Name: name,
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.organizationsRepo.CreateOrganization(txCtx, organization); err != nil {
			return fmt.Errorf("failed to create organization: %w", err)
		}
		if err := s.organizationsRepo.AddOrganizationMember(
			txCtx,
			organization.ID,
			ownerUserID,
			models.OrganizationRoleOwner,
		); err != nil {
			return fmt.Errorf("failed to add organization owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - created organization with ID: %s", organization.ID)
	return organization, nil
}

func (s *OrganizationsService) GetOrganizationByID(
	ctx context.Context,
	id string,
) (mo.Option[*models.Organization], error) {
	log.Printf("📋 Starting to get organization by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Organization](), fmt.Errorf("organization ID must be a valid ULID")
	}

	maybeOrganization, err := s.organizationsRepo.GetOrganizationByID(ctx, id)
	if err != nil {
		return mo.None[*models.Organization](), fmt.Errorf("failed to get organization: %w", err)
	}
	if !maybeOrganization.IsPresent() {
		log.Printf("📋 Completed successfully - organization not found")
		return mo.None[*models.Organization](), nil
	}

	log.Printf("📋 Completed successfully - found organization: %s", id)
	return maybeOrganization, nil
}

func (s *OrganizationsService) GetOrganizationsForUser(
	ctx context.Context,
	userID string,
) ([]*models.Organization, error) {
	log.Printf("📋 Starting to get organizations for user: %s", userID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}

	organizations, err := s.organizationsRepo.GetOrganizationsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get organizations for user: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d organizations for user: %s", len(organizations), userID)
	return organizations, nil
}

func (s *OrganizationsService) AddMember(
	ctx context.Context,
	organizationID, userID string,
	role models.OrganizationRole,
) error {
	log.Printf("📋 Starting to add member %s to organization: %s", userID, organizationID)
	if !core.IsValidULID(organizationID) {
		return fmt.Errorf("organization ID must be a valid ULID")
	}
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}

	if err := s.organizationsRepo.AddOrganizationMember(ctx, organizationID, userID, role); err != nil {
		return fmt.Errorf("failed to add organization member: %w", err)
	}

	log.Printf("📋 Completed successfully - added member %s to organization: %s", userID, organizationID)
	return nil
}

func (s *OrganizationsService) IsMember(ctx context.Context, organizationID, userID string) (bool, error) {
	if !core.IsValidULID(organizationID) {
		return false, fmt.Errorf("organization ID must be a valid ULID")
	}
	if !core.IsValidULID(userID) {
		return false, fmt.Errorf("user ID must be a valid ULID")
	}

	isMember, err := s.organizationsRepo.IsOrganizationMember(ctx, organizationID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check organization membership: %w", err)
	}

	return isMember, nil
}
