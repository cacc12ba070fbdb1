package streams

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

type StreamsService struct {
	streamsRepo *db.PostgresStreamsRepository
	txManager   services.TransactionManager
}

func NewStreamsService(repo *db.PostgresStreamsRepository, txManager services.TransactionManager) *StreamsService {
	return &StreamsService{streamsRepo: repo, txManager: txManager}
}

func (s *StreamsService) CreateStream(
	ctx context.Context,
	organizationID, name, description, createdByUserID string,
) (*models.Stream, error) {
	log.Printf("📋 Starting to create stream: %s in organization: %s", name, organizationID)
	if !core.IsValidULID(organizationID) {
		return nil, fmt.Errorf("organization ID must be a valid ULID")
	}
	if name == "" {
		return nil, fmt.Errorf("stream name cannot be empty")
	}
	if !core.IsValidULID(createdByUserID) {
		return nil, fmt.Errorf("creator user ID must be a valid ULID")
	}

	stream := &models.Stream{
		ID:             core.NewID("st"),
		OrganizationID: organizationID,
		Name:           name,
		Description:    description,
		CreatedByID:    createdByUserID,
	}

	// The creator always becomes a member, in the same transaction
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.streamsRepo.CreateStream(txCtx, stream); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
		if err := s.streamsRepo.AddStreamMember(txCtx, stream.ID, createdByUserID, models.StreamRoleOwner); err != nil {
			return fmt.Errorf("failed to add stream owner: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("📋 Completed successfully - created stream with ID: %s", stream.ID)
	return stream, nil
}

func (s *StreamsService) GetStreamByID(ctx context.Context, id string) (mo.Option[*models.Stream], error) {
	log.Printf("📋 Starting to get stream by ID: %s", id)
	if !core.IsValidULID(id) {
		return mo.None[*models.Stream](), fmt.Errorf("stream ID must be a valid ULID")
	}

	maybeStream, err := s.streamsRepo.GetStreamByID(ctx, id)
	if err != nil {
		return mo.None[*models.Stream](), fmt.Errorf("failed to get stream: %w", err)
	}
	if !maybeStream.IsPresent() {
		log.Printf("📋 Completed successfully - stream not found")
		return mo.None[*models.Stream](), nil
	}

	log.Printf("📋 Completed successfully - found stream: %s", id)
	return maybeStream, nil
}

func (s *StreamsService) AddStreamMember(
	ctx context.Context,
	streamID, userID string,
	role models.StreamRole,
) error {
	log.Printf("📋 Starting to add member %s to stream: %s", userID, streamID)
	if !core.IsValidULID(streamID) {
		return fmt.Errorf("stream ID must be a valid ULID")
	}
	if !core.IsValidULID(userID) {
		return fmt.Errorf("user ID must be a valid ULID")
	}

	if err := s.streamsRepo.AddStreamMember(ctx, streamID, userID, role); err != nil {
		return fmt.Errorf("failed to add stream member: %w", err)
	}

	log.Printf("📋 Completed successfully - added member %s to stream: %s", userID, streamID)
	return nil
}

func (s *StreamsService) IsStreamMember(ctx context.Context, streamID, userID string) (bool, error) {
	if streamID == "" || userID == "" {
		return false, nil
	}

	isMember, err := s.streamsRepo.IsStreamMember(ctx, streamID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check stream membership: %w", err)
	}

	return isMember, nil
}

func (s *StreamsService) GetStreamsForUserInOrganization(
	ctx context.Context,
	userID, organizationID string,
) ([]*models.Stream, error) {
	log.Printf("📋 Starting to get streams for user: %s in organization: %s", userID, organizationID)
	if !core.IsValidULID(userID) {
		return nil, fmt.Errorf("user ID must be a valid ULID")
	}
	if !core.IsValidULID(organizationID) {
		return nil, fmt.Errorf("organization ID must be a valid ULID")
	}

	streams, err := s.streamsRepo.GetStreamsForUserInOrganization(ctx, userID, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get streams for user: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d streams for user: %s", len(streams), userID)
	return streams, nil
}
