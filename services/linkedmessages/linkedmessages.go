package linkedmessages

import (
	"context"
	"errors"
	"fmt"
	"log"

	"currentlybackend/core"
	"currentlybackend/db"
	"currentlybackend/models"
)

type LinkedMessagesService struct {
	linkedMessagesRepo *db.PostgresLinkedMessagesRepository
	streamsRepo        *db.PostgresStreamsRepository
}

func NewLinkedMessagesService(
	linkedMessagesRepo *db.PostgresLinkedMessagesRepository,
	streamsRepo *db.PostgresStreamsRepository,
) *LinkedMessagesService {
	return &LinkedMessagesService{
		linkedMessagesRepo: linkedMessagesRepo,
		streamsRepo:        streamsRepo,
	}
}

// AddLink pins a Slack message to a stream. Preconditions are checked in
// order, each failing with a distinct error:
//  1. every required field present (core.ValidationError lists all of them)
//  2. the acting user is a member of the target stream (core.ErrAccessDenied)
//  3. the target stream exists and resolves its organization (core.ErrNotFound)
//  4. the message is not linked anywhere yet (core.ErrAlreadyLinked)
//
// The pre-existence check and the insert are not atomic; the unique constraint
// on slack_message_id is the backstop for concurrent link attempts.
func (s *LinkedMessagesService) AddLink(
	ctx context.Context,
	actingUserID string,
	input models.LinkMessageInput,
) (*models.LinkedMessage, error) {
	log.Printf("📋 Starting to link slack message %s to stream: %s", input.SlackMessageID, input.StreamID)

	if validationErr := validateLinkInput(actingUserID, input); validationErr != nil {
		return nil, validationErr
	}

	isMember, err := s.streamsRepo.IsStreamMember(ctx, input.StreamID, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to check stream membership: %w", err)
	}
	if !isMember {
		return nil, core.ErrAccessDenied
	}

	maybeStream, err := s.streamsRepo.GetStreamByID(ctx, input.StreamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get stream: %w", err)
	}
	if !maybeStream.IsPresent() {
		return nil, fmt.Errorf("stream %s: %w", input.StreamID, core.ErrNotFound)
	}
	stream := maybeStream.MustGet()

	maybeExisting, err := s.linkedMessagesRepo.GetLinkedMessageBySlackMessageID(ctx, input.SlackMessageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing link: %w", err)
	}
	if maybeExisting.IsPresent() {
		return nil, core.ErrAlreadyLinked
	}

	message := &models.LinkedMessage{
		ID:                     core.NewID("sm"),
		StreamID:               stream.ID,
		OrganizationID:         stream.OrganizationID,
		SlackMessageID:         input.SlackMessageID,
		SlackChannelID:         input.SlackChannelID,
		SlackChannelName:       input.SlackChannelName,
		SlackAuthorID:          input.SlackAuthorID,
		SlackAuthorName:        input.SlackAuthorName,
		SlackAuthorDisplayName: input.SlackAuthorDisplayName,
		MessageText:            input.MessageText,
		MessageTS:              input.MessageTS,
		ThreadTS:               input.ThreadTS,
		Permalink:              input.Permalink,
		Attachments:            input.Attachments,
		Reactions:              input.Reactions,
		Metadata:               input.Metadata,
		LinkedByUserID:         actingUserID,
	}
	if message.Attachments == nil {
		message.Attachments = models.AttachmentList{}
	}
	if message.Reactions == nil {
		message.Reactions = models.ReactionList{}
	}
	if message.Metadata == nil {
		message.Metadata = models.MetadataMap{}
	}

	if err := s.linkedMessagesRepo.CreateLinkedMessage(ctx, message); err != nil {
		if errors.Is(err, core.ErrAlreadyLinked) {
			return nil, core.ErrAlreadyLinked
		}
		return nil, fmt.Errorf("failed to create linked message: %w", err)
	}

	log.Printf("📋 Completed successfully - linked slack message %s as: %s", message.SlackMessageID, message.ID)
	return message, nil
}

func validateLinkInput(actingUserID string, input models.LinkMessageInput) error {
	var missingFields []string
	if input.SlackMessageID == "" {
		missingFields = append(missingFields, "slack_message_id")
	}
	if input.SlackChannelID == "" {
		missingFields = append(missingFields, "slack_channel_id")
	}
	if input.SlackAuthorID == "" {
		missingFields = append(missingFields, "slack_author_id")
	}
	if input.MessageText == "" {
		missingFields = append(missingFields, "message_text")
	}
	if input.Permalink == "" {
		missingFields = append(missingFields, "permalink")
	}
	if input.StreamID == "" {
		missingFields = append(missingFields, "stream_id")
	}
	if actingUserID == "" {
		missingFields = append(missingFields, "user_id")
	}

	if len(missingFields) > 0 {
		return core.NewValidationError(missingFields...)
	}
	return nil
}

// RemoveLink unpins a message. Any current member of the stream may unlink -
// pinned messages are shared workspace artifacts, not personal ones.
func (s *LinkedMessagesService) RemoveLink(ctx context.Context, actingUserID, streamID, messageID string) error {
	log.Printf("📋 Starting to unlink message %s from stream: %s", messageID, streamID)
	if !core.IsValidULID(messageID) {
		return fmt.Errorf("message ID must be a valid ULID")
	}

	maybeMessage, err := s.linkedMessagesRepo.GetLinkedMessageByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("failed to get linked message: %w", err)
	}
	if !maybeMessage.IsPresent() {
		return core.ErrNotFound
	}
	message := maybeMessage.MustGet()
	if message.StreamID != streamID {
		return core.ErrNotFound
	}

	isMember, err := s.streamsRepo.IsStreamMember(ctx, message.StreamID, actingUserID)
	if err != nil {
		return fmt.Errorf("failed to check stream membership: %w", err)
	}
	if !isMember {
		return core.ErrAccessDenied
	}

	deleted, err := s.linkedMessagesRepo.DeleteLinkedMessage(ctx, messageID, message.StreamID)
	if err != nil {
		return fmt.Errorf("failed to delete linked message: %w", err)
	}
	if !deleted {
		return core.ErrNotFound
	}

	log.Printf("📋 Completed successfully - unlinked message: %s", messageID)
	return nil
}

// ListForStream returns the stream's linked messages, newest first
func (s *LinkedMessagesService) ListForStream(
	ctx context.Context,
	actingUserID, streamID string,
) ([]*models.LinkedMessage, error) {
	log.Printf("📋 Starting to list linked messages for stream: %s", streamID)

	if err := s.requireStreamMember(ctx, streamID, actingUserID); err != nil {
		return nil, err
	}

	messages, err := s.linkedMessagesRepo.GetLinkedMessagesByStreamID(ctx, streamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list linked messages: %w", err)
	}

	log.Printf("📋 Completed successfully - found %d linked messages for stream: %s", len(messages), streamID)
	return messages, nil
}

// StatsForStream aggregates the stream's linked messages by channel and author
func (s *LinkedMessagesService) StatsForStream(
	ctx context.Context,
	actingUserID, streamID string,
) (*models.LinkedMessageStats, error) {
	log.Printf("📋 Starting to get linked message stats for stream: %s", streamID)

	if err := s.requireStreamMember(ctx, streamID, actingUserID); err != nil {
		return nil, err
	}

	stats, err := s.linkedMessagesRepo.GetLinkedMessageStatsForStream(ctx, streamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get linked message stats: %w", err)
	}

	log.Printf("📋 Completed successfully - stream %s has %d linked messages", streamID, stats.Total)
	return stats, nil
}

func (s *LinkedMessagesService) requireStreamMember(ctx context.Context, streamID, userID string) error {
	isMember, err := s.streamsRepo.IsStreamMember(ctx, streamID, userID)
	if err != nil {
		return fmt.Errorf("failed to check stream membership: %w", err)
	}
	if !isMember {
		return core.ErrAccessDenied
	}
	return nil
}
