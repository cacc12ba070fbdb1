package linkedmessages

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currentlybackend/core"
	"currentlybackend/db"
	"currentlybackend/models"
	"currentlybackend/testutils"
)

type linkedMessagesTestFixture struct {
	service      *LinkedMessagesService
	usersRepo    *db.PostgresUsersRepository
	streamsRepo  *db.PostgresStreamsRepository
	user         *models.User
	organization *models.Organization
	stream       *models.Stream
	cleanup      func()
}

func setupLinkedMessagesTest(t *testing.T) *linkedMessagesTestFixture {
	cfg, err := testutils.LoadTestConfig()
	require.NoError(t, err)

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	require.NoError(t, err, "Failed to create database connection")

	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	organizationsRepo := db.NewPostgresOrganizationsRepository(dbConn, cfg.DatabaseSchema)
	streamsRepo := db.NewPostgresStreamsRepository(dbConn, cfg.DatabaseSchema)
	linkedMessagesRepo := db.NewPostgresLinkedMessagesRepository(dbConn, cfg.DatabaseSchema)

	user := testutils.CreateTestUser(t, usersRepo)
	organization := testutils.CreateTestOrganization(t, organizationsRepo, user.ID)
	stream := testutils.CreateTestStream(t, streamsRepo, organization.ID, user.ID)

	service := NewLinkedMessagesService(linkedMessagesRepo, streamsRepo)

	return &linkedMessagesTestFixture{
		service:      service,
		usersRepo:    usersRepo,
		streamsRepo:  streamsRepo,
		user:         user,
		organization: organization,
		stream:       stream,
		cleanup:      func() { dbConn.Close() },
	}
}

func newLinkInput(streamID string) models.LinkMessageInput {
	suffix := uuid.New().String()
	return models.LinkMessageInput{
		StreamID:       streamID,
		SlackMessageID: "T123:C1:" + suffix,
		SlackChannelID: "C1",
		SlackAuthorID:  "U9",
		MessageText:    "we shipped the thing",
		MessageTS:      "1700000000.000100",
		Permalink:      "https://acme.slack.com/archives/C1/p" + suffix,
	}
}

func TestLinkedMessagesService(t *testing.T) {
	fixture := setupLinkedMessagesTest(t)
	defer fixture.cleanup()

	ctx := context.Background()

	t.Run("AddLink", func(t *testing.T) {
		t.Run("links a message and resolves the organization from the stream", func(t *testing.T) {
			input := newLinkInput(fixture.stream.ID)

			message, err := fixture.service.AddLink(ctx, fixture.user.ID, input)
			require.NoError(t, err)
			assert.Equal(t, fixture.stream.ID, message.StreamID)
			assert.Equal(t, fixture.organization.ID, message.OrganizationID)
			assert.Equal(t, fixture.user.ID, message.LinkedByUserID)
			assert.NotNil(t, message.Attachments)
			assert.NotNil(t, message.Reactions)
			assert.NotNil(t, message.Metadata)
		})

		t.Run("linking the same slack message twice fails with ErrAlreadyLinked", func(t *testing.T) {
			input := newLinkInput(fixture.stream.ID)

			first, err := fixture.service.AddLink(ctx, fixture.user.ID, input)
			require.NoError(t, err)

			_, err = fixture.service.AddLink(ctx, fixture.user.ID, input)
			require.ErrorIs(t, err, core.ErrAlreadyLinked)

			// Only the first link exists
			messages, err := fixture.service.ListForStream(ctx, fixture.user.ID, fixture.stream.ID)
			require.NoError(t, err)
			count := 0
			for _, m := range messages {
				if m.SlackMessageID == input.SlackMessageID {
					count++
					assert.Equal(t, first.ID, m.ID)
				}
			}
			assert.Equal(t, 1, count)
		})

		t.Run("non-member cannot link and no row is written", func(t *testing.T) {
			outsider := testutils.CreateTestUser(t, fixture.usersRepo)
			input := newLinkInput(fixture.stream.ID)

			_, err := fixture.service.AddLink(ctx, outsider.ID, input)
			require.ErrorIs(t, err, core.ErrAccessDenied)

			messages, err := fixture.service.ListForStream(ctx, fixture.user.ID, fixture.stream.ID)
			require.NoError(t, err)
			for _, m := range messages {
				assert.NotEqual(t, input.SlackMessageID, m.SlackMessageID)
			}
		})

		t.Run("missing fields are all reported at once", func(t *testing.T) {
			_, err := fixture.service.AddLink(ctx, "", models.LinkMessageInput{})

			validationErr, ok := core.AsValidationError(err)
			require.True(t, ok, "expected a validation error, got %v", err)
			assert.ElementsMatch(t, []string{
				"slack_message_id", "slack_channel_id", "slack_author_id",
				"message_text", "permalink", "stream_id", "user_id",
			}, validationErr.MissingFields)
		})

		t.Run("membership is checked before stream existence", func(t *testing.T) {
			input := newLinkInput("st_01ARZ3NDEKTSV4RRFFQ69G5FAV")

			_, err := fixture.service.AddLink(ctx, fixture.user.ID, input)
			assert.ErrorIs(t, err, core.ErrAccessDenied)
		})
	})

	t.Run("RemoveLink", func(t *testing.T) {
		t.Run("any stream member can unlink", func(t *testing.T) {
			member := testutils.CreateTestUser(t, fixture.usersRepo)
			require.NoError(t,
				fixture.streamsRepo.AddStreamMember(ctx, fixture.stream.ID, member.ID, models.StreamRoleMember))

			message, err := fixture.service.AddLink(ctx, fixture.user.ID, newLinkInput(fixture.stream.ID))
			require.NoError(t, err)

			require.NoError(t, fixture.service.RemoveLink(ctx, member.ID, fixture.stream.ID, message.ID))

			err = fixture.service.RemoveLink(ctx, member.ID, fixture.stream.ID, message.ID)
			assert.ErrorIs(t, err, core.ErrNotFound)
		})

		t.Run("non-member cannot unlink", func(t *testing.T) {
			outsider := testutils.CreateTestUser(t, fixture.usersRepo)

			message, err := fixture.service.AddLink(ctx, fixture.user.ID, newLinkInput(fixture.stream.ID))
			require.NoError(t, err)

			err = fixture.service.RemoveLink(ctx, outsider.ID, fixture.stream.ID, message.ID)
			assert.ErrorIs(t, err, core.ErrAccessDenied)
		})

		t.Run("mismatched stream reports not found", func(t *testing.T) {
			message, err := fixture.service.AddLink(ctx, fixture.user.ID, newLinkInput(fixture.stream.ID))
			require.NoError(t, err)

			otherStream := testutils.CreateTestStream(t, fixture.streamsRepo, fixture.organization.ID, fixture.user.ID)
			err = fixture.service.RemoveLink(ctx, fixture.user.ID, otherStream.ID, message.ID)
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	})

	t.Run("StatsForStream", func(t *testing.T) {
		t.Run("aggregates over the stream's messages", func(t *testing.T) {
			stream := testutils.CreateTestStream(t, fixture.streamsRepo, fixture.organization.ID, fixture.user.ID)

			input1 := newLinkInput(stream.ID)
			input1.SlackChannelID = "C1"
			input1.SlackAuthorID = "U1"
			input1.MessageTS = "1700000001.000000"
			input2 := newLinkInput(stream.ID)
			input2.SlackChannelID = "C2"
			input2.SlackAuthorID = "U1"
			input2.MessageTS = "1700000002.000000"

			_, err := fixture.service.AddLink(ctx, fixture.user.ID, input1)
			require.NoError(t, err)
			_, err = fixture.service.AddLink(ctx, fixture.user.ID, input2)
			require.NoError(t, err)

			stats, err := fixture.service.StatsForStream(ctx, fixture.user.ID, stream.ID)
			require.NoError(t, err)
			assert.Equal(t, 2, stats.Total)
			assert.Equal(t, 2, stats.UniqueChannels)
			assert.Equal(t, 1, stats.UniqueUsers)
			require.NotNil(t, stats.LatestMessageTS)
			assert.Equal(t, "1700000002.000000", *stats.LatestMessageTS)
		})

		t.Run("non-member is denied", func(t *testing.T) {
			outsider := testutils.CreateTestUser(t, fixture.usersRepo)

			_, err := fixture.service.StatsForStream(ctx, outsider.ID, fixture.stream.ID)
			assert.ErrorIs(t, err, core.ErrAccessDenied)
		})
	})

	t.Run("ListForStream", func(t *testing.T) {
		t.Run("returns newest first", func(t *testing.T) {
			stream := testutils.CreateTestStream(t, fixture.streamsRepo, fixture.organization.ID, fixture.user.ID)

			first, err := fixture.service.AddLink(ctx, fixture.user.ID, newLinkInput(stream.ID))
			require.NoError(t, err)
			second, err := fixture.service.AddLink(ctx, fixture.user.ID, newLinkInput(stream.ID))
			require.NoError(t, err)

			messages, err := fixture.service.ListForStream(ctx, fixture.user.ID, stream.ID)
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.Equal(t, second.ID, messages[0].ID)
			assert.Equal(t, first.ID, messages[1].ID)
		})
	})
}

func TestValidateLinkInput(t *testing.T) {
	t.Run("complete input passes", func(t *testing.T) {
		input := newLinkInput("st_01ARZ3NDEKTSV4RRFFQ69G5FAV")
		assert.NoError(t, validateLinkInput("u_01ARZ3NDEKTSV4RRFFQ69G5FAV", input))
	})

	t.Run("omitting permalink and stream_id reports exactly those", func(t *testing.T) {
		input := newLinkInput("ignored")
		input.StreamID = ""
		input.Permalink = ""

		err := validateLinkInput("u_01ARZ3NDEKTSV4RRFFQ69G5FAV", input)

		validationErr, ok := core.AsValidationError(err)
		require.True(t, ok)
		assert.ElementsMatch(t, []string{"permalink", "stream_id"}, validationErr.MissingFields)
	})

	t.Run("validation errors carry the sorted field list", func(t *testing.T) {
		err := validateLinkInput("", models.LinkMessageInput{MessageText: "hi"})

		var validationErr *core.ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.Equal(t, []string{
			"permalink", "slack_author_id", "slack_channel_id",
			"slack_message_id", "stream_id", "user_id",
		}, validationErr.MissingFields)
	})
}
