package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/slack-go/slack"

	"currentlybackend/models"
	"currentlybackend/services"
)

// signatureReplayWindow is the maximum allowed age of a signed Slack request.
// The boundary is inclusive: a request exactly this old is still accepted.
const signatureReplayWindow = 300 * time.Second

type SlackEventsHandler struct {
	signingSecret        string
	integrationsService  services.IntegrationsService
	organizationsService services.OrganizationsService
	streamsService       services.StreamsService
	now                  func() time.Time
}

func NewSlackEventsHandler(
	signingSecret string,
	integrationsService services.IntegrationsService,
	organizationsService services.OrganizationsService,
	streamsService services.StreamsService,
) *SlackEventsHandler {
	return &SlackEventsHandler{
		signingSecret:        signingSecret,
		integrationsService:  integrationsService,
		organizationsService: organizationsService,
		streamsService:       streamsService,
		now:                  time.Now,
	}
}

// verifySlackSignature verifies the authenticity of a Slack webhook request.
// It must run on the raw, unparsed request body - re-serializing parsed JSON
// breaks the HMAC byte-for-byte.
func (h *SlackEventsHandler) verifySlackSignature(r *http.Request, body []byte) error {
	timestamp := r.Header.Get("X-Slack-Request-Timestamp")
	signature := r.Header.Get("X-Slack-Signature")

	if timestamp == "" || signature == "" {
		return fmt.Errorf("missing required headers")
	}

	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid timestamp format: %v", err)
	}

	age := h.now().Unix() - ts
	if age < 0 {
		age = -age
	}
	if time.Duration(age)*time.Second > signatureReplayWindow {
		return fmt.Errorf("request timestamp too old")
	}

	baseString := fmt.Sprintf("v0:%s:%s", timestamp, string(body))

	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write([]byte(baseString))
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Constant-time comparison - plain byte equality would leak a timing
	// side-channel on signature validation
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return fmt.Errorf("signature verification failed")
	}

	return nil
}

// HandleSlackEvent processes the Slack events webhook. Slack retries on
// non-2xx and on slow acks, so every branch past signature verification
// returns 200 - including business failures.
func (h *SlackEventsHandler) HandleSlackEvent(w http.ResponseWriter, r *http.Request) {
	log.Printf("📨 Slack event received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.verifySlackSignature(r, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var envelope models.SlackEventEnvelope
	if err := json.Unmarshal(bodyBytes, &envelope); err != nil {
		log.Printf("⚠️ Failed to parse JSON body, acknowledging anyway: %v", err)
		writeJSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
		return
	}

	switch envelope.CallbackType() {
	case models.SlackCallbackURLVerification:
		log.Printf("🔐 Slack URL verification challenge received")
		writeJSONResponse(w, http.StatusOK, map[string]string{"challenge": envelope.Challenge})

	case models.SlackCallbackEventCallback:
		h.handleEventCallback(&envelope)
		writeJSONResponse(w, http.StatusOK, map[string]bool{"ok": true})

	case models.SlackCallbackUnknown:
		log.Printf("📋 Unknown callback type received: %s", envelope.Type)
		writeJSONResponse(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func (h *SlackEventsHandler) handleEventCallback(envelope *models.SlackEventEnvelope) {
	var event models.SlackInnerEvent
	if err := json.Unmarshal(envelope.Event, &event); err != nil {
		log.Printf("❌ Failed to parse inner event: %v", err)
		return
	}

	log.Printf("📞 Event callback received - Team: %s, Type: %s", envelope.TeamID, event.Type)

	switch event.EventType() {
	case models.SlackEventMessage:
		log.Printf("📨 Message event in channel %s by %s (ts %s)", event.Channel, event.User, event.TS)
	case models.SlackEventAppMention:
		log.Printf("📨 App mentioned in channel %s by %s", event.Channel, event.User)
	case models.SlackEventChannelCreated:
		log.Printf("📨 Channel created: %s", event.Channel)
	case models.SlackEventChannelDeleted:
		log.Printf("📨 Channel deleted: %s", event.Channel)
	case models.SlackEventUnknown:
		log.Printf("📋 Unhandled event type: %s", event.Type)
	}
}

// HandleSlackCommand processes slash-command invocations. The platform
// expects HTTP 200 with an ephemeral text payload for every business outcome,
// including "not connected".
func (h *SlackEventsHandler) HandleSlackCommand(w http.ResponseWriter, r *http.Request) {
	log.Printf("⚡ Slack command received from %s", r.RemoteAddr)

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		log.Printf("❌ Failed to read request body: %v", err)
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if err := h.verifySlackSignature(r, bodyBytes); err != nil {
		log.Printf("❌ Slack signature verification failed: %v", err)
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
	command, err := slack.SlashCommandParse(r)
	if err != nil {
		log.Printf("❌ Failed to parse slash command: %v", err)
		http.Error(w, "failed to parse slash command", http.StatusInternalServerError)
		return
	}

	log.Printf("⚡ Parsed slash command: %s from user %s in team %s", command.Command, command.UserID, command.TeamID)

	text, err := h.resolveCommandResponse(r, command.TeamID, command.UserID, strings.TrimSpace(command.Text))
	if err != nil {
		log.Printf("❌ Failed to process slash command: %v", err)
		text = "Something went wrong while looking up your streams. Please try again."
	}

	writeEphemeral(w, text)
}

func (h *SlackEventsHandler) resolveCommandResponse(
	r *http.Request,
	slackTeamID, slackUserID, argument string,
) (string, error) {
	ctx := r.Context()

	maybeIntegration, err := h.integrationsService.GetSlackIntegrationBySlackUserID(ctx, slackTeamID, slackUserID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve slack user: %w", err)
	}
	if !maybeIntegration.IsPresent() {
		return "Your Slack account is not connected to Currently yet. " +
			"Open Currently, go to Settings → Integrations and connect Slack first.", nil
	}
	integration := maybeIntegration.MustGet()
	userID := integration.UserID

	organizations, err := h.organizationsService.GetOrganizationsForUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to get organizations: %w", err)
	}
	if len(organizations) == 0 {
		return "You don't belong to any organization yet.", nil
	}

	var lines []string
	matched := 0
	for _, organization := range organizations {
		streams, err := h.streamsService.GetStreamsForUserInOrganization(ctx, userID, organization.ID)
		if err != nil {
			return "", fmt.Errorf("failed to get streams: %w", err)
		}
		for _, stream := range streams {
			if argument != "" && !strings.Contains(strings.ToLower(stream.Name), strings.ToLower(argument)) {
				continue
			}
			matched++
			lines = append(lines, fmt.Sprintf("• *%s* (%s)", stream.Name, organization.Name))
		}
	}

	if argument != "" {
		if matched == 0 {
			return fmt.Sprintf("No streams matching *%s*. Run the command without arguments to list all your streams.", argument), nil
		}
		return fmt.Sprintf("Streams matching *%s*:\n%s\nUse the message actions menu to pin a message to one of them.",
			argument, strings.Join(lines, "\n")), nil
	}

	if matched == 0 {
		return "You aren't a member of any stream yet.", nil
	}
	return fmt.Sprintf("Your streams:\n%s\nUse the message actions menu to pin a message to one of them.",
		strings.Join(lines, "\n")), nil
}

func (h *SlackEventsHandler) SetupEndpoints(router *mux.Router) {
	log.Printf("🚀 Registering Slack webhook endpoints")

	router.HandleFunc("/integrations/slack/events", h.HandleSlackEvent).Methods("POST")
	router.HandleFunc("/integrations/slack/slash-command", h.HandleSlackCommand).Methods("POST")

	log.Printf("✅ All Slack webhook endpoints registered successfully")
}

func writeEphemeral(w http.ResponseWriter, text string) {
	writeJSONResponse(w, http.StatusOK, map[string]string{
		"response_type": "ephemeral",
		"text":          text,
	})
}
