package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"currentlybackend/appctx"
	"currentlybackend/core"
	"currentlybackend/models"
	"currentlybackend/models/api"
	"currentlybackend/services"
)

type SlackAPIHandler struct {
	integrationsService   services.IntegrationsService
	linkedMessagesService services.LinkedMessagesService
}

func NewSlackAPIHandler(
	integrationsService services.IntegrationsService,
	linkedMessagesService services.LinkedMessagesService,
) *SlackAPIHandler {
	return &SlackAPIHandler{
		integrationsService:   integrationsService,
		linkedMessagesService: linkedMessagesService,
	}
}

// HandlePinMessage links a Slack message to a stream on behalf of the
// authenticated user.
func (h *SlackAPIHandler) HandlePinMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ No authenticated user in request context")
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input models.LinkMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	log.Printf("📌 User %s pinning Slack message %s to stream %s", user.ID, input.SlackMessageID, input.StreamID)

	message, err := h.linkedMessagesService.AddLink(r.Context(), user.ID, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, api.DomainLinkedMessageToAPILinkedMessage(message))
}

// HandleCreateStreamMessage pins a message via the stream-scoped route. The
// path segment wins over any stream_id in the body.
func (h *SlackAPIHandler) HandleCreateStreamMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input models.LinkMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	input.StreamID = mux.Vars(r)["id"]

	message, err := h.linkedMessagesService.AddLink(r.Context(), user.ID, input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, api.DomainLinkedMessageToAPILinkedMessage(message))
}

// HandleListStreamMessages returns the pinned messages of a stream, newest first.
func (h *SlackAPIHandler) HandleListStreamMessages(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	streamID := mux.Vars(r)["id"]

	messages, err := h.linkedMessagesService.ListForStream(r.Context(), user.ID, streamID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, api.DomainLinkedMessagesToAPILinkedMessages(messages))
}

// HandleStreamMessageStats returns aggregate stats over a stream's pinned messages.
func (h *SlackAPIHandler) HandleStreamMessageStats(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	streamID := mux.Vars(r)["id"]

	stats, err := h.linkedMessagesService.StatsForStream(r.Context(), user.ID, streamID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, stats)
}

// HandleUnpinMessage removes a pinned message from a stream.
func (h *SlackAPIHandler) HandleUnpinMessage(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	vars := mux.Vars(r)
	streamID := vars["id"]
	messageID := vars["messageID"]

	log.Printf("🗑️ User %s unpinning message %s from stream %s", user.ID, messageID, streamID)

	if err := h.linkedMessagesService.RemoveLink(r.Context(), user.ID, streamID, messageID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSlackStatus reports whether the user has an active Slack connection
// in the given organization. Channel listing is best-effort - a Slack API
// failure degrades the payload instead of failing the request.
func (h *SlackAPIHandler) HandleSlackStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "organization_id query parameter is required")
		return
	}

	maybeIntegration, err := h.integrationsService.GetSlackIntegration(r.Context(), user.ID, organizationID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	if !maybeIntegration.IsPresent() {
		writeJSONResponse(w, http.StatusOK, api.SlackStatus{Connected: false})
		return
	}
	integration := maybeIntegration.MustGet()

	status := api.SlackStatus{
		Connected:   true,
		Integration: api.DomainIntegrationToAPISlackIntegration(integration),
	}

	channels, err := h.integrationsService.ListSlackChannels(r.Context(), integration)
	if err != nil {
		log.Printf("⚠️ Failed to list Slack channels for integration %s: %v", integration.ID, err)
	} else {
		apiChannels := make([]api.SlackChannel, 0, len(channels))
		for _, channel := range channels {
			apiChannels = append(apiChannels, api.SlackChannel{ID: channel.ID, Name: channel.Name})
		}
		status.Channels = apiChannels
	}

	writeJSONResponse(w, http.StatusOK, status)
}

type updateSettingsRequest struct {
	IntegrationID        string  `json:"integration_id"`
	DefaultChannelID     *string `json:"default_channel_id"`
	NotificationsEnabled *bool   `json:"notifications_enabled"`
}

// HandleUpdateSettings updates per-integration settings for the owning user.
func (h *SlackAPIHandler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var request updateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if request.IntegrationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "integration_id is required")
		return
	}

	settings := models.IntegrationSettingsUpdate{
		DefaultChannelID:     request.DefaultChannelID,
		NotificationsEnabled: request.NotificationsEnabled,
	}
	if err := h.integrationsService.UpdateSlackIntegrationSettings(r.Context(), request.IntegrationID, user.ID, settings); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleSlackDisconnect deactivates the user's Slack connection in an organization.
func (h *SlackAPIHandler) HandleSlackDisconnect(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "organization_id query parameter is required")
		return
	}

	log.Printf("🔌 User %s disconnecting Slack in organization %s", user.ID, organizationID)

	if err := h.integrationsService.DisconnectSlackIntegration(r.Context(), user.ID, organizationID); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *SlackAPIHandler) writeServiceError(w http.ResponseWriter, err error) {
	if validationErr, ok := core.AsValidationError(err); ok {
		writeJSONResponse(w, http.StatusBadRequest, map[string]any{
			"error":         "Missing required fields",
			"missingFields": validationErr.MissingFields,
		})
		return
	}

	switch {
	case errors.Is(err, core.ErrAccessDenied):
		writeErrorResponse(w, http.StatusForbidden, "You are not a member of this stream")
	case errors.Is(err, core.ErrNotFound):
		writeErrorResponse(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, core.ErrAlreadyLinked):
		writeErrorResponse(w, http.StatusConflict, "This Slack message is already linked to a stream")
	case errors.Is(err, core.ErrNotConnected):
		writeErrorResponse(w, http.StatusBadRequest, "Slack is not connected for this organization")
	case errors.Is(err, core.ErrOAuthExchangeFailed):
		writeErrorResponse(w, http.StatusBadGateway, "Slack rejected the authorization code")
	default:
		log.Printf("❌ Unexpected service error: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
	}
}

func (h *SlackAPIHandler) SetupEndpoints(router *mux.Router, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	log.Printf("🚀 Registering Slack API endpoints")

	router.HandleFunc("/integrations/slack/pin-message", authMiddleware(h.HandlePinMessage)).Methods("POST")
	router.HandleFunc("/integrations/slack/status", authMiddleware(h.HandleSlackStatus)).Methods("GET")
	router.HandleFunc("/integrations/slack/disconnect", authMiddleware(h.HandleSlackDisconnect)).Methods("DELETE")
	router.HandleFunc("/integrations/slack/settings", authMiddleware(h.HandleUpdateSettings)).Methods("PUT")
	router.HandleFunc("/streams/{id}/slack-messages", authMiddleware(h.HandleListStreamMessages)).Methods("GET")
	router.HandleFunc("/streams/{id}/slack-messages", authMiddleware(h.HandleCreateStreamMessage)).Methods("POST")
	router.HandleFunc("/streams/{id}/slack-messages/stats", authMiddleware(h.HandleStreamMessageStats)).Methods("GET")
	router.HandleFunc("/streams/{id}/slack-messages/{messageID}", authMiddleware(h.HandleUnpinMessage)).Methods("DELETE")

	log.Printf("✅ All Slack API endpoints registered successfully")
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("❌ Failed to encode JSON response: %v", err)
	}
}

func writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, map[string]string{"error": message})
}
