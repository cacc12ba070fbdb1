package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"currentlybackend/core"
	"currentlybackend/models"
	"currentlybackend/services/integrations"
	"currentlybackend/services/linkedmessages"
	"currentlybackend/testutils"
)

func authenticatedRequest(method, target string, body []byte) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	user := &models.User{ID: "u_1", AuthProvider: "test", AuthProviderID: "test-1"}
	return req.WithContext(testutils.CreateTestContext(user))
}

func TestHandlePinMessage(t *testing.T) {
	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		h := NewSlackAPIHandler(nil, nil)

		req := httptest.NewRequest("POST", "/integrations/slack/pin-message", bytes.NewReader([]byte(`{}`)))
		recorder := httptest.NewRecorder()
		h.HandlePinMessage(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("returns 400 with every missing field listed", func(t *testing.T) {
		mockLinked := new(linkedmessages.MockLinkedMessagesService)
		missing := []string{"message_text", "permalink", "slack_author_id", "slack_channel_id", "slack_message_id", "stream_id"}
		mockLinked.On("AddLink", mock.Anything, "u_1", mock.Anything).
			Return(nil, core.NewValidationError(missing...))

		h := NewSlackAPIHandler(nil, mockLinked)
		recorder := httptest.NewRecorder()
		h.HandlePinMessage(recorder, authenticatedRequest("POST", "/integrations/slack/pin-message", []byte(`{}`)))

		require.Equal(t, http.StatusBadRequest, recorder.Code)
		var response struct {
			Error         string   `json:"error"`
			MissingFields []string `json:"missingFields"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.ElementsMatch(t, missing, response.MissingFields)
	})

	t.Run("returns 403 when the user is not a stream member", func(t *testing.T) {
		mockLinked := new(linkedmessages.MockLinkedMessagesService)
		mockLinked.On("AddLink", mock.Anything, "u_1", mock.Anything).
			Return(nil, core.ErrAccessDenied)

		h := NewSlackAPIHandler(nil, mockLinked)
		recorder := httptest.NewRecorder()
		h.HandlePinMessage(recorder, authenticatedRequest("POST", "/integrations/slack/pin-message", validPinBody(t)))

		assert.Equal(t, http.StatusForbidden, recorder.Code)
	})

	t.Run("returns 404 when the stream does not exist", func(t *testing.T) {
		mockLinked := new(linkedmessages.MockLinkedMessagesService)
		mockLinked.On("AddLink", mock.Anything, "u_1", mock.Anything).
			Return(nil, core.ErrNotFound)

		h := NewSlackAPIHandler(nil, mockLinked)
		recorder := httptest.NewRecorder()
		h.HandlePinMessage(recorder, authenticatedRequest("POST", "/integrations/slack/pin-message", validPinBody(t)))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})

	t.Run("returns 409 when the message is already linked", func(t *testing.T) {
		mockLinked := new(linkedmessages.MockLinkedMessagesService)
		mockLinked.On("AddLink", mock.Anything, "u_1", mock.Anything).
			Return(nil, core.ErrAlreadyLinked)

		h := NewSlackAPIHandler(nil, mockLinked)
		recorder := httptest.NewRecorder()
		h.HandlePinMessage(recorder, authenticatedRequest("POST", "/integrations/slack/pin-message", validPinBody(t)))

		assert.Equal(t, http.StatusConflict, recorder.Code)
	})

	t.Run("returns 201 with the created message", func(t *testing.T) {
		mockLinked := new(linkedmessages.MockLinkedMessagesService)
		created := &models.LinkedMessage{
			ID:             "sm_1",
			StreamID:       "st_1",
			SlackMessageID: "T123:C1:1.2",
			LinkedByUserID: "u_1",
		}
		mockLinked.On("AddLink", mock.Anything, "u_1", mock.Anything).
			Return(created, nil)

		h := NewSlackAPIHandler(nil, mockLinked)
		recorder := httptest.NewRecorder()
		h.HandlePinMessage(recorder, authenticatedRequest("POST", "/integrations/slack/pin-message", validPinBody(t)))

		require.Equal(t, http.StatusCreated, recorder.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "sm_1", response["id"])
		mockLinked.AssertExpectations(t)
	})
}

func validPinBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.LinkMessageInput{
		StreamID:       "st_1",
		SlackMessageID: "T123:C1:1.2",
		SlackChannelID: "C1",
		SlackAuthorID:  "U9",
		MessageText:    "ship it",
		MessageTS:      "1.2",
		Permalink:      "https://acme.slack.com/archives/C1/p12",
	})
	require.NoError(t, err)
	return body
}

func TestHandleSlackStatus(t *testing.T) {
	t.Run("requires an organization_id query parameter", func(t *testing.T) {
		h := NewSlackAPIHandler(nil, nil)

		recorder := httptest.NewRecorder()
		h.HandleSlackStatus(recorder, authenticatedRequest("GET", "/integrations/slack/status", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("reports not connected without an active integration", func(t *testing.T) {
		mockIntegrations := new(integrations.MockIntegrationsService)
		mockIntegrations.On("GetSlackIntegration", mock.Anything, "u_1", "org_1").
			Return(mo.None[*models.Integration](), nil)

		h := NewSlackAPIHandler(mockIntegrations, nil)
		recorder := httptest.NewRecorder()
		h.HandleSlackStatus(recorder, authenticatedRequest("GET", "/integrations/slack/status?organization_id=org_1", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, false, response["connected"])
	})

	t.Run("degrades to no channels when the channel listing fails", func(t *testing.T) {
		mockIntegrations := new(integrations.MockIntegrationsService)
		integration := &models.Integration{ID: "int_1", UserID: "u_1", OrganizationID: "org_1", IsActive: true}
		mockIntegrations.On("GetSlackIntegration", mock.Anything, "u_1", "org_1").
			Return(mo.Some(integration), nil)
		mockIntegrations.On("ListSlackChannels", mock.Anything, integration).
			Return(nil, assert.AnError)

		h := NewSlackAPIHandler(mockIntegrations, nil)
		recorder := httptest.NewRecorder()
		h.HandleSlackStatus(recorder, authenticatedRequest("GET", "/integrations/slack/status?organization_id=org_1", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		var response map[string]any
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, true, response["connected"])
		_, hasChannels := response["channels"]
		assert.False(t, hasChannels)
	})
}
