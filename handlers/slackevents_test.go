package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"currentlybackend/models"
	"currentlybackend/services/integrations"
	"currentlybackend/services/organizations"
	"currentlybackend/services/streams"
)

func postSignedEvent(t *testing.T, h *SlackEventsHandler, now time.Time, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	timestamp := fmt.Sprintf("%d", now.Unix())
	req := httptest.NewRequest("POST", "/integrations/slack/events", bytes.NewReader(body))
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", signBody(testSigningSecret, timestamp, body))

	recorder := httptest.NewRecorder()
	h.HandleSlackEvent(recorder, req)
	return recorder
}

func TestHandleSlackEvent(t *testing.T) {
	now := time.Unix(1700000000, 0)

	t.Run("answers url_verification with the challenge", func(t *testing.T) {
		h := newSignatureHandler(now)
		body := []byte(`{"type":"url_verification","challenge":"ch4ll3ng3"}`)

		recorder := postSignedEvent(t, h, now, body)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response map[string]string
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "ch4ll3ng3", response["challenge"])
	})

	t.Run("returns 401 when the signature is invalid", func(t *testing.T) {
		h := newSignatureHandler(now)
		body := []byte(`{"type":"url_verification","challenge":"ch4ll3ng3"}`)

		req := httptest.NewRequest("POST", "/integrations/slack/events", bytes.NewReader(body))
		req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", now.Unix()))
		req.Header.Set("X-Slack-Signature", "v0=deadbeef")

		recorder := httptest.NewRecorder()
		h.HandleSlackEvent(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("acks event_callback with 200", func(t *testing.T) {
		h := newSignatureHandler(now)
		body := []byte(`{"type":"event_callback","team_id":"T123","event":{"type":"message","channel":"C1","user":"U1","ts":"1.2"}}`)

		recorder := postSignedEvent(t, h, now, body)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response map[string]bool
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response["ok"])
	})

	t.Run("acks a signed but unparseable body with 200", func(t *testing.T) {
		h := newSignatureHandler(now)
		body := []byte(`{"type":"event_callback",`)

		recorder := postSignedEvent(t, h, now, body)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response map[string]bool
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.True(t, response["ok"])
	})

	t.Run("acks unknown callback types with 200", func(t *testing.T) {
		h := newSignatureHandler(now)
		body := []byte(`{"type":"something_new"}`)

		recorder := postSignedEvent(t, h, now, body)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})

	t.Run("acks event_callback with an unknown inner event type", func(t *testing.T) {
		h := newSignatureHandler(now)
		body := []byte(`{"type":"event_callback","team_id":"T123","event":{"type":"emoji_changed"}}`)

		recorder := postSignedEvent(t, h, now, body)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func postSignedCommand(t *testing.T, h *SlackEventsHandler, now time.Time, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	body := []byte(form.Encode())
	timestamp := fmt.Sprintf("%d", now.Unix())
	req := httptest.NewRequest("POST", "/integrations/slack/slash-command", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("X-Slack-Request-Timestamp", timestamp)
	req.Header.Set("X-Slack-Signature", signBody(testSigningSecret, timestamp, body))

	recorder := httptest.NewRecorder()
	h.HandleSlackCommand(recorder, req)
	return recorder
}

func commandForm(text string) url.Values {
	return url.Values{
		"command": {"/currently"},
		"text":    {text},
		"team_id": {"T123"},
		"user_id": {"U456"},
	}
}

func ephemeralText(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var response map[string]string
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.Equal(t, "ephemeral", response["response_type"])
	return response["text"]
}

func TestHandleSlackCommand(t *testing.T) {
	now := time.Unix(1700000000, 0)

	newCommandHandler := func(
		integrationsService *integrations.MockIntegrationsService,
		organizationsService *organizations.MockOrganizationsService,
		streamsService *streams.MockStreamsService,
	) *SlackEventsHandler {
		h := NewSlackEventsHandler(testSigningSecret, integrationsService, organizationsService, streamsService)
		h.now = func() time.Time { return now }
		return h
	}

	t.Run("responds ephemeral not-connected when no credential matches", func(t *testing.T) {
		mockIntegrations := new(integrations.MockIntegrationsService)
		mockIntegrations.On("GetSlackIntegrationBySlackUserID", mock.Anything, "T123", "U456").
			Return(mo.None[*models.Integration](), nil)

		h := newCommandHandler(mockIntegrations, nil, nil)
		recorder := postSignedCommand(t, h, now, commandForm(""))

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, ephemeralText(t, recorder), "not connected")
		mockIntegrations.AssertExpectations(t)
	})

	t.Run("lists the user's streams across organizations", func(t *testing.T) {
		mockIntegrations := new(integrations.MockIntegrationsService)
		mockOrganizations := new(organizations.MockOrganizationsService)
		mockStreams := new(streams.MockStreamsService)

		integration := &models.Integration{ID: "int_1", UserID: "u_1", SlackTeamID: "T123", SlackUserID: "U456"}
		mockIntegrations.On("GetSlackIntegrationBySlackUserID", mock.Anything, "T123", "U456").
			Return(mo.Some(integration), nil)
		mockOrganizations.On("GetOrganizationsForUser", mock.Anything, "u_1").
			Return([]*models.Organization{{ID: "org_1", Name: "Acme"}}, nil)
		mockStreams.On("GetStreamsForUserInOrganization", mock.Anything, "u_1", "org_1").
			Return([]*models.Stream{
				{ID: "st_1", Name: "Launch Planning"},
				{ID: "st_2", Name: "Support Rotation"},
			}, nil)

		h := newCommandHandler(mockIntegrations, mockOrganizations, mockStreams)
		recorder := postSignedCommand(t, h, now, commandForm(""))

		require.Equal(t, http.StatusOK, recorder.Code)
		text := ephemeralText(t, recorder)
		assert.Contains(t, text, "Launch Planning")
		assert.Contains(t, text, "Support Rotation")
		assert.Contains(t, text, "Acme")
	})

	t.Run("filters streams case-insensitively by the command argument", func(t *testing.T) {
		mockIntegrations := new(integrations.MockIntegrationsService)
		mockOrganizations := new(organizations.MockOrganizationsService)
		mockStreams := new(streams.MockStreamsService)

		integration := &models.Integration{ID: "int_1", UserID: "u_1", SlackTeamID: "T123", SlackUserID: "U456"}
		mockIntegrations.On("GetSlackIntegrationBySlackUserID", mock.Anything, "T123", "U456").
			Return(mo.Some(integration), nil)
		mockOrganizations.On("GetOrganizationsForUser", mock.Anything, "u_1").
			Return([]*models.Organization{{ID: "org_1", Name: "Acme"}}, nil)
		mockStreams.On("GetStreamsForUserInOrganization", mock.Anything, "u_1", "org_1").
			Return([]*models.Stream{
				{ID: "st_1", Name: "Launch Planning"},
				{ID: "st_2", Name: "Support Rotation"},
			}, nil)

		h := newCommandHandler(mockIntegrations, mockOrganizations, mockStreams)
		recorder := postSignedCommand(t, h, now, commandForm("LAUNCH"))

		require.Equal(t, http.StatusOK, recorder.Code)
		text := ephemeralText(t, recorder)
		assert.Contains(t, text, "Launch Planning")
		assert.False(t, strings.Contains(text, "Support Rotation"))
	})

	t.Run("returns 401 when the signature is invalid", func(t *testing.T) {
		h := newCommandHandler(nil, nil, nil)

		body := []byte(commandForm("").Encode())
		req := httptest.NewRequest("POST", "/integrations/slack/slash-command", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("X-Slack-Request-Timestamp", fmt.Sprintf("%d", now.Unix()))
		req.Header.Set("X-Slack-Signature", "v0=deadbeef")

		recorder := httptest.NewRecorder()
		h.HandleSlackCommand(recorder, req)

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})
}
