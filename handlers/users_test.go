package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"currentlybackend/models"
	"currentlybackend/testutils"
)

func TestHandleGetUserProfile(t *testing.T) {
	t.Run("returns 401 without an authenticated user", func(t *testing.T) {
		h := NewUsersHandler()

		recorder := httptest.NewRecorder()
		h.HandleGetUserProfile(recorder, httptest.NewRequest("GET", "/users/profile", nil))

		assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("returns the authenticated user's profile", func(t *testing.T) {
		h := NewUsersHandler()

		user := &models.User{
			ID:             "u_2",
			AuthProvider:   "test",
			AuthProviderID: "test-2",
			Email:          "someone@example.com",
			CreatedAt:      time.Now().UTC(),
		}
		req := httptest.NewRequest("GET", "/users/profile", nil)
		req = req.WithContext(testutils.CreateTestContext(user))

		recorder := httptest.NewRecorder()
		h.HandleGetUserProfile(recorder, req)

		require.Equal(t, http.StatusOK, recorder.Code)
		var response struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		}
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
		assert.Equal(t, "u_2", response.ID)
		assert.Equal(t, "someone@example.com", response.Email)
	})
}
