package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"currentlybackend/appctx"
	"currentlybackend/models/api"
)

// UsersHandler serves the authenticated user's own profile.
type UsersHandler struct{}

func NewUsersHandler() *UsersHandler {
	return &UsersHandler{}
}

func (h *UsersHandler) SetupEndpoints(router *mux.Router, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	log.Printf("🚀 Registering user endpoints")

	router.HandleFunc("/users/profile", authMiddleware(h.HandleGetUserProfile)).Methods("GET")
}

func (h *UsersHandler) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	log.Printf("👤 Get user profile request received from %s", r.RemoteAddr)

	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ No authenticated user in request context")
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	writeJSONResponse(w, http.StatusOK, api.DomainUserToAPIUser(user))
}
