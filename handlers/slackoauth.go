package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"currentlybackend/appctx"
	"currentlybackend/config"
	"currentlybackend/services"
)

// oauthStateTTL bounds how long a minted connect link stays valid.
const oauthStateTTL = 10 * time.Minute

// slackOAuthScopes is the bot scope set requested during the OAuth flow.
const slackOAuthScopes = "channels:read,chat:write,commands,team:read"

type SlackOAuthHandler struct {
	cfg                  *config.AppConfig
	integrationsService  services.IntegrationsService
	organizationsService services.OrganizationsService
	now                  func() time.Time
}

func NewSlackOAuthHandler(
	cfg *config.AppConfig,
	integrationsService services.IntegrationsService,
	organizationsService services.OrganizationsService,
) *SlackOAuthHandler {
	return &SlackOAuthHandler{
		cfg:                  cfg,
		integrationsService:  integrationsService,
		organizationsService: organizationsService,
		now:                  time.Now,
	}
}

// HandleSlackConnect mints a signed OAuth state for the authenticated user
// and redirects the browser to the Slack authorize page. The state is the
// only thing that carries identity through the callback - Slack redirects
// the browser back without our auth header.
func (h *SlackOAuthHandler) HandleSlackConnect(w http.ResponseWriter, r *http.Request) {
	user, ok := appctx.GetUser(r.Context())
	if !ok {
		log.Printf("❌ No authenticated user in request context")
		writeErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	organizationID := r.URL.Query().Get("organization_id")
	if organizationID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "organization_id query parameter is required")
		return
	}

	isMember, err := h.organizationsService.IsMember(r.Context(), organizationID, user.ID)
	if err != nil {
		log.Printf("❌ Failed to check organization membership: %v", err)
		writeErrorResponse(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if !isMember {
		writeErrorResponse(w, http.StatusForbidden, "You are not a member of this organization")
		return
	}

	state := signOAuthState(h.cfg.SlackConfig.SigningSecret, organizationID, user.ID, h.now().Add(oauthStateTTL))

	authorizeURL := fmt.Sprintf(
		"https://slack.com/oauth/v2/authorize?client_id=%s&scope=%s&redirect_uri=%s&state=%s",
		url.QueryEscape(h.cfg.SlackConfig.ClientID),
		url.QueryEscape(slackOAuthScopes),
		url.QueryEscape(h.redirectURL()),
		url.QueryEscape(state),
	)

	log.Printf("🔗 Redirecting user %s to Slack authorize page for organization %s", user.ID, organizationID)
	http.Redirect(w, r, authorizeURL, http.StatusTemporaryRedirect)
}

// HandleSlackCallback completes the OAuth flow. It is a browser-facing
// endpoint, so every outcome ends in a redirect back to the site rather
// than a JSON error body.
func (h *SlackOAuthHandler) HandleSlackCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		log.Printf("⚠️ Slack OAuth denied by user: %s", errParam)
		h.redirectWithStatus(w, r, "denied")
		return
	}

	code := query.Get("code")
	state := query.Get("state")
	if code == "" || state == "" {
		log.Printf("❌ Slack OAuth callback missing code or state")
		h.redirectWithStatus(w, r, "error")
		return
	}

	organizationID, userID, err := verifyOAuthState(h.cfg.SlackConfig.SigningSecret, state, h.now())
	if err != nil {
		log.Printf("❌ Slack OAuth state verification failed: %v", err)
		h.redirectWithStatus(w, r, "state_invalid")
		return
	}

	log.Printf("📋 Starting Slack OAuth exchange for user %s in organization %s", userID, organizationID)

	_, err = h.integrationsService.ConnectSlackIntegration(r.Context(), userID, organizationID, code, h.redirectURL())
	if err != nil {
		log.Printf("❌ Slack OAuth exchange failed: %v", err)
		h.redirectWithStatus(w, r, "error")
		return
	}

	log.Printf("📋 Completed successfully - Slack integration connected for user %s", userID)
	h.redirectWithStatus(w, r, "connected")
}

func (h *SlackOAuthHandler) redirectURL() string {
	return strings.TrimSuffix(h.cfg.SiteBaseURL, "/") + "/integrations/slack/auth"
}

func (h *SlackOAuthHandler) redirectWithStatus(w http.ResponseWriter, r *http.Request, status string) {
	target := fmt.Sprintf("%s?slack_status=%s", h.cfg.SiteBaseURL, url.QueryEscape(status))
	http.Redirect(w, r, target, http.StatusTemporaryRedirect)
}

func (h *SlackOAuthHandler) SetupEndpoints(router *mux.Router, authMiddleware func(http.HandlerFunc) http.HandlerFunc) {
	log.Printf("🚀 Registering Slack OAuth endpoints")

	router.HandleFunc("/integrations/slack/connect", authMiddleware(h.HandleSlackConnect)).Methods("GET")
	router.HandleFunc("/integrations/slack/auth", h.HandleSlackCallback).Methods("GET")

	log.Printf("✅ All Slack OAuth endpoints registered successfully")
}

// signOAuthState produces "orgID:userID:expiryUnix:hexsig" where the signature
// covers the first three fields.
func signOAuthState(secret, organizationID, userID string, expiresAt time.Time) string {
	payload := fmt.Sprintf("%s:%s:%d", organizationID, userID, expiresAt.Unix())
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return payload + ":" + hex.EncodeToString(mac.Sum(nil))
}

func verifyOAuthState(secret, state string, now time.Time) (organizationID, userID string, err error) {
	parts := strings.Split(state, ":")
	if len(parts) != 4 {
		return "", "", fmt.Errorf("malformed state")
	}
	organizationID, userID, expiryStr, signature := parts[0], parts[1], parts[2], parts[3]

	payload := fmt.Sprintf("%s:%s:%s", organizationID, userID, expiryStr)
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return "", "", fmt.Errorf("state signature mismatch")
	}

	expiry, err := strconv.ParseInt(expiryStr, 10, 64)
	if err != nil {
		return "", "", fmt.Errorf("invalid expiry in state: %v", err)
	}
	if now.Unix() > expiry {
		return "", "", fmt.Errorf("state expired")
	}

	return organizationID, userID, nil
}
