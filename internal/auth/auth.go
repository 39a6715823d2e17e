package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/campus-events/internal/config"
	"github.com/gdg-garage/campus-events/internal/database"
	"github.com/gdg-garage/campus-events/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordAPIBase           = "https://discord.com/api"

	CookieName      = "auth_token"
	StateCookieName = "oauth_state"
	StateDuration   = 10 * time.Minute
	APIKeyHeader    = "X-API-KEY"
	TokenDuration   = 24 * time.Hour
)

type AuthHandler struct {
	oauthConfig *oauth2.Config
	db          *gorm.DB
	cfg         *config.Config
	apiBase     string
	now         func() time.Time
}

func NewAuthHandler(cfg *config.Config, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "email", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		db:      db,
		cfg:     cfg,
		apiBase: DiscordAPIBase,
		now:     database.NowUTC,
	}
}

// HandleLogin redirects to Discord with a fresh state value that the
// callback checks against the state cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     StateCookieName,
		Value:    state,
		Path:     "/auth/discord",
		Expires:  h.now().Add(StateDuration),
		MaxAge:   int(StateDuration / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	url := h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

func validState(r *http.Request) bool {
	state := r.URL.Query().Get("state")
	c, err := r.Cookie(StateCookieName)
	if err != nil || state == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(state), []byte(c.Value)) == 1
}

type discordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log := zerolog.Ctx(r.Context())

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}
	if !validState(r) {
		log.Warn().Msg("oauth state mismatch")
		http.Error(w, "Invalid OAuth state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, &http.Cookie{Name: StateCookieName, Path: "/auth/discord", MaxAge: -1})

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		log.Warn().Err(err).Msg("discord token exchange failed")
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}

	client := h.oauthConfig.Client(r.Context(), token)

	// Check Guild Membership
	if h.cfg.DiscordGuildID != "" {
		var guilds []struct {
			ID string `json:"id"`
		}
		if err := getJSON(client, h.apiBase+"/users/@me/guilds", &guilds); err != nil {
			log.Warn().Err(err).Msg("failed to get user guilds")
			http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
			return
		}

		isMember := false
		for _, g := range guilds {
			if g.ID == h.cfg.DiscordGuildID {
				isMember = true
				break
			}
		}

		if !isMember {
			http.Error(w, "Access denied: You are not a member of the organisers' guild.", http.StatusForbidden)
			return
		}
	}

	var du discordUser
	if err := getJSON(client, h.apiBase+"/users/@me", &du); err != nil {
		log.Warn().Err(err).Msg("failed to get user info")
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	var admin models.Admin
	if err := h.db.WithContext(r.Context()).FirstOrInit(&admin, models.Admin{DiscordID: du.ID}).Error; err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	admin.Username = du.Username
	admin.Email = du.Email
	admin.Avatar = du.Avatar

	if err := h.db.WithContext(r.Context()).Save(&admin).Error; err != nil {
		log.Error().Err(err).Msg("failed to save admin")
		http.Error(w, "Failed to save admin", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(admin.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, h.sessionCookie(jwtToken))
	log.Info().Uint("admin_id", admin.ID).Str("username", admin.Username).Msg("admin logged in")

	http.Redirect(w, r, h.cfg.FrontendURL, http.StatusTemporaryRedirect)
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func (h *AuthHandler) sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  h.now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) GenerateToken(adminID uint) (string, error) {
	claims := jwt.MapClaims{
		"admin_id": adminID,
		"exp":      h.now().Add(TokenDuration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

var (
	errNoCredentials = errors.New("no credentials")
	errInvalidToken  = errors.New("invalid token")
	errExpiredKey    = errors.New("API key expired")
	errUnknownKey    = errors.New("unknown API key")
)

// parseToken validates a session token and returns the admin it belongs to
// and whether the token is past half its lifetime.
func (h *AuthHandler) parseToken(tokenString string) (uint, bool, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithTimeFunc(h.now))
	if err != nil || !token.Valid {
		return 0, false, errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, false, errInvalidToken
	}
	adminIDFloat, ok := claims["admin_id"].(float64)
	if !ok || adminIDFloat <= 0 {
		return 0, false, errInvalidToken
	}

	stale := false
	if exp, ok := claims["exp"].(float64); ok {
		remaining := time.Unix(int64(exp), 0).Sub(h.now())
		stale = remaining < TokenDuration/2
	}
	return uint(adminIDFloat), stale, nil
}

// checkAPIKey resolves an API key to its admin and records the use.
func (h *AuthHandler) checkAPIKey(ctx context.Context, key string) (uint, error) {
	if h.db == nil {
		return 0, errUnknownKey
	}
	var keyModel models.APIKey
	if err := h.db.WithContext(ctx).Where("key = ?", key).First(&keyModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, errUnknownKey
		}
		return 0, err
	}
	now := h.now()
	if keyModel.Expired(now) {
		return 0, errExpiredKey
	}
	if err := h.db.WithContext(ctx).Model(&keyModel).Update("last_used_at", now).Error; err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Uint("api_key_id", keyModel.ID).Msg("failed to record API key use")
	}
	return keyModel.AdminID, nil
}

// Credentials are the raw authentication headers of a request.
type Credentials struct {
	Cookie string
	APIKey string
}

// Authenticate resolves credentials to an admin id. An API key wins over
// the session cookie. When the session is past half its lifetime a
// replacement cookie is returned.
func (h *AuthHandler) Authenticate(ctx context.Context, creds Credentials) (uint, *http.Cookie, error) {
	missing := errNoCredentials
	if creds.APIKey != "" {
		id, err := h.checkAPIKey(ctx, creds.APIKey)
		if err == nil {
			return id, nil, nil
		}
		if !errors.Is(err, errUnknownKey) {
			return 0, nil, err
		}
		missing = err
	}

	tokenString := sessionToken(creds.Cookie)
	if tokenString == "" {
		return 0, nil, missing
	}

	adminID, stale, err := h.parseToken(tokenString)
	if err != nil {
		return 0, nil, err
	}

	var refreshed *http.Cookie
	if stale {
		if newToken, err := h.GenerateToken(adminID); err == nil {
			refreshed = h.sessionCookie(newToken)
		}
	}
	return adminID, refreshed, nil
}

func sessionToken(header string) string {
	if header == "" {
		return ""
	}
	cookies, err := http.ParseCookie(header)
	if err != nil {
		return ""
	}
	for _, c := range cookies {
		if c.Name == CookieName {
			return c.Value
		}
	}
	return ""
}

type MeResponse struct {
	Body struct {
		ID        uint   `json:"id"`
		DiscordID string `json:"discord_id"`
		Username  string `json:"username"`
		Email     string `json:"email"`
		Avatar    string `json:"avatar"`
	}
}

func (h *AuthHandler) HandleMe(ctx context.Context, _ *struct{}) (*MeResponse, error) {
	adminID, ok := AdminIDFromContext(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var admin models.Admin
	if err := h.db.WithContext(ctx).First(&admin, adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, huma.Error404NotFound("Admin not found")
		}
		return nil, huma.Error500InternalServerError("Failed to load admin", err)
	}

	resp := &MeResponse{}
	resp.Body.ID = admin.ID
	resp.Body.DiscordID = admin.DiscordID
	resp.Body.Username = admin.Username
	resp.Body.Email = admin.Email
	resp.Body.Avatar = admin.Avatar
	return resp, nil
}
