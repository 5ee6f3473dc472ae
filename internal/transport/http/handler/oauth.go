package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/principal"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/transport/http/middleware"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/usecase"
	"github.com/gin-gonic/gin"
)

// GoogleAuthorizePath starts the Google login redirect.
const GoogleAuthorizePath = "/oauth2/authorization/google"

type socialUsecaser interface {
	BeginLogin() (string, error)
	CompleteLogin(ctx context.Context, state, code string) (*usecase.SocialResult, error)
}

type profileUsecaser interface {
	CompleteProfile(ctx context.Context, tempToken string, profile domain.Profile) (*usecase.Session, error)
}

type OAuthHandler struct {
	social      socialUsecaser
	profiles    profileUsecaser
	frontendURL string
	logger      *slog.Logger
}

// NewOAuthHandler builds the social login handler. When frontendURL is set
// the provider callback redirects there with the outcome in the query
// string; otherwise it answers with JSON.
func NewOAuthHandler(social socialUsecaser, profiles profileUsecaser, frontendURL string, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{
		social:      social,
		profiles:    profiles,
		frontendURL: frontendURL,
		logger:      logger.With("component", "oauth_handler"),
	}
}

// GET /api/oauth2/login-url
func (h *OAuthHandler) LoginURL(c *gin.Context) {
	respond(c, http.StatusOK, "OK", gin.H{"loginUrl": GoogleAuthorizePath})
}

// GET /oauth2/authorization/google
func (h *OAuthHandler) Authorize(c *gin.Context) {
	consentURL, err := h.social.BeginLogin()
	if err != nil {
		writeError(c, h.logger, "begin social login", err)
		return
	}
	c.Redirect(http.StatusFound, consentURL)
}

// GET /login/oauth2/code/google?state=...&code=...
func (h *OAuthHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		h.logger.InfoContext(c.Request.Context(), "provider refused authorization", "reason", reason)
		h.callbackError(c, domain.NewError(domain.KindUnauthorized, "authorization was denied by the provider"))
		return
	}

	result, err := h.social.CompleteLogin(c.Request.Context(), c.Query("state"), c.Query("code"))
	if err != nil {
		h.callbackError(c, err)
		return
	}

	switch result.Outcome {
	case usecase.SocialAuthenticated:
		if h.frontendURL != "" {
			h.redirect(c, url.Values{
				"success":      {"true"},
				"accessToken":  {result.Session.AccessToken},
				"refreshToken": {result.Session.RefreshToken},
			})
			return
		}
		respond(c, http.StatusOK, "Login successful", authResponse{
			AccessToken:  result.Session.AccessToken,
			RefreshToken: result.Session.RefreshToken,
			User:         newUserInfo(result.User),
		})
	default:
		if h.frontendURL != "" {
			h.redirect(c, url.Values{
				"needsProfile": {"true"},
				"tempToken":    {result.TempToken},
				"email":        {result.User.Email},
				"name":         {result.User.Name},
			})
			return
		}
		respond(c, http.StatusOK, "Profile completion required", tempTokenResponse{
			TempToken:       result.TempToken,
			Email:           result.User.Email,
			Name:            result.User.Name,
			ProfileImageURL: optional(result.User.ProfileImageURL),
			NeedsProfile:    true,
		})
	}
}

func (h *OAuthHandler) callbackError(c *gin.Context, err error) {
	if h.frontendURL == "" {
		writeError(c, h.logger, "social login callback", err)
		return
	}

	kind, ok := domain.KindOf(err)
	message := err.Error()
	if !ok || statusFor(kind) == http.StatusInternalServerError {
		h.logger.ErrorContext(c.Request.Context(), "social login callback", "error", err)
		kind, message = kindInternal, errInternalServer
	}
	h.redirect(c, url.Values{
		"error":     {"true"},
		"errorCode": {string(kind)},
		"message":   {message},
	})
}

// redirect sends the browser to the frontend with the outcome in the URL
// fragment. Fragments are not sent to servers or written to access logs,
// so tokens stay out of both. The frontend URL's own query is kept.
func (h *OAuthHandler) redirect(c *gin.Context, params url.Values) {
	target, err := url.Parse(h.frontendURL)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "parse frontend redirect url", "error", err)
		respondError(c, http.StatusInternalServerError, kindInternal, errInternalServer)
		return
	}
	target.Fragment = params.Encode()
	c.Redirect(http.StatusFound, target.String())
}

// POST /api/oauth2/complete-profile
// Requires the temp token as the Bearer credential.
func (h *OAuthHandler) CompleteProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	raw, _ := middleware.BearerToken(c)
	session, err := h.profiles.CompleteProfile(c.Request.Context(), raw, req.profile())
	if err != nil {
		writeError(c, h.logger, "complete profile", err)
		return
	}

	respond(c, http.StatusOK, "Profile completed", authResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         newUserInfo(session.User),
	})
}

type profileStatusResponse struct {
	ProfileComplete bool     `json:"profileComplete"`
	NeedsProfile    bool     `json:"needsProfile"`
	Temporary       bool     `json:"temporary"`
	User            userInfo `json:"user"`
}

// GET /api/oauth2/profile-status
func (h *OAuthHandler) ProfileStatus(c *gin.Context) {
	p := principal.FromContext(c.Request.Context())
	complete := p.User.ProfileComplete()
	respond(c, http.StatusOK, "OK", profileStatusResponse{
		ProfileComplete: complete,
		NeedsProfile:    !complete,
		Temporary:       p.Temporary(),
		User:            newUserInfo(p.User),
	})
}
