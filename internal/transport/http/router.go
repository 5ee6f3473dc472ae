package httptransport

import (
	"log/slog"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/transport/http/handler"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"

	sloggin "github.com/samber/slog-gin"
)

const (
	completeProfilePath = "/api/oauth2/complete-profile"
	profileStatusPath   = "/api/oauth2/profile-status"
)

// TempTokenRoutes lists the only routes on which a profile-completion token
// authenticates its holder.
var TempTokenRoutes = middleware.NewTempRoutes(
	"POST "+completeProfilePath,
	"GET "+profileStatusPath,
)

type RouterConfig struct {
	Tokens         middleware.TokenValidator
	Users          middleware.UserFinder
	AllowedOrigins []string
}

func NewRouter(logger *slog.Logger, cfg RouterConfig, authHandler *handler.AuthHandler, oauthHandler *handler.OAuthHandler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.Authenticate(cfg.Tokens, cfg.Users, TempTokenRoutes, logger))

	member := middleware.RequireAuth(domain.RoleUser, domain.RoleAdmin)

	r.GET("/api/health", handler.Health)

	auth := r.Group("/api/auth")
	auth.POST("/signup", authHandler.SignUp)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.GET("/check-email", authHandler.CheckEmail)
	auth.GET("/me", member, authHandler.Me)
	auth.PUT("/profile", member, authHandler.UpdateProfile)
	auth.PUT("/password", member, authHandler.ChangePassword)
	auth.POST("/logout", member, authHandler.Logout)

	// Google redirect flow
	r.GET("/api/oauth2/login-url", oauthHandler.LoginURL)
	r.GET(handler.GoogleAuthorizePath, oauthHandler.Authorize)
	r.GET("/login/oauth2/code/google", oauthHandler.Callback)

	r.POST(completeProfilePath, middleware.RequireAuth(domain.RoleTempUser), oauthHandler.CompleteProfile)
	r.GET(profileStatusPath,
		middleware.RequireAuth(domain.RoleTempUser, domain.RoleUser, domain.RoleAdmin),
		oauthHandler.ProfileStatus)

	return r
}
