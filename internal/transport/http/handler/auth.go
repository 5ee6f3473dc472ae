package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/principal"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/usecase"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	SignUp(ctx context.Context, input usecase.SignUpInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*usecase.Session, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, user *domain.User, input usecase.ChangePasswordInput) error
	UpdateProfile(ctx context.Context, user *domain.User, profile domain.Profile) (*domain.User, error)
	CheckEmailAvailability(ctx context.Context, email string) (bool, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	logger      *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		logger:      logger.With("component", "auth_handler"),
	}
}

type signUpRequest struct {
	Email           string `json:"email"           binding:"required,email"`
	Name            string `json:"name"            binding:"required,min=2,max=50"`
	Password        string `json:"password"        binding:"required,password"`
	PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	BirthDate       string `json:"birthDate"       binding:"required,pastdate"`
	CountryCode     string `json:"countryCode"     binding:"required,country"`
	PhoneNumber     string `json:"phoneNumber"     binding:"omitempty,phone"`
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword    string `json:"currentPassword"    binding:"required"`
	NewPassword        string `json:"newPassword"        binding:"required,password"`
	NewPasswordConfirm string `json:"newPasswordConfirm" binding:"required"`
}

// profileRequest is shared by profile update and social profile completion.
type profileRequest struct {
	Name        string `json:"name"        binding:"required,min=2,max=50"`
	BirthDate   string `json:"birthDate"   binding:"required,pastdate"`
	CountryCode string `json:"countryCode" binding:"required,country"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone"`
}

func (r profileRequest) profile() domain.Profile {
	return domain.Profile{
		Name:        r.Name,
		BirthDate:   parseDate(r.BirthDate),
		CountryCode: r.CountryCode,
		PhoneNumber: r.PhoneNumber,
	}
}

type checkEmailQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// POST /api/auth/signup
// Creates the account only; the client logs in separately.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	_, err := h.authUsecase.SignUp(c.Request.Context(), usecase.SignUpInput{
		Email:           req.Email,
		Name:            req.Name,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		BirthDate:       parseDate(req.BirthDate),
		CountryCode:     req.CountryCode,
		PhoneNumber:     req.PhoneNumber,
	})
	if err != nil {
		writeError(c, h.logger, "sign up", err)
		return
	}

	respond(c, http.StatusCreated, "Sign up successful", nil)
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	session, err := h.authUsecase.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, h.logger, "login", err)
		return
	}

	respond(c, http.StatusOK, "Login successful", authResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		User:         newUserInfo(session.User),
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	access, err := h.authUsecase.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeError(c, h.logger, "refresh token", err)
		return
	}

	respond(c, http.StatusOK, "Token refreshed", gin.H{"accessToken": access})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p := principal.FromContext(c.Request.Context())
	respond(c, http.StatusOK, "OK", newUserInfo(p.User))
}

// PUT /api/auth/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	p := principal.FromContext(c.Request.Context())
	updated, err := h.authUsecase.UpdateProfile(c.Request.Context(), p.User, req.profile())
	if err != nil {
		writeError(c, h.logger, "update profile", err)
		return
	}

	respond(c, http.StatusOK, "Profile updated", newUserInfo(updated))
}

// PUT /api/auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	p := principal.FromContext(c.Request.Context())
	err := h.authUsecase.ChangePassword(c.Request.Context(), p.User, usecase.ChangePasswordInput{
		CurrentPassword:    req.CurrentPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	})
	if err != nil {
		writeError(c, h.logger, "change password", err)
		return
	}

	respond(c, http.StatusOK, "Password changed", nil)
}

// POST /api/auth/logout
// Tokens are stateless; the client discards them.
func (h *AuthHandler) Logout(c *gin.Context) {
	respond(c, http.StatusOK, "Logged out", nil)
}

// GET /api/auth/check-email?email=<address>
func (h *AuthHandler) CheckEmail(c *gin.Context) {
	var q checkEmailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}

	available, err := h.authUsecase.CheckEmailAvailability(c.Request.Context(), q.Email)
	if err != nil {
		writeError(c, h.logger, "check email", err)
		return
	}

	respond(c, http.StatusOK, "OK", gin.H{"available": available})
}
