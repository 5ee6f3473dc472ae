package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/email"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/metrics"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/repository"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/token"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// TokenIssuer is the subset of *token.Codec the usecases need.
type TokenIssuer interface {
	Issue(user *domain.User, kind token.Kind) (string, error)
	Validate(raw string) (*token.Token, error)
}

// Session is a full access+refresh pair along with the user it was issued to.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthUsecase struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens TokenIssuer
	email  email.Sender
	logger *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, hasher PasswordHasher, tokens TokenIssuer, emailSender email.Sender, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		email:  emailSender,
		logger: logger.With("component", "auth_usecase"),
	}
}

type SignUpInput struct {
	Email           string
	Name            string
	Password        string
	PasswordConfirm string
	BirthDate       *time.Time
	CountryCode     string
	PhoneNumber     string
}

// SignUp creates a LOCAL account. No tokens are issued; the client logs in
// separately.
func (u *AuthUsecase) SignUp(ctx context.Context, input SignUpInput) (*domain.User, error) {
	exists, err := u.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	if input.Password == "" || input.Password != input.PasswordConfirm {
		return nil, domain.NewError(domain.KindInvalidRequest, "password and password confirmation do not match")
	}

	hash, err := u.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Provider:     domain.ProviderLocal,
		BirthDate:    input.BirthDate,
		CountryCode:  input.CountryCode,
		PhoneNumber:  input.PhoneNumber,
		Role:         domain.RoleUser,
	})
	if err != nil {
		// Lost a race with a concurrent signup for the same email.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (u *AuthUsecase) Login(ctx context.Context, emailAddr, password string) (*Session, error) {
	user, err := u.users.FindByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_email").Inc()
			return nil, domain.NewError(domain.KindResourceNotFound, "email is not registered")
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Provider != domain.ProviderLocal {
		metrics.LoginsTotal.WithLabelValues("wrong_provider").Inc()
		return nil, domain.NewError(domain.KindInvalidRequest, "social login accounts must sign in with their provider")
	}

	if !u.hasher.Verify(user.PasswordHash, password) {
		metrics.LoginsTotal.WithLabelValues("bad_password").Inc()
		return nil, domain.NewError(domain.KindUnauthorized, "password does not match")
	}

	session, err := issueSession(u.tokens, user)
	if err != nil {
		return nil, err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return session, nil
}

// Refresh mints a new access token. The refresh token itself is not rotated.
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	tok, err := u.tokens.Validate(refreshToken)
	if err != nil || tok.Kind != token.KindRefresh {
		return "", domain.NewError(domain.KindUnauthorized, "invalid refresh token")
	}

	user, err := u.users.FindByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.NewError(domain.KindResourceNotFound, "user not found")
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	access, err := u.tokens.Issue(user, token.KindAccess)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(token.KindAccess.String()).Inc()
	return access, nil
}

type ChangePasswordInput struct {
	CurrentPassword    string
	NewPassword        string
	NewPasswordConfirm string
}

func (u *AuthUsecase) ChangePassword(ctx context.Context, user *domain.User, input ChangePasswordInput) error {
	if user.Provider != domain.ProviderLocal {
		return domain.NewError(domain.KindInvalidRequest, "social login accounts cannot change password")
	}

	if !u.hasher.Verify(user.PasswordHash, input.CurrentPassword) {
		return domain.NewError(domain.KindUnauthorized, "current password does not match")
	}

	if input.NewPassword == "" || input.NewPassword != input.NewPasswordConfirm {
		return domain.NewError(domain.KindInvalidRequest, "new password and confirmation do not match")
	}

	hash, err := u.hasher.Hash(input.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := u.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	user.PasswordHash = hash

	// The change is already committed; a failed notice must not undo it.
	body := `<p>The password for your account was just changed.</p>` +
		`<p>If this wasn't you, reset your password and contact support.</p>`
	if err := u.email.Send(ctx, user.Email, "Your password was changed", body); err != nil {
		u.logger.WarnContext(ctx, "password change notice", "user_id", user.ID, "error", err)
	}
	return nil
}

// UpdateProfile overwrites the four profile fields without further checks.
func (u *AuthUsecase) UpdateProfile(ctx context.Context, user *domain.User, profile domain.Profile) (*domain.User, error) {
	updated, err := u.users.UpdateProfile(ctx, user.ID, profile)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

func (u *AuthUsecase) CheckEmailAvailability(ctx context.Context, emailAddr string) (bool, error) {
	exists, err := u.users.ExistsByEmail(ctx, emailAddr)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !exists, nil
}

func issueSession(tokens TokenIssuer, user *domain.User) (*Session, error) {
	access, err := tokens.Issue(user, token.KindAccess)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := tokens.Issue(user, token.KindRefresh)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(token.KindAccess.String()).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(token.KindRefresh.String()).Inc()
	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}
