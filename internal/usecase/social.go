package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/metrics"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/oauth"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/repository"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/token"
)

// SocialProvider runs the provider side of the authorization-code flow.
type SocialProvider interface {
	AuthCodeURL(state string) string
	FetchAttributes(ctx context.Context, code string) (*oauth.Attributes, error)
}

type StateStore interface {
	Issue() (string, error)
	Consume(state string) bool
}

// SocialOutcome is the state a social login lands in.
type SocialOutcome int

const (
	// SocialAuthenticated carries a full session.
	SocialAuthenticated SocialOutcome = iota + 1
	// SocialAwaitingProfile carries a temp token; the client must collect the
	// missing profile fields and call profile completion.
	SocialAwaitingProfile
)

type SocialResult struct {
	Outcome   SocialOutcome
	User      *domain.User
	Session   *Session // set for SocialAuthenticated
	TempToken string   // set for SocialAwaitingProfile
}

type SocialUsecase struct {
	users    repository.UserRepository
	tokens   TokenIssuer
	provider SocialProvider
	states   StateStore
}

func NewSocialUsecase(users repository.UserRepository, tokens TokenIssuer, provider SocialProvider, states StateStore) *SocialUsecase {
	return &SocialUsecase{
		users:    users,
		tokens:   tokens,
		provider: provider,
		states:   states,
	}
}

// BeginLogin returns the provider consent URL bound to a fresh state value.
func (u *SocialUsecase) BeginLogin() (string, error) {
	state, err := u.states.Issue()
	if err != nil {
		return "", err
	}
	return u.provider.AuthCodeURL(state), nil
}

// CompleteLogin checks state, exchanges the authorization code and hands the
// provider attributes to HandleCallback.
func (u *SocialUsecase) CompleteLogin(ctx context.Context, state, code string) (*SocialResult, error) {
	if !u.states.Consume(state) {
		return nil, domain.NewError(domain.KindUnauthorized, "oauth state is invalid or expired")
	}
	if code == "" {
		return nil, domain.NewError(domain.KindInvalidRequest, "authorization code is missing")
	}

	attrs, err := u.provider.FetchAttributes(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("fetch provider attributes: %w", err)
	}
	return u.HandleCallback(ctx, *attrs)
}

// HandleCallback resolves or creates the user for verified provider attributes
// and decides whether the login is complete.
func (u *SocialUsecase) HandleCallback(ctx context.Context, attrs oauth.Attributes) (*SocialResult, error) {
	if attrs.Email == "" || attrs.Name == "" {
		metrics.SocialLoginsTotal.WithLabelValues("attributes_missing").Inc()
		return nil, domain.ErrOAuthAttributesMissing
	}

	user, err := u.resolveUser(ctx, attrs)
	if err != nil {
		return nil, err
	}

	if user.ProfileComplete() {
		session, err := issueSession(u.tokens, user)
		if err != nil {
			return nil, err
		}
		metrics.SocialLoginsTotal.WithLabelValues("authenticated").Inc()
		return &SocialResult{Outcome: SocialAuthenticated, User: user, Session: session}, nil
	}

	temp, err := u.tokens.Issue(user, token.KindTemp)
	if err != nil {
		return nil, fmt.Errorf("issue temp token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(token.KindTemp.String()).Inc()
	metrics.SocialLoginsTotal.WithLabelValues("awaiting_profile").Inc()
	return &SocialResult{Outcome: SocialAwaitingProfile, User: user, TempToken: temp}, nil
}

// resolveUser merges into any existing account with the same email,
// including LOCAL ones. Only the profile image is updated on merge.
func (u *SocialUsecase) resolveUser(ctx context.Context, attrs oauth.Attributes) (*domain.User, error) {
	existing, err := u.users.FindByEmail(ctx, attrs.Email)
	switch {
	case err == nil:
		if attrs.Picture != "" && attrs.Picture != existing.ProfileImageURL {
			if err := u.users.UpdateProfileImage(ctx, existing.ID, attrs.Picture); err != nil {
				return nil, fmt.Errorf("update profile image: %w", err)
			}
			existing.ProfileImageURL = attrs.Picture
		}
		return existing, nil
	case !errors.Is(err, domain.ErrUserNotFound):
		return nil, fmt.Errorf("find user: %w", err)
	}

	created, err := u.users.Create(ctx, &domain.User{
		Email:           attrs.Email,
		Name:            attrs.Name,
		Provider:        domain.ProviderGoogle,
		ProviderID:      attrs.Subject,
		ProfileImageURL: attrs.Picture,
		Role:            domain.RoleUser,
	})
	if err != nil {
		return nil, fmt.Errorf("create social user: %w", err)
	}
	return created, nil
}
