package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/repository"
)

// ProfileUsecase finalizes the AwaitingProfile → Authenticated transition of
// a social login.
type ProfileUsecase struct {
	users  repository.UserRepository
	tokens TokenIssuer
}

func NewProfileUsecase(users repository.UserRepository, tokens TokenIssuer) *ProfileUsecase {
	return &ProfileUsecase{users: users, tokens: tokens}
}

// CompleteProfile applies profile to the temp token's subject and issues a
// full session. The temp token stays valid on its allow-listed routes until
// it expires; there is no server-side revocation.
func (u *ProfileUsecase) CompleteProfile(ctx context.Context, tempToken string, profile domain.Profile) (*Session, error) {
	tok, err := u.tokens.Validate(tempToken)
	if err != nil || !tok.IsTemporary() {
		return nil, domain.ErrInvalidTempToken
	}

	user, err := u.users.FindByID(ctx, tok.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user.Provider == domain.ProviderLocal {
		return nil, domain.NewError(domain.KindInvalidRequest, "profile completion is only available to social login accounts")
	}

	updated, err := u.users.UpdateProfile(ctx, user.ID, profile)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	return issueSession(u.tokens, updated)
}
