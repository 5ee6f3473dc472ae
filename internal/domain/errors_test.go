package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := fmt.Errorf("login: %w", domain.NewError(domain.KindUnauthorized, "password does not match"))

	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Error("wrapped error with same kind should match the sentinel")
	}
	if errors.Is(err, domain.ErrInvalidRequest) {
		t.Error("different kinds must not match")
	}
	if err.Error() != "login: password does not match" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestKindOf(t *testing.T) {
	kind, ok := domain.KindOf(fmt.Errorf("wrap: %w", domain.ErrDuplicateEmail))
	if !ok || kind != domain.KindDuplicateEmail {
		t.Errorf("KindOf = %q, %v", kind, ok)
	}
	if _, ok := domain.KindOf(errors.New("plain")); ok {
		t.Error("plain error should have no kind")
	}
}

func TestUser_ProfileComplete(t *testing.T) {
	birth := mustDate(t, "1990-01-01")
	cases := []struct {
		name string
		user domain.User
		want bool
	}{
		{"birth date and country", domain.User{BirthDate: &birth, CountryCode: "KR"}, true},
		{"missing birth date", domain.User{CountryCode: "KR"}, false},
		{"missing country", domain.User{BirthDate: &birth}, false},
		{"three-letter country", domain.User{BirthDate: &birth, CountryCode: "KOR"}, false},
	}
	for _, tc := range cases {
		if got := tc.user.ProfileComplete(); got != tc.want {
			t.Errorf("%s: ProfileComplete = %v, want %v", tc.name, got, tc.want)
		}
	}
}
