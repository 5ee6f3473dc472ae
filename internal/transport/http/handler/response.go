package handler

import (
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// envelope is the body of every API response.
type envelope struct {
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

func respond(c *gin.Context, status int, message string, data any) {
	c.JSON(status, envelope{Message: message, Data: data})
}

func respondError(c *gin.Context, status int, kind domain.ErrorKind, message string) {
	c.JSON(status, envelope{Message: message, ErrorCode: string(kind)})
}

type userInfo struct {
	ID              int64           `json:"id"`
	Email           string          `json:"email"`
	Name            string          `json:"name"`
	BirthDate       *string         `json:"birthDate"`
	CountryCode     *string         `json:"countryCode"`
	PhoneNumber     *string         `json:"phoneNumber"`
	ProfileImageURL *string         `json:"profileImageUrl"`
	Provider        domain.Provider `json:"provider"`
	Role            domain.Role     `json:"role"`
}

func newUserInfo(u *domain.User) userInfo {
	info := userInfo{
		ID:              u.ID,
		Email:           u.Email,
		Name:            u.Name,
		CountryCode:     optional(u.CountryCode),
		PhoneNumber:     optional(u.PhoneNumber),
		ProfileImageURL: optional(u.ProfileImageURL),
		Provider:        u.Provider,
		Role:            u.Role,
	}
	if u.BirthDate != nil {
		d := u.BirthDate.Format(dateLayout)
		info.BirthDate = &d
	}
	return info
}

type authResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         userInfo `json:"user"`
}

type tempTokenResponse struct {
	TempToken       string  `json:"tempToken"`
	Email           string  `json:"email"`
	Name            string  `json:"name"`
	ProfileImageURL *string `json:"profileImageUrl"`
	NeedsProfile    bool    `json:"needsProfile"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseDate parses a YYYY-MM-DD value already checked by the pastdate rule.
func parseDate(s string) *time.Time {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil
	}
	return &t
}
