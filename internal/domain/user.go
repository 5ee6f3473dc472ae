package domain

import "time"

type Provider string

const (
	ProviderLocal  Provider = "LOCAL"
	ProviderGoogle Provider = "GOOGLE"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"

	// RoleTempUser is never stored on a user. It is granted per request to
	// holders of a profile-completion token.
	RoleTempUser Role = "TEMP_USER"
)

type User struct {
	ID              int64
	Email           string
	Name            string
	PasswordHash    string // empty for social accounts
	Provider        Provider
	ProviderID      string // external subject id, social accounts only
	BirthDate       *time.Time
	CountryCode     string
	PhoneNumber     string
	ProfileImageURL string
	Role            Role
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ProfileComplete reports whether the user has the fields required to hold
// a full session.
func (u *User) ProfileComplete() bool {
	return u.BirthDate != nil && len(u.CountryCode) == 2
}

// Profile holds the user-editable fields shared by profile update and
// social profile completion.
type Profile struct {
	Name        string
	BirthDate   *time.Time
	CountryCode string
	PhoneNumber string
}

// Principal is the authenticated identity attached to a single request.
type Principal struct {
	User *User
	Role Role
}

func (p *Principal) Temporary() bool {
	return p.Role == RoleTempUser
}
