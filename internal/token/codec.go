package token

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	defaultAccessTTL  = time.Hour
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Config is the immutable signing configuration handed to NewCodec at
// start-up.
type Config struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type claims struct {
	Kind        string `json:"kind"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role,omitempty"`
	Temp        bool   `json:"temp,omitempty"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

type Option func(*Codec)

// WithClock overrides the wall clock used for issuance and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

func NewCodec(cfg Config, opts ...Option) (*Codec, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token: signing secret is required")
	}
	c := &Codec{
		secret:     append([]byte(nil), cfg.Secret...),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        time.Now,
		// Expiry is judged by Token.Expired so that a signature failure is
		// never reported as "valid but expired".
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
	if c.accessTTL <= 0 {
		c.accessTTL = defaultAccessTTL
	}
	if c.refreshTTL <= 0 {
		c.refreshTTL = defaultRefreshTTL
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Codec) lifetime(kind Kind) (time.Duration, error) {
	switch kind {
	case KindAccess:
		return c.accessTTL, nil
	case KindRefresh:
		return c.refreshTTL, nil
	case KindTemp:
		return TempTTL, nil
	default:
		return 0, fmt.Errorf("token: unknown kind %d", int(kind))
	}
}

// Issue signs a new token of the given kind for user.
func (c *Codec) Issue(user *domain.User, kind Kind) (string, error) {
	ttl, err := c.lifetime(kind)
	if err != nil {
		return "", err
	}

	now := c.now()
	cl := claims{
		Kind:  kind.String(),
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if kind == KindTemp {
		cl.Temp = true
		cl.Role = string(domain.RoleTempUser)
	} else {
		cl.CountryCode = user.CountryCode
		cl.PhoneNumber = user.PhoneNumber
		cl.Role = string(user.Role)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Decode verifies the signature and structure of raw. It does not check
// expiry; see Validate.
func (c *Codec) Decode(raw string) (*Token, error) {
	var cl claims
	if _, err := c.parser.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}); err != nil {
		return nil, domain.ErrMalformedToken
	}

	kind, ok := parseKind(cl.Kind)
	if !ok {
		return nil, domain.ErrMalformedToken
	}
	// A temp claim without the temp kind, or the reverse, is not something
	// this codec issues.
	if cl.Temp != (kind == KindTemp) {
		return nil, domain.ErrMalformedToken
	}
	if cl.ExpiresAt == nil || cl.IssuedAt == nil {
		return nil, domain.ErrMalformedToken
	}
	userID, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return nil, domain.ErrMalformedToken
	}

	return &Token{
		ID:          cl.ID,
		Kind:        kind,
		Subject:     cl.Subject,
		UserID:      userID,
		Email:       cl.Email,
		Name:        cl.Name,
		CountryCode: cl.CountryCode,
		PhoneNumber: cl.PhoneNumber,
		Role:        cl.Role,
		IssuedAt:    cl.IssuedAt.Time,
		ExpiresAt:   cl.ExpiresAt.Time,
	}, nil
}

// Validate decodes raw and rejects it if it has expired.
func (c *Codec) Validate(raw string) (*Token, error) {
	t, err := c.Decode(raw)
	if err != nil {
		return nil, err
	}
	if t.Expired(c.now()) {
		return nil, domain.ErrTokenExpired
	}
	return t, nil
}

// IsExpired reports true for expired tokens and for tokens that fail to
// decode.
func (c *Codec) IsExpired(raw string) bool {
	t, err := c.Decode(raw)
	if err != nil {
		return true
	}
	return t.Expired(c.now())
}

// IsTemporary reports whether raw is a verified temp token. Decode failures
// yield false.
func (c *Codec) IsTemporary(raw string) bool {
	t, err := c.Decode(raw)
	if err != nil {
		return false
	}
	return t.IsTemporary()
}
