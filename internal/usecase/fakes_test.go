package usecase_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/oauth"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/password"
	"github.com/ErlanBelekov/vitaltrip-auth/internal/token"
	"golang.org/x/crypto/bcrypt"
)

// ---- fakes ----

// fakeUserRepo is an in-memory UserRepository. The err* hooks, when set,
// replace the corresponding call's result.
type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]*domain.User
	writes int

	errFindByEmail func(email string) error
	errUpdate      func(id int64) error
}

func newFakeUserRepo(seed ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*domain.User)}
	for _, u := range seed {
		cp := *u
		if cp.ID > r.nextID {
			r.nextID = cp.ID
		}
		r.users[cp.ID] = &cp
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return nil, domain.ErrDuplicateEmail
		}
	}
	r.nextID++
	cp := *u
	cp.ID = r.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	r.users[cp.ID] = &cp
	r.writes++
	out := cp
	return &out, nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if r.errFindByEmail != nil {
		if err := r.errFindByEmail(email); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	if r.errUpdate != nil {
		if err := r.errUpdate(id); err != nil {
			return err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.Provider != domain.ProviderLocal {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	r.writes++
	return nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id int64, p domain.Profile) (*domain.User, error) {
	if r.errUpdate != nil {
		if err := r.errUpdate(id); err != nil {
			return nil, err
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	applyProfile(u, p)
	r.writes++
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) UpdateProfileImage(_ context.Context, id int64, url string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.ProfileImageURL = url
	r.writes++
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

func (r *fakeUserRepo) writeCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.writes
}

func (r *fakeUserRepo) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
}

// countingHasher records Verify calls around a real bcrypt hasher.
type countingHasher struct {
	inner    *password.BcryptHasher
	verifies int
}

func newHasher() *countingHasher {
	return &countingHasher{inner: password.NewBcryptHasher(bcrypt.MinCost)}
}

func (h *countingHasher) Hash(plain string) (string, error) { return h.inner.Hash(plain) }

func (h *countingHasher) Verify(hash, plain string) bool {
	h.verifies++
	return h.inner.Verify(hash, plain)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
	sent []string
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	s.sent = append(s.sent, to)
	if s.send == nil {
		return nil
	}
	return s.send(ctx, to, subject, body)
}

type fakeProvider struct {
	authCodeURL     func(state string) string
	fetchAttributes func(ctx context.Context, code string) (*oauth.Attributes, error)
}

func (p *fakeProvider) AuthCodeURL(state string) string {
	return p.authCodeURL(state)
}

func (p *fakeProvider) FetchAttributes(ctx context.Context, code string) (*oauth.Attributes, error) {
	return p.fetchAttributes(ctx, code)
}

// ---- helpers ----

const testJWTKey = "test-jwt-secret-at-least-32-chars!!"

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *clock {
	return &clock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func newCodec(t *testing.T, c *clock) *token.Codec {
	t.Helper()
	codec, err := token.NewCodec(token.Config{Secret: []byte(testJWTKey)}, token.WithClock(c.now))
	if err != nil {
		t.Fatalf("new codec: %v", err)
	}
	return codec
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func hashOf(t *testing.T, plain string) string {
	t.Helper()
	h, err := password.NewBcryptHasher(bcrypt.MinCost).Hash(plain)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	return h
}

// applyProfile mirrors the store's unconditional overwrite of the four
// profile fields.
func applyProfile(u *domain.User, p domain.Profile) {
	u.Name = p.Name
	u.BirthDate = p.BirthDate
	u.CountryCode = p.CountryCode
	u.PhoneNumber = p.PhoneNumber
}
