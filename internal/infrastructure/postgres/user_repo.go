package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/vitaltrip-auth/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, name, password_hash, provider, provider_id, birth_date,
	country_code, phone_number, profile_image_url, role, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (
			email, name, password_hash, provider, provider_id, birth_date,
			country_code, phone_number, profile_image_url, role
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query,
		u.Email,
		u.Name,
		nullable(u.PasswordHash),
		u.Provider,
		nullable(u.ProviderID),
		u.BirthDate,
		nullable(u.CountryCode),
		nullable(u.PhoneNumber),
		nullable(u.ProfileImageURL),
		u.Role,
	)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return scanUser(row)
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE lower(email) = lower($1))`, email,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by email: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND provider = 'LOCAL'`, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, p domain.Profile) (*domain.User, error) {
	query := `
		UPDATE users
		SET    name         = $2,
		       birth_date   = $3,
		       country_code = $4,
		       phone_number = $5,
		       updated_at   = NOW()
		WHERE  id = $1
		RETURNING ` + userColumns

	row := r.pool.QueryRow(ctx, query, id, p.Name, p.BirthDate, nullable(p.CountryCode), nullable(p.PhoneNumber))
	return scanUser(row)
}

func (r *UserRepository) UpdateProfileImage(ctx context.Context, id int64, url string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET profile_image_url = $2, updated_at = NOW() WHERE id = $1`,
		id, nullable(url))
	if err != nil {
		return fmt.Errorf("update profile image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var passwordHash, providerID, country, phone, img *string
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&passwordHash,
		&u.Provider,
		&providerID,
		&u.BirthDate,
		&country,
		&phone,
		&img,
		&u.Role,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	u.PasswordHash = deref(passwordHash)
	u.ProviderID = deref(providerID)
	u.CountryCode = deref(country)
	u.PhoneNumber = deref(phone)
	u.ProfileImageURL = deref(img)
	return &u, nil
}

// nullable maps "" to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
