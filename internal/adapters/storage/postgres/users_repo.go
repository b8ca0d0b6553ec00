package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"smartmilk/internal/domain/users"
)

const userColumns = `id, name, email, password_hash, google_id, avatar, created_at, updated_at`

type UsersRepo struct {
	db *sql.DB
}

func NewUsersRepo(db *sql.DB) *UsersRepo {
	return &UsersRepo{db: db}
}

func (r *UsersRepo) Create(ctx context.Context, u users.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		u.ID,
		u.Name,
		u.Email,
		nullString(u.PasswordHash),
		nullString(u.GoogleID),
		nullString(u.AvatarURL),
		u.CreatedAt,
		u.UpdatedAt,
	)
	return err
}

func (r *UsersRepo) Update(ctx context.Context, u users.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET
			name = $2,
			email = $3,
			password_hash = $4,
			google_id = $5,
			avatar = $6,
			updated_at = $7
		WHERE id = $1
	`,
		u.ID,
		u.Name,
		u.Email,
		nullString(u.PasswordHash),
		nullString(u.GoogleID),
		nullString(u.AvatarURL),
		u.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return users.ErrNotFound
	}
	return nil
}

func (r *UsersRepo) GetByID(ctx context.Context, id string) (users.User, error) {
	return r.getOne(ctx, `id`, id)
}

func (r *UsersRepo) GetByEmail(ctx context.Context, email string) (users.User, error) {
	return r.getOne(ctx, `email`, email)
}

func (r *UsersRepo) GetByGoogleID(ctx context.Context, googleID string) (users.User, error) {
	return r.getOne(ctx, `google_id`, googleID)
}

// column es siempre un literal interno, nunca input del usuario.
func (r *UsersRepo) getOne(ctx context.Context, column, value string) (users.User, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return users.User{}, users.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+column+` = $1`, value)

	var u users.User
	var pass, google, avatar sql.NullString
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&pass,
		&google,
		&avatar,
		&u.CreatedAt,
		&u.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return users.User{}, users.ErrNotFound
		}
		return users.User{}, err
	}
	u.PasswordHash = pass.String
	u.GoogleID = google.String
	u.AvatarURL = avatar.String
	return u, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
