package repository

import (
	"context"
	"database/sql"
	"fmt"

	"taskhub/internal/models"
	"taskhub/pkg/crypto"
)

// UserRepository stores accounts. Phone numbers are encrypted at rest.
type UserRepository struct {
	db     *sql.DB
	encKey string
}

func NewUserRepository(db *sql.DB, encKey string) *UserRepository {
	return &UserRepository{db: db, encKey: encKey}
}

const userColumns = "id, email, role, bio, avatar, phone_number, location, created_at, updated_at"

func (r *UserRepository) Create(ctx context.Context, email, passwordHash, role string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password, role) VALUES ($1, $2, $3) RETURNING "+userColumns,
		email, passwordHash, role,
	)
	u, err := r.scanUser(row)
	if err != nil {
		return nil, translate("create user", err)
	}
	return u, nil
}

// GetByEmail returns the user together with its password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, string, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+", password FROM users WHERE email = $1", email)

	var hash string
	u, err := r.scanUser(row, &hash)
	if err != nil {
		return nil, "", translate("get user by email", err)
	}
	return u, hash, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	u, err := r.scanUser(row)
	if err != nil {
		return nil, translate("get user", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, email FROM users ORDER BY id")
	if err != nil {
		return nil, translate("list users", err)
	}
	// .Close() digunakan untuk menutup koneksi setelah selesai digunakan
	defer rows.Close()

	users := []models.UserSummary{}
	for rows.Next() {
		var u models.UserSummary
		if err := rows.Scan(&u.ID, &u.Email); err != nil {
			return nil, translate("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("iterate users", err)
	}
	return users, nil
}

// UpdateProfile overwrites the non-nil profile fields.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int, p models.Profile) (*models.User, error) {
	var phone *string
	if p.PhoneNumber != nil {
		enc, err := crypto.Encrypt(*p.PhoneNumber, r.encKey)
		if err != nil {
			return nil, fmt.Errorf("encrypt phone number: %w", err)
		}
		phone = &enc
	}

	row := r.db.QueryRowContext(ctx, `
		UPDATE users
		SET bio = COALESCE($1, bio),
			avatar = COALESCE($2, avatar),
			phone_number = COALESCE($3, phone_number),
			location = COALESCE($4, location),
			updated_at = NOW()
		WHERE id = $5
		RETURNING `+userColumns,
		p.Bio, p.Avatar, phone, p.Location, id,
	)
	u, err := r.scanUser(row)
	if err != nil {
		return nil, translate("update profile", err)
	}
	return u, nil
}

func (r *UserRepository) scanUser(row *sql.Row, extra ...any) (*models.User, error) {
	var u models.User
	var bio, avatar, phone, location sql.NullString
	dest := []any{&u.ID, &u.Email, &u.Role, &bio, &avatar, &phone, &location, &u.CreatedAt, &u.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	u.Bio = nullString(bio)
	u.Avatar = nullString(avatar)
	u.Location = nullString(location)
	if phone.Valid {
		plain, err := crypto.Decrypt(phone.String, r.encKey)
		if err != nil {
			return nil, fmt.Errorf("decrypt phone number: %w", err)
		}
		u.PhoneNumber = &plain
	}
	return &u, nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
