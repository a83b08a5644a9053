package repositories

import (
	"context"
	"database/sql"

	"github.com/LovationAdmin/birthday-api/models"
)

type userRepository struct {
	q querier
}

const userColumns = `id, email, password_hash, company_name, first_name, last_name,
	is_active, totp_secret, totp_enabled, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var firstName, lastName, totpSecret sql.NullString
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.CompanyName,
		&firstName,
		&lastName,
		&u.IsActive,
		&totpSecret,
		&u.TOTPEnabled,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	u.FirstName = firstName.String
	u.LastName = lastName.String
	u.TOTPSecret = totpSecret.String
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, company_name, first_name, last_name,
		                   is_active, totp_secret, totp_enabled, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, NULLIF($8, ''), $9, $10, $11)
	`, u.ID, u.Email, u.PasswordHash, u.CompanyName, u.FirstName, u.LastName,
		u.IsActive, u.TOTPSecret, u.TOTPEnabled, u.CreatedAt, u.UpdatedAt)
	return translate(err)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(r.q.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *userRepository) Update(ctx context.Context, u *models.User) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE users
		SET password_hash = $2, company_name = $3, first_name = NULLIF($4, ''), last_name = NULLIF($5, ''),
		    is_active = $6, totp_secret = NULLIF($7, ''), totp_enabled = $8, updated_at = $9
		WHERE id = $1
	`, u.ID, u.PasswordHash, u.CompanyName, u.FirstName, u.LastName,
		u.IsActive, u.TOTPSecret, u.TOTPEnabled, u.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

// Delete removes the user; templates, invitations and guests cascade.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}
