package repositories

import (
	"context"

	"github.com/LovationAdmin/birthday-api/models"
)

type templateRepository struct {
	q querier
}

const templateColumns = `id, user_id, name, description, title, subtitle, header_text, footer_text,
	primary_color, secondary_color, text_color, background_color, logo_url, background_image_url,
	is_active, is_default, created_at, updated_at`

func scanTemplate(row rowScanner) (*models.Template, error) {
	var t models.Template
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Name,
		&t.Description,
		&t.Title,
		&t.Subtitle,
		&t.HeaderText,
		&t.FooterText,
		&t.PrimaryColor,
		&t.SecondaryColor,
		&t.TextColor,
		&t.BackgroundColor,
		&t.LogoURL,
		&t.BackgroundImageURL,
		&t.IsActive,
		&t.IsDefault,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &t, nil
}

func (r *templateRepository) Create(ctx context.Context, t *models.Template) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO templates (`+templateColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`, t.ID, t.UserID, t.Name, t.Description, t.Title, t.Subtitle, t.HeaderText, t.FooterText,
		t.PrimaryColor, t.SecondaryColor, t.TextColor, t.BackgroundColor, t.LogoURL, t.BackgroundImageURL,
		t.IsActive, t.IsDefault, t.CreatedAt, t.UpdatedAt)
	return translate(err)
}

func (r *templateRepository) GetByID(ctx context.Context, id string) (*models.Template, error) {
	return scanTemplate(r.q.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id))
}

func (r *templateRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Template, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+templateColumns+` FROM templates
		WHERE user_id = $1
		ORDER BY created_at, id
	`, ownerID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

func (r *templateRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates WHERE user_id = $1`, ownerID).Scan(&n)
	return n, translate(err)
}

func (r *templateRepository) Update(ctx context.Context, t *models.Template) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE templates
		SET name = $2, description = $3, title = $4, subtitle = $5, header_text = $6, footer_text = $7,
		    primary_color = $8, secondary_color = $9, text_color = $10, background_color = $11,
		    logo_url = $12, background_image_url = $13, is_active = $14, is_default = $15, updated_at = $16
		WHERE id = $1
	`, t.ID, t.Name, t.Description, t.Title, t.Subtitle, t.HeaderText, t.FooterText,
		t.PrimaryColor, t.SecondaryColor, t.TextColor, t.BackgroundColor,
		t.LogoURL, t.BackgroundImageURL, t.IsActive, t.IsDefault, t.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

func (r *templateRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}
