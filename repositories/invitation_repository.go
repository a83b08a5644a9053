package repositories

import (
	"context"

	"github.com/LovationAdmin/birthday-api/models"
)

type invitationRepository struct {
	q querier
}

const invitationColumns = `id, user_id, template_id, birthday_name, birthday_date, birthday_age,
	event_title, event_date, event_time, event_location, event_address,
	organizer_name, organizer_phone, organizer_email, dress_code, rsvp_deadline, special_notes,
	template_key, hero_image_url, image_1_url, image_2_url, video_url,
	unique_code, share_url, is_active, is_published, created_at, updated_at`

func scanInvitation(row rowScanner) (*models.Invitation, error) {
	var inv models.Invitation
	err := row.Scan(
		&inv.ID,
		&inv.UserID,
		&inv.TemplateID,
		&inv.BirthdayName,
		&inv.BirthdayDate,
		&inv.BirthdayAge,
		&inv.EventTitle,
		&inv.EventDate,
		&inv.EventTime,
		&inv.EventLocation,
		&inv.EventAddress,
		&inv.OrganizerName,
		&inv.OrganizerPhone,
		&inv.OrganizerEmail,
		&inv.DressCode,
		&inv.RSVPDeadline,
		&inv.SpecialNotes,
		&inv.TemplateKey,
		&inv.HeroImageURL,
		&inv.Image1URL,
		&inv.Image2URL,
		&inv.VideoURL,
		&inv.UniqueCode,
		&inv.ShareURL,
		&inv.IsActive,
		&inv.IsPublished,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &inv, nil
}

func (r *invitationRepository) Create(ctx context.Context, inv *models.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (`+invitationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
		        $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28)
	`, inv.ID, inv.UserID, inv.TemplateID, inv.BirthdayName, inv.BirthdayDate, inv.BirthdayAge,
		inv.EventTitle, inv.EventDate, inv.EventTime, inv.EventLocation, inv.EventAddress,
		inv.OrganizerName, inv.OrganizerPhone, inv.OrganizerEmail, inv.DressCode, inv.RSVPDeadline, inv.SpecialNotes,
		inv.TemplateKey, inv.HeroImageURL, inv.Image1URL, inv.Image2URL, inv.VideoURL,
		inv.UniqueCode, inv.ShareURL, inv.IsActive, inv.IsPublished, inv.CreatedAt, inv.UpdatedAt)
	return translate(err)
}

func (r *invitationRepository) GetByID(ctx context.Context, id string) (*models.Invitation, error) {
	return scanInvitation(r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE id = $1`, id))
}

func (r *invitationRepository) GetByCode(ctx context.Context, code string) (*models.Invitation, error) {
	return scanInvitation(r.q.QueryRowContext(ctx, `SELECT `+invitationColumns+` FROM invitations WHERE unique_code = $1`, code))
}

func (r *invitationRepository) ListByOwner(ctx context.Context, ownerID string, page Page) ([]models.Invitation, error) {
	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE user_id = $1 ORDER BY created_at DESC, id`
	args := []any{ownerID}
	if page.Limit > 0 {
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, page.Limit, page.Offset)
	}

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, *inv)
	}
	return invitations, rows.Err()
}

func (r *invitationRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitations WHERE user_id = $1`, ownerID).Scan(&n)
	return n, translate(err)
}

func (r *invitationRepository) CountByTemplate(ctx context.Context, templateID string) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM invitations WHERE template_id = $1`, templateID).Scan(&n)
	return n, translate(err)
}

// Update writes every mutable column. unique_code and user_id are never rewritten.
func (r *invitationRepository) Update(ctx context.Context, inv *models.Invitation) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET template_id = $2, birthday_name = $3, birthday_date = $4, birthday_age = $5,
		    event_title = $6, event_date = $7, event_time = $8, event_location = $9, event_address = $10,
		    organizer_name = $11, organizer_phone = $12, organizer_email = $13, dress_code = $14,
		    rsvp_deadline = $15, special_notes = $16, template_key = $17, hero_image_url = $18,
		    image_1_url = $19, image_2_url = $20, video_url = $21, is_active = $22, is_published = $23,
		    updated_at = $24
		WHERE id = $1
	`, inv.ID, inv.TemplateID, inv.BirthdayName, inv.BirthdayDate, inv.BirthdayAge,
		inv.EventTitle, inv.EventDate, inv.EventTime, inv.EventLocation, inv.EventAddress,
		inv.OrganizerName, inv.OrganizerPhone, inv.OrganizerEmail, inv.DressCode,
		inv.RSVPDeadline, inv.SpecialNotes, inv.TemplateKey, inv.HeroImageURL,
		inv.Image1URL, inv.Image2URL, inv.VideoURL, inv.IsActive, inv.IsPublished,
		inv.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

// Delete removes the invitation; its guests cascade.
func (r *invitationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM invitations WHERE id = $1`, id)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}
