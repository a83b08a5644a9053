package repositories

import (
	"context"

	"github.com/LovationAdmin/birthday-api/models"
)

type guestRepository struct {
	q querier
}

const guestColumns = `id, invitation_id, name, email, phone, rsvp_status, rsvp_date,
	number_of_guests, dietary_restrictions, notes, created_at, updated_at`

func scanGuest(row rowScanner) (*models.Guest, error) {
	var g models.Guest
	err := row.Scan(
		&g.ID,
		&g.InvitationID,
		&g.Name,
		&g.Email,
		&g.Phone,
		&g.RSVPStatus,
		&g.RSVPDate,
		&g.NumberOfGuests,
		&g.DietaryRestrictions,
		&g.Notes,
		&g.CreatedAt,
		&g.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return &g, nil
}

func (r *guestRepository) Create(ctx context.Context, g *models.Guest) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO guests (`+guestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, g.ID, g.InvitationID, g.Name, g.Email, g.Phone, string(g.RSVPStatus), g.RSVPDate,
		g.NumberOfGuests, g.DietaryRestrictions, g.Notes, g.CreatedAt, g.UpdatedAt)
	return translate(err)
}

// Update overwrites the response fields. Email and phone are identity keys and stay as stored.
func (r *guestRepository) Update(ctx context.Context, g *models.Guest) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE guests
		SET name = $2, rsvp_status = $3, rsvp_date = $4, number_of_guests = $5,
		    dietary_restrictions = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`, g.ID, g.Name, string(g.RSVPStatus), g.RSVPDate, g.NumberOfGuests,
		g.DietaryRestrictions, g.Notes, g.UpdatedAt)
	if err != nil {
		return translate(err)
	}
	return expectAffected(res)
}

func (r *guestRepository) FindByEmail(ctx context.Context, invitationID, email string) (*models.Guest, error) {
	return scanGuest(r.q.QueryRowContext(ctx, `
		SELECT `+guestColumns+` FROM guests
		WHERE invitation_id = $1 AND email = $2
		ORDER BY created_at, id
		LIMIT 1
	`, invitationID, email))
}

func (r *guestRepository) FindByPhone(ctx context.Context, invitationID, phone string) (*models.Guest, error) {
	return scanGuest(r.q.QueryRowContext(ctx, `
		SELECT `+guestColumns+` FROM guests
		WHERE invitation_id = $1 AND phone = $2
		ORDER BY created_at, id
		LIMIT 1
	`, invitationID, phone))
}

func (r *guestRepository) ListByInvitation(ctx context.Context, invitationID string) ([]models.Guest, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+guestColumns+` FROM guests
		WHERE invitation_id = $1
		ORDER BY created_at, id
	`, invitationID)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	guests := []models.Guest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		guests = append(guests, *g)
	}
	return guests, rows.Err()
}
