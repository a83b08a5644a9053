package services

import (
	"context"
	"errors"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
)

// VisibilityService decides which guest data each caller may see. Owners see
// every record; the public sees accepted guests of published invitations.
type VisibilityService struct {
	store          repositories.Store
	redactContacts bool
}

func NewVisibilityService(store repositories.Store, redactContacts bool) *VisibilityService {
	return &VisibilityService{store: store, redactContacts: redactContacts}
}

// ListGuestsForOwner returns the full registration list. A caller who does
// not own the invitation gets ErrNotFound.
func (s *VisibilityService) ListGuestsForOwner(ctx context.Context, ownerID, invitationID string) (*models.OwnerGuestsResponse, error) {
	inv, err := ownedInvitation(ctx, s.store, ownerID, invitationID)
	if err != nil {
		return nil, err
	}

	guests, err := s.store.Guests().ListByInvitation(ctx, inv.ID)
	if err != nil {
		return nil, storeErr("list guests", err)
	}

	return &models.OwnerGuestsResponse{
		InvitationID: inv.ID,
		RSVPStats:    Aggregate(guests),
		Guests:       guests,
	}, nil
}

// ListGuestsPublic returns only accepted guests, with contact fields removed
// when redaction is configured.
func (s *VisibilityService) ListGuestsPublic(ctx context.Context, code string) (*models.PublicGuestsResponse, error) {
	inv, err := publishedInvitation(ctx, s.store, code)
	if err != nil {
		return nil, err
	}

	guests, err := s.store.Guests().ListByInvitation(ctx, inv.ID)
	if err != nil {
		return nil, storeErr("list guests", err)
	}

	confirmed := make([]models.Guest, 0, len(guests))
	for _, g := range guests {
		if g.RSVPStatus != models.RSVPAccepted {
			continue
		}
		if s.redactContacts {
			g = g.WithoutContact()
		}
		confirmed = append(confirmed, g)
	}

	return &models.PublicGuestsResponse{
		Guests:         confirmed,
		TotalConfirmed: len(confirmed),
	}, nil
}

// PublicInvitation returns the shareable view: invitation detail and stats,
// never the guest list.
func (s *VisibilityService) PublicInvitation(ctx context.Context, code string) (*models.PublicInvitationResponse, error) {
	inv, err := publishedInvitation(ctx, s.store, code)
	if err != nil {
		return nil, err
	}

	stats, err := InvitationStats(ctx, s.store, inv.ID)
	if err != nil {
		return nil, err
	}
	inv.RSVPStats = stats

	if err := attachTemplate(ctx, s.store, inv); err != nil {
		return nil, err
	}

	return &models.PublicInvitationResponse{Invitation: *inv, RSVPStats: stats}, nil
}

// attachTemplate loads the invitation's template. A dangling reference is
// treated as no template.
func attachTemplate(ctx context.Context, store repositories.Store, inv *models.Invitation) error {
	if inv.TemplateID == nil {
		return nil
	}
	tpl, err := store.Templates().GetByID(ctx, *inv.TemplateID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return storeErr("get template", err)
	}
	inv.Template = tpl
	return nil
}
