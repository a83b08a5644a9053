package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/google/uuid"
)

// RSVPNotifier is told about every committed RSVP that carries an email.
type RSVPNotifier interface {
	SendRSVPConfirmation(ctx context.Context, invitation models.Invitation, guest models.Guest) error
}

// RSVPBroadcaster pushes committed RSVPs to live listeners.
type RSVPBroadcaster interface {
	BroadcastRSVP(invitationID string, guest models.Guest, stats models.RSVPStats)
}

type RSVPResult struct {
	Guest   models.Guest
	Stats   models.RSVPStats
	Created bool
}

type RSVPService struct {
	store       repositories.Store
	notifier    RSVPNotifier
	broadcaster RSVPBroadcaster
	now         func() time.Time
}

// NewRSVPService builds the reconciler. notifier and broadcaster may be nil.
func NewRSVPService(store repositories.Store, notifier RSVPNotifier, broadcaster RSVPBroadcaster) *RSVPService {
	return &RSVPService{
		store:       store,
		notifier:    notifier,
		broadcaster: broadcaster,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit records one RSVP for the published invitation identified by code.
// Unknown and unpublished codes are reported before the body is validated.
// An existing guest matched by email, then by phone, is updated in place;
// otherwise a new guest is created. The write and the stats read share one
// transaction.
func (s *RSVPService) Submit(ctx context.Context, code string, req models.RSVPRequest) (*RSVPResult, error) {
	req = normalizeRSVP(req)

	var (
		result     RSVPResult
		invitation *models.Invitation
	)
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		inv, err := publishedInvitation(ctx, tx, code)
		if err != nil {
			return err
		}
		invitation = inv

		if err := utils.V.Struct(req); err != nil {
			return &ValidationError{Message: utils.ValidationMessage(err)}
		}

		existing, err := matchGuest(ctx, tx, inv.ID, req.GuestEmail, req.GuestPhone)
		if err != nil {
			return err
		}

		now := s.now()
		if existing != nil {
			existing.Name = req.GuestName
			existing.RSVPStatus = req.RSVPStatus
			existing.RSVPDate = &now
			existing.NumberOfGuests = req.PartySize()
			existing.DietaryRestrictions = req.DietaryRestrictions
			existing.Notes = req.Notes
			existing.UpdatedAt = now
			if err := tx.Guests().Update(ctx, existing); err != nil {
				return storeErr("update guest", err)
			}
			result.Guest = *existing
		} else {
			guest := models.Guest{
				ID:                  uuid.NewString(),
				InvitationID:        inv.ID,
				Name:                req.GuestName,
				Email:               optional(req.GuestEmail),
				Phone:               optional(req.GuestPhone),
				RSVPStatus:          req.RSVPStatus,
				RSVPDate:            &now,
				NumberOfGuests:      req.PartySize(),
				DietaryRestrictions: req.DietaryRestrictions,
				Notes:               req.Notes,
				CreatedAt:           now,
				UpdatedAt:           now,
			}
			if err := tx.Guests().Create(ctx, &guest); err != nil {
				return storeErr("create guest", err)
			}
			result.Guest = guest
			result.Created = true
		}

		stats, err := InvitationStats(ctx, tx, inv.ID)
		if err != nil {
			return err
		}
		result.Stats = stats
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPersistence) || errors.Is(err, ErrConflict) {
			slog.Error("rsvp rolled back", "code", utils.MaskString(code), "err", err)
		}
		return nil, err
	}

	action := "updated"
	if result.Created {
		action = "created"
	}
	utils.LogRSVP(action, invitation.ID, result.Guest.ID, req.GuestEmail, req.GuestPhone, string(req.RSVPStatus))

	if s.broadcaster != nil {
		s.broadcaster.BroadcastRSVP(invitation.ID, result.Guest, result.Stats)
	}
	if s.notifier != nil && result.Guest.Email != nil {
		if err := s.notifier.SendRSVPConfirmation(ctx, *invitation, result.Guest); err != nil {
			slog.Warn("rsvp confirmation email failed", "guest", utils.MaskID(result.Guest.ID), "err", err)
		}
	}

	return &result, nil
}

// Accepting returns ErrNotFound unless code names a published invitation.
func (s *RSVPService) Accepting(ctx context.Context, code string) error {
	_, err := publishedInvitation(ctx, s.store, code)
	return err
}

// publishedInvitation resolves a sharing code. Unknown and unpublished
// invitations are indistinguishable to the caller.
func publishedInvitation(ctx context.Context, store repositories.Store, code string) (*models.Invitation, error) {
	if code == "" {
		return nil, ErrNotFound
	}
	inv, err := store.Invitations().GetByCode(ctx, code)
	if err != nil {
		return nil, storeErr("get invitation", err)
	}
	if !inv.IsPublished {
		return nil, ErrNotFound
	}
	return inv, nil
}

func matchGuest(ctx context.Context, store repositories.Store, invitationID, email, phone string) (*models.Guest, error) {
	if email != "" {
		g, err := store.Guests().FindByEmail(ctx, invitationID, email)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, storeErr("find guest by email", err)
		}
	}
	if phone != "" {
		g, err := store.Guests().FindByPhone(ctx, invitationID, phone)
		if err == nil {
			return g, nil
		}
		if !errors.Is(err, repositories.ErrNotFound) {
			return nil, storeErr("find guest by phone", err)
		}
	}
	return nil, nil
}

func normalizeRSVP(req models.RSVPRequest) models.RSVPRequest {
	req.GuestName = strings.TrimSpace(req.GuestName)
	req.GuestEmail = strings.TrimSpace(req.GuestEmail)
	req.GuestPhone = strings.TrimSpace(req.GuestPhone)
	return req
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
