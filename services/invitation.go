package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/google/uuid"
)

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

// dateLayouts are tried in order when parsing ISO-8601 dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

type InvitationService struct {
	store repositories.Store
	now   func() time.Time
}

func NewInvitationService(store repositories.Store) *InvitationService {
	return &InvitationService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *InvitationService) Create(ctx context.Context, ownerID string, req models.CreateInvitationRequest) (*models.Invitation, error) {
	req.BirthdayName = strings.TrimSpace(req.BirthdayName)
	req.EventTitle = strings.TrimSpace(req.EventTitle)
	if err := utils.V.Struct(req); err != nil {
		return nil, &ValidationError{Message: utils.ValidationMessage(err)}
	}

	birthdayDate, err := parseDate("birthday_date", req.BirthdayDate)
	if err != nil {
		return nil, err
	}
	eventDate, err := parseDate("event_date", req.EventDate)
	if err != nil {
		return nil, err
	}
	deadline, err := parseOptionalDate("rsvp_deadline", req.RSVPDeadline)
	if err != nil {
		return nil, err
	}

	code, err := utils.GenerateUniqueCode()
	if err != nil {
		return nil, err
	}

	now := s.now()
	inv := models.Invitation{
		ID:             uuid.NewString(),
		UserID:         ownerID,
		BirthdayName:   req.BirthdayName,
		BirthdayDate:   birthdayDate,
		BirthdayAge:    req.BirthdayAge,
		EventTitle:     req.EventTitle,
		EventDate:      eventDate,
		EventTime:      req.EventTime,
		EventLocation:  req.EventLocation,
		EventAddress:   req.EventAddress,
		OrganizerName:  req.OrganizerName,
		OrganizerPhone: req.OrganizerPhone,
		OrganizerEmail: req.OrganizerEmail,
		DressCode:      req.DressCode,
		RSVPDeadline:   deadline,
		SpecialNotes:   req.SpecialNotes,
		TemplateKey:    models.DefaultTemplateKey,
		HeroImageURL:   req.HeroImageURL,
		Image1URL:      req.Image1URL,
		Image2URL:      req.Image2URL,
		VideoURL:       req.VideoURL,
		UniqueCode:     code,
		ShareURL:       utils.ShareURL(code),
		IsActive:       true,
		IsPublished:    false,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if req.TemplateKey != nil && *req.TemplateKey != "" {
		inv.TemplateKey = *req.TemplateKey
	}

	err = s.store.Transaction(ctx, func(tx repositories.Store) error {
		if err := s.setTemplate(ctx, tx, &inv, ownerID, req.TemplateID); err != nil {
			return err
		}
		if err := tx.Invitations().Create(ctx, &inv); err != nil {
			return storeErr("create invitation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &inv, nil
}

// List returns one page of the owner's invitations, newest first.
func (s *InvitationService) List(ctx context.Context, ownerID string, page, perPage int) (*models.InvitationListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	total, err := s.store.Invitations().CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("count invitations", err)
	}

	items, err := s.store.Invitations().ListByOwner(ctx, ownerID, repositories.Page{
		Limit:  perPage,
		Offset: (page - 1) * perPage,
	})
	if err != nil {
		return nil, storeErr("list invitations", err)
	}

	for i := range items {
		if err := s.decorate(ctx, s.store, &items[i]); err != nil {
			return nil, err
		}
	}

	return &models.InvitationListResponse{
		Invitations: items,
		Total:       total,
		Pages:       (total + perPage - 1) / perPage,
		CurrentPage: page,
	}, nil
}

func (s *InvitationService) Get(ctx context.Context, ownerID, id string) (*models.Invitation, error) {
	inv, err := ownedInvitation(ctx, s.store, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(ctx, s.store, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Update applies the typed partial update. The sharing code, owner and
// publication flag are never touched here.
func (s *InvitationService) Update(ctx context.Context, ownerID, id string, req models.UpdateInvitationRequest) (*models.Invitation, error) {
	if err := utils.V.Struct(req); err != nil {
		return nil, &ValidationError{Message: utils.ValidationMessage(err)}
	}

	var updated *models.Invitation
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		inv, err := ownedInvitation(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}

		if err := applyInvitationUpdate(inv, req); err != nil {
			return err
		}
		if req.TemplateID != nil {
			if err := s.setTemplate(ctx, tx, inv, ownerID, req.TemplateID); err != nil {
				return err
			}
		}
		inv.UpdatedAt = s.now()

		if err := tx.Invitations().Update(ctx, inv); err != nil {
			return storeErr("update invitation", err)
		}
		if err := s.decorate(ctx, tx, inv); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the invitation and, by cascade, its guests.
func (s *InvitationService) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		inv, err := ownedInvitation(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		return storeErr("delete invitation", tx.Invitations().Delete(ctx, inv.ID))
	})
}

// Publish moves a draft to published. Publishing twice is a no-op.
func (s *InvitationService) Publish(ctx context.Context, ownerID, id string) (*models.Invitation, error) {
	var published *models.Invitation
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		inv, err := ownedInvitation(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		if !inv.IsPublished {
			inv.IsPublished = true
			inv.UpdatedAt = s.now()
			if err := tx.Invitations().Update(ctx, inv); err != nil {
				return storeErr("publish invitation", err)
			}
		}
		if err := s.decorate(ctx, tx, inv); err != nil {
			return err
		}
		published = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return published, nil
}

func (s *InvitationService) decorate(ctx context.Context, store repositories.Store, inv *models.Invitation) error {
	stats, err := InvitationStats(ctx, store, inv.ID)
	if err != nil {
		return err
	}
	inv.RSVPStats = stats
	return attachTemplate(ctx, store, inv)
}

// setTemplate points inv at templateID after checking the caller owns it.
// An empty id clears the reference.
func (s *InvitationService) setTemplate(ctx context.Context, store repositories.Store, inv *models.Invitation, ownerID string, templateID *string) error {
	if templateID == nil || *templateID == "" {
		inv.TemplateID = nil
		return nil
	}
	tpl, err := ownedTemplate(ctx, store, ownerID, *templateID)
	if errors.Is(err, ErrNotFound) {
		return validationf("template_id does not reference one of your templates")
	}
	if err != nil {
		return err
	}
	inv.TemplateID = &tpl.ID
	return nil
}

// ownedInvitation loads an invitation and hides it from anyone but its owner.
func ownedInvitation(ctx context.Context, store repositories.Store, ownerID, id string) (*models.Invitation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	inv, err := store.Invitations().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get invitation", err)
	}
	if inv.UserID != ownerID {
		return nil, ErrNotFound
	}
	return inv, nil
}

func applyInvitationUpdate(inv *models.Invitation, req models.UpdateInvitationRequest) error {
	if req.BirthdayName != nil {
		name := strings.TrimSpace(*req.BirthdayName)
		if name == "" {
			return validationf("birthday_name cannot be empty")
		}
		inv.BirthdayName = name
	}
	if req.EventTitle != nil {
		title := strings.TrimSpace(*req.EventTitle)
		if title == "" {
			return validationf("event_title cannot be empty")
		}
		inv.EventTitle = title
	}
	if req.BirthdayDate != nil {
		d, err := parseDate("birthday_date", *req.BirthdayDate)
		if err != nil {
			return err
		}
		inv.BirthdayDate = d
	}
	if req.EventDate != nil {
		d, err := parseDate("event_date", *req.EventDate)
		if err != nil {
			return err
		}
		inv.EventDate = d
	}
	if req.RSVPDeadline != nil {
		d, err := parseOptionalDate("rsvp_deadline", req.RSVPDeadline)
		if err != nil {
			return err
		}
		inv.RSVPDeadline = d
	}
	if req.BirthdayAge != nil {
		inv.BirthdayAge = req.BirthdayAge
	}
	if req.EventTime != nil {
		inv.EventTime = req.EventTime
	}
	if req.EventLocation != nil {
		inv.EventLocation = req.EventLocation
	}
	if req.EventAddress != nil {
		inv.EventAddress = req.EventAddress
	}
	if req.OrganizerName != nil {
		inv.OrganizerName = req.OrganizerName
	}
	if req.OrganizerPhone != nil {
		inv.OrganizerPhone = req.OrganizerPhone
	}
	if req.OrganizerEmail != nil {
		inv.OrganizerEmail = req.OrganizerEmail
	}
	if req.DressCode != nil {
		inv.DressCode = req.DressCode
	}
	if req.SpecialNotes != nil {
		inv.SpecialNotes = req.SpecialNotes
	}
	if req.TemplateKey != nil {
		inv.TemplateKey = *req.TemplateKey
	}
	if req.HeroImageURL != nil {
		inv.HeroImageURL = req.HeroImageURL
	}
	if req.Image1URL != nil {
		inv.Image1URL = req.Image1URL
	}
	if req.Image2URL != nil {
		inv.Image2URL = req.Image2URL
	}
	if req.VideoURL != nil {
		inv.VideoURL = req.VideoURL
	}
	if req.IsActive != nil {
		inv.IsActive = *req.IsActive
	}
	return nil
}

func parseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationf("%s: invalid date format %q", field, value)
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
