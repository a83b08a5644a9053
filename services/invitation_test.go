package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/testutils"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvitation(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	svc := NewInvitationService(store)

	inv, err := svc.Create(ctx, owner.ID, models.CreateInvitationRequest{
		BirthdayName: "Lucía",
		BirthdayDate: "2018-05-20",
		BirthdayAge:  ptr(8),
		EventTitle:   "Cumpleaños de Lucía",
		EventDate:    "2026-05-20T17:00:00Z",
		RSVPDeadline: ptr("2026-05-10"),
	})
	require.NoError(t, err)

	assert.Equal(t, owner.ID, inv.UserID)
	assert.False(t, inv.IsPublished)
	assert.True(t, inv.IsActive)
	assert.Equal(t, models.DefaultTemplateKey, inv.TemplateKey)
	assert.Len(t, inv.UniqueCode, 22)
	assert.Equal(t, utils.ShareURL(inv.UniqueCode), inv.ShareURL)
	assert.Equal(t, 2026, inv.EventDate.Year())
	require.NotNil(t, inv.RSVPDeadline)
	assert.Equal(t, 10, inv.RSVPDeadline.Day())
}

func TestCreateInvitationValidation(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	svc := NewInvitationService(store)

	valid := models.CreateInvitationRequest{
		BirthdayName: "Lucía",
		BirthdayDate: "2018-05-20",
		EventTitle:   "Fiesta",
		EventDate:    "2026-05-20",
	}

	missing := valid
	missing.EventTitle = " "
	_, err := svc.Create(ctx, owner.ID, missing)
	assert.ErrorIs(t, err, ErrValidation)

	badDate := valid
	badDate.EventDate = "20/05/2026"
	_, err = svc.Create(ctx, owner.ID, badDate)
	assert.ErrorIs(t, err, ErrValidation)

	foreign := valid
	foreign.TemplateID = ptr("00000000-0000-0000-0000-000000000001")
	_, err = svc.Create(ctx, owner.ID, foreign)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateInvitationWithOwnTemplate(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	stranger := newOwner(t, store, "stranger@example.com")
	tpl, err := NewTemplateService(store).Create(ctx, owner.ID, models.CreateTemplateRequest{Name: "Rosa"})
	require.NoError(t, err)
	svc := NewInvitationService(store)

	req := models.CreateInvitationRequest{
		TemplateID:   &tpl.ID,
		BirthdayName: "Lucía",
		BirthdayDate: "2018-05-20",
		EventTitle:   "Fiesta",
		EventDate:    "2026-05-20",
	}

	inv, err := svc.Create(ctx, owner.ID, req)
	require.NoError(t, err)
	require.NotNil(t, inv.TemplateID)
	assert.Equal(t, tpl.ID, *inv.TemplateID)

	got, err := svc.Get(ctx, owner.ID, inv.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Template)
	assert.Equal(t, "Rosa", got.Template.Name)

	_, err = svc.Create(ctx, stranger.ID, req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestListInvitationsPaginates(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	other := newOwner(t, store, "other@example.com")
	for i := 0; i < 5; i++ {
		newInvitation(t, store, owner.ID, false)
	}
	newInvitation(t, store, other.ID, false)
	svc := NewInvitationService(store)

	first, err := svc.List(ctx, owner.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 3, first.Pages)
	assert.Equal(t, 1, first.CurrentPage)
	assert.Len(t, first.Invitations, 2)

	last, err := svc.List(ctx, owner.ID, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Invitations, 1)

	beyond, err := svc.List(ctx, owner.ID, 9, 2)
	require.NoError(t, err)
	assert.NotNil(t, beyond.Invitations)
	assert.Empty(t, beyond.Invitations)

	defaults, err := svc.List(ctx, owner.ID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, defaults.CurrentPage)
	assert.Len(t, defaults.Invitations, 5)
}

func TestUpdateInvitation(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	stranger := newOwner(t, store, "stranger@example.com")
	inv := newInvitation(t, store, owner.ID, false)
	svc := NewInvitationService(store)

	updated, err := svc.Update(ctx, owner.ID, inv.ID, models.UpdateInvitationRequest{
		EventTitle:    ptr("Gran fiesta"),
		EventLocation: ptr("Parque del Retiro"),
		EventDate:     ptr("2026-06-01"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Gran fiesta", updated.EventTitle)
	assert.Equal(t, "Parque del Retiro", *updated.EventLocation)
	assert.Equal(t, inv.UniqueCode, updated.UniqueCode)
	assert.Equal(t, inv.BirthdayName, updated.BirthdayName)
	assert.False(t, updated.IsPublished)

	_, err = svc.Update(ctx, owner.ID, inv.ID, models.UpdateInvitationRequest{EventDate: ptr("mañana")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Update(ctx, stranger.ID, inv.ID, models.UpdateInvitationRequest{EventTitle: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	stored, err := store.Invitations().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gran fiesta", stored.EventTitle)
}

func TestUpdateInvitationClearsDeadline(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	svc := NewInvitationService(store)
	inv, err := svc.Create(ctx, owner.ID, models.CreateInvitationRequest{
		BirthdayName: "Lucía",
		BirthdayDate: "2018-05-20",
		EventTitle:   "Fiesta",
		EventDate:    "2026-05-20",
		RSVPDeadline: ptr("2026-05-01"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner.ID, inv.ID, models.UpdateInvitationRequest{RSVPDeadline: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.RSVPDeadline)
}

func TestPublishIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	stranger := newOwner(t, store, "stranger@example.com")
	inv := newInvitation(t, store, owner.ID, false)
	svc := NewInvitationService(store)

	first, err := svc.Publish(ctx, owner.ID, inv.ID)
	require.NoError(t, err)
	assert.True(t, first.IsPublished)

	second, err := svc.Publish(ctx, owner.ID, inv.ID)
	require.NoError(t, err)
	assert.True(t, second.IsPublished)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
	assert.Equal(t, inv.UniqueCode, second.UniqueCode)

	_, err = svc.Publish(ctx, stranger.ID, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteInvitationCascadesGuests(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	keep := newInvitation(t, store, owner.ID, true)
	rsvps := NewRSVPService(store, nil, nil)
	_, err := rsvps.Submit(ctx, inv.UniqueCode, rsvp("Ana", "", "", models.RSVPAccepted))
	require.NoError(t, err)
	_, err = rsvps.Submit(ctx, keep.UniqueCode, rsvp("Bea", "", "", models.RSVPAccepted))
	require.NoError(t, err)
	svc := NewInvitationService(store)

	require.NoError(t, svc.Delete(ctx, owner.ID, inv.ID))

	_, err = svc.Get(ctx, owner.ID, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	guests := store.AllGuests()
	require.Len(t, guests, 1)
	assert.Equal(t, keep.ID, guests[0].InvitationID)

	assert.ErrorIs(t, svc.Delete(ctx, owner.ID, inv.ID), ErrNotFound)
}

func TestGetInvitationIncludesFreshStats(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	_, err := NewRSVPService(store, nil, nil).Submit(ctx, inv.UniqueCode, rsvp("Ana", "", "", models.RSVPTentative))
	require.NoError(t, err)

	got, err := NewInvitationService(store).Get(ctx, owner.ID, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RSVPStats{Tentative: 1, Total: 1}, got.RSVPStats)
}
