package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTemplateFillsDefaults(t *testing.T) {
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")

	tpl, err := NewTemplateService(store).Create(context.Background(), owner.ID, models.CreateTemplateRequest{
		Name:         "Princesas",
		PrimaryColor: ptr("#AA00CC"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, tpl.ID)
	assert.Equal(t, models.DefaultTemplateTitle, tpl.Title)
	assert.Equal(t, models.DefaultTemplateSubtitle, tpl.Subtitle)
	assert.Equal(t, "#AA00CC", tpl.PrimaryColor)
	assert.Equal(t, models.DefaultSecondaryColor, tpl.SecondaryColor)
	assert.True(t, tpl.IsActive)
}

func TestCreateTemplateRejectsBadColor(t *testing.T) {
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")

	_, err := NewTemplateService(store).Create(context.Background(), owner.ID, models.CreateTemplateRequest{
		Name:      "Mal",
		TextColor: ptr("red"),
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestTemplateOwnership(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	stranger := newOwner(t, store, "stranger@example.com")
	svc := NewTemplateService(store)
	tpl, err := svc.Create(ctx, owner.ID, models.CreateTemplateRequest{Name: "Azul"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, stranger.ID, tpl.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Update(ctx, stranger.ID, tpl.ID, models.UpdateTemplateRequest{Name: ptr("Robado")})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, stranger.ID, tpl.ID), ErrNotFound)

	list, err := svc.List(ctx, stranger.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, list.Total)
}

func TestUpdateTemplate(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	svc := NewTemplateService(store)
	tpl, err := svc.Create(ctx, owner.ID, models.CreateTemplateRequest{Name: "Azul"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner.ID, tpl.ID, models.UpdateTemplateRequest{
		Name:      ptr("Azul marino"),
		IsDefault: ptr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "Azul marino", updated.Name)
	assert.True(t, updated.IsDefault)
	assert.Equal(t, tpl.PrimaryColor, updated.PrimaryColor)

	_, err = svc.Update(ctx, owner.ID, tpl.ID, models.UpdateTemplateRequest{Name: ptr("  ")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteTemplateInUseIsConflict(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	svc := NewTemplateService(store)
	tpl, err := svc.Create(ctx, owner.ID, models.CreateTemplateRequest{Name: "Azul"})
	require.NoError(t, err)

	invitations := NewInvitationService(store)
	inv, err := invitations.Create(ctx, owner.ID, models.CreateInvitationRequest{
		TemplateID:   &tpl.ID,
		BirthdayName: "Lucía",
		BirthdayDate: "2018-05-20",
		EventTitle:   "Fiesta",
		EventDate:    "2026-05-20",
	})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, owner.ID, tpl.ID), ErrConflict)

	_, err = invitations.Update(ctx, owner.ID, inv.ID, models.UpdateInvitationRequest{TemplateID: ptr("")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner.ID, tpl.ID))
	_, err = svc.Get(ctx, owner.ID, tpl.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
