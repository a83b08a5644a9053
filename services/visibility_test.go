package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMixedGuests(t *testing.T, store *testutils.MemoryStore, code string) {
	t.Helper()
	svc := NewRSVPService(store, nil, nil)
	for _, req := range []models.RSVPRequest{
		rsvp("Ana", "ana@example.com", "+34600000001", models.RSVPAccepted),
		rsvp("Bea", "bea@example.com", "", models.RSVPDeclined),
		rsvp("Carmen", "", "+34600000003", models.RSVPTentative),
		rsvp("Dani", "dani@example.com", "", models.RSVPAccepted),
	} {
		_, err := svc.Submit(context.Background(), code, req)
		require.NoError(t, err)
	}
}

func TestListGuestsForOwner(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	stranger := newOwner(t, store, "stranger@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	seedMixedGuests(t, store, inv.UniqueCode)
	svc := NewVisibilityService(store, true)

	t.Run("owner sees every record with contact data", func(t *testing.T) {
		resp, err := svc.ListGuestsForOwner(ctx, owner.ID, inv.ID)
		require.NoError(t, err)

		assert.Equal(t, inv.ID, resp.InvitationID)
		require.Len(t, resp.Guests, 4)
		assert.Equal(t, "Ana", resp.Guests[0].Name)
		assert.Equal(t, "ana@example.com", *resp.Guests[0].Email)
		assert.Equal(t, models.RSVPStats{Accepted: 2, Declined: 1, Tentative: 1, Total: 4}, resp.RSVPStats)
	})

	t.Run("non owner gets not found", func(t *testing.T) {
		_, err := svc.ListGuestsForOwner(ctx, stranger.ID, inv.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("unknown and malformed ids get not found", func(t *testing.T) {
		_, err := svc.ListGuestsForOwner(ctx, owner.ID, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)

		_, err = svc.ListGuestsForOwner(ctx, owner.ID, "42")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestListGuestsForOwnerWorksOnDrafts(t *testing.T) {
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	draft := newInvitation(t, store, owner.ID, false)

	resp, err := NewVisibilityService(store, false).ListGuestsForOwner(context.Background(), owner.ID, draft.ID)
	require.NoError(t, err)

	assert.NotNil(t, resp.Guests)
	assert.Empty(t, resp.Guests)
	assert.Equal(t, models.RSVPStats{}, resp.RSVPStats)
}

func TestListGuestsPublic(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	seedMixedGuests(t, store, inv.UniqueCode)

	t.Run("only accepted guests, contacts kept by default", func(t *testing.T) {
		resp, err := NewVisibilityService(store, false).ListGuestsPublic(ctx, inv.UniqueCode)
		require.NoError(t, err)

		assert.Equal(t, 2, resp.TotalConfirmed)
		require.Len(t, resp.Guests, 2)
		for _, g := range resp.Guests {
			assert.Equal(t, models.RSVPAccepted, g.RSVPStatus)
		}
		assert.Equal(t, "ana@example.com", *resp.Guests[0].Email)
	})

	t.Run("redaction removes email and phone", func(t *testing.T) {
		resp, err := NewVisibilityService(store, true).ListGuestsPublic(ctx, inv.UniqueCode)
		require.NoError(t, err)

		require.Len(t, resp.Guests, 2)
		for _, g := range resp.Guests {
			assert.Nil(t, g.Email)
			assert.Nil(t, g.Phone)
			assert.NotEmpty(t, g.Name)
		}
	})

	t.Run("redaction does not touch stored records", func(t *testing.T) {
		for _, g := range store.AllGuests() {
			if g.Name == "Ana" {
				assert.NotNil(t, g.Email)
			}
		}
	})
}

func TestListGuestsPublicHidesUnpublished(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	draft := newInvitation(t, store, owner.ID, false)
	svc := NewVisibilityService(store, false)

	_, err := svc.ListGuestsPublic(ctx, draft.UniqueCode)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.ListGuestsPublic(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPublicInvitation(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	inv := newInvitation(t, store, owner.ID, true)
	draft := newInvitation(t, store, owner.ID, false)
	seedMixedGuests(t, store, inv.UniqueCode)
	svc := NewVisibilityService(store, false)

	resp, err := svc.PublicInvitation(ctx, inv.UniqueCode)
	require.NoError(t, err)
	assert.Equal(t, inv.ID, resp.Invitation.ID)
	assert.Equal(t, models.RSVPStats{Accepted: 2, Declined: 1, Tentative: 1, Total: 4}, resp.RSVPStats)
	assert.Equal(t, resp.RSVPStats, resp.Invitation.RSVPStats)

	_, err = svc.PublicInvitation(ctx, draft.UniqueCode)
	assert.ErrorIs(t, err, ErrNotFound)
}
