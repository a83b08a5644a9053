package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerStatsSumsPerInvitationAggregates(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemoryStore()
	owner := newOwner(t, store, "owner@example.com")
	other := newOwner(t, store, "other@example.com")

	a := newInvitation(t, store, owner.ID, true)
	b := newInvitation(t, store, owner.ID, true)
	newInvitation(t, store, owner.ID, false)
	foreign := newInvitation(t, store, other.ID, true)

	_, err := NewTemplateService(store).Create(ctx, owner.ID, models.CreateTemplateRequest{Name: "Azul"})
	require.NoError(t, err)

	rsvps := NewRSVPService(store, nil, nil)
	for code, reqs := range map[string][]models.RSVPRequest{
		a.UniqueCode: {
			rsvp("Ana", "ana@example.com", "", models.RSVPAccepted),
			rsvp("Bea", "bea@example.com", "", models.RSVPDeclined),
		},
		b.UniqueCode: {
			rsvp("Ana", "ana@example.com", "", models.RSVPAccepted),
			rsvp("Carmen", "", "", models.RSVPTentative),
		},
		foreign.UniqueCode: {
			rsvp("Zoe", "", "", models.RSVPAccepted),
		},
	} {
		for _, req := range reqs {
			_, err := rsvps.Submit(ctx, code, req)
			require.NoError(t, err)
		}
	}

	stats, err := NewStatsService(store).OwnerStats(ctx, owner.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OwnerStats{
		TotalInvitations:     3,
		PublishedInvitations: 2,
		TotalTemplates:       1,
		TotalGuests:          4,
		RSVPAccepted:         2,
		RSVPDeclined:         1,
		RSVPTentative:        1,
	}, *stats)
	assert.Equal(t, stats.TotalGuests, stats.RSVPAccepted+stats.RSVPDeclined+stats.RSVPTentative+stats.RSVPPending)
}

func TestOwnerStatsUnknownUser(t *testing.T) {
	_, err := NewStatsService(testutils.NewMemoryStore()).OwnerStats(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}
