package services

import (
	"context"
	"testing"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/testutils"

	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func newOwner(t *testing.T, store *testutils.MemoryStore, email string) models.User {
	t.Helper()
	auth := NewAuthService(store, nil, nil, true)
	user, err := auth.createUser(context.Background(), models.RegisterRequest{
		Email:       email,
		Password:    "secret123",
		CompanyName: "Fiestas SL",
	})
	require.NoError(t, err)
	return *user
}

func newInvitation(t *testing.T, store *testutils.MemoryStore, ownerID string, publish bool) models.Invitation {
	t.Helper()
	svc := NewInvitationService(store)
	inv, err := svc.Create(context.Background(), ownerID, models.CreateInvitationRequest{
		BirthdayName: "Lucía",
		BirthdayDate: "2018-05-20",
		EventTitle:   "Cumpleaños de Lucía",
		EventDate:    "2026-05-20T17:00:00",
	})
	require.NoError(t, err)
	if publish {
		inv, err = svc.Publish(context.Background(), ownerID, inv.ID)
		require.NoError(t, err)
	}
	return *inv
}

func rsvp(name, email, phone string, status models.RSVPStatus) models.RSVPRequest {
	return models.RSVPRequest{
		GuestName:  name,
		GuestEmail: email,
		GuestPhone: phone,
		RSVPStatus: status,
	}
}
