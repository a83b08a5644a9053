package services

import (
	"context"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
)

// Aggregate counts guests by status. Total counts every record, so the four
// named counts always sum to it.
func Aggregate(guests []models.Guest) models.RSVPStats {
	var stats models.RSVPStats
	for _, g := range guests {
		switch g.RSVPStatus {
		case models.RSVPAccepted:
			stats.Accepted++
		case models.RSVPDeclined:
			stats.Declined++
		case models.RSVPTentative:
			stats.Tentative++
		case models.RSVPPending:
			stats.Pending++
		}
		stats.Total++
	}
	return stats
}

// InvitationStats recomputes the stats of one invitation from the store.
func InvitationStats(ctx context.Context, store repositories.Store, invitationID string) (models.RSVPStats, error) {
	guests, err := store.Guests().ListByInvitation(ctx, invitationID)
	if err != nil {
		return models.RSVPStats{}, storeErr("list guests", err)
	}
	return Aggregate(guests), nil
}
