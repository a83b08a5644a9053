package services

import (
	"context"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
)

type StatsService struct {
	store repositories.Store
}

func NewStatsService(store repositories.Store) *StatsService {
	return &StatsService{store: store}
}

// OwnerStats sums the per-invitation aggregate over every invitation the
// owner has. All reads share one transaction so the totals are consistent.
func (s *StatsService) OwnerStats(ctx context.Context, ownerID string) (*models.OwnerStats, error) {
	var out models.OwnerStats
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Users().GetByID(ctx, ownerID); err != nil {
			return storeErr("get user", err)
		}

		invitations, err := tx.Invitations().ListByOwner(ctx, ownerID, repositories.Page{})
		if err != nil {
			return storeErr("list invitations", err)
		}

		var sum models.RSVPStats
		for _, inv := range invitations {
			stats, err := InvitationStats(ctx, tx, inv.ID)
			if err != nil {
				return err
			}
			sum = sum.Add(stats)
			if inv.IsPublished {
				out.PublishedInvitations++
			}
		}

		templates, err := tx.Templates().CountByOwner(ctx, ownerID)
		if err != nil {
			return storeErr("count templates", err)
		}

		out.TotalInvitations = len(invitations)
		out.TotalTemplates = templates
		out.TotalGuests = sum.Total
		out.RSVPAccepted = sum.Accepted
		out.RSVPDeclined = sum.Declined
		out.RSVPTentative = sum.Tentative
		out.RSVPPending = sum.Pending
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
