package models

// RSVPStats is a snapshot of guest counts by status for one invitation.
type RSVPStats struct {
	Accepted  int `json:"accepted"`
	Declined  int `json:"declined"`
	Tentative int `json:"tentative"`
	Pending   int `json:"pending"`
	Total     int `json:"total"`
}

// Add returns the field-wise sum of s and o.
func (s RSVPStats) Add(o RSVPStats) RSVPStats {
	return RSVPStats{
		Accepted:  s.Accepted + o.Accepted,
		Declined:  s.Declined + o.Declined,
		Tentative: s.Tentative + o.Tentative,
		Pending:   s.Pending + o.Pending,
		Total:     s.Total + o.Total,
	}
}

// OwnerStats summarizes everything an organizer owns.
type OwnerStats struct {
	TotalInvitations     int `json:"total_invitations"`
	PublishedInvitations int `json:"published_invitations"`
	TotalTemplates       int `json:"total_templates"`
	TotalGuests          int `json:"total_guests"`
	RSVPAccepted         int `json:"rsvp_accepted"`
	RSVPDeclined         int `json:"rsvp_declined"`
	RSVPTentative        int `json:"rsvp_tentative"`
	RSVPPending          int `json:"rsvp_pending"`
}
