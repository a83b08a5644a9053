package models

import "time"

// RSVPStatus is the closed set of guest response states.
type RSVPStatus string

const (
	RSVPPending   RSVPStatus = "pending"
	RSVPAccepted  RSVPStatus = "accepted"
	RSVPDeclined  RSVPStatus = "declined"
	RSVPTentative RSVPStatus = "tentative"
)

// Valid reports whether s is one of the four known statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPPending, RSVPAccepted, RSVPDeclined, RSVPTentative:
		return true
	}
	return false
}

// Submittable reports whether a guest may submit s. Pending is reserved for
// records that have no response yet.
func (s RSVPStatus) Submittable() bool {
	return s == RSVPAccepted || s == RSVPDeclined || s == RSVPTentative
}

// Guest is one respondent's reply to one invitation.
type Guest struct {
	ID                  string     `json:"id"`
	InvitationID        string     `json:"invitation_id"`
	Name                string     `json:"name"`
	Email               *string    `json:"email"`
	Phone               *string    `json:"phone"`
	RSVPStatus          RSVPStatus `json:"rsvp_status"`
	RSVPDate            *time.Time `json:"rsvp_date"`
	NumberOfGuests      int        `json:"number_of_guests"`
	DietaryRestrictions *string    `json:"dietary_restrictions"`
	Notes               *string    `json:"notes"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// WithoutContact returns a copy of g with email and phone cleared.
func (g Guest) WithoutContact() Guest {
	g.Email = nil
	g.Phone = nil
	return g
}

// RSVPRequest is the public RSVP submission body.
type RSVPRequest struct {
	GuestName           string     `json:"guest_name" binding:"required,max=255"`
	GuestEmail          string     `json:"guest_email" binding:"max=120"`
	GuestPhone          string     `json:"guest_phone" binding:"max=20"`
	RSVPStatus          RSVPStatus `json:"rsvp_status" binding:"required,oneof=accepted declined tentative"`
	NumberOfGuests      *int       `json:"number_of_guests" binding:"omitempty,min=1"`
	DietaryRestrictions *string    `json:"dietary_restrictions"`
	Notes               *string    `json:"notes"`
}

// PartySize returns the requested party size, defaulting to 1 when omitted.
func (r RSVPRequest) PartySize() int {
	if r.NumberOfGuests == nil {
		return 1
	}
	return *r.NumberOfGuests
}

type RSVPResponse struct {
	Message   string    `json:"message"`
	Guest     Guest     `json:"guest"`
	RSVPStats RSVPStats `json:"rsvp_stats"`
}

type PublicGuestsResponse struct {
	Guests         []Guest `json:"guests"`
	TotalConfirmed int     `json:"total_confirmed"`
}

type OwnerGuestsResponse struct {
	InvitationID string    `json:"invitation_id"`
	RSVPStats    RSVPStats `json:"rsvp_stats"`
	Guests       []Guest   `json:"guests"`
}

// RSVPEvent is pushed to owners watching an invitation live.
type RSVPEvent struct {
	Type         string     `json:"type"`
	InvitationID string     `json:"invitation_id"`
	GuestID      string     `json:"guest_id"`
	GuestName    string     `json:"guest_name"`
	RSVPStatus   RSVPStatus `json:"rsvp_status"`
	RSVPStats    RSVPStats  `json:"rsvp_stats"`
}
