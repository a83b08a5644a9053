package models

import (
	"time"
)

const DefaultTemplateKey = "classic_01"

// Invitation is one birthday event owned by one organizer.
type Invitation struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	TemplateID     *string    `json:"template_id"`
	BirthdayName   string     `json:"birthday_name"`
	BirthdayDate   time.Time  `json:"birthday_date"`
	BirthdayAge    *int       `json:"birthday_age"`
	EventTitle     string     `json:"event_title"`
	EventDate      time.Time  `json:"event_date"`
	EventTime      *string    `json:"event_time"`
	EventLocation  *string    `json:"event_location"`
	EventAddress   *string    `json:"event_address"`
	OrganizerName  *string    `json:"organizer_name"`
	OrganizerPhone *string    `json:"organizer_phone"`
	OrganizerEmail *string    `json:"organizer_email"`
	DressCode      *string    `json:"dress_code"`
	RSVPDeadline   *time.Time `json:"rsvp_deadline"`
	SpecialNotes   *string    `json:"special_notes"`
	TemplateKey    string     `json:"template_key"`
	HeroImageURL   *string    `json:"hero_image_url"`
	Image1URL      *string    `json:"image_1_url"`
	Image2URL      *string    `json:"image_2_url"`
	VideoURL       *string    `json:"video_url"`
	UniqueCode     string     `json:"unique_code"`
	ShareURL       string     `json:"share_url"`
	IsActive       bool       `json:"is_active"`
	IsPublished    bool       `json:"is_published"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	RSVPStats RSVPStats `json:"rsvp_stats"`
	Template  *Template `json:"template,omitempty"`
}

// CreateInvitationRequest carries dates as ISO-8601 strings so that a bad
// format can be reported as a validation error rather than a decode error.
type CreateInvitationRequest struct {
	TemplateID     *string `json:"template_id"`
	BirthdayName   string  `json:"birthday_name" binding:"required,max=255"`
	BirthdayDate   string  `json:"birthday_date" binding:"required"`
	BirthdayAge    *int    `json:"birthday_age" binding:"omitempty,min=0"`
	EventTitle     string  `json:"event_title" binding:"required,max=255"`
	EventDate      string  `json:"event_date" binding:"required"`
	EventTime      *string `json:"event_time" binding:"omitempty,max=10"`
	EventLocation  *string `json:"event_location"`
	EventAddress   *string `json:"event_address" binding:"omitempty,max=500"`
	OrganizerName  *string `json:"organizer_name" binding:"omitempty,max=255"`
	OrganizerPhone *string `json:"organizer_phone" binding:"omitempty,max=20"`
	OrganizerEmail *string `json:"organizer_email" binding:"omitempty,max=120"`
	DressCode      *string `json:"dress_code" binding:"omitempty,max=255"`
	RSVPDeadline   *string `json:"rsvp_deadline"`
	SpecialNotes   *string `json:"special_notes"`
	TemplateKey    *string `json:"template_key" binding:"omitempty,max=64"`
	HeroImageURL   *string `json:"hero_image_url" binding:"omitempty,max=1000"`
	Image1URL      *string `json:"image_1_url" binding:"omitempty,max=1000"`
	Image2URL      *string `json:"image_2_url" binding:"omitempty,max=1000"`
	VideoURL       *string `json:"video_url" binding:"omitempty,max=1000"`
}

// UpdateInvitationRequest lists exactly the mutable invitation fields. A nil
// field is left untouched; an empty template_id or rsvp_deadline clears it.
// The unique code and publication flag are not part of this request.
type UpdateInvitationRequest struct {
	TemplateID     *string `json:"template_id"`
	BirthdayName   *string `json:"birthday_name" binding:"omitempty,min=1,max=255"`
	BirthdayDate   *string `json:"birthday_date"`
	BirthdayAge    *int    `json:"birthday_age" binding:"omitempty,min=0"`
	EventTitle     *string `json:"event_title" binding:"omitempty,min=1,max=255"`
	EventDate      *string `json:"event_date"`
	EventTime      *string `json:"event_time" binding:"omitempty,max=10"`
	EventLocation  *string `json:"event_location"`
	EventAddress   *string `json:"event_address" binding:"omitempty,max=500"`
	OrganizerName  *string `json:"organizer_name" binding:"omitempty,max=255"`
	OrganizerPhone *string `json:"organizer_phone" binding:"omitempty,max=20"`
	OrganizerEmail *string `json:"organizer_email" binding:"omitempty,max=120"`
	DressCode      *string `json:"dress_code" binding:"omitempty,max=255"`
	RSVPDeadline   *string `json:"rsvp_deadline"`
	SpecialNotes   *string `json:"special_notes"`
	TemplateKey    *string `json:"template_key" binding:"omitempty,min=1,max=64"`
	HeroImageURL   *string `json:"hero_image_url" binding:"omitempty,max=1000"`
	Image1URL      *string `json:"image_1_url" binding:"omitempty,max=1000"`
	Image2URL      *string `json:"image_2_url" binding:"omitempty,max=1000"`
	VideoURL       *string `json:"video_url" binding:"omitempty,max=1000"`
	IsActive       *bool   `json:"is_active"`
}

type InvitationListResponse struct {
	Invitations []Invitation `json:"invitations"`
	Total       int          `json:"total"`
	Pages       int          `json:"pages"`
	CurrentPage int          `json:"current_page"`
}

type PublishResponse struct {
	Message    string     `json:"message"`
	Invitation Invitation `json:"invitation"`
	ShareURL   string     `json:"share_url"`
}

// PublicInvitationResponse never carries the guest roster.
type PublicInvitationResponse struct {
	Invitation Invitation `json:"invitation"`
	RSVPStats  RSVPStats  `json:"rsvp_stats"`
}
