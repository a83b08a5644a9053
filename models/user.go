package models

import "time"

// ============================================================================
// USER MODEL
// ============================================================================

// User is an organizer account. Only organizers authenticate; guests never do.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CompanyName  string    `json:"company_name"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	IsActive     bool      `json:"is_active"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	TOTPSecret   string    `json:"-"` // Encrypted at rest, never exposed
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ============================================================================
// AUTHENTICATION REQUESTS
// ============================================================================

type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	CompanyName string `json:"company_name" binding:"required"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
}

// LoginRequest accepts either email or username; both address the email column.
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
	TOTPCode string `json:"totp_code,omitempty"`
}

// Identifier returns the login identifier, preferring email over username.
func (r LoginRequest) Identifier() string {
	if r.Email != "" {
		return r.Email
	}
	return r.Username
}

type AuthResponse struct {
	Message     string `json:"message"`
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// ============================================================================
// PROFILE, PASSWORD & 2FA
// ============================================================================

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// UpdateProfileRequest lists exactly the mutable profile fields. A nil field is left untouched.
type UpdateProfileRequest struct {
	CompanyName *string `json:"company_name" binding:"omitempty,min=1"`
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
}

func (r UpdateProfileRequest) Apply(u *User) {
	if r.CompanyName != nil {
		u.CompanyName = *r.CompanyName
	}
	if r.FirstName != nil {
		u.FirstName = *r.FirstName
	}
	if r.LastName != nil {
		u.LastName = *r.LastName
	}
}

type TOTPSetupResponse struct {
	Secret string `json:"secret"`
	URL    string `json:"url"`
	QRCode string `json:"qr_code"`
}

type VerifyTOTPRequest struct {
	Code string `json:"code" binding:"required,len=6"`
}

type DisableTOTPRequest struct {
	Password string `json:"password" binding:"required"`
	Code     string `json:"code" binding:"required,len=6"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" binding:"required"`
}

// ============================================================================
// DATA EXPORT
// ============================================================================

// UserExport is everything stored about one organizer.
type UserExport struct {
	User        User               `json:"user"`
	Invitations []InvitationExport `json:"invitations"`
	Templates   []Template         `json:"templates"`
	ExportedAt  time.Time          `json:"exported_at"`
}

type InvitationExport struct {
	Invitation
	Guests []Guest `json:"guests"`
}
