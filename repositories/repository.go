// Package repositories is the persistence boundary. Services never touch
// *sql.DB directly: they receive a Store, and anything that must be atomic
// runs inside Store.Transaction against the Store handed to the callback.
package repositories

import (
	"context"
	"errors"

	"github.com/LovationAdmin/birthday-api/models"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// Page bounds a list query. A non-positive Limit means no limit.
type Page struct {
	Limit  int
	Offset int
}

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

type InvitationRepository interface {
	Create(ctx context.Context, invitation *models.Invitation) error
	GetByID(ctx context.Context, id string) (*models.Invitation, error)
	GetByCode(ctx context.Context, code string) (*models.Invitation, error)
	ListByOwner(ctx context.Context, ownerID string, page Page) ([]models.Invitation, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	CountByTemplate(ctx context.Context, templateID string) (int, error)
	Update(ctx context.Context, invitation *models.Invitation) error
	Delete(ctx context.Context, id string) error
}

type GuestRepository interface {
	Create(ctx context.Context, guest *models.Guest) error
	Update(ctx context.Context, guest *models.Guest) error
	FindByEmail(ctx context.Context, invitationID, email string) (*models.Guest, error)
	FindByPhone(ctx context.Context, invitationID, phone string) (*models.Guest, error)
	ListByInvitation(ctx context.Context, invitationID string) ([]models.Guest, error)
}

type TemplateRepository interface {
	Create(ctx context.Context, template *models.Template) error
	GetByID(ctx context.Context, id string) (*models.Template, error)
	ListByOwner(ctx context.Context, ownerID string) ([]models.Template, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	Update(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, id string) error
}

// Store is the persistence context handed to every operation.
type Store interface {
	Users() UserRepository
	Invitations() InvitationRepository
	Guests() GuestRepository
	Templates() TemplateRepository

	// Transaction runs fn with a Store bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error
}
