package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/utils"

	"github.com/google/uuid"
)

type TemplateService struct {
	store repositories.Store
	now   func() time.Time
}

func NewTemplateService(store repositories.Store) *TemplateService {
	return &TemplateService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *TemplateService) Create(ctx context.Context, ownerID string, req models.CreateTemplateRequest) (*models.Template, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := utils.V.Struct(req); err != nil {
		return nil, &ValidationError{Message: utils.ValidationMessage(err)}
	}

	now := s.now()
	tpl := models.NewTemplate(ownerID, req)
	tpl.ID = uuid.NewString()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now

	if err := s.store.Templates().Create(ctx, &tpl); err != nil {
		return nil, storeErr("create template", err)
	}
	return &tpl, nil
}

func (s *TemplateService) List(ctx context.Context, ownerID string) (*models.TemplateListResponse, error) {
	templates, err := s.store.Templates().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, storeErr("list templates", err)
	}
	return &models.TemplateListResponse{Templates: templates, Total: len(templates)}, nil
}

func (s *TemplateService) Get(ctx context.Context, ownerID, id string) (*models.Template, error) {
	return ownedTemplate(ctx, s.store, ownerID, id)
}

func (s *TemplateService) Update(ctx context.Context, ownerID, id string, req models.UpdateTemplateRequest) (*models.Template, error) {
	if err := utils.V.Struct(req); err != nil {
		return nil, &ValidationError{Message: utils.ValidationMessage(err)}
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, validationf("name cannot be empty")
	}

	var updated *models.Template
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		tpl, err := ownedTemplate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		req.Apply(tpl)
		tpl.UpdatedAt = s.now()
		if err := tx.Templates().Update(ctx, tpl); err != nil {
			return storeErr("update template", err)
		}
		updated = tpl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete refuses with ErrConflict while any invitation still uses the template.
func (s *TemplateService) Delete(ctx context.Context, ownerID, id string) error {
	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		tpl, err := ownedTemplate(ctx, tx, ownerID, id)
		if err != nil {
			return err
		}
		inUse, err := tx.Invitations().CountByTemplate(ctx, tpl.ID)
		if err != nil {
			return storeErr("count template usage", err)
		}
		if inUse > 0 {
			return fmt.Errorf("%w: template is used by %d invitation(s)", ErrConflict, inUse)
		}
		return storeErr("delete template", tx.Templates().Delete(ctx, tpl.ID))
	})
}

func ownedTemplate(ctx context.Context, store repositories.Store, ownerID, id string) (*models.Template, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrNotFound
	}
	tpl, err := store.Templates().GetByID(ctx, id)
	if err != nil {
		return nil, storeErr("get template", err)
	}
	if tpl.UserID != ownerID {
		return nil, ErrNotFound
	}
	return tpl, nil
}
