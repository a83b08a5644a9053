package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/LovationAdmin/birthday-api/models"
	"github.com/LovationAdmin/birthday-api/repositories"
	"github.com/LovationAdmin/birthday-api/utils"
)

type UserService struct {
	store  repositories.Store
	cipher *utils.Cipher
	now    func() time.Time
}

func NewUserService(store repositories.Store, cipher *utils.Cipher) *UserService {
	return &UserService{
		store:  store,
		cipher: cipher,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.store.Users().GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr("get user", err)
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if err := utils.V.Struct(req); err != nil {
		return &ValidationError{Message: utils.ValidationMessage(err)}
	}

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		if !utils.CheckPassword(req.OldPassword, user.PasswordHash) {
			utils.LogAuthAction("change password", user.Email, false)
			return fmt.Errorf("%w: current password is incorrect", ErrUnauthorized)
		}

		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
		user.UpdatedAt = s.now()
		if err := tx.Users().Update(ctx, user); err != nil {
			return storeErr("update user", err)
		}
		utils.LogAuthAction("change password", user.Email, true)
		return nil
	})
}

func (s *UserService) UpdateProfile(ctx context.Context, userID string, req models.UpdateProfileRequest) (*models.User, error) {
	if err := utils.V.Struct(req); err != nil {
		return nil, &ValidationError{Message: utils.ValidationMessage(err)}
	}
	if req.CompanyName != nil && strings.TrimSpace(*req.CompanyName) == "" {
		return nil, validationf("company_name cannot be empty")
	}

	var updated *models.User
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		req.Apply(user)
		user.UpdatedAt = s.now()
		if err := tx.Users().Update(ctx, user); err != nil {
			return storeErr("update user", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ============================================================================
// TWO-FACTOR AUTHENTICATION
// ============================================================================

// SetupTOTP generates a new secret and stores it encrypted. 2FA stays off
// until VerifyTOTP confirms the user can produce codes.
func (s *UserService) SetupTOTP(ctx context.Context, userID string) (*models.TOTPSetupResponse, error) {
	if !s.cipher.Enabled() {
		return nil, fmt.Errorf("%w: %w", ErrForbidden, utils.ErrEncryptionDisabled)
	}

	var resp *models.TOTPSetupResponse
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		if user.TOTPEnabled {
			return fmt.Errorf("%w: 2FA is already enabled", ErrConflict)
		}

		secret, url, qr, err := utils.GenerateTOTPSecret(user.Email)
		if err != nil {
			return fmt.Errorf("generate totp: %w", err)
		}
		sealed, err := s.cipher.Encrypt([]byte(secret))
		if err != nil {
			return fmt.Errorf("encrypt totp secret: %w", err)
		}

		user.TOTPSecret = sealed
		user.UpdatedAt = s.now()
		if err := tx.Users().Update(ctx, user); err != nil {
			return storeErr("update user", err)
		}
		resp = &models.TOTPSetupResponse{Secret: secret, URL: url, QRCode: qr}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *UserService) VerifyTOTP(ctx context.Context, userID string, req models.VerifyTOTPRequest) error {
	if err := utils.V.Struct(req); err != nil {
		return &ValidationError{Message: utils.ValidationMessage(err)}
	}

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		if user.TOTPSecret == "" {
			return validationf("2FA has not been set up")
		}
		if !s.checkTOTP(user, req.Code) {
			return fmt.Errorf("%w: invalid 2FA code", ErrUnauthorized)
		}

		user.TOTPEnabled = true
		user.UpdatedAt = s.now()
		if err := tx.Users().Update(ctx, user); err != nil {
			return storeErr("update user", err)
		}
		slog.Info("2FA enabled", "user", utils.MaskID(user.ID))
		return nil
	})
}

func (s *UserService) DisableTOTP(ctx context.Context, userID string, req models.DisableTOTPRequest) error {
	if err := utils.V.Struct(req); err != nil {
		return &ValidationError{Message: utils.ValidationMessage(err)}
	}

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			return fmt.Errorf("%w: invalid password", ErrUnauthorized)
		}
		if user.TOTPSecret != "" && !s.checkTOTP(user, req.Code) {
			return fmt.Errorf("%w: invalid 2FA code", ErrUnauthorized)
		}

		user.TOTPEnabled = false
		user.TOTPSecret = ""
		user.UpdatedAt = s.now()
		if err := tx.Users().Update(ctx, user); err != nil {
			return storeErr("update user", err)
		}
		slog.Info("2FA disabled", "user", utils.MaskID(user.ID))
		return nil
	})
}

func (s *UserService) checkTOTP(user *models.User, code string) bool {
	secret, err := s.cipher.Decrypt(user.TOTPSecret)
	if err != nil {
		slog.Error("cannot decrypt totp secret", "user", utils.MaskID(user.ID), "err", err)
		return false
	}
	return utils.VerifyTOTP(string(secret), code)
}

// ============================================================================
// ACCOUNT DELETION & EXPORT
// ============================================================================

// DeleteAccount removes the user together with every invitation, guest and
// template they own.
func (s *UserService) DeleteAccount(ctx context.Context, userID string, req models.DeleteAccountRequest) error {
	if err := utils.V.Struct(req); err != nil {
		return &ValidationError{Message: utils.ValidationMessage(err)}
	}

	return s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		if !utils.CheckPassword(req.Password, user.PasswordHash) {
			return fmt.Errorf("%w: invalid password", ErrUnauthorized)
		}
		if err := tx.Users().Delete(ctx, user.ID); err != nil {
			return storeErr("delete user", err)
		}
		slog.Info("account deleted", "user", utils.MaskID(user.ID))
		return nil
	})
}

// Export collects the user's profile, templates, invitations and the guests
// of each invitation.
func (s *UserService) Export(ctx context.Context, userID string) (*models.UserExport, error) {
	var out models.UserExport
	err := s.store.Transaction(ctx, func(tx repositories.Store) error {
		user, err := tx.Users().GetByID(ctx, userID)
		if err != nil {
			return storeErr("get user", err)
		}
		out.User = *user

		templates, err := tx.Templates().ListByOwner(ctx, userID)
		if err != nil {
			return storeErr("list templates", err)
		}
		out.Templates = templates

		invitations, err := tx.Invitations().ListByOwner(ctx, userID, repositories.Page{})
		if err != nil {
			return storeErr("list invitations", err)
		}
		out.Invitations = make([]models.InvitationExport, 0, len(invitations))
		for _, inv := range invitations {
			guests, err := tx.Guests().ListByInvitation(ctx, inv.ID)
			if err != nil {
				return storeErr("list guests", err)
			}
			inv.RSVPStats = Aggregate(guests)
			out.Invitations = append(out.Invitations, models.InvitationExport{Invitation: inv, Guests: guests})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.ExportedAt = s.now()
	return &out, nil
}

